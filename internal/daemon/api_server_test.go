package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curator/internal/api"
	"curator/internal/config"
	"curator/internal/identification"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/scanjob"
	"curator/internal/testsupport"
)

func testDaemon(t *testing.T) (*Daemon, *library.Store, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	matcher := identification.NewMatcher(nil, logging.NewNop())
	orchestrator := scanjob.New(cfg, store, matcher, logging.NewNop())

	d, err := New(cfg, store, orchestrator, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
	})
	return d, store, cfg
}

func doRequest(t *testing.T, d *Daemon, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	d.api.handler().ServeHTTP(rec, req)
	return rec
}

func TestScanEndpointAcceptsJob(t *testing.T) {
	d, store, _ := testDaemon(t)
	incoming := t.TempDir()

	rec := doRequest(t, d, http.MethodPost, "/api/scan", `{"path":"`+incoming+`"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted api.ScanAccepted
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.Job.ID == "" || accepted.Job.Status != string(library.JobRunning) {
		t.Fatalf("unexpected job payload: %+v", accepted.Job)
	}

	// The empty directory should finish quickly.
	deadline := time.Now().Add(5 * time.Second)
	for {
		job, err := store.GetJob(context.Background(), accepted.Job.ID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if job != nil && job.Finished() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scan did not finish")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScanEndpointRejectsConcurrentJob(t *testing.T) {
	d, store, _ := testDaemon(t)
	if _, err := store.CreateJob(context.Background()); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	rec := doRequest(t, d, http.MethodPost, "/api/scan", `{"path":"`+t.TempDir()+`"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScanEndpointValidation(t *testing.T) {
	d, _, _ := testDaemon(t)

	if rec := doRequest(t, d, http.MethodPost, "/api/scan", `not-json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", rec.Code)
	}
	if rec := doRequest(t, d, http.MethodPost, "/api/scan", `{"path":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty path, got %d", rec.Code)
	}
	if rec := doRequest(t, d, http.MethodGet, "/api/scan", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestJobEndpoints(t *testing.T) {
	d, store, _ := testDaemon(t)
	ctx := context.Background()

	job, err := store.CreateJob(ctx)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	rec := doRequest(t, d, http.MethodGet, "/api/jobs/"+job.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var single api.JobResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &single); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if single.Job.ID != job.ID {
		t.Fatalf("unexpected job: %+v", single.Job)
	}

	if rec := doRequest(t, d, http.MethodGet, "/api/jobs/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, d, http.MethodGet, "/api/jobs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list api.JobListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list.Jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(list.Jobs))
	}
}

func TestItemsEndpointFiltersAndValidates(t *testing.T) {
	d, store, _ := testDaemon(t)
	ctx := context.Background()

	if err := store.SaveItem(ctx, &library.Item{
		Path:       "/incoming/unknown.mkv",
		Type:       library.TypeMovie,
		Status:     library.StatusUncategorized,
		SourcePath: "/incoming/unknown.mkv",
		Reason:     "No Results",
	}); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	rec := doRequest(t, d, http.MethodGet, "/api/items?status=uncategorized", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items api.ItemListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items.Items) != 1 || items.Items[0].Reason != "No Results" {
		t.Fatalf("unexpected items: %+v", items.Items)
	}

	if rec := doRequest(t, d, http.MethodGet, "/api/items?status=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	d, store, cfg := testDaemon(t)

	rec := doRequest(t, d, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Running {
		t.Fatal("daemon not started, expected running=false")
	}
	if status.LibraryDBPath != filepath.Join(cfg.Paths.LogDir, "library.db") {
		t.Fatalf("unexpected db path: %s", status.LibraryDBPath)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("unexpected pid: %d", status.PID)
	}

	if job, err := store.CreateJob(context.Background()); err != nil || job == nil {
		t.Fatalf("CreateJob: %v", err)
	}
	rec = doRequest(t, d, http.MethodGet, "/api/status", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.ActiveJob == nil {
		t.Fatal("expected active job in status payload")
	}
}
