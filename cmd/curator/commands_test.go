package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curator/internal/api"
)

func executeCommand(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--api", server.URL))
	err := cmd.Execute()
	return buf.String(), err
}

func TestScanCommandStartsJob(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/scan" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req api.ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotPath = req.Path
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(api.ScanAccepted{Job: api.ScanJob{ID: "job-1", Status: "running"}})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "scan", t.TempDir())
	if err != nil {
		t.Fatalf("scan command: %v", err)
	}
	if gotPath == "" {
		t.Fatal("scan path not sent to daemon")
	}
	if !strings.Contains(out, "Scan job job-1 started") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestScanCommandSurfacesConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "a scan job is already running"})
	}))
	defer server.Close()

	_, err := executeCommand(t, server, "scan", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestJobsCommandRendersTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(api.JobListResponse{Jobs: []api.ScanJob{{
			ID:             "job-1",
			Status:         "completed",
			TotalFiles:     4,
			ProcessedFiles: 4,
			Stats:          api.JobStats{Movies: 3, TVEpisodes: 1},
		}}})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "jobs")
	if err != nil {
		t.Fatalf("jobs command: %v", err)
	}
	if !strings.Contains(out, "job-1") || !strings.Contains(out, "completed") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestItemsCommandPassesStatusFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "uncategorized" {
			t.Errorf("unexpected status filter: %q", got)
		}
		_ = json.NewEncoder(w).Encode(api.ItemListResponse{Items: []api.Item{{
			Path:   "/incoming/unknown.mkv",
			Type:   "movie",
			Status: "uncategorized",
			Reason: "No Results",
		}}})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "items", "--status", "uncategorized")
	if err != nil {
		t.Fatalf("items command: %v", err)
	}
	if !strings.Contains(out, "No Results") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestStatusCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.DaemonStatus{
			Running:       true,
			PID:           1234,
			LibraryDBPath: "/tmp/library.db",
			ItemCounts:    map[string]int{"organized": 7, "uncategorized": 2},
		})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "status")
	if err != nil {
		t.Fatalf("status command: %v", err)
	}
	if !strings.Contains(out, "pid 1234") || !strings.Contains(out, "7 items") {
		t.Fatalf("unexpected output: %q", out)
	}
}
