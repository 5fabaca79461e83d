package scanjob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/identification"
	"curator/internal/identification/tmdb"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/testsupport"
)

type scriptedSearcher struct {
	movieResults []tmdb.Result
	tvResults    []tmdb.Result
	err          error
	calls        int
}

func (s *scriptedSearcher) SearchMovie(context.Context, string, tmdb.SearchOptions) (*tmdb.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &tmdb.Response{Results: s.movieResults}, nil
}

func (s *scriptedSearcher) SearchTV(context.Context, string, tmdb.SearchOptions) (*tmdb.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &tmdb.Response{Results: s.tvResults}, nil
}

type fixture struct {
	cfg      *config.Config
	store    *library.Store
	searcher *scriptedSearcher
	orch     *Orchestrator
	incoming string
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Scan.ProgressFlushFiles = 2
	store := testsupport.MustOpenStore(t, cfg)

	searcher := &scriptedSearcher{
		movieResults: []tmdb.Result{{
			ID:            42,
			Title:         "Epic Journey",
			OriginalTitle: "Epic Journey",
			ReleaseDate:   "2024-03-01",
			Popularity:    80,
			VoteCount:     5000,
		}},
		tvResults: []tmdb.Result{{
			ID:           7,
			Name:         "Great Show",
			OriginalName: "Great Show",
			FirstAirDate: "2019-09-01",
			Popularity:   95,
			VoteCount:    9000,
		}},
	}
	matcher := identification.NewMatcher(searcher, logging.NewNop())
	orch := New(cfg, store, matcher, logging.NewNop())

	incoming := filepath.Join(t.TempDir(), "incoming")
	if err := os.MkdirAll(incoming, 0o755); err != nil {
		t.Fatal(err)
	}

	return &fixture{cfg: cfg, store: store, searcher: searcher, orch: orch, incoming: incoming}
}

func (f *fixture) addFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.incoming, name)
	testsupport.WriteFile(t, path, 64)
	return path
}

func (f *fixture) runScan(t *testing.T, root string) *library.ScanJob {
	t.Helper()
	ctx := context.Background()
	job, err := f.store.CreateJob(ctx)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	f.orch.Run(ctx, job, root)
	loaded, err := f.store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if loaded == nil {
		t.Fatal("job missing after run")
	}
	return loaded
}

func TestRunOrganizesMovieAndEpisode(t *testing.T) {
	f := newFixture(t)
	movieSrc := f.addFile(t, "Epic.Journey.2024.1080p.BluRay.x264.mkv")
	episodeSrc := f.addFile(t, "Great.Show.S01E09.720p.WEB-DL.mkv")
	f.addFile(t, "notes.txt")

	job := f.runScan(t, f.incoming)

	if job.Status != library.JobCompleted {
		t.Fatalf("expected completed job, got %s (%s)", job.Status, job.ErrorMessage)
	}
	if job.TotalFiles != 2 || job.ProcessedFiles != 2 {
		t.Fatalf("unexpected progress: %+v", job)
	}
	if job.Stats.Movies != 1 || job.Stats.TVEpisodes != 1 || job.Stats.Uncategorized != 0 {
		t.Fatalf("unexpected stats: %+v", job.Stats)
	}
	if job.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}

	movieDst := filepath.Join(f.cfg.MoviesRoot(), "Epic Journey (2024)", "Epic Journey (2024) - 1080p.mkv")
	episodeDst := filepath.Join(f.cfg.TVRoot(), "Great Show", "Season 01", "Great Show - S01E09.mkv")
	for _, dst := range []string{movieDst, episodeDst} {
		if _, err := os.Stat(dst); err != nil {
			t.Fatalf("destination missing: %v", err)
		}
	}
	for _, src := range []string{movieSrc, episodeSrc} {
		if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("source not moved: %s", src)
		}
	}

	ctx := context.Background()
	item, err := f.store.GetItem(ctx, movieDst)
	if err != nil || item == nil {
		t.Fatalf("organized item not tracked under destination: %v", err)
	}
	if item.Status != library.StatusOrganized || item.Identification.TMDBID != 42 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if old, _ := f.store.GetItem(ctx, movieSrc); old != nil {
		t.Fatalf("source record should be re-keyed: %+v", old)
	}
}

func TestRunDefersUnmatchedFiles(t *testing.T) {
	f := newFixture(t)
	f.searcher.movieResults = nil
	src := f.addFile(t, "Obscure.Film.2001.DVDRip.mkv")

	job := f.runScan(t, f.incoming)

	if job.Status != library.JobCompleted {
		t.Fatalf("expected completed job, got %s", job.Status)
	}
	if job.Stats.Uncategorized != 1 || job.Stats.Movies != 0 {
		t.Fatalf("unexpected stats: %+v", job.Stats)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("unmatched file must stay in place: %v", err)
	}

	item, err := f.store.GetItem(context.Background(), src)
	if err != nil || item == nil {
		t.Fatalf("deferred item not tracked: %v", err)
	}
	if item.Status != library.StatusUncategorized || item.Reason != "No Results" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestRunFailsJobOnMissingRoot(t *testing.T) {
	f := newFixture(t)
	job := f.runScan(t, filepath.Join(f.incoming, "does-not-exist"))

	if job.Status != library.JobFailed {
		t.Fatalf("expected failed job, got %s", job.Status)
	}
	if job.ErrorMessage == "" || job.FinishedAt == nil {
		t.Fatalf("failure not recorded: %+v", job)
	}
}

func TestRunSkipsSearchForFilesAlreadyInLibrary(t *testing.T) {
	f := newFixture(t)
	organized := filepath.Join(f.cfg.MoviesRoot(), "Epic Journey (2024)", "Epic Journey (2024).mkv")
	testsupport.WriteFile(t, organized, 64)

	job := f.runScan(t, f.cfg.Paths.LibraryDir)

	if job.Stats.Movies != 1 || job.Stats.Uncategorized != 0 {
		t.Fatalf("unexpected stats: %+v", job.Stats)
	}
	if f.searcher.calls != 0 {
		t.Fatalf("library files must not be searched, got %d calls", f.searcher.calls)
	}

	item, err := f.store.GetItem(context.Background(), organized)
	if err != nil || item == nil {
		t.Fatalf("library item not tracked: %v", err)
	}
	if item.Status != library.StatusOrganized {
		t.Fatalf("unexpected status: %+v", item)
	}
}

func TestRunRelocationFailureDemotesFile(t *testing.T) {
	f := newFixture(t)
	moviesRoot := f.cfg.MoviesRoot()
	if err := os.RemoveAll(moviesRoot); err != nil {
		t.Fatal(err)
	}
	// A regular file where the Movies tree should be makes every
	// destination mkdir fail.
	if err := os.WriteFile(moviesRoot, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	src := f.addFile(t, "Epic.Journey.2024.1080p.mkv")

	job := f.runScan(t, f.incoming)

	if job.Status != library.JobCompleted {
		t.Fatalf("per-file failures must not fail the job: %+v", job)
	}
	if job.Stats.Errors != 1 || job.Stats.Uncategorized != 1 || job.Stats.Movies != 0 {
		t.Fatalf("unexpected stats: %+v", job.Stats)
	}
	if len(job.Errors) != 1 || job.Errors[0].Path != src || job.Errors[0].Error == "" {
		t.Fatalf("failure not recorded against source: %+v", job.Errors)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must stay in place: %v", err)
	}

	item, err := f.store.GetItem(context.Background(), src)
	if err != nil || item == nil {
		t.Fatalf("demoted item not tracked: %v", err)
	}
	if item.Status != library.StatusUncategorized || item.Reason == "" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestRunResolvesRelativeScanRoots(t *testing.T) {
	f := newFixture(t)
	organized := filepath.Join(f.cfg.MoviesRoot(), "Epic Journey (2024)", "Epic Journey (2024).mkv")
	testsupport.WriteFile(t, organized, 64)

	t.Chdir(filepath.Dir(f.cfg.Paths.LibraryDir))
	job := f.runScan(t, filepath.Base(f.cfg.Paths.LibraryDir))

	if job.Status != library.JobCompleted || job.Stats.Movies != 1 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if f.searcher.calls != 0 {
		t.Fatalf("library files must not be searched, got %d calls", f.searcher.calls)
	}
}

func TestRunCopyModeKeepsSource(t *testing.T) {
	f := newFixture(t, testsupport.WithCopyMode())
	src := f.addFile(t, "Epic.Journey.2024.1080p.mkv")

	job := f.runScan(t, f.incoming)

	if job.Status != library.JobCompleted || job.Stats.Movies != 1 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("copy mode must keep the source: %v", err)
	}
	dst := filepath.Join(f.cfg.MoviesRoot(), "Epic Journey (2024)", "Epic Journey (2024) - 1080p.mkv")
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
}

func TestRunDryRunLeavesFilesInPlace(t *testing.T) {
	f := newFixture(t, testsupport.WithDryRun())
	src := f.addFile(t, "Epic.Journey.2024.1080p.mkv")

	job := f.runScan(t, f.incoming)

	if job.Status != library.JobCompleted || job.Stats.Movies != 1 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("dry run must not move files: %v", err)
	}

	item, err := f.store.GetItem(context.Background(), src)
	if err != nil || item == nil {
		t.Fatalf("dry run item not tracked: %v", err)
	}
	if item.Status != library.StatusOrganized || item.DestinationPath == "" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if _, err := os.Stat(item.DestinationPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run created destination: %s", item.DestinationPath)
	}
}

func TestRunRecordsSearchTransportFailures(t *testing.T) {
	f := newFixture(t)
	f.searcher.err = errors.New("connection reset")
	src := f.addFile(t, "Epic.Journey.2024.1080p.mkv")

	job := f.runScan(t, f.incoming)

	if job.Status != library.JobCompleted {
		t.Fatalf("transport failures must not fail the job: %+v", job)
	}
	if job.Stats.Uncategorized != 1 {
		t.Fatalf("unexpected stats: %+v", job.Stats)
	}

	item, err := f.store.GetItem(context.Background(), src)
	if err != nil || item == nil {
		t.Fatalf("item not tracked: %v", err)
	}
	if item.Reason == "" || item.Status != library.StatusUncategorized {
		t.Fatalf("unexpected item: %+v", item)
	}
}
