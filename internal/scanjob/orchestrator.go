package scanjob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/identification"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/organizer"
	"curator/internal/scanner"
	"curator/internal/services"
)

// Orchestrator runs scan jobs against the library store.
type Orchestrator struct {
	cfg        *config.Config
	store      *library.Store
	crawler    *scanner.Crawler
	matcher    *identification.Matcher
	paths      *organizer.PathBuilder
	relocator  *organizer.Relocator
	logger     *slog.Logger
	queryDelay time.Duration
	flushEvery int
}

// New constructs an orchestrator using default collaborators.
func New(cfg *config.Config, store *library.Store, matcher *identification.Matcher, logger *slog.Logger) *Orchestrator {
	return NewWithDependencies(
		cfg,
		store,
		scanner.New(logger),
		matcher,
		organizer.NewPathBuilder(cfg),
		organizer.NewRelocator(cfg, logger),
		logger,
	)
}

// NewWithDependencies allows injecting collaborators (used in tests).
func NewWithDependencies(
	cfg *config.Config,
	store *library.Store,
	crawler *scanner.Crawler,
	matcher *identification.Matcher,
	paths *organizer.PathBuilder,
	relocator *organizer.Relocator,
	logger *slog.Logger,
) *Orchestrator {
	flushEvery := cfg.Scan.ProgressFlushFiles
	if flushEvery < 1 {
		flushEvery = 1
	}
	return &Orchestrator{
		cfg:        cfg,
		store:      store,
		crawler:    crawler,
		matcher:    matcher,
		paths:      paths,
		relocator:  relocator,
		logger:     logging.WithComponent(logger, "scanjob"),
		queryDelay: time.Duration(cfg.Scan.QueryDelayMS) * time.Millisecond,
		flushEvery: flushEvery,
	}
}

// Start creates a scan job and runs it in the background. Returns
// library.ErrJobRunning when another scan is already active.
func (o *Orchestrator) Start(ctx context.Context, root string) (*library.ScanJob, error) {
	job, err := o.store.CreateJob(ctx)
	if err != nil {
		return nil, err
	}
	go o.Run(ctx, job, root)
	return job, nil
}

// Run executes a scan synchronously, persisting progress as it goes. Setup
// failures mark the whole job failed; per-file failures are recorded against
// the job and the scan continues.
func (o *Orchestrator) Run(ctx context.Context, job *library.ScanJob, root string) {
	logger := o.logger.With(logging.String(logging.FieldJobID, job.ID))
	logger.Info("scan started", logging.String(logging.FieldPath, root))

	root, err := o.preflight(root)
	if err != nil {
		logger.Error("scan preflight failed", logging.Error(err))
		o.failJob(ctx, job, err, logger)
		return
	}

	candidates, err := o.crawler.Crawl(root)
	if err != nil {
		o.failJob(ctx, job, services.Wrap(services.ErrFilesystem, "scanning", "read scan root", err), logger)
		return
	}
	job.TotalFiles = len(candidates)
	o.flush(ctx, job, logger)

	sinceFlush := 0
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			logger.Warn("scan cancelled", logging.Int("processed", job.ProcessedFiles))
			o.failJob(ctx, job, fmt.Errorf("scan cancelled: %w", ctx.Err()), logger)
			return
		}
		o.processFile(ctx, job, candidate, logger)
		job.ProcessedFiles++
		sinceFlush++
		if sinceFlush >= o.flushEvery {
			o.flush(ctx, job, logger)
			sinceFlush = 0
		}
	}

	now := time.Now().UTC()
	job.Status = library.JobCompleted
	job.FinishedAt = &now
	o.flush(ctx, job, logger)
	logger.Info("scan completed",
		logging.Int("total", job.TotalFiles),
		logging.Int("movies", job.Stats.Movies),
		logging.Int("tv_episodes", job.Stats.TVEpisodes),
		logging.Int("uncategorized", job.Stats.Uncategorized),
		logging.Int("errors", job.Stats.Errors))
}

// preflight validates the scan root and returns it absolutized, so candidate
// paths compare correctly against the library roots later in the scan.
func (o *Orchestrator) preflight(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", services.Wrap(services.ErrConfiguration, "scanning", "scan root not provided", nil)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "scanning", "resolve scan root", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "scanning", "stat scan root", err)
	}
	if !info.IsDir() {
		return "", services.Wrap(services.ErrConfiguration, "scanning", "scan root is not a directory", nil)
	}
	if strings.TrimSpace(o.cfg.Paths.LibraryDir) == "" {
		return "", services.Wrap(services.ErrConfiguration, "scanning", "library_dir not configured", nil)
	}
	return abs, nil
}

func (o *Orchestrator) processFile(ctx context.Context, job *library.ScanJob, candidate scanner.FileCandidate, logger *slog.Logger) {
	if itemType, ok := o.insideLibrary(candidate.Path); ok {
		o.recordAlreadyOrganized(ctx, job, candidate, itemType, logger)
		return
	}

	meta := metadata.Extract(candidate.Name)
	o.pace(ctx)
	outcome := o.matcher.Identify(ctx, meta)
	if !outcome.Confident {
		logger.Info("file deferred for review",
			logging.String(logging.FieldPath, candidate.Path),
			logging.String("reason", outcome.Reason))
		o.recordUncategorized(ctx, job, candidate, meta, outcome.Reason, logger)
		return
	}

	destination := o.paths.Destination(outcome, meta, candidate.Ext)
	if o.cfg.Scan.DryRun {
		logger.Info("dry run: skipping relocation",
			logging.String("source", candidate.Path),
			logging.String("destination", destination))
		item := o.organizedItem(candidate, meta, outcome, destination)
		item.Path = candidate.Path
		if err := o.store.SaveItem(ctx, item); err != nil {
			o.recordStoreFailure(job, candidate.Path, err, logger)
			return
		}
		o.countOrganized(job, meta)
		return
	}

	if err := o.relocator.Relocate(ctx, candidate.Path, destination); err != nil {
		logger.Error("relocation failed",
			logging.String("source", candidate.Path),
			logging.String("destination", destination),
			logging.Error(err))
		job.Stats.Errors++
		job.Errors = append(job.Errors, library.JobError{Path: candidate.Path, Error: err.Error()})
		o.recordUncategorized(ctx, job, candidate, meta, err.Error(), logger)
		return
	}

	item := o.organizedItem(candidate, meta, outcome, destination)
	if err := o.store.ReplaceItem(ctx, candidate.Path, item); err != nil {
		o.recordStoreFailure(job, destination, err, logger)
		return
	}
	o.countOrganized(job, meta)
	logger.Info("file organized",
		logging.String("source", candidate.Path),
		logging.String("destination", destination),
		logging.String("title", outcome.Title))
}

func (o *Orchestrator) recordAlreadyOrganized(ctx context.Context, job *library.ScanJob, candidate scanner.FileCandidate, itemType library.ItemType, logger *slog.Logger) {
	item := &library.Item{
		Path:            candidate.Path,
		Type:            itemType,
		Status:          library.StatusOrganized,
		SourcePath:      candidate.Path,
		DestinationPath: candidate.Path,
		LibraryID:       o.cfg.Library.LibraryID,
	}
	if err := o.store.SaveItem(ctx, item); err != nil {
		o.recordStoreFailure(job, candidate.Path, err, logger)
		return
	}
	if itemType == library.TypeTV {
		job.Stats.TVEpisodes++
	} else {
		job.Stats.Movies++
	}
}

func (o *Orchestrator) recordUncategorized(ctx context.Context, job *library.ScanJob, candidate scanner.FileCandidate, meta metadata.FileMetadata, reason string, logger *slog.Logger) {
	item := &library.Item{
		Path:       candidate.Path,
		Type:       itemTypeFor(meta),
		Status:     library.StatusUncategorized,
		SourcePath: candidate.Path,
		Quality:    meta.Quality,
		Source:     meta.Source,
		Codec:      meta.Codec,
		LibraryID:  o.cfg.Library.LibraryID,
		Reason:     reason,
	}
	if meta.IsTV {
		item.Identification.Season = meta.Season
		item.Identification.Episode = meta.Episode
	}
	if err := o.store.SaveItem(ctx, item); err != nil {
		o.recordStoreFailure(job, candidate.Path, err, logger)
		return
	}
	job.Stats.Uncategorized++
}

func (o *Orchestrator) recordStoreFailure(job *library.ScanJob, path string, err error, logger *slog.Logger) {
	logger.Error("failed to persist item", logging.String(logging.FieldPath, path), logging.Error(err))
	job.Stats.Errors++
	job.Errors = append(job.Errors, library.JobError{Path: path, Error: err.Error()})
}

func (o *Orchestrator) organizedItem(candidate scanner.FileCandidate, meta metadata.FileMetadata, outcome identification.Outcome, destination string) *library.Item {
	return &library.Item{
		Path:            destination,
		Type:            itemTypeFor(meta),
		Status:          library.StatusOrganized,
		SourcePath:      candidate.Path,
		DestinationPath: destination,
		Identification: library.Identification{
			TMDBID:     outcome.ID,
			Title:      outcome.Title,
			Year:       outcome.Year,
			PosterPath: outcome.PosterPath,
			Overview:   outcome.Overview,
			Season:     outcome.Season,
			Episode:    outcome.Episode,
		},
		Quality:   meta.Quality,
		Source:    meta.Source,
		Codec:     meta.Codec,
		LibraryID: o.cfg.Library.LibraryID,
	}
}

func (o *Orchestrator) countOrganized(job *library.ScanJob, meta metadata.FileMetadata) {
	if meta.IsTV {
		job.Stats.TVEpisodes++
	} else {
		job.Stats.Movies++
	}
}

// insideLibrary reports whether path already lives under one of the canonical
// destination trees, and which item type that tree holds.
func (o *Orchestrator) insideLibrary(path string) (library.ItemType, bool) {
	if underRoot(path, o.cfg.MoviesRoot()) {
		return library.TypeMovie, true
	}
	if underRoot(path, o.cfg.TVRoot()) {
		return library.TypeTV, true
	}
	return "", false
}

func underRoot(path, root string) bool {
	if strings.TrimSpace(root) == "" {
		return false
	}
	return strings.HasPrefix(path, strings.TrimRight(root, string(os.PathSeparator))+string(os.PathSeparator))
}

// pace applies the flat rate-limit delay before a title-search query.
func (o *Orchestrator) pace(ctx context.Context) {
	if o.queryDelay <= 0 {
		return
	}
	timer := time.NewTimer(o.queryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (o *Orchestrator) failJob(ctx context.Context, job *library.ScanJob, cause error, logger *slog.Logger) {
	now := time.Now().UTC()
	job.Status = library.JobFailed
	job.ErrorMessage = cause.Error()
	job.FinishedAt = &now
	o.flush(ctx, job, logger)
}

// flush persists the current job snapshot. Uses a non-cancellable context so
// the final update survives daemon shutdown.
func (o *Orchestrator) flush(ctx context.Context, job *library.ScanJob, logger *slog.Logger) {
	if err := o.store.UpdateJob(context.WithoutCancel(ctx), job); err != nil {
		logger.Error("failed to persist job progress", logging.Error(err))
	}
}

func itemTypeFor(meta metadata.FileMetadata) library.ItemType {
	if meta.IsTV {
		return library.TypeTV
	}
	return library.TypeMovie
}
