package api

import (
	"time"

	"curator/internal/library"
)

// FromJob converts a stored scan job into its API representation.
func FromJob(job *library.ScanJob) ScanJob {
	if job == nil {
		return ScanJob{}
	}
	view := ScanJob{
		ID:             job.ID,
		Status:         string(job.Status),
		TotalFiles:     job.TotalFiles,
		ProcessedFiles: job.ProcessedFiles,
		Stats: JobStats{
			Movies:        job.Stats.Movies,
			TVEpisodes:    job.Stats.TVEpisodes,
			Uncategorized: job.Stats.Uncategorized,
			Errors:        job.Stats.Errors,
		},
		ErrorMessage: job.ErrorMessage,
		StartedAt:    formatTime(job.StartedAt),
	}
	if job.FinishedAt != nil {
		view.FinishedAt = formatTime(*job.FinishedAt)
	}
	for _, jobErr := range job.Errors {
		view.Errors = append(view.Errors, JobError{Path: jobErr.Path, Error: jobErr.Error})
	}
	return view
}

// FromJobs converts a slice of stored scan jobs.
func FromJobs(jobs []*library.ScanJob) []ScanJob {
	if len(jobs) == 0 {
		return nil
	}
	out := make([]ScanJob, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, FromJob(job))
	}
	return out
}

// FromItem converts a stored library item into its API representation.
func FromItem(item *library.Item) Item {
	if item == nil {
		return Item{}
	}
	view := Item{
		Path:            item.Path,
		Type:            string(item.Type),
		Status:          string(item.Status),
		SourcePath:      item.SourcePath,
		DestinationPath: item.DestinationPath,
		Quality:         item.Quality,
		Source:          item.Source,
		Codec:           item.Codec,
		LibraryID:       item.LibraryID,
		Reason:          item.Reason,
		UpdatedAt:       formatTime(item.UpdatedAt),
	}
	if item.Identification.TMDBID != 0 || item.Identification.Title != "" {
		view.Identification = &Identification{
			TMDBID:     item.Identification.TMDBID,
			Title:      item.Identification.Title,
			Year:       item.Identification.Year,
			PosterPath: item.Identification.PosterPath,
			Overview:   item.Identification.Overview,
			Season:     item.Identification.Season,
			Episode:    item.Identification.Episode,
		}
	}
	return view
}

// FromItems converts a slice of stored library items.
func FromItems(items []*library.Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(dateTimeFormat)
}
