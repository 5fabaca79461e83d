package library

import (
	"strings"
	"time"
)

// ItemType partitions library items into movies and TV episodes.
type ItemType string

const (
	TypeMovie ItemType = "movie"
	TypeTV    ItemType = "tv"
)

// ItemStatus is the terminal disposition of a scanned file.
type ItemStatus string

const (
	StatusOrganized     ItemStatus = "organized"
	StatusUncategorized ItemStatus = "uncategorized"
)

// JobStatus is the lifecycle of a scan job.
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Identification holds the matched title-database record for an item.
type Identification struct {
	TMDBID     int64
	Title      string
	Year       int
	PosterPath string
	Overview   string
	Season     int
	Episode    int
}

// Item represents one media file tracked by the library, keyed by Path.
type Item struct {
	Path            string
	Type            ItemType
	Status          ItemStatus
	SourcePath      string
	DestinationPath string
	Identification  Identification
	Quality         string
	Source          string
	Codec           string
	LibraryID       string
	Reason          string
	UpdatedAt       time.Time
}

// JobStats aggregates per-category counts for a scan job.
type JobStats struct {
	Movies        int
	TVEpisodes    int
	Uncategorized int
	Errors        int
}

// JobError records a single per-file failure observed during a scan.
type JobError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ScanJob tracks the progress and outcome of one library scan.
type ScanJob struct {
	ID             string
	Status         JobStatus
	TotalFiles     int
	ProcessedFiles int
	Stats          JobStats
	Errors         []JobError
	ErrorMessage   string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// Finished reports whether the job reached a terminal status.
func (j *ScanJob) Finished() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// ParseItemStatus converts a string into a known ItemStatus.
func ParseItemStatus(value string) (ItemStatus, bool) {
	normalized := ItemStatus(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StatusOrganized, StatusUncategorized:
		return normalized, true
	default:
		return "", false
	}
}
