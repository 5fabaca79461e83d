package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ScanJob describes a scan job in a transport-friendly format.
type ScanJob struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	TotalFiles     int        `json:"totalFiles"`
	ProcessedFiles int        `json:"processedFiles"`
	Stats          JobStats   `json:"stats"`
	Errors         []JobError `json:"errors,omitempty"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	StartedAt      string     `json:"startedAt,omitempty"`
	FinishedAt     string     `json:"finishedAt,omitempty"`
}

// JobStats aggregates per-category counts for a scan job.
type JobStats struct {
	Movies        int `json:"movies"`
	TVEpisodes    int `json:"tvEpisodes"`
	Uncategorized int `json:"uncategorized"`
	Errors        int `json:"errors"`
}

// JobError records a single per-file failure observed during a scan.
type JobError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Item describes a library item in a transport-friendly format.
type Item struct {
	Path            string          `json:"path"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	SourcePath      string          `json:"sourcePath,omitempty"`
	DestinationPath string          `json:"destinationPath,omitempty"`
	Identification  *Identification `json:"identification,omitempty"`
	Quality         string          `json:"quality,omitempty"`
	Source          string          `json:"source,omitempty"`
	Codec           string          `json:"codec,omitempty"`
	LibraryID       string          `json:"libraryId,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
}

// Identification holds the matched title-database record for an item.
type Identification struct {
	TMDBID     int64  `json:"tmdbId"`
	Title      string `json:"title"`
	Year       int    `json:"year,omitempty"`
	PosterPath string `json:"posterPath,omitempty"`
	Overview   string `json:"overview,omitempty"`
	Season     int    `json:"season,omitempty"`
	Episode    int    `json:"episode,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	LibraryDBPath string         `json:"libraryDbPath"`
	LockFilePath  string         `json:"lockFilePath"`
	ActiveJob     *ScanJob       `json:"activeJob,omitempty"`
	ItemCounts    map[string]int `json:"itemCounts"`
}

// ScanRequest is the body of a scan trigger request.
type ScanRequest struct {
	Path string `json:"path"`
}

// ScanAccepted is returned when a scan job has been started.
type ScanAccepted struct {
	Job ScanJob `json:"job"`
}

// JobListResponse wraps a collection of scan jobs.
type JobListResponse struct {
	Jobs []ScanJob `json:"jobs"`
}

// JobResponse wraps a single scan job.
type JobResponse struct {
	Job ScanJob `json:"job"`
}

// ItemListResponse wraps a collection of library items.
type ItemListResponse struct {
	Items []Item `json:"items"`
}
