package logging

import (
	"log/slog"
	"path/filepath"

	"curator/internal/config"
)

// NewFromConfig builds the daemon logger from configuration, writing to both
// stdout and the log file under log_dir.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "curator.log")},
	})
}
