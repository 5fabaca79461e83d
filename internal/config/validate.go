package config

import (
	"errors"
	"strings"
)

// Validate ensures the configuration is usable. A missing TMDB API key is
// deliberately not an error here: scans run without one, rejecting each
// identification attempt with a recorded reason instead.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateScan()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MoviesDir == "" {
		return errors.New("library.movies_dir must be set")
	}
	if c.Library.TVDir == "" {
		return errors.New("library.tv_dir must be set")
	}
	if c.Library.MoviesDir == c.Library.TVDir {
		return errors.New("library.movies_dir and library.tv_dir must differ")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.ProgressFlushFiles <= 0 {
		return errors.New("scan.progress_flush_files must be positive")
	}
	return nil
}
