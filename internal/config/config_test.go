package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Library.MoviesDir != "Movies" || cfg.Library.TVDir != "TV Shows" {
		t.Fatalf("unexpected library defaults: %+v", cfg.Library)
	}
	if cfg.Scan.QueryDelayMS != 200 {
		t.Fatalf("expected default query delay, got %d", cfg.Scan.QueryDelayMS)
	}
	if cfg.Library.LibraryID == "" {
		t.Fatal("expected library id to be generated")
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
library_dir = "` + filepath.Join(dir, "media") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[library]
copy_mode = true

[tmdb]
api_key = "k123"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%s", exists, resolved)
	}
	if !cfg.Library.CopyMode {
		t.Fatal("expected copy_mode true")
	}
	if cfg.TMDB.APIKey != "k123" {
		t.Fatalf("unexpected api key %q", cfg.TMDB.APIKey)
	}
	if !filepath.IsAbs(cfg.Paths.LibraryDir) {
		t.Fatalf("library dir not absolute: %s", cfg.Paths.LibraryDir)
	}
}

func TestValidateRejectsSharedLibrarySubdirs(t *testing.T) {
	cfg := Default()
	cfg.Library.MoviesDir = "media"
	cfg.Library.TVDir = "media"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected shared subdir error, got %v", err)
	}
}

func TestDestinationRoots(t *testing.T) {
	cfg := Default()
	cfg.Paths.LibraryDir = "/srv/media"
	if got := cfg.MoviesRoot(); got != "/srv/media/Movies" {
		t.Fatalf("MoviesRoot = %s", got)
	}
	if got := cfg.TVRoot(); got != "/srv/media/TV Shows" {
		t.Fatalf("TVRoot = %s", got)
	}
}

func TestNormalizeReadsAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.TMDB.APIKey != "env-key" {
		t.Fatalf("expected env fallback, got %q", cfg.TMDB.APIKey)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Fatal("sample config missing tmdb section")
	}
}
