package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"curator/internal/config"
	"curator/internal/identification"
	"curator/internal/metadata"
	"curator/internal/textutil"
)

// PathBuilder computes canonical destination paths inside the library tree.
type PathBuilder struct {
	moviesRoot string
	tvRoot     string
}

// NewPathBuilder constructs a builder rooted at the configured library
// directories.
func NewPathBuilder(cfg *config.Config) *PathBuilder {
	return &PathBuilder{moviesRoot: cfg.MoviesRoot(), tvRoot: cfg.TVRoot()}
}

// Destination returns the canonical library path for a confidently identified
// file. The extension must include its leading dot.
func (b *PathBuilder) Destination(outcome identification.Outcome, meta metadata.FileMetadata, ext string) string {
	if meta.IsTV {
		return b.episodePath(outcome, ext)
	}
	return b.moviePath(outcome, meta, ext)
}

func (b *PathBuilder) moviePath(outcome identification.Outcome, meta metadata.FileMetadata, ext string) string {
	base := movieBaseName(outcome.Title, outcome.Year)
	name := base
	if quality := strings.TrimSpace(meta.Quality); quality != "" {
		name += " - " + quality
	}
	return filepath.Join(b.moviesRoot, base, name+ext)
}

func (b *PathBuilder) episodePath(outcome identification.Outcome, ext string) string {
	title := textutil.SanitizeTitle(outcome.Title)
	season := outcome.Season
	if season < 1 {
		season = 1
	}
	episode := outcome.Episode
	if episode < 1 {
		episode = 1
	}
	seasonDir := fmt.Sprintf("Season %02d", season)
	name := fmt.Sprintf("%s - S%02dE%02d%s", title, season, episode, ext)
	return filepath.Join(b.tvRoot, title, seasonDir, name)
}

func movieBaseName(title string, year int) string {
	base := textutil.SanitizeTitle(title)
	if year > 0 {
		base = fmt.Sprintf("%s (%d)", base, year)
	}
	return base
}
