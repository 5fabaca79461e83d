package metadata

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FileMetadata is the structured result of parsing a video filename.
// Zero values mean "absent": Year 0, empty strings, Season/Episode 0.
type FileMetadata struct {
	Title   string
	Quality string
	Year    int
	Source  string
	Codec   string
	IsTV    bool
	Season  int
	Episode int
}

var titleCaser = cases.Title(language.Und)

// Extract parses release metadata out of a filename. Tag matching runs over
// the whole filename; the display title is derived from the base name before
// the first recognized tag.
func Extract(filename string) FileMetadata {
	meta := FileMetadata{
		Quality: matchTag(qualityRules, filename),
		Source:  matchTag(sourceRules, filename),
		Codec:   matchTag(codecRules, filename),
	}

	if m := yearPattern.FindStringSubmatch(filename); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			meta.Year = year
		}
	}

	for _, pattern := range episodePatterns {
		if m := pattern.FindStringSubmatch(filename); m != nil {
			season, seasonErr := strconv.Atoi(m[1])
			episode, episodeErr := strconv.Atoi(m[2])
			if seasonErr == nil && episodeErr == nil {
				meta.IsTV = true
				meta.Season = season
				meta.Episode = episode
			}
			break
		}
	}

	meta.Title = deriveTitle(filename)
	return meta
}

// deriveTitle produces a clean, human-readable title: everything before the
// first recognized tag, separators collapsed to single spaces, title-cased.
func deriveTitle(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if idx := earliestTagIndex(base); idx >= 0 {
		base = base[:idx]
	}

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '(' || r == ')' || r == '[' || r == ']':
			if !prevSpace && cleaned.Len() > 0 {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return ""
	}
	return titleCaser.String(title)
}
