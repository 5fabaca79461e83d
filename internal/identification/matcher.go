package identification

import (
	"context"
	"fmt"
	"log/slog"

	"curator/internal/identification/tmdb"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/textutil"
)

// Decision thresholds. The ambiguity ratios gate how decisively the top
// candidate must beat the runner-up; the similarity floor gates how closely
// the candidate title must match the parsed title.
const (
	popularityRatioFloor = 1.35
	voteRatioFloor       = 1.50
	similarityFloor      = 0.82
	yearTolerance        = 1
)

// Matcher applies the confidence rules to title-search results.
type Matcher struct {
	searcher tmdb.Searcher
	logger   *slog.Logger
}

// NewMatcher constructs a matcher. A nil searcher means no search credential
// is configured; every identification attempt is then rejected with
// ReasonNoAPIKey.
func NewMatcher(searcher tmdb.Searcher, logger *slog.Logger) *Matcher {
	return &Matcher{
		searcher: searcher,
		logger:   logging.WithComponent(logger, "identification"),
	}
}

// Identify queries the title-search service for the extracted metadata and
// applies the decision rules in order; the first failing rule wins. Search
// transport errors become rejections, never pipeline-aborting errors.
func (m *Matcher) Identify(ctx context.Context, meta metadata.FileMetadata) Outcome {
	if m.searcher == nil {
		return reject(ReasonNoAPIKey)
	}
	if meta.Title == "" {
		return reject(ReasonNoTitle)
	}

	response, err := m.search(ctx, meta)
	if err != nil {
		m.logger.Warn("title search failed",
			logging.String("title", meta.Title),
			logging.Error(err))
		return reject(systemErrorReason(err))
	}

	outcome := m.decide(meta, response.Results)
	if outcome.Confident {
		m.logger.Info("confident match",
			logging.String("title", meta.Title),
			logging.Int64("candidate_id", outcome.ID),
			logging.String("candidate_title", outcome.Title))
	} else {
		m.logger.Info("identification deferred",
			logging.String("title", meta.Title),
			logging.String("reason", outcome.Reason))
	}
	return outcome
}

func (m *Matcher) search(ctx context.Context, meta metadata.FileMetadata) (*tmdb.Response, error) {
	opts := tmdb.SearchOptions{Year: meta.Year}
	if meta.IsTV {
		return m.searcher.SearchTV(ctx, meta.Title, opts)
	}
	return m.searcher.SearchMovie(ctx, meta.Title, opts)
}

func (m *Matcher) decide(meta metadata.FileMetadata, results []tmdb.Result) Outcome {
	if len(results) == 0 {
		return reject(ReasonNoResults)
	}

	top := results[0]

	if len(results) >= 2 {
		runnerUp := results[1]
		popRatio := top.Popularity / nonZero(runnerUp.Popularity)
		voteRatio := float64(top.VoteCount) / nonZero(float64(runnerUp.VoteCount))
		if popRatio < popularityRatioFloor && voteRatio < voteRatioFloor {
			return reject(ReasonAmbiguous)
		}
	}

	similarity := textutil.Similarity(meta.Title, top.DisplayTitle())
	if original := textutil.Similarity(meta.Title, top.OriginalDisplayTitle()); original > similarity {
		similarity = original
	}
	if similarity < similarityFloor {
		return reject(lowSimilarityReason(similarity))
	}

	candidateYear := top.ReleaseYear()
	if meta.Year != 0 && candidateYear != 0 {
		delta := meta.Year - candidateYear
		if delta < 0 {
			delta = -delta
		}
		if delta > yearTolerance {
			return reject(ReasonYearMismatch)
		}
	}

	if meta.IsTV && (meta.Season == 0 || meta.Episode == 0) {
		return reject(ReasonMissingSE)
	}

	return Outcome{
		Confident:  true,
		ID:         top.ID,
		Title:      top.DisplayTitle(),
		Year:       candidateYear,
		PosterPath: top.PosterPath,
		Overview:   top.Overview,
		Season:     meta.Season,
		Episode:    meta.Episode,
	}
}

// nonZero floors ratio denominators so candidates with zero popularity or
// votes cannot divide by zero.
func nonZero(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	return v
}

func lowSimilarityReason(score float64) string {
	return fmt.Sprintf("Low Similarity (%.2f)", score)
}

func systemErrorReason(err error) string {
	return fmt.Sprintf("System Error: %s", err.Error())
}
