package identification

// Rejection reasons surfaced on non-confident outcomes. These strings are
// persisted and shown to operators; treat them as a stable contract.
const (
	ReasonNoAPIKey  = "No API Key"
	ReasonNoTitle   = "No Title Parsed"
	ReasonNoResults = "No Results"
	ReasonAmbiguous = "Ambiguous Match (Top 2 too similar)"
	// Low similarity and system errors carry dynamic detail; see
	// lowSimilarityReason and systemErrorReason.
	ReasonYearMismatch = "Year Mismatch"
	ReasonMissingSE    = "Missing S/E Numbers"
)

// Outcome is the result of an identification attempt. When Confident is
// false, Reason explains the rejection; the remaining fields are only
// meaningful on confident outcomes.
type Outcome struct {
	Confident  bool
	Reason     string
	ID         int64
	Title      string
	Year       int
	PosterPath string
	Overview   string
	Season     int
	Episode    int
}

func reject(reason string) Outcome {
	return Outcome{Reason: reason}
}
