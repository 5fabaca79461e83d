// Package identification decides whether a file's extracted metadata can be
// matched to a search candidate confidently enough to auto-organize it.
//
// The decision is a fixed, ordered rule chain; every rejection carries a
// stable human-readable reason so operators can triage deferred files.
package identification
