// Package metadata extracts structured release metadata from video
// filenames: quality tier, year, source tag, codec, a clean display title,
// and season/episode numbers for TV episodes.
//
// Extraction is pure and total: malformed names produce a zero-valued
// result, never an error. Tag recognition is driven by ordered rule tables
// so the priority between overlapping tags stays declarative.
package metadata
