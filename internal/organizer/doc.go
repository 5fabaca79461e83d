// Package organizer computes canonical library destinations for identified
// media files and relocates files into place.
package organizer
