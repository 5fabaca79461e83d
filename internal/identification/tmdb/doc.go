// Package tmdb implements a minimal client for The Movie Database search
// API, covering the movie and TV search endpoints used by identification.
package tmdb
