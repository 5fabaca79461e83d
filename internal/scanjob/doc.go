// Package scanjob orchestrates the scan pipeline: crawl the requested
// directory, extract filename metadata, identify each file against the title
// database, and organize confident matches into the library.
package scanjob
