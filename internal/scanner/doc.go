// Package scanner walks a storage root and yields the video files eligible
// for library organization.
//
// Traversal is iterative (explicit worklist, no recursion), skips dot
// entries, tolerates unreadable subtrees, and tracks visited real paths so
// symlink cycles cannot loop the crawl.
package scanner
