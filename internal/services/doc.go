// Package services holds the error taxonomy shared by the scan pipeline.
//
// Only configuration errors abort a scan job. Filesystem and external
// service failures are recorded against the file or query that produced
// them and processing continues.
package services
