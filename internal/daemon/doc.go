// Package daemon runs the background service: it enforces single-instance
// execution, serves the HTTP API, and dispatches scan jobs.
package daemon
