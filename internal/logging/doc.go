// Package logging provides slog-based structured logging for curator.
//
// Two output formats are supported: a human-oriented console format used
// when running interactively, and JSON for log aggregation. Component
// loggers carry a standardized "component" attribute that the console
// handler renders as a message prefix.
package logging
