// Package api defines the transport-friendly view models shared by the HTTP
// server and the CLI, plus conversions from the library storage types.
package api
