// Package textutil provides the string normalization, similarity scoring,
// and filename sanitization primitives used by identification and path
// construction.
package textutil
