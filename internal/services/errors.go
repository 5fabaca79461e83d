package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks setup failures that abort a whole scan job.
	ErrConfiguration = errors.New("configuration error")
	// ErrFilesystem marks per-file IO failures that demote a file to review.
	ErrFilesystem = errors.New("filesystem error")
	// ErrExternalService marks title-search transport failures.
	ErrExternalService = errors.New("external service error")
	// ErrValidation marks inputs that fail a precondition check.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the entire scan job rather
// than a single file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
