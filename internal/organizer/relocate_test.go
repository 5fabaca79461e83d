package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/services"
)

func newRelocator(t *testing.T, copyMode bool) *Relocator {
	t.Helper()
	cfg := &config.Config{}
	cfg.Library.CopyMode = copyMode
	return NewRelocator(cfg, logging.NewNop())
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	src := filepath.Join(dir, "incoming", "movie.mkv")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestRelocateMoveRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	dst := filepath.Join(dir, "library", "Movies", "Movie (2024)", "Movie (2024).mkv")

	r := newRelocator(t, false)
	if err := r.Relocate(context.Background(), src, dst); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source should be gone, stat err = %v", err)
	}
}

func TestRelocateCopyKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	dst := filepath.Join(dir, "library", "Movies", "Movie (2024)", "Movie (2024).mkv")

	r := newRelocator(t, true)
	if err := r.Relocate(context.Background(), src, dst); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must remain in copy mode: %v", err)
	}
}

func TestRelocateSamePathIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	r := newRelocator(t, false)
	if err := r.Relocate(context.Background(), src, src); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source disturbed: %v", err)
	}
}

func TestRelocateFailureLeavesSource(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	// A regular file where the destination directory should go forces
	// MkdirAll to fail.
	blocker := filepath.Join(dir, "library")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(blocker, "Movies", "Movie (2024).mkv")

	r := newRelocator(t, false)
	err := r.Relocate(context.Background(), src, dst)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected filesystem marker, got %v", err)
	}
	if _, statErr := os.Stat(src); statErr != nil {
		t.Fatalf("source must survive a failed relocation: %v", statErr)
	}
}

func TestRelocateCancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	dst := filepath.Join(dir, "dst.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRelocator(t, false)
	if err := r.Relocate(ctx, src, dst); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
