package organizer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"curator/internal/config"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/services"
)

// Relocator moves or copies files into their library destination.
type Relocator struct {
	copyMode bool
	logger   *slog.Logger
}

// NewRelocator constructs a relocator honoring the configured copy mode.
func NewRelocator(cfg *config.Config, logger *slog.Logger) *Relocator {
	return &Relocator{
		copyMode: cfg.Library.CopyMode,
		logger:   logging.WithComponent(logger, "organizer"),
	}
}

// Relocate places src at dst, creating parent directories as needed. In copy
// mode the source is left untouched. In move mode a cross-device rename falls
// back to copy-then-remove. A failed copy never removes the source.
func (r *Relocator) Relocate(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)
	if src == dst {
		r.logger.Info("file already at destination", logging.String(logging.FieldPath, dst))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "organizing", "create destination directory", err)
	}
	if err := r.checkFreeSpace(src, filepath.Dir(dst)); err != nil {
		return err
	}

	if r.copyMode {
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return services.Wrap(services.ErrFilesystem, "organizing", "copy into library", err)
		}
		r.logger.Info("copied into library",
			logging.String("source", src),
			logging.String("destination", dst))
		return nil
	}

	if err := os.Rename(src, dst); err != nil {
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
			return services.Wrap(services.ErrFilesystem, "organizing", "move into library", err)
		}
		if copyErr := fileutil.CopyFileVerified(src, dst); copyErr != nil {
			return services.Wrap(services.ErrFilesystem, "organizing", "copy across filesystems", copyErr)
		}
		if removeErr := os.Remove(src); removeErr != nil {
			r.logger.Warn("failed to remove source after cross-device copy",
				logging.String("source", src),
				logging.Error(removeErr))
		}
	}
	r.logger.Info("moved into library",
		logging.String("source", src),
		logging.String("destination", dst))
	return nil
}

// checkFreeSpace rejects a relocation when the destination filesystem cannot
// hold the source file. Statfs failures are logged and skipped rather than
// blocking the move.
func (r *Relocator) checkFreeSpace(src, dstDir string) error {
	info, err := os.Stat(src)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "organizing", "stat source file", err)
	}
	var fs unix.Statfs_t
	if err := unix.Statfs(dstDir, &fs); err != nil {
		r.logger.Warn("free space check skipped",
			logging.String(logging.FieldPath, dstDir),
			logging.Error(err))
		return nil
	}
	available := int64(fs.Bavail) * int64(fs.Bsize)
	if info.Size() > available {
		return services.Wrap(services.ErrFilesystem, "organizing",
			"insufficient free space at destination", nil)
	}
	return nil
}
