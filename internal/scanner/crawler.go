package scanner

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"curator/internal/logging"
)

// videoExtensions is the recognized set of video file extensions,
// compared case-insensitively without the leading dot.
var videoExtensions = map[string]struct{}{
	"mkv": {},
	"mp4": {},
	"avi": {},
	"m4v": {},
	"ts":  {},
	"mov": {},
	"wmv": {},
}

// FileCandidate describes a video file discovered during a crawl.
type FileCandidate struct {
	Path string // absolute source path
	Name string // base file name
	Ext  string // extension including the dot, lowercased
}

// Crawler discovers candidate video files under a root directory.
type Crawler struct {
	logger *slog.Logger
}

// New constructs a crawler. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger) *Crawler {
	return &Crawler{logger: logging.WithComponent(logger, "scanner")}
}

// Crawl walks root and returns every recognized video file, sorted
// lexicographically by path. Unreadable directories are logged and skipped;
// only a failure to read the root itself is returned as an error.
func (c *Crawler) Crawl(root string) ([]FileCandidate, error) {
	rootReal, err := realPath(root)
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{rootReal: {}}
	worklist := []string{root}
	var files []FileCandidate

	for len(worklist) > 0 {
		dir := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, err
			}
			c.logger.Warn("skipping unreadable directory",
				logging.String(logging.FieldPath, dir),
				logging.Error(err))
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			path := filepath.Join(dir, name)

			if isDir(entry, path) {
				real, err := realPath(path)
				if err != nil {
					c.logger.Warn("skipping unresolvable directory",
						logging.String(logging.FieldPath, path),
						logging.Error(err))
					continue
				}
				if _, seen := visited[real]; seen {
					c.logger.Warn("skipping already-visited directory",
						logging.String(logging.FieldPath, path))
					continue
				}
				visited[real] = struct{}{}
				worklist = append(worklist, path)
				continue
			}

			ext := strings.ToLower(filepath.Ext(name))
			if _, ok := videoExtensions[strings.TrimPrefix(ext, ".")]; !ok {
				continue
			}
			files = append(files, FileCandidate{Path: path, Name: name, Ext: ext})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// isDir resolves directory-ness through symlinks so linked subtrees are
// still crawled (cycle detection happens on the resolved path).
func isDir(entry os.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func realPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
