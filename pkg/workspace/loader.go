package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jensen-yan/compiler/pkg/config"
	"github.com/jensen-yan/compiler/pkg/telemetry/logging"
)

var (
	// ErrNotRegular is returned for directories, devices and sockets.
	ErrNotRegular = errors.New("not a regular file")

	// ErrTooLarge is returned when a file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrInvalidUTF8 is returned when a file is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")
)

// LoadError describes a source file that could not be loaded.
type LoadError struct {
	Path string
	Op   string
	Err  error
}

func (e *LoadError) Error() string {
	// A PathError already names the operation and the path.
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source is a loaded script file.
type Source struct {
	Path    string
	Content string
	Size    int64
	ModTime time.Time
}

// Options controls which files a Loader accepts.
type Options struct {
	// Extensions lists accepted file extensions, including the dot.
	Extensions []string

	// MaxFileSize is the largest file accepted, in bytes. Zero means no limit.
	MaxFileSize int64

	// SkipHidden skips files and directories whose name starts with a dot.
	SkipHidden bool

	// FollowSymlinks follows symbolic links while collecting.
	FollowSymlinks bool
}

// OptionsFromConfig builds loader options from the compiler section.
func OptionsFromConfig(cfg *config.CompilerConfig) Options {
	return Options{
		Extensions:     cfg.Extensions,
		MaxFileSize:    cfg.MaxFileSize,
		SkipHidden:     cfg.SkipHidden,
		FollowSymlinks: cfg.FollowSymlinks,
	}
}

// Loader reads script sources from disk.
type Loader struct {
	opts   Options
	logger *logging.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(opts Options, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{opts: opts, logger: logger}
}

// Options returns the loader's options.
func (l *Loader) Options() Options { return l.opts }

// LoadFile reads path after checking that it is a regular file within the
// size limit. The content must be valid UTF-8.
func (l *Loader) LoadFile(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "stat", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{Path: path, Op: "load", Err: ErrNotRegular}
	}
	if l.opts.MaxFileSize > 0 && info.Size() > l.opts.MaxFileSize {
		return nil, &LoadError{
			Path: path,
			Op:   "load",
			Err:  fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, info.Size(), l.opts.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{Path: path, Op: "load", Err: ErrInvalidUTF8}
	}

	l.logger.Debug("loaded source", "path", path, "bytes", len(data))

	return &Source{
		Path:    path,
		Content: string(data),
		Size:    int64(len(data)),
		ModTime: info.ModTime(),
	}, nil
}

// Matches reports whether path has an accepted extension and, with
// SkipHidden, is not hidden.
func (l *Loader) Matches(path string) bool {
	base := filepath.Base(path)
	if l.opts.SkipHidden && isHidden(base) {
		return false
	}
	if len(l.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, want := range l.opts.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// Collect returns the script files under root in lexical order. A root that
// names a file is returned as is, whatever its extension. Directory symlinks
// are followed at most once per real directory.
func (l *Loader) Collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &LoadError{Path: root, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	visited := make(map[string]bool)
	if err := l.walk(root, visited, &files); err != nil {
		return nil, err
	}

	l.logger.Debug("collected sources", "root", root, "files", len(files))
	return files, nil
}

func (l *Loader) walk(dir string, visited map[string]bool, files *[]string) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return &LoadError{Path: dir, Op: "resolve", Err: err}
	}
	if visited[real] {
		l.logger.Debug("skipping symlink loop", "path", dir)
		return nil
	}
	visited[real] = true

	// WalkDir does not descend into a symlinked root, so walk the resolved
	// directory and report paths under the name the caller used.
	return filepath.WalkDir(real, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &LoadError{Path: path, Op: "walk", Err: err}
		}
		if path == real {
			return nil
		}
		rel, err := filepath.Rel(real, path)
		if err != nil {
			return &LoadError{Path: path, Op: "walk", Err: err}
		}
		shown := filepath.Join(dir, rel)

		if l.opts.SkipHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return l.symlink(shown, visited, files)
		}
		if d.IsDir() {
			visited[path] = true
			return nil
		}
		if d.Type().IsRegular() && l.Matches(shown) {
			*files = append(*files, shown)
		}
		return nil
	})
}

func (l *Loader) symlink(path string, visited map[string]bool, files *[]string) error {
	if !l.opts.FollowSymlinks {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		// Dangling link.
		l.logger.Debug("skipping broken symlink", "path", path, "error", err)
		return nil
	}
	if info.IsDir() {
		return l.walk(path, visited, files)
	}
	if info.Mode().IsRegular() && l.Matches(path) {
		*files = append(*files, path)
	}
	return nil
}

// Expand collects every path in order and drops duplicates.
func (l *Loader) Expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		files, err := l.Collect(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			key := filepath.Clean(f)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, f)
		}
	}
	return out, nil
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}
