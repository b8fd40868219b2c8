package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jensen-yan/compiler/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func defaultLoader() *Loader {
	return NewLoader(Options{
		Extensions:     []string{".sc"},
		MaxFileSize:    64,
		SkipHidden:     true,
		FollowSymlinks: true,
	}, nil)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Compiler
	opts := OptionsFromConfig(&cfg)
	if !reflect.DeepEqual(opts.Extensions, cfg.Extensions) || opts.MaxFileSize != cfg.MaxFileSize {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	if opts.SkipHidden != cfg.SkipHidden || opts.FollowSymlinks != cfg.FollowSymlinks {
		t.Errorf("OptionsFromConfig() flags = %+v", opts)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "main.sc")
	writeFile(t, good, "x = 1\n")
	big := filepath.Join(dir, "big.sc")
	writeFile(t, big, string(make([]byte, 65)))
	binary := filepath.Join(dir, "bin.sc")
	writeFile(t, binary, "x = \xff\xfe")

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"regular file", good, nil},
		{"missing", filepath.Join(dir, "missing.sc"), fs.ErrNotExist},
		{"directory", dir, ErrNotRegular},
		{"too large", big, ErrTooLarge},
		{"invalid utf-8", binary, ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := defaultLoader().LoadFile(tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("LoadFile() error = %v", err)
				}
				if src.Content != "x = 1\n" || src.Size != 6 || src.Path != tt.path {
					t.Errorf("LoadFile() = %+v", src)
				}
				if src.ModTime.IsZero() {
					t.Error("ModTime is zero")
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadFile() error = %v, want %v", err, tt.wantErr)
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) || loadErr.Path != tt.path {
				t.Errorf("error %v is not a LoadError for %s", err, tt.path)
			}
		})
	}
}

func TestLoader_LoadFile_NoSizeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.sc")
	writeFile(t, path, string(make([]byte, 1024)))

	l := NewLoader(Options{}, nil)
	if _, err := l.LoadFile(path); err != nil {
		t.Errorf("LoadFile() error = %v with no limit", err)
	}
}

func TestLoader_Matches(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.sc", true},
		{"dir/MAIN.SC", true},
		{"main.go", false},
		{".hidden.sc", false},
		{"noext", false},
	}

	l := defaultLoader()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := l.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	if !NewLoader(Options{}, nil).Matches("anything.txt") {
		t.Error("a loader without extensions should match every file")
	}
}

func TestLoader_Collect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.sc"), "")
	writeFile(t, filepath.Join(dir, "a.sc"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "lib", "util.sc"), "")
	writeFile(t, filepath.Join(dir, ".git", "hook.sc"), "")
	writeFile(t, filepath.Join(dir, ".draft.sc"), "")

	got, err := defaultLoader().Collect(dir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.sc"),
		filepath.Join(dir, "b.sc"),
		filepath.Join(dir, "lib", "util.sc"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestLoader_Collect_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	writeFile(t, path, "")

	got, err := defaultLoader().Collect(path)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{path}) {
		t.Errorf("Collect() = %v, want the file itself", got)
	}

	if _, err := defaultLoader().Collect(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Collect(missing) error = %v", err)
	}
}

func TestLoader_Collect_Symlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.sc"), "")
	shared := filepath.Join(t.TempDir(), "shared")
	writeFile(t, filepath.Join(shared, "lib.sc"), "")

	if err := os.Symlink(shared, filepath.Join(dir, "src", "shared")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A loop back to the root must not be walked twice.
	if err := os.Symlink(dir, filepath.Join(dir, "src", "loop")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "src", "dangling.sc")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		follow bool
		want   []string
	}{
		{
			name:   "follow",
			follow: true,
			want: []string{
				filepath.Join(dir, "src", "main.sc"),
				filepath.Join(dir, "src", "shared", "lib.sc"),
			},
		},
		{
			name:   "no follow",
			follow: false,
			want:   []string{filepath.Join(dir, "src", "main.sc")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(Options{Extensions: []string{".sc"}, FollowSymlinks: tt.follow}, nil)
			got, err := l.Collect(dir)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoader_Expand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.sc")
	b := filepath.Join(dir, "sub", "b.sc")
	writeFile(t, a, "")
	writeFile(t, b, "")

	got, err := defaultLoader().Expand([]string{b, dir, a})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := []string{b, a}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand() = %v, want %v", got, want)
	}
}
