package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer that can be written by the watcher while the
// test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func get(url string) (int, string) {
	resp, err := http.Get(url)
	if err != nil {
		return 0, ""
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.sc")
	if err := os.WriteFile(main, []byte("x = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resetFlags(rootCmd)
	var stdout, stderr syncBuffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	addr := freeAddr(t)
	rootCmd.SetArgs([]string{"--config", "testdata/none.yaml", "watch", "--no-color", "--addr", addr, dir})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exit := make(chan int, 1)
	go func() { exit <- execute(ctx, rootCmd) }()

	base := "http://" + addr
	eventually(t, "readiness", func() bool {
		code, _ := get(base + "/ready")
		return code == http.StatusOK
	})
	if !strings.Contains(stdout.String(), "✓ 1 file checked, no problems found") {
		t.Errorf("initial run output:\n%s", stdout.String())
	}

	if code, _ := get(base + "/health"); code != http.StatusOK {
		t.Errorf("/health = %d, want 200", code)
	}
	if code, body := get(base + "/version"); code != http.StatusOK || !strings.Contains(body, Version) {
		t.Errorf("/version = %d %s", code, body)
	}

	if err := os.WriteFile(main, []byte("x = 1;\ny = missing;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, "re-check", func() bool {
		return strings.Contains(stdout.String(), "undefined identifier 'missing'")
	})

	eventually(t, "recheck metric", func() bool {
		_, body := get(base + "/metrics")
		return strings.Contains(body, `scriptc_compiler_files_total{outcome="diagnostics"}`)
	})
	_, metricsBody := get(base + "/metrics")
	if !strings.Contains(metricsBody, "scriptc_compiler_watched_files 1") {
		t.Errorf("metrics missing watched files gauge:\n%s", metricsBody)
	}

	cancel()
	select {
	case code := <-exit:
		if code != 0 {
			t.Errorf("exit code = %d, want 0\nstderr:\n%s", code, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchCommand_ReloadsConfig(t *testing.T) {
	scripts := t.TempDir()
	if err := os.WriteFile(filepath.Join(scripts, "main.sc"), []byte("count = 1;\nx = cout;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "scriptc.yaml")
	if err := os.WriteFile(cfgPath, []byte("compiler:\n  suggestions: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resetFlags(rootCmd)
	var stdout, stderr syncBuffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	addr := freeAddr(t)
	rootCmd.SetArgs([]string{"--config", cfgPath, "watch", "--no-color", "--addr", addr, scripts})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exit := make(chan int, 1)
	go func() { exit <- execute(ctx, rootCmd) }()

	eventually(t, "readiness", func() bool {
		code, _ := get("http://" + addr + "/ready")
		return code == http.StatusOK
	})
	if !strings.Contains(stdout.String(), "help: Did you mean 'count'?") {
		t.Fatalf("initial run should carry a suggestion:\n%s", stdout.String())
	}

	if err := os.WriteFile(cfgPath, []byte("compiler:\n  suggestions: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, "re-check after reload", func() bool {
		return strings.Count(stdout.String(), "undefined identifier 'cout'") == 2
	})
	if n := strings.Count(stdout.String(), "help:"); n != 1 {
		t.Errorf("found %d suggestions, want only the one from before the reload:\n%s", n, stdout.String())
	}

	cancel()
	select {
	case code := <-exit:
		if code != 0 {
			t.Errorf("exit code = %d, want 0\nstderr:\n%s", code, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRecheckAll(t *testing.T) {
	tests := []struct {
		name    string
		known   []string
		changed []string
		removed []string
		want    []string
	}{
		{"known only", []string{"b.sc", "a.sc"}, nil, nil, []string{"a.sc", "b.sc"}},
		{"new file joins", []string{"a.sc"}, []string{"c.sc", "a.sc"}, nil, []string{"a.sc", "c.sc"}},
		{"removed file left out", []string{"a.sc", "b.sc"}, nil, []string{"b.sc"}, []string{"a.sc"}},
		{"nothing", nil, nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recheckAll(tt.known, tt.changed, tt.removed)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("recheckAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatchCommand_MissingPath(t *testing.T) {
	code, _, stderr := runCLI(t, context.Background(), "watch", "--addr", "127.0.0.1:0", "testdata/missing")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "testdata/missing") {
		t.Errorf("stderr = %q", stderr)
	}
}
