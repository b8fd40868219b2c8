package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jensen-yan/compiler/pkg/telemetry/logging"
)

func startServer(t *testing.T, handler http.Handler) (*Server, context.CancelFunc, <-chan error) {
	t.Helper()
	srv := New(handler, Options{Address: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		cancel()
		t.Fatalf("Start() error = %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not become ready")
	}
	return srv, cancel, errCh
}

func TestServer_Lifecycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	})

	srv, cancel, errCh := startServer(t, mux)

	if !srv.IsRunning() {
		t.Error("IsRunning() = false after Ready")
	}
	if err := srv.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
	if !strings.HasPrefix(srv.Addr(), "127.0.0.1:") || strings.HasSuffix(srv.Addr(), ":0") {
		t.Errorf("Addr() = %q, want a bound port", srv.Addr())
	}

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() returned %v after cancel, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
	if err := srv.Health(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Health() error = %v, want ErrNotRunning", err)
	}
}

func TestServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	srv := New(http.NotFoundHandler(), Options{Address: ln.Addr().String()})
	err = srv.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to listen") {
		t.Errorf("Start() error = %v, want listen failure", err)
	}
	if srv.Addr() != "" {
		t.Errorf("Addr() = %q, want empty", srv.Addr())
	}
}

func TestServer_ErrorLogUsesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	srv := New(http.NotFoundHandler(), Options{Address: "127.0.0.1:0", Logger: logger})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()
	select {
	case <-srv.Ready():
	case err := <-errCh:
		cancel()
		t.Fatalf("Start() error = %v", err)
	}

	srv.mu.Lock()
	errorLog := srv.httpServer.ErrorLog
	srv.mu.Unlock()
	if errorLog == nil {
		cancel()
		t.Fatal("http.Server has no ErrorLog")
	}
	errorLog.Print("http: TLS handshake error from 127.0.0.1:1: EOF")

	// A served request means the listening log line has been written.
	if resp, err := http.Get("http://" + srv.Addr() + "/"); err == nil {
		resp.Body.Close()
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "TLS handshake error") {
		t.Errorf("server errors not routed to the logger:\n%s", out)
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv, cancel, errCh := startServer(t, http.NotFoundHandler())
	defer func() {
		cancel()
		<-errCh
	}()

	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	srv, cancel, errCh := startServer(t, mux)
	defer func() {
		cancel()
		<-errCh
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/panic")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{"implicit ok", func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "ok") }, http.StatusOK},
		{"explicit status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }, http.StatusTeapot},
		{"first status wins", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.WriteHeader(http.StatusBadRequest)
		}, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw := newResponseWriter(httptest.NewRecorder())
			tt.handler(rw, httptest.NewRequest(http.MethodGet, "/", nil))
			if rw.statusCode != tt.want {
				t.Errorf("statusCode = %d, want %d", rw.statusCode, tt.want)
			}
		})
	}
}
