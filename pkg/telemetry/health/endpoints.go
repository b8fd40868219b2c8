package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo is the body of the version endpoint.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// LivenessHandler serves the liveness endpoint. It always answers 200.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, c.Liveness(r.Context()))
	}
}

// ReadinessHandler serves the readiness endpoint: 200 when every check passes,
// 503 otherwise.
//
//	{
//	    "status": "not_ready",
//	    "checks": {
//	        "watcher": {"status": "ok", "duration_ns": 1200},
//	        "last_run": {"status": "unhealthy", "message": "no check has completed yet"}
//	    },
//	    "timestamp": "2026-01-01T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		status := c.Readiness(r.Context())
		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler serves build information.
func VersionHandler(version, commit string) http.HandlerFunc {
	info := VersionInfo{Version: version, Commit: commit, GoVersion: runtime.Version()}
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Paths names where Register mounts the health endpoints.
type Paths struct {
	Liveness  string
	Readiness string
	Version   string
}

// Register mounts the health handlers on mux. Empty paths are skipped.
func Register(mux *http.ServeMux, c *Checker, paths Paths, version, commit string) {
	if paths.Liveness != "" {
		mux.HandleFunc(paths.Liveness, c.LivenessHandler())
	}
	if paths.Readiness != "" {
		mux.HandleFunc(paths.Readiness, c.ReadinessHandler())
	}
	if paths.Version != "" {
		mux.HandleFunc(paths.Version, VersionHandler(version, commit))
	}
}

func allowed(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(body)
	}
}
