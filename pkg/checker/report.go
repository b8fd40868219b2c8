package checker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jensen-yan/compiler/pkg/script"
	diag "github.com/jensen-yan/compiler/pkg/script/errors"
)

// Pipeline stages.
const (
	StageLoad    = "load"
	StageLex     = "lex"
	StageParse   = "parse"
	StageAnalyze = "analyze"
)

// File outcomes used in metrics and reports.
const (
	OutcomeClean       = "clean"
	OutcomeDiagnostics = "diagnostics"
	OutcomeError       = "error"
)

// StageResult records one pipeline stage that ran.
type StageResult struct {
	Stage    string        `json:"stage"`
	OK       bool          `json:"ok"`
	Duration time.Duration `json:"duration_ns"`
}

// Report is the result of checking one file.
type Report struct {
	RunID       string        `json:"run_id"`
	File        string        `json:"file"`
	Bytes       int           `json:"bytes"`
	Tokens      int           `json:"tokens"`
	Statements  int           `json:"statements"`
	Stages      []StageResult `json:"stages"`
	Diagnostics []*diag.Error `json:"diagnostics"`
	TraceParent string        `json:"traceparent,omitempty"`
	Duration    time.Duration `json:"duration_ns"`

	// Unit holds the tokens, tree and analyzer of the check. It is nil when
	// the file could not be loaded.
	Unit *script.Unit `json:"-"`
}

// OK reports whether the file has no diagnostics.
func (r *Report) OK() bool {
	return len(r.Diagnostics) == 0
}

// Outcome classifies the report for metrics.
func (r *Report) Outcome() string {
	switch {
	case r.OK():
		return OutcomeClean
	case r.Unit == nil:
		return OutcomeError
	}
	return OutcomeDiagnostics
}

// Stage returns the result for stage and whether it ran.
func (r *Report) Stage(stage string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageResult{}, false
}

// String renders a one-line summary.
func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s: ok", r.File)
	}
	return fmt.Sprintf("%s: %d diagnostic(s)", r.File, len(r.Diagnostics))
}

// Summary aggregates a batch of reports.
type Summary struct {
	RunID       string            `json:"run_id,omitempty"`
	Files       int               `json:"files"`
	Clean       int               `json:"clean"`
	Diagnostics int               `json:"diagnostics"`
	ByKind      map[diag.Kind]int `json:"by_kind,omitempty"`
}

// Summarize counts files and diagnostics across reports.
func Summarize(reports []*Report) Summary {
	s := Summary{Files: len(reports), ByKind: make(map[diag.Kind]int)}
	for _, r := range reports {
		if s.RunID == "" {
			s.RunID = r.RunID
		}
		if r.OK() {
			s.Clean++
		}
		s.Diagnostics += len(r.Diagnostics)
		for _, d := range r.Diagnostics {
			s.ByKind[d.Kind]++
		}
	}
	return s
}

// OK reports whether every file was clean.
func (s Summary) OK() bool { return s.Diagnostics == 0 }

func (s Summary) String() string {
	if s.OK() {
		return fmt.Sprintf("%d file(s) checked, no diagnostics", s.Files)
	}
	kinds := make([]string, 0, len(s.ByKind))
	for k, n := range s.ByKind {
		kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
	}
	sort.Strings(kinds)
	return fmt.Sprintf("%d file(s) checked, %d diagnostic(s) (%s)", s.Files, s.Diagnostics, strings.Join(kinds, " "))
}
