package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jensen-yan/compiler/pkg/checker"
	"github.com/jensen-yan/compiler/pkg/cli"
	"github.com/jensen-yan/compiler/pkg/config"
	"github.com/jensen-yan/compiler/pkg/server"
	"github.com/jensen-yan/compiler/pkg/telemetry/health"
	"github.com/jensen-yan/compiler/pkg/telemetry/tracing"
	"github.com/jensen-yan/compiler/pkg/workspace"
)

var watchFlags struct {
	addr    string
	noColor bool
}

var watchCmd = &cobra.Command{
	Use:   "watch PATH...",
	Short: "Re-check scripts whenever they change",
	Long: `Check scripts once, then watch them and re-check every file that is
written or created. Diagnostics are printed after each run. When --config
names an existing file, editing it reloads the compiler settings and
re-checks every file.

While watching, a status server answers on --addr (watch.status_address):
  /metrics   Prometheus metrics (telemetry.metrics.path)
  /health    liveness
  /ready     readiness: the watcher is running and a check has completed
  /version   build information

Stop with Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.addr, "addr", "", "status server address (default watch.status_address)")
	watchCmd.Flags().BoolVar(&watchFlags.noColor, "no-color", false, "disable colored output")
}

// watchState holds the latest report for every checked file.
type watchState struct {
	mu      sync.Mutex
	reports map[string]*checker.Report
	runs    int
	lastRun time.Time
}

func newWatchState() *watchState {
	return &watchState{reports: make(map[string]*checker.Report)}
}

func (s *watchState) update(reports []*checker.Report, removed []string) checker.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range removed {
		delete(s.reports, path)
	}
	for _, r := range reports {
		s.reports[r.File] = r
	}
	s.runs++
	s.lastRun = time.Now()

	all := make([]*checker.Report, 0, len(s.reports))
	for _, r := range s.reports {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].File < all[j].File })
	return checker.Summarize(all)
}

// paths returns every checked file, sorted.
func (s *watchState) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.reports))
	for p := range s.reports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (s *watchState) files() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// Check is a readiness check that passes once a run has completed.
func (s *watchState) Check(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs == 0 {
		return errors.New("no check has completed yet")
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher, err := workspace.NewWatcher(a.checker.Loader(), a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop watcher", "error", err)
		}
	}()
	for _, root := range args {
		if err := watcher.Add(root); err != nil {
			return cli.NewCommandError("watch", err)
		}
	}
	if cfgPath := config.Path(); cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			if err := watcher.Track(cfgPath); err != nil {
				return cli.NewCommandError("watch", err)
			}
		}
	}

	state := newWatchState()
	checks := health.New(a.cfg.Telemetry.Health.CheckTimeout)
	checks.Register("watcher", watcher.Check)
	checks.Register("last_run", state.Check)

	addr := watchFlags.addr
	if addr == "" {
		addr = a.cfg.Watch.StatusAddress
	}
	srv := server.New(tracing.HTTPMiddleware(a.statusMux(checks)), server.Options{
		Address: addr,
		Logger:  a.logger,
	})
	checks.Register("status_server", srv.Health)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(ctx)
	}()
	select {
	case <-srv.Ready():
	case err := <-serveErr:
		return cli.NewCommandError("watch", err)
	}
	defer func() {
		cancel()
		if err := <-serveErr; err != nil {
			a.logger.Warn("status server stopped with error", "error", err)
		}
	}()

	out := cmd.OutOrStdout()
	r := cli.NewRenderer(out, !watchFlags.noColor)
	var outMu sync.Mutex

	// chk is replaced on config reload. Watch callbacks never overlap.
	chk := a.checker
	reload := func() bool {
		if err := config.ReloadConfig(); err != nil {
			a.logger.Error("config reload failed, keeping previous settings", "path", config.Path(), "error", err)
			return false
		}
		cfg := config.MustGetConfig()
		chk = checker.New(&cfg.Compiler,
			checker.WithLogger(a.logger),
			checker.WithMetrics(a.metrics),
			checker.WithTracer(a.tracer),
		)
		a.logger.Info("configuration reloaded", "path", config.Path())
		return true
	}

	recheck := func(files, removed []string) {
		reports, err := chk.CheckFiles(ctx, files)
		if err != nil {
			if !checker.IsCanceled(err) {
				a.logger.Error("re-check failed", "error", err)
			}
			return
		}
		summary := state.update(reports, removed)
		a.metrics.SetWatchedFiles(state.files())
		a.metrics.RecordRecheck(summary.OK())

		outMu.Lock()
		defer outMu.Unlock()
		if err := writeReports(out, r, reports); err != nil {
			a.logger.Warn("failed to write diagnostics", "error", err)
		}
		if len(reports) != summary.Files {
			fmt.Fprintln(out, summary)
		}
	}

	files, err := a.checker.Loader().Expand(args)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	recheck(files, nil)

	err = watcher.Watch(ctx, func(changes []workspace.Change) {
		var changed, removed []string
		reloaded := false
		for _, c := range changes {
			if c.Tracked {
				if !c.Removed {
					reloaded = reload() || reloaded
				}
				continue
			}
			if c.Removed {
				removed = append(removed, c.Path)
			} else {
				changed = append(changed, c.Path)
			}
		}
		if reloaded {
			changed = recheckAll(state.paths(), changed, removed)
		}
		a.logger.Debug("files changed", "changed", len(changed), "removed", len(removed), "reloaded", reloaded)
		if len(changed) == 0 && len(removed) == 0 {
			return
		}
		recheck(changed, removed)
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	return nil
}

// recheckAll merges the known files with the changed ones, leaving out
// removed files.
func recheckAll(known, changed, removed []string) []string {
	gone := make(map[string]bool, len(removed))
	for _, p := range removed {
		gone[p] = true
	}
	seen := make(map[string]bool, len(known)+len(changed))
	var out []string
	for _, list := range [][]string{known, changed} {
		for _, p := range list {
			if gone[p] || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// statusMux routes the metrics and health endpoints.
func (a *app) statusMux(checks *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()
	if a.cfg.Telemetry.Metrics.Enabled {
		mux.Handle(a.cfg.Telemetry.Metrics.Path, a.metrics.Handler())
	}
	if a.cfg.Telemetry.Health.Enabled {
		health.Register(mux, checks, health.Paths{
			Liveness:  a.cfg.Telemetry.Health.LivenessPath,
			Readiness: a.cfg.Telemetry.Health.ReadinessPath,
			Version:   "/version",
		}, Version, GitCommit)
	}
	return mux
}
