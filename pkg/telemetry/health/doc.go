// Package health serves liveness and readiness endpoints for long-running
// scriptc processes such as watch mode.
//
// Liveness answers 200 whenever the process can serve HTTP. Readiness runs
// every registered check concurrently, each bounded by the checker's
// timeout, and answers 503 if any of them fails:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.Register("watcher", watcher.Check)
//	health.Register(mux, checker, health.Paths{
//		Liveness:  "/health",
//		Readiness: "/ready",
//	}, version, commit)
package health
