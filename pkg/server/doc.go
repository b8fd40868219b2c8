// Package server runs the status HTTP server used while watching scripts.
//
// The server wraps a handler (usually a mux with /metrics, /health and
// /ready) with request logging and panic recovery, serves it until the
// context passed to Start ends, and then shuts down gracefully:
//
//	srv := server.New(mux, server.Options{Address: "127.0.0.1:9464", Logger: logger})
//	go func() { errCh <- srv.Start(ctx) }()
//	<-srv.Ready()
//	fmt.Println("listening on", srv.Addr())
//
// Health can be registered as a readiness check.
package server
