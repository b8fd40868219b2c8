package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const testTraceParent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

func useW3CPropagator(t *testing.T) {
	t.Helper()
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })
}

func TestExtractAndInject(t *testing.T) {
	useW3CPropagator(t)

	headers := http.Header{}
	headers.Set("traceparent", testTraceParent)

	ctx := Extract(context.Background(), headers)
	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("TraceID() = %q", got)
	}
	if !IsSampled(ctx) {
		t.Error("extracted context should be sampled")
	}

	out := http.Header{}
	Inject(ctx, out)
	if got := out.Get("traceparent"); got != testTraceParent {
		t.Errorf("injected traceparent = %q, want %q", got, testTraceParent)
	}
}

func TestMapCarrier(t *testing.T) {
	useW3CPropagator(t)

	ctx := ExtractFromMap(context.Background(), map[string]string{"traceparent": testTraceParent})
	if got := SpanID(ctx); got != "00f067aa0ba902b7" {
		t.Errorf("SpanID() = %q", got)
	}

	carrier := map[string]string{}
	InjectToMap(ctx, carrier)
	if carrier["traceparent"] != testTraceParent {
		t.Errorf("carrier = %v", carrier)
	}

	empty := map[string]string{}
	InjectToMap(context.Background(), empty)
	if _, ok := empty["traceparent"]; ok {
		t.Error("injecting an empty context should not write traceparent")
	}
}

func TestHTTPMiddleware(t *testing.T) {
	useW3CPropagator(t)

	tests := []struct {
		name        string
		traceparent string
		wantTraceID string
	}{
		{"with traceparent", testTraceParent, "4bf92f3577b34da6a3ce929d0e0e4736"},
		{"without traceparent", "", ""},
		{"malformed traceparent", "00-zz-00f067aa0ba902b7-01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = TraceID(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.traceparent != "" {
				req.Header.Set("traceparent", tt.traceparent)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d", rec.Code)
			}
			if seen != tt.wantTraceID {
				t.Errorf("handler saw trace id %q, want %q", seen, tt.wantTraceID)
			}
			if got := rec.Header().Get("X-Trace-ID"); got != tt.wantTraceID {
				t.Errorf("X-Trace-ID = %q, want %q", got, tt.wantTraceID)
			}
		})
	}
}
