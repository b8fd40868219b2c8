package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanCheckFile = "scriptc.check"
	SpanLex       = "scriptc.lex"
	SpanParse     = "scriptc.parse"
	SpanAnalyze   = "scriptc.analyze"
	SpanLoad      = "scriptc.load"
)

// Attribute keys for scriptc spans.
const (
	AttrRunID       = "scriptc.run_id"
	AttrFile        = "scriptc.file"
	AttrSourceBytes = "scriptc.source.bytes"
	AttrStage       = "scriptc.stage"
	AttrTokens      = "scriptc.tokens"
	AttrStatements  = "scriptc.statements"
	AttrDiagnostics = "scriptc.diagnostics"
	AttrOK          = "scriptc.ok"
)

// SetFileAttributes records which file a span is checking.
func SetFileAttributes(span trace.Span, file string, sizeBytes int) {
	span.SetAttributes(
		attribute.String(AttrFile, file),
		attribute.Int(AttrSourceBytes, sizeBytes),
	)
}

// SetStageResult records the outcome of a pipeline stage.
func SetStageResult(span trace.Span, ok bool, diagnostics int) {
	span.SetAttributes(
		attribute.Bool(AttrOK, ok),
		attribute.Int(AttrDiagnostics, diagnostics),
	)
}

// AddEvent adds an event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithRunID adds the checker run id.
func (ab *AttributeBuilder) WithRunID(runID string) *AttributeBuilder {
	if runID != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrRunID, runID))
	}
	return ab
}

// WithFile adds the source file name.
func (ab *AttributeBuilder) WithFile(file string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrFile, file))
	return ab
}

// WithStage adds the pipeline stage name.
func (ab *AttributeBuilder) WithStage(stage string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrStage, stage))
	return ab
}

// WithCustom adds an attribute of any basic type. Other values are
// formatted with %v.
func (ab *AttributeBuilder) WithCustom(key string, value any) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the attributes as a span start option.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply sets the attributes on span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
