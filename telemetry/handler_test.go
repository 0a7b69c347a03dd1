package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
)

func testHandler(t *testing.T, teeToLog bool) (Handler, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	passthrough := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: LevelTrace})
	h := New(passthrough, otel.Meter("forml/telemetry_test"), otel.Tracer("forml/telemetry_test"), teeToLog)
	return h, buf
}

func TestHandlerEnabledAcceptsTraceAndMetricLevels(t *testing.T) {
	h, _ := testHandler(t, false)
	if !h.Enabled(context.Background(), LevelTrace) {
		t.Fatalf("expected LevelTrace to be enabled")
	}
	if !h.Enabled(context.Background(), LevelMetric) {
		t.Fatalf("expected LevelMetric to be enabled")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("expected ordinary levels to fall through to the passthrough handler")
	}
}

func TestSpanStartEventEndRoutesThroughHandlerWithoutError(t *testing.T) {
	h, _ := testHandler(t, false)
	prior := slog.Default()
	slog.SetDefault(slog.New(h))
	defer slog.SetDefault(prior)

	ctx := context.Background()
	c := SpanStart(ctx, "compile")
	if _, ok := getSpanHolder(c); !ok {
		t.Fatalf("expected a span holder to be attached to the context returned by SpanStart")
	}

	SpanEvent(c, "compile")
	SpanEnd(c, "compile")
}

func TestHandleTraceWithoutSpanStartReturnsError(t *testing.T) {
	h, _ := testHandler(t, false)
	var r slog.Record
	r.Level = LevelTrace
	r.Message = "orphan"
	r.AddAttrs(slog.String("type", traceEvent))

	if err := h.Handle(context.Background(), r); err == nil {
		t.Fatalf("expected an error recording a trace event with no span holder in context")
	}
}

func TestHandleMetricRecordsWithoutError(t *testing.T) {
	h, _ := testHandler(t, false)
	var r slog.Record
	r.Level = LevelMetric
	r.Message = "forml.nodes.visited"
	r.AddAttrs(slog.String("type", metricInt64Counter), slog.Int64("value", 1))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTeeToLogAlsoWritesToPassthrough(t *testing.T) {
	h, buf := testHandler(t, true)
	var r slog.Record
	r.Level = LevelMetric
	r.Message = "forml.nodes.visited"
	r.AddAttrs(slog.String("type", metricInt64Counter), slog.Int64("value", 1))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected teeToLog to also write through the passthrough handler")
	}
}
