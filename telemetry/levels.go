// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package telemetry wires structured logging through log/slog to
// OpenTelemetry spans and metrics, following the teacher's
// telemetry/handler.go pattern of tunneling trace/metric events through
// slog's own Level and Attr machinery rather than a separate API surface.
package telemetry

import (
	"context"
	"log/slog"
)

// Two custom slog levels beneath slog.LevelDebug, used to route trace and
// metric events into Handler.Handle without competing with ordinary log
// levels.
const (
	LevelTrace  slog.Level = -16
	LevelMetric slog.Level = -8

	traceStart = "start"
	traceEvent = "event"
	traceEnd   = "end"

	metricFloat64Counter   = "float64counter"
	metricInt64Counter     = "int64counter"
	metricFloat64Histogram = "float64histogram"
	metricInt64Histogram   = "int64histogram"
)

type ctxKey int

const spanHolderKey ctxKey = 0

// storeSpanHolder attaches a fresh span holder to ctx, returning the
// derived context. A span holder carries the in-flight span (and the
// context it was started with) across the SpanStart/SpanEvent/SpanEnd
// calls that share one logical span.
func storeSpanHolder(ctx context.Context, m *map[string]any) context.Context {
	return context.WithValue(ctx, spanHolderKey, m)
}

// getSpanHolder retrieves the span holder stored by storeSpanHolder, if
// any.
func getSpanHolder(ctx context.Context) (*map[string]any, bool) {
	val := ctx.Value(spanHolderKey)
	if val == nil {
		return nil, false
	}
	m, ok := val.(*map[string]any)
	return m, ok
}
