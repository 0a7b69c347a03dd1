// Copyright © 2026 the forml authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type recorder func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption)

var providerMap = map[string]func(m metric.Meter) func(name string) (recorder, error){
	metricFloat64Counter: func(m metric.Meter) func(name string) (recorder, error) {
		return func(name string) (recorder, error) {
			x, err := m.Float64Counter(name)
			return func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
				x.Add(ctx, val.Value.AsFloat64(), option)
			}, err
		}
	},
	metricInt64Counter: func(m metric.Meter) func(name string) (recorder, error) {
		return func(name string) (recorder, error) {
			x, err := m.Int64Counter(name)
			return func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
				x.Add(ctx, val.Value.AsInt64(), option)
			}, err
		}
	},
	metricFloat64Histogram: func(m metric.Meter) func(name string) (recorder, error) {
		return func(name string) (recorder, error) {
			x, err := m.Float64Histogram(name)
			return func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
				x.Record(ctx, val.Value.AsFloat64(), option)
			}, err
		}
	},
	metricInt64Histogram: func(m metric.Meter) func(name string) (recorder, error) {
		return func(name string) (recorder, error) {
			x, err := m.Int64Histogram(name)
			return func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
				x.Record(ctx, val.Value.AsInt64(), option)
			}, err
		}
	},
}

// Handler is a slog.Handler that additionally routes LevelTrace and
// LevelMetric records into OpenTelemetry spans and metrics instead of (or,
// with teeToLog, in addition to) the wrapped passthrough handler.
type Handler interface {
	slog.Handler
	WithFloat64Counter(name string, x metric.Float64Counter)
	WithInt64Counter(name string, x metric.Int64Counter)
	WithFloat64Histogram(name string, x metric.Float64Histogram)
	WithInt64Histogram(name string, x metric.Int64Histogram)
}

type handler struct {
	passthrough slog.Handler
	meter       metric.Meter
	tracer      trace.Tracer
	teeToLog    bool
	m           sync.Mutex
	metrics     map[string]recorder
	attributes  []attribute.KeyValue
}

// New returns a Handler wrapping logHandler (a slog.NewTextHandler over
// stderr if nil) that also records spans via tracer and metrics via
// meter.
func New(logHandler slog.Handler, meter metric.Meter, tracer trace.Tracer, teeToLog bool, attributes ...attribute.KeyValue) Handler {
	if logHandler == nil {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelTrace})
	}
	return &handler{
		passthrough: logHandler,
		meter:       meter,
		tracer:      tracer,
		teeToLog:    teeToLog,
		metrics:     make(map[string]recorder),
		attributes:  attributes,
	}
}

// SpanStart starts a span named name and returns a context carrying it;
// SpanEvent/SpanEnd must be called with the returned context (or a
// descendant of it) to reach the same span.
func SpanStart(ctx context.Context, name string, attrs ...slog.Attr) context.Context {
	holder := map[string]any{}
	c := storeSpanHolder(ctx, &holder)
	slog.LogAttrs(c, LevelTrace, name, append(attrs, slog.String("type", traceStart))...)
	return c
}

// SpanEvent records an event on the span started by SpanStart against ctx.
func SpanEvent(ctx context.Context, name string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelTrace, name, append(attrs, slog.String("type", traceEvent))...)
}

// SpanEnd ends the span started by SpanStart against ctx.
func SpanEnd(ctx context.Context, name string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelTrace, name, append(attrs, slog.String("type", traceEnd))...)
}

// Float64Counter records a float64 counter metric named name.
func Float64Counter(ctx context.Context, name string, value float64, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelMetric, name, append(attrs, slog.String("type", metricFloat64Counter), slog.Float64("value", value))...)
}

// Int64Counter records an int64 counter metric named name.
func Int64Counter(ctx context.Context, name string, value int64, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelMetric, name, append(attrs, slog.String("type", metricInt64Counter), slog.Int64("value", value))...)
}

// Float64Histogram records a float64 histogram metric named name.
func Float64Histogram(ctx context.Context, name string, value float64, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelMetric, name, append(attrs, slog.String("type", metricFloat64Histogram), slog.Float64("value", value))...)
}

// Int64Histogram records an int64 histogram metric named name.
func Int64Histogram(ctx context.Context, name string, value int64, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelMetric, name, append(attrs, slog.String("type", metricInt64Histogram), slog.Int64("value", value))...)
}

func (h *handler) WithFloat64Counter(name string, x metric.Float64Counter) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
		x.Add(ctx, val.Value.AsFloat64(), option)
	})
}

func (h *handler) WithInt64Counter(name string, x metric.Int64Counter) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
		x.Add(ctx, val.Value.AsInt64(), option)
	})
}

func (h *handler) WithFloat64Histogram(name string, x metric.Float64Histogram) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
		x.Record(ctx, val.Value.AsFloat64(), option)
	})
}

func (h *handler) WithInt64Histogram(name string, x metric.Int64Histogram) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, option metric.MeasurementOption) {
		x.Record(ctx, val.Value.AsInt64(), option)
	})
}

func (h *handler) addMetric(name string, x recorder) {
	h.m.Lock()
	defer h.m.Unlock()
	h.metrics[name] = x
}

// Enabled implements slog.Handler.
func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level == LevelTrace || level == LevelMetric || h.passthrough.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	defer recov()

	var err error
	switch r.Level {
	case LevelTrace:
		err = h.handleTrace(ctx, r)
	case LevelMetric:
		err = h.handleMetric(ctx, r)
	default:
		err = h.passthrough.Handle(ctx, r)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "telemetry: handling record:", err)
	}
	return err
}

func recov() {
	if r := recover(); r != nil {
		fmt.Fprintln(os.Stderr, "telemetry: recovered:", r)
	}
}

// WithAttrs implements slog.Handler.
func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for _, a := range attrs {
		h.attributes = append(h.attributes, convertAttr(a))
	}
	h.passthrough = h.passthrough.WithAttrs(attrs)
	return h
}

// WithGroup implements slog.Handler.
func (h *handler) WithGroup(name string) slog.Handler {
	h.passthrough = h.passthrough.WithGroup(name)
	return h
}

func (h *handler) handleTrace(ctx context.Context, r slog.Record) error {
	attrs, flags := attrsFromRecord(r)
	typ, ok := flags["type"]
	if !ok {
		return fmt.Errorf("telemetry: trace record missing type")
	}

	operation := typ.Value.AsString()
	attributes := append(h.attributes, attrs...)

	c, span, holder := getCtxAndSpan(ctx)
	if holder == nil {
		return fmt.Errorf("telemetry: no span holder in context for %q", operation)
	}
	if span == nil && operation != traceStart {
		return fmt.Errorf("telemetry: no active span in context for %q", operation)
	}

	switch operation {
	case traceStart:
		(*holder)["ctx"], (*holder)["span"] = h.tracer.Start(c, r.Message, trace.WithTimestamp(r.Time), trace.WithAttributes(attributes...))
	case traceEvent:
		span.AddEvent(r.Message, trace.WithTimestamp(r.Time), trace.WithAttributes(attributes...))
	case traceEnd:
		span.End(trace.WithTimestamp(r.Time))
		delete(*holder, "ctx")
		delete(*holder, "span")
	default:
		return fmt.Errorf("telemetry: invalid trace operation %q", operation)
	}

	if h.teeToLog {
		return h.passthrough.Handle(ctx, r)
	}
	return nil
}

func (h *handler) handleMetric(ctx context.Context, r slog.Record) error {
	attrs, flags := attrsFromRecord(r)
	typ, ok := flags["type"]
	if !ok {
		return fmt.Errorf("telemetry: metric record missing type")
	}
	value, ok := flags["value"]
	if !ok {
		return fmt.Errorf("telemetry: metric record missing value")
	}

	provider, ok := providerMap[typ.Value.AsString()]
	if !ok {
		return fmt.Errorf("telemetry: invalid metric type %q", typ.Value.AsString())
	}

	rr, err := h.getRecorder(r.Message, provider)
	if err != nil {
		return err
	}

	rr(ctx, value, metric.WithAttributes(append(h.attributes, attrs...)...))

	if h.teeToLog {
		return h.passthrough.Handle(ctx, r)
	}
	return nil
}

func getCtxAndSpan(ctx context.Context) (context.Context, trace.Span, *map[string]any) {
	holder, ok := getSpanHolder(ctx)
	if !ok {
		return ctx, nil, nil
	}
	cVal, ok := (*holder)["ctx"]
	if !ok {
		return ctx, nil, holder
	}
	c, ok := cVal.(context.Context)
	if !ok {
		return ctx, nil, holder
	}
	spanVal, ok := (*holder)["span"]
	if !ok {
		return c, nil, holder
	}
	span, ok := spanVal.(trace.Span)
	if !ok {
		return c, nil, holder
	}
	return c, span, holder
}

func (h *handler) getRecorder(name string, provider func(metric.Meter) func(string) (recorder, error)) (recorder, error) {
	h.m.Lock()
	defer h.m.Unlock()
	if _, ok := h.metrics[name]; !ok {
		rr, err := provider(h.meter)(name)
		if err != nil {
			return nil, err
		}
		h.metrics[name] = rr
	}
	return h.metrics[name], nil
}

func attrsFromRecord(r slog.Record) ([]attribute.KeyValue, map[string]attribute.KeyValue) {
	attrs := make([]attribute.KeyValue, 0, r.NumAttrs())
	flags := make(map[string]attribute.KeyValue, 2)
	r.Attrs(func(a slog.Attr) bool {
		attr := convertAttr(a)
		attrs = append(attrs, attr)
		if a.Key == "type" || a.Key == "value" {
			flags[a.Key] = attr
		}
		return true
	})
	return attrs, flags
}

func convertAttr(a slog.Attr) attribute.KeyValue {
	switch a.Value.Kind() {
	case slog.KindString:
		return attribute.String(a.Key, a.Value.String())
	case slog.KindTime:
		return attribute.String(a.Key, a.Value.Time().Format(time.RFC3339Nano))
	case slog.KindBool:
		return attribute.Bool(a.Key, a.Value.Bool())
	case slog.KindInt64:
		return attribute.Int64(a.Key, a.Value.Int64())
	case slog.KindFloat64:
		return attribute.Float64(a.Key, a.Value.Float64())
	default:
		return attribute.String(a.Key, a.Value.String())
	}
}
