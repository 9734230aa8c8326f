// Package telemetry holds the OpenTelemetry instruments a logger reports to.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ScopeName is the instrumentation scope of every instrument created here.
const ScopeName = "github.com/sivaosorg/fanlog"

// Instruments groups the counters of one logger. A nil *Instruments records nothing.
type Instruments struct {
	logger attribute.KeyValue

	rendered  metric.Int64Counter
	filtered  metric.Int64Counter
	writes    metric.Int64Counter
	failures  metric.Int64Counter
	fallbacks metric.Int64Counter
}

// New creates the counters for the named logger on provider. A nil provider falls back
// to the global one. Instruments that fail to register are skipped.
func New(provider metric.MeterProvider, logger string) *Instruments {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(ScopeName)
	inst := &Instruments{logger: attribute.String("logger", logger)}

	inst.rendered, _ = meter.Int64Counter("fanlog.records.rendered",
		metric.WithDescription("Records that passed the logger threshold and were rendered"),
		metric.WithUnit("{record}"))
	inst.filtered, _ = meter.Int64Counter("fanlog.records.filtered",
		metric.WithDescription("Records dropped by the logger threshold"),
		metric.WithUnit("{record}"))
	inst.writes, _ = meter.Int64Counter("fanlog.sink.writes",
		metric.WithDescription("Rendered records handed to sinks"),
		metric.WithUnit("{record}"))
	inst.failures, _ = meter.Int64Counter("fanlog.sink.failures",
		metric.WithDescription("Sink writes that returned an error"),
		metric.WithUnit("{record}"))
	inst.fallbacks, _ = meter.Int64Counter("fanlog.format.fallbacks",
		metric.WithDescription("Formatted messages emitted with argument mismatch annotations"),
		metric.WithUnit("{record}"))
	return inst
}

// Rendered counts a record rendered at level.
func (i *Instruments) Rendered(level string) {
	if i == nil {
		return
	}
	i.add(i.rendered, level)
}

// Filtered counts a record dropped by the logger threshold.
func (i *Instruments) Filtered(level string) {
	if i == nil {
		return
	}
	i.add(i.filtered, level)
}

// SinkWrite counts one hand-off to a sink, and a failure when ok is false.
func (i *Instruments) SinkWrite(level string, ok bool) {
	if i == nil {
		return
	}
	i.add(i.writes, level)
	if !ok {
		i.add(i.failures, level)
	}
}

// FormatFallback counts a best-effort formatted message.
func (i *Instruments) FormatFallback(level string) {
	if i == nil {
		return
	}
	i.add(i.fallbacks, level)
}

func (i *Instruments) add(counter metric.Int64Counter, level string) {
	if counter == nil {
		return
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(i.logger, attribute.String("level", level)))
}
