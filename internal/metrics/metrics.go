// Package metrics defines the OpenTelemetry instruments for the frame loop.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "nayana.wink"

// Frame outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

type WinkMetrics struct {
	frames         metric.Int64Counter
	faces          metric.Int64Counter
	winksConfirmed metric.Int64Counter
	inconclusive   metric.Int64Counter
	detectDuration metric.Float64Histogram
}

// New registers the instruments on the global meter provider.
func New() (*WinkMetrics, error) {
	return NewWithProvider(otel.GetMeterProvider())
}

// NewWithProvider registers the instruments on provider.
func NewWithProvider(provider metric.MeterProvider) (*WinkMetrics, error) {
	meter := provider.Meter(meterName)

	frames, err := meter.Int64Counter(
		"nayana_frames_total",
		metric.WithDescription("Captured frames by gate outcome"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, err
	}

	faces, err := meter.Int64Counter(
		"nayana_faces_total",
		metric.WithDescription("Processed frames by face presence"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, err
	}

	winksConfirmed, err := meter.Int64Counter(
		"nayana_winks_confirmed_total",
		metric.WithDescription("Winks confirmed by the debounce tracker"),
		metric.WithUnit("{wink}"),
	)
	if err != nil {
		return nil, err
	}

	inconclusive, err := meter.Int64Counter(
		"nayana_inconclusive_total",
		metric.WithDescription("Frames with degenerate eye geometry"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, err
	}

	detectDuration, err := meter.Float64Histogram(
		"nayana_detect_duration_seconds",
		metric.WithDescription("Landmark detection latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	return &WinkMetrics{
		frames:         frames,
		faces:          faces,
		winksConfirmed: winksConfirmed,
		inconclusive:   inconclusive,
		detectDuration: detectDuration,
	}, nil
}

func (m *WinkMetrics) RecordFrame(ctx context.Context, outcome string) {
	m.frames.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *WinkMetrics) RecordFace(ctx context.Context, present bool) {
	m.faces.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("present", present),
	))
}

func (m *WinkMetrics) RecordWinkConfirmed(ctx context.Context, eye string) {
	m.winksConfirmed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("eye", eye),
	))
}

func (m *WinkMetrics) RecordInconclusive(ctx context.Context) {
	m.inconclusive.Add(ctx, 1)
}

func (m *WinkMetrics) RecordDetectDuration(ctx context.Context, duration time.Duration) {
	m.detectDuration.Record(ctx, duration.Seconds())
}
