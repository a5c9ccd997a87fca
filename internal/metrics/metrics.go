package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xspf2mp4"

// Recorder owns the registry and collectors for one process.
type Recorder struct {
	registry *prometheus.Registry

	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	SegmentsTotal      *prometheus.CounterVec
	SegmentErrors      *prometheus.CounterVec
	SegmentDuration    *prometheus.HistogramVec
	LastRunTimestamp   prometheus.Gauge
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of playlist conversions by final status",
			},
			[]string{"status"},
		),
		ConversionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Wall time of a playlist conversion in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
			},
		),
		SegmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "segments_total",
				Help:      "Total number of normalised segments by media kind",
			},
			[]string{"kind"},
		),
		SegmentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "segment_errors_total",
				Help:      "Total number of failed segment normalisations by media kind",
			},
			[]string{"kind"},
		),
		SegmentDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "segment_duration_seconds",
				Help:      "Time ffmpeg spent normalising one track in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"kind"},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the last finished conversion",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveSegment records one track normalisation.
func (r *Recorder) ObserveSegment(kind string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.SegmentErrors.WithLabelValues(kind).Inc()
		return
	}
	r.SegmentsTotal.WithLabelValues(kind).Inc()
	r.SegmentDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveConversion records one finished playlist.
func (r *Recorder) ObserveConversion(status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.ConversionsTotal.WithLabelValues(status).Inc()
	r.ConversionDuration.Observe(elapsed.Seconds())
	r.LastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
