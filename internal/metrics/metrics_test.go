package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSegmentCountsByKind(t *testing.T) {
	rec := New()
	rec.ObserveSegment("audio", 2*time.Second, nil)
	rec.ObserveSegment("audio", 3*time.Second, nil)
	rec.ObserveSegment("video", time.Second, nil)
	rec.ObserveSegment("video", time.Second, errors.New("boom"))

	if got := testutil.ToFloat64(rec.SegmentsTotal.WithLabelValues("audio")); got != 2 {
		t.Errorf("audio segments = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.SegmentsTotal.WithLabelValues("video")); got != 1 {
		t.Errorf("video segments = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.SegmentErrors.WithLabelValues("video")); got != 1 {
		t.Errorf("video errors = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rec.SegmentDuration); got != 2 {
		t.Errorf("segment duration series = %d, want 2", got)
	}
}

func TestObserveConversionSetsTimestamp(t *testing.T) {
	rec := New()
	before := float64(time.Now().Unix())
	rec.ObserveConversion("succeeded", time.Minute)
	rec.ObserveConversion("failed", time.Second)

	if got := testutil.ToFloat64(rec.ConversionsTotal.WithLabelValues("succeeded")); got != 1 {
		t.Errorf("succeeded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.ConversionsTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.LastRunTimestamp); got < before {
		t.Errorf("last run timestamp %v older than %v", got, before)
	}
}

func TestWriteTextfile(t *testing.T) {
	rec := New()
	rec.ObserveConversion("succeeded", 5*time.Second)

	path := filepath.Join(t.TempDir(), "textfile", "xspf2mp4.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `xspf2mp4_conversions_total{status="succeeded"} 1`) {
		t.Fatalf("conversion counter missing from textfile:\n%s", data)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.ObserveSegment("audio", time.Second, nil)
	rec.ObserveConversion("failed", time.Second)
	if err := rec.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("nil recorder should not fail: %v", err)
	}
	if rec.Registry() != nil {
		t.Fatal("nil recorder should have no registry")
	}
}
