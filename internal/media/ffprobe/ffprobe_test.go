package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 800,
     "pix_fmt": "yuv420p", "avg_frame_rate": "30/1"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2}
  ],
  "format": {"filename": "out.mp4", "nb_streams": 2, "duration": "123.450000", "size": "1000", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}`

func TestDecodeAndHelpers(t *testing.T) {
	result, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.VideoStreamCount() != 1 || result.AudioStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: %d video %d audio", result.VideoStreamCount(), result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.Duration() != 123450*time.Millisecond {
		t.Fatalf("unexpected duration value: %v", result.Duration())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	video, ok := result.FirstVideo()
	if !ok || video.FrameRate() != 30 {
		t.Fatalf("unexpected video stream: %+v", video)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.Duration() != 0 {
		t.Fatalf("expected zero duration, got %v", result.Duration())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestStreamFrameRate(t *testing.T) {
	tests := map[string]float64{
		"30/1":       30,
		"30000/1001": 30000.0 / 1001.0,
		"25":         25,
		"0/0":        0,
		"":           0,
		"x/1":        0,
	}
	for in, want := range tests {
		if got := (Stream{AvgFrameRate: in}).FrameRate(); got != want {
			t.Errorf("FrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMismatches(t *testing.T) {
	result, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if problems := result.Mismatches(Expectation{Width: 1920, FrameRate: 30, PixelFormat: "yuv420p"}); len(problems) != 0 {
		t.Fatalf("expected no mismatches, got %q", problems)
	}

	problems := result.Mismatches(Expectation{Width: 1280, FrameRate: 25})
	if len(problems) != 2 {
		t.Fatalf("expected width and frame rate mismatches, got %q", problems)
	}

	empty := Result{}
	got := strings.Join(empty.Mismatches(Expectation{}), ";")
	for _, want := range []string{"no video stream", "no audio stream", "unknown duration"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestInspectWithStubBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	payload := filepath.Join(dir, "probe.json")
	if err := os.WriteFile(payload, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho 'noise' >&2\ncat '" + payload + "'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "/any/file.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Format.NBStreams != 2 {
		t.Fatalf("unexpected stream count: %d", result.Format.NBStreams)
	}

	if _, err := Inspect(context.Background(), stub, "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
