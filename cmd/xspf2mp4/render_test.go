package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"xspf2mp4/internal/mediatypes"
	"xspf2mp4/internal/pipeline"
	"xspf2mp4/internal/xspf"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{1500 * time.Millisecond, "0:02"},
		{61 * time.Second, "1:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range cases {
		if got := formatElapsed(tc.in); got != tc.want {
			t.Fatalf("formatElapsed(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderStatusLineColorization(t *testing.T) {
	plain := renderStatusLine("FFmpeg", statusOK, "/usr/bin/ffmpeg", false)
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("expected no ANSI codes, got %q", plain)
	}
	if !strings.Contains(plain, "[OK] /usr/bin/ffmpeg") {
		t.Fatalf("unexpected line: %q", plain)
	}
	colored := renderStatusLine("FFmpeg", statusError, "missing", true)
	if !strings.Contains(colored, "\x1b[31m[ERROR]"+ansiReset+" missing") {
		t.Fatalf("expected red badge followed by plain message, got %q", colored)
	}
	if !strings.HasPrefix(colored, "  FFmpeg:") {
		t.Fatalf("label should stay uncoloured, got %q", colored)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	got := renderSectionHeader(" Dependencies ", false)
	if !strings.HasPrefix(got, "-- Dependencies -") || len(got) != sectionWidth {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestShouldColorizeHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if shouldColorize(os.Stdout) {
		t.Fatal("NO_COLOR must disable colour")
	}
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Fatal("a buffer is never a terminal")
	}
}

func TestProgressRendererPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := newProgressRenderer(&buf, false, true)
	track := xspf.Track{Index: 1, Path: "/music/one.mp3", Kind: mediatypes.KindAudio}

	r.handle(pipeline.Event{Kind: pipeline.EventPlaylistStarted, Playlist: "/in/mix.xspf", Title: "Mix", Total: 1})
	r.handle(pipeline.Event{Kind: pipeline.EventTrackStarted, Track: track, Total: 1})
	r.handle(pipeline.Event{Kind: pipeline.EventOutput, Line: "frame=10"})
	r.handle(pipeline.Event{Kind: pipeline.EventPlaylistFinished, Outcome: pipeline.Outcome{
		Playlist: "/in/mix.xspf",
		Result:   pipeline.Result{OutputPath: "/out/mix.mp4", Elapsed: 2 * time.Second},
	}})
	r.handle(pipeline.Event{Kind: pipeline.EventPlaylistFinished, Outcome: pipeline.Outcome{
		Playlist: "/in/bad.xspf",
		Err:      errors.New("Missing files:\n  [1] /x.mp3"),
	}})
	r.handle(pipeline.Event{Kind: pipeline.EventDone})

	out := buf.String()
	for _, want := range []string{
		"Converting Mix (1 tracks)",
		"[1/1] one.mp3",
		"    frame=10",
		"mix.xspf:",
		"[OK] /out/mix.mp4 (0:02)",
		"[ERROR] Missing files: [1] /x.mp3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderBatchSummary(t *testing.T) {
	report := pipeline.BatchReport{Outcomes: []pipeline.Outcome{
		{Playlist: "/in/a.xspf", Result: pipeline.Result{OutputPath: "/out/a.mp4", Tracks: 3, Elapsed: time.Minute}},
		{Playlist: "/in/b.xspf", Err: &pipeline.UnsupportedMediaKindError{Index: 2, Path: "/x.txt", Ext: ".txt"}},
	}}
	out := renderBatchSummary(report)
	for _, want := range []string{"a.xspf", "/out/a.mp4", "1:00", "unsupported_media", "1 succeeded, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected summary to contain %q, got:\n%s", want, out)
		}
	}
}
