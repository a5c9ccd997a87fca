package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"xspf2mp4/internal/history"
	"xspf2mp4/internal/testsupport"
)

func TestRecordAndGetRoundTripsSegments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	id, err := store.Record(ctx, history.Entry{
		RunID:      "run-1",
		Playlist:   "/in/mix.xspf",
		Title:      "Mix",
		OutputPath: "/out/mix.mp4",
		Status:     history.StatusSucceeded,
		TrackCount: 2,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Segments: []history.Segment{
			{TrackIndex: 1, Source: "/in/a.mp3", Kind: "audio", Path: "/w/part_001.mp4", Elapsed: 40 * time.Second},
			{TrackIndex: 2, Source: "/in/b.mkv", Kind: "video", Path: "/w/part_002.mp4", Elapsed: 50 * time.Second},
		},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RunID != "run-1" || got.OutputPath != "/out/mix.mp4" || got.Status != history.StatusSucceeded {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.StartedAt.Equal(started) || got.Elapsed() != 90*time.Second {
		t.Fatalf("unexpected timing: %v %v", got.StartedAt, got.Elapsed())
	}
	if len(got.Segments) != 2 || got.Segments[1].Kind != "video" || got.Segments[0].Elapsed != 40*time.Second {
		t.Fatalf("unexpected segments: %+v", got.Segments)
	}
	if got.ErrorKind != "" {
		t.Fatalf("expected empty error kind, got %q", got.ErrorKind)
	}
}

func TestListFiltersAndOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	record := func(playlist string, status history.Status, kind string) {
		t.Helper()
		if _, err := store.Record(ctx, history.Entry{RunID: "r", Playlist: playlist, Status: status, ErrorKind: kind}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	record("/in/a.xspf", history.StatusSucceeded, "")
	record("/in/b.xspf", history.StatusFailed, "missing_source")
	record("/in/a.xspf", history.StatusFailed, "transcode")

	all, err := store.List(ctx, history.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ErrorKind != "transcode" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	limited, err := store.List(ctx, history.ListOptions{Limit: 1})
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %v %d", err, len(limited))
	}

	failedA, err := store.List(ctx, history.ListOptions{Playlist: "/in/a.xspf", Status: history.StatusFailed})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(failedA) != 1 || failedA[0].ErrorKind != "transcode" {
		t.Fatalf("unexpected filtered result: %+v", failedA)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Total != 3 || summary.Succeeded != 1 || summary.Failed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	removed, err := store.Clear(ctx)
	if err != nil || removed != 3 {
		t.Fatalf("Clear: removed=%d err=%v", removed, err)
	}
	if rest, _ := store.List(ctx, history.ListOptions{}); len(rest) != 0 {
		t.Fatalf("expected empty history, got %d", len(rest))
	}
}

func TestRecordRequiresPlaylist(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if _, err := store.Record(context.Background(), history.Entry{}); err == nil {
		t.Fatal("expected error for missing playlist")
	}
}

func TestGetUnknownID(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	_, err := store.Get(context.Background(), 42)
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Entry{Playlist: "/x.xspf", Status: history.StatusSucceeded}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(context.Background(), history.ListOptions{})
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected persisted entry, got %d (%v)", len(entries), err)
	}
}

func TestOpenRejectsForeignSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := history.OpenPath(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
