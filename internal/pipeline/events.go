package pipeline

import (
	"context"

	"xspf2mp4/internal/xspf"
)

// EventKind identifies an Event.
type EventKind int

const (
	EventPlaylistStarted EventKind = iota
	EventTrackStarted
	EventProgress
	EventOutput
	EventPlaylistFinished
	// EventDone is always the last event; Err holds the job's error.
	EventDone
)

func (k EventKind) String() string {
	switch k {
	case EventPlaylistStarted:
		return "playlist_started"
	case EventTrackStarted:
		return "track_started"
	case EventProgress:
		return "progress"
	case EventOutput:
		return "output"
	case EventPlaylistFinished:
		return "playlist_finished"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is one observer callback delivered over a channel. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Playlist string
	Title    string
	Track    xspf.Track
	Done     int
	Total    int
	Line     string
	Outcome  Outcome
	Err      error
}

// Job is work that reports progress to an Observer.
type Job func(ctx context.Context, obs Observer) error

const eventBuffer = 64

// Start runs job on a new goroutine and returns the stream of its events.
// The channel is closed after EventDone. Callers must drain it; the job
// blocks while the buffer is full.
func Start(ctx context.Context, job Job) <-chan Event {
	events := make(chan Event, eventBuffer)
	go func() {
		defer close(events)
		err := job(ctx, channelObserver{events: events})
		events <- Event{Kind: EventDone, Err: err}
	}()
	return events
}

type channelObserver struct {
	events chan<- Event
}

func (o channelObserver) PlaylistStarted(playlist, title string, tracks int) {
	o.events <- Event{Kind: EventPlaylistStarted, Playlist: playlist, Title: title, Total: tracks}
}

func (o channelObserver) TrackStarted(playlist string, track xspf.Track, total int) {
	o.events <- Event{Kind: EventTrackStarted, Playlist: playlist, Track: track, Done: track.Index - 1, Total: total}
}

func (o channelObserver) Progress(playlist string, done, total int) {
	o.events <- Event{Kind: EventProgress, Playlist: playlist, Done: done, Total: total}
}

func (o channelObserver) Output(playlist, line string) {
	o.events <- Event{Kind: EventOutput, Playlist: playlist, Line: line}
}

func (o channelObserver) PlaylistFinished(outcome Outcome) {
	o.events <- Event{Kind: EventPlaylistFinished, Playlist: outcome.Playlist, Outcome: outcome, Err: outcome.Err}
}
