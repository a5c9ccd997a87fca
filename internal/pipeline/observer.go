package pipeline

import "xspf2mp4/internal/xspf"

// Observer receives progress callbacks from a Converter. Calls arrive on the
// goroutine running the conversion.
type Observer interface {
	PlaylistStarted(playlist string, title string, tracks int)
	TrackStarted(playlist string, track xspf.Track, total int)
	// Progress reports done of total tracks normalised: (i-1, n) before
	// track i and (n, n) once all tracks are done.
	Progress(playlist string, done, total int)
	// Output forwards one line printed by ffmpeg.
	Output(playlist string, line string)
	PlaylistFinished(outcome Outcome)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) PlaylistStarted(string, string, int) {}
func (NopObserver) TrackStarted(string, xspf.Track, int) {}
func (NopObserver) Progress(string, int, int) {}
func (NopObserver) Output(string, string) {}
func (NopObserver) PlaylistFinished(Outcome) {}

func observerOrNop(obs Observer) Observer {
	if obs == nil {
		return NopObserver{}
	}
	return obs
}
