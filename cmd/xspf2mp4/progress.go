package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"xspf2mp4/internal/pipeline"
)

// progressRenderer turns pipeline events into terminal output: a progress
// bar per playlist on a terminal, plain lines otherwise.
type progressRenderer struct {
	out         io.Writer
	interactive bool
	color       bool
	echoFFmpeg  bool

	bar   *progressbar.ProgressBar
	title string
}

func newProgressRenderer(out io.Writer, interactive, echoFFmpeg bool) *progressRenderer {
	return &progressRenderer{
		out:         out,
		interactive: interactive,
		color:       interactive && shouldColorize(out),
		echoFFmpeg:  echoFFmpeg,
	}
}

func (r *progressRenderer) handle(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.EventPlaylistStarted:
		r.title = ev.Title
		if r.title == "" {
			r.title = displayName(ev.Playlist)
		}
		if r.interactive {
			r.bar = r.newBar(ev.Total)
			return
		}
		fmt.Fprintf(r.out, "Converting %s (%d tracks)\n", r.title, ev.Total)
	case pipeline.EventTrackStarted:
		label := fmt.Sprintf("[%d/%d] %s", ev.Track.Index, ev.Total, ev.Track.Label())
		if r.bar != nil {
			r.bar.Describe(r.title + " " + label)
			return
		}
		fmt.Fprintf(r.out, "  %s\n", label)
	case pipeline.EventProgress:
		if r.bar != nil {
			_ = r.bar.Set(ev.Done)
		}
	case pipeline.EventOutput:
		if r.echoFFmpeg && !r.interactive {
			fmt.Fprintf(r.out, "    %s\n", ev.Line)
		}
	case pipeline.EventPlaylistFinished:
		if r.bar != nil {
			_ = r.bar.Clear()
			r.bar = nil
		}
		r.finished(ev.Outcome)
	case pipeline.EventDone:
		if r.bar != nil {
			_ = r.bar.Finish()
			r.bar = nil
		}
	}
}

func (r *progressRenderer) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(r.title),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

func (r *progressRenderer) finished(outcome pipeline.Outcome) {
	name := displayName(outcome.Playlist)
	if outcome.Err != nil {
		fmt.Fprintln(r.out, renderStatusLine(name, statusError, firstLine(outcome.Err.Error()), r.color))
		return
	}
	message := fmt.Sprintf("%s (%s)", outcome.Result.OutputPath, formatElapsed(outcome.Result.Elapsed))
	fmt.Fprintln(r.out, renderStatusLine(name, statusOK, message, r.color))
}
