package pipeline

import (
	"context"
	"errors"
	"fmt"

	"xspf2mp4/internal/logging"
)

// BatchReport collects the outcome of every playlist in a batch, in input
// order.
type BatchReport struct {
	Outcomes []Outcome
}

// Succeeded returns the outcomes that produced an output file.
func (r BatchReport) Succeeded() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes that did not.
func (r BatchReport) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Err joins every failure, or returns nil when the whole batch succeeded.
func (r BatchReport) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Playlist, o.Err))
		}
	}
	return errors.Join(errs...)
}

// ConvertBatch converts playlists one after another. A failed playlist is
// recorded and the batch moves on. Once ctx is canceled the remaining
// playlists are reported as canceled without being started.
func (c *Converter) ConvertBatch(ctx context.Context, playlists []string, obs Observer) BatchReport {
	obs = observerOrNop(obs)
	report := BatchReport{Outcomes: make([]Outcome, 0, len(playlists))}
	logger := logging.WithContext(logging.WithRunID(ctx, c.runID), c.logger)

	for i, path := range playlists {
		if err := ctx.Err(); err != nil {
			for _, rest := range playlists[i:] {
				outcome := Outcome{Playlist: rest, Err: fmt.Errorf("not started: %w", err)}
				report.Outcomes = append(report.Outcomes, outcome)
				obs.PlaylistFinished(outcome)
			}
			logging.WarnWithContext(logger, "batch canceled", "batch_canceled",
				logging.Int("skipped", len(playlists)-i),
			)
			break
		}
		result, err := c.Convert(ctx, path, obs)
		report.Outcomes = append(report.Outcomes, Outcome{Playlist: path, Result: result, Err: err})
	}

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", len(report.Succeeded())),
		logging.Int("failed", len(report.Failed())),
	)
	return report
}
