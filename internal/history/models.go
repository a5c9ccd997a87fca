package history

import "time"

// Status is the terminal state of a conversion.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Entry is one recorded conversion.
type Entry struct {
	ID           int64
	RunID        string
	Playlist     string
	Title        string
	OutputPath   string
	Status       Status
	ErrorKind    string
	ErrorMessage string
	TrackCount   int
	StartedAt    time.Time
	FinishedAt   time.Time
	Segments     []Segment
}

// Elapsed is the wall time of the conversion.
func (e Entry) Elapsed() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Segment records one normalised track.
type Segment struct {
	TrackIndex int
	Source     string
	Kind       string
	Path       string
	// Elapsed is how long ffmpeg took for this track.
	Elapsed time.Duration
}

// Summary aggregates entries by status.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Canceled  int
}
