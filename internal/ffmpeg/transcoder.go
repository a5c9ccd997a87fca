package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"xspf2mp4/internal/logging"
	"xspf2mp4/internal/mediatypes"
	"xspf2mp4/internal/xspf"
)

// TailLines is how many trailing output lines an error keeps.
const TailLines = 20

// Transcoder runs the normalisation and concatenation commands.
type Transcoder struct {
	binary  string
	profile Profile
	logger  *slog.Logger
	run     Runner
}

// NewTranscoder constructs a transcoder for the given ffmpeg binary.
func NewTranscoder(binary string, profile Profile, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		binary:  binary,
		profile: profile,
		logger:  logging.NewComponentLogger(logger, "ffmpeg"),
		run:     runCommand,
	}
}

// WithRunner allows injecting a custom command runner for tests.
func (t *Transcoder) WithRunner(r Runner) {
	if t != nil && r != nil {
		t.run = r
	}
}

// Binary returns the ffmpeg executable in use.
func (t *Transcoder) Binary() string { return t.binary }

// Profile returns the segment profile.
func (t *Transcoder) Profile() Profile { return t.profile }

// Normalize renders track into a segment at out.
func (t *Transcoder) Normalize(ctx context.Context, track xspf.Track, out string, output func(string)) error {
	var args []string
	switch track.Kind {
	case mediatypes.KindAudio:
		args = AudioArgs(t.profile, track.Path, out)
	case mediatypes.KindVideo:
		args = VideoArgs(t.profile, track.Path, out)
	default:
		return fmt.Errorf("%w %q: %s", ErrUnsupportedKind, track.Kind, track.Path)
	}

	t.logger.Debug("normalizing track",
		logging.Int(logging.FieldTrackIndex, track.Index),
		logging.String("kind", track.Kind.String()),
		logging.String("source", track.Path),
		logging.String("segment", out),
		logging.String("args", strings.Join(args, " ")),
	)

	code, log, err := t.invoke(ctx, args, output)
	if err != nil || code != 0 {
		return &TranscodeError{
			Index:    track.Index,
			Source:   track.Path,
			ExitCode: exitCodeOf(code, err),
			Log:      log,
			Err:      err,
		}
	}
	return nil
}

// Concat writes the manifest for segments and joins them into out.
func (t *Transcoder) Concat(ctx context.Context, manifest string, segments []string, out string, output func(string)) error {
	if err := WriteManifest(manifest, segments); err != nil {
		return &ConcatError{ExitCode: -1, Err: err}
	}
	args := ConcatArgs(manifest, out)

	t.logger.Debug("concatenating segments",
		logging.Int("segments", len(segments)),
		logging.String("manifest", manifest),
		logging.String("output", out),
	)

	code, log, err := t.invoke(ctx, args, output)
	if err != nil || code != 0 {
		return &ConcatError{ExitCode: exitCodeOf(code, err), Log: log, Err: err}
	}
	return nil
}

func (t *Transcoder) invoke(ctx context.Context, args []string, output func(string)) (int, []string, error) {
	tail := newTailBuffer(TailLines)
	onLine := func(line string) {
		tail.add(line)
		t.logger.Debug(line)
		if output != nil {
			output(line)
		}
	}
	code, err := t.run(ctx, t.binary, args, onLine)
	return code, tail.snapshot(), err
}

func exitCodeOf(code int, err error) int {
	if err != nil {
		return -1
	}
	return code
}
