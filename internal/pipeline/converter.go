package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"xspf2mp4/internal/config"
	"xspf2mp4/internal/fileutil"
	"xspf2mp4/internal/history"
	"xspf2mp4/internal/logging"
	"xspf2mp4/internal/media/ffprobe"
	"xspf2mp4/internal/workdir"
	"xspf2mp4/internal/xspf"
)

const manifestName = "concat.txt"

// Transcoder normalises tracks and joins segments.
type Transcoder interface {
	Normalize(ctx context.Context, track xspf.Track, out string, output func(string)) error
	Concat(ctx context.Context, manifest string, segments []string, out string, output func(string)) error
}

// HistoryRecorder persists finished conversions.
type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) (int64, error)
}

// MetricsRecorder receives per-segment and per-playlist measurements.
type MetricsRecorder interface {
	ObserveSegment(kind string, elapsed time.Duration, err error)
	ObserveConversion(status string, elapsed time.Duration)
}

// Verifier inspects a finished output file.
type Verifier func(ctx context.Context, path string) (ffprobe.Result, error)

// Result describes a successful conversion.
type Result struct {
	RunID      string
	Playlist   string
	Title      string
	OutputPath string
	Segments   []string
	Tracks     int
	Elapsed    time.Duration
	// Probe is set when the output was verified.
	Probe *ffprobe.Result
}

// Outcome pairs a playlist with its result or error.
type Outcome struct {
	Playlist string
	Result   Result
	Err      error
}

// Succeeded reports whether the conversion produced an output file.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Option customises a Converter.
type Option func(*Converter)

// WithHistory records every conversion in h.
func WithHistory(h HistoryRecorder) Option {
	return func(c *Converter) { c.history = h }
}

// WithMetrics reports measurements to m.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Converter) { c.metrics = m }
}

// WithVerifier probes finished outputs and compares them with expect.
func WithVerifier(v Verifier, expect ffprobe.Expectation) Option {
	return func(c *Converter) {
		c.verify = v
		c.expect = expect
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(c *Converter) {
		if strings.TrimSpace(id) != "" {
			c.runID = id
		}
	}
}

// WithOutputDir overrides the configured output directory.
func WithOutputDir(dir string) Option {
	return func(c *Converter) {
		if strings.TrimSpace(dir) != "" {
			c.outputDir = dir
		}
	}
}

// WithKeepWorkDir keeps segment directories after successful conversions.
func WithKeepWorkDir(keep bool) Option {
	return func(c *Converter) { c.keepWorkDir = keep }
}

// Converter turns playlists into MP4 files. A Converter runs one conversion
// at a time; it is not safe for concurrent use.
type Converter struct {
	transcoder  Transcoder
	logger      *slog.Logger
	history     HistoryRecorder
	metrics     MetricsRecorder
	verify      Verifier
	expect      ffprobe.Expectation
	runID       string
	outputDir   string
	keepWorkDir bool
	now         func() time.Time
}

// New constructs a Converter that writes into cfg's output directory.
func New(cfg *config.Config, transcoder Transcoder, logger *slog.Logger, opts ...Option) *Converter {
	c := &Converter{
		transcoder: transcoder,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		runID:      uuid.NewString(),
		now:        time.Now,
	}
	if cfg != nil {
		c.outputDir = cfg.Paths.OutputDir
		c.keepWorkDir = cfg.Output.KeepWorkDir
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunID returns the identifier attached to every conversion of this Converter.
func (c *Converter) RunID() string { return c.runID }

// OutputDir returns the directory outputs are written to.
func (c *Converter) OutputDir() string { return c.outputDir }

// WorkDir returns the segment directory for playlistPath.
func (c *Converter) WorkDir(playlistPath string) string {
	return workdir.Path(c.outputDir, xspf.Stem(playlistPath))
}

// OutputPath returns the final MP4 location for playlistPath.
func (c *Converter) OutputPath(playlistPath string) string {
	return filepath.Join(c.outputDir, xspf.Stem(playlistPath)+".mp4")
}

// Convert runs the whole pipeline for one playlist.
func (c *Converter) Convert(ctx context.Context, playlistPath string, obs Observer) (Result, error) {
	if c == nil || c.transcoder == nil {
		return Result{}, errors.New("converter not initialized")
	}
	obs = observerOrNop(obs)
	ctx = logging.WithRunID(ctx, c.runID)
	ctx = logging.WithPlaylist(ctx, playlistPath)
	logger := logging.WithContext(ctx, c.logger)

	started := c.now()
	run := &conversion{
		Converter: c,
		ctx:       ctx,
		logger:    logger,
		obs:       obs,
		path:      playlistPath,
		result:    Result{RunID: c.runID, Playlist: playlistPath},
	}
	err := run.execute()
	run.result.Elapsed = c.now().Sub(started)

	c.finish(ctx, logger, run, started, err)
	outcome := Outcome{Playlist: playlistPath, Err: err}
	if err == nil {
		outcome.Result = run.result
	}
	obs.PlaylistFinished(outcome)
	if err != nil {
		return Result{}, err
	}
	return run.result, nil
}

// conversion holds the state of one Convert call.
type conversion struct {
	*Converter
	ctx      context.Context
	logger   *slog.Logger
	obs      Observer
	path     string
	playlist *xspf.Playlist
	result   Result
	segments []history.Segment
}

func (r *conversion) execute() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}

	playlist, err := xspf.Parse(r.path)
	if err != nil {
		return err
	}
	r.playlist = playlist
	r.result.Title = playlist.Title
	r.result.Tracks = len(playlist.Tracks)
	total := len(playlist.Tracks)

	r.logger.Info("converting playlist",
		logging.String(logging.FieldEventType, "playlist_started"),
		logging.String("title", playlist.Title),
		logging.Int(logging.FieldTrackCount, total),
	)
	r.obs.PlaylistStarted(r.path, playlist.Title, total)

	if err := checkSources(r.path, playlist.Tracks); err != nil {
		return err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	workDir := r.WorkDir(r.path)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	lock := flock.New(filepath.Join(workDir, workdir.LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock work directory: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrPlaylistBusy, workDir)
	}
	unlocked := false
	unlock := func() {
		if !unlocked {
			_ = lock.Unlock()
			unlocked = true
		}
	}
	defer unlock()

	segments, err := r.normalizeAll(workDir, playlist.Tracks)
	if err != nil {
		return err
	}
	r.result.Segments = segments

	output, err := r.concatenate(workDir, segments)
	if err != nil {
		return err
	}
	r.result.OutputPath = output

	r.verifyOutput(output)

	if r.keepWorkDir {
		r.logger.Info("keeping work directory", logging.String("work_dir", workDir))
		return nil
	}
	unlock()
	if err := os.RemoveAll(workDir); err != nil {
		logging.WarnWithContext(r.logger, "failed to remove work directory", "work_dir_cleanup_failed",
			logging.String("work_dir", workDir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the directory manually"),
		)
	}
	return nil
}

// checkSources reports every missing source at once.
func checkSources(playlist string, tracks []xspf.Track) error {
	var missing []MissingFile
	for _, tr := range tracks {
		if !fileutil.IsRegularFile(tr.Path) {
			missing = append(missing, MissingFile{Index: tr.Index, Path: tr.Path})
		}
	}
	if len(missing) > 0 {
		return &MissingSourceFileError{Playlist: playlist, Missing: missing}
	}
	return nil
}

func (r *conversion) normalizeAll(workDir string, tracks []xspf.Track) ([]string, error) {
	total := len(tracks)
	segments := make([]string, 0, total)
	output := func(line string) { r.obs.Output(r.path, line) }

	for i, tr := range tracks {
		r.obs.Progress(r.path, i, total)
		if err := r.ctx.Err(); err != nil {
			return nil, fmt.Errorf("canceled before item %d: %w", tr.Index, err)
		}
		if !tr.Kind.IsConvertible() {
			return nil, &UnsupportedMediaKindError{Index: tr.Index, Path: tr.Path, Ext: tr.Ext}
		}

		segment := filepath.Join(workDir, SegmentName(tr.Index))
		r.obs.TrackStarted(r.path, tr, total)
		r.logger.Info("transcoding track",
			logging.String(logging.FieldStage, "transcode"),
			logging.Int(logging.FieldTrackIndex, tr.Index),
			logging.Int(logging.FieldTrackCount, total),
			logging.String("kind", strings.ToUpper(tr.Kind.String())),
			logging.String("source", tr.Path),
		)

		began := r.now()
		err := r.transcoder.Normalize(r.ctx, tr, segment, output)
		elapsed := r.now().Sub(began)
		if r.metrics != nil {
			r.metrics.ObserveSegment(tr.Kind.String(), elapsed, err)
		}
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
		r.segments = append(r.segments, history.Segment{
			TrackIndex: tr.Index,
			Source:     tr.Path,
			Kind:       tr.Kind.String(),
			Path:       segment,
			Elapsed:    elapsed,
		})
	}
	r.obs.Progress(r.path, total, total)
	return segments, nil
}

func (r *conversion) concatenate(workDir string, segments []string) (string, error) {
	if err := r.ctx.Err(); err != nil {
		return "", fmt.Errorf("canceled before concatenation: %w", err)
	}
	stem := xspf.Stem(r.path)
	partial := filepath.Join(r.outputDir, "."+stem+".partial.mp4")
	final := r.OutputPath(r.path)

	r.logger.Info("concatenating segments",
		logging.String(logging.FieldStage, "concat"),
		logging.Int("segments", len(segments)),
	)
	output := func(line string) { r.obs.Output(r.path, line) }
	if err := r.transcoder.Concat(r.ctx, filepath.Join(workDir, manifestName), segments, partial, output); err != nil {
		_ = os.Remove(partial)
		return "", err
	}
	if !fileutil.IsRegularFile(partial) {
		return "", fmt.Errorf("concatenation did not produce %s", partial)
	}
	if err := fileutil.MoveFile(partial, final); err != nil {
		_ = os.Remove(partial)
		return "", fmt.Errorf("finalize output: %w", err)
	}
	return final, nil
}

func (r *conversion) verifyOutput(path string) {
	if r.verify == nil {
		return
	}
	probe, err := r.verify(r.ctx, path)
	if err != nil {
		logging.WarnWithContext(r.logger, "output verification failed", "verify_failed",
			logging.String("output", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that ffprobe is installed"),
		)
		return
	}
	r.result.Probe = &probe
	if problems := probe.Mismatches(r.expect); len(problems) > 0 {
		logging.WarnWithContext(r.logger, "output does not match segment profile", "verify_mismatch",
			logging.String("output", path),
			logging.String("problems", strings.Join(problems, "; ")),
		)
		return
	}
	r.logger.Info("output verified",
		logging.String(logging.FieldStage, "verify"),
		logging.Duration("duration", probe.Duration()),
		logging.Int64("size_bytes", probe.SizeBytes()),
	)
}

func (c *Converter) finish(ctx context.Context, logger *slog.Logger, run *conversion, started time.Time, err error) {
	status := history.StatusSucceeded
	if err != nil {
		status = history.StatusFailed
		if ErrorKind(err) == "canceled" {
			status = history.StatusCanceled
		}
	}

	if err != nil {
		logging.ErrorWithContext(logger, "playlist conversion failed", "playlist_failed",
			logging.String(logging.FieldErrorKind, ErrorKind(err)),
			logging.Error(err),
		)
	} else {
		logger.Info("playlist converted",
			logging.String(logging.FieldEventType, "playlist_complete"),
			logging.String("output", run.result.OutputPath),
			logging.Duration("elapsed", run.result.Elapsed),
		)
	}

	if c.metrics != nil {
		c.metrics.ObserveConversion(string(status), run.result.Elapsed)
	}
	if c.history == nil {
		return
	}
	entry := history.Entry{
		RunID:      c.runID,
		Playlist:   run.path,
		Title:      run.result.Title,
		OutputPath: run.result.OutputPath,
		Status:     status,
		TrackCount: run.result.Tracks,
		StartedAt:  started,
		FinishedAt: started.Add(run.result.Elapsed),
		Segments:   run.segments,
	}
	if err != nil {
		entry.ErrorKind = ErrorKind(err)
		entry.ErrorMessage = err.Error()
	}
	if _, recErr := c.history.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		logging.WarnWithContext(logger, "failed to record history", "history_record_failed",
			logging.Error(recErr),
		)
	}
}

// SegmentName returns the file name of the segment for a 1-based track index.
func SegmentName(index int) string {
	return fmt.Sprintf("part_%03d.mp4", index)
}
