package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"xspf2mp4/internal/config"
	"xspf2mp4/internal/deps"
	"xspf2mp4/internal/ffmpeg"
	"xspf2mp4/internal/history"
	"xspf2mp4/internal/logging"
	"xspf2mp4/internal/media/ffprobe"
	"xspf2mp4/internal/metrics"
	"xspf2mp4/internal/pipeline"
	"xspf2mp4/internal/preflight"
)

type conversionOptions struct {
	outputDir    string
	keepWork     bool
	ffmpegOutput bool
	summary      bool
}

func (o *conversionOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "o", "", "Directory for finished MP4 files (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&o.keepWork, "keep-work", false, "Keep per-playlist segment directories after success")
	cmd.Flags().BoolVar(&o.ffmpegOutput, "ffmpeg-output", false, "Echo ffmpeg output lines when not rendering a progress bar")
}

// checkDirectories runs the directory checks against the effective output
// directory, creating an --output-dir override first.
func checkDirectories(cfg *config.Config, outputDir string) error {
	checked := *cfg
	checked.Paths.OutputDir = outputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	failed := preflight.Failed(preflight.RunAll(&checked))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
}

func (c *commandContext) runConversions(cmd *cobra.Command, playlists []string, opts conversionOptions) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	tool := deps.ResolveFFmpeg(cfg)
	if tool.Source == deps.SourceMissing {
		return fmt.Errorf("ffmpeg not found: set ffmpeg.binary, place %s next to xspf2mp4, or install it on PATH", config.FFmpegName())
	}

	outputDir := cfg.Paths.OutputDir
	if strings.TrimSpace(opts.outputDir) != "" {
		if outputDir, err = config.ExpandPath(strings.TrimSpace(opts.outputDir)); err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
	}

	if err := checkDirectories(cfg, outputDir); err != nil {
		return err
	}

	interactive := isTerminal(cmd.ErrOrStderr())
	logger, err := c.newLogger(cfg, interactive)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("resolved ffmpeg",
		logging.String("command", tool.Command),
		logging.String("source", string(tool.Source)),
	)

	options := []pipeline.Option{
		pipeline.WithOutputDir(outputDir),
		pipeline.WithKeepWorkDir(opts.keepWork || cfg.Output.KeepWorkDir),
	}

	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'xspf2mp4 history clear --reset' if the schema is outdated"),
		)
	} else {
		defer store.Close()
		options = append(options, pipeline.WithHistory(store))
	}

	recorder := metrics.New()
	options = append(options, pipeline.WithMetrics(recorder))

	if cfg.Output.VerifyOutput {
		if probe := deps.ResolveFFprobe(cfg); probe.Source != deps.SourceMissing {
			verify := func(ctx context.Context, path string) (ffprobe.Result, error) {
				return ffprobe.Inspect(ctx, probe.Command, path)
			}
			options = append(options, pipeline.WithVerifier(verify, ffprobe.Expectation{
				Width:       cfg.FFmpeg.Width,
				FrameRate:   cfg.FFmpeg.FrameRate,
				PixelFormat: cfg.FFmpeg.PixelFormat,
			}))
		} else {
			logging.WarnWithContext(logger, "ffprobe not found; skipping output verification", "ffprobe_missing")
		}
	}

	transcoder := ffmpeg.NewTranscoder(tool.Command, ffmpeg.ProfileFromConfig(cfg.FFmpeg), logger)
	converter := pipeline.New(cfg, transcoder, logger, options...)

	var report pipeline.BatchReport
	events := pipeline.Start(cmd.Context(), func(ctx context.Context, obs pipeline.Observer) error {
		report = converter.ConvertBatch(ctx, playlists, obs)
		return report.Err()
	})
	renderer := newProgressRenderer(cmd.ErrOrStderr(), interactive, opts.ffmpegOutput)
	for ev := range events {
		renderer.handle(ev)
	}

	if path := cfg.Metrics.Textfile; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			logging.WarnWithContext(logger, "failed to write metrics textfile", "metrics_write_failed",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}

	return finishConversions(cmd, report, opts.summary)
}

// finishConversions prints results and turns failures into the command error.
func finishConversions(cmd *cobra.Command, report pipeline.BatchReport, summary bool) error {
	out := cmd.OutOrStdout()
	if summary {
		fmt.Fprintln(out, renderBatchSummary(report))
	} else {
		for _, o := range report.Succeeded() {
			fmt.Fprintf(out, "Wrote %s\n", o.Result.OutputPath)
		}
	}

	failed := report.Failed()
	switch {
	case len(failed) == 0:
		return nil
	case len(report.Outcomes) == 1:
		return failed[0].Err
	case allCanceled(failed):
		return context.Canceled
	default:
		return fmt.Errorf("%d of %d playlists failed", len(failed), len(report.Outcomes))
	}
}

func allCanceled(outcomes []pipeline.Outcome) bool {
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			return false
		}
	}
	return true
}

func renderBatchSummary(report pipeline.BatchReport) string {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		row := []string{displayName(o.Playlist), "ok", strconv.Itoa(o.Result.Tracks), formatElapsed(o.Result.Elapsed), o.Result.OutputPath}
		if o.Err != nil {
			row = []string{displayName(o.Playlist), pipeline.ErrorKind(o.Err), "-", "-", firstLine(o.Err.Error())}
		}
		rows = append(rows, row)
	}
	table := renderTable(
		[]string{"Playlist", "Status", "Tracks", "Elapsed", "Output / Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
	return fmt.Sprintf("%s\n%d succeeded, %d failed", table, len(report.Succeeded()), len(report.Failed()))
}

func firstLine(s string) string {
	lines := strings.SplitN(strings.TrimSpace(s), "\n", 3)
	if len(lines) > 1 && strings.HasSuffix(lines[0], ":") {
		return lines[0] + " " + strings.TrimSpace(lines[1])
	}
	return lines[0]
}
