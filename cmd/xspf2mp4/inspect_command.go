package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"xspf2mp4/internal/config"
	"xspf2mp4/internal/deps"
	"xspf2mp4/internal/fileutil"
	"xspf2mp4/internal/media/ffprobe"
	"xspf2mp4/internal/xspf"
)

type inspectTrack struct {
	Index      int     `json:"index"`
	Title      string  `json:"title,omitempty"`
	Location   string  `json:"location"`
	Path       string  `json:"path"`
	Kind       string  `json:"kind"`
	Exists     bool    `json:"exists"`
	DurationMS *int64  `json:"duration_ms,omitempty"`
	ProbedSecs float64 `json:"probed_seconds,omitempty"`
}

type inspectReport struct {
	Playlist        string         `json:"playlist"`
	Title           string         `json:"title"`
	Output          string         `json:"output"`
	Tracks          []inspectTrack `json:"tracks"`
	Missing         int            `json:"missing"`
	Unsupported     int            `json:"unsupported"`
	KnownDurationMS int64          `json:"known_duration_ms"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var probe bool

	cmd := &cobra.Command{
		Use:   "inspect <playlist.xspf>",
		Short: "Show the tracks a playlist resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve playlist path: %w", err)
			}
			playlist, err := xspf.Parse(path)
			if err != nil {
				return err
			}

			var probeCmd string
			if probe {
				res := deps.ResolveFFprobe(cfg)
				if res.Source == deps.SourceMissing {
					return fmt.Errorf("ffprobe not found: set ffmpeg.ffprobe_binary or install it on PATH")
				}
				probeCmd = res.Command
			}

			report := buildInspectReport(cmd.Context(), playlist, cfg.Paths.OutputDir, probeCmd)
			if asJSON {
				return writeJSON(cmd, report)
			}
			renderInspectReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&probe, "probe", false, "Measure each existing source with ffprobe")
	return cmd
}

func buildInspectReport(ctx context.Context, playlist *xspf.Playlist, outputDir, probeCmd string) inspectReport {
	known, _ := playlist.KnownDuration()
	report := inspectReport{
		Playlist:        playlist.Path,
		Title:           playlist.Title,
		Output:          filepath.Join(outputDir, playlist.Stem()+".mp4"),
		Tracks:          make([]inspectTrack, 0, len(playlist.Tracks)),
		KnownDurationMS: known.Milliseconds(),
	}
	for _, tr := range playlist.Tracks {
		item := inspectTrack{
			Index:    tr.Index,
			Title:    tr.Title,
			Location: tr.Location,
			Path:     tr.Path,
			Kind:     tr.Kind.String(),
			Exists:   fileutil.IsRegularFile(tr.Path),
		}
		if tr.HasDuration {
			ms := tr.Duration.Milliseconds()
			item.DurationMS = &ms
		}
		if !item.Exists {
			report.Missing++
		}
		if !tr.Kind.IsConvertible() {
			report.Unsupported++
		}
		if probeCmd != "" && item.Exists {
			if result, err := ffprobe.Inspect(ctx, probeCmd, tr.Path); err == nil {
				item.ProbedSecs = result.DurationSeconds()
			}
		}
		report.Tracks = append(report.Tracks, item)
	}
	return report
}

func renderInspectReport(cmd *cobra.Command, report inspectReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Playlist: %s\n", report.Playlist)
	fmt.Fprintf(out, "Title:    %s\n", report.Title)
	fmt.Fprintf(out, "Output:   %s\n", report.Output)

	rows := make([][]string, 0, len(report.Tracks))
	for _, tr := range report.Tracks {
		duration := "-"
		if tr.DurationMS != nil {
			duration = formatElapsed(time.Duration(*tr.DurationMS) * time.Millisecond)
		}
		if tr.ProbedSecs > 0 {
			duration = formatElapsed(time.Duration(tr.ProbedSecs * float64(time.Second)))
		}
		title := tr.Title
		if title == "" {
			title = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(tr.Index),
			tr.Kind,
			yesNo(tr.Exists),
			duration,
			title,
			tr.Path,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Kind", "Exists", "Duration", "Title", "Path"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d track(s), %d missing, %d unsupported\n", len(report.Tracks), report.Missing, report.Unsupported)
}
