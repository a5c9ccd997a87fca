package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"xspf2mp4/internal/config"
	"xspf2mp4/internal/logging"
	"xspf2mp4/internal/workdir"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var (
		olderThan time.Duration
		dryRun    bool
		list      bool
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove segment directories left behind by failed conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.OutputDir
			if strings.TrimSpace(outputDir) != "" {
				if dir, err = config.ExpandPath(strings.TrimSpace(outputDir)); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}
			out := cmd.OutOrStdout()

			if list {
				dirs, err := workdir.List(dir)
				if err != nil {
					return err
				}
				if len(dirs) == 0 {
					fmt.Fprintf(out, "No work directories in %s\n", dir)
					return nil
				}
				fmt.Fprintln(out, renderWorkDirTable(dirs))
				return nil
			}

			logger, err := ctx.newLogger(cfg, false)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger = logging.NewComponentLogger(logger, "clean")
			result, err := workdir.Clean(cmd.Context(), dir, olderThan, dryRun, logger)
			if err != nil {
				return err
			}

			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			for _, d := range result.Removed {
				fmt.Fprintf(out, "%s %s (%s)\n", verb, d.Path, formatBytes(d.Size))
			}
			for _, d := range result.Busy {
				fmt.Fprintf(out, "Skipped %s (conversion in progress)\n", d.Path)
			}
			fmt.Fprintf(out, "%s %d director%s\n", verb, len(result.Removed), pluralY(int64(len(result.Removed))))
			if len(result.Errors) > 0 {
				first := result.Errors[0]
				return fmt.Errorf("failed to remove %d director%s (first: %s: %v)",
					len(result.Errors), pluralY(int64(len(result.Errors))), first.Path, first.Err)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Only remove directories not modified for this long (0 removes all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without deleting")
	cmd.Flags().BoolVar(&list, "list", false, "List work directories instead of removing them")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory to scan (defaults to paths.output_dir)")
	return cmd
}

func renderWorkDirTable(dirs []workdir.Dir) string {
	rows := make([][]string, 0, len(dirs))
	for _, d := range dirs {
		rows = append(rows, []string{
			d.Playlist(),
			strconv.Itoa(d.Segments),
			formatBytes(d.Size),
			d.ModTime.Local().Format("2006-01-02 15:04"),
			d.Path,
		})
	}
	return renderTable(
		[]string{"Playlist", "Segments", "Size", "Modified", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
