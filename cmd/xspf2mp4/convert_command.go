package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xspf2mp4/internal/config"
	"xspf2mp4/internal/pipeline"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts conversionOptions

	cmd := &cobra.Command{
		Use:   "convert <playlist.xspf>...",
		Short: "Convert one or more playlists into MP4 files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlists := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(strings.TrimSpace(arg))
				if err != nil {
					return fmt.Errorf("resolve playlist path: %w", err)
				}
				playlists = append(playlists, path)
			}
			opts.summary = len(playlists) > 1
			return ctx.runConversions(cmd, playlists, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var opts conversionOptions
	var inputDir string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every playlist in the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.InputDir
			if strings.TrimSpace(inputDir) != "" {
				if dir, err = config.ExpandPath(strings.TrimSpace(inputDir)); err != nil {
					return fmt.Errorf("resolve input directory: %w", err)
				}
			}
			playlists, err := pipeline.DiscoverPlaylists(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d playlist(s) in %s\n", len(playlists), dir)
			opts.summary = true
			return ctx.runConversions(cmd, playlists, opts)
		},
	}
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory to scan for .xspf playlists (defaults to paths.input_dir)")
	opts.bind(cmd)
	return cmd
}
