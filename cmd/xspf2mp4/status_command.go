package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xspf2mp4/internal/deps"
	"xspf2mp4/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check ffmpeg availability and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			configLine := ctx.configPath
			if !ctx.configFound {
				configLine = "defaults (" + ctx.configPath + " not found)"
			}
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, configLine, colorize))
			fmt.Fprintln(out, renderStatusLine("Base directory", statusInfo, cfg.Paths.BaseDir, colorize))
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, cfg.HistoryPath(), colorize))
			fmt.Fprintln(out, renderStatusLine("Verify output", statusInfo, yesNo(cfg.Output.VerifyOutput), colorize))

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			missingRequired := false
			for _, status := range preflight.CheckSystemDeps(cfg) {
				fmt.Fprintln(out, dependencyStatusLine(status, colorize))
				if !status.Available && !status.Optional {
					missingRequired = true
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Directories", colorize))
			results := preflight.RunAll(cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			var problems []string
			if missingRequired {
				problems = append(problems, "required dependency missing")
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				problems = append(problems, fmt.Sprintf("%d directory check(s) failed", len(failed)))
			}
			if len(problems) > 0 {
				return fmt.Errorf("status: %s", strings.Join(problems, ", "))
			}
			return nil
		},
	}
}

func dependencyStatusLine(status deps.Status, colorize bool) string {
	if status.Available {
		detail := fmt.Sprintf("%s (%s)", status.Resolution.Command, status.Resolution.Source)
		return renderStatusLine(status.Name, statusOK, detail, colorize)
	}
	detail := status.Detail
	if status.Purpose != "" {
		detail = fmt.Sprintf("%s; needed for %s", detail, status.Purpose)
	}
	if status.Optional {
		return renderStatusLine(status.Name, statusWarn, detail, colorize)
	}
	return renderStatusLine(status.Name, statusError, detail, colorize)
}
