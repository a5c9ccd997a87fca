package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"xspf2mp4/internal/history"
)

type historyJSON struct {
	ID           int64         `json:"id"`
	RunID        string        `json:"run_id"`
	Playlist     string        `json:"playlist"`
	Title        string        `json:"title,omitempty"`
	OutputPath   string        `json:"output_path,omitempty"`
	Status       string        `json:"status"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	TrackCount   int           `json:"track_count"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	ElapsedMS    int64         `json:"elapsed_ms"`
	Segments     []segmentJSON `json:"segments,omitempty"`
}

type segmentJSON struct {
	TrackIndex int    `json:"track_index"`
	Source     string `json:"source"`
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	ElapsedMS  int64  `json:"elapsed_ms"`
}

func toHistoryJSON(e history.Entry) historyJSON {
	out := historyJSON{
		ID:           e.ID,
		RunID:        e.RunID,
		Playlist:     e.Playlist,
		Title:        e.Title,
		OutputPath:   e.OutputPath,
		Status:       string(e.Status),
		ErrorKind:    e.ErrorKind,
		ErrorMessage: e.ErrorMessage,
		TrackCount:   e.TrackCount,
		StartedAt:    e.StartedAt,
		FinishedAt:   e.FinishedAt,
		ElapsedMS:    e.Elapsed().Milliseconds(),
	}
	for _, s := range e.Segments {
		out.Segments = append(out.Segments, segmentJSON{
			TrackIndex: s.TrackIndex,
			Source:     s.Source,
			Kind:       s.Kind,
			Path:       s.Path,
			ElapsedMS:  s.Elapsed.Milliseconds(),
		})
	}
	return out
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool
	var playlist string
	var status string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				opts := history.ListOptions{Limit: limit, Playlist: strings.TrimSpace(playlist)}
				if s := strings.TrimSpace(status); s != "" {
					parsed, err := parseHistoryStatus(s)
					if err != nil {
						return err
					}
					opts.Status = parsed
				}
				entries, err := store.List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if asJSON {
					payload := make([]historyJSON, 0, len(entries))
					for _, e := range entries {
						payload = append(payload, toHistoryJSON(e))
					}
					return writeJSON(cmd, payload)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No conversions recorded")
					return nil
				}
				fmt.Fprintln(out, renderHistoryTable(entries))
				summary, err := store.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d total: %d succeeded, %d failed, %d canceled\n",
					summary.Total, summary.Succeeded, summary.Failed, summary.Canceled)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringVar(&playlist, "playlist", "", "Only show entries for this playlist path")
	cmd.Flags().StringVar(&status, "status", "", "Only show entries with this status (succeeded, failed, canceled)")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one conversion with its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid history id %q", args[0])
			}
			return ctx.withHistory(func(store *history.Store) error {
				entry, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toHistoryJSON(entry))
				}
				renderHistoryEntry(cmd, entry)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if reset {
				path := cfg.HistoryPath()
				for _, p := range []string{path, path + "-wal", path + "-shm"} {
					if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("remove %s: %w", p, err)
					}
				}
				fmt.Fprintf(out, "Removed history database %s\n", path)
				return nil
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d entr%s\n", removed, pluralY(removed))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete the database file instead of its rows (use after a schema mismatch)")
	return cmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func parseHistoryStatus(value string) (history.Status, error) {
	switch history.Status(strings.ToLower(value)) {
	case history.StatusSucceeded:
		return history.StatusSucceeded, nil
	case history.StatusFailed:
		return history.StatusFailed, nil
	case history.StatusCanceled:
		return history.StatusCanceled, nil
	default:
		return "", fmt.Errorf("unknown status %q (want succeeded, failed or canceled)", value)
	}
}

func renderHistoryTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.OutputPath
		if e.Status != history.StatusSucceeded {
			detail = e.ErrorKind
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.StartedAt.Local().Format("2006-01-02 15:04"),
			displayName(e.Playlist),
			string(e.Status),
			strconv.Itoa(e.TrackCount),
			formatElapsed(e.Elapsed()),
			detail,
		})
	}
	return renderTable(
		[]string{"ID", "Started", "Playlist", "Status", "Tracks", "Elapsed", "Output / Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func renderHistoryEntry(cmd *cobra.Command, e history.Entry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %d\n", e.ID)
	fmt.Fprintf(out, "Run:      %s\n", e.RunID)
	fmt.Fprintf(out, "Playlist: %s\n", e.Playlist)
	if e.Title != "" {
		fmt.Fprintf(out, "Title:    %s\n", e.Title)
	}
	fmt.Fprintf(out, "Status:   %s\n", e.Status)
	if e.OutputPath != "" {
		fmt.Fprintf(out, "Output:   %s\n", e.OutputPath)
	}
	fmt.Fprintf(out, "Started:  %s\n", e.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Elapsed:  %s\n", formatElapsed(e.Elapsed()))
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "Error (%s):\n%s\n", e.ErrorKind, e.ErrorMessage)
	}
	if len(e.Segments) == 0 {
		return
	}
	rows := make([][]string, 0, len(e.Segments))
	for _, s := range e.Segments {
		rows = append(rows, []string{strconv.Itoa(s.TrackIndex), s.Kind, formatElapsed(s.Elapsed), s.Source})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Kind", "Elapsed", "Source"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	))
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
