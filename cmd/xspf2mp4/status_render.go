package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

var statusBadges = [...]struct {
	text  string
	color string
}{
	statusInfo:  {"INFO", "\x1b[36m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 18
	sectionWidth     = 48
)

// badge renders "[OK]" and friends; only the badge is coloured so paths and
// error text stay readable when copied out of a terminal.
func (k statusKind) badge(colorize bool) string {
	if k < statusInfo || k > statusError {
		k = statusInfo
	}
	b := statusBadges[k]
	if !colorize {
		return "[" + b.text + "]"
	}
	return b.color + "[" + b.text + "]" + ansiReset
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %-*s %s", statusLabelWidth, label+":", kind.badge(colorize))
	if message != "" {
		sb.WriteByte(' ')
		sb.WriteString(message)
	}
	return sb.String()
}

// renderSectionHeader draws "-- Title ---..." padded to a fixed width.
func renderSectionHeader(title string, colorize bool) string {
	head := "-- " + strings.TrimSpace(title) + " "
	if pad := sectionWidth - len(head); pad > 0 {
		head += strings.Repeat("-", pad)
	}
	if colorize {
		return "\x1b[1m" + head + ansiReset
	}
	return head
}

// shouldColorize reports whether writer is a terminal that wants colour.
// NO_COLOR and TERM=dumb switch colour off.
func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(writer)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
