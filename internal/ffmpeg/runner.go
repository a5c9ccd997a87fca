package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// Runner executes binary with args and hands every output line to onLine.
// It returns the process exit code; err is set only when the process could
// not be run at all.
type Runner func(ctx context.Context, binary string, args []string, onLine func(string)) (int, error)

const maxLineBytes = 1 << 20

// runCommand is the default Runner. A started process is never killed: the
// context only carries values here, cancellation is checked by callers
// between invocations.
func runCommand(ctx context.Context, binary string, args []string, onLine func(string)) (int, error) {
	cmd := exec.CommandContext(context.WithoutCancel(ctx), binary, args...)
	configureCommand(cmd)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return -1, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanOutput(pr, onLine)
	}()

	waitErr := cmd.Wait()
	_ = pw.Close()
	<-done

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, waitErr
	}
	return 0, nil
}

func scanOutput(r io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanTerminalLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" || onLine == nil {
			continue
		}
		onLine(line)
	}
	// Keep draining so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

// scanTerminalLines splits on either \n or \r; ffmpeg redraws its progress
// line with carriage returns.
func scanTerminalLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// tailBuffer keeps the most recent lines of output.
type tailBuffer struct {
	max   int
	lines []string
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max, lines: make([]string, 0, max)}
}

func (t *tailBuffer) add(line string) {
	if t.max <= 0 {
		return
	}
	if len(t.lines) == t.max {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.max-1]
	}
	t.lines = append(t.lines, line)
}

func (t *tailBuffer) snapshot() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
