package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"xspf2mp4/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BaseDir = base
	cfgVal.Paths.InputDir = filepath.Join(base, "input")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Output.VerifyOutput = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithKeepWorkDir keeps per-playlist work directories after success.
func WithKeepWorkDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.KeepWorkDir = true
	}
}

// WithMetricsTextfile enables the metrics export under the base dir.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "xspf2mp4.prom")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := StubBinDir(b.t, b.baseDir)
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 0\n")
		}
		prependPath(b.t, binDir)
	}
}

// WithFakeFFmpeg installs a script as the configured ffmpeg binary. The
// script writes a small file to its last argument, which is the output path
// for every command the converter issues, and exits with exitCode.
func WithFakeFFmpeg(exitCode int) ConfigOption {
	return func(b *configBuilder) {
		binDir := StubBinDir(b.t, b.baseDir)
		target := filepath.Join(binDir, "fake-ffmpeg")
		body := "for last; do :; done\n" +
			"echo \"fake ffmpeg writing $last\"\n" +
			"printf 'segment' > \"$last\"\n" +
			"exit " + strconv.Itoa(exitCode) + "\n"
		WriteScript(b.t, target, body)
		b.cfg.FFmpeg.Binary = target
	}
}

// StubBinDir returns (and creates) the directory used for stub binaries.
func StubBinDir(t testing.TB, base string) string {
	t.Helper()
	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	return binDir
}

// WriteScript writes an executable POSIX shell script.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

func prependPath(t testing.TB, dir string) {
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.BaseDir
}
