package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"xspf2mp4/internal/config"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckReportsAvailability(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeStub(t, present)
	reqs := []Requirement{
		{Name: "Present", Resolution: Resolution{Command: present, Source: SourceConfig}},
		{Name: "Missing", Resolution: Resolution{Command: "clearly-not-present-binary", Source: SourceMissing}},
		{Name: "Empty"},
		{Name: "Broken", Resolution: Resolution{Command: filepath.Join(binDir, "gone"), Source: SourceConfig}},
	}

	results := Check(reqs...)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Resolution.Command != present {
		t.Fatalf("unexpected resolved command: %s", results[0].Resolution.Command)
	}
	if results[1].Available || !strings.Contains(results[1].Detail, "not found") {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for empty command: %q", results[2].Detail)
	}
	if results[3].Available || !strings.Contains(results[3].Detail, "not executable") {
		t.Fatalf("expected configured but absent binary to fail, got %#v", results[3])
	}
}

func TestResolveToolPrefersConfigured(t *testing.T) {
	res := ResolveTool("/opt/custom/ffmpeg", "ffmpeg", t.TempDir())
	if res.Source != SourceConfig || res.Command != "/opt/custom/ffmpeg" {
		t.Fatalf("unexpected resolution %+v", res)
	}
}

func TestResolveToolSidecarBeforePath(t *testing.T) {
	sidecarDir := t.TempDir()
	sidecar := filepath.Join(sidecarDir, executableName("ffmpeg"))
	writeStub(t, sidecar)

	pathDir := t.TempDir()
	writeStub(t, filepath.Join(pathDir, executableName("ffmpeg")))
	t.Setenv("PATH", pathDir)

	res := ResolveTool("", executableName("ffmpeg"), "", sidecarDir)
	if res.Source != SourceSidecar || res.Command != sidecar {
		t.Fatalf("expected sidecar %q, got %+v", sidecar, res)
	}
}

func TestResolveToolIgnoresNonExecutableSidecar(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	sidecarDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sidecarDir, "ffmpeg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	pathDir := t.TempDir()
	onPath := filepath.Join(pathDir, "ffmpeg")
	writeStub(t, onPath)
	t.Setenv("PATH", pathDir)

	res := ResolveTool("", "ffmpeg", sidecarDir)
	if res.Source != SourcePath || res.Command != onPath {
		t.Fatalf("expected PATH fallback %q, got %+v", onPath, res)
	}
}

func TestResolveToolMissing(t *testing.T) {
	t.Setenv("PATH", "")
	res := ResolveTool("", "ffmpeg-that-does-not-exist", t.TempDir())
	if res.Source != SourceMissing || res.Command != "ffmpeg-that-does-not-exist" {
		t.Fatalf("unexpected resolution %+v", res)
	}
}

func TestResolveFFmpegUsesBaseDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	sidecar := filepath.Join(cfg.Paths.BaseDir, config.FFmpegName())
	writeStub(t, sidecar)
	t.Setenv("PATH", "")

	res := ResolveFFmpeg(&cfg)
	if res.Command != sidecar || res.Source != SourceSidecar {
		t.Fatalf("expected base dir sidecar, got %+v", res)
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
