package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"xspf2mp4/internal/config"
)

func TestLoadDefaultConfigAnchorsDirectoriesToBaseDir(t *testing.T) {
	tempHome := t.TempDir()
	baseDir := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XSPF2MP4_BASE_DIR", baseDir)
	t.Setenv("XSPF2MP4_FFMPEG", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.BaseDir != baseDir {
		t.Fatalf("unexpected base dir: got %q want %q", cfg.Paths.BaseDir, baseDir)
	}
	if cfg.Paths.InputDir != filepath.Join(baseDir, "input") {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(baseDir, "output") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "xspf2mp4", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	defaults := config.Default()
	if cfg.FFmpeg.Width != 1920 || cfg.FFmpeg.Height != 1080 || cfg.FFmpeg.FrameRate != 30 {
		t.Fatalf("unexpected geometry: %dx%d@%d", cfg.FFmpeg.Width, cfg.FFmpeg.Height, cfg.FFmpeg.FrameRate)
	}
	if cfg.FFmpeg.CRF != defaults.FFmpeg.CRF || cfg.FFmpeg.Preset != "veryfast" {
		t.Fatalf("unexpected encoder settings: crf=%d preset=%q", cfg.FFmpeg.CRF, cfg.FFmpeg.Preset)
	}
	if cfg.FFmpeg.AudioBitrate != "192k" || cfg.FFmpeg.PadColor != "black" {
		t.Fatalf("unexpected audio settings: %q %q", cfg.FFmpeg.AudioBitrate, cfg.FFmpeg.PadColor)
	}
	if cfg.FFmpeg.Binary != "" {
		t.Fatalf("expected ffmpeg binary to be resolved later, got %q", cfg.FFmpeg.Binary)
	}
	if cfg.Output.KeepWorkDir {
		t.Fatal("expected work dirs to be removed by default")
	}
	if !cfg.Output.VerifyOutput {
		t.Fatal("expected output verification on by default")
	}
	if cfg.HistoryPath() != filepath.Join(wantLogs, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	configPath := filepath.Join(tempDir, "xspf2mp4.toml")

	type payload struct {
		Paths struct {
			BaseDir   string `toml:"base_dir"`
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		FFmpeg struct {
			Binary    string `toml:"binary"`
			Width     int    `toml:"width"`
			FrameRate int    `toml:"frame_rate"`
		} `toml:"ffmpeg"`
		Output struct {
			KeepWorkDir bool `toml:"keep_work_dir"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Paths.BaseDir = tempDir
	custom.Paths.OutputDir = "rendered"
	custom.FFmpeg.Binary = "/opt/ffmpeg/bin/ffmpeg"
	custom.FFmpeg.Width = 1280
	custom.FFmpeg.FrameRate = 25
	custom.Output.KeepWorkDir = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "rendered") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.FFmpeg.Binary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpeg.Binary)
	}
	if cfg.FFmpeg.Width != 1280 || cfg.FFmpeg.FrameRate != 25 {
		t.Fatalf("unexpected geometry: %d@%d", cfg.FFmpeg.Width, cfg.FFmpeg.FrameRate)
	}
	if cfg.FFmpeg.Height != 1080 {
		t.Fatalf("expected default height to survive partial config, got %d", cfg.FFmpeg.Height)
	}
	if !cfg.Output.KeepWorkDir {
		t.Fatal("expected keep_work_dir from file")
	}
}

func TestLoadUsesFFmpegEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XSPF2MP4_BASE_DIR", t.TempDir())
	t.Setenv("XSPF2MP4_FFMPEG", "ffmpeg-7")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpeg.Binary != "ffmpeg-7" {
		t.Fatalf("expected bare command name to be preserved, got %q", cfg.FFmpeg.Binary)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"odd width", "[ffmpeg]\nwidth = 1919\n", "ffmpeg.width must be even"},
		{"zero fps", "[ffmpeg]\nframe_rate = 0\n", "ffmpeg.frame_rate"},
		{"crf range", "[ffmpeg]\ncrf = 70\n", "ffmpeg.crf"},
		{"bitrate", "[ffmpeg]\naudio_bitrate = \"loud\"\n", "ffmpeg.audio_bitrate"},
		{"level", "[logging]\nlevel = \"chatty\"\n", "logging.level"},
		{"unknown key", "[ffmpeg]\nwidht = 1280\n", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("HOME", dir)
			t.Setenv("XSPF2MP4_BASE_DIR", dir)
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XSPF2MP4_BASE_DIR", dir)
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.FFmpeg.VideoCodec != "libx264" {
		t.Fatalf("unexpected codec from sample: %q", cfg.FFmpeg.VideoCodec)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
