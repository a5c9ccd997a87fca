package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeFFmpeg(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.BaseDir = strings.TrimSpace(c.Paths.BaseDir)
	if c.Paths.BaseDir == "" {
		if value, ok := os.LookupEnv("XSPF2MP4_BASE_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.BaseDir = strings.TrimSpace(value)
		} else {
			c.Paths.BaseDir = executableDir()
		}
	}
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = c.anchor(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = c.anchor(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// anchor resolves relative directories against BaseDir instead of the
// working directory.
func (c *Config) anchor(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if !strings.HasPrefix(dir, "~") && !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Paths.BaseDir, dir)
	}
	return expandPath(dir)
}

func (c *Config) normalizeFFmpeg() error {
	if c.FFmpeg.Binary == "" {
		if value, ok := os.LookupEnv("XSPF2MP4_FFMPEG"); ok {
			c.FFmpeg.Binary = value
		}
	}
	if c.FFmpeg.FFprobeBinary == "" {
		if value, ok := os.LookupEnv("XSPF2MP4_FFPROBE"); ok {
			c.FFmpeg.FFprobeBinary = value
		}
	}
	var err error
	if c.FFmpeg.Binary, err = normalizeBinary(c.FFmpeg.Binary); err != nil {
		return fmt.Errorf("ffmpeg.binary: %w", err)
	}
	if c.FFmpeg.FFprobeBinary, err = normalizeBinary(c.FFmpeg.FFprobeBinary); err != nil {
		return fmt.Errorf("ffmpeg.ffprobe_binary: %w", err)
	}

	c.FFmpeg.Preset = strings.TrimSpace(c.FFmpeg.Preset)
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = defaultPreset
	}
	c.FFmpeg.VideoCodec = strings.TrimSpace(c.FFmpeg.VideoCodec)
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = defaultVideoCodec
	}
	c.FFmpeg.PixelFormat = strings.TrimSpace(c.FFmpeg.PixelFormat)
	if c.FFmpeg.PixelFormat == "" {
		c.FFmpeg.PixelFormat = defaultPixelFormat
	}
	c.FFmpeg.AudioCodec = strings.TrimSpace(c.FFmpeg.AudioCodec)
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = defaultAudioCodec
	}
	c.FFmpeg.AudioBitrate = strings.TrimSpace(c.FFmpeg.AudioBitrate)
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = defaultAudioBitrate
	}
	c.FFmpeg.PadColor = strings.TrimSpace(c.FFmpeg.PadColor)
	if c.FFmpeg.PadColor == "" {
		c.FFmpeg.PadColor = defaultPadColor
	}
	c.FFmpeg.ScaleFlags = strings.TrimSpace(c.FFmpeg.ScaleFlags)
	if c.FFmpeg.ScaleFlags == "" {
		c.FFmpeg.ScaleFlags = defaultScaleFlags
	}
	return nil
}

// normalizeBinary expands explicit paths but leaves bare command names alone
// so they are looked up on PATH.
func normalizeBinary(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !strings.ContainsAny(value, `/\`) && !strings.HasPrefix(value, "~") {
		return value, nil
	}
	return expandPath(value)
}

func (c *Config) normalizeMetrics() error {
	var err error
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
	if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
