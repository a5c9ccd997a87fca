package config

import (
	"errors"
	"fmt"
	"regexp"
)

var bitratePattern = regexp.MustCompile(`^[0-9]+[kKmM]?$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.InputDir == "" {
		return errors.New("paths.input_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.Width <= 0 {
		return fmt.Errorf("ffmpeg.width must be positive, got %d", c.FFmpeg.Width)
	}
	// libx264 with yuv420p rejects odd dimensions.
	if c.FFmpeg.Width%2 != 0 {
		return fmt.Errorf("ffmpeg.width must be even, got %d", c.FFmpeg.Width)
	}
	if c.FFmpeg.Height <= 0 || c.FFmpeg.Height%2 != 0 {
		return fmt.Errorf("ffmpeg.height must be a positive even number, got %d", c.FFmpeg.Height)
	}
	if c.FFmpeg.FrameRate <= 0 {
		return fmt.Errorf("ffmpeg.frame_rate must be positive, got %d", c.FFmpeg.FrameRate)
	}
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return fmt.Errorf("ffmpeg.crf must be between 0 and 51, got %d", c.FFmpeg.CRF)
	}
	if !bitratePattern.MatchString(c.FFmpeg.AudioBitrate) {
		return fmt.Errorf("ffmpeg.audio_bitrate %q is not a valid bitrate (e.g. 192k)", c.FFmpeg.AudioBitrate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
