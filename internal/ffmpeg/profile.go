package ffmpeg

import "xspf2mp4/internal/config"

// Profile is the uniform segment format every track is normalised to.
type Profile struct {
	Width        int
	Height       int
	FrameRate    int
	CRF          int
	Preset       string
	VideoCodec   string
	PixelFormat  string
	AudioCodec   string
	AudioBitrate string
	PadColor     string
	ScaleFlags   string
}

// ProfileFromConfig copies the encoder settings out of the ffmpeg section.
func ProfileFromConfig(cfg config.FFmpeg) Profile {
	return Profile{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FrameRate:    cfg.FrameRate,
		CRF:          cfg.CRF,
		Preset:       cfg.Preset,
		VideoCodec:   cfg.VideoCodec,
		PixelFormat:  cfg.PixelFormat,
		AudioCodec:   cfg.AudioCodec,
		AudioBitrate: cfg.AudioBitrate,
		PadColor:     cfg.PadColor,
		ScaleFlags:   cfg.ScaleFlags,
	}
}

// DefaultProfile returns the 1080p30 H.264/AAC profile.
func DefaultProfile() Profile {
	defaults := config.Default()
	return ProfileFromConfig(defaults.FFmpeg)
}
