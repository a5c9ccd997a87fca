package config

const (
	defaultInputDir     = "input"
	defaultOutputDir    = "output"
	defaultLogDir       = "~/.local/share/xspf2mp4/logs"
	defaultWidth        = 1920
	defaultHeight       = 1080
	defaultFrameRate    = 30
	defaultCRF          = 19
	defaultPreset       = "veryfast"
	defaultVideoCodec   = "libx264"
	defaultPixelFormat  = "yuv420p"
	defaultAudioCodec   = "aac"
	defaultAudioBitrate = "192k"
	defaultPadColor     = "black"
	defaultScaleFlags   = "lanczos"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		FFmpeg: FFmpeg{
			Width:        defaultWidth,
			Height:       defaultHeight,
			FrameRate:    defaultFrameRate,
			CRF:          defaultCRF,
			Preset:       defaultPreset,
			VideoCodec:   defaultVideoCodec,
			PixelFormat:  defaultPixelFormat,
			AudioCodec:   defaultAudioCodec,
			AudioBitrate: defaultAudioBitrate,
			PadColor:     defaultPadColor,
			ScaleFlags:   defaultScaleFlags,
		},
		Output: Output{
			VerifyOutput: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
