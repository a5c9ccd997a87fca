package ffmpeg

import (
	"fmt"
	"strconv"
)

const (
	// FastStartFlag moves the moov atom to the front of the file.
	FastStartFlag = "+faststart"
	// ConcatDemuxer is the ffmpeg input format that reads a segment list.
	ConcatDemuxer = "concat"
)

func baseArgs() []string {
	return []string{"-hide_banner", "-nostdin", "-y"}
}

// AudioArgs renders an audio file over a solid-colour background. The
// background source is unbounded so -shortest always trims to the audio.
func AudioArgs(p Profile, input, output string) []string {
	fps := strconv.Itoa(p.FrameRate)
	background := fmt.Sprintf("color=size=%dx%d:rate=%d:color=%s", p.Width, p.Height, p.FrameRate, p.PadColor)
	args := baseArgs()
	args = append(args,
		"-f", "lavfi", "-i", background,
		"-i", input,
		"-shortest",
		"-c:v", p.VideoCodec, "-preset", p.Preset, "-crf", strconv.Itoa(p.CRF),
		"-pix_fmt", p.PixelFormat, "-r", fps,
		"-c:a", p.AudioCodec, "-b:a", p.AudioBitrate,
		"-movflags", FastStartFlag,
		output,
	)
	return args
}

// VideoArgs rescales a video to the profile width, keeping the aspect ratio
// with an even height, and resamples it to the profile frame rate.
func VideoArgs(p Profile, input, output string) []string {
	filter := fmt.Sprintf("scale=%d:-2:flags=%s,format=%s,fps=%d", p.Width, p.ScaleFlags, p.PixelFormat, p.FrameRate)
	args := baseArgs()
	args = append(args,
		"-i", input,
		"-vf", filter,
		"-c:v", p.VideoCodec, "-preset", p.Preset, "-crf", strconv.Itoa(p.CRF),
		"-c:a", p.AudioCodec, "-b:a", p.AudioBitrate,
		"-movflags", FastStartFlag,
		output,
	)
	return args
}

// ConcatArgs joins the segments listed in manifest without re-encoding.
func ConcatArgs(manifest, output string) []string {
	args := baseArgs()
	args = append(args,
		"-f", ConcatDemuxer, "-safe", "0",
		"-i", manifest,
		"-c", "copy",
		output,
	)
	return args
}
