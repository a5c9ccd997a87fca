package mediatypes

import "strings"

// Kind represents the media category of a source file.
type Kind string

const (
	// KindAudio is rendered over a generated solid-colour background.
	KindAudio Kind = "audio"
	// KindVideo is rescaled to the output geometry.
	KindVideo Kind = "video"
	// KindUnknown cannot be converted.
	KindUnknown Kind = "unknown"
)

// AudioExtensions lists accepted audio extensions (lowercase with dot).
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".flac": true,
}

// VideoExtensions lists accepted video extensions (lowercase with dot).
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".avi":  true,
	".m4v":  true,
	".webm": true,
}

// KindForExt returns the kind for an extension; the dot is optional and
// case is ignored.
func KindForExt(ext string) Kind {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return KindUnknown
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	switch {
	case AudioExtensions[ext]:
		return KindAudio
	case VideoExtensions[ext]:
		return KindVideo
	default:
		return KindUnknown
	}
}

// KindForPath classifies a path by its extension.
func KindForPath(path string) Kind {
	return KindForExt(Ext(path))
}

// Ext returns the lowercase extension of path including the dot. Both
// separators are honoured so Windows paths classify correctly on any host.
func Ext(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || dot == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[dot:])
}

// IsConvertible reports whether the kind has a transcoding branch.
func (k Kind) IsConvertible() bool {
	return k == KindAudio || k == KindVideo
}

func (k Kind) String() string {
	if k == "" {
		return string(KindUnknown)
	}
	return string(k)
}
