package mediatypes

import "testing"

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/music/song.mp3", KindAudio},
		{"/music/SONG.FLAC", KindAudio},
		{`C:\Music\take.m4a`, KindAudio},
		{"clip.webm", KindVideo},
		{"/videos/movie.MKV", KindVideo},
		{"/docs/readme.txt", KindUnknown},
		{"/music/noext", KindUnknown},
		{"/music/.hidden", KindUnknown},
		{"/music/trailing.", KindUnknown},
		{`C:\dir.with.dots\file`, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := KindForPath(tt.path); got != tt.want {
				t.Errorf("KindForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestKindForExtAcceptsMissingDot(t *testing.T) {
	if got := KindForExt("MOV"); got != KindVideo {
		t.Fatalf("KindForExt(MOV) = %q", got)
	}
	if got := KindForExt(""); got != KindUnknown {
		t.Fatalf("KindForExt(\"\") = %q", got)
	}
}

func TestExtensionSetsAreDisjoint(t *testing.T) {
	for ext := range AudioExtensions {
		if VideoExtensions[ext] {
			t.Errorf("extension %q is both audio and video", ext)
		}
	}
}

func TestIsConvertible(t *testing.T) {
	if !KindAudio.IsConvertible() || !KindVideo.IsConvertible() {
		t.Fatal("audio and video must be convertible")
	}
	if KindUnknown.IsConvertible() {
		t.Fatal("unknown must not be convertible")
	}
	if Kind("").String() != "unknown" {
		t.Fatal("zero kind should print as unknown")
	}
}
