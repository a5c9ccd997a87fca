// Package mediatypes classifies source files by extension.
//
// It has no dependencies so the parser, the transcoder and the CLI can all
// share one definition of which inputs are audio and which are video:
//
//	kind := mediatypes.KindForPath("/music/song.FLAC") // mediatypes.KindAudio
//
// Anything outside AudioExtensions and VideoExtensions is KindUnknown, which
// the pipeline rejects when it reaches that track.
package mediatypes
