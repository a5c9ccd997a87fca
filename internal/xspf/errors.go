package xspf

import "fmt"

// ParseError reports a playlist that is not well-formed XSPF.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse playlist %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind implements the pipeline error classifier.
func (e *ParseError) ErrorKind() string { return "parse" }

// EmptyPlaylistError reports a playlist without any track entries.
type EmptyPlaylistError struct {
	Path string
}

func (e *EmptyPlaylistError) Error() string {
	return fmt.Sprintf("no tracks found in playlist %s", e.Path)
}

// ErrorKind implements the pipeline error classifier.
func (e *EmptyPlaylistError) ErrorKind() string { return "empty_playlist" }
