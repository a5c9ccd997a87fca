// Package xspf reads XSPF playlists into ordered, classified tracks.
//
// Parse decodes the document, resolves every track location to a local path
// and tags it with a mediatypes.Kind. Element names are matched without
// regard to namespace so both canonical (xmlns="http://xspf.org/ns/0/") and
// bare documents load. Malformed XML yields *ParseError and a playlist with
// no tracks yields *EmptyPlaylistError.
package xspf
