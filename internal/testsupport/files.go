package testsupport

import (
	"encoding/xml"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// PlaylistTrack describes one entry written by WritePlaylist.
type PlaylistTrack struct {
	Location string
	Title    string
	Duration string
}

// WritePlaylist writes a namespaced XSPF document listing tracks.
func WritePlaylist(t testing.TB, path string, tracks ...PlaylistTrack) {
	t.Helper()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<playlist version="1" xmlns="http://xspf.org/ns/0/">` + "\n  <trackList>\n")
	for _, tr := range tracks {
		b.WriteString("    <track>\n")
		writeElement(&b, "location", tr.Location)
		writeElement(&b, "title", tr.Title)
		writeElement(&b, "duration", tr.Duration)
		b.WriteString("    </track>\n")
	}
	b.WriteString("  </trackList>\n</playlist>\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write playlist %s: %v", path, err)
	}
}

// FileURI converts an absolute local path to a file:// location.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func writeElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("      <" + name + ">")
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</" + name + ">\n")
}
