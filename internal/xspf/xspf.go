package xspf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"xspf2mp4/internal/mediatypes"
)

// Namespace is the canonical XSPF version 1 namespace.
const Namespace = "http://xspf.org/ns/0/"

type document struct {
	XMLName xml.Name       `xml:"playlist"`
	Title   string         `xml:"title"`
	Tracks  []trackElement `xml:"trackList>track"`
}

type trackElement struct {
	Locations []string `xml:"location"`
	Title     string   `xml:"title"`
	Duration  string   `xml:"duration"`
}

// Track is one resolved playlist entry.
type Track struct {
	// Index is the 1-based position in the playlist.
	Index       int
	Location    string
	Path        string
	Title       string
	Duration    time.Duration
	HasDuration bool
	Kind        mediatypes.Kind
	Ext         string
}

// Label returns the title when present, otherwise the file name.
func (t Track) Label() string {
	if t.Title != "" {
		return t.Title
	}
	if t.Path == "" {
		return t.Location
	}
	base := t.Path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return base
}

// Playlist is the parsed content of one XSPF file.
type Playlist struct {
	Path   string
	Title  string
	Tracks []Track
}

// Stem returns the playlist file name without extension.
func (p *Playlist) Stem() string {
	return Stem(p.Path)
}

// KnownDuration sums the durations the playlist declares.
func (p *Playlist) KnownDuration() (time.Duration, int) {
	var total time.Duration
	known := 0
	for _, tr := range p.Tracks {
		if tr.HasDuration {
			total += tr.Duration
			known++
		}
	}
	return total, known
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse reads and resolves the playlist at path.
func Parse(path string) (*Playlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	defer file.Close()
	return ParseReader(file, path)
}

// expectEnd consumes the rest of the document. Only comments, processing
// instructions and whitespace may follow the root element.
func expectEnd(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("junk after document element: %q", bytes.TrimSpace(t))
			}
		case xml.StartElement:
			return fmt.Errorf("junk after document element: <%s>", t.Name.Local)
		default:
			return fmt.Errorf("junk after document element: %T", tok)
		}
	}
}

// ParseReader decodes a playlist from r. path identifies the playlist and
// anchors relative track locations; it is not opened.
func ParseReader(r io.Reader, path string) (*Playlist, error) {
	var doc document
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = passthroughCharset
	if err := decoder.Decode(&doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := expectEnd(decoder); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(doc.Tracks) == 0 {
		return nil, &EmptyPlaylistError{Path: path}
	}

	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}

	playlist := &Playlist{
		Path:   path,
		Title:  strings.TrimSpace(doc.Title),
		Tracks: make([]Track, 0, len(doc.Tracks)),
	}
	if playlist.Title == "" {
		playlist.Title = DeriveTitle(path)
	}

	for i, el := range doc.Tracks {
		location := firstNonEmpty(el.Locations)
		resolved := anchorRelative(ResolveLocation(location), dir)
		ext := mediatypes.Ext(resolved)
		track := Track{
			Index:    i + 1,
			Location: location,
			Path:     resolved,
			Title:    strings.TrimSpace(el.Title),
			Kind:     mediatypes.KindForExt(ext),
			Ext:      ext,
		}
		if ms, ok := parseDuration(el.Duration); ok {
			track.Duration = time.Duration(ms) * time.Millisecond
			track.HasDuration = true
		}
		playlist.Tracks = append(playlist.Tracks, track)
	}
	return playlist, nil
}

// parseDuration accepts only plain ASCII digits that fit the millisecond range
// of time.Duration.
func parseDuration(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, false
	}
	return ms, true
}

// DeriveTitle builds a display title from a playlist file name:
// "road_trip-mix.xspf" becomes "Road Trip Mix".
func DeriveTitle(path string) string {
	stem := Stem(path)
	if stem == "" || stem == "." {
		return ""
	}
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// passthroughCharset reads every declared encoding as UTF-8.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
