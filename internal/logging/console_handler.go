package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	prefix := strings.Join(h.groups, ".")
	var fields fieldSet
	fields.addAll("", h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		fields.add(prefix, attr)
		return true
	})

	var component, playlist, trackIndex, trackCount string
	filtered := make([]kv, 0, len(fields.order))
	for _, kv := range fields.order {
		switch kv.key {
		case FieldComponent:
			component = attrString(kv.value)
			continue
		case FieldPlaylist:
			playlist = attrString(kv.value)
			continue
		case FieldTrackIndex:
			trackIndex = attrString(kv.value)
			continue
		case FieldTrackCount:
			trackCount = attrString(kv.value)
			continue
		}
		filtered = append(filtered, kv)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(filtered)*24)

	buf.WriteString(timestamp.UTC().Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if component != "" {
		buf.WriteString(" [")
		buf.WriteString(component)
		buf.WriteByte(']')
	}
	if subject := composeSubject(playlist, trackIndex, trackCount); subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	buf.WriteString(" – ")
	buf.WriteString(message)

	if h.addSource {
		if src := record.Source(); src != nil {
			buf.WriteString(" [")
			buf.WriteString(filepath.Base(src.File))
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(src.Line))
			buf.WriteByte(']')
		}
	}

	for _, kv := range filtered {
		buf.WriteByte(' ')
		buf.WriteString(kv.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(kv.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// composeSubject renders "name.xspf (2/5)" style prefixes.
func composeSubject(playlist, index, count string) string {
	playlist = strings.TrimSpace(playlist)
	if playlist != "" {
		playlist = filepath.Base(playlist)
	}
	switch {
	case index != "" && count != "":
		progress := "(" + index + "/" + count + ")"
		if playlist == "" {
			return progress
		}
		return playlist + " " + progress
	case index != "":
		if playlist == "" {
			return "#" + index
		}
		return playlist + " #" + index
	default:
		return playlist
	}
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(h.groups) > 0 {
		attrs = []slog.Attr{{Key: strings.Join(h.groups, "."), Value: slog.GroupValue(attrs...)}}
	}
	next := *h
	next.attrs = append(slices.Clip(h.attrs), attrs...)
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(slices.Clip(h.groups), name)
	return &next
}

type kv struct {
	key   string
	value slog.Value
}

// fieldSet keeps first-seen order while letting later values win.
type fieldSet struct {
	order []kv
	index map[string]int
}

func (f *fieldSet) addAll(prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		f.add(prefix, attr)
	}
}

func (f *fieldSet) add(prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	key := joinKey(prefix, attr.Key)
	if value.Kind() == slog.KindGroup {
		f.addAll(key, value.Group())
		return
	}
	if key == "" {
		return
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if pos, ok := f.index[key]; ok {
		f.order[pos].value = value
		return
	}
	f.index[key] = len(f.order)
	f.order = append(f.order, kv{key: key, value: value})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
