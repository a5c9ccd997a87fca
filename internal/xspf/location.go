package xspf

import (
	"net/url"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// ResolveLocation converts a track location into a local filesystem path.
//
// Drive-letter paths are returned with backslash separators. file:// URIs are
// percent-decoded; "/C:/..." paths lose the leading slash, and a host other
// than localhost becomes a UNC path. Any other value is returned unchanged.
func ResolveLocation(location string) string {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return ""
	}
	if isDrivePath(loc) {
		return strings.ReplaceAll(loc, "/", `\`)
	}
	if len(loc) >= len(fileScheme) && strings.EqualFold(loc[:len(fileScheme)], fileScheme) {
		return resolveFileURI(loc[len(fileScheme):])
	}
	return loc
}

func resolveFileURI(rest string) string {
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	host, path := rest, "/"
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host, path = rest[:i], rest[i:]
	}
	path = unescape(path)
	host = unescape(host)

	if len(path) >= 3 && path[0] == '/' && isDriveLetter(path[1]) && path[2] == ':' {
		return strings.ReplaceAll(path[1:], "/", `\`)
	}
	if host != "" && !strings.EqualFold(host, "localhost") {
		return filepath.FromSlash("//" + host + path)
	}
	return filepath.FromSlash(path)
}

// unescape decodes percent-escapes, leaving malformed input untouched.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

func isDrivePath(s string) bool {
	return len(s) >= 3 && isDriveLetter(s[0]) && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// hasScheme reports whether loc looks like a URI (scheme "://").
func hasScheme(loc string) bool {
	i := strings.Index(loc, "://")
	if i <= 0 {
		return false
	}
	for _, c := range loc[:i] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

// anchorRelative joins relative plain paths onto the playlist directory.
func anchorRelative(path, dir string) string {
	if path == "" || dir == "" {
		return path
	}
	if filepath.IsAbs(path) || isDrivePath(path) || hasScheme(path) || strings.HasPrefix(path, `\\`) {
		return path
	}
	return filepath.Join(dir, filepath.FromSlash(path))
}
