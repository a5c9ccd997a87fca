package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"xspf2mp4/internal/config"
)

// Source describes where a tool was found.
type Source string

const (
	SourceConfig  Source = "config"
	SourceSidecar Source = "sidecar"
	SourcePath    Source = "path"
	SourceMissing Source = "missing"
)

// Resolution is the outcome of locating a tool.
type Resolution struct {
	Command string
	Source  Source
}

// ResolveFFmpeg locates the ffmpeg binary for cfg.
func ResolveFFmpeg(cfg *config.Config) Resolution {
	var configured string
	if cfg != nil {
		configured = cfg.FFmpeg.Binary
	}
	return ResolveTool(configured, config.FFmpegName(), sidecarDirs(cfg)...)
}

// ResolveFFprobe locates the ffprobe binary for cfg.
func ResolveFFprobe(cfg *config.Config) Resolution {
	var configured string
	if cfg != nil {
		configured = cfg.FFmpeg.FFprobeBinary
	}
	return ResolveTool(configured, config.FFprobeName(), sidecarDirs(cfg)...)
}

// ResolveTool applies the lookup order: an explicitly configured command,
// then a binary named name sitting in one of sidecarDirs, then name on PATH.
// When nothing is found the bare name is returned with SourceMissing so the
// eventual exec error names the tool.
func ResolveTool(configured, name string, sidecarDirs ...string) Resolution {
	if cmd := strings.TrimSpace(configured); cmd != "" {
		return Resolution{Command: cmd, Source: SourceConfig}
	}
	for _, dir := range sidecarDirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return Resolution{Command: candidate, Source: SourceSidecar}
		}
	}
	if resolved, err := exec.LookPath(name); err == nil {
		return Resolution{Command: resolved, Source: SourcePath}
	}
	return Resolution{Command: name, Source: SourceMissing}
}

func sidecarDirs(cfg *config.Config) []string {
	dirs := make([]string, 0, 2)
	if cfg != nil && cfg.Paths.BaseDir != "" {
		dirs = append(dirs, cfg.Paths.BaseDir)
	}
	if exeDir := config.ExecutableDir(); len(dirs) == 0 || filepath.Clean(exeDir) != filepath.Clean(dirs[0]) {
		dirs = append(dirs, exeDir)
	}
	return dirs
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
