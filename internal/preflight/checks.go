package preflight

import (
	"fmt"
	"os"

	"xspf2mp4/internal/config"
	"xspf2mp4/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries for cfg. ffprobe is only
// required when output verification is enabled.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.Check(
		deps.Requirement{
			Name:       "FFmpeg",
			Purpose:    "transcoding and concatenation",
			Resolution: deps.ResolveFFmpeg(cfg),
		},
		deps.Requirement{
			Name:       "FFprobe",
			Purpose:    "verifying finished output",
			Optional:   cfg == nil || !cfg.Output.VerifyOutput,
			Resolution: deps.ResolveFFprobe(cfg),
		},
	)
}
