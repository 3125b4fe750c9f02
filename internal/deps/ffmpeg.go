package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultFFmpeg = "ffmpeg"

// Status reports whether the composer's FFmpeg binary can be executed.
type Status struct {
	Name        string
	Description string
	// Command is the binary the composer will run: the configured path, or
	// the PATH match for a bare name.
	Command string
	// FromPath is set when Command was resolved through PATH rather than
	// taken from composer.ffmpeg_binary as an explicit path.
	FromPath  bool
	Available bool
	Detail    string
}

// CheckFFmpeg reports the FFmpeg binary the local composer will execute for
// the composer.ffmpeg_binary setting configured.
//
// A configured value containing a path separator must point at an executable
// file. Bare names, and an empty value, are resolved from PATH.
func CheckFFmpeg(configured string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Runs mux and video-only composer jobs",
	}

	command := strings.TrimSpace(configured)
	if command == "" {
		command = defaultFFmpeg
	}
	result.Command = command

	if strings.ContainsRune(command, filepath.Separator) {
		info, err := os.Stat(command)
		switch {
		case err != nil:
			result.Detail = fmt.Sprintf("binary %q not found", command)
		case !isExecutable(info):
			result.Detail = fmt.Sprintf("binary %q is not executable", command)
		default:
			result.Available = true
		}
		return result
	}

	result.FromPath = true
	resolved, err := exec.LookPath(command)
	if err != nil {
		result.Detail = fmt.Sprintf("binary %q not found on PATH", command)
		return result
	}
	result.Command = resolved
	result.Available = true
	return result
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
