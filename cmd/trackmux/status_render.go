package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"trackmux/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const (
	checkLabelWidth = 22
	checkIndent     = "  "
)

// renderCheckLine prints one preflight result, e.g.
// "  FFmpeg:                [OK] /usr/bin/ffmpeg (from PATH)".
func renderCheckLine(result preflight.Result, colorize bool) string {
	verdict, color := "OK", ansiGreen
	if !result.Passed {
		verdict, color = "FAIL", ansiRed
	}
	status := "[" + verdict + "]"
	if result.Detail != "" {
		status += " " + result.Detail
	}
	line := fmt.Sprintf("%s%-*s %s", checkIndent, checkLabelWidth, result.Name+":", status)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

// renderCheckSummary closes the report with a pass count.
func renderCheckSummary(results []preflight.Result, colorize bool) string {
	failed := len(preflight.Failed(results))
	line := fmt.Sprintf("%d of %d checks passed", len(results)-failed, len(results))
	if !colorize {
		return line
	}
	if failed > 0 {
		return ansiRed + line + ansiReset
	}
	return ansiGreen + line + ansiReset
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
