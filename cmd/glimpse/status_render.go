package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const checkIndent = "  "

// checkStatus is the rendered outcome of a single diagnostic check.
type checkStatus int

const (
	checkInfo checkStatus = iota
	checkPassed
	checkWarned
	checkFailed
)

func (s checkStatus) label() string {
	switch s {
	case checkPassed:
		return "OK"
	case checkWarned:
		return "WARN"
	case checkFailed:
		return "FAIL"
	default:
		return "INFO"
	}
}

func (s checkStatus) color() string {
	switch s {
	case checkPassed:
		return ansiGreen
	case checkWarned:
		return ansiYellow
	case checkFailed:
		return ansiRed
	default:
		return ansiBlue
	}
}

// renderCheckLine formats one "name: [STATUS] detail" line with the status
// column aligned across checks.
func renderCheckLine(name string, s checkStatus, detail string, colorize bool) string {
	line := fmt.Sprintf("%s%-22s [%s]", checkIndent, name+":", s.label())
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		return s.color() + line + ansiReset
	}
	return line
}

// renderHeading underlines a section title.
func renderHeading(title string, colorize bool) string {
	title = strings.TrimSpace(title)
	heading := title + "\n" + strings.Repeat("-", len(title))
	if colorize {
		return ansiBlue + heading + ansiReset
	}
	return heading
}

// writerSupportsColor reports whether the writer is a terminal worth
// sending ANSI sequences to.
func writerSupportsColor(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
