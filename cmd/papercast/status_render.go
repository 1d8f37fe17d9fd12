package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type lineTone int

const (
	toneNote lineTone = iota
	toneOK
	toneWarn
	toneFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusPrinter writes aligned, optionally colorized status output. Color
// is enabled only when the destination is a real terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
	width    int
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: isTerminal(out), width: 18}
}

func (p *statusPrinter) section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if p.colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(p.out, line)
	fmt.Fprintln(p.out, rule)
}

func (p *statusPrinter) field(label, value string) {
	fmt.Fprintf(p.out, "  %-*s %s\n", p.width, label+":", value)
}

func (p *statusPrinter) line(tone lineTone, label, message string) {
	status := "[" + toneLabel(tone) + "]"
	if message != "" {
		status += " " + message
	}
	text := fmt.Sprintf("  %-*s %s", p.width, label+":", status)
	if p.colorize {
		if color := toneColor(tone); color != "" {
			text = color + text + ansiReset
		}
	}
	fmt.Fprintln(p.out, text)
}

func (p *statusPrinter) blank() {
	fmt.Fprintln(p.out)
}

func toneLabel(tone lineTone) string {
	switch tone {
	case toneOK:
		return "OK"
	case toneWarn:
		return "WARN"
	case toneFail:
		return "FAIL"
	default:
		return "INFO"
	}
}

func toneColor(tone lineTone) string {
	switch tone {
	case toneOK:
		return ansiGreen
	case toneWarn:
		return ansiYellow
	case toneFail:
		return ansiRed
	default:
		return ansiBlue
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
