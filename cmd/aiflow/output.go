package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chengmingchun/editor/internal/state"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func severityColor(s state.Severity) string {
	switch s {
	case state.SeverityCritical:
		return colorRed
	case state.SeverityWarning:
		return colorYellow
	}
	return colorCyan
}

// formatComment renders a comment as one header line followed by its
// content.
func formatComment(c state.ReviewComment) string {
	var b strings.Builder
	b.WriteString(colorize(severityColor(c.Severity), fmt.Sprintf("[%s]", c.Severity)))
	b.WriteString(" ")
	b.WriteString(colorize(colorBold, c.Author))
	if c.FilePath != nil {
		b.WriteString("  ")
		b.WriteString(*c.FilePath)
		if c.LineNumber != nil {
			fmt.Fprintf(&b, ":%d", *c.LineNumber)
		}
	}
	b.WriteString("  ")
	b.WriteString(c.ID)
	b.WriteString("\n    ")
	b.WriteString(strings.ReplaceAll(c.Content, "\n", "\n    "))
	return b.String()
}
