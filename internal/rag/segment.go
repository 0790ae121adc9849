package rag

import (
	"strings"
	"unicode/utf8"
)

// DefaultFix is used when a comment carries no recognisable fix.
const DefaultFix = "请根据上述问题检查并修复代码"

// midpointThreshold is the problem length (in bytes) above which a comment
// without a marker line is split in half.
const midpointThreshold = 50

// DefaultMarkers switch routing from the problem text to the fix text.
var DefaultMarkers = []string{"建议", "fix", "should"}

// Segment splits review comment content into a problem description and a
// suggested fix.
//
// Lines are routed to the problem until the first line whose lowercased form
// contains one of markers; that line and every line after it go to the fix.
// Trimmed lines are joined with a single space. When no fix was found and the
// problem is longer than 50 bytes, the problem is split at the first space at
// or after its midpoint. Segment is total: any input, including "", yields a
// non-empty fix.
func Segment(content string, markers []string) (problem, fix string) {
	lowered := lowerAll(markers)

	var p, f strings.Builder
	inProblem := true
	for _, line := range splitLines(content) {
		if inProblem && containsAny(strings.ToLower(line), lowered) {
			inProblem = false
		}
		dst := &f
		if inProblem {
			dst = &p
		}
		if dst.Len() > 0 {
			dst.WriteByte(' ')
		}
		dst.WriteString(strings.TrimSpace(line))
	}
	problem, fix = p.String(), f.String()

	if fix == "" && len(problem) > midpointThreshold {
		at := splitOffset(problem)
		problem, fix = problem[:at], problem[at:]
	}
	if problem == "" {
		problem = content
	}
	if fix == "" {
		fix = DefaultFix
	}
	return problem, fix
}

// splitOffset returns the index of the first space at or after the midpoint
// of s, or the midpoint itself when no such space exists. The midpoint is
// moved forward to a rune boundary.
func splitOffset(s string) int {
	mid := len(s) / 2
	for mid < len(s) && !utf8.RuneStart(s[mid]) {
		mid++
	}
	if i := strings.IndexByte(s[mid:], ' '); i >= 0 {
		return mid + i
	}
	return mid
}

// splitLines breaks s on "\n", dropping a trailing "\r" from each line and
// the empty element after a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
