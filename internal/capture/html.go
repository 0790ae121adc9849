package capture

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/chengmingchun/editor/internal/state"
)

// Selector groups used by both the live extraction script and ExtractHTML.
var (
	commentSelectors  = cascadia.MustCompile(`.comment, .review-comment, [data-testid="comment"], .note-body, .diff-comment`)
	authorSelectors   = cascadia.MustCompile(`.author, .username, [data-testid="author"], .user-avatar`)
	contentSelectors  = cascadia.MustCompile(`.comment-content, .note-text, p, .markdown-body`)
	fileHolders       = cascadia.MustCompile(`.file-holder, .diff-file`)
	fileNameSelectors = cascadia.MustCompile(`.file-title, .filename`)
	lineHolders       = cascadia.MustCompile(`.line, .diff-line`)
	lineNumSelectors  = cascadia.MustCompile(`.line-number`)
	criticalSelector  = cascadia.MustCompile(`.critical`)
	warningSelector   = cascadia.MustCompile(`.warning`)
)

const isoMillis = "2006-01-02T15:04:05.000Z"

// ExtractHTML applies the extraction rules to a saved review page. Ids and
// timestamps are derived from now.
func ExtractHTML(r io.Reader, now time.Time) ([]state.ReviewComment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	createdAt := now.UTC().Format(isoMillis)
	comments := []state.ReviewComment{}
	for index, el := range cascadia.QueryAll(doc, commentSelectors) {
		contentEl := cascadia.Query(el, contentSelectors)
		if contentEl == nil {
			continue
		}

		c := state.ReviewComment{
			ID:        fmt.Sprintf("comment_%d_%d", index, now.UnixMilli()),
			Author:    "Unknown",
			Content:   strings.TrimSpace(textContent(contentEl)),
			Severity:  severityOf(el),
			CreatedAt: createdAt,
		}
		if a := cascadia.Query(el, authorSelectors); a != nil {
			c.Author = strings.TrimSpace(textContent(a))
		}
		if holder := closest(el, fileHolders); holder != nil {
			if f := cascadia.Query(holder, fileNameSelectors); f != nil {
				path := strings.TrimSpace(textContent(f))
				c.FilePath = &path
			}
		}
		if holder := closest(el, lineHolders); holder != nil {
			if l := cascadia.Query(holder, lineNumSelectors); l != nil {
				c.LineNumber = leadingUint(textContent(l))
			}
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func severityOf(n *html.Node) state.Severity {
	switch {
	case criticalSelector.Match(n):
		return state.SeverityCritical
	case warningSelector.Match(n):
		return state.SeverityWarning
	default:
		return state.SeveritySuggestion
	}
}

// leadingUint parses the leading decimal digits of s after whitespace, the
// way parseInt does. Anything that is not a non-negative uint32 yields nil.
func leadingUint(s string) *uint32 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	v, err := strconv.ParseUint(s[:end], 10, 32)
	if err != nil {
		return nil
	}
	n := uint32(v)
	return &n
}

// closest returns n or its nearest ancestor matching sel, like
// Element.closest.
func closest(n *html.Node, sel cascadia.Matcher) *html.Node {
	for ; n != nil; n = n.Parent {
		if sel.Match(n) {
			return n
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
