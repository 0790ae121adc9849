package capture

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
)

const reviewPage = `<!doctype html>
<html><body>
<div class="diff-file">
  <div class="file-title"> internal/server.go </div>
  <table>
    <tr class="diff-line">
      <td class="line-number"> 42 </td>
      <td>
        <div class="review-comment critical">
          <span class="author">amy</span>
          <div class="comment-content">
            The handler ignores the error.
            You should return it.
          </div>
        </div>
      </td>
    </tr>
  </table>
</div>
<div class="comment warning" data-testid="comment">
  <p>Rename this variable</p>
</div>
<div class="note-body">
  <span class="username">carl</span>
</div>
<div data-testid="comment">
  <div class="markdown-body">Looks fine</div>
</div>
</body></html>`

func TestExtractHTML(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
	got, err := ExtractHTML(strings.NewReader(reviewPage), now)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}

	first := got[0]
	if first.ID != "comment_0_1741064767008" {
		t.Errorf("ID = %q, want %q", first.ID, "comment_0_1741064767008")
	}
	if first.Author != "amy" {
		t.Errorf("Author = %q, want %q", first.Author, "amy")
	}
	if !strings.HasPrefix(first.Content, "The handler ignores the error.") || !strings.HasSuffix(first.Content, "You should return it.") {
		t.Errorf("Content = %q", first.Content)
	}
	if first.Severity != state.SeverityCritical {
		t.Errorf("Severity = %q, want critical", first.Severity)
	}
	if first.FilePath == nil || *first.FilePath != "internal/server.go" {
		t.Errorf("FilePath = %v, want internal/server.go", first.FilePath)
	}
	if first.LineNumber == nil || *first.LineNumber != 42 {
		t.Errorf("LineNumber = %v, want 42", first.LineNumber)
	}
	if first.CreatedAt != "2025-03-04T05:06:07.008Z" {
		t.Errorf("CreatedAt = %q", first.CreatedAt)
	}

	second := got[1]
	if second.Author != "Unknown" || second.Content != "Rename this variable" {
		t.Errorf("second = %+v", second)
	}
	if second.Severity != state.SeverityWarning {
		t.Errorf("second.Severity = %q, want warning", second.Severity)
	}
	if second.FilePath != nil || second.LineNumber != nil {
		t.Errorf("second has location: %v %v", second.FilePath, second.LineNumber)
	}

	// The note-body without content is skipped but still consumes index 2.
	third := got[2]
	if !strings.HasPrefix(third.ID, "comment_3_") {
		t.Errorf("third.ID = %q, want comment_3_ prefix", third.ID)
	}
	if third.Severity != state.SeveritySuggestion {
		t.Errorf("third.Severity = %q, want suggestion", third.Severity)
	}
}

func TestLeadingUint(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12", 12},
		{"  7 lines", 7},
		{"+3", 3},
		{"abc", -1},
		{"-4", -1},
		{"", -1},
		{"99999999999", -1},
	}
	for _, tt := range tests {
		got := leadingUint(tt.in)
		switch {
		case tt.want < 0 && got != nil:
			t.Errorf("leadingUint(%q) = %d, want nil", tt.in, *got)
		case tt.want >= 0 && (got == nil || int64(*got) != tt.want):
			t.Errorf("leadingUint(%q) = %v, want %d", tt.in, got, tt.want)
		}
	}
}

func TestImporter_AppendsToStore(t *testing.T) {
	store := state.New()
	imp := &Importer{Store: store, Now: func() time.Time { return time.Unix(0, 0) }}

	got, err := imp.Import(strings.NewReader(reviewPage))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	n, _ := store.CommentCount()
	if n != len(got) || n != 3 {
		t.Errorf("CommentCount = %d, imported %d, want 3", n, len(got))
	}
}

func TestImporter_EmptyPage(t *testing.T) {
	store := state.New()
	got, err := (&Importer{Store: store}).Import(strings.NewReader("<html></html>"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if _, err := store.ListComments(); errors.Is(err, state.ErrStateUnavailable) {
		t.Error("store unexpectedly unavailable")
	}
}

func TestImporter_RecordsHistory(t *testing.T) {
	var runs []storage.CaptureRun
	imp := &Importer{
		Store: state.New(),
		History: recorderFunc(func(r storage.CaptureRun) error {
			runs = append(runs, r)
			return nil
		}),
	}

	if _, err := imp.Import(strings.NewReader(reviewPage)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	if runs[0].Source != storage.SourceHTML || runs[0].Status != storage.RunSucceeded || runs[0].CommentCount != 3 {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestScript_SubstitutesEventName(t *testing.T) {
	s := Script(`my"event`)
	if strings.Contains(s, "__EVENT_NAME__") {
		t.Error("placeholder left in script")
	}
	if !strings.Contains(s, `window.aiflow.emit("my\"event"`) {
		t.Errorf("event name not quoted into script")
	}
}
