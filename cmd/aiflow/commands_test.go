package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/chengmingchun/editor/internal/config"
	"github.com/chengmingchun/editor/internal/state"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
	Type   string
}

type testServer struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.mu.Lock()
		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
			Type:   r.Header.Get("Content-Type"),
		})
		ts.mu.Unlock()

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestSaveDocument(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"PUT /documents/notes": `{"path":"/docs/notes.md"}`,
	})

	path, err := saveDocument(ctx, ts.client(), "notes", "# Notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/docs/notes.md" {
		t.Errorf("path = %q, want %q", path, "/docs/notes.md")
	}

	r := ts.requests[0]
	if r.Method != "PUT" || r.Auth != "Bearer test-token" || r.Type != "application/json" {
		t.Errorf("request = %+v", r)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["content"] != "# Notes" {
		t.Errorf("body.content = %q, want %q", body["content"], "# Notes")
	}
}

func TestCaptureComments(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /comments/capture": `[{"id":"c1","author":"amy","content":"x","file_path":null,"line_number":null,"severity":"warning","created_at":"t"}]`,
	})

	comments, err := captureComments(ctx, ts.client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 1 || comments[0].Severity != state.SeverityWarning {
		t.Errorf("comments = %+v", comments)
	}
	if ts.requests[0].Body != "" {
		t.Errorf("capture sent a body: %q", ts.requests[0].Body)
	}
}

func TestCaptureComments_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"message":"review surface is not open","type":"surface_not_open"}}`))
	}))
	defer srv.Close()

	client := &apiClient{baseURL: srv.URL, token: "t", httpClient: srv.Client()}
	_, err := captureComments(ctx, client)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "409") || !strings.Contains(err.Error(), "surface_not_open") {
		t.Errorf("error = %q, want status and type", err.Error())
	}
}

func TestListComments(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /comments": `[]`,
	})

	comments, err := listComments(ctx, ts.client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("len = %d, want 0", len(comments))
	}
}

func TestPostRaw_KeepsContentType(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /comments/import": `[]`,
	})

	resp, err := ts.client().postRaw(ctx, "/comments/import", "text/html", strings.NewReader("<html></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	r := ts.requests[0]
	if r.Type != "text/html" || r.Body != "<html></html>" {
		t.Errorf("request = %+v", r)
	}
}

func TestSearchTemplates_QueryEncoding(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/templates/search": `[{"id":"api-design","name":"API"}]`,
	})

	got, err := searchTemplates(ctx, ts.client(), "api design")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "api-design" {
		t.Errorf("templates = %+v", got)
	}
	if p := ts.requests[0].Path; p != "/api/templates/search?q=api+design" {
		t.Errorf("path = %q, want %q", p, "/api/templates/search?q=api+design")
	}
}

func TestStatusCommand_Stopped(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	ts.server.Close()

	client := ts.client()
	_, err := client.get(ctx, "/health")
	if err == nil {
		t.Fatal("expected error for stopped server")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("error = %q, want it to mention 'not reachable'", err.Error())
	}
}

func TestProbeStatus(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /health":            `{"status":"ok","comments":4,"surface_open":true}`,
		"GET /surface":           `{"open":true,"handle":"h1","url":"https://review.example/7"}`,
		"GET /comments/captures": `[{"id":"r1","status":"succeeded","comment_count":4,"started_at":"2025-01-01T00:00:00Z"}]`,
	})

	st, err := probeStatus(ctx, ts.client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Running || st.Comments != 4 {
		t.Errorf("status = %+v", st)
	}
	if !st.SurfaceOpen || st.SurfaceURL != "https://review.example/7" {
		t.Errorf("surface = %v %q", st.SurfaceOpen, st.SurfaceURL)
	}
	if !strings.Contains(st.LastCapture, "succeeded, 4 comments") {
		t.Errorf("last capture = %q", st.LastCapture)
	}
}

func TestProbeStatus_Stopped(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	ts.server.Close()

	st, err := probeStatus(ctx, ts.client())
	if err == nil {
		t.Fatal("expected error for stopped server")
	}
	if st.Running {
		t.Error("stopped server reported as running")
	}
}

func TestNoColorFlag(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "test message")
	if strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}
	if result != "test message" {
		t.Errorf("result = %q, want %q", result, "test message")
	}

	noColor = false
	result = colorize(colorGreen, "test message")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestFormatComment(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()
	noColor = true

	file := "a.go"
	line := uint32(3)
	got := formatComment(state.ReviewComment{
		ID:         "c1",
		Author:     "amy",
		Content:    "first\nsecond",
		FilePath:   &file,
		LineNumber: &line,
		Severity:   state.SeverityCritical,
	})
	want := "[critical] amy  a.go:3  c1\n    first\n    second"
	if got != want {
		t.Errorf("formatComment = %q, want %q", got, want)
	}
}

func TestCommentFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "add"}
	addCommentFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--severity", "Warning", "--file", "x.go", "--line", "9"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c, err := commentFromFlags(cmd, "rename it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Severity != state.SeverityWarning || c.Author != "me" || c.Content != "rename it" {
		t.Errorf("comment = %+v", c)
	}
	if c.FilePath == nil || *c.FilePath != "x.go" || c.LineNumber == nil || *c.LineNumber != 9 {
		t.Errorf("location = %v:%v, want x.go:9", c.FilePath, c.LineNumber)
	}

	bad := &cobra.Command{Use: "add"}
	addCommentFlags(bad)
	bad.Flags().Parse([]string{"--severity", "blocker"})
	if _, err := commentFromFlags(bad, "x"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestSampleFromFlags_DefaultsDate(t *testing.T) {
	cmd := &cobra.Command{Use: "add"}
	addSampleFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--ai-lines", "120", "--ai-minutes", "12.5"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	m := sampleFromFlags(cmd, time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC))
	if m.Date != "2025-03-04" || m.AILines != 120 || m.AITimeMinutes != 12.5 {
		t.Errorf("sample = %+v", m)
	}
}

func TestSummaryLines(t *testing.T) {
	lines := summaryLines(map[string]float64{
		"total_sessions": 2,
		"avg_ai_time":    15,
		"ai_efficiency":  62.5,
	})
	if len(lines) != 7 {
		t.Fatalf("len = %d, want 7", len(lines))
	}
	if !strings.Contains(lines[0], "total_sessions") || !strings.HasSuffix(lines[0], " 2") {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "15.0 min") {
		t.Errorf("lines[1] = %q", lines[1])
	}
	if !strings.HasSuffix(lines[4], "62.5%") {
		t.Errorf("lines[4] = %q", lines[4])
	}
}

func TestParseTemplateFile(t *testing.T) {
	yamlDoc := "id: runbook\nname: Runbook\ndescription: On-call runbook\ncontent: |\n  # Runbook\n"
	tpl, err := parseTemplateFile([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.ID != "runbook" || tpl.Content != "# Runbook\n" {
		t.Errorf("template = %+v", tpl)
	}

	tpl, err = parseTemplateFile([]byte(`{"name":"From JSON","content":"x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Name != "From JSON" {
		t.Errorf("name = %q, want %q", tpl.Name, "From JSON")
	}

	if _, err := parseTemplateFile([]byte("description: nameless\n")); err == nil {
		t.Error("expected error for template without name")
	}
}

func TestDecodeJSON_ErrorResponse(t *testing.T) {
	resp := &http.Response{
		StatusCode: 500,
		Body:       io.NopCloser(strings.NewReader("plain failure")),
	}

	var v any
	err := decodeJSON(resp, &v)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "plain failure") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestConfigShowAll(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Port = 4000
	cfg.Server.APIToken = "secret"

	found := false
	for _, k := range config.ShowAll(cfg) {
		if k.Key == "server.port" && k.Value == "4000" {
			found = true
		}
		if k.Value == "secret" {
			t.Errorf("ShowAll exposed the API token under %s", k.Key)
		}
	}
	if !found {
		t.Error("expected to find server.port=4000 in ShowAll output")
	}
}

func TestLogLevel(t *testing.T) {
	if logLevel("DEBUG").String() != "DEBUG" {
		t.Errorf("logLevel(DEBUG) = %v", logLevel("DEBUG"))
	}
	if logLevel("bogus").String() != "INFO" {
		t.Errorf("logLevel(bogus) = %v", logLevel("bogus"))
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := pidFilePath(filepath.Join(t.TempDir(), "data"))
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid <= 0 {
		t.Errorf("pid = %d", pid)
	}
	removePIDFile(path)
	if _, err := readPIDFile(path); err == nil {
		t.Error("PID file still readable after removal")
	}
}
