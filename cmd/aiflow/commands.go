package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chengmingchun/editor/internal/config"
	"github.com/chengmingchun/editor/internal/metrics"
	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/templates"
)

// --- docs ---

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage markdown documents",
}

var docsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a document from --file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		var data []byte
		var err error
		if file != "" {
			data, err = os.ReadFile(file)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading content: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		path, err := saveDocument(cmd.Context(), client, args[0], string(data))
		if err != nil {
			return err
		}
		printSuccess("Saved %s", path)
		return nil
	},
}

var docsLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Print a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/documents/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		var doc map[string]string
		if err := decodeJSON(resp, &doc); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), doc["content"])
		return nil
	},
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/documents")
		if err != nil {
			return err
		}
		var names []string
		if err := decodeJSON(resp, &names); err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(os.Stderr, "No documents.")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var docsImportPDFCmd = &cobra.Command{
	Use:   "import-pdf <name> <file.pdf>",
	Short: "Extract the text of a PDF into a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/documents/"+url.PathEscape(args[0])+"/import-pdf", map[string]string{
			"path": absPath(args[1]),
		})
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Imported %s", result["path"])
		return nil
	},
}

func init() {
	docsSaveCmd.Flags().String("file", "", "read content from this file instead of stdin")

	docsCmd.AddCommand(docsSaveCmd)
	docsCmd.AddCommand(docsLoadCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsImportPDFCmd)
}

func saveDocument(ctx context.Context, c *apiClient, name, content string) (string, error) {
	resp, err := c.put(ctx, "/documents/"+url.PathEscape(name), map[string]string{"content": content})
	if err != nil {
		return "", err
	}
	var result map[string]string
	if err := decodeJSON(resp, &result); err != nil {
		return "", err
	}
	return result["path"], nil
}

// --- review ---

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Open a review page and collect its comments",
}

var reviewOpenCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Open a review page as the review surface",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/surface", map[string]string{"url": args[0]})
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Review surface %s opened", result["handle"])
		printStep("the renderer polls /surface/%s/commands", result["handle"])
		return nil
	},
}

var reviewCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the review surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/surface")
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Review surface closed")
		return nil
	},
}

var reviewCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture comments from the open review surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		comments, err := captureComments(cmd.Context(), client)
		if err != nil {
			return err
		}
		printSuccess("Captured %d comments", len(comments))
		for _, c := range comments {
			fmt.Fprintln(cmd.OutOrStdout(), formatComment(c))
		}
		return nil
	},
}

var reviewImportCmd = &cobra.Command{
	Use:   "import <page.html>",
	Short: "Import comments from a saved review page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.postRaw(cmd.Context(), "/comments/import", "text/html", f)
		if err != nil {
			return err
		}
		var comments []state.ReviewComment
		if err := decodeJSON(resp, &comments); err != nil {
			return err
		}
		printSuccess("Imported %d comments", len(comments))
		return nil
	},
}

var reviewAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a review comment by hand",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := commentFromFlags(cmd, strings.Join(args, " "))
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/comments", c)
		if err != nil {
			return err
		}
		var added state.ReviewComment
		if err := decodeJSON(resp, &added); err != nil {
			return err
		}
		printSuccess("Added comment %s", added.ID)
		return nil
	},
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		comments, err := listComments(cmd.Context(), client)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), comments)
		}
		if len(comments) == 0 {
			fmt.Fprintln(os.Stderr, "No comments.")
			return nil
		}
		for _, c := range comments {
			fmt.Fprintln(cmd.OutOrStdout(), formatComment(c))
		}
		return nil
	},
}

var reviewClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/comments")
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Comments cleared")
		return nil
	},
}

var reviewHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent capture attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), fmt.Sprintf("/comments/captures?limit=%d", limit))
		if err != nil {
			return err
		}
		var runs []captureRun
		if err := decodeJSON(resp, &runs); err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No captures recorded.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintln(cmd.OutOrStdout(), formatCaptureRun(r))
		}
		return nil
	},
}

func init() {
	addCommentFlags(reviewAddCmd)
	reviewListCmd.Flags().Bool("json", false, "print comments as JSON")
	reviewHistoryCmd.Flags().Int("limit", 20, "number of runs to show")

	reviewCmd.AddCommand(reviewOpenCmd)
	reviewCmd.AddCommand(reviewCloseCmd)
	reviewCmd.AddCommand(reviewCaptureCmd)
	reviewCmd.AddCommand(reviewImportCmd)
	reviewCmd.AddCommand(reviewAddCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewClearCmd)
	reviewCmd.AddCommand(reviewHistoryCmd)
}

type captureRun struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Status       string `json:"status"`
	CommentCount int    `json:"comment_count"`
	Error        string `json:"error"`
	StartedAt    string `json:"started_at"`
}

func formatCaptureRun(r captureRun) string {
	status := colorize(colorGreen, r.Status)
	if r.Error != "" {
		status = colorize(colorRed, r.Status) + " (" + r.Error + ")"
	}
	return fmt.Sprintf("%s  %-11s %3d comments  %s", r.StartedAt, r.Source, r.CommentCount, status)
}

func addCommentFlags(cmd *cobra.Command) {
	cmd.Flags().String("author", "me", "comment author")
	cmd.Flags().String("severity", "suggestion", "critical, warning or suggestion")
	cmd.Flags().String("file", "", "file the comment refers to")
	cmd.Flags().Uint32("line", 0, "line the comment refers to")
}

func commentFromFlags(cmd *cobra.Command, content string) (state.ReviewComment, error) {
	author, _ := cmd.Flags().GetString("author")
	severity, _ := cmd.Flags().GetString("severity")
	file, _ := cmd.Flags().GetString("file")
	line, _ := cmd.Flags().GetUint32("line")

	c := state.ReviewComment{
		Author:   author,
		Content:  content,
		Severity: state.Severity(strings.ToLower(severity)),
	}
	if !c.Severity.Valid() {
		return c, fmt.Errorf("severity %q is not one of critical, warning, suggestion", severity)
	}
	if file != "" {
		c.FilePath = &file
	}
	if line > 0 {
		c.LineNumber = &line
	}
	return c, nil
}

func captureComments(ctx context.Context, c *apiClient) ([]state.ReviewComment, error) {
	resp, err := c.post(ctx, "/comments/capture", nil)
	if err != nil {
		return nil, err
	}
	var comments []state.ReviewComment
	if err := decodeJSON(resp, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func listComments(ctx context.Context, c *apiClient) ([]state.ReviewComment, error) {
	resp, err := c.get(ctx, "/comments")
	if err != nil {
		return nil, err
	}
	var comments []state.ReviewComment
	if err := decodeJSON(resp, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// --- pairs ---

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Derive and export training pairs",
}

var pairsDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive training pairs from the stored comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/pairs/derive", nil)
		if err != nil {
			return err
		}
		var pairs []state.TrainingPair
		if err := decodeJSON(resp, &pairs); err != nil {
			return err
		}
		printSuccess("Derived %d training pairs", len(pairs))
		return nil
	},
}

var pairsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current training pairs as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/pairs")
		if err != nil {
			return err
		}
		var pairs []state.TrainingPair
		if err := decodeJSON(resp, &pairs); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), pairs)
	},
}

var pairsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the training pairs to the documents directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/pairs/export", nil)
		if err != nil {
			return err
		}
		var result struct {
			Path  string `json:"path"`
			Count int    `json:"count"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Exported %d pairs to %s", result.Count, result.Path)
		return nil
	},
}

func init() {
	pairsCmd.AddCommand(pairsDeriveCmd)
	pairsCmd.AddCommand(pairsListCmd)
	pairsCmd.AddCommand(pairsExportCmd)
}

// --- metrics ---

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Record and summarize AI coding sessions",
}

var metricsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one session",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := sampleFromFlags(cmd, time.Now())

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/metrics", m)
		if err != nil {
			return err
		}
		var added state.MetricSample
		if err := decodeJSON(resp, &added); err != nil {
			return err
		}
		printSuccess("Recorded session for %s", added.Date)
		return nil
	},
}

var metricsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recorded sessions as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/metrics")
		if err != nil {
			return err
		}
		var samples []state.MetricSample
		if err := decodeJSON(resp, &samples); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), samples)
	},
}

var metricsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/metrics/summary")
		if err != nil {
			return err
		}
		var summary map[string]float64
		if err := decodeJSON(resp, &summary); err != nil {
			return err
		}
		for _, line := range summaryLines(summary) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var metricsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/metrics")
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Metrics cleared")
		return nil
	},
}

func init() {
	addSampleFlags(metricsAddCmd)

	metricsCmd.AddCommand(metricsAddCmd)
	metricsCmd.AddCommand(metricsListCmd)
	metricsCmd.AddCommand(metricsSummaryCmd)
	metricsCmd.AddCommand(metricsClearCmd)
}

func addSampleFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "session date (default today)")
	cmd.Flags().Float64("ai-minutes", 0, "minutes spent with the assistant")
	cmd.Flags().Uint32("ai-lines", 0, "lines written by the assistant")
	cmd.Flags().Uint32("manual-lines", 0, "lines written by hand")
	cmd.Flags().Uint32("reviews", 0, "review comments received")
	cmd.Flags().Uint32("resolved", 0, "review comments resolved")
}

func sampleFromFlags(cmd *cobra.Command, now time.Time) state.MetricSample {
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = now.Format("2006-01-02")
	}
	m := state.MetricSample{Date: date}
	m.AITimeMinutes, _ = cmd.Flags().GetFloat64("ai-minutes")
	m.AILines, _ = cmd.Flags().GetUint32("ai-lines")
	m.ManualLines, _ = cmd.Flags().GetUint32("manual-lines")
	m.ReviewCount, _ = cmd.Flags().GetUint32("reviews")
	m.ResolvedCount, _ = cmd.Flags().GetUint32("resolved")
	return m
}

// summaryLines renders a summary in metrics.Keys order.
func summaryLines(summary map[string]float64) []string {
	lines := make([]string, 0, len(metrics.Keys))
	for _, k := range metrics.Keys {
		v := summary[k]
		var val string
		switch k {
		case metrics.AIEfficiency, metrics.ResolvedRate:
			val = fmt.Sprintf("%.1f%%", v)
		case metrics.AvgAITime:
			val = fmt.Sprintf("%.1f min", v)
		default:
			val = fmt.Sprintf("%.0f", v)
		}
		lines = append(lines, fmt.Sprintf("  %-20s %s", k, val))
	}
	return lines
}

// --- templates ---

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Fetch and browse document templates",
}

var templatesFetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch templates from a remote source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/templates/fetch", map[string]string{"url": args[0]})
		if err != nil {
			return err
		}
		var ts []templates.Template
		if err := decodeJSON(resp, &ts); err != nil {
			return err
		}
		printTemplates(cmd.OutOrStdout(), ts)
		return nil
	},
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		path := "/api/templates"
		if category != "" {
			path += "?category=" + url.QueryEscape(category)
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}
		var ts []templates.Template
		if err := decodeJSON(resp, &ts); err != nil {
			return err
		}
		printTemplates(cmd.OutOrStdout(), ts)
		return nil
	},
}

var templatesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search catalog templates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ts, err := searchTemplates(cmd.Context(), client, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printTemplates(cmd.OutOrStdout(), ts)
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a catalog template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/api/templates/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		var t templates.Template
		if err := decodeJSON(resp, &t); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Content)
		return nil
	},
}

var templatesUploadCmd = &cobra.Command{
	Use:   "upload <file.yaml>",
	Short: "Upload a template described in a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		t, err := parseTemplateFile(data)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/api/templates/upload", t)
		if err != nil {
			return err
		}
		var result struct {
			Message string            `json:"message"`
			Data    map[string]string `json:"data"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Uploaded template %s", result.Data["template_id"])
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a catalog template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/api/templates/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		var result map[string]any
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Deleted template %s", args[0])
		return nil
	},
}

func init() {
	templatesListCmd.Flags().String("category", "", "only list this category")

	templatesCmd.AddCommand(templatesFetchCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesSearchCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesUploadCmd)
	templatesCmd.AddCommand(templatesDeleteCmd)
}

func searchTemplates(ctx context.Context, c *apiClient, q string) ([]templates.Template, error) {
	resp, err := c.post(ctx, "/api/templates/search?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, err
	}
	var ts []templates.Template
	if err := decodeJSON(resp, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// parseTemplateFile reads a template from YAML (JSON is valid YAML too).
func parseTemplateFile(data []byte) (templates.Template, error) {
	var t templates.Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parsing template file: %w", err)
	}
	if strings.TrimSpace(t.Name) == "" {
		return t, fmt.Errorf("template file has no name")
	}
	return t, nil
}

func printTemplates(w io.Writer, ts []templates.Template) {
	if len(ts) == 0 {
		fmt.Fprintln(os.Stderr, "No templates.")
		return
	}
	for _, t := range ts {
		line := colorize(colorBold, t.ID) + "  " + t.Name
		if t.Category != "" {
			line += "  [" + t.Category + "]"
		}
		fmt.Fprintln(w, line)
		if t.Description != "" {
			fmt.Fprintln(w, "    "+t.Description)
		}
	}
}

// --- diagram ---

var diagramCmd = &cobra.Command{
	Use:   "diagram <description>",
	Short: "Print a PlantUML diagram for a description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/diagrams", map[string]string{
			"description": strings.Join(args, " "),
		})
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result["diagram"])
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s  (%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			printWarning("valid keys: %s", strings.Join(config.ValidKeys(), ", "))
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
