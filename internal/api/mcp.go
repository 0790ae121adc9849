package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chengmingchun/editor/internal/diagram"
	"github.com/chengmingchun/editor/internal/metrics"
	"github.com/chengmingchun/editor/internal/rag"
	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/templates"
)

// Capturer pulls comments from the open review surface.
type Capturer interface {
	Capture(ctx context.Context) ([]state.ReviewComment, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	State       *state.Store
	Capture     Capturer
	Transformer *rag.Transformer
	Version     string
}

// NewMCPServer creates an MCP server with the review tools and resources
// registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"aiflow",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("aiflow collects code review comments and turns them into training pairs and diagrams."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("capture_comments",
			mcp.WithDescription("Capture review comments from the open review surface and store them."),
		),
		mcpCaptureComments(deps),
	)

	s.AddTool(
		mcp.NewTool("add_comment",
			mcp.WithDescription("Store a review comment entered by hand."),
			mcp.WithString("content", mcp.Description("Comment text"), mcp.Required()),
			mcp.WithString("severity", mcp.Description("critical, warning or suggestion"), mcp.Required()),
			mcp.WithString("author", mcp.Description("Comment author")),
			mcp.WithString("file_path", mcp.Description("File the comment refers to")),
			mcp.WithNumber("line_number", mcp.Description("Line the comment refers to")),
		),
		mcpAddComment(deps),
	)

	s.AddTool(
		mcp.NewTool("list_comments",
			mcp.WithDescription("List stored review comments in capture order."),
		),
		mcpListComments(deps),
	)

	s.AddTool(
		mcp.NewTool("derive_training_pairs",
			mcp.WithDescription("Split every stored comment into a (problem, fix) training pair, replacing previous pairs."),
		),
		mcpDerivePairs(deps),
	)

	s.AddTool(
		mcp.NewTool("summarize_metrics",
			mcp.WithDescription("Summarize recorded AI coding session metrics."),
		),
		mcpSummarizeMetrics(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_diagram",
			mcp.WithDescription("Produce a PlantUML diagram matching a short description."),
			mcp.WithString("description", mcp.Description("What the diagram should show"), mcp.Required()),
		),
		mcpGenerateDiagram(),
	)

	s.AddTool(
		mcp.NewTool("fetch_templates",
			mcp.WithDescription("Fetch document templates published at a URL."),
			mcp.WithString("url", mcp.Description("Template source URL"), mcp.Required()),
		),
		mcpFetchTemplates(),
	)

	s.AddResource(
		mcp.NewResource(
			"review://comments",
			"Review Comments",
			mcp.WithResourceDescription("Stored review comments as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceComments(deps),
	)

	return s
}

func mcpCaptureComments(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		comments, err := deps.Capture.Capture(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("capture failed: %v", err)), nil
		}
		return mcpJSON(comments)
	}
}

func mcpAddComment(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}
		severity, err := req.RequireString("severity")
		if err != nil {
			return mcpError("severity is required"), nil
		}

		c := state.ReviewComment{
			Author:   req.GetString("author", "mcp"),
			Content:  content,
			Severity: state.Severity(strings.ToLower(severity)),
		}
		if fp := req.GetString("file_path", ""); fp != "" {
			c.FilePath = &fp
		}
		if _, ok := req.GetArguments()["line_number"]; ok {
			ln := req.GetInt("line_number", 0)
			if ln < 0 || int64(ln) > math.MaxUint32 {
				return mcpError(fmt.Sprintf("line_number %d is out of range", ln)), nil
			}
			n := uint32(ln)
			c.LineNumber = &n
		}
		if err := prepareComment(&c, time.Now()); err != nil {
			return mcpError(err.Error()), nil
		}
		if err := deps.State.AppendComment(c); err != nil {
			return mcpError(fmt.Sprintf("failed to store comment: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Stored comment %s", c.ID)), nil
	}
}

func mcpListComments(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		comments, err := deps.State.ListComments()
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(comments)
	}
}

func mcpDerivePairs(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pairs, err := rag.DerivePairs(deps.State, deps.Transformer)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(pairs)
	}
}

func mcpSummarizeMetrics(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		samples, err := deps.State.ListMetrics()
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(metrics.Summarize(samples))
	}
}

func mcpGenerateDiagram() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		desc, err := req.RequireString("description")
		if err != nil {
			return mcpError("description is required"), nil
		}
		return mcpText(diagram.Generate(desc)), nil
	}
}

func mcpFetchTemplates() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := req.RequireString("url")
		if err != nil {
			return mcpError("url is required"), nil
		}
		ts, err := templates.Fetch(ctx, url)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(ts)
	}
}

func mcpResourceComments(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		comments, err := deps.State.ListComments()
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}

		b, err := json.Marshal(comments)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal comments: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
