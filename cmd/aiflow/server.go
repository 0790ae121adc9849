package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chengmingchun/editor/internal/api"
	"github.com/chengmingchun/editor/internal/capture"
	"github.com/chengmingchun/editor/internal/config"
	"github.com/chengmingchun/editor/internal/documents"
	"github.com/chengmingchun/editor/internal/rag"
	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
	"github.com/chengmingchun/editor/internal/surface"
	"github.com/chengmingchun/editor/internal/templates"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the aiflow daemon (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running aiflow daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP tools over stdin/stdout")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "aiflow.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "aiflow version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)})))
	logger := slog.Default()

	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("aiflow is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("aiflow is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printStep("opening storage in %s", cfg.Storage.DataDir)
	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing storage", "error", err)
		}
	}()

	catalog := templates.NewCatalog(db, logger)
	if err := catalog.Seed(); err != nil {
		return fmt.Errorf("seeding template catalog: %w", err)
	}

	docs, err := documents.Open(cfg.Documents.Dir)
	if err != nil {
		return fmt.Errorf("opening documents directory: %w", err)
	}

	st := state.New()
	bus := surface.NewBus(logger)
	renderer := surface.NewRemoteHost(logger)
	session := surface.NewSession(renderer, logger)
	bridge := &capture.Bridge{
		Session:   session,
		Host:      renderer,
		Bus:       bus,
		Store:     st,
		History:   db,
		Timeout:   cfg.CaptureTimeout(),
		EventName: cfg.Capture.EventName,
		Logger:    logger,
	}
	transformer := rag.New(cfg.MarkerList())

	handler := api.NewAppHandler(api.AppDeps{
		State:       st,
		Documents:   docs,
		Session:     session,
		Renderer:    renderer,
		Bus:         bus,
		Capture:     bridge,
		Importer:    &capture.Importer{Store: st, History: db, Logger: logger},
		Transformer: transformer,
		Catalog:     catalog,
		History:     db,
		Token:       cfg.Server.APIToken,
		Logger:      logger,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("aiflow listening", "addr", addr, "documents", docs.Dir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			State:       st,
			Capture:     bridge,
			Transformer: transformer,
			Version:     version,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			logger.Info("MCP server started (stdio transport)")
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("aiflow is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop aiflow (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to aiflow (PID %d)", pid)
	return nil
}

// daemonStatus is what status collects from a running daemon.
type daemonStatus struct {
	Running     bool
	Comments    int
	SurfaceOpen bool
	SurfaceURL  string
	LastCapture string
}

// probeStatus queries the daemon endpoints concurrently. Failures of the
// secondary probes leave their fields empty.
func probeStatus(ctx context.Context, c *apiClient) (daemonStatus, error) {
	var st daemonStatus

	resp, err := c.get(ctx, "/health")
	if err != nil {
		return st, err
	}
	var health struct {
		Status   string `json:"status"`
		Comments int    `json:"comments"`
	}
	if err := decodeJSON(resp, &health); err != nil {
		return st, err
	}
	st.Running = true
	st.Comments = health.Comments

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	g.Go(func() error {
		resp, err := c.get(gctx, "/surface")
		if err != nil {
			return nil
		}
		var s struct {
			Open bool   `json:"open"`
			URL  string `json:"url"`
		}
		if decodeJSON(resp, &s) == nil {
			st.SurfaceOpen, st.SurfaceURL = s.Open, s.URL
		}
		return nil
	})

	g.Go(func() error {
		resp, err := c.get(gctx, "/comments/captures?limit=1")
		if err != nil {
			return nil
		}
		var runs []struct {
			Status       string `json:"status"`
			CommentCount int    `json:"comment_count"`
			StartedAt    string `json:"started_at"`
		}
		if decodeJSON(resp, &runs) == nil && len(runs) > 0 {
			st.LastCapture = fmt.Sprintf("%s, %d comments at %s", runs[0].Status, runs[0].CommentCount, runs[0].StartedAt)
		}
		return nil
	})

	return st, g.Wait()
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	c, err := newAPIClient()
	if err != nil {
		return err
	}
	c.httpClient.Timeout = 2 * time.Second

	st, err := probeStatus(ctx, c)
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		printStatus("Server", "running on port %d", cfg.Server.Port)
		printStatus("Comments", "%d", st.Comments)
		if st.SurfaceOpen {
			printStatus("Review surface", "open (%s)", st.SurfaceURL)
		} else {
			printStatus("Review surface", "closed")
		}
		if st.LastCapture != "" {
			printStatus("Last capture", "%s", st.LastCapture)
		}
	}

	printStatus("Documents", "%s", cfg.Documents.Dir)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
