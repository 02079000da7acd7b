package main

import (
	"context"
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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teamdocs/procap/internal/api"
	"github.com/teamdocs/procap/internal/archive"
	"github.com/teamdocs/procap/internal/config"
	"github.com/teamdocs/procap/internal/extract"
	"github.com/teamdocs/procap/internal/genai"
	"github.com/teamdocs/procap/internal/interview"
	"github.com/teamdocs/procap/internal/render"
	"github.com/teamdocs/procap/internal/session"
	"github.com/teamdocs/procap/internal/webhook"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the procap server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running procap server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show procap system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "procap.pid")
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
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "procap version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	})))

	// Refuse to double-start: probe the health endpoint first.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("procap is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("procap is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arch, err := archive.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening submission archive: %w", err)
	}
	defer func() {
		if err := arch.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing archive: %v\n", err)
		}
	}()

	store := session.NewStore(time.Duration(cfg.Session.TimeoutMinutes) * time.Minute)
	sweepInterval, err := time.ParseDuration(cfg.Session.SweepInterval)
	if err != nil {
		slog.Warn("invalid sweep interval, using default 10m", "value", cfg.Session.SweepInterval, "error", err)
		sweepInterval = 10 * time.Minute
	}

	genaiClient := genai.NewWithBaseURL(cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.BaseURL)
	controller := interview.NewController(genaiClient, interview.Limits{
		MaxMessages:    cfg.Session.MaxMessages,
		WarningAt:      cfg.Session.WarningAt,
		FinalWarningAt: cfg.Session.FinalWarningAt,
	})
	extractor := extract.NewExtractor(genaiClient)

	deps := api.Deps{
		Sessions:  store,
		Interview: controller,
		Extractor: extractor,
		Renderer:  render.New(cfg.Renderer.BaseURL),
		Archive:   arch,
		Limits:    cfg.Session,
		AuthUser:  cfg.Server.BasicAuthUser,
		AuthPass:  cfg.Server.BasicAuthPass,
	}
	if cfg.Webhook.URL != "" {
		deps.Webhook = webhook.New(cfg.Webhook.URL)
	} else {
		slog.Warn("no webhook URL configured, submissions will be rejected")
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		store.Run(gctx, sweepInterval)
		return nil
	})

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "procap listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

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
		printError("procap is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop procap (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to procap (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port))
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("Model", "%s", cfg.GenAI.Model)
	printStatus("Renderer", "%s", cfg.Renderer.BaseURL)
	if cfg.Webhook.URL != "" {
		printStatus("Webhook", "configured")
	} else {
		printStatus("Webhook", "not configured")
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
