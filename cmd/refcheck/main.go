package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/use-agent/refcheck/browser"
	"github.com/use-agent/refcheck/classify"
	"github.com/use-agent/refcheck/config"
	"github.com/use-agent/refcheck/loader"
	"github.com/use-agent/refcheck/report"
	"github.com/use-agent/refcheck/runner"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)

	fmt.Println("=== REFERRAL CODE CHECKER ===")

	// ── 3. Resolve input/output paths against the executable ────────
	cfg.ResolvePaths(executableDir())

	// ── 4. Load input records (fatal on file-level failure) ─────────
	records, err := loader.Load(cfg.Paths.InputCSV)
	if err != nil {
		slog.Error("failed to load referral data", "path", cfg.Paths.InputCSV, "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		slog.Error("no usable referral links in input file", "path", cfg.Paths.InputCSV)
		os.Exit(1)
	}

	// ── 5. Launch browser session (fatal on failure) ────────────────
	session, err := browser.NewSession(cfg.Browser)
	if err != nil {
		slog.Error("failed to start browser session", "error", err)
		fmt.Fprintln(os.Stderr, "Make sure Chrome or Chromium is installed,")
		fmt.Fprintln(os.Stderr, "or point REFCHECK_BROWSER_BIN at the browser binary.")
		os.Exit(1)
	}
	defer session.Close()

	// ── 6. Run the checks, cancellable via SIGINT/SIGTERM ───────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Found %d referral codes to check...\n", len(records))
	fmt.Print("Starting analysis...\n\n")

	classifier := classify.New(cfg.Checker.DollarAmount)
	run := runner.New(session, classifier, cfg.Checker, os.Stdout)

	results, err := run.Run(ctx, records)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("run interrupted, shutting down")
			return // session.Close() runs via defer
		}
		slog.Error("run aborted", "error", err)
		return
	}

	// ── 7. Report ────────────────────────────────────────────────────
	report.PrintSummary(os.Stdout, results)
	if err := report.Save(cfg.Paths.OutputReport, results); err != nil {
		slog.Error("failed to save report", "path", cfg.Paths.OutputReport, "error", err)
		return
	}
	fmt.Printf("\n💾 Results saved to: %s\n", cfg.Paths.OutputReport)
}

// executableDir is the anchor for the fixed relative data paths. Falls
// back to the working directory when the executable cannot be located.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
