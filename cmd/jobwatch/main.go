package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/apave/jobwatch/internal/config"
	"github.com/apave/jobwatch/internal/email"
	"github.com/apave/jobwatch/internal/notion"
	"github.com/apave/jobwatch/internal/tracker"
)

func main() {
	days := flag.Int("days", 0, "lookback window in days (overrides IMAP_SINCE_DAYS)")
	schema := flag.Bool("schema", false, "dump the record store schema and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID, logger)

	if *schema {
		if err := store.DumpSchema(ctx, os.Stdout); err != nil {
			logger.Error("failed to dump schema", "error", err)
			os.Exit(1)
		}
		return
	}

	server := cfg.IMAPHost
	if server == "" {
		server, err = email.ResolveIMAPServer(cfg.IMAPUser)
		if err != nil {
			logger.Error("failed to resolve IMAP server", "error", err)
			os.Exit(1)
		}
	}

	intake := email.NewClient(email.ClientConfig{
		User:        cfg.IMAPUser,
		Password:    cfg.IMAPPass,
		Server:      server,
		Folder:      cfg.IMAPFolder,
		DialTimeout: cfg.IMAPDialTimeout,
	}, logger)

	if err := intake.Connect(ctx); err != nil {
		logger.Error("failed to connect to mail intake", "error", err)
		os.Exit(1)
	}
	defer intake.Close()

	filter := tracker.NewFilter(tracker.FilterConfig{
		ExtraSenderDenyList: cfg.ExtraSenderDenyList,
		ExtraNoisePhrases:   cfg.ExtraNoisePhrases,
	})
	pipeline := tracker.NewPipeline(intake, filter, store, logger)

	daysBack := cfg.IMAPSinceDays
	if *days > 0 {
		daysBack = *days
	}

	logger.Info("processing window", "days", daysBack, "folder", cfg.IMAPFolder)
	results, err := pipeline.ProcessWindow(ctx, daysBack)
	if err != nil {
		logger.Error("run aborted", "error", err)
		os.Exit(1)
	}

	counts := make(map[tracker.Outcome]int)
	for _, result := range results {
		counts[result.Outcome]++
	}
	logger.Info("run complete",
		"messages", len(results),
		"created", counts[tracker.OutcomeCreated]+counts[tracker.OutcomeCreatedFallback],
		"updated", counts[tracker.OutcomeUpdated]+counts[tracker.OutcomeUpdatedFallback],
		"skipped", counts[tracker.OutcomeSkippedNotRelevant]+counts[tracker.OutcomeSkippedNoCompany],
		"failed", counts[tracker.OutcomeFailed])
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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
