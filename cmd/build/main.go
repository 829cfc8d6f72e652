package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/yieldsite/config"
	"github.com/alejandrodnm/yieldsite/internal/adapters/notify"
	"github.com/alejandrodnm/yieldsite/internal/adapters/storage"
	"github.com/alejandrodnm/yieldsite/internal/logging"
	"github.com/alejandrodnm/yieldsite/internal/ports"
	"github.com/alejandrodnm/yieldsite/internal/site"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	logging.Setup(os.Stdout, cfg.Log)

	slog.Info("yieldsite build starting",
		"config", *configPath,
		"data_file", cfg.Storage.DataFile,
		"output", cfg.Build.OutputDir,
		"base_url", cfg.Build.BaseURL,
	)

	renderer, err := site.NewRenderer(cfg.Build.TemplateDir)
	if err != nil {
		slog.Error("failed to load templates", "err", err, "dir", cfg.Build.TemplateDir)
		os.Exit(1)
	}

	// el histórico solo alimenta el footer: se abre en lectura y sin crear nada
	var history ports.History
	if cfg.HistoryEnabled() {
		h, err := storage.OpenSQLiteHistory(cfg.Storage.HistoryDSN)
		switch {
		case errors.Is(err, storage.ErrNoHistory):
			slog.Info("no fetch history yet", "dsn", cfg.Storage.HistoryDSN)
		case err != nil:
			slog.Warn("history unavailable", "err", err, "dsn", cfg.Storage.HistoryDSN)
		default:
			defer h.Close()
			history = h
		}
	}

	siteCfg := site.DefaultConfig()
	siteCfg.OutputDir = cfg.Build.OutputDir
	siteCfg.BaseURL = cfg.Build.BaseURL
	siteCfg.RecentStart = cfg.Build.RecentStart
	siteCfg.RecentEnd = cfg.Build.RecentEnd
	siteCfg.Neighbors = cfg.Build.Neighbors

	b := site.NewBuilder(
		siteCfg,
		storage.NewJSONFile(cfg.Storage.DataFile),
		storage.NewReferralFile(cfg.Storage.ReferralFile),
		history,
		renderer,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := b.Build(ctx)
	if errors.Is(err, storage.ErrNoData) {
		slog.Error("no data file, run the fetcher first", "data_file", cfg.Storage.DataFile)
		cancel()
		os.Exit(1)
	}
	if err != nil {
		slog.Error("build failed", "err", err)
		cancel()
		os.Exit(1)
	}

	notify.NewConsole(cfg.Fetch.TopN).PrintBuild(stats, cfg.Build.OutputDir)
}
