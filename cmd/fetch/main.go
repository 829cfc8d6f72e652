package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/yieldsite/config"
	"github.com/alejandrodnm/yieldsite/internal/adapters/llama"
	"github.com/alejandrodnm/yieldsite/internal/adapters/notify"
	"github.com/alejandrodnm/yieldsite/internal/adapters/storage"
	"github.com/alejandrodnm/yieldsite/internal/fetcher"
	"github.com/alejandrodnm/yieldsite/internal/logging"
	"github.com/alejandrodnm/yieldsite/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "fetch, filter and rank but do not write the data file or history")
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

	slog.Info("yieldsite fetch starting",
		"config", *configPath,
		"api", cfg.Fetch.APIURL,
		"data_file", cfg.Storage.DataFile,
		"dry_run", *dryRun,
	)

	client := llama.NewClient(cfg.Fetch.APIURL, cfg.Timeout())
	store := storage.NewJSONFile(cfg.Storage.DataFile)

	// interfaz nil explícita: un *SQLiteHistory nil no sirve como "sin histórico"
	var history ports.History
	if cfg.HistoryEnabled() && !*dryRun {
		h, err := storage.NewSQLiteHistory(cfg.Storage.HistoryDSN)
		if err != nil {
			slog.Error("failed to open history", "err", err, "dsn", cfg.Storage.HistoryDSN)
			os.Exit(1)
		}
		defer h.Close()
		history = h
	}

	fetchCfg := fetcher.DefaultConfig()
	fetchCfg.Filter = fetcher.FilterConfig{
		MinTVL: *cfg.Fetch.MinTVLUsd,
		MaxAPY: *cfg.Fetch.MaxAPY,
	}
	fetchCfg.TopN = cfg.Fetch.TopN
	fetchCfg.DryRun = *dryRun

	f := fetcher.New(fetchCfg, client, store, history, notify.NewConsole(cfg.Fetch.TopN))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := f.Run(ctx); err != nil {
		slog.Error("fetch failed", "err", err)
		cancel()
		os.Exit(1)
	}
}
