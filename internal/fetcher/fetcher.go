package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	"github.com/alejandrodnm/yieldsite/internal/ports"
	"github.com/google/uuid"
)

// Config contiene la configuración del fetcher.
type Config struct {
	Filter FilterConfig
	// TopN es la cantidad de pools que se muestran y se guardan en el histórico.
	TopN int
	// DryRun hace fetch → filter → score → rank pero no escribe nada a disco.
	DryRun bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		Filter: DefaultFilterConfig(),
		TopN:   10,
	}
}

// Fetcher es el orquestador del stage de ingesta: una ejecución, sin loop.
type Fetcher struct {
	cfg      Config
	pools    ports.PoolProvider
	store    ports.PoolStore
	history  ports.History
	notifier ports.Notifier
	filter   *Filter
	now      func() time.Time
	newID    func() string
}

// New crea un Fetcher con todas las dependencias inyectadas.
// history y notifier pueden ser nil.
func New(
	cfg Config,
	pools ports.PoolProvider,
	store ports.PoolStore,
	history ports.History,
	notifier ports.Notifier,
) *Fetcher {
	return &Fetcher{
		cfg:      cfg,
		pools:    pools,
		store:    store,
		history:  history,
		notifier: notifier,
		filter:   NewFilter(cfg.Filter),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// WithClock reemplaza el reloj (tests).
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// Run ejecuta fetch → filter → score → rank → save.
// Si el fetch falla, devuelve el error sin tocar el dataset existente.
func (f *Fetcher) Run(ctx context.Context) (domain.FetchStats, error) {
	start := f.now()

	ranked, stats, err := f.cycle(ctx)
	if err != nil {
		return domain.FetchStats{}, err
	}
	stats.RunID = f.newID()
	stats.FetchedAt = start
	stats.Duration = f.now().Sub(start)

	if !f.cfg.DryRun {
		if err := f.store.SavePools(ctx, ranked); err != nil {
			return stats, fmt.Errorf("fetcher.Run: save pools: %w", err)
		}
		slog.Info("saved processed data", "pools", len(ranked))

		if f.history != nil {
			if err := f.history.SaveRun(ctx, stats, topN(ranked, f.cfg.TopN)); err != nil {
				slog.Warn("history error", "err", err)
			}
		}
	}

	if f.notifier != nil {
		if err := f.notifier.NotifyFetch(ctx, stats, ranked); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Info("fetch run complete",
		"run_id", stats.RunID,
		"kept", stats.Kept,
		"dry_run", f.cfg.DryRun,
		"duration", stats.Duration.Round(time.Millisecond),
	)
	return stats, nil
}

// cycle hace fetch → filter → score → rank y devuelve los pools ordenados.
func (f *Fetcher) cycle(ctx context.Context) ([]domain.Pool, domain.FetchStats, error) {
	raw, err := f.pools.FetchPools(ctx)
	if err != nil {
		return nil, domain.FetchStats{}, fmt.Errorf("fetcher.cycle: fetch pools: %w", err)
	}
	slog.Info("total pools found", "count", len(raw))

	kept, res := f.filter.Apply(raw)
	Score(kept)
	ranked := Rank(kept)

	stats := domain.FetchStats{
		Fetched:    len(raw),
		DroppedTVL: res.DroppedTVL,
		DroppedAPY: res.DroppedAPY,
		Dropped:    res.Dropped,
		Kept:       len(ranked),
	}
	if len(ranked) > 0 {
		stats.BestScore = ranked[0].StabilityScore
	}

	slog.Info("filtering complete",
		"skipped_tvl", stats.DroppedTVL,
		"skipped_apy", stats.DroppedAPY,
		"resulting", stats.Kept,
	)
	return ranked, stats, nil
}

func topN(pools []domain.Pool, n int) []domain.Pool {
	if n > 0 && len(pools) > n {
		return pools[:n]
	}
	return pools
}
