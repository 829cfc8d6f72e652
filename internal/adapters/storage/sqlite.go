package storage

// sqlite.go: histórico de ejecuciones del fetcher.
//
// Estrategia:
//   - `fetch_runs`: una fila por fetch exitoso con los contadores del filtrado.
//   - `run_pools`: los top N pools de cada run (rank, score, tvl, apy), para
//     poder comparar rankings entre días sin guardar el dataset completo.
//   - El dataset en sí vive en el archivo JSON; esto es solo diagnóstico.
//   - Prune automático al abrir: runs de más de 30 días.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fetch_runs (
    run_id      TEXT    PRIMARY KEY,
    fetched_at  INTEGER NOT NULL, -- unix ms UTC
    fetched     INTEGER NOT NULL DEFAULT 0,
    dropped_tvl INTEGER NOT NULL DEFAULT 0,
    dropped_apy INTEGER NOT NULL DEFAULT 0,
    dropped     INTEGER NOT NULL DEFAULT 0,
    kept        INTEGER NOT NULL DEFAULT 0,
    best_score  REAL    NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_pools (
    run_id          TEXT    NOT NULL REFERENCES fetch_runs(run_id) ON DELETE CASCADE,
    rank            INTEGER NOT NULL,
    pool            TEXT    NOT NULL,
    chain           TEXT    NOT NULL,
    project         TEXT    NOT NULL,
    symbol          TEXT    NOT NULL,
    tvl_usd         REAL    NOT NULL DEFAULT 0,
    apy             REAL    NOT NULL DEFAULT 0,
    stability_score REAL    NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_runs_at   ON fetch_runs(fetched_at DESC);
CREATE INDEX IF NOT EXISTS idx_rp_pool   ON run_pools(pool);
`

const retentionRuns = 30 * 24 * time.Hour

// ErrNoHistory indica que el archivo del histórico todavía no existe.
var ErrNoHistory = errors.New("history database not found")

// SQLiteHistory implementa ports.History usando SQLite (pure Go, sin CGo).
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia runs antiguos.
func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteHistory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteHistory: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteHistory: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteHistory: apply schema: %w", err)
	}

	h := &SQLiteHistory{db: db}
	h.pruneOld(context.Background())
	return h, nil
}

// OpenSQLiteHistory abre un histórico existente solo para lectura: no crea el
// archivo ni directorios, no aplica el schema y no hace prune.
// Devuelve ErrNoHistory si path no existe.
func OpenSQLiteHistory(path string) (*SQLiteHistory, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage.OpenSQLiteHistory: %q: %w", path, ErrNoHistory)
	} else if err != nil {
		return nil, fmt.Errorf("storage.OpenSQLiteHistory: stat %q: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.OpenSQLiteHistory: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &SQLiteHistory{db: db}, nil
}

// SaveRun persiste el resumen del run y sus top pools en una transacción.
func (h *SQLiteHistory) SaveRun(ctx context.Context, stats domain.FetchStats, top []domain.Pool) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fetch_runs
			(run_id, fetched_at, fetched, dropped_tvl, dropped_apy, dropped, kept, best_score, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.RunID,
		stats.FetchedAt.UTC().UnixMilli(),
		stats.Fetched,
		stats.DroppedTVL,
		stats.DroppedAPY,
		stats.Dropped,
		stats.Kept,
		stats.BestScore,
		stats.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run: %w", err)
	}

	if len(top) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_pools
				(run_id, rank, pool, chain, project, symbol, tvl_usd, apy, stability_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("storage.SaveRun: prepare: %w", err)
		}
		defer stmt.Close()

		for i, p := range top {
			if _, err := stmt.ExecContext(ctx,
				stats.RunID, i+1, p.Pool, p.Chain, p.Project, p.Symbol,
				p.TVLUsd, p.APY, p.StabilityScore,
			); err != nil {
				return fmt.Errorf("storage.SaveRun: insert pool %s: %w", p.Pool, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// LastRun devuelve el run más reciente.
func (h *SQLiteHistory) LastRun(ctx context.Context) (domain.FetchStats, bool, error) {
	var (
		s          domain.FetchStats
		fetchedAt  int64
		durationMs int64
	)
	err := h.db.QueryRowContext(ctx, `
		SELECT run_id, fetched_at, fetched, dropped_tvl, dropped_apy, dropped, kept, best_score, duration_ms
		FROM fetch_runs
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1`,
	).Scan(&s.RunID, &fetchedAt, &s.Fetched, &s.DroppedTVL, &s.DroppedAPY, &s.Dropped, &s.Kept, &s.BestScore, &durationMs)
	if err == sql.ErrNoRows {
		return domain.FetchStats{}, false, nil
	}
	if err != nil {
		return domain.FetchStats{}, false, fmt.Errorf("storage.LastRun: %w", err)
	}

	s.FetchedAt = time.UnixMilli(fetchedAt).UTC()
	s.Duration = time.Duration(durationMs) * time.Millisecond
	return s, true, nil
}

// RunPools devuelve los top pools guardados para un run, ordenados por rank.
func (h *SQLiteHistory) RunPools(ctx context.Context, runID string) ([]domain.Pool, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT pool, chain, project, symbol, tvl_usd, apy, stability_score
		FROM run_pools
		WHERE run_id = ?
		ORDER BY rank ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.RunPools: query: %w", err)
	}
	defer rows.Close()

	var pools []domain.Pool
	for rows.Next() {
		var p domain.Pool
		if err := rows.Scan(&p.Pool, &p.Chain, &p.Project, &p.Symbol, &p.TVLUsd, &p.APY, &p.StabilityScore); err != nil {
			return nil, fmt.Errorf("storage.RunPools: scan row: %w", err)
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

// pruneOld elimina runs antiguos para mantener la DB ligera.
func (h *SQLiteHistory) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns).UnixMilli()
	h.db.ExecContext(ctx, `DELETE FROM fetch_runs WHERE fetched_at < ?`, cutoff)
}
