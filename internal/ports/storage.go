package ports

import (
	"context"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// History registra las ejecuciones del fetcher. Es opcional: sin history el
// pipeline funciona igual.
type History interface {
	// SaveRun persiste el resumen de un fetch y los pools top de esa ejecución.
	SaveRun(ctx context.Context, stats domain.FetchStats, top []domain.Pool) error

	// LastRun devuelve el fetch más reciente. ok=false si no hay ninguno.
	LastRun(ctx context.Context) (stats domain.FetchStats, ok bool, err error)

	// RunPools devuelve los pools top guardados para un run, ordenados por rank.
	RunPools(ctx context.Context, runID string) ([]domain.Pool, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
