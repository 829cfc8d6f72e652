package ports

import (
	"context"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// Notifier presenta el resultado de un fetch al usuario.
type Notifier interface {
	// NotifyFetch muestra los contadores y el ranking de pools.
	// En la implementación de consola, imprime una tabla formateada.
	NotifyFetch(ctx context.Context, stats domain.FetchStats, ranked []domain.Pool) error
}
