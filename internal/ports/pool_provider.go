package ports

import (
	"context"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// PoolProvider obtiene los pools de yield desde la API pública.
type PoolProvider interface {
	// FetchPools hace una única request y devuelve todos los pools publicados.
	// Cualquier fallo de red, status HTTP o envelope inválido es un error.
	FetchPools(ctx context.Context) ([]domain.Pool, error)
}
