package ports

import (
	"context"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// PoolStore es el archivo durable que conecta el fetcher con el build del sitio.
type PoolStore interface {
	// SavePools sobreescribe el dataset con la lista ya filtrada y ordenada.
	SavePools(ctx context.Context, pools []domain.Pool) error

	// LoadPools devuelve la lista tal como se guardó, en el mismo orden.
	LoadPools(ctx context.Context) ([]domain.Pool, error)
}

// ReferralSource carga el mapping de links de referido.
type ReferralSource interface {
	LoadReferrals(ctx context.Context) (domain.Referrals, error)
}
