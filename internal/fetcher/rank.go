package fetcher

import (
	"sort"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// Score calcula el stability_score de cada pool in place.
func Score(pools []domain.Pool) {
	for i := range pools {
		p := &pools[i]
		p.StabilityScore = domain.StabilityScore(p.TVLUsd, p.APY, p.Sigma)
	}
}

// Rank ordena por stability_score descendente.
// Es estable: con empate se conserva el orden de llegada post-filtro, así dos
// fetches de la misma respuesta producen el mismo archivo.
func Rank(pools []domain.Pool) []domain.Pool {
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].StabilityScore > pools[j].StabilityScore
	})
	return pools
}
