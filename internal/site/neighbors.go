package site

import (
	"sort"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

const (
	// DefaultNeighbors es el máximo de pools similares enlazados desde cada detalle.
	DefaultNeighbors = 5

	neighborsBefore = 2 // posiciones por debajo en el ranking por APY
	neighborsAfter  = 3 // posiciones por encima
)

// Neighbors calcula, para cada pool, hasta limit pools con APY cercano.
//
// Ordena por APY ascendente (estable) y para el pool en la posición i toma la
// ventana [max(0, i-2), min(N, i+4)), sin recentrarla en los bordes. El propio
// pool se excluye por identidad (posición en pools), no por valor. También se
// saltan los pools con su mismo slug: comparten página y el link apuntaría a sí misma.
// Si dos pools comparten slug, el mapa se queda con los vecinos del último.
func Neighbors(pools []domain.SitePool, limit int) map[string][]domain.SitePool {
	if limit <= 0 {
		limit = DefaultNeighbors
	}

	order := make([]int, len(pools))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pools[order[a]].APY < pools[order[b]].APY
	})

	n := len(order)
	result := make(map[string][]domain.SitePool, n)
	for rank, self := range order {
		lo := max(0, rank-neighborsBefore)
		hi := min(n, rank+neighborsAfter+1)

		list := make([]domain.SitePool, 0, limit)
		for _, j := range order[lo:hi] {
			if j == self || pools[j].Slug == pools[self].Slug {
				continue
			}
			if len(list) == limit {
				break
			}
			list = append(list, pools[j])
		}
		result[pools[self].Slug] = list
	}
	return result
}
