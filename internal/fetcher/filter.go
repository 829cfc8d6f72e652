package fetcher

import (
	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// FilterConfig contiene los umbrales de filtrado anti-spam.
type FilterConfig struct {
	// MinTVL descarta pools con tvlUsd por debajo (liquidez irrelevante).
	MinTVL float64
	// MaxAPY descarta pools con apy por encima, en porcentaje (estadísticamente implausible).
	MaxAPY float64
}

// DefaultFilterConfig devuelve los umbrales de producción: $1M de TVL y 1,000% de APY.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinTVL: 1_000_000,
		MaxAPY: 1_000,
	}
}

// FilterResult cuenta los descartes de una pasada del filtro.
// Un pool que falla ambos umbrales suma en DroppedTVL y en DroppedAPY, pero una sola vez en Dropped.
type FilterResult struct {
	DroppedTVL int
	DroppedAPY int
	Dropped    int
}

// Filter aplica los umbrales sobre los valores crudos de cada pool.
type Filter struct {
	cfg FilterConfig
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply devuelve los pools que pasan ambos umbrales, en el orden de llegada.
func (f *Filter) Apply(pools []domain.Pool) ([]domain.Pool, FilterResult) {
	var res FilterResult
	kept := make([]domain.Pool, 0, len(pools))
	for _, p := range pools {
		lowTVL := p.TVLUsd < f.cfg.MinTVL
		highAPY := p.APY > f.cfg.MaxAPY
		if lowTVL {
			res.DroppedTVL++
		}
		if highAPY {
			res.DroppedAPY++
		}
		if lowTVL || highAPY {
			res.Dropped++
			continue
		}
		kept = append(kept, p)
	}
	return kept, res
}
