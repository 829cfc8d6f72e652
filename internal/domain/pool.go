package domain

import "encoding/json"

// Pool representa una posición de liquidez con yield tal como la publica DefiLlama.
// Los campos opcionales de la API son punteros: nil significa ausente o null.
type Pool struct {
	Chain   string  `json:"chain"`
	Project string  `json:"project"`
	Symbol  string  `json:"symbol"`
	Pool    string  `json:"pool"` // id opaco, único por registro
	TVLUsd  float64 `json:"tvlUsd"`
	APY     float64 `json:"apy"` // en porcentaje; puede ser negativo o enorme

	APYBase    *float64 `json:"apyBase"`
	APYReward  *float64 `json:"apyReward"`
	APYPct1D   *float64 `json:"apyPct1D,omitempty"`
	APYPct7D   *float64 `json:"apyPct7D,omitempty"`
	APYPct30D  *float64 `json:"apyPct30D,omitempty"`
	APYMean30d *float64 `json:"apyMean30d,omitempty"`
	Mu         *float64 `json:"mu,omitempty"`
	Sigma      *float64 `json:"sigma"` // proxy de volatilidad
	Count      *int     `json:"count,omitempty"`

	Stablecoin       bool     `json:"stablecoin"`
	Outlier          bool     `json:"outlier"`
	ILRisk           string   `json:"ilRisk,omitempty"`
	Exposure         string   `json:"exposure,omitempty"`
	PoolMeta         *string  `json:"poolMeta"`
	RewardTokens     []string `json:"rewardTokens"`
	UnderlyingTokens []string `json:"underlyingTokens"`

	// StabilityScore lo calcula el fetcher; no viene de la API.
	StabilityScore float64 `json:"stability_score"`

	// Extra guarda las claves de la API que Pool no modela (volumeUsd1d, il7d,
	// predictions, ...) para reescribirlas tal cual en el dataset.
	Extra map[string]json.RawMessage `json:"-"`
}

// Volatility devuelve sigma si la API lo informa, o DefaultVolatility si no.
func (p Pool) Volatility() float64 {
	if p.Sigma != nil {
		return *p.Sigma
	}
	return DefaultVolatility
}

// ShortID devuelve los primeros 8 caracteres del id del pool.
func (p Pool) ShortID() string {
	return ShortPoolID(p.Pool)
}

// ShortPoolID recorta el id a 8 caracteres. Ids más cortos se devuelven enteros.
func ShortPoolID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

const shortIDLen = 8

// SitePool es la vista de un Pool durante el build del sitio.
// Slug y ReferralLink se derivan en cada build y nunca se persisten.
type SitePool struct {
	Pool
	Slug         string
	ReferralLink string
}
