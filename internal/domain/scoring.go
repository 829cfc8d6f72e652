package domain

import (
	"math"
	"strconv"
)

// DefaultVolatility se usa cuando la API no devuelve sigma para un pool.
const DefaultVolatility = 0.5

// StabilityScore calcula el score de estabilidad de un pool.
//
// Fórmula:
//
//	volatility = sigma (o DefaultVolatility si es nil)
//	score      = round( log10(tvl) / (1 + volatility) × apy, 2 )
//
// Devuelve 0 si tvl <= 0 o apy <= 0: sin TVL el log no existe y sin yield
// positivo no hay nada que puntuar.
func StabilityScore(tvl, apy float64, sigma *float64) float64 {
	if tvl <= 0 || apy <= 0 {
		return 0
	}
	volatility := DefaultVolatility
	if sigma != nil {
		volatility = *sigma
	}
	// sigma es una desviación estándar; un valor <= -1 solo puede ser basura de la API
	// y produciría Inf, que no se puede serializar a JSON.
	if 1+volatility <= 0 {
		return 0
	}
	return Round2(math.Log10(tvl) / (1 + volatility) * apy)
}

// Round2 redondea a 2 decimales sobre el valor binario exacto, con empates a par.
// math.Round(x*100)/100 falla en casos como 2.675 (que en binario es 2.67499...).
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return v
}
