package domain

import "time"

// FetchStats resume una ejecución del fetcher. Es diagnóstico, no parte del dataset.
type FetchStats struct {
	RunID      string
	FetchedAt  time.Time
	Fetched    int     // pools devueltos por la API
	DroppedTVL int     // tvlUsd < mínimo
	DroppedAPY int     // apy > máximo
	Dropped    int     // pools descartados (cada uno cuenta una vez)
	Kept       int     // pools persistidos
	BestScore  float64 // stability_score del primer pool del ranking
	Duration   time.Duration
}

// BuildStats resume una ejecución del build del sitio.
type BuildStats struct {
	BuiltAt     time.Time
	Pools       int
	DetailPages int // archivos distintos escritos en pools/
	Collisions  int // slugs repetidos: la última página pisa a la anterior
}
