package domain

import "fmt"

// CompactUSD formatea montos como $1.2B / $350.0M / $12.5K.
// sorting.js entiende los sufijos al ordenar la columna TVL.
func CompactUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
