package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const defaultTopN = 10

// Console implementa ports.Notifier.
type Console struct {
	out  io.Writer
	topN int
}

// NewConsole crea un notificador que escribe a stdout.
// topN es la cantidad de pools que se muestran en la tabla (0 = default).
func NewConsole(topN int) *Console {
	return NewConsoleWriter(os.Stdout, topN)
}

// NewConsoleWriter crea un notificador sobre un writer arbitrario (tests).
func NewConsoleWriter(w io.Writer, topN int) *Console {
	if topN <= 0 {
		topN = defaultTopN
	}
	return &Console{out: w, topN: topN}
}

// NotifyFetch imprime los contadores del filtrado y la tabla de los mejores pools.
func (c *Console) NotifyFetch(_ context.Context, stats domain.FetchStats, ranked []domain.Pool) error {
	now := stats.FetchedAt
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Fprintf(c.out, "\n[%s] %d pools fetched → %d kept\n",
		now.Format("15:04:05"), stats.Fetched, stats.Kept)
	fmt.Fprintf(c.out, "  - Skipped (TVL below minimum): %d\n", stats.DroppedTVL)
	fmt.Fprintf(c.out, "  - Skipped (APY above maximum): %d\n", stats.DroppedAPY)
	fmt.Fprintf(c.out, "  - Resulting pools: %d\n", stats.Kept)

	if len(ranked) == 0 {
		fmt.Fprintln(c.out, "  no pools passed the filters")
		return nil
	}

	c.printTable(topPools(ranked, c.topN))
	return nil
}

// PrintBuild imprime el resumen del build del sitio.
func (c *Console) PrintBuild(stats domain.BuildStats, outputDir string) {
	fmt.Fprintf(c.out, "\n[%s] site built in %s/\n", stats.BuiltAt.Format("15:04:05"), outputDir)
	fmt.Fprintf(c.out, "  - Pools: %d\n", stats.Pools)
	fmt.Fprintf(c.out, "  - Detail pages: %d\n", stats.DetailPages)
	if stats.Collisions > 0 {
		fmt.Fprintf(c.out, "  ⚠ Slug collisions: %d (later pages overwrote earlier ones)\n", stats.Collisions)
	}
}

// printTable imprime el ranking por stability score.
func (c *Console) printTable(pools []domain.Pool) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Chain", "Project", "Symbol", "TVL", "APY", "Sigma", "Score")

	for i, p := range pools {
		sigma := "-"
		if p.Sigma != nil {
			sigma = fmt.Sprintf("%.3f", *p.Sigma)
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			p.Chain,
			truncate(p.Project, 20),
			truncate(p.Symbol, 18),
			domain.CompactUSD(p.TVLUsd),
			fmt.Sprintf("%.2f%%", p.APY),
			sigma,
			fmt.Sprintf("%.2f", p.StabilityScore),
		)
	}

	table.Render()
	fmt.Fprintln(c.out, "  Score = log10(TVL) / (1 + sigma) × APY  (sigma ausente → 0.5)")
}

func topPools(pools []domain.Pool, n int) []domain.Pool {
	if len(pools) > n {
		return pools[:n]
	}
	return pools
}

// truncate corta por runas para no partir símbolos multibyte.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
