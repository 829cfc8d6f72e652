package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alejandrodnm/yieldsite/internal/adapters/notify"
	"github.com/alejandrodnm/yieldsite/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePool(project, symbol string, tvl, apy, score float64) domain.Pool {
	return domain.Pool{
		Chain:          "Ethereum",
		Project:        project,
		Symbol:         symbol,
		Pool:           project + "-0001",
		TVLUsd:         tvl,
		APY:            apy,
		StabilityScore: score,
	}
}

func makeStats(fetched, kept int) domain.FetchStats {
	return domain.FetchStats{
		RunID:      "run-test",
		FetchedAt:  time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
		Fetched:    fetched,
		DroppedTVL: 4,
		DroppedAPY: 1,
		Dropped:    fetched - kept,
		Kept:       kept,
	}
}

func TestConsole_NotifyFetch_WithPools(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, 5)

	pools := []domain.Pool{
		makePool("lido", "STETH", 23_900_000_000, 2.9, 28.4),
		makePool("aave-v3", "USDC", 350_000_000, 4.25, 23.17),
	}

	err := n.NotifyFetch(context.Background(), makeStats(7, 2), pools)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "7 pools fetched → 2 kept")
	assert.Contains(t, out, "Skipped (TVL below minimum): 4")
	assert.Contains(t, out, "Skipped (APY above maximum): 1")
	assert.Contains(t, out, "lido")
	assert.Contains(t, out, "$23.9B")
	assert.Contains(t, out, "$350.0M")
	assert.Contains(t, out, "28.40")
	assert.Contains(t, out, "4.25%")
}

func TestConsole_NotifyFetch_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, 5)

	err := n.NotifyFetch(context.Background(), makeStats(3, 0), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no pools passed the filters")
}

func TestConsole_NotifyFetch_TopNLimitsRows(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, 2)

	pools := []domain.Pool{
		makePool("first", "A", 2e6, 10, 30),
		makePool("second", "B", 2e6, 9, 20),
		makePool("third", "C", 2e6, 8, 10),
	}
	require.NoError(t, n.NotifyFetch(context.Background(), makeStats(3, 3), pools))

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "third")
}

func TestConsole_LongSymbolTruncated(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, 5)

	long := strings.Repeat("X", 40)
	require.NoError(t, n.NotifyFetch(context.Background(), makeStats(1, 1),
		[]domain.Pool{makePool("curve-dex", long, 2e6, 5, 12)}))

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), long)
}

func TestConsole_PrintBuild(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, 0)

	n.PrintBuild(domain.BuildStats{
		BuiltAt:     time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Pools:       12,
		DetailPages: 11,
		Collisions:  1,
	}, "output")

	out := buf.String()
	assert.Contains(t, out, "site built in output/")
	assert.Contains(t, out, "Detail pages: 11")
	assert.Contains(t, out, "Slug collisions: 1")
}

func TestConsole_MultibyteSymbolTruncatedByRunes(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, 5)

	symbol := strings.Repeat("é", 25)
	require.NoError(t, n.NotifyFetch(context.Background(), makeStats(1, 1),
		[]domain.Pool{makePool("curve-dex", symbol, 2e6, 5, 12)}))

	out := buf.String()
	assert.True(t, utf8.ValidString(out), "table must stay valid UTF-8")
	assert.Contains(t, out, strings.Repeat("é", 15)+"...")
	assert.NotContains(t, out, symbol)
}
