package fetcher

import (
	"testing"

	"github.com/alejandrodnm/yieldsite/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool(id string, tvl, apy float64) domain.Pool {
	return domain.Pool{Chain: "Ethereum", Project: "proj", Symbol: "SYM", Pool: id, TVLUsd: tvl, APY: apy}
}

func TestFilter_DropsLowTVL(t *testing.T) {
	sigma := 0.1
	p := pool("low-tvl", 500_000, 12)
	p.Sigma = &sigma

	kept, res := NewFilter(DefaultFilterConfig()).Apply([]domain.Pool{p})

	assert.Empty(t, kept)
	assert.Equal(t, 1, res.DroppedTVL)
	assert.Equal(t, 0, res.DroppedAPY)
	assert.Equal(t, 1, res.Dropped)
}

func TestFilter_DropsHighAPY(t *testing.T) {
	kept, res := NewFilter(DefaultFilterConfig()).Apply([]domain.Pool{pool("spam", 50_000_000, 5000)})

	assert.Empty(t, kept)
	assert.Equal(t, 0, res.DroppedTVL)
	assert.Equal(t, 1, res.DroppedAPY)
	assert.Equal(t, 1, res.Dropped)
}

func TestFilter_BothReasonsCountedIndependently(t *testing.T) {
	kept, res := NewFilter(DefaultFilterConfig()).Apply([]domain.Pool{pool("both", 10, 99_999)})

	assert.Empty(t, kept)
	assert.Equal(t, 1, res.DroppedTVL)
	assert.Equal(t, 1, res.DroppedAPY)
	assert.Equal(t, 1, res.Dropped, "a pool failing both checks is one rejected pool")
}

func TestFilter_ThresholdsAreInclusiveForKeep(t *testing.T) {
	in := []domain.Pool{
		pool("at-min-tvl", 1_000_000, 5),
		pool("at-max-apy", 2_000_000, 1000),
		pool("just-below", 999_999.99, 5),
		pool("just-above", 2_000_000, 1000.01),
	}
	kept, res := NewFilter(DefaultFilterConfig()).Apply(in)

	require.Len(t, kept, 2)
	assert.Equal(t, "at-min-tvl", kept[0].Pool)
	assert.Equal(t, "at-max-apy", kept[1].Pool)
	assert.Equal(t, 1, res.DroppedTVL)
	assert.Equal(t, 1, res.DroppedAPY)
}

func TestFilter_KeepsNegativeAndZeroAPY(t *testing.T) {
	kept, _ := NewFilter(DefaultFilterConfig()).Apply([]domain.Pool{
		pool("neg", 3_000_000, -2),
		pool("zero", 3_000_000, 0),
	})
	assert.Len(t, kept, 2)
}

func TestFilter_PreservesArrivalOrder(t *testing.T) {
	in := []domain.Pool{
		pool("a", 2e6, 1), pool("drop", 1, 1), pool("b", 3e6, 2), pool("c", 4e6, 3),
	}
	kept, _ := NewFilter(DefaultFilterConfig()).Apply(in)

	ids := make([]string, len(kept))
	for i, p := range kept {
		ids[i] = p.Pool
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestFilter_CustomThresholds(t *testing.T) {
	f := NewFilter(FilterConfig{MinTVL: 10, MaxAPY: 50})
	kept, res := f.Apply([]domain.Pool{pool("ok", 11, 49), pool("apy", 11, 51), pool("tvl", 9, 1)})

	require.Len(t, kept, 1)
	assert.Equal(t, "ok", kept[0].Pool)
	assert.Equal(t, 1, res.DroppedTVL)
	assert.Equal(t, 1, res.DroppedAPY)
}

func TestScoreAndRank(t *testing.T) {
	sigma := 0.2
	pools := []domain.Pool{
		pool("zero-apy", 5e6, 0),
		{Pool: "scenario", TVLUsd: 2_000_000, APY: 10, Sigma: &sigma},
		pool("default-sigma", 1_000_000, 10),
		pool("tie-1", 1_000_000, 0),
	}
	Score(pools)

	assert.Equal(t, 0.0, pools[0].StabilityScore)
	assert.Equal(t, 52.51, pools[1].StabilityScore)
	assert.Equal(t, 40.0, pools[2].StabilityScore)

	ranked := Rank(pools)
	ids := make([]string, len(ranked))
	for i, p := range ranked {
		ids[i] = p.Pool
	}
	// empates (score 0) conservan el orden de llegada
	assert.Equal(t, []string{"scenario", "default-sigma", "zero-apy", "tie-1"}, ids)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].StabilityScore, ranked[i].StabilityScore)
	}
}

func TestFilter_ZeroThresholds(t *testing.T) {
	kept, res := NewFilter(FilterConfig{MinTVL: 0, MaxAPY: 0}).Apply([]domain.Pool{
		pool("zero", 0, 0), pool("positive-apy", 5e6, 0.5), pool("negative-tvl", -1, -3),
	})

	require.Len(t, kept, 1)
	assert.Equal(t, "zero", kept[0].Pool)
	assert.Equal(t, 1, res.DroppedTVL)
	assert.Equal(t, 1, res.DroppedAPY)
}
