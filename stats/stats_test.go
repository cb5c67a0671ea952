package stats

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankieycy/order-book-simulator/engine"
)

func level(price, depth int64) engine.LevelDepth {
	return engine.LevelDepth{
		Price: decimal.NewFromInt(price),
		Depth: decimal.NewFromInt(depth),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestInitComputesSeries(t *testing.T) {
	bids := map[int64][]engine.LevelDepth{
		100: {level(-1, 3), level(-2, 5)},
	}
	asks := map[int64][]engine.LevelDepth{
		100: {level(2, 1), level(3, 4)},
	}

	s := NewBookStats(bids, asks, nil)
	require.NoError(t, s.Init())

	require.Equal(t, []int64{100}, s.Times)
	assert.Equal(t, -1.0, s.TopBids[100])
	assert.Equal(t, 2.0, s.TopAsks[100])
	assert.Equal(t, 3.0, s.TopBidSizes[100])
	assert.Equal(t, 1.0, s.TopAskSizes[100])

	// mid = (2 + -1)/2, spread = 2 - -1.
	assert.Equal(t, 0.5, s.MidPrices[100])
	assert.Equal(t, 3.0, s.Spreads[100])
	// micro = (ask*bidSize + bid*askSize)/(bidSize+askSize) = (6-1)/4.
	assert.True(t, almostEqual(s.MicroPrices[100], 1.25))
	// imbalance = (3-1)/4.
	assert.True(t, almostEqual(s.Imbalances[100], 0.5))
}

func TestInitSkipsOneSidedSnapshots(t *testing.T) {
	bids := map[int64][]engine.LevelDepth{
		100: {level(-1, 1)},
		200: {},
	}
	asks := map[int64][]engine.LevelDepth{
		100: {level(1, 1)},
		200: {level(1, 1)},
	}

	s := NewBookStats(bids, asks, nil)
	require.NoError(t, s.Init())

	assert.Equal(t, []int64{100}, s.Times)
	assert.NotContains(t, s.MidPrices, int64(200))
}

func TestInitRejectsMismatchedLogs(t *testing.T) {
	bids := map[int64][]engine.LevelDepth{100: {level(-1, 1)}}

	s := NewBookStats(bids, map[int64][]engine.LevelDepth{}, nil)
	assert.Error(t, s.Init())

	asks := map[int64][]engine.LevelDepth{200: {level(1, 1)}}
	s = NewBookStats(bids, asks, nil)
	assert.Error(t, s.Init())
}

func TestAvgBookDepths(t *testing.T) {
	// Two snapshots with mid 0; depth 2 then 4 at one tick off the mid.
	bids := map[int64][]engine.LevelDepth{
		100: {level(-1, 2)},
		200: {level(-1, 4)},
	}
	asks := map[int64][]engine.LevelDepth{
		100: {level(1, 2)},
		200: {level(1, 4)},
	}

	s := NewBookStats(bids, asks, nil)
	require.NoError(t, s.Init())

	bidProfile, askProfile := s.AvgBookDepths([]float64{-1, 1}, 1)
	assert.True(t, almostEqual(bidProfile[-1], 3.0))
	assert.True(t, almostEqual(askProfile[1], 3.0))
	assert.Zero(t, bidProfile[1])
	assert.Zero(t, askProfile[-1])
}

func TestTradeAggregates(t *testing.T) {
	trades := []engine.Trade{
		{Size: decimal.NewFromInt(2), Price: decimal.NewFromInt(10)},
		{Size: decimal.NewFromInt(3), Price: decimal.NewFromInt(20)},
	}

	s := NewBookStats(map[int64][]engine.LevelDepth{}, map[int64][]engine.LevelDepth{}, trades)
	require.NoError(t, s.Init())

	assert.Equal(t, 2, s.TradeCount())
	assert.Equal(t, 5.0, s.TotalVolume())
	// vwap = (2*10 + 3*20)/5.
	assert.True(t, almostEqual(s.VWAP(), 16.0))
	assert.Zero(t, s.AvgSpread())
}
