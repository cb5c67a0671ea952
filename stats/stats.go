// Package stats derives market indicators from a simulation's depth
// snapshots and trade log: top-of-book series, mid and micro prices, order
// imbalance, spreads, and average depth profiles around the mid.
package stats

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/frankieycy/order-book-simulator/engine"
)

// BookStats holds the per-snapshot series computed by Init. All series are
// keyed by snapshot step and use float64: these are post-run analytics, not
// ledger quantities.
type BookStats struct {
	bidDepthsLog map[int64][]engine.LevelDepth
	askDepthsLog map[int64][]engine.LevelDepth
	trades       []engine.Trade

	// Times lists the snapshot steps with a two-sided market, ascending.
	Times []int64

	TopBids     map[int64]float64
	TopAsks     map[int64]float64
	TopBidSizes map[int64]float64
	TopAskSizes map[int64]float64

	MidPrices   map[int64]float64
	MicroPrices map[int64]float64
	Imbalances  map[int64]float64
	Spreads     map[int64]float64
}

// NewBookStats wraps a run's snapshot logs and trades for analysis. Call
// Init before reading any series.
func NewBookStats(bidDepthsLog, askDepthsLog map[int64][]engine.LevelDepth, trades []engine.Trade) *BookStats {
	return &BookStats{
		bidDepthsLog: bidDepthsLog,
		askDepthsLog: askDepthsLog,
		trades:       trades,
		TopBids:      make(map[int64]float64),
		TopAsks:      make(map[int64]float64),
		TopBidSizes:  make(map[int64]float64),
		TopAskSizes:  make(map[int64]float64),
		MidPrices:    make(map[int64]float64),
		MicroPrices:  make(map[int64]float64),
		Imbalances:   make(map[int64]float64),
		Spreads:      make(map[int64]float64),
	}
}

// Init computes every series from the snapshot logs. The two logs must cover
// the same steps; snapshots where either side is empty are skipped since no
// two-sided quote exists there.
func (s *BookStats) Init() error {
	if len(s.bidDepthsLog) != len(s.askDepthsLog) {
		return errors.Errorf("snapshot logs differ in length: %d bid vs %d ask",
			len(s.bidDepthsLog), len(s.askDepthsLog))
	}

	for t, bidSnap := range s.bidDepthsLog {
		askSnap, ok := s.askDepthsLog[t]
		if !ok {
			return errors.Errorf("step %d present in bid log but not ask log", t)
		}
		if len(bidSnap) == 0 || len(askSnap) == 0 {
			continue
		}

		bid := bidSnap[0].Price.InexactFloat64()
		ask := askSnap[0].Price.InexactFloat64()
		bidSize := bidSnap[0].Depth.InexactFloat64()
		askSize := askSnap[0].Depth.InexactFloat64()

		s.Times = append(s.Times, t)
		s.TopBids[t] = bid
		s.TopAsks[t] = ask
		s.TopBidSizes[t] = bidSize
		s.TopAskSizes[t] = askSize

		s.MidPrices[t] = (ask + bid) / 2
		s.Spreads[t] = ask - bid
		if total := bidSize + askSize; total > 0 {
			s.MicroPrices[t] = (ask*bidSize + bid*askSize) / total
			s.Imbalances[t] = (bidSize - askSize) / total
		}
	}

	sort.Slice(s.Times, func(i, j int) bool { return s.Times[i] < s.Times[j] })
	return nil
}

// AvgBookDepths averages the depth profile relative to the mid price over
// the run. For each offset in band, depth at levels within half a tick of
// mid+offset is accumulated at every aggInterval-th snapshot and averaged.
// Bid and ask profiles are returned separately, keyed by offset.
func (s *BookStats) AvgBookDepths(band []float64, aggInterval int64) (bids, asks map[float64]float64) {
	bids = make(map[float64]float64, len(band))
	asks = make(map[float64]float64, len(band))
	if aggInterval <= 0 {
		aggInterval = 1
	}

	samples := 0
	for i, t := range s.Times {
		if int64(i)%aggInterval != 0 {
			continue
		}
		mid := s.MidPrices[t]
		for _, offset := range band {
			bids[offset] += depthNear(s.bidDepthsLog[t], mid+offset)
			asks[offset] += depthNear(s.askDepthsLog[t], mid+offset)
		}
		samples++
	}
	if samples == 0 {
		return bids, asks
	}
	for _, offset := range band {
		bids[offset] /= float64(samples)
		asks[offset] /= float64(samples)
	}
	return bids, asks
}

// depthNear sums the snapshot depth at levels within half a tick of price.
func depthNear(snap []engine.LevelDepth, price float64) float64 {
	total := 0.0
	for _, level := range snap {
		if math.Abs(level.Price.InexactFloat64()-price) < 0.5 {
			total += level.Depth.InexactFloat64()
		}
	}
	return total
}

// TradeCount returns the number of trades in the run.
func (s *BookStats) TradeCount() int {
	return len(s.trades)
}

// TotalVolume returns the summed traded size.
func (s *BookStats) TotalVolume() float64 {
	total := 0.0
	for _, trade := range s.trades {
		total += trade.Size.InexactFloat64()
	}
	return total
}

// VWAP returns the volume-weighted average trade price, or zero with no
// volume.
func (s *BookStats) VWAP() float64 {
	volume := 0.0
	notional := 0.0
	for _, trade := range s.trades {
		size := trade.Size.InexactFloat64()
		volume += size
		notional += size * trade.Price.InexactFloat64()
	}
	if volume == 0 {
		return 0
	}
	return notional / volume
}

// AvgSpread returns the time-average quoted spread over the snapshots, or
// zero with no two-sided snapshots.
func (s *BookStats) AvgSpread() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range s.Times {
		total += s.Spreads[t]
	}
	return total / float64(len(s.Times))
}
