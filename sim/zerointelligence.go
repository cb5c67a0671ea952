package sim

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/engine"
	"github.com/frankieycy/order-book-simulator/logging"
	"github.com/frankieycy/order-book-simulator/models"
)

// defaultInitSizes is the seeding ramp applied symmetrically around price
// zero: level i away from the touch starts with defaultInitSizes[i-1] unit
// orders.
var defaultInitSizes = []int64{1, 2, 2, 3, 3, 4, 4, 5}

// Params tunes a zero-intelligence simulation run.
type Params struct {
	// Orders is the number of logical time steps; each step submits one
	// randomly generated order.
	Orders int64 `yaml:"orders"`
	// PriceBound bounds the seeded ladder: bids at -1..-PriceBound, asks at
	// +1..+PriceBound.
	PriceBound int64 `yaml:"price_bound"`
	// LimitBound is the width of the uniform price band, anchored at the
	// contra touch, that new limit prices are drawn from.
	LimitBound int64 `yaml:"limit_bound"`
	// Event weights. Each step picks limit, market or cancel with
	// probability proportional to its rate.
	LimitRate  float64 `yaml:"limit_rate"`
	MarketRate float64 `yaml:"market_rate"`
	CancelRate float64 `yaml:"cancel_rate"`
	// SnapInterval is the step spacing between depth snapshots; SnapLevels
	// the number of levels captured per side (all levels if <= 0).
	SnapInterval int64 `yaml:"snap_interval"`
	SnapLevels   int   `yaml:"snap_levels"`
	Seed         int64 `yaml:"seed"`
}

// ZeroIntelligence drives a book with uninformed random order flow: unit-size
// limit orders priced uniformly inside the contra touch, unit-size market
// orders, and cancels whose arrival and target both scale with the resting
// depth near the touch. It keeps periodic depth snapshots for later analysis.
type ZeroIntelligence struct {
	params Params
	book   *engine.LimitOrderBook
	rng    *rand.Rand

	nextID     int64
	ordersSent int64

	bidDepthsLog map[int64][]engine.LevelDepth
	askDepthsLog map[int64][]engine.LevelDepth
	snapTimes    []int64
}

// NewZeroIntelligence creates an agent bound to a book. The run is fully
// determined by params.Seed.
func NewZeroIntelligence(book *engine.LimitOrderBook, params Params) *ZeroIntelligence {
	if params.PriceBound <= 0 {
		params.PriceBound = int64(len(defaultInitSizes))
	}
	return &ZeroIntelligence{
		params:       params,
		book:         book,
		rng:          rand.New(rand.NewSource(params.Seed)),
		bidDepthsLog: make(map[int64][]engine.LevelDepth),
		askDepthsLog: make(map[int64][]engine.LevelDepth),
	}
}

// InitBook seeds a symmetric ladder around price zero: sizes[i] unit-size
// orders rest at bid price -(i+1) and ask price +(i+1). A nil sizes slice
// applies the default ramp truncated or extended to PriceBound.
func (zi *ZeroIntelligence) InitBook(sizes []int64) {
	if sizes == nil {
		sizes = make([]int64, zi.params.PriceBound)
		for i := range sizes {
			if i < len(defaultInitSizes) {
				sizes[i] = defaultInitSizes[i]
			} else {
				sizes[i] = defaultInitSizes[len(defaultInitSizes)-1]
			}
		}
	}
	one := decimal.NewFromInt(1)
	for i, count := range sizes {
		price := decimal.NewFromInt(int64(i + 1))
		for j := int64(0); j < count; j++ {
			zi.submit(models.NewLimitOrder(zi.id(), zi.book.Clock(), "init",
				models.SideBid, one, price.Neg()))
			zi.submit(models.NewLimitOrder(zi.id(), zi.book.Clock(), "init",
				models.SideAsk, one, price))
		}
	}
}

// SendLimitOrder submits a unit-size limit order priced uniformly within
// LimitBound ticks inside the contra touch: bids in [topAsk-L, topAsk-1],
// asks in [topBid+1, topBid+L]. An empty contra side anchors at the zero
// sentinel, which keeps prices centered on the seeded book.
func (zi *ZeroIntelligence) SendLimitOrder(side models.Side) {
	bound := zi.params.LimitBound
	var price int64
	if side == models.SideBid {
		a := zi.book.TopAsk().IntPart()
		price = zi.uniformInt(a-bound, a-1)
	} else {
		b := zi.book.TopBid().IntPart()
		price = zi.uniformInt(b+1, b+bound)
	}
	zi.submit(models.NewLimitOrder(zi.id(), zi.book.Clock(), "zi",
		side, decimal.NewFromInt(1), decimal.NewFromInt(price)))
}

// SendMarketOrder submits a unit-size market order on the given side.
func (zi *ZeroIntelligence) SendMarketOrder(side models.Side) {
	zi.submit(models.NewMarketOrder(zi.id(), zi.book.Clock(), "zi",
		side, decimal.NewFromInt(1)))
}

// SendCancelOrder cancels a resting order near the touch: a uniform
// threshold drawn over the side's depth within the limit band is walked
// down the levels in priority order, and the front order of the level
// holding the threshold is cancelled. No depth in the band skips the event.
func (zi *ZeroIntelligence) SendCancelOrder(side models.Side) {
	zi.sendCancelOrder(side, zi.cancelBandDepth(side))
}

func (zi *ZeroIntelligence) sendCancelOrder(side models.Side, bandDepth decimal.Decimal) {
	if !bandDepth.IsPositive() {
		return
	}

	var snap []engine.LevelDepth
	if side == models.SideBid {
		snap = zi.book.SnapBidDepths(0)
	} else {
		snap = zi.book.SnapAskDepths(0)
	}

	threshold := decimal.NewFromInt(zi.uniformInt(1, bandDepth.IntPart()))
	cumulative := decimal.Zero
	for _, level := range snap {
		cumulative = cumulative.Add(level.Depth)
		if cumulative.GreaterThanOrEqual(threshold) {
			var front models.Order
			var ok bool
			if side == models.SideBid {
				front, ok = zi.book.PeekBidOrderAt(level.Price)
			} else {
				front, ok = zi.book.PeekAskOrderAt(level.Price)
			}
			if ok {
				zi.submit(models.NewCancelOrder(zi.id(), zi.book.Clock(), "zi", front.ID))
			}
			return
		}
	}
}

// cancelBandDepth returns the side's resting depth within LimitBound ticks
// inside the contra touch, the band new limit orders land in.
func (zi *ZeroIntelligence) cancelBandDepth(side models.Side) decimal.Decimal {
	bound := zi.params.LimitBound
	if side == models.SideBid {
		a := zi.book.TopAsk().IntPart()
		return zi.book.BidDepthBetween(decimal.NewFromInt(a-bound), decimal.NewFromInt(a-1))
	}
	b := zi.book.TopBid().IntPart()
	return zi.book.AskDepthBetween(decimal.NewFromInt(b+1), decimal.NewFromInt(b+bound))
}

// GenerateOrder picks one of six events, weighted so that limit arrivals
// scale with the band width, market arrivals split evenly across sides, and
// cancel arrivals scale with the resting depth inside each side's band.
func (zi *ZeroIntelligence) GenerateOrder() {
	bound := float64(zi.params.LimitBound)
	bidBand := zi.cancelBandDepth(models.SideBid)
	askBand := zi.cancelBandDepth(models.SideAsk)

	weights := []float64{
		bound * zi.params.LimitRate,
		bound * zi.params.LimitRate,
		zi.params.MarketRate / 2,
		zi.params.MarketRate / 2,
		bidBand.InexactFloat64() * zi.params.CancelRate,
		askBand.InexactFloat64() * zi.params.CancelRate,
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return
	}

	u := zi.rng.Float64() * total
	event := 0
	for event < len(weights)-1 && u > weights[event] {
		u -= weights[event]
		event++
	}
	switch event {
	case 0:
		zi.SendLimitOrder(models.SideBid)
	case 1:
		zi.SendLimitOrder(models.SideAsk)
	case 2:
		zi.SendMarketOrder(models.SideBid)
	case 3:
		zi.SendMarketOrder(models.SideAsk)
	case 4:
		zi.sendCancelOrder(models.SideBid, bidBand)
	case 5:
		zi.sendCancelOrder(models.SideAsk, askBand)
	}
}

// Simulate runs the configured number of steps, advancing the book's logical
// clock each step and snapshotting depth every SnapInterval steps.
func (zi *ZeroIntelligence) Simulate() {
	start := time.Now()
	logging.LogSimStarted(zi.book.Name, int(zi.params.Orders), zi.params.Seed)

	for t := int64(1); t <= zi.params.Orders; t++ {
		zi.book.SetClock(t)
		zi.GenerateOrder()
		if zi.params.SnapInterval > 0 && t%zi.params.SnapInterval == 0 {
			zi.snapshot(t)
		}
	}

	logging.LogSimFinished(zi.book.Name, int(zi.ordersSent), zi.book.TradeCount(),
		time.Since(start))
}

// BidDepthsLog returns the recorded bid depth snapshots keyed by step.
func (zi *ZeroIntelligence) BidDepthsLog() map[int64][]engine.LevelDepth {
	return zi.bidDepthsLog
}

// AskDepthsLog returns the recorded ask depth snapshots keyed by step.
func (zi *ZeroIntelligence) AskDepthsLog() map[int64][]engine.LevelDepth {
	return zi.askDepthsLog
}

// SnapTimes returns the snapshot steps in ascending order.
func (zi *ZeroIntelligence) SnapTimes() []int64 {
	return zi.snapTimes
}

// OrdersSent returns the number of orders submitted to the book, including
// the seeding ramp.
func (zi *ZeroIntelligence) OrdersSent() int64 {
	return zi.ordersSent
}

func (zi *ZeroIntelligence) snapshot(t int64) {
	zi.bidDepthsLog[t] = zi.book.SnapBidDepths(zi.params.SnapLevels)
	zi.askDepthsLog[t] = zi.book.SnapAskDepths(zi.params.SnapLevels)
	zi.snapTimes = append(zi.snapTimes, t)
}

func (zi *ZeroIntelligence) submit(order models.Order) {
	zi.book.ProcessOrder(order)
	zi.ordersSent++
}

func (zi *ZeroIntelligence) id() int64 {
	zi.nextID++
	return zi.nextID
}

// uniformInt draws uniformly from [lo, hi].
func (zi *ZeroIntelligence) uniformInt(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + zi.rng.Int63n(hi-lo+1)
}
