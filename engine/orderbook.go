package engine

import (
	"container/list"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/models"
)

// PriceLevel holds the resting limit orders at one exact price in arrival
// (FIFO) order, together with the aggregate remaining size at that price.
// Volume is a denormalized cache: it must equal the sum of remaining sizes
// of the queued orders after every mutation.
type PriceLevel struct {
	Price  decimal.Decimal
	Orders *list.List
	Volume decimal.Decimal
}

// NewPriceLevel creates an empty price level
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		Orders: list.New(),
		Volume: decimal.Zero,
	}
}

// AddOrder appends an order to the FIFO tail and grows the level volume.
func (pl *PriceLevel) AddOrder(order *models.Order) *list.Element {
	element := pl.Orders.PushBack(order)
	pl.Volume = pl.Volume.Add(order.Size)
	return element
}

// RemoveOrder removes an order from the queue, shrinking the level volume by
// its remaining size.
func (pl *PriceLevel) RemoveOrder(element *list.Element) {
	if element == nil {
		return
	}
	order := element.Value.(*models.Order)
	pl.Volume = pl.Volume.Sub(order.Size)
	pl.Orders.Remove(element)
}

// Reduce shrinks the level volume by qty after a partial fill of a queued
// order. The caller decrements the order's own size.
func (pl *PriceLevel) Reduce(qty decimal.Decimal) {
	pl.Volume = pl.Volume.Sub(qty)
}

// Front returns the oldest resting order at this price, or nil if empty.
func (pl *PriceLevel) Front() *models.Order {
	if e := pl.Orders.Front(); e != nil {
		return e.Value.(*models.Order)
	}
	return nil
}

func (pl *PriceLevel) IsEmpty() bool {
	return pl.Orders.Len() == 0
}

func (pl *PriceLevel) Less(than btree.Item) bool {
	other := than.(*PriceLevel)
	return pl.Price.LessThan(other.Price)
}

// LevelDepth is one price level of a depth snapshot: the price and the
// aggregate remaining size resting at it.
type LevelDepth struct {
	Price decimal.Decimal `json:"price"`
	Depth decimal.Decimal `json:"depth"`
}

// bookSide is one side of the ladder: the sorted collection of price levels,
// the side's total depth, and the deferred market-order queue holding market
// orders that found no contra liquidity at submission time.
type bookSide struct {
	side       models.Side
	tree       *btree.BTree
	totalDepth decimal.Decimal
	mktQueue   []*models.Order
}

func newBookSide(side models.Side) *bookSide {
	return &bookSide{
		side:       side,
		tree:       btree.New(32),
		totalDepth: decimal.Zero,
	}
}

func (bs *bookSide) getOrCreateLevel(price decimal.Decimal) *PriceLevel {
	search := &PriceLevel{Price: price}
	if item := bs.tree.Get(search); item != nil {
		return item.(*PriceLevel)
	}
	level := NewPriceLevel(price)
	bs.tree.ReplaceOrInsert(level)
	return level
}

func (bs *bookSide) level(price decimal.Decimal) *PriceLevel {
	search := &PriceLevel{Price: price}
	if item := bs.tree.Get(search); item != nil {
		return item.(*PriceLevel)
	}
	return nil
}

func (bs *bookSide) removeLevel(price decimal.Decimal) {
	bs.tree.Delete(&PriceLevel{Price: price})
}

// bestLevel returns the side's priority level: highest price for bids,
// lowest for asks. An empty level here means the ladder's indices have
// diverged, which is a bug in the book, not bad input.
func (bs *bookSide) bestLevel() *PriceLevel {
	var item btree.Item
	if bs.side == models.SideBid {
		item = bs.tree.Max()
	} else {
		item = bs.tree.Min()
	}
	if item == nil {
		return nil
	}
	level := item.(*PriceLevel)
	if level.IsEmpty() {
		panic("engine: empty price level left in ladder")
	}
	return level
}

// ascendPriority walks the active levels in side priority order: bids from
// highest price down, asks from lowest price up.
func (bs *bookSide) ascendPriority(f func(level *PriceLevel) bool) {
	iter := func(item btree.Item) bool { return f(item.(*PriceLevel)) }
	if bs.side == models.SideBid {
		bs.tree.Descend(iter)
	} else {
		bs.tree.Ascend(iter)
	}
}

// depthBetween sums the aggregate size over active prices in [lo, hi].
func (bs *bookSide) depthBetween(lo, hi decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	bs.tree.AscendGreaterOrEqual(&PriceLevel{Price: lo}, func(item btree.Item) bool {
		level := item.(*PriceLevel)
		if level.Price.GreaterThan(hi) {
			return false
		}
		total = total.Add(level.Volume)
		return true
	})
	return total
}

// snapDepths returns the first `levels` price/depth pairs in priority order,
// or all active levels if levels <= 0.
func (bs *bookSide) snapDepths(levels int) []LevelDepth {
	snap := make([]LevelDepth, 0, levels)
	count := 0
	bs.ascendPriority(func(level *PriceLevel) bool {
		if levels > 0 && count >= levels {
			return false
		}
		snap = append(snap, LevelDepth{Price: level.Price, Depth: level.Volume})
		count++
		return true
	})
	return snap
}

func (bs *bookSide) levelCount() int {
	return bs.tree.Len()
}

// orderCount returns the number of resting orders on the side.
func (bs *bookSide) orderCount() int {
	count := 0
	bs.tree.Ascend(func(item btree.Item) bool {
		count += item.(*PriceLevel).Orders.Len()
		return true
	})
	return count
}

// deferMarketOrder queues an unfilled market order. Fresh submissions join
// the tail; replayed orders rejoin the head so their original time priority
// against anything queued behind them is preserved.
func (bs *bookSide) deferMarketOrder(order *models.Order, isNew bool) {
	if isNew {
		bs.mktQueue = append(bs.mktQueue, order)
	} else {
		bs.mktQueue = append([]*models.Order{order}, bs.mktQueue...)
	}
}

// popDeferred removes and returns the oldest deferred market order.
func (bs *bookSide) popDeferred() *models.Order {
	if len(bs.mktQueue) == 0 {
		return nil
	}
	order := bs.mktQueue[0]
	bs.mktQueue = bs.mktQueue[1:]
	return order
}

// removeDeferred deletes the deferred market order with the given id.
// Market orders carry no resting price, so this is a linear scan.
func (bs *bookSide) removeDeferred(id int64) bool {
	for i, order := range bs.mktQueue {
		if order.ID == id {
			bs.mktQueue = append(bs.mktQueue[:i], bs.mktQueue[i+1:]...)
			return true
		}
	}
	return false
}
