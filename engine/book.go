package engine

import (
	"container/list"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/logging"
	"github.com/frankieycy/order-book-simulator/metrics"
	"github.com/frankieycy/order-book-simulator/models"
)

// orderLocation tracks where a resting limit order sits in the ladder,
// giving cancels O(1) access to the level and queue element.
type orderLocation struct {
	side    *bookSide
	level   *PriceLevel
	element *list.Element
}

// LimitOrderBook is a single-instrument continuous-matching order book. It
// owns every resting order exclusively: accessors hand out value copies,
// never live references. The book is synchronous: each ProcessOrder call
// runs to completion before the next, and the mutex only guards read
// accessors used by in-process observers against the single writer.
//
// Trades are stamped with a caller-controlled logical clock (SetClock), not
// wall-clock time.
type LimitOrderBook struct {
	Name string

	bids *bookSide
	asks *bookSide

	// locations indexes currently-resting limit orders by id, on both sides.
	locations map[int64]*orderLocation
	// ordersLog keeps the last-seen record of every order event, for audit.
	ordersLog map[int64]models.Order

	trades []*Trade
	clock  int64

	topBid decimal.Decimal
	topAsk decimal.Decimal

	events *EventBus
	mu     sync.RWMutex
}

// NewLimitOrderBook creates an empty book for a named instrument.
func NewLimitOrderBook(name string) *LimitOrderBook {
	return &LimitOrderBook{
		Name:      name,
		bids:      newBookSide(models.SideBid),
		asks:      newBookSide(models.SideAsk),
		locations: make(map[int64]*orderLocation),
		ordersLog: make(map[int64]models.Order),
		topBid:    decimal.Zero,
		topAsk:    decimal.Zero,
		events:    NewEventBus(),
	}
}

// Events returns the book's event bus for in-process observers.
func (b *LimitOrderBook) Events() *EventBus {
	return b.events
}

// SetClock sets the logical timestamp stamped onto subsequent trades.
func (b *LimitOrderBook) SetClock(t int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = t
}

// Clock returns the current logical trades clock.
func (b *LimitOrderBook) Clock() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clock
}

// crosses reports whether a contra resting price is executable against the
// given limit: for a bid, any ask at or below the limit; for an ask, any bid
// at or above it.
func crosses(side models.Side, limit, price decimal.Decimal) bool {
	switch side {
	case models.SideBid:
		return price.LessThanOrEqual(limit)
	case models.SideAsk:
		return price.GreaterThanOrEqual(limit)
	default:
		return false
	}
}

func (b *LimitOrderBook) sides(side models.Side) (own, contra *bookSide) {
	if side == models.SideBid {
		return b.bids, b.asks
	}
	return b.asks, b.bids
}

// ProcessOrder is the book's sole mutation entry point. It dispatches on the
// order kind and returns the trades the event produced, including any fills
// of previously-deferred market orders unblocked by new liquidity. Unknown
// kinds, invalid sides and unsupported modifies are no-ops.
func (b *LimitOrderBook) ProcessOrder(order models.Order) []*Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	metrics.RecordOrderReceived(b.Name, string(order.Side), string(order.Kind))
	logging.LogOrderReceived(b.Name, order.ID, string(order.Kind), string(order.Side),
		order.Size.String(), order.Price.String())

	var trades []*Trade
	switch order.Kind {
	case models.KindLimit:
		trades = b.processLimit(order)
	case models.KindMarket:
		trades = b.processMarket(order, true)
	case models.KindCancel:
		b.processCancel(order)
	case models.KindModify:
		// Declared in the event model but unsupported: no cancel-replace
		// semantics are defined, so modifies are ignored.
		logging.LogOrderRejected(b.Name, order.ID, "modify unsupported")
		metrics.RecordOrderRejected(b.Name, "modify_unsupported")
	default:
		logging.LogOrderRejected(b.Name, order.ID, "unknown kind")
		metrics.RecordOrderRejected(b.Name, "unknown_kind")
	}

	b.refreshGauges()
	return trades
}

// processLimit matches an incoming limit order against the contra side while
// it crosses, rests any unfilled remainder, and then replays the contra
// side's deferred market orders against the liquidity it may have added.
func (b *LimitOrderBook) processLimit(order models.Order) []*Trade {
	if !order.IsValid() {
		logging.LogOrderRejected(b.Name, order.ID, "invalid limit order")
		metrics.RecordOrderRejected(b.Name, "invalid_order")
		return nil
	}
	b.ordersLog[order.ID] = order

	own, contra := b.sides(order.Side)
	submitted := order
	incoming := order // value copy; Size tracks the unfilled amount

	var trades []*Trade
	for incoming.Size.IsPositive() {
		level := contra.bestLevel()
		if level == nil || !crosses(order.Side, order.Price, level.Price) {
			break
		}
		trades = append(trades, b.matchAgainstLevel(contra, level, &incoming, submitted)...)
	}

	if incoming.Size.IsPositive() {
		resting := incoming
		b.insertResting(own, &resting)
	}

	b.updateTops()

	// New liquidity on this side may satisfy market orders that starved
	// earlier on the contra side.
	trades = append(trades, b.replayMarketQueue(order.Side.Opposite())...)
	return trades
}

// processMarket consumes the contra side from the best price outward until
// filled or exhausted. Market orders never post liquidity: an unfilled
// remainder is parked on the side's deferred queue instead: at the tail
// for fresh submissions, at the head when requeued during a replay pass.
func (b *LimitOrderBook) processMarket(order models.Order, isNew bool) []*Trade {
	if !order.IsValid() {
		logging.LogOrderRejected(b.Name, order.ID, "invalid market order")
		metrics.RecordOrderRejected(b.Name, "invalid_order")
		return nil
	}
	b.ordersLog[order.ID] = order

	own, contra := b.sides(order.Side)
	submitted := order
	incoming := order

	var trades []*Trade
	for incoming.Size.IsPositive() {
		level := contra.bestLevel()
		if level == nil {
			break
		}
		trades = append(trades, b.matchAgainstLevel(contra, level, &incoming, submitted)...)
	}

	if incoming.Size.IsPositive() {
		deferred := incoming
		own.deferMarketOrder(&deferred, isNew)
		// Keep the audit entry current with the unfilled remainder.
		b.ordersLog[deferred.ID] = deferred
		logging.LogMarketDeferred(b.Name, deferred.ID, string(deferred.Side), deferred.Size.String())
	}

	b.updateTops()
	return trades
}

// processCancel removes the referenced order if it is still resting, or
// failing that, scans the deferred market queues. An unknown id is a silent
// no-op: cancelling an already-filled order is a normal race, not a fault.
func (b *LimitOrderBook) processCancel(order models.Order) {
	b.ordersLog[order.ID] = order

	if loc, ok := b.locations[order.RefID]; ok {
		resting := loc.element.Value.(*models.Order)
		loc.level.RemoveOrder(loc.element)
		loc.side.totalDepth = loc.side.totalDepth.Sub(resting.Size)
		if loc.level.IsEmpty() {
			loc.side.removeLevel(loc.level.Price)
		}
		delete(b.locations, order.RefID)

		logging.LogOrderCancelled(b.Name, order.RefID, false)
		metrics.RecordOrderCancelled(b.Name)
		b.events.Publish(Event{
			Type:      EventTypeBookChange,
			Timestamp: time.Now(),
			Data: BookChangeEvent{
				Book:   b.Name,
				Side:   resting.Side,
				Action: "remove",
				Price:  resting.Price,
				Size:   resting.Size,
			},
		})
	} else if b.bids.removeDeferred(order.RefID) || b.asks.removeDeferred(order.RefID) {
		logging.LogOrderCancelled(b.Name, order.RefID, true)
		metrics.RecordOrderCancelled(b.Name)
	} else {
		logging.LogCancelMiss(b.Name, order.RefID)
	}

	// A cancel can empty the top level.
	b.updateTops()
}

// matchAgainstLevel executes the incoming order against the level's FIFO
// queue, oldest first, emitting one trade per resting order consumed. The
// level is removed from the ladder if it empties. incoming tracks the
// unfilled remainder across matching steps; submitted is the order as it
// entered this processing pass, so every trade in the pass snapshots the
// same aggressor record.
func (b *LimitOrderBook) matchAgainstLevel(contra *bookSide, level *PriceLevel, incoming *models.Order, submitted models.Order) []*Trade {
	var trades []*Trade
	for incoming.Size.IsPositive() && !level.IsEmpty() {
		element := level.Orders.Front()
		resting := element.Value.(*models.Order)

		matched := decimal.Min(incoming.Size, resting.Size)

		// The resting snapshot is taken before the fill decrements it.
		trade := newTrade(b.clock, incoming.Side, matched, resting.Price, *resting, submitted)
		b.trades = append(b.trades, trade)
		trades = append(trades, trade)

		incoming.Reduce(matched)
		resting.Reduce(matched)
		level.Reduce(matched)
		contra.totalDepth = contra.totalDepth.Sub(matched)

		logging.LogTradeExecuted(b.Name, trade.TradeID.String(), resting.ID, incoming.ID,
			trade.Time, string(trade.Side), matched.String(), trade.Price.String())
		metrics.RecordTrade(b.Name, matched.InexactFloat64())
		b.events.Publish(Event{
			Type:      EventTypeTrade,
			Timestamp: time.Now(),
			Data: TradeEvent{
				TradeID:      trade.TradeID,
				Book:         b.Name,
				Time:         trade.Time,
				Side:         trade.Side,
				Price:        trade.Price,
				Size:         trade.Size,
				BookOrderID:  resting.ID,
				MatchOrderID: incoming.ID,
			},
		})

		if resting.IsFilled() {
			delete(b.locations, resting.ID)
			level.Orders.Remove(element)
		}
	}
	if level.IsEmpty() {
		contra.removeLevel(level.Price)
	}
	return trades
}

// insertResting appends the order at its price level, creating the level if
// absent, and indexes it for cancellation.
func (b *LimitOrderBook) insertResting(own *bookSide, order *models.Order) {
	level := own.getOrCreateLevel(order.Price)
	element := level.AddOrder(order)
	own.totalDepth = own.totalDepth.Add(order.Size)
	b.locations[order.ID] = &orderLocation{
		side:    own,
		level:   level,
		element: element,
	}

	b.events.Publish(Event{
		Type:      EventTypeBookChange,
		Timestamp: time.Now(),
		Data: BookChangeEvent{
			Book:   b.Name,
			Side:   order.Side,
			Action: "add",
			Price:  order.Price,
			Size:   order.Size,
		},
	})
}

// replayMarketQueue drains the side's deferred market orders one at a time
// while the contra side still has any active level. This is how liquidity
// added by a limit order unblocks previously-starved market orders without
// resubmission.
func (b *LimitOrderBook) replayMarketQueue(side models.Side) []*Trade {
	own, contra := b.sides(side)
	var trades []*Trade
	for contra.levelCount() > 0 {
		order := own.popDeferred()
		if order == nil {
			break
		}
		trades = append(trades, b.processMarket(*order, false)...)
	}
	return trades
}

// updateTops recomputes the cached best bid and ask. An empty side reads as
// the zero sentinel; HasBids/HasAsks disambiguate a genuinely zero price.
func (b *LimitOrderBook) updateTops() {
	if level := b.bids.bestLevel(); level != nil {
		b.topBid = level.Price
	} else {
		b.topBid = decimal.Zero
	}
	if level := b.asks.bestLevel(); level != nil {
		b.topAsk = level.Price
	} else {
		b.topAsk = decimal.Zero
	}
}

func (b *LimitOrderBook) refreshGauges() {
	metrics.UpdateDepth(b.Name, string(models.SideBid), b.bids.totalDepth.InexactFloat64())
	metrics.UpdateDepth(b.Name, string(models.SideAsk), b.asks.totalDepth.InexactFloat64())
	metrics.UpdateRestingOrders(b.Name, string(models.SideBid), float64(b.bids.orderCount()))
	metrics.UpdateRestingOrders(b.Name, string(models.SideAsk), float64(b.asks.orderCount()))
	metrics.UpdateDeferredQueue(b.Name, string(models.SideBid), float64(len(b.bids.mktQueue)))
	metrics.UpdateDeferredQueue(b.Name, string(models.SideAsk), float64(len(b.asks.mktQueue)))
	metrics.UpdateBestPrices(b.Name, b.topBid.InexactFloat64(), b.topAsk.InexactFloat64())
	if b.bids.levelCount() > 0 && b.asks.levelCount() > 0 {
		metrics.UpdateSpread(b.Name, b.topAsk.Sub(b.topBid).InexactFloat64())
	}
}
