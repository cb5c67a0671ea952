package engine

import (
	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/models"
)

// Read accessors. All of them take the read lock and return value copies,
// so callers can never alias the book's internal state.

// HasBids reports whether any bid level is active.
func (b *LimitOrderBook) HasBids() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.levelCount() > 0
}

// HasAsks reports whether any ask level is active.
func (b *LimitOrderBook) HasAsks() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.levelCount() > 0
}

// TopBid returns the best bid price, or zero if no bids rest. Use HasBids to
// distinguish an empty side from a genuine zero price.
func (b *LimitOrderBook) TopBid() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topBid
}

// TopAsk returns the best ask price, or zero if no asks rest.
func (b *LimitOrderBook) TopAsk() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topAsk
}

// Spread returns ask minus bid at the top of book, and false when either
// side is empty.
func (b *LimitOrderBook) Spread() (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.bids.levelCount() == 0 || b.asks.levelCount() == 0 {
		return decimal.Zero, false
	}
	return b.topAsk.Sub(b.topBid), true
}

// BidDepthAt returns the aggregate resting size at a bid price, zero if the
// level is inactive.
func (b *LimitOrderBook) BidDepthAt(price decimal.Decimal) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return depthAt(b.bids, price)
}

// AskDepthAt returns the aggregate resting size at an ask price.
func (b *LimitOrderBook) AskDepthAt(price decimal.Decimal) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return depthAt(b.asks, price)
}

func depthAt(s *bookSide, price decimal.Decimal) decimal.Decimal {
	if level := s.level(price); level != nil {
		return level.Volume
	}
	return decimal.Zero
}

// BidDepthBetween sums bid depth over the inclusive price range [lo, hi].
func (b *LimitOrderBook) BidDepthBetween(lo, hi decimal.Decimal) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.depthBetween(lo, hi)
}

// AskDepthBetween sums ask depth over the inclusive price range [lo, hi].
func (b *LimitOrderBook) AskDepthBetween(lo, hi decimal.Decimal) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.depthBetween(lo, hi)
}

// TotalBidDepth returns the summed size of every resting bid.
func (b *LimitOrderBook) TotalBidDepth() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.totalDepth
}

// TotalAskDepth returns the summed size of every resting ask.
func (b *LimitOrderBook) TotalAskDepth() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.totalDepth
}

// PeekBidOrderAt returns a copy of the oldest bid resting at the price.
func (b *LimitOrderBook) PeekBidOrderAt(price decimal.Decimal) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return peekOrderAt(b.bids, price)
}

// PeekAskOrderAt returns a copy of the oldest ask resting at the price.
func (b *LimitOrderBook) PeekAskOrderAt(price decimal.Decimal) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return peekOrderAt(b.asks, price)
}

func peekOrderAt(s *bookSide, price decimal.Decimal) (models.Order, bool) {
	level := s.level(price)
	if level == nil {
		return models.Order{}, false
	}
	front := level.Front()
	if front == nil {
		return models.Order{}, false
	}
	return *front, true
}

// BidOrdersAt returns copies of the bids resting at the price in queue
// priority order.
func (b *LimitOrderBook) BidOrdersAt(price decimal.Decimal) []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ordersAt(b.bids, price)
}

// AskOrdersAt returns copies of the asks resting at the price in queue
// priority order.
func (b *LimitOrderBook) AskOrdersAt(price decimal.Decimal) []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ordersAt(b.asks, price)
}

func ordersAt(s *bookSide, price decimal.Decimal) []models.Order {
	level := s.level(price)
	if level == nil {
		return nil
	}
	orders := make([]models.Order, 0, level.Orders.Len())
	for e := level.Orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, *e.Value.(*models.Order))
	}
	return orders
}

// SnapBidDepths returns up to levels (price, depth) pairs from the best bid
// outward; all levels when levels <= 0.
func (b *LimitOrderBook) SnapBidDepths(levels int) []LevelDepth {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.snapDepths(levels)
}

// SnapAskDepths returns up to levels (price, depth) pairs from the best ask
// outward; all levels when levels <= 0.
func (b *LimitOrderBook) SnapAskDepths(levels int) []LevelDepth {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.snapDepths(levels)
}

// BidLevelCount returns the number of active bid levels.
func (b *LimitOrderBook) BidLevelCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.levelCount()
}

// AskLevelCount returns the number of active ask levels.
func (b *LimitOrderBook) AskLevelCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.levelCount()
}

// Size returns the number of currently resting limit orders on both sides.
func (b *LimitOrderBook) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.locations)
}

// DeferredBidOrders returns copies of the bid-side deferred market orders in
// replay priority order.
func (b *LimitOrderBook) DeferredBidOrders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyDeferred(b.bids)
}

// DeferredAskOrders returns copies of the ask-side deferred market orders in
// replay priority order.
func (b *LimitOrderBook) DeferredAskOrders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyDeferred(b.asks)
}

func copyDeferred(s *bookSide) []models.Order {
	orders := make([]models.Order, 0, len(s.mktQueue))
	for _, o := range s.mktQueue {
		orders = append(orders, *o)
	}
	return orders
}

// Trades returns copies of every trade executed so far, oldest first.
func (b *LimitOrderBook) Trades() []Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	trades := make([]Trade, 0, len(b.trades))
	for _, t := range b.trades {
		trades = append(trades, *t)
	}
	return trades
}

// TradeCount returns the number of trades executed so far.
func (b *LimitOrderBook) TradeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.trades)
}

// LoggedOrder returns the last-seen record for an order id, covering every
// submission the book has processed, not just resting ones.
func (b *LimitOrderBook) LoggedOrder(id int64) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	order, ok := b.ordersLog[id]
	return order, ok
}
