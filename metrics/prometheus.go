package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter: Total order events received
	OrdersReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_orders_received_total",
			Help: "Total number of order events received by the book",
		},
		[]string{"book", "side", "kind"},
	)

	// Counter: Total order events ignored as no-ops
	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_orders_rejected_total",
			Help: "Total number of order events ignored (invalid side, unknown kind, unsupported modify)",
		},
		[]string{"book", "reason"},
	)

	// Counter: Total resting orders cancelled
	OrdersCancelledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_orders_cancelled_total",
			Help: "Total number of resting or deferred orders removed by cancel events",
		},
		[]string{"book"},
	)

	// Counter: Total trades executed
	TradesExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_trades_executed_total",
			Help: "Total number of trades executed",
		},
		[]string{"book"},
	)

	// Counter: Total volume traded
	TradedVolumeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_traded_volume_total",
			Help: "Total size traded",
		},
		[]string{"book"},
	)

	// Gauge: Aggregate resting size per side
	BookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_depth",
			Help: "Current aggregate resting size on each side of the book",
		},
		[]string{"book", "side"},
	)

	// Gauge: Resting order count per side
	RestingOrders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_resting_orders",
			Help: "Current number of resting limit orders on each side",
		},
		[]string{"book", "side"},
	)

	// Gauge: Deferred market orders per side
	DeferredMarketOrders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_deferred_market_orders",
			Help: "Current number of market orders awaiting contra liquidity",
		},
		[]string{"book", "side"},
	)

	// Gauge: Best bid/ask prices
	BestBidPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_best_bid_price",
			Help: "Current best bid price",
		},
		[]string{"book"},
	)

	BestAskPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_best_ask_price",
			Help: "Current best ask price",
		},
		[]string{"book"},
	)

	// Gauge: Spread between best ask and best bid
	BookSpread = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_spread",
			Help: "Current spread between best ask and best bid",
		},
		[]string{"book"},
	)

	// Histogram: Trade size distribution
	TradeSizeDistribution = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "book_trade_size_distribution",
			Help:    "Distribution of trade sizes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"book"},
	)
)

// RecordOrderReceived increments the received counter for an order event.
func RecordOrderReceived(book, side, kind string) {
	OrdersReceivedTotal.WithLabelValues(book, side, kind).Inc()
}

// RecordOrderRejected increments the rejected counter with a reason label.
func RecordOrderRejected(book, reason string) {
	OrdersRejectedTotal.WithLabelValues(book, reason).Inc()
}

// RecordOrderCancelled increments the cancelled counter.
func RecordOrderCancelled(book string) {
	OrdersCancelledTotal.WithLabelValues(book).Inc()
}

// RecordTrade updates the trade counters and size histogram for one execution.
func RecordTrade(book string, size float64) {
	TradesExecutedTotal.WithLabelValues(book).Inc()
	TradedVolumeTotal.WithLabelValues(book).Add(size)
	TradeSizeDistribution.WithLabelValues(book).Observe(size)
}

// UpdateDepth sets the aggregate depth gauge for a side.
func UpdateDepth(book, side string, depth float64) {
	BookDepth.WithLabelValues(book, side).Set(depth)
}

// UpdateRestingOrders sets the resting order count gauge for a side.
func UpdateRestingOrders(book, side string, count float64) {
	RestingOrders.WithLabelValues(book, side).Set(count)
}

// UpdateDeferredQueue sets the deferred market-order gauge for a side.
func UpdateDeferredQueue(book, side string, count float64) {
	DeferredMarketOrders.WithLabelValues(book, side).Set(count)
}

// UpdateBestPrices sets the top-of-book gauges.
func UpdateBestPrices(book string, bestBid, bestAsk float64) {
	BestBidPrice.WithLabelValues(book).Set(bestBid)
	BestAskPrice.WithLabelValues(book).Set(bestAsk)
}

// UpdateSpread sets the spread gauge.
func UpdateSpread(book string, spread float64) {
	BookSpread.WithLabelValues(book).Set(spread)
}
