package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/models"
)

// Trade is an immutable execution record. Time is the book's logical trades
// clock at execution, not wall-clock. Side is the aggressor's side and Price
// is always the resting order's limit price. BookOrder is a value snapshot
// of the resting order taken before the fill decremented it; MatchOrder is
// the aggressor as submitted to the processing pass, identical across every
// trade the pass produces. Both stay decoupled from any later mutation of
// the live orders.
type Trade struct {
	TradeID    uuid.UUID       `json:"trade_id"`
	Time       int64           `json:"time"`
	Side       models.Side     `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
	BookOrder  models.Order    `json:"book_order"`
	MatchOrder models.Order    `json:"match_order"`
}

func newTrade(time int64, side models.Side, size, price decimal.Decimal, bookOrder, matchOrder models.Order) *Trade {
	return &Trade{
		TradeID:    uuid.New(),
		Time:       time,
		Side:       side,
		Size:       size,
		Price:      price,
		BookOrder:  bookOrder,
		MatchOrder: matchOrder,
	}
}

// BookOrderID returns the id of the resting order consumed by this trade.
func (t *Trade) BookOrderID() int64 {
	return t.BookOrder.ID
}

func (t Trade) String() string {
	return fmt.Sprintf("trade %s %s %s @ %s", t.BookOrder.Trader, t.Side, t.Size, t.Price)
}
