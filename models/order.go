package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side represents the side of an order (bid or ask)
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// IsValid reports whether the side is one of the two known sides.
func (s Side) IsValid() bool {
	return s == SideBid || s == SideAsk
}

// Opposite returns the contra side (the side an order of side s executes against).
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Direction returns +1 for bids and -1 for asks, the sign convention used by
// trade exports and analytics.
func (s Side) Direction() int {
	if s == SideBid {
		return 1
	}
	return -1
}

// OrderKind represents the kind of order event
type OrderKind string

const (
	KindLimit  OrderKind = "limit"
	KindMarket OrderKind = "market"
	KindCancel OrderKind = "cancel"
	KindModify OrderKind = "modify"
)

// Order is a single order event submitted to the book. The kind tag closes
// the variant set: limit and market orders carry Side and Size (and Price for
// limits), cancel and modify orders reference another order through RefID.
//
// IDs are assigned by the submitter from a single incrementing counter, so
// they are strictly increasing in arrival order. The book relies on this:
// within a price level, queue order and id order coincide.
type Order struct {
	ID     int64           `json:"id"`
	Time   int64           `json:"time"`
	Trader string          `json:"trader"`
	Kind   OrderKind       `json:"kind"`
	Side   Side            `json:"side,omitempty"`
	Size   decimal.Decimal `json:"size"`
	Price  decimal.Decimal `json:"price"`
	RefID  int64           `json:"ref_id,omitempty"`

	// Replacement is the modify payload. Modify is declared but not
	// supported by the matching engine; it is carried for completeness of
	// the event model only.
	Replacement *Order `json:"replacement,omitempty"`
}

// NewLimitOrder creates a limit order event.
func NewLimitOrder(id, time int64, trader string, side Side, size, price decimal.Decimal) Order {
	return Order{
		ID:     id,
		Time:   time,
		Trader: trader,
		Kind:   KindLimit,
		Side:   side,
		Size:   size,
		Price:  price,
	}
}

// NewMarketOrder creates a market order event.
func NewMarketOrder(id, time int64, trader string, side Side, size decimal.Decimal) Order {
	return Order{
		ID:     id,
		Time:   time,
		Trader: trader,
		Kind:   KindMarket,
		Side:   side,
		Size:   size,
	}
}

// NewCancelOrder creates a cancel event referencing an earlier order id.
func NewCancelOrder(id, time int64, trader string, refID int64) Order {
	return Order{
		ID:     id,
		Time:   time,
		Trader: trader,
		Kind:   KindCancel,
		RefID:  refID,
	}
}

// NewModifyOrder creates a modify event carrying a replacement payload.
func NewModifyOrder(id, time int64, trader string, refID int64, replacement Order) Order {
	return Order{
		ID:          id,
		Time:        time,
		Trader:      trader,
		Kind:        KindModify,
		RefID:       refID,
		Replacement: &replacement,
	}
}

// IsValid validates the order fields for its kind. Prices may be negative:
// simulated books are commonly centered at zero, so only sizes and sides are
// constrained.
func (o *Order) IsValid() bool {
	switch o.Kind {
	case KindLimit, KindMarket:
		if !o.Side.IsValid() {
			return false
		}
		return o.Size.IsPositive()
	case KindCancel:
		return true
	case KindModify:
		return o.Replacement != nil
	default:
		return false
	}
}

// Reduce decrements the remaining size by qty and returns the new remaining
// size. Used by the matching engine on partial fills of resting orders.
func (o *Order) Reduce(qty decimal.Decimal) decimal.Decimal {
	o.Size = o.Size.Sub(qty)
	return o.Size
}

// IsFilled reports whether no size remains.
func (o *Order) IsFilled() bool {
	return !o.Size.IsPositive()
}

func (o Order) String() string {
	switch o.Kind {
	case KindLimit:
		return fmt.Sprintf("%s %s %s %s @ %s", o.Trader, o.Kind, o.Side, o.Size, o.Price)
	case KindMarket:
		return fmt.Sprintf("%s %s %s %s", o.Trader, o.Kind, o.Side, o.Size)
	case KindCancel, KindModify:
		return fmt.Sprintf("%s %s id: %d", o.Trader, o.Kind, o.RefID)
	default:
		return fmt.Sprintf("%s unknown", o.Trader)
	}
}
