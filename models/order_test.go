package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSideOpposite(t *testing.T) {
	if SideBid.Opposite() != SideAsk || SideAsk.Opposite() != SideBid {
		t.Error("sides must be mutual opposites")
	}
	if Side("hold").IsValid() {
		t.Error("unknown side must be invalid")
	}
}

func TestSideDirection(t *testing.T) {
	if SideBid.Direction() != 1 {
		t.Errorf("bid direction = %d, want 1", SideBid.Direction())
	}
	if SideAsk.Direction() != -1 {
		t.Errorf("ask direction = %d, want -1", SideAsk.Direction())
	}
}

func TestOrderValidation(t *testing.T) {
	cases := []struct {
		name  string
		order Order
		want  bool
	}{
		{"limit", NewLimitOrder(1, 0, "a", SideBid, decimal.NewFromInt(1), decimal.NewFromInt(10)), true},
		{"limit negative price", NewLimitOrder(2, 0, "a", SideBid, decimal.NewFromInt(1), decimal.NewFromInt(-5)), true},
		{"limit zero size", NewLimitOrder(3, 0, "a", SideBid, decimal.Zero, decimal.NewFromInt(10)), false},
		{"limit bad side", NewLimitOrder(4, 0, "a", Side("hold"), decimal.NewFromInt(1), decimal.NewFromInt(10)), false},
		{"market", NewMarketOrder(5, 0, "a", SideAsk, decimal.NewFromInt(2)), true},
		{"market negative size", NewMarketOrder(6, 0, "a", SideAsk, decimal.NewFromInt(-2)), false},
		{"cancel", NewCancelOrder(7, 0, "a", 1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.order.IsValid(); got != tc.want {
				t.Errorf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOrderReduce(t *testing.T) {
	order := NewLimitOrder(1, 0, "a", SideBid, decimal.NewFromInt(5), decimal.NewFromInt(10))

	order.Reduce(decimal.NewFromInt(3))
	if !order.Size.Equal(decimal.NewFromInt(2)) || order.IsFilled() {
		t.Errorf("expected size 2 unfilled, got %s", order.Size)
	}

	order.Reduce(decimal.NewFromInt(2))
	if !order.IsFilled() {
		t.Errorf("expected fully filled, size %s", order.Size)
	}
}
