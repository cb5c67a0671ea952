package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/models"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestPriceLevelFIFO(t *testing.T) {
	level := NewPriceLevel(d("100"))

	first := models.NewLimitOrder(1, 0, "a", models.SideBid, d("3"), d("100"))
	second := models.NewLimitOrder(2, 0, "b", models.SideBid, d("5"), d("100"))
	level.AddOrder(&first)
	level.AddOrder(&second)

	if !level.Volume.Equal(d("8")) {
		t.Errorf("expected volume 8, got %s", level.Volume)
	}
	if front := level.Front(); front == nil || front.ID != 1 {
		t.Errorf("expected order 1 at front, got %v", front)
	}
}

func TestPriceLevelRemoveOrder(t *testing.T) {
	level := NewPriceLevel(d("100"))
	order := models.NewLimitOrder(1, 0, "a", models.SideBid, d("3"), d("100"))
	element := level.AddOrder(&order)

	level.RemoveOrder(element)

	if !level.IsEmpty() {
		t.Error("expected empty level after removal")
	}
	if !level.Volume.IsZero() {
		t.Errorf("expected zero volume, got %s", level.Volume)
	}
}

func TestBookSidePriorityOrder(t *testing.T) {
	bids := newBookSide(models.SideBid)
	asks := newBookSide(models.SideAsk)
	for _, price := range []string{"99", "101", "100"} {
		for _, side := range []*bookSide{bids, asks} {
			order := models.NewLimitOrder(1, 0, "a", side.side, d("1"), d(price))
			level := side.getOrCreateLevel(order.Price)
			level.AddOrder(&order)
		}
	}

	if best := bids.bestLevel(); !best.Price.Equal(d("101")) {
		t.Errorf("expected best bid 101, got %s", best.Price)
	}
	if best := asks.bestLevel(); !best.Price.Equal(d("99")) {
		t.Errorf("expected best ask 99, got %s", best.Price)
	}

	var bidPrices []string
	bids.ascendPriority(func(level *PriceLevel) bool {
		bidPrices = append(bidPrices, level.Price.String())
		return true
	})
	want := []string{"101", "100", "99"}
	for i, price := range want {
		if bidPrices[i] != price {
			t.Fatalf("bid priority order %v, want %v", bidPrices, want)
		}
	}
}

func TestBookSideDepthBetween(t *testing.T) {
	asks := newBookSide(models.SideAsk)
	for i, price := range []string{"10", "11", "12", "13"} {
		order := models.NewLimitOrder(int64(i+1), 0, "a", models.SideAsk, d("2"), d(price))
		asks.getOrCreateLevel(order.Price).AddOrder(&order)
	}

	// Bounds are inclusive on both ends.
	if got := asks.depthBetween(d("11"), d("12")); !got.Equal(d("4")) {
		t.Errorf("depthBetween(11, 12) = %s, want 4", got)
	}
	if got := asks.depthBetween(d("14"), d("20")); !got.IsZero() {
		t.Errorf("depthBetween outside ladder = %s, want 0", got)
	}
}

func TestBookSideSnapDepths(t *testing.T) {
	bids := newBookSide(models.SideBid)
	for i, price := range []string{"98", "99", "100"} {
		order := models.NewLimitOrder(int64(i+1), 0, "a", models.SideBid, d("1"), d(price))
		bids.getOrCreateLevel(order.Price).AddOrder(&order)
	}

	snap := bids.snapDepths(2)
	if len(snap) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(snap))
	}
	if !snap[0].Price.Equal(d("100")) || !snap[1].Price.Equal(d("99")) {
		t.Errorf("snapshot not in priority order: %v", snap)
	}

	if all := bids.snapDepths(0); len(all) != 3 {
		t.Errorf("expected all 3 levels for levels<=0, got %d", len(all))
	}
}

func TestDeferredQueueOrdering(t *testing.T) {
	bids := newBookSide(models.SideBid)
	first := models.NewMarketOrder(1, 0, "a", models.SideBid, d("1"))
	second := models.NewMarketOrder(2, 0, "b", models.SideBid, d("1"))
	replayed := models.NewMarketOrder(3, 0, "c", models.SideBid, d("1"))

	bids.deferMarketOrder(&first, true)
	bids.deferMarketOrder(&second, true)
	// A requeued replay remainder goes back to the head.
	bids.deferMarketOrder(&replayed, false)

	want := []int64{3, 1, 2}
	for _, id := range want {
		if got := bids.popDeferred(); got.ID != id {
			t.Fatalf("expected deferred order %d, got %d", id, got.ID)
		}
	}
	if bids.popDeferred() != nil {
		t.Error("expected empty deferred queue")
	}
}

func TestRemoveDeferred(t *testing.T) {
	asks := newBookSide(models.SideAsk)
	first := models.NewMarketOrder(1, 0, "a", models.SideAsk, d("1"))
	second := models.NewMarketOrder(2, 0, "b", models.SideAsk, d("1"))
	asks.deferMarketOrder(&first, true)
	asks.deferMarketOrder(&second, true)

	if !asks.removeDeferred(1) {
		t.Fatal("expected to remove deferred order 1")
	}
	if asks.removeDeferred(1) {
		t.Error("removing the same id twice should fail")
	}
	if got := asks.popDeferred(); got == nil || got.ID != 2 {
		t.Errorf("expected order 2 left in queue, got %v", got)
	}
}
