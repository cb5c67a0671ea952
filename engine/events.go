package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/frankieycy/order-book-simulator/models"
)

type EventType string

const (
	EventTypeTrade          EventType = "Trade"
	EventTypeOrderResting   EventType = "OrderResting"
	EventTypeOrderCancelled EventType = "OrderCancelled"
	EventTypeBookChange     EventType = "BookChange"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// TradeEvent is published once per execution.
type TradeEvent struct {
	TradeID      uuid.UUID
	Book         string
	Time         int64
	Side         models.Side
	Price        decimal.Decimal
	Size         decimal.Decimal
	BookOrderID  int64
	MatchOrderID int64
}

// BookChangeEvent is published when a price level gains or loses size.
type BookChangeEvent struct {
	Book   string
	Side   models.Side
	Action string // "add" or "remove"
	Price  decimal.Decimal
	Size   decimal.Decimal
}

type EventListener func(event Event)

type EventBus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventListener),
	}
}

func (eb *EventBus) Subscribe(eventType EventType, listener EventListener) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.listeners[eventType] = append(eb.listeners[eventType], listener)
}

func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	listeners := eb.listeners[event.Type]
	eb.mu.RUnlock()

	for _, listener := range listeners {
		go listener(event)
	}
}

// Unsubscribe removes all listeners for a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	delete(eb.listeners, eventType)
}

// GetListenerCount returns the number of listeners for an event type
func (eb *EventBus) GetListenerCount(eventType EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.listeners[eventType])
}
