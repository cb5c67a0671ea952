package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// InitLogger initializes the structured logger with JSON format
func InitLogger() *logrus.Logger {
	log = logrus.New()

	// Set JSON formatter for structured logging
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(os.Stdout)

	// Set log level from environment or default to Info
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// SetLevel overrides the log level by name, e.g. from a config file.
func SetLevel(level string) {
	if parsed, err := logrus.ParseLevel(level); err == nil {
		GetLogger().SetLevel(parsed)
	}
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if log == nil {
		return InitLogger()
	}
	return log
}

// Event types as constants
const (
	EventOrderReceived  = "order_received"
	EventOrderRejected  = "order_rejected"
	EventOrderResting   = "order_resting"
	EventOrderCancelled = "order_cancelled"
	EventCancelMiss     = "cancel_miss"
	EventTradeExecuted  = "trade_executed"
	EventMarketDeferred = "market_order_deferred"
	EventMarketReplayed = "market_queue_replayed"
	EventSimStarted     = "simulation_started"
	EventSimFinished    = "simulation_finished"
	EventExportWritten  = "export_written"
)

// LogOrderReceived logs an order event entering the book.
func LogOrderReceived(book string, orderID int64, kind, side, size, price string) {
	GetLogger().WithFields(logrus.Fields{
		"event":    EventOrderReceived,
		"book":     book,
		"order_id": orderID,
		"kind":     kind,
		"side":     side,
		"size":     size,
		"price":    price,
	}).Debug("Order received")
}

// LogOrderRejected logs an order the book ignored (invalid side, unknown
// kind, unsupported modify). Rejections are no-ops, not failures.
func LogOrderRejected(book string, orderID int64, reason string) {
	GetLogger().WithFields(logrus.Fields{
		"event":    EventOrderRejected,
		"book":     book,
		"order_id": orderID,
		"reason":   reason,
	}).Warn("Order rejected")
}

// LogTradeExecuted logs a single execution against a resting order.
func LogTradeExecuted(book, tradeID string, bookOrderID, matchOrderID, time int64, side, size, price string) {
	GetLogger().WithFields(logrus.Fields{
		"event":          EventTradeExecuted,
		"book":           book,
		"trade_id":       tradeID,
		"book_order_id":  bookOrderID,
		"match_order_id": matchOrderID,
		"time":           time,
		"side":           side,
		"size":           size,
		"price":          price,
	}).Debug("Trade executed")
}

// LogOrderCancelled logs removal of a resting or deferred order.
func LogOrderCancelled(book string, refID int64, deferred bool) {
	GetLogger().WithFields(logrus.Fields{
		"event":    EventOrderCancelled,
		"book":     book,
		"ref_id":   refID,
		"deferred": deferred,
	}).Debug("Order cancelled")
}

// LogCancelMiss logs a cancel whose referenced id was not found anywhere.
// This is a normal race in order flow (the order already filled), so it is
// recorded at debug, not as an error.
func LogCancelMiss(book string, refID int64) {
	GetLogger().WithFields(logrus.Fields{
		"event":  EventCancelMiss,
		"book":   book,
		"ref_id": refID,
	}).Debug("Cancel referenced unknown order")
}

// LogMarketDeferred logs a market order parked on the deferred queue.
func LogMarketDeferred(book string, orderID int64, side, remaining string) {
	GetLogger().WithFields(logrus.Fields{
		"event":     EventMarketDeferred,
		"book":      book,
		"order_id":  orderID,
		"side":      side,
		"remaining": remaining,
	}).Debug("Market order deferred")
}

// LogSimStarted logs the start of a simulation run.
func LogSimStarted(book string, orders int, seed int64) {
	GetLogger().WithFields(logrus.Fields{
		"event":  EventSimStarted,
		"book":   book,
		"orders": orders,
		"seed":   seed,
	}).Info("Simulation started")
}

// LogSimFinished logs the end of a simulation run.
func LogSimFinished(book string, ordersSent, trades int, duration time.Duration) {
	GetLogger().WithFields(logrus.Fields{
		"event":       EventSimFinished,
		"book":        book,
		"orders_sent": ordersSent,
		"trades":      trades,
		"duration_ms": duration.Milliseconds(),
	}).Info("Simulation finished")
}

// LogExportWritten logs a completed export file.
func LogExportWritten(path, format string, records int) {
	GetLogger().WithFields(logrus.Fields{
		"event":   EventExportWritten,
		"path":    path,
		"format":  format,
		"records": records,
	}).Info("Export written")
}

// LogWithFields provides a flexible logging method
func LogWithFields(level logrus.Level, message string, fields logrus.Fields) {
	GetLogger().WithFields(fields).Log(level, message)
}
