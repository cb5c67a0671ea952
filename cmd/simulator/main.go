package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/frankieycy/order-book-simulator/config"
	"github.com/frankieycy/order-book-simulator/engine"
	"github.com/frankieycy/order-book-simulator/export"
	"github.com/frankieycy/order-book-simulator/logging"
	"github.com/frankieycy/order-book-simulator/profiling"
	"github.com/frankieycy/order-book-simulator/sim"
	"github.com/frankieycy/order-book-simulator/stats"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply if empty)")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile of the run to this file")
	memProfile := flag.String("memprofile", "", "write a heap profile after the run to this file")
	flag.Parse()

	logging.InitLogger()
	log := logging.GetLogger()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to load config")
		}
	}
	logging.SetLevel(cfg.Log.Level)

	profiler := profiling.NewProfiler(*cpuProfile, *memProfile)
	if err := profiler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start profiler")
	}

	book := engine.NewLimitOrderBook(cfg.Book.Name)
	book.Events().Subscribe(engine.EventTypeTrade, func(event engine.Event) {
		trade, ok := event.Data.(engine.TradeEvent)
		if !ok {
			return
		}
		logging.LogWithFields(logrus.DebugLevel, "Trade published", logrus.Fields{
			"trade_id": trade.TradeID.String(),
			"book":     trade.Book,
			"time":     trade.Time,
			"side":     string(trade.Side),
			"size":     trade.Size.String(),
			"price":    trade.Price.String(),
		})
	})

	agent := sim.NewZeroIntelligence(book, cfg.Sim)
	agent.InitBook(nil)
	agent.Simulate()

	if err := profiler.Stop(); err != nil {
		log.WithError(err).Error("Failed to stop profiler")
	}

	bookStats := stats.NewBookStats(agent.BidDepthsLog(), agent.AskDepthsLog(), book.Trades())
	if err := bookStats.Init(); err != nil {
		log.WithError(err).Fatal("Failed to compute book stats")
	}
	log.WithFields(logrus.Fields{
		"book":       cfg.Book.Name,
		"orders":     agent.OrdersSent(),
		"trades":     bookStats.TradeCount(),
		"volume":     bookStats.TotalVolume(),
		"vwap":       bookStats.VWAP(),
		"avg_spread": bookStats.AvgSpread(),
	}).Info("Simulation summary")

	if err := writeOutputs(cfg.Output, book, agent); err != nil {
		log.WithError(err).Fatal("Failed to write outputs")
	}
}

func writeOutputs(out config.OutputConfig, book *engine.LimitOrderBook, agent *sim.ZeroIntelligence) error {
	trades := book.Trades()
	bids, asks := agent.BidDepthsLog(), agent.AskDepthsLog()

	if out.TradesCSV != "" {
		if err := export.WriteTradesFile(out.TradesCSV, trades, false); err != nil {
			return err
		}
	}
	if out.TradesJSON != "" {
		if err := export.WriteTradesFile(out.TradesJSON, trades, true); err != nil {
			return err
		}
	}
	if out.DepthsCSV != "" {
		if err := export.WriteDepthsFile(out.DepthsCSV, bids, asks, false); err != nil {
			return err
		}
	}
	if out.DepthsJSON != "" {
		if err := export.WriteDepthsFile(out.DepthsJSON, bids, asks, true); err != nil {
			return err
		}
	}
	return nil
}
