// Package export writes simulation results to CSV and JSON. Writer-based
// functions carry the formatting logic; the file-path wrappers add creation
// and logging.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/frankieycy/order-book-simulator/engine"
	"github.com/frankieycy/order-book-simulator/logging"
)

var tradesHeader = []string{"TIME", "ID", "SIZE", "PRICE", "DIRECTION"}

// WriteTrades writes the trade log as CSV. ID is the resting order hit by
// the trade; DIRECTION is +1 for bid-side aggressors and -1 for ask-side.
func WriteTrades(w io.Writer, trades []engine.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradesHeader); err != nil {
		return errors.Wrap(err, "writing trades header")
	}
	for _, trade := range trades {
		record := []string{
			strconv.FormatInt(trade.Time, 10),
			strconv.FormatInt(trade.BookOrderID(), 10),
			trade.Size.String(),
			trade.Price.String(),
			strconv.Itoa(trade.Side.Direction()),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing trade record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing trades")
}

// WriteTradesJSON writes the trade log as a JSON array.
func WriteTradesJSON(w io.Writer, trades []engine.Trade) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(trades), "encoding trades")
}

// depthLogs pairs the two sides of a snapshot history for serialization.
type depthLogs struct {
	Bids map[int64][]engine.LevelDepth `json:"BID"`
	Asks map[int64][]engine.LevelDepth `json:"ASK"`
}

// WriteDepths writes the depth snapshot history as CSV, one row per step.
// Columns are BIDn_PRICE/BIDn_SIZE then ASKn_PRICE/ASKn_SIZE out to the
// deepest snapshot seen; shallower rows pad with empty fields.
func WriteDepths(w io.Writer, bids, asks map[int64][]engine.LevelDepth) error {
	times := snapshotTimes(bids, asks)
	levels := 0
	for _, t := range times {
		if n := len(bids[t]); n > levels {
			levels = n
		}
		if n := len(asks[t]); n > levels {
			levels = n
		}
	}

	header := []string{"TIME"}
	for _, side := range []string{"BID", "ASK"} {
		for i := 1; i <= levels; i++ {
			n := strconv.Itoa(i)
			header = append(header, side+n+"_PRICE", side+n+"_SIZE")
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing depths header")
	}
	for _, t := range times {
		record := []string{strconv.FormatInt(t, 10)}
		record = appendLevels(record, bids[t], levels)
		record = appendLevels(record, asks[t], levels)
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing depth record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing depths")
}

// WriteDepthsJSON writes the snapshot history as {"BID": {...}, "ASK": {...}}
// keyed by step.
func WriteDepthsJSON(w io.Writer, bids, asks map[int64][]engine.LevelDepth) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(depthLogs{Bids: bids, Asks: asks}), "encoding depths")
}

// WriteTradesFile writes the trade log to path, as JSON if asJSON else CSV.
func WriteTradesFile(path string, trades []engine.Trade, asJSON bool) error {
	return writeFile(path, formatName(asJSON), len(trades), func(w io.Writer) error {
		if asJSON {
			return WriteTradesJSON(w, trades)
		}
		return WriteTrades(w, trades)
	})
}

// WriteDepthsFile writes the snapshot history to path, as JSON if asJSON
// else CSV.
func WriteDepthsFile(path string, bids, asks map[int64][]engine.LevelDepth, asJSON bool) error {
	return writeFile(path, formatName(asJSON), len(bids), func(w io.Writer) error {
		if asJSON {
			return WriteDepthsJSON(w, bids, asks)
		}
		return WriteDepths(w, bids, asks)
	})
}

func writeFile(path, format string, records int, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	logging.LogExportWritten(path, format, records)
	return nil
}

func formatName(asJSON bool) string {
	if asJSON {
		return "json"
	}
	return "csv"
}

// appendLevels appends price/size pairs out to levels columns, padding
// missing depth with empty fields.
func appendLevels(record []string, snap []engine.LevelDepth, levels int) []string {
	for i := 0; i < levels; i++ {
		if i < len(snap) {
			record = append(record, snap[i].Price.String(), snap[i].Depth.String())
		} else {
			record = append(record, "", "")
		}
	}
	return record
}

func snapshotTimes(bids, asks map[int64][]engine.LevelDepth) []int64 {
	seen := make(map[int64]struct{}, len(bids))
	for t := range bids {
		seen[t] = struct{}{}
	}
	for t := range asks {
		seen[t] = struct{}{}
	}
	times := make([]int64, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}
