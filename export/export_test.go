package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankieycy/order-book-simulator/engine"
	"github.com/frankieycy/order-book-simulator/models"
)

func sampleTrades() []engine.Trade {
	return []engine.Trade{
		{
			TradeID:   uuid.New(),
			Time:      5,
			Side:      models.SideBid,
			Size:      decimal.NewFromInt(2),
			Price:     decimal.NewFromInt(10),
			BookOrder: models.Order{ID: 7},
		},
		{
			TradeID:   uuid.New(),
			Time:      9,
			Side:      models.SideAsk,
			Size:      decimal.NewFromInt(1),
			Price:     decimal.NewFromInt(-3),
			BookOrder: models.Order{ID: 8},
		},
	}
}

func TestWriteTradesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, sampleTrades()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"TIME", "ID", "SIZE", "PRICE", "DIRECTION"}, records[0])
	assert.Equal(t, []string{"5", "7", "2", "10", "1"}, records[1])
	assert.Equal(t, []string{"9", "8", "1", "-3", "-1"}, records[2])
}

func TestWriteTradesJSONRoundTrip(t *testing.T) {
	trades := sampleTrades()
	var buf bytes.Buffer
	require.NoError(t, WriteTradesJSON(&buf, trades))

	var decoded []engine.Trade
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, trades[0].TradeID, decoded[0].TradeID)
	assert.True(t, decoded[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.SideAsk, decoded[1].Side)
}

func sampleDepths() (bids, asks map[int64][]engine.LevelDepth) {
	bids = map[int64][]engine.LevelDepth{
		100: {
			{Price: decimal.NewFromInt(-1), Depth: decimal.NewFromInt(3)},
			{Price: decimal.NewFromInt(-2), Depth: decimal.NewFromInt(5)},
		},
		200: {
			{Price: decimal.NewFromInt(-1), Depth: decimal.NewFromInt(2)},
		},
	}
	asks = map[int64][]engine.LevelDepth{
		100: {
			{Price: decimal.NewFromInt(1), Depth: decimal.NewFromInt(4)},
		},
		200: {
			{Price: decimal.NewFromInt(2), Depth: decimal.NewFromInt(6)},
		},
	}
	return bids, asks
}

func TestWriteDepthsCSV(t *testing.T) {
	bids, asks := sampleDepths()
	var buf bytes.Buffer
	require.NoError(t, WriteDepths(&buf, bids, asks))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Deepest snapshot has 2 levels, so each side gets 2 column pairs.
	assert.Equal(t, []string{
		"TIME",
		"BID1_PRICE", "BID1_SIZE", "BID2_PRICE", "BID2_SIZE",
		"ASK1_PRICE", "ASK1_SIZE", "ASK2_PRICE", "ASK2_SIZE",
	}, records[0])
	// Rows come out in ascending step order, padded where shallow.
	assert.Equal(t, []string{"100", "-1", "3", "-2", "5", "1", "4", "", ""}, records[1])
	assert.Equal(t, []string{"200", "-1", "2", "", "", "2", "6", "", ""}, records[2])
}

func TestWriteDepthsJSONRoundTrip(t *testing.T) {
	bids, asks := sampleDepths()
	var buf bytes.Buffer
	require.NoError(t, WriteDepthsJSON(&buf, bids, asks))

	var decoded struct {
		Bids map[int64][]engine.LevelDepth `json:"BID"`
		Asks map[int64][]engine.LevelDepth `json:"ASK"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Bids[100], 2)
	assert.True(t, decoded.Bids[100][0].Price.Equal(decimal.NewFromInt(-1)))
	assert.True(t, decoded.Asks[200][0].Depth.Equal(decimal.NewFromInt(6)))
}

func TestWriteTradesFile(t *testing.T) {
	path := t.TempDir() + "/trades.csv"
	require.NoError(t, WriteTradesFile(path, sampleTrades(), false))
	assert.FileExists(t, path)
}
