package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

var (
	alice = solana.NewWallet().PublicKey()
	bob   = solana.NewWallet().PublicKey()
	base  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// generateTestTrades returns trades newest first, as storage lists them.
func generateTestTrades() []*types.TradeRecord {
	return []*types.TradeRecord{
		{ID: "3", Trader: alice, IsBuy: false, AmountIn: 500, AmountOut: 90, Fee: 1, Timestamp: base.Add(2 * time.Minute)},
		{ID: "2", Trader: bob, IsBuy: true, AmountIn: 200, AmountOut: 1_000, Fee: 2, Timestamp: base.Add(time.Minute)},
		{ID: "1", Trader: alice, IsBuy: true, AmountIn: 100, AmountOut: 700, Fee: 1, Timestamp: base},
	}
}

func TestTradeExportCSV(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())
	var buf bytes.Buffer

	n, err := exporter.ExportTrades(&buf, generateTestTrades(), ExportOptions{Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeaders(), rows[0])
	assert.Equal(t, "1", rows[1][0], "oldest first")
	assert.Equal(t, "buy", rows[1][5])
	assert.Equal(t, "sell", rows[3][5])
	assert.Equal(t, "500", rows[3][6])
}

func TestTradeExportJSON(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())
	var buf bytes.Buffer

	_, err := exporter.ExportTrades(&buf, generateTestTrades(), ExportOptions{Format: FormatJSON})
	require.NoError(t, err)

	var doc struct {
		TradeCount int                  `json:"trade_count"`
		Trades     []*types.TradeRecord `json:"trades"`
		Summary    ExportSummary        `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 3, doc.TradeCount)
	assert.Equal(t, 2, doc.Summary.BuyCount)
	assert.Equal(t, 1, doc.Summary.SellCount)
	assert.Equal(t, 2, doc.Summary.UniqueTraders)
	assert.Equal(t, uint64(300), doc.Summary.TotalBuyVolume)
	assert.Equal(t, uint64(90), doc.Summary.TotalSellVolume)
	assert.Equal(t, uint64(1_700), doc.Summary.TokensBought)
	assert.Equal(t, uint64(500), doc.Summary.TokensSold)
	assert.Equal(t, uint64(4), doc.Summary.TotalFees)
	assert.True(t, doc.Summary.StartDate.Equal(base))
}

func TestTradeExportFilters(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())

	tests := []struct {
		name string
		opts ExportOptions
		want int
	}{
		{"side buy", ExportOptions{SideFilter: "buy"}, 2},
		{"side sell", ExportOptions{SideFilter: "sell"}, 1},
		{"trader", ExportOptions{TraderFilter: alice.String()}, 2},
		{"from", ExportOptions{StartTime: base.Add(30 * time.Second)}, 2},
		{"until", ExportOptions{EndTime: base.Add(30 * time.Second)}, 1},
		{"nothing", ExportOptions{SideFilter: "buy", TraderFilter: solana.NewWallet().PublicKey().String()}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := exporter.ExportTrades(&buf, generateTestTrades(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
