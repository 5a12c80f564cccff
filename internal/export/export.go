package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat maps "", "csv" and "json" to a format.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// ContentType returns the HTTP content type of the format.
func (f ExportFormat) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format       ExportFormat
	StartTime    time.Time
	EndTime      time.Time
	SideFilter   string // buy, sell или пусто
	TraderFilter string // base58 адрес
}

// TradeExporter handles trade export functionality
type TradeExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	return &TradeExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// ExportTrades writes the filtered trades, oldest first, to w.
// An empty result still produces a header (csv) or an empty document (json).
func (te *TradeExporter) ExportTrades(w io.Writer, trades []*types.TradeRecord, options ExportOptions) (int, error) {
	filtered := te.filterTrades(trades, options)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	var err error
	switch options.Format {
	case FormatCSV, "":
		err = te.exportToCSV(w, filtered)
	case FormatJSON:
		err = te.exportToJSON(w, filtered)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return 0, err
	}

	te.logger.Debug("Trades exported",
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))
	return len(filtered), nil
}

// filterTrades applies filters to the trade list
func (te *TradeExporter) filterTrades(trades []*types.TradeRecord, options ExportOptions) []*types.TradeRecord {
	filtered := make([]*types.TradeRecord, 0, len(trades))

	for _, trade := range trades {
		if !options.StartTime.IsZero() && trade.Timestamp.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && trade.Timestamp.After(options.EndTime) {
			continue
		}
		if options.SideFilter != "" && trade.Side() != options.SideFilter {
			continue
		}
		if options.TraderFilter != "" && trade.Trader.String() != options.TraderFilter {
			continue
		}
		filtered = append(filtered, trade)
	}

	return filtered
}

// CSVHeaders returns the column names of the csv export.
func CSVHeaders() []string {
	return []string{
		"id", "timestamp", "pool", "mint", "trader", "side",
		"amount_in", "amount_out", "fee",
		"reserve_token_before", "reserve_token_after",
		"reserve_exchange_before", "reserve_exchange_after",
	}
}

func toCSV(t *types.TradeRecord) []string {
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }
	return []string{
		t.ID, t.Timestamp.UTC().Format(time.RFC3339Nano), t.Pool.String(), t.Mint.String(), t.Trader.String(), t.Side(),
		u(t.AmountIn), u(t.AmountOut), u(t.Fee),
		u(t.ReserveTokenBefore), u(t.ReserveTokenAfter),
		u(t.ReserveExchangeBefore), u(t.ReserveExchangeAfter),
	}
}

// exportToCSV exports trades to CSV format
func (te *TradeExporter) exportToCSV(w io.Writer, trades []*types.TradeRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, trade := range trades {
		if err := writer.Write(toCSV(trade)); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportToJSON exports trades to JSON format
func (te *TradeExporter) exportToJSON(w io.Writer, trades []*types.TradeRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time            `json:"export_time"`
		TradeCount int                  `json:"trade_count"`
		Trades     []*types.TradeRecord `json:"trades"`
		Summary    ExportSummary        `json:"summary"`
	}{
		ExportTime: te.now().UTC(),
		TradeCount: len(trades),
		Trades:     trades,
		Summary:    Summarize(trades),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportSummary contains summary statistics for exported trades.
// Volumes and fees are in exchange-asset lamports.
type ExportSummary struct {
	TotalTrades     int       `json:"total_trades"`
	BuyCount        int       `json:"buy_count"`
	SellCount       int       `json:"sell_count"`
	UniqueTraders   int       `json:"unique_traders"`
	TotalBuyVolume  uint64    `json:"total_buy_volume"`
	TotalSellVolume uint64    `json:"total_sell_volume"`
	TokensBought    uint64    `json:"tokens_bought"`
	TokensSold      uint64    `json:"tokens_sold"`
	TotalFees       uint64    `json:"total_fees"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

// Summarize calculates summary statistics; trades must be sorted oldest first.
func Summarize(trades []*types.TradeRecord) ExportSummary {
	summary := ExportSummary{
		TotalTrades: len(trades),
	}
	if len(trades) == 0 {
		return summary
	}

	summary.StartDate = trades[0].Timestamp
	summary.EndDate = trades[len(trades)-1].Timestamp

	traders := make(map[string]struct{})
	for _, trade := range trades {
		traders[trade.Trader.String()] = struct{}{}
		summary.TotalFees += trade.Fee

		if trade.IsBuy {
			summary.BuyCount++
			summary.TotalBuyVolume += trade.AmountIn
			summary.TokensBought += trade.AmountOut
		} else {
			summary.SellCount++
			summary.TotalSellVolume += trade.AmountOut
			summary.TokensSold += trade.AmountIn
		}
	}
	summary.UniqueTraders = len(traders)

	return summary
}
