// internal/api/export.go
package api

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/export"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

const (
	exportPageSize  = 500
	maxExportTrades = 10_000
)

// exportTradesHandler отдает историю сделок пула в csv или json.
// Параметры: format, side, trader, from, to (RFC3339).
func (s *Server) exportTradesHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}

	opts, err := exportOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var trades []*types.TradeRecord
	for offset := 0; offset < maxExportTrades; offset += exportPageSize {
		page, err := s.engine.Trades(r.Context(), addr, exportPageSize, offset)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		trades = append(trades, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"trades_%s.%s\"", addr.String()[:8], opts.Format))
	w.WriteHeader(http.StatusOK)

	// заголовки уже отправлены, ошибку можно только залогировать
	if _, err := s.exporter.ExportTrades(w, trades, opts); err != nil {
		s.logger.Warn("Trade export interrupted", zap.Error(err))
	}
}

func exportOptions(r *http.Request) (export.ExportOptions, error) {
	q := r.URL.Query()
	var opts export.ExportOptions

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		return opts, fmt.Errorf("%v: %w", err, curve.ErrInvalidInput)
	}
	opts.Format = format

	switch side := q.Get("side"); side {
	case "", "buy", "sell":
		opts.SideFilter = side
	default:
		return opts, fmt.Errorf("side %q: %w", side, curve.ErrInvalidInput)
	}
	opts.TraderFilter = q.Get("trader")

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &opts.StartTime}, {"to", &opts.EndTime}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", p.name, curve.ErrInvalidInput)
		}
		*p.dst = t
	}
	return opts, nil
}
