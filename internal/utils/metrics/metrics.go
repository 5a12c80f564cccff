// internal/utils/metrics/metrics.go
package metrics

import (
	"context"
	"time"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// RecordOperation записывает исход и длительность операции движка
func (c *Collector) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	if c == nil {
		return
	}

	status, kind := "success", ""
	switch {
	case ctx.Err() != nil:
		status = "cancelled"
	case err != nil:
		status = "failure"
		kind = curve.KindOf(err).String()
	}

	c.operations.WithLabelValues(operation, status, kind).Inc()
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetPoolReserves обновляет гауги резервов пула
func (c *Collector) SetPoolReserves(pool *types.LiquidityPool) {
	if c == nil {
		return
	}
	addr := pool.Address.String()
	c.reserves.WithLabelValues(addr, "token").Set(float64(pool.ReserveToken))
	c.reserves.WithLabelValues(addr, "exchange").Set(float64(pool.ReserveExchange))
}

// RecordTrade учитывает объем сделки в единицах обменного актива
func (c *Collector) RecordTrade(rec *types.TradeRecord) {
	if c == nil {
		return
	}
	amount := rec.AmountIn
	if !rec.IsBuy {
		amount = rec.AmountOut
	}
	c.volume.WithLabelValues(rec.Side()).Add(float64(amount))
}
