// =============================
// File: internal/curve/plan.go
// =============================
package curve

// BuyPlan describes the outcome of a buy before it is committed.
type BuyPlan struct {
	AmountIn       uint64 `json:"amount_in"`  // amount requested by the trader
	FeeAmount      uint64 `json:"fee_amount"` // fee on the requested amount
	AmountAfterFee uint64 `json:"amount_after_fee"`
	AmountOut      uint64 `json:"amount_out"`    // tokens delivered, after the sell-limit clamp
	FinalAmount    uint64 `json:"final_amount"`  // exchange asset actually debited from the trader
	FinalFee       uint64 `json:"final_fee"`     // part of FinalAmount sent to the fee collector
	RefundAmount   uint64 `json:"refund_amount"` // unspent part of AmountAfterFee when clamped
	Clamped        bool   `json:"clamped"`
}

// SellPlan describes the outcome of a sell before it is committed.
type SellPlan struct {
	AmountIn  uint64 `json:"amount_in"`  // tokens taken from the trader
	AmountOut uint64 `json:"amount_out"` // gross proceeds quoted by the curve
	FeeAmount uint64 `json:"fee_amount"`
	Payout    uint64 `json:"payout"` // AmountOut - FeeAmount, paid to the trader
}

// PlanBuy applies the fee, quotes the curve and clamps the result at the
// sell limit, refunding the unspent input and its share of the fee.
func PlanBuy(s State, proportion float64, feeBps, amountIn uint64) (BuyPlan, error) {
	if amountIn == 0 {
		return BuyPlan{}, ErrInvalidAmount
	}

	fee, err := FeeAmount(amountIn, feeBps)
	if err != nil {
		return BuyPlan{}, err
	}
	afterFee := amountIn - fee

	out, err := BuyAmount(s, proportion, afterFee)
	if err != nil {
		return BuyPlan{}, err
	}

	plan := BuyPlan{
		AmountIn:       amountIn,
		FeeAmount:      fee,
		AmountAfterFee: afterFee,
		AmountOut:      out,
		FinalAmount:    amountIn,
		FinalFee:       fee,
	}

	maxAllowed := SellLimit(s.TotalSupply)
	current := s.Sold()
	if current+out > maxAllowed {
		var clampedOut uint64
		if current < maxAllowed {
			clampedOut = maxAllowed - current
		}
		if clampedOut == 0 {
			return BuyPlan{}, ErrNotEnoughTokenInVault
		}

		newAmount, err := CostBetween(proportion, current, current+clampedOut)
		if err != nil {
			return BuyPlan{}, err
		}
		// округление может дать на лампорт больше, чем было
		if newAmount > afterFee {
			newAmount = afterFee
		}
		// остаток до лимита меньше лампорта: бесплатно токены не отдаём
		if newAmount == 0 {
			return BuyPlan{}, ErrNotEnoughTokenInVault
		}

		refund := afterFee - newAmount
		var refundFee uint64
		if afterFee > 0 {
			refundFee, err = MulDiv(fee, refund, afterFee)
			if err != nil {
				return BuyPlan{}, err
			}
		}

		plan.AmountOut = clampedOut
		plan.RefundAmount = refund
		plan.FinalFee = fee - refundFee
		plan.FinalAmount = newAmount + plan.FinalFee
		plan.Clamped = true
	}

	if plan.AmountOut > s.ReserveToken {
		return BuyPlan{}, ErrNotEnoughTokenInVault
	}
	return plan, nil
}

// PlanSell quotes the curve for amountIn tokens and splits the proceeds into
// fee and payout.
func PlanSell(s State, proportion float64, feeBps, amountIn uint64) (SellPlan, error) {
	if amountIn == 0 {
		return SellPlan{}, ErrInvalidAmount
	}
	if s.ReserveToken < amountIn {
		return SellPlan{}, ErrTokenAmountToSellTooBig
	}

	gross, err := SellAmount(s, proportion, amountIn)
	if err != nil {
		return SellPlan{}, err
	}
	fee, err := FeeAmount(gross, feeBps)
	if err != nil {
		return SellPlan{}, err
	}

	return SellPlan{
		AmountIn:  amountIn,
		AmountOut: gross,
		FeeAmount: fee,
		Payout:    gross - fee,
	}, nil
}

// ApplyBuy returns the state after a committed buy.
func (s State) ApplyBuy(p BuyPlan) (State, error) {
	if p.AmountOut > s.ReserveToken {
		return s, ErrNotEnoughTokenInVault
	}
	reserveExchange := s.ReserveExchange + p.FinalAmount
	if reserveExchange < s.ReserveExchange {
		return s, ErrOverflowOrUnderflowOccurred
	}
	return State{
		TotalSupply:     s.TotalSupply,
		ReserveToken:    s.ReserveToken - p.AmountOut,
		ReserveExchange: reserveExchange,
	}, nil
}

// ApplySell returns the state after a committed sell.
func (s State) ApplySell(p SellPlan) (State, error) {
	reserveToken := s.ReserveToken + p.AmountIn
	if reserveToken < s.ReserveToken || reserveToken > s.TotalSupply {
		return s, ErrOverflowOrUnderflowOccurred
	}
	if p.Payout > s.ReserveExchange {
		return s, ErrNotEnoughExchangeTokenInVault
	}
	return State{
		TotalSupply:     s.TotalSupply,
		ReserveToken:    reserveToken,
		ReserveExchange: s.ReserveExchange - p.Payout,
	}, nil
}
