package curve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanBuy_NoClamp(t *testing.T) {
	plan, err := PlanBuy(freshState(), DefaultProportion, 100, Unit)
	require.NoError(t, err)

	assert.Equal(t, uint64(10_000_000), plan.FeeAmount)
	assert.Equal(t, uint64(990_000_000), plan.AmountAfterFee)
	assert.Equal(t, uint64(35597752738059184), plan.AmountOut)
	assert.Equal(t, uint64(Unit), plan.FinalAmount)
	assert.Equal(t, plan.FeeAmount, plan.FinalFee)
	assert.Zero(t, plan.RefundAmount)
	assert.False(t, plan.Clamped)
}

func TestPlanBuy_QuoteConsistency(t *testing.T) {
	s := freshState()
	quote, err := BuyAmount(s, DefaultProportion, 5*Unit)
	require.NoError(t, err)

	plan, err := PlanBuy(s, DefaultProportion, 0, 5*Unit)
	require.NoError(t, err)
	assert.Equal(t, quote, plan.AmountOut)
}

func TestPlanBuy_ClampAtSellLimit(t *testing.T) {
	tests := []struct {
		name        string
		feeBps      uint64
		amountIn    uint64
		finalAmount uint64
		finalFee    uint64
		refund      uint64
	}{
		{"100 bps", 100, 600 * Unit, 505_050_505_051, 5_050_505_051, 94_000_000_000},
		{"no fee", 0, 600 * Unit, 500_000_000_000, 0, 100_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := freshState()
			plan, err := PlanBuy(s, DefaultProportion, tt.feeBps, tt.amountIn)
			require.NoError(t, err)

			assert.True(t, plan.Clamped)
			assert.Equal(t, SellLimit(s.TotalSupply), plan.AmountOut)
			assert.Equal(t, tt.finalAmount, plan.FinalAmount)
			assert.Equal(t, tt.finalFee, plan.FinalFee)
			assert.Equal(t, tt.refund, plan.RefundAmount)
			assert.Less(t, plan.FinalAmount, tt.amountIn, "clamped buy must debit less than requested")

			next, err := s.ApplyBuy(plan)
			require.NoError(t, err)
			assert.LessOrEqual(t, next.Sold(), SellLimit(next.TotalSupply))
		})
	}
}

func TestPlanBuy_TwoStageClamp(t *testing.T) {
	s := freshState()
	first, err := PlanBuy(s, DefaultProportion, 100, 400*Unit)
	require.NoError(t, err)
	assert.False(t, first.Clamped)
	assert.Equal(t, uint64(711955054761183616), first.AmountOut)

	s, err = s.ApplyBuy(first)
	require.NoError(t, err)

	second, err := PlanBuy(s, DefaultProportion, 100, 200*Unit)
	require.NoError(t, err)
	assert.True(t, second.Clamped)
	assert.Equal(t, uint64(88044945238816384), second.AmountOut)
	assert.Equal(t, uint64(94_000_000_000), second.RefundAmount)
	assert.Equal(t, uint64(1_050_505_051), second.FinalFee)
	assert.Equal(t, uint64(105_050_505_051), second.FinalAmount)

	s, err = s.ApplyBuy(second)
	require.NoError(t, err)
	assert.Equal(t, SellLimit(s.TotalSupply), s.Sold())

	// лимит исчерпан
	_, err = PlanBuy(s, DefaultProportion, 100, Unit)
	assert.ErrorIs(t, err, ErrNotEnoughTokenInVault)
}

func TestPlanBuy_FullFee(t *testing.T) {
	// весь вход уходит в комиссию: amount_after_fee = 0, деления на ноль быть не должно
	_, err := PlanBuy(freshState(), DefaultProportion, BasisPoints, Unit)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPlanBuy_ZeroAmount(t *testing.T) {
	_, err := PlanBuy(freshState(), DefaultProportion, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPlanSell_WithFee(t *testing.T) {
	s := freshState()
	buy, err := PlanBuy(s, DefaultProportion, 100, Unit)
	require.NoError(t, err)
	s, err = s.ApplyBuy(buy)
	require.NoError(t, err)

	sell, err := PlanSell(s, DefaultProportion, 100, buy.AmountOut)
	require.NoError(t, err)
	assert.Equal(t, uint64(990_000_000), sell.AmountOut)
	assert.Equal(t, uint64(9_900_000), sell.FeeAmount)
	assert.Equal(t, uint64(980_100_000), sell.Payout)
	assert.LessOrEqual(t, sell.Payout, buy.FinalAmount)

	next, err := s.ApplySell(sell)
	require.NoError(t, err)
	assert.Equal(t, next.TotalSupply, next.ReserveToken)
	assert.Equal(t, s.ReserveExchange-sell.Payout, next.ReserveExchange)
}

func TestPlanSell_Errors(t *testing.T) {
	s := freshState()
	_, err := PlanSell(s, DefaultProportion, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = PlanSell(s, DefaultProportion, 100, s.ReserveToken+1)
	assert.ErrorIs(t, err, ErrTokenAmountToSellTooBig)
}

func TestRoundTripBound(t *testing.T) {
	for _, fee := range []uint64{0, 1, 100, 250, 1000} {
		// 100*Unit покупает ~0.36e18, обратная продажа ещё помещается в резерв
		for _, amount := range []uint64{1_000_000, Unit, 37 * Unit, 100 * Unit} {
			t.Run(fmt.Sprintf("fee=%d/amount=%d", fee, amount), func(t *testing.T) {
				s := freshState()
				buy, err := PlanBuy(s, DefaultProportion, fee, amount)
				require.NoError(t, err)
				s, err = s.ApplyBuy(buy)
				require.NoError(t, err)

				sell, err := PlanSell(s, DefaultProportion, fee, buy.AmountOut)
				require.NoError(t, err)
				assert.LessOrEqual(t, sell.Payout, amount)
				if fee > 0 {
					assert.Less(t, sell.Payout, amount)
				}
			})
		}
	}
}

func TestReserveInvariants(t *testing.T) {
	s := freshState()
	amounts := []uint64{Unit, 3 * Unit, 50 * Unit, 200 * Unit, 400 * Unit, 10 * Unit}
	var held []uint64

	for _, a := range amounts {
		plan, err := PlanBuy(s, DefaultProportion, 100, a)
		if err != nil {
			require.ErrorIs(t, err, ErrNotEnoughTokenInVault)
			continue
		}
		s, err = s.ApplyBuy(plan)
		require.NoError(t, err)
		held = append(held, plan.AmountOut)

		assert.LessOrEqual(t, s.ReserveToken, s.TotalSupply)
		assert.LessOrEqual(t, s.Sold(), SellLimit(s.TotalSupply))
	}

	// за один раз нельзя продать больше, чем лежит в резерве, поэтому продаём частями
	for i := len(held) - 1; i >= 0; i-- {
		for left := held[i]; left > 0; {
			chunk := min(left, s.ReserveToken)
			plan, err := PlanSell(s, DefaultProportion, 100, chunk)
			require.NoError(t, err)
			s, err = s.ApplySell(plan)
			require.NoError(t, err)
			assert.LessOrEqual(t, s.ReserveToken, s.TotalSupply)
			left -= chunk
		}
	}
	assert.Equal(t, s.TotalSupply, s.ReserveToken)
}

func TestPlanSell_MoreThanReserve(t *testing.T) {
	s := freshState()
	buy, err := PlanBuy(s, DefaultProportion, 100, 250*Unit)
	require.NoError(t, err)
	s, err = s.ApplyBuy(buy)
	require.NoError(t, err)
	require.Greater(t, buy.AmountOut, s.ReserveToken)

	_, err = PlanSell(s, DefaultProportion, 100, buy.AmountOut)
	assert.ErrorIs(t, err, ErrTokenAmountToSellTooBig)

	// ровно весь резерв продать можно
	sell, err := PlanSell(s, DefaultProportion, 100, s.ReserveToken)
	require.NoError(t, err)
	assert.Greater(t, sell.Payout, uint64(0))
}

func TestPlanBuy_DustClampRejected(t *testing.T) {
	// до лимита продаж осталось 300 сырых токенов: их стоимость округляется в ноль
	s := State{
		TotalSupply:     testSupply,
		ReserveToken:    testSupply - (SellLimit(testSupply) - 300),
		ReserveExchange: 500 * Unit,
	}
	cost, err := CostBetween(DefaultProportion, s.Sold(), SellLimit(s.TotalSupply))
	require.NoError(t, err)
	require.Zero(t, cost)

	for _, fee := range []uint64{0, 100} {
		_, err := PlanBuy(s, DefaultProportion, fee, Unit)
		assert.ErrorIs(t, err, ErrNotEnoughTokenInVault, "fee=%d", fee)
	}
}

func TestApplySell_Overflow(t *testing.T) {
	s := State{TotalSupply: 10, ReserveToken: 9, ReserveExchange: 5}
	_, err := s.ApplySell(SellPlan{AmountIn: 2, Payout: 1})
	assert.ErrorIs(t, err, ErrOverflowOrUnderflowOccurred)

	_, err = s.ApplySell(SellPlan{AmountIn: 1, Payout: 6})
	assert.ErrorIs(t, err, ErrNotEnoughExchangeTokenInVault)
}
