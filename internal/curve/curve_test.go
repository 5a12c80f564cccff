package curve

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSupply = uint64(VirtualSupplyUnits) * Unit

func freshState() State {
	return State{TotalSupply: testSupply, ReserveToken: testSupply, ReserveExchange: Unit}
}

func TestBuyAmount_OneExchangeUnit(t *testing.T) {
	out, err := BuyAmount(freshState(), DefaultProportion, 1_000_000_000)
	require.NoError(t, err)

	// round(sqrt(1280) * 1e15)
	assert.Equal(t, uint64(35777087639996640), out)
	t.Logf("Raw output: %d", out)
}

func TestBuyAmount_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		amountIn uint64
		expected uint64
	}{
		{"fresh 2 units", freshState(), 2_000_000_000, 50596442562694072},
		{"fresh 100 units", freshState(), 100_000_000_000, 357770876399966336},
		{
			name:     "1 unit after 100 units sold",
			state:    State{TotalSupply: testSupply, ReserveToken: testSupply - 357770876399966336, ReserveExchange: 101 * Unit},
			amountIn: 1_000_000_000,
			expected: 1784404467941386,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := BuyAmount(tt.state, DefaultProportion, tt.amountIn)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestBuyAmount_Errors(t *testing.T) {
	_, err := BuyAmount(freshState(), DefaultProportion, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	drained := State{TotalSupply: testSupply, ReserveToken: 1_000_000, ReserveExchange: Unit}
	_, err = BuyAmount(drained, DefaultProportion, 1_000_000_000)
	assert.ErrorIs(t, err, ErrNotEnoughTokenInVault)

	// пул без ликвидности
	_, err = BuyAmount(State{}, DefaultProportion, 1_000_000_000)
	assert.ErrorIs(t, err, ErrNotEnoughTokenInVault)

	_, err = BuyAmount(freshState(), math.Inf(1), 1_000_000_000)
	assert.ErrorIs(t, err, ErrOverflowOrUnderflowOccurred)
}

func TestSellAmount_RoundTrip(t *testing.T) {
	s := freshState()
	out, err := BuyAmount(s, DefaultProportion, Unit)
	require.NoError(t, err)

	after := State{TotalSupply: testSupply, ReserveToken: testSupply - out, ReserveExchange: 2 * Unit}
	back, err := SellAmount(after, DefaultProportion, out)
	require.NoError(t, err)
	assert.Equal(t, uint64(Unit), back, "zero-fee round trip must return the input exactly")
}

func TestSellAmount_Errors(t *testing.T) {
	s := State{TotalSupply: testSupply, ReserveToken: testSupply - 35777087639996640, ReserveExchange: 2 * Unit}

	_, err := SellAmount(s, DefaultProportion, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = SellAmount(s, DefaultProportion, s.ReserveToken+1)
	assert.ErrorIs(t, err, ErrTokenAmountToSellTooBig)

	// больше, чем было продано
	_, err = SellAmount(s, DefaultProportion, 35777087639996641)
	assert.ErrorIs(t, err, ErrTokenAmountToSellTooBig)

	s.ReserveExchange = 10
	_, err = SellAmount(s, DefaultProportion, 35777087639996640)
	assert.ErrorIs(t, err, ErrNotEnoughExchangeTokenInVault)
}

func TestMarketCap(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected uint64
	}{
		{"empty pool", State{}, 0},
		{"fresh pool", freshState(), 0},
		{"after 1 unit", State{TotalSupply: testSupply, ReserveToken: testSupply - 35777087639996640}, 1_000_000_000},
		{"after 100 units", State{TotalSupply: testSupply, ReserveToken: testSupply - 357770876399966336}, 100_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc, err := MarketCap(tt.state, DefaultProportion)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mc)
		})
	}
}

func TestCostBetween(t *testing.T) {
	cost, err := CostBetween(DefaultProportion, 0, 800_000_000*Unit)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000_000), cost)

	zero, err := CostBetween(DefaultProportion, 42, 42)
	require.NoError(t, err)
	assert.Zero(t, zero)

	_, err = CostBetween(DefaultProportion, 2, 1)
	assert.ErrorIs(t, err, ErrNegativeNumber)
}

func TestBuyAmount_Monotonic(t *testing.T) {
	s := freshState()
	var prev uint64
	for i := uint64(1); i <= 200; i++ {
		out, err := BuyAmount(s, DefaultProportion, i*1_000_000)
		require.NoError(t, err)
		require.Greater(t, out, prev, "amount_in=%d", i*1_000_000)
		prev = out
	}
}

func TestSellAmount_Monotonic(t *testing.T) {
	s := State{TotalSupply: testSupply, ReserveToken: testSupply - 357770876399966336, ReserveExchange: 101 * Unit}
	var prev uint64
	for i := uint64(1); i <= 200; i++ {
		out, err := SellAmount(s, DefaultProportion, i*1_000_000_000_000)
		require.NoError(t, err)
		require.Greater(t, out, prev, "token_amount=%d", i*1_000_000_000_000)
		prev = out
	}
}

func TestRoundToUint64(t *testing.T) {
	tests := []struct {
		in      float64
		want    uint64
		wantErr bool
	}{
		{0.5, 1, false},
		{1.5, 2, false},
		{2.5, 3, false},
		{2.4999, 2, false},
		{-0.4, 0, false},
		{-1, 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
		{twoPow64, 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.in), func(t *testing.T) {
			got, err := roundToUint64(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflowOrUnderflowOccurred)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(math.MaxUint64, math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)

	got, err = MulDiv(7, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got)

	_, err = MulDiv(math.MaxUint64, 2, 1)
	assert.ErrorIs(t, err, ErrOverflowOrUnderflowOccurred)

	_, err = MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, ErrOverflowOrUnderflowOccurred)

	assert.Equal(t, uint64(800_000_000*Unit), SellLimit(testSupply))
}

func TestVirtualSupply(t *testing.T) {
	s, err := VirtualSupply(9)
	require.NoError(t, err)
	assert.Equal(t, testSupply, s)

	s, err = VirtualSupply(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(VirtualSupplyUnits), s)

	s, err = VirtualSupply(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000_000_000_000_000), s)

	_, err = VirtualSupply(11)
	assert.ErrorIs(t, err, ErrInvalidDecimalValue)
}
