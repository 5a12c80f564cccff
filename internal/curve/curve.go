// =============================
// File: internal/curve/curve.go
// =============================
package curve

import (
	"math"
	"math/bits"
)

const (
	// Unit is one whole unit of the exchange asset in raw lamports.
	Unit = 1_000_000_000
	// BasisPoints is 100% expressed in basis points.
	BasisPoints = 10_000
	// SellLimitBps caps the share of the virtual supply that can be sold.
	SellLimitBps = 8_000
	// DefaultProportion is the reference curve steepness.
	DefaultProportion = 1280.0
	// VirtualSupplyUnits is the virtual supply in whole tokens; scaled by decimals at seeding time.
	VirtualSupplyUnits = 1_000_000_000
)

// State is the slice of a liquidity pool the curve formulas read.
type State struct {
	TotalSupply     uint64
	ReserveToken    uint64
	ReserveExchange uint64
}

// Sold returns TotalSupply - ReserveToken.
func (s State) Sold() uint64 {
	if s.ReserveToken >= s.TotalSupply {
		return 0
	}
	return s.TotalSupply - s.ReserveToken
}

// normalize переводит сырое количество токенов в нормализованные единицы кривой.
// Деление в два шага: порядок операций влияет на округление.
func normalize(raw float64) float64 {
	return raw / 1_000_000 / 1_000_000_000
}

func boughtAmount(s State) float64 {
	return normalize(float64(s.TotalSupply) - float64(s.ReserveToken))
}

// BuyAmount quotes how many tokens amountIn of the exchange asset buys.
// No state is mutated.
func BuyAmount(s State, proportion float64, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrInvalidAmount
	}

	bought := boughtAmount(s)
	// Явные float64() запрещают компилятору объединять умножение и сложение (FMA)
	arg := float64(proportion*float64(amountIn)/1_000_000_000) + float64(bought*bought)
	if arg < 0 {
		return 0, ErrNegativeNumber
	}
	root := math.Sqrt(arg)

	out, err := roundToUint64(float64(root-bought) * 1_000_000 * 1_000_000_000)
	if err != nil {
		return 0, err
	}
	if out > s.ReserveToken {
		return 0, ErrNotEnoughTokenInVault
	}
	return out, nil
}

// SellAmount quotes the gross exchange-asset proceeds for tokenAmount.
func SellAmount(s State, proportion float64, tokenAmount uint64) (uint64, error) {
	if tokenAmount == 0 {
		return 0, ErrInvalidAmount
	}
	if tokenAmount > s.ReserveToken || tokenAmount > s.Sold() {
		return 0, ErrTokenAmountToSellTooBig
	}

	bought := boughtAmount(s)
	result := normalize(float64(s.TotalSupply) - float64(s.ReserveToken) - float64(tokenAmount))

	out, err := roundToUint64(float64(float64(bought*bought)-float64(result*result)) / proportion * 1_000_000_000)
	if err != nil {
		return 0, err
	}
	if out > s.ReserveExchange {
		return 0, ErrNotEnoughExchangeTokenInVault
	}
	return out, nil
}

// MarketCap returns price * bought in exchange-asset lamports. Zero supply yields zero.
func MarketCap(s State, proportion float64) (uint64, error) {
	if s.TotalSupply == 0 {
		return 0, nil
	}
	bought := boughtAmount(s)
	price := bought / proportion
	return roundToUint64(float64(price*bought) * 1_000_000_000)
}

// CostBetween inverts the curve: the exchange-asset cost of moving the sold
// amount from fromSold to toSold raw tokens.
func CostBetween(proportion float64, fromSold, toSold uint64) (uint64, error) {
	if toSold < fromSold {
		return 0, ErrNegativeNumber
	}
	from := normalize(float64(fromSold))
	to := normalize(float64(toSold))
	return roundToUint64(float64(float64(to*to)-float64(from*from)) / proportion * 1_000_000_000)
}

// VirtualSupply returns VirtualSupplyUnits * 10^decimals.
func VirtualSupply(decimals uint8) (uint64, error) {
	supply := uint64(VirtualSupplyUnits)
	for i := uint8(0); i < decimals; i++ {
		hi, lo := bits.Mul64(supply, 10)
		if hi != 0 {
			return 0, ErrInvalidDecimalValue
		}
		supply = lo
	}
	return supply, nil
}
