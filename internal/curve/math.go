// =============================
// File: internal/curve/math.go
// =============================
package curve

import (
	"math"
	"math/bits"
)

// twoPow64 is the first float64 that no longer fits into uint64.
const twoPow64 = 18446744073709551616.0

// roundToUint64 округляет значение half away from zero и проверяет диапазон uint64.
func roundToUint64(v float64) (uint64, error) {
	r := math.Round(v)
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r >= twoPow64 {
		return 0, ErrOverflowOrUnderflowOccurred
	}
	return uint64(r), nil
}

// MulDiv returns floor(a*b/c) using a 128-bit intermediate product.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrOverflowOrUnderflowOccurred
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, ErrOverflowOrUnderflowOccurred
	}
	q, _ := bits.Div64(hi, lo, c)
	return q, nil
}

// FeeAmount returns floor(amount * bps / 10000).
func FeeAmount(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, BasisPoints)
}

// SellLimit returns the largest sold amount a buy may reach.
func SellLimit(totalSupply uint64) uint64 {
	// 8000/10000 < 1, поэтому переполнение невозможно
	limit, _ := MulDiv(totalSupply, SellLimitBps, BasisPoints)
	return limit
}
