package fixedpoint

import (
	"errors"
	"math/big"

	"cosmossdk.io/math"
)

// Precision is the scale used for reward-per-share accumulators (1e12).
var Precision = math.NewInt(1_000_000_000_000)

// QScale is the 2^64 scale used for Q64.64 yield-integral accumulators.
var QScale = math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64))

// BpsDenominator is the basis-point denominator (10000 = 100%).
var BpsDenominator = math.NewInt(10_000)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNegativeResult = errors.New("negative result")
)

// MulDiv computes a * b / c with a wide intermediate and truncating division.
// Multiply-then-divide ordering is load-bearing: reversing it changes rounding.
func MulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.ZeroInt(), ErrDivisionByZero
	}
	return a.Mul(b).Quo(c), nil
}

// PercentageBps returns amount * bps / 10000.
func PercentageBps(amount math.Int, bps int64) (math.Int, error) {
	if bps < 0 {
		return math.ZeroInt(), ErrNegativeResult
	}
	return MulDiv(amount, math.NewInt(bps), BpsDenominator)
}

// SaturatingSub returns a - b, floored at zero. Used for monotonic counters
// where a transient shortfall must not abort the surrounding operation.
func SaturatingSub(a, b math.Int) math.Int {
	if b.GT(a) {
		return math.ZeroInt()
	}
	return a.Sub(b)
}

// CheckedSub returns a - b, rejecting negative results.
func CheckedSub(a, b math.Int) (math.Int, error) {
	if b.GT(a) {
		return math.ZeroInt(), ErrNegativeResult
	}
	return a.Sub(b), nil
}

// Max returns the larger of a and b.
func Max(a, b math.Int) math.Int {
	if a.GTE(b) {
		return a
	}
	return b
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi math.Int) math.Int {
	if v.LT(lo) {
		return lo
	}
	if v.GT(hi) {
		return hi
	}
	return v
}

// ClampInt64 bounds v to [lo, hi].
func ClampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
