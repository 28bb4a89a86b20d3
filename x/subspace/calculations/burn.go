package calculations

import (
	"math"

	"github.com/shopspring/decimal"
)

// burnPrecision is the number of fractional digits kept by the controller.
const burnPrecision = 18

var (
	two    = decimal.NewFromInt(2)
	u64Max = decimal.NewFromUint64(math.MaxUint64)
	decOne = decimal.NewFromInt(1)
)

// BurnAdjustment is the input of one registration-burn controller step.
type BurnAdjustment struct {
	Current       uint64
	Registrations uint64
	Target        uint64
	Alpha         uint64
	Min           uint64
	Max           uint64
}

// AdjustBurn moves the burn toward the level that makes registrations meet
// their target:
//
//	updated = current·(registrations + target) / (2·target)
//	next    = α·current + (1−α)·updated, α = alpha / MaxUint64
//
// and clamps the result to [Min, Max]. A zero target keeps the current burn.
func AdjustBurn(a BurnAdjustment) uint64 {
	if a.Target == 0 {
		return clampBurn(a.Current, a.Min, a.Max)
	}
	current := decimal.NewFromUint64(a.Current)
	numerator := current.Mul(decimal.NewFromUint64(a.Registrations).Add(decimal.NewFromUint64(a.Target)))
	updated, _ := numerator.QuoRem(two.Mul(decimal.NewFromUint64(a.Target)), burnPrecision)

	alpha, _ := decimal.NewFromUint64(a.Alpha).QuoRem(u64Max, burnPrecision)
	next := alpha.Mul(current).Add(decOne.Sub(alpha).Mul(updated))

	if next.GreaterThanOrEqual(decimal.NewFromUint64(a.Max)) {
		return a.Max
	}
	if next.LessThanOrEqual(decimal.NewFromUint64(a.Min)) {
		return a.Min
	}
	return next.BigInt().Uint64()
}

func clampBurn(v, lo, hi uint64) uint64 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
