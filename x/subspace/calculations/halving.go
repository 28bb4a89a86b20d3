package calculations

import (
	sdkmath "cosmossdk.io/math"
)

// HalvingSchedule holds the emission schedule in base units.
type HalvingSchedule struct {
	UnitEmission uint64
	// whole tokens, scaled by 10^Decimals
	HalvingInterval uint64
	MaxSupply       uint64
	Decimals        uint32
}

// EmissionPerBlock returns unit_emission >> (issuance / halving_interval), or 0
// once issuance reached max_supply.
func EmissionPerBlock(schedule HalvingSchedule, issuance uint64) uint64 {
	scale := sdkmath.NewIntWithDecimal(1, int(schedule.Decimals))
	interval := sdkmath.NewIntFromUint64(schedule.HalvingInterval).Mul(scale)
	maxSupply := sdkmath.NewIntFromUint64(schedule.MaxSupply).Mul(scale)
	total := sdkmath.NewIntFromUint64(issuance)

	if total.GTE(maxSupply) || interval.IsZero() {
		return 0
	}
	halvings := total.Quo(interval)
	if !halvings.IsUint64() || halvings.Uint64() >= 64 {
		return 0
	}
	return schedule.UnitEmission >> halvings.Uint64()
}
