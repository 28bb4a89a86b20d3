package calculations

import (
	sdkmath "cosmossdk.io/math"
)

// YumaInput carries a subnet snapshot for one Yuma epoch. Every vector has
// one entry per uid.
type YumaInput struct {
	Stake             []uint64
	Weights           SparseMatrix
	Bonds             SparseMatrix
	LastUpdate        []uint64
	RegistrationBlock []uint64
	// MaxAllowedValidators of 0 lets every uid hold a permit.
	MaxAllowedValidators int
	Kappa                sdkmath.LegacyDec
	// BondsMovingAverage is the weight kept by old bonds, in [0, 1].
	BondsMovingAverage sdkmath.LegacyDec
	CurrentBlock       uint64
	ActivityCutoff     uint64
}

// YumaOutput holds everything a Yuma epoch persists.
type YumaOutput struct {
	Active           []bool
	ValidatorPermits []bool
	ActiveStake      []sdkmath.LegacyDec
	Consensus        []sdkmath.LegacyDec
	ValidatorTrust   []sdkmath.LegacyDec
	Rank             []sdkmath.LegacyDec
	Trust            []sdkmath.LegacyDec
	Incentive        []sdkmath.LegacyDec
	Dividends        []sdkmath.LegacyDec
	PruningScores    []sdkmath.LegacyDec
	// Fallback is set when incentive and dividends are both zero. Emission is
	// then paid proportionally to it.
	Fallback []sdkmath.LegacyDec
	// Bonds are max-upscaled per column. Rows of uids without a permit are
	// empty.
	Bonds SparseMatrix
}

// Yuma runs stake-weighted consensus over the weight matrix: it clips every
// weight at the kappa-quantile of its column, scores targets by the clipped
// ranks and pays validators through EMA bonds.
func Yuma(in YumaInput) YumaOutput {
	n := len(in.Stake)

	inactive := make([]bool, n)
	active := make([]bool, n)
	for i := 0; i < n; i++ {
		var last uint64
		if i < len(in.LastUpdate) {
			last = in.LastUpdate[i]
		}
		inactive[i] = saturatingAddU64(last, in.ActivityCutoff) < in.CurrentBlock
		active[i] = !inactive[i]
	}

	stake := Normalize(VectorFromU64(in.Stake))
	k := in.MaxAllowedValidators
	if k <= 0 {
		k = n
	}
	permits := IsTopK(stake, k)
	forbids := make([]bool, n)
	for i, p := range permits {
		forbids[i] = !p
	}

	activeStake := Normalize(MaskVector(forbids, MaskVector(inactive, stake)))

	weights := in.Weights
	if len(weights) > n {
		weights = weights[:n]
	}
	weights = MaskRows(forbids, weights)
	weights = MaskDiag(weights)
	weights = MaskStaleEntries(weights, in.LastUpdate, in.RegistrationBlock)
	weights = RowNormalize(weights)

	preranks := MatMul(weights, activeStake, n)
	consensus := WeightedMedianCol(activeStake, weights, n, in.Kappa)
	weights = ColClip(weights, consensus)
	validatorTrust := RowSum(weights)

	ranks := MatMul(weights, activeStake, n)
	trust := VecDiv(ranks, preranks)
	incentive := Normalize(ranks)

	bonds := in.Bonds
	if len(bonds) > n {
		bonds = bonds[:n]
	}
	bonds = MaskStaleEntries(bonds, in.LastUpdate, in.RegistrationBlock)
	bonds = ColNormalize(bonds, n)
	delta := ColNormalize(RowHadamard(weights, activeStake), n)
	alpha := one.Sub(in.BondsMovingAverage)
	if alpha.IsNegative() {
		alpha = zero
	}
	emaBonds := ColNormalize(MatEMA(delta, bonds, alpha), n)

	dividends := Normalize(MatMulTranspose(emaBonds, incentive))

	out := YumaOutput{
		Active:           active,
		ValidatorPermits: permits,
		ActiveStake:      activeStake,
		Consensus:        consensus,
		ValidatorTrust:   validatorTrust,
		Rank:             ranks,
		Trust:            trust,
		Incentive:        incentive,
		Dividends:        dividends,
	}

	combined := AddVectors(incentive, dividends)
	if IsZero(combined) {
		if IsZero(activeStake) {
			out.Fallback = stake
		} else {
			out.Fallback = activeStake
		}
		out.PruningScores = out.Fallback
	} else {
		out.PruningScores = Normalize(combined)
	}

	emaBonds = ColMaxUpscale(emaBonds, n)
	out.Bonds = make(SparseMatrix, n)
	for i := 0; i < n; i++ {
		if !permits[i] || i >= len(emaBonds) {
			out.Bonds[i] = []Entry{}
			continue
		}
		out.Bonds[i] = emaBonds[i]
	}
	return out
}

func saturatingAddU64(a, b uint64) uint64 {
	if a+b < a {
		return ^uint64(0)
	}
	return a + b
}
