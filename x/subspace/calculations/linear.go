package calculations

import (
	sdkmath "cosmossdk.io/math"
)

// LinearInput is one pass of the linear engine. Rows are voters, columns are
// the scored targets: uids on a regular subnet, netuids when pricing subnets.
type LinearInput struct {
	// Stake is normalized and has one entry per row.
	Stake []sdkmath.LegacyDec
	// RawStake gates the trust count against MinStake.
	RawStake []uint64
	Weights  SparseMatrix
	Cols     int
	// MaskDiagonal drops self-weights. Off when rows and columns index
	// different sets.
	MaskDiagonal bool
	TrustRatio   sdkmath.LegacyDec
	MinStake     uint64
}

// LinearOutput holds the scores of a linear pass.
type LinearOutput struct {
	// Incentive and Trust have Cols entries, Dividends one per row.
	Incentive []sdkmath.LegacyDec
	Trust     []sdkmath.LegacyDec
	Dividends []sdkmath.LegacyDec
	// Weights is the row-normalized matrix the scores were computed from.
	Weights SparseMatrix
}

// Linear scores targets by stake-weighted weights without consensus clipping.
// Incentive and dividends fall back to an even split when nothing was voted,
// so both sum to one whenever there is at least one row and one column.
func Linear(in LinearInput) LinearOutput {
	rows := len(in.Stake)
	weights := in.Weights
	if len(weights) > rows {
		weights = weights[:rows]
	}
	if in.MaskDiagonal {
		weights = MaskDiag(weights)
	}
	weights = RowNormalize(weights)

	incentive := MatMul(weights, in.Stake, in.Cols)
	if IsZero(incentive) {
		incentive = EvenSplit(in.Cols)
	}
	incentive = Normalize(incentive)

	trust := ZeroVector(in.Cols)
	if in.TrustRatio.IsPositive() {
		trust = Normalize(trustCount(weights, in.RawStake, in.MinStake, in.Cols))
		tr := in.TrustRatio
		if tr.GT(one) {
			tr = one
		}
		blended := make([]sdkmath.LegacyDec, in.Cols)
		for j := range blended {
			blended[j] = incentive[j].MulTruncate(one.Sub(tr)).Add(trust[j].MulTruncate(tr))
		}
		if !IsZero(blended) {
			incentive = Normalize(blended)
		}
	}

	bonds := ColNormalize(RowHadamard(weights, in.Stake), in.Cols)
	dividends := MatMulTranspose(bonds, incentive)
	if IsZero(dividends) {
		dividends = EvenSplit(rows)
	}
	dividends = Normalize(dividends)

	return LinearOutput{
		Incentive: incentive,
		Trust:     trust,
		Dividends: dividends,
		Weights:   weights,
	}
}

// trustCount counts, per column, the voters above minStake that put a
// positive weight on it.
func trustCount(m SparseMatrix, rawStake []uint64, minStake uint64, cols int) []sdkmath.LegacyDec {
	out := ZeroVector(cols)
	for i, row := range m {
		if i >= len(rawStake) || rawStake[i] <= minStake {
			continue
		}
		for _, e := range row {
			if int(e.Col) >= cols || !e.Value.IsPositive() {
				continue
			}
			out[e.Col] = out[e.Col].Add(one)
		}
	}
	return out
}
