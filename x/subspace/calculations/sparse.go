package calculations

import (
	sdkmath "cosmossdk.io/math"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func (m SparseMatrix) clone() SparseMatrix {
	out := make(SparseMatrix, len(m))
	for i, row := range m {
		out[i] = append([]Entry(nil), row...)
	}
	return out
}

// RowNormalize scales each row to sum to one. Zero rows stay zero.
func RowNormalize(m SparseMatrix) SparseMatrix {
	out := m.clone()
	for _, row := range out {
		sum := zero
		for _, e := range row {
			sum = sum.Add(e.Value)
		}
		if !sum.IsPositive() {
			continue
		}
		for j := range row {
			row[j].Value = row[j].Value.QuoTruncate(sum)
		}
	}
	return out
}

// ColNormalize scales each of the n columns to sum to one. Zero columns stay
// zero, cells with a column >= n are left untouched.
func ColNormalize(m SparseMatrix, n int) SparseMatrix {
	out := m.clone()
	sums := ZeroVector(n)
	for _, row := range out {
		for _, e := range row {
			if int(e.Col) >= n {
				continue
			}
			sums[e.Col] = sums[e.Col].Add(e.Value)
		}
	}
	for _, row := range out {
		for j, e := range row {
			if int(e.Col) >= n || !sums[e.Col].IsPositive() {
				continue
			}
			row[j].Value = e.Value.QuoTruncate(sums[e.Col])
		}
	}
	return out
}

// MatMul computes Wᵗ·v over n columns: out[j] = Σ_i v[i]·w_ij.
func MatMul(m SparseMatrix, vec []sdkmath.LegacyDec, n int) []sdkmath.LegacyDec {
	out := ZeroVector(n)
	for i, row := range m {
		if i >= len(vec) {
			break
		}
		for _, e := range row {
			if int(e.Col) >= n {
				continue
			}
			out[e.Col] = out[e.Col].Add(vec[i].MulTruncate(e.Value))
		}
	}
	return out
}

// MatMulTranspose computes W·v: out[i] = Σ_j w_ij·v[j].
func MatMulTranspose(m SparseMatrix, vec []sdkmath.LegacyDec) []sdkmath.LegacyDec {
	out := ZeroVector(len(m))
	for i, row := range m {
		for _, e := range row {
			if int(e.Col) >= len(vec) {
				continue
			}
			out[i] = out[i].Add(vec[e.Col].MulTruncate(e.Value))
		}
	}
	return out
}

// RowSum sums every row.
func RowSum(m SparseMatrix) []sdkmath.LegacyDec {
	out := ZeroVector(len(m))
	for i, row := range m {
		for _, e := range row {
			out[i] = out[i].Add(e.Value)
		}
	}
	return out
}

// RowHadamard multiplies row i by vec[i]. Rows past the vector become empty.
func RowHadamard(m SparseMatrix, vec []sdkmath.LegacyDec) SparseMatrix {
	out := make(SparseMatrix, len(m))
	for i, row := range m {
		if i >= len(vec) {
			out[i] = []Entry{}
			continue
		}
		cells := make([]Entry, 0, len(row))
		for _, e := range row {
			cells = append(cells, Entry{Col: e.Col, Value: e.Value.MulTruncate(vec[i])})
		}
		out[i] = cells
	}
	return out
}

// MatEMA blends two matrices cell by cell: alpha·delta + (1-alpha)·old. The
// result has max(len(delta), len(old)) rows, columns ascending, zero cells
// dropped.
func MatEMA(delta, old SparseMatrix, alpha sdkmath.LegacyDec) SparseMatrix {
	rows := len(delta)
	if len(old) > rows {
		rows = len(old)
	}
	oneMinusAlpha := one.Sub(alpha)
	out := make(SparseMatrix, rows)
	for i := 0; i < rows; i++ {
		cells := make(map[uint16]sdkmath.LegacyDec)
		if i < len(delta) {
			for _, e := range delta[i] {
				cells[e.Col] = addOrSet(cells, e.Col, alpha.MulTruncate(e.Value))
			}
		}
		if i < len(old) {
			for _, e := range old[i] {
				cells[e.Col] = addOrSet(cells, e.Col, oneMinusAlpha.MulTruncate(e.Value))
			}
		}
		cols := maps.Keys(cells)
		slices.Sort(cols)
		row := make([]Entry, 0, len(cols))
		for _, col := range cols {
			if cells[col].IsZero() {
				continue
			}
			row = append(row, Entry{Col: col, Value: cells[col]})
		}
		out[i] = row
	}
	return out
}

func addOrSet(cells map[uint16]sdkmath.LegacyDec, col uint16, v sdkmath.LegacyDec) sdkmath.LegacyDec {
	if cur, ok := cells[col]; ok {
		return cur.Add(v)
	}
	return v
}

// ColMaxUpscale divides each of the n columns by its maximum so the largest
// cell of every non-zero column becomes one.
func ColMaxUpscale(m SparseMatrix, n int) SparseMatrix {
	out := m.clone()
	maxes := ZeroVector(n)
	for _, row := range out {
		for _, e := range row {
			if int(e.Col) < n && e.Value.GT(maxes[e.Col]) {
				maxes[e.Col] = e.Value
			}
		}
	}
	for _, row := range out {
		for j, e := range row {
			if int(e.Col) >= n || !maxes[e.Col].IsPositive() {
				continue
			}
			row[j].Value = e.Value.QuoTruncate(maxes[e.Col])
		}
	}
	return out
}

// ColClip caps every cell at its column's consensus value.
func ColClip(m SparseMatrix, consensus []sdkmath.LegacyDec) SparseMatrix {
	out := make(SparseMatrix, len(m))
	for i, row := range m {
		cells := make([]Entry, 0, len(row))
		for _, e := range row {
			if int(e.Col) >= len(consensus) {
				continue
			}
			v := e.Value
			if v.GT(consensus[e.Col]) {
				v = consensus[e.Col]
			}
			if v.IsZero() {
				continue
			}
			cells = append(cells, Entry{Col: e.Col, Value: v})
		}
		out[i] = cells
	}
	return out
}

// MaskDiag drops every self-weight.
func MaskDiag(m SparseMatrix) SparseMatrix {
	out := make(SparseMatrix, len(m))
	for i, row := range m {
		cells := make([]Entry, 0, len(row))
		for _, e := range row {
			if int(e.Col) == i {
				continue
			}
			cells = append(cells, e)
		}
		out[i] = cells
	}
	return out
}

// MaskRows clears row i wherever mask[i] is set.
func MaskRows(mask []bool, m SparseMatrix) SparseMatrix {
	out := m.clone()
	for i := range out {
		if i < len(mask) && mask[i] {
			out[i] = []Entry{}
		}
	}
	return out
}

// MaskStaleEntries drops w_ij when lastUpdate[i] <= registered[j]: the row was
// last written before module j took its slot.
func MaskStaleEntries(m SparseMatrix, lastUpdate, registered []uint64) SparseMatrix {
	out := make(SparseMatrix, len(m))
	for i, row := range m {
		cells := make([]Entry, 0, len(row))
		for _, e := range row {
			if i >= len(lastUpdate) || int(e.Col) >= len(registered) {
				continue
			}
			if lastUpdate[i] <= registered[e.Col] {
				continue
			}
			cells = append(cells, e)
		}
		out[i] = cells
	}
	return out
}

// WeightedMedianCol returns, per column, the stake-weighted kappa quantile of
// the column's values. Only rows with positive stake vote, and a voter without
// a cell in the column votes zero.
func WeightedMedianCol(stake []sdkmath.LegacyDec, m SparseMatrix, n int, kappa sdkmath.LegacyDec) []sdkmath.LegacyDec {
	voters := make([]int, 0, len(stake))
	for i, s := range stake {
		if s.IsPositive() {
			voters = append(voters, i)
		}
	}
	votingStake := make([]sdkmath.LegacyDec, len(voters))
	for k, i := range voters {
		votingStake[k] = stake[i]
	}
	votingStake = Normalize(votingStake)
	minority := Sum(votingStake).Sub(kappa)

	columns := make([][]sdkmath.LegacyDec, n)
	for c := range columns {
		columns[c] = ZeroVector(len(voters))
	}
	for k, i := range voters {
		if i >= len(m) {
			continue
		}
		for _, e := range m[i] {
			if int(e.Col) >= n {
				continue
			}
			columns[e.Col][k] = e.Value
		}
	}

	median := ZeroVector(n)
	for c := range columns {
		median[c] = weightedQuantile(votingStake, columns[c], minority)
	}
	return median
}

// weightedQuantile returns the smallest score v such that the stake voting at
// or below v exceeds minority.
func weightedQuantile(stake, score []sdkmath.LegacyDec, minority sdkmath.LegacyDec) sdkmath.LegacyDec {
	if len(score) == 0 {
		return zero
	}
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case score[a].LT(score[b]):
			return -1
		case score[a].GT(score[b]):
			return 1
		default:
			return 0
		}
	})
	cumulative := zero
	for k := 0; k < len(idx); k++ {
		cumulative = cumulative.Add(stake[idx[k]])
		// equal scores form a single step
		if k+1 < len(idx) && score[idx[k+1]].Equal(score[idx[k]]) {
			continue
		}
		if cumulative.GT(minority) {
			return score[idx[k]]
		}
	}
	return score[idx[len(idx)-1]]
}
