package calculations

import (
	"math"

	sdkmath "cosmossdk.io/math"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// Entry is one cell of a sparse row.
type Entry struct {
	Col   uint16
	Value sdkmath.LegacyDec
}

// SparseMatrix is a row-major list of sparse rows. Row i belongs to uid i.
type SparseMatrix [][]Entry

var (
	zero        = sdkmath.LegacyZeroDec()
	one         = sdkmath.LegacyOneDec()
	u16MaxDec   = sdkmath.LegacyNewDec(math.MaxUint16)
	hundredDecs = sdkmath.LegacyNewDec(100)
)

// U16ProportionToDec maps a proportion out of 65535 to [0, 1].
func U16ProportionToDec(v uint16) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDec(int64(v)).QuoTruncate(u16MaxDec)
}

// DecToU16Proportion maps [0, 1] to a proportion out of 65535, truncating and
// clamping out-of-range values.
func DecToU16Proportion(d sdkmath.LegacyDec) uint16 {
	if !d.IsPositive() {
		return 0
	}
	scaled := d.MulTruncate(u16MaxDec).TruncateInt()
	if !scaled.IsUint64() || scaled.Uint64() > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(scaled.Uint64())
}

// PercentToDec maps a percentage to [0, 1], clamping at 100.
func PercentToDec(percent uint16) sdkmath.LegacyDec {
	if percent > 100 {
		percent = 100
	}
	return sdkmath.LegacyNewDec(int64(percent)).QuoTruncate(hundredDecs)
}

// DecFromU64 converts an integer amount without loss.
func DecFromU64(v uint64) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(v))
}

// MulU64 returns floor(amount * ratio), saturating at MaxUint64. Negative
// ratios yield 0.
func MulU64(amount uint64, ratio sdkmath.LegacyDec) uint64 {
	if !ratio.IsPositive() || amount == 0 {
		return 0
	}
	return DecToU64(DecFromU64(amount).MulTruncate(ratio))
}

// DecToU64 truncates toward zero, saturating at the uint64 range.
func DecToU64(d sdkmath.LegacyDec) uint64 {
	if !d.IsPositive() {
		return 0
	}
	i := d.TruncateInt()
	if !i.IsUint64() {
		return math.MaxUint64
	}
	return i.Uint64()
}

// ZeroVector returns n zero entries.
func ZeroVector(n int) []sdkmath.LegacyDec {
	vec := make([]sdkmath.LegacyDec, n)
	for i := range vec {
		vec[i] = zero
	}
	return vec
}

// VectorFromU64 converts raw amounts (for example stake) to decimals.
func VectorFromU64(values []uint64) []sdkmath.LegacyDec {
	vec := make([]sdkmath.LegacyDec, len(values))
	for i, v := range values {
		vec[i] = DecFromU64(v)
	}
	return vec
}

// VectorToU16 converts proportions in [0, 1] to the 65535 scale.
func VectorToU16(vec []sdkmath.LegacyDec) []uint16 {
	out := make([]uint16, len(vec))
	for i, v := range vec {
		out[i] = DecToU16Proportion(v)
	}
	return out
}

// SparseFromU16 builds a square matrix with n rows from stored rows. Rows past
// n and cells whose column is outside [0, n) are dropped.
func SparseFromU16(rows [][]types.SparseEntry, n int) SparseMatrix {
	return SparseFromU16Cols(rows, n, n)
}

// SparseFromU16Cols is SparseFromU16 for matrices whose columns index a
// different set than their rows.
func SparseFromU16Cols(rows [][]types.SparseEntry, n, cols int) SparseMatrix {
	m := make(SparseMatrix, n)
	for i, row := range rows {
		if i >= n {
			break
		}
		out := make([]Entry, 0, len(row))
		for _, cell := range row {
			if int(cell.Uid) >= cols {
				continue
			}
			out = append(out, Entry{Col: cell.Uid, Value: U16ProportionToDec(cell.Value)})
		}
		m[i] = out
	}
	return m
}

// SparseToU16 converts every row back to the stored 65535 scale, dropping
// cells that truncate to zero.
func SparseToU16(m SparseMatrix) [][]types.SparseEntry {
	out := make([][]types.SparseEntry, len(m))
	for i, row := range m {
		cells := make([]types.SparseEntry, 0, len(row))
		for _, e := range row {
			v := DecToU16Proportion(e.Value)
			if v == 0 {
				continue
			}
			cells = append(cells, types.SparseEntry{Uid: e.Col, Value: v})
		}
		out[i] = cells
	}
	return out
}

// Sum adds every element.
func Sum(vec []sdkmath.LegacyDec) sdkmath.LegacyDec {
	total := zero
	for _, v := range vec {
		total = total.Add(v)
	}
	return total
}

// IsZero reports whether every element is zero. An empty vector is zero.
func IsZero(vec []sdkmath.LegacyDec) bool {
	for _, v := range vec {
		if !v.IsZero() {
			return false
		}
	}
	return true
}
