package calculations

import (
	sdkmath "cosmossdk.io/math"
	"golang.org/x/exp/slices"
)

// Normalize divides every element by the vector sum. A zero-sum vector is
// returned unchanged.
func Normalize(vec []sdkmath.LegacyDec) []sdkmath.LegacyDec {
	return NormalizeUsingSum(vec, Sum(vec))
}

// NormalizeUsingSum divides every element by sum, or returns a copy when sum
// is not positive.
func NormalizeUsingSum(vec []sdkmath.LegacyDec, sum sdkmath.LegacyDec) []sdkmath.LegacyDec {
	out := make([]sdkmath.LegacyDec, len(vec))
	if !sum.IsPositive() {
		copy(out, vec)
		return out
	}
	for i, v := range vec {
		out[i] = v.QuoTruncate(sum)
	}
	return out
}

// MaskVector zeroes vec[i] wherever mask[i] is set. Missing mask entries keep
// the value.
func MaskVector(mask []bool, vec []sdkmath.LegacyDec) []sdkmath.LegacyDec {
	out := make([]sdkmath.LegacyDec, len(vec))
	for i, v := range vec {
		if i < len(mask) && mask[i] {
			out[i] = zero
			continue
		}
		out[i] = v
	}
	return out
}

// VecDiv divides element-wise, yielding 0 where the divisor is 0 or missing.
func VecDiv(a, b []sdkmath.LegacyDec) []sdkmath.LegacyDec {
	out := make([]sdkmath.LegacyDec, len(a))
	for i, v := range a {
		if i >= len(b) || !b[i].IsPositive() {
			out[i] = zero
			continue
		}
		out[i] = v.QuoTruncate(b[i])
	}
	return out
}

// IsTopK marks the k largest elements. Ties go to the lowest index. k >= len
// marks every element.
func IsTopK(vec []sdkmath.LegacyDec, k int) []bool {
	out := make([]bool, len(vec))
	if k >= len(vec) {
		for i := range out {
			out[i] = true
		}
		return out
	}
	idx := make([]int, len(vec))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case vec[a].GT(vec[b]):
			return -1
		case vec[a].LT(vec[b]):
			return 1
		default:
			return 0
		}
	})
	for _, i := range idx[:k] {
		out[i] = true
	}
	return out
}

// EvenSplit returns a vector of n ones, to be normalized by the caller.
func EvenSplit(n int) []sdkmath.LegacyDec {
	out := make([]sdkmath.LegacyDec, n)
	for i := range out {
		out[i] = one
	}
	return out
}

// AddVectors adds element-wise over the length of a.
func AddVectors(a, b []sdkmath.LegacyDec) []sdkmath.LegacyDec {
	out := make([]sdkmath.LegacyDec, len(a))
	for i, v := range a {
		if i < len(b) {
			v = v.Add(b[i])
		}
		out[i] = v
	}
	return out
}
