package keeper

import (
	"context"
	"errors"
	"math"

	"cosmossdk.io/collections"
)

func getOrDefault[K, V any](ctx context.Context, m collections.Map[K, V], key K, def V) (V, error) {
	v, err := m.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) {
		return def, nil
	}
	return v, err
}

func itemOrDefault[V any](ctx context.Context, item collections.Item[V], def V) (V, error) {
	v, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return def, nil
	}
	return v, err
}

// getVector loads a per-uid vector and pads or truncates it to n entries.
func getVector[T any](ctx context.Context, m collections.Map[uint16, []T], netuid uint16, n int) ([]T, error) {
	stored, err := getOrDefault(ctx, m, netuid, nil)
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	copy(out, stored)
	return out, nil
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
