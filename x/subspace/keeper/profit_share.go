package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// AddProfitShares routes the caller's own emission to keys in proportion to
// shares. Shares are rescaled to ProportionScale; the truncation remainder
// goes to the largest share.
func (k Keeper) AddProfitShares(ctx context.Context, caller sdk.AccAddress, keys []sdk.AccAddress, shares []uint16) error {
	if len(keys) == 0 {
		return types.ErrEmptyKeys
	}
	if len(keys) != len(shares) {
		return errorsmod.Wrapf(types.ErrDifferentLengths, "%d keys, %d shares", len(keys), len(shares))
	}
	if len(keys) > types.MaxMultipleKeys {
		return errorsmod.Wrapf(types.ErrTooManyKeys, "%d keys, at most %d", len(keys), types.MaxMultipleKeys)
	}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key.String()]; ok {
			return errorsmod.Wrapf(types.ErrInvalidShares, "duplicate key %s", key)
		}
		seen[key.String()] = struct{}{}
	}

	normalized, err := normalizeShares(keys, shares)
	if err != nil {
		return err
	}
	return k.ProfitShares.Set(ctx, caller, normalized)
}

func normalizeShares(keys []sdk.AccAddress, shares []uint16) ([]types.ProfitShare, error) {
	var sum uint64
	largest := 0
	for i, share := range shares {
		sum += uint64(share)
		if share > shares[largest] {
			largest = i
		}
	}
	if sum == 0 {
		return nil, errorsmod.Wrap(types.ErrInvalidShares, "shares sum to zero")
	}

	scaled := make([]uint64, len(shares))
	var total uint64
	for i, share := range shares {
		scaled[i] = uint64(share) * types.ProportionScale / sum
		total += scaled[i]
	}
	scaled[largest] += types.ProportionScale - total

	out := make([]types.ProfitShare, 0, len(keys))
	total = 0
	for i, key := range keys {
		if scaled[i] == 0 {
			continue
		}
		out = append(out, types.ProfitShare{Key: key.String(), Share: uint16(scaled[i])})
		total += scaled[i]
	}
	if total != types.ProportionScale {
		return nil, errorsmod.Wrapf(types.ErrInvalidNormalizedShares, "sum is %d", total)
	}
	return out, nil
}

// GetProfitShares returns the recipients of key's emission, or nil.
func (k Keeper) GetProfitShares(ctx context.Context, key sdk.AccAddress) ([]types.ProfitShare, error) {
	return getOrDefault(ctx, k.ProfitShares, key, nil)
}
