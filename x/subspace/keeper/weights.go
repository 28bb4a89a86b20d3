package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// SetWeights stores the caller's weights on netuid, rescaled to sum to
// ProportionScale. On a subnet running root consensus the targets are
// netuids instead of uids.
func (k Keeper) SetWeights(ctx context.Context, caller sdk.AccAddress, netuid uint16, uids []uint16, values []uint16) error {
	subnet, err := k.GetSubnetParams(ctx, netuid)
	if err != nil {
		return err
	}
	uid, found, err := k.GetUid(ctx, netuid, caller)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(types.ErrNotRegistered, "%s on subnet %d", caller, netuid)
	}
	if len(uids) != len(values) {
		return errorsmod.Wrapf(types.ErrWeightVecNotEqualSize, "%d uids, %d weights", len(uids), len(values))
	}
	if err := k.validateTargets(ctx, netuid, uid, uids); err != nil {
		return err
	}
	if len(uids) < int(subnet.MinAllowedWeights) {
		return errorsmod.Wrapf(types.ErrNotSettingEnoughWeights, "%d weights, at least %d", len(uids), subnet.MinAllowedWeights)
	}
	if len(uids) > int(subnet.MaxAllowedWeights) {
		return errorsmod.Wrapf(types.ErrInvalidUidsLength, "%d weights, at most %d", len(uids), subnet.MaxAllowedWeights)
	}
	stake, err := k.GetStake(ctx, caller)
	if err != nil {
		return err
	}
	if stake < subnet.MinStake {
		return errorsmod.Wrapf(types.ErrNotEnoughStakeToSetWeights, "stake %d, min stake %d", stake, subnet.MinStake)
	}

	calls, err := getOrDefault(ctx, k.SetWeightCallsPerEpoch, collections.Join(netuid, caller), 0)
	if err != nil {
		return err
	}
	if subnet.MaximumSetWeightCallsPerEpoch > 0 && calls >= subnet.MaximumSetWeightCallsPerEpoch {
		return errorsmod.Wrapf(types.ErrMaximumSetWeightsPerEpochReached, "%d calls", calls)
	}

	row := normalizeWeights(uids, values)
	if len(row) == 0 {
		return types.ErrEmptyWeights
	}
	if err := k.Weights.Set(ctx, collections.Join(netuid, uid), row); err != nil {
		return err
	}
	if err := k.SetWeightCallsPerEpoch.Set(ctx, collections.Join(netuid, caller), calls+1); err != nil {
		return err
	}
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return err
	}
	lastUpdate, err := getVector(ctx, k.LastUpdate, netuid, int(n))
	if err != nil {
		return err
	}
	lastUpdate[uid] = uint64(sdk.UnwrapSDKContext(ctx).BlockHeight())
	if err := k.LastUpdate.Set(ctx, netuid, lastUpdate); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWeightsSet,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyUid, strconv.FormatUint(uint64(uid), 10)),
	))
	k.LogDebug("Weights set", types.Weights, "netuid", netuid, "uid", uid, "count", len(row))
	return nil
}

func (k Keeper) validateTargets(ctx context.Context, netuid, self uint16, targets []uint16) error {
	consensus, err := k.consensusType(ctx, netuid)
	if err != nil {
		return err
	}
	rootPriced := consensus == types.ConsensusRoot
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return err
	}
	seen := make(map[uint16]struct{}, len(targets))
	for _, target := range targets {
		if _, ok := seen[target]; ok {
			return errorsmod.Wrapf(types.ErrDuplicateUids, "uid %d", target)
		}
		seen[target] = struct{}{}
		if rootPriced {
			exists, err := k.SubnetExists(ctx, target)
			if err != nil {
				return err
			}
			if !exists || target == netuid {
				return errorsmod.Wrapf(types.ErrInvalidUid, "netuid %d", target)
			}
			continue
		}
		if target >= n {
			return errorsmod.Wrapf(types.ErrInvalidUid, "uid %d, subnet size %d", target, n)
		}
		if target == self {
			return types.ErrNoSelfWeight
		}
	}
	return nil
}

// normalizeWeights rescales values to sum to ProportionScale, truncating,
// and drops targets whose weight ends up zero.
func normalizeWeights(uids, values []uint16) []types.SparseEntry {
	var sum uint64
	for _, v := range values {
		sum += uint64(v)
	}
	if sum == 0 {
		return nil
	}
	row := make([]types.SparseEntry, 0, len(uids))
	for i, target := range uids {
		scaled := uint64(values[i]) * types.ProportionScale / sum
		if scaled == 0 {
			continue
		}
		row = append(row, types.SparseEntry{Uid: target, Value: uint16(scaled)})
	}
	return row
}

func (k Keeper) resetSetWeightCalls(ctx context.Context, netuid uint16) error {
	return k.SetWeightCallsPerEpoch.Clear(ctx, collections.NewPrefixedPairRange[uint16, sdk.AccAddress](netuid))
}
