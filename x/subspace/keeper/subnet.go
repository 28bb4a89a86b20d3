package keeper

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// Netuids lists every existing subnet in ascending order.
func (k Keeper) Netuids(ctx context.Context) ([]uint16, error) {
	iter, err := k.SubnetParams.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Keys()
}

func (k Keeper) SubnetExists(ctx context.Context, netuid uint16) (bool, error) {
	return k.SubnetParams.Has(ctx, netuid)
}

func (k Keeper) GetSubnetParams(ctx context.Context, netuid uint16) (types.SubnetParams, error) {
	params, err := k.SubnetParams.Get(ctx, netuid)
	if err != nil {
		return types.SubnetParams{}, errorsmod.Wrapf(types.ErrNetworkDoesNotExist, "netuid %d", netuid)
	}
	return params, nil
}

// GetNetuidForName finds the subnet named name.
func (k Keeper) GetNetuidForName(ctx context.Context, name string) (uint16, bool, error) {
	var (
		netuid uint16
		found  bool
	)
	err := k.SubnetParams.Walk(ctx, nil, func(key uint16, params types.SubnetParams) (bool, error) {
		if params.Name == name {
			netuid, found = key, true
			return true, nil
		}
		return false, nil
	})
	return netuid, found, err
}

func (k Keeper) GetN(ctx context.Context, netuid uint16) (uint16, error) {
	return getOrDefault(ctx, k.N, netuid, 0)
}

func (k Keeper) getFreeNetuid(ctx context.Context) (uint16, error) {
	iter, err := k.SubnetGaps.Iterate(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	for ; iter.Valid(); iter.Next() {
		gap, err := iter.Key()
		if err != nil {
			return 0, err
		}
		taken, err := k.SubnetExists(ctx, gap)
		if err != nil {
			return 0, err
		}
		if !taken {
			return gap, nil
		}
	}

	// explicit netuids and imported genesis can leave live subnets past the
	// subnet count
	total, err := itemOrDefault(ctx, k.TotalSubnets, 0)
	if err != nil {
		return 0, err
	}
	for candidate := uint32(total); candidate <= math.MaxUint16; candidate++ {
		taken, err := k.SubnetExists(ctx, uint16(candidate))
		if err != nil {
			return 0, err
		}
		if !taken {
			return uint16(candidate), nil
		}
	}
	return 0, fmt.Errorf("no free netuid left")
}

// AddSubnet creates a subnet from changeset on netuid. When netuid is nil it
// takes the lowest free gap, else the first free netuid from the subnet count
// up.
func (k Keeper) AddSubnet(ctx context.Context, changeset *SubnetChangeset, netuid *uint16) (uint16, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	total, err := itemOrDefault(ctx, k.TotalSubnets, 0)
	if err != nil {
		return 0, err
	}
	if total >= params.MaxAllowedSubnets {
		return 0, errorsmod.Wrapf(types.ErrTooManySubnets, "%d subnets", total)
	}

	var target uint16
	if netuid != nil {
		target = *netuid
		exists, err := k.SubnetExists(ctx, target)
		if err != nil {
			return 0, err
		}
		if exists {
			return 0, fmt.Errorf("netuid %d is already taken", target)
		}
	} else if target, err = k.getFreeNetuid(ctx); err != nil {
		return 0, err
	}

	if err := changeset.Apply(ctx, target); err != nil {
		return 0, err
	}
	if err := k.N.Set(ctx, target, 0); err != nil {
		return 0, err
	}
	if err := k.Burn.Set(ctx, target, params.BurnConfig.MinBurn); err != nil {
		return 0, err
	}
	if err := k.SubnetEmission.Set(ctx, target, 0); err != nil {
		return 0, err
	}
	if err := k.PendingEmission.Set(ctx, target, 0); err != nil {
		return 0, err
	}
	registrations, err := itemOrDefault(ctx, k.SubnetRegistrationsThisInterval, 0)
	if err != nil {
		return 0, err
	}
	if err := k.SubnetRegistrationsThisInterval.Set(ctx, registrations+1); err != nil {
		return 0, err
	}
	if err := k.SubnetGaps.Remove(ctx, target); err != nil {
		return 0, err
	}
	if err := k.TotalSubnets.Set(ctx, total+1); err != nil {
		return 0, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeNetworkAdded,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(target), 10)),
		sdk.NewAttribute(types.AttributeKeyName, changeset.Params().Name),
	))
	k.LogInfo("Subnet added", types.Subnets, "netuid", target, "name", changeset.Params().Name)
	return target, nil
}

// RemoveSubnet deletes every per-subnet record of netuid and frees the
// netuid. Keys that end up registered nowhere have their inbound stake
// returned to the delegators.
func (k Keeper) RemoveSubnet(ctx context.Context, netuid uint16) error {
	subnet, err := k.GetSubnetParams(ctx, netuid)
	if err != nil {
		return err
	}
	keys, err := k.GetUidKeyPairs(ctx, netuid)
	if err != nil {
		return err
	}

	for _, m := range []collections.Map[uint16, uint16]{k.N, k.RegistrationsThisInterval} {
		if err := m.Remove(ctx, netuid); err != nil {
			return err
		}
	}
	for _, m := range []collections.Map[uint16, uint64]{k.Burn, k.SubnetEmission, k.PendingEmission} {
		if err := m.Remove(ctx, netuid); err != nil {
			return err
		}
	}
	if err := k.SubnetParams.Remove(ctx, netuid); err != nil {
		return err
	}
	if err := k.clearModuleRecords(ctx, netuid); err != nil {
		return err
	}
	if err := k.clearVectors(ctx, netuid); err != nil {
		return err
	}

	for _, key := range keys {
		if err := k.releaseIfUnregistered(ctx, key); err != nil {
			return err
		}
	}

	k.GovernanceKeeper.HandleSubnetRemoval(ctx, netuid)
	k.ConsensusKeeper.SetSubnetConsensusType(ctx, netuid, nil)

	total, err := itemOrDefault(ctx, k.TotalSubnets, 0)
	if err != nil {
		return err
	}
	if err := k.TotalSubnets.Set(ctx, saturatingSub16(total, 1)); err != nil {
		return err
	}
	if err := k.SubnetGaps.Set(ctx, netuid); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeNetworkRemoved,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyName, subnet.Name),
	))
	k.LogInfo("Subnet removed", types.Subnets, "netuid", netuid, "name", subnet.Name, "modules", len(keys))
	return nil
}

func (k Keeper) clearModuleRecords(ctx context.Context, netuid uint16) error {
	byUid := collections.NewPrefixedPairRange[uint16, uint16](netuid)
	if err := k.Keys.Clear(ctx, byUid); err != nil {
		return err
	}
	for _, m := range []collections.Map[collections.Pair[uint16, uint16], string]{k.Name, k.Address} {
		if err := m.Clear(ctx, collections.NewPrefixedPairRange[uint16, uint16](netuid)); err != nil {
			return err
		}
	}
	if err := k.RegistrationBlock.Clear(ctx, collections.NewPrefixedPairRange[uint16, uint16](netuid)); err != nil {
		return err
	}
	for _, m := range []collections.Map[collections.Pair[uint16, uint16], []types.SparseEntry]{k.Weights, k.Bonds} {
		if err := m.Clear(ctx, collections.NewPrefixedPairRange[uint16, uint16](netuid)); err != nil {
			return err
		}
	}
	for _, m := range []collections.Map[collections.Pair[uint16, sdk.AccAddress], uint16]{k.Uids, k.DelegationFee, k.SetWeightCallsPerEpoch} {
		if err := m.Clear(ctx, collections.NewPrefixedPairRange[uint16, sdk.AccAddress](netuid)); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) clearVectors(ctx context.Context, netuid uint16) error {
	for _, m := range k.u16Vectors() {
		if err := m.Remove(ctx, netuid); err != nil {
			return err
		}
	}
	for _, m := range k.u64Vectors() {
		if err := m.Remove(ctx, netuid); err != nil {
			return err
		}
	}
	for _, m := range k.boolVectors() {
		if err := m.Remove(ctx, netuid); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) u16Vectors() []collections.Map[uint16, []uint16] {
	return []collections.Map[uint16, []uint16]{
		k.Incentive, k.Dividends, k.Trust, k.Consensus, k.Rank, k.PruningScores, k.ValidatorTrust,
	}
}

func (k Keeper) u64Vectors() []collections.Map[uint16, []uint64] {
	return []collections.Map[uint16, []uint64]{k.Emission, k.LastUpdate}
}

func (k Keeper) boolVectors() []collections.Map[uint16, []bool] {
	return []collections.Map[uint16, []bool]{k.ValidatorPermits, k.Active}
}

// releaseIfUnregistered force-liquidates the inbound stake of key and drops
// its profit shares once it is registered on no subnet.
func (k Keeper) releaseIfUnregistered(ctx context.Context, key sdk.AccAddress) error {
	registered, err := k.IsRegisteredAnywhere(ctx, key)
	if err != nil || registered {
		return err
	}
	removed, err := k.DecreaseStake(ctx, nil, key, nil, true)
	if err != nil {
		return err
	}
	if removed > 0 {
		k.LogDebug("Liquidated stake of unregistered key", types.Staking, "key", key.String(), "amount", removed)
	}
	return k.ProfitShares.Remove(ctx, key)
}

func saturatingSub16(a, b uint16) uint16 {
	if b > a {
		return 0
	}
	return a - b
}
