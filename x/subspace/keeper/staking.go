package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// IncreaseStake credits amount on the delegator -> module edge and on both
// aggregates. Every counter saturates at MaxUint64.
func (k Keeper) IncreaseStake(ctx context.Context, delegator, module sdk.AccAddress, amount uint64) error {
	if amount == 0 {
		return nil
	}
	from, err := getOrDefault(ctx, k.StakeFrom, collections.Join(module, delegator), 0)
	if err != nil {
		return err
	}
	if err := k.StakeFrom.Set(ctx, collections.Join(module, delegator), saturatingAdd(from, amount)); err != nil {
		return err
	}
	to, err := getOrDefault(ctx, k.StakeTo, collections.Join(delegator, module), 0)
	if err != nil {
		return err
	}
	if err := k.StakeTo.Set(ctx, collections.Join(delegator, module), saturatingAdd(to, amount)); err != nil {
		return err
	}
	stake, err := getOrDefault(ctx, k.Stake, module, 0)
	if err != nil {
		return err
	}
	if err := k.Stake.Set(ctx, module, saturatingAdd(stake, amount)); err != nil {
		return err
	}
	total, err := itemOrDefault(ctx, k.TotalStake, 0)
	if err != nil {
		return err
	}
	return k.TotalStake.Set(ctx, saturatingAdd(total, amount))
}

// DecreaseStake removes stake from module. With a nil amount the edge of
// delegator is drained, or every edge of module when delegator is nil too.
// Emptied edges are deleted on both sides. When returnBalance is set the
// removed amounts are paid back to the delegators. It returns the total
// removed.
func (k Keeper) DecreaseStake(ctx context.Context, delegator, module sdk.AccAddress, amount *uint64, returnBalance bool) (uint64, error) {
	if amount != nil && delegator == nil {
		return 0, types.ErrKeyRequired
	}

	var delegators []sdk.AccAddress
	if delegator != nil {
		delegators = []sdk.AccAddress{delegator}
	} else {
		edges, err := k.GetStakeFromVector(ctx, module)
		if err != nil {
			return 0, err
		}
		for _, edge := range edges {
			delegators = append(delegators, edge.Delegator)
		}
	}

	var removed uint64
	for _, d := range delegators {
		current, err := getOrDefault(ctx, k.StakeFrom, collections.Join(module, d), 0)
		if err != nil {
			return removed, err
		}
		take := current
		if amount != nil {
			if *amount > current {
				return removed, errorsmod.Wrapf(types.ErrNotEnoughStakeToWithdraw, "%s has %d staked on %s, wants %d", d, current, module, *amount)
			}
			take = *amount
		}
		if take == 0 {
			continue
		}
		if err := k.decreaseEdge(ctx, d, module, current, take); err != nil {
			return removed, err
		}
		if returnBalance {
			if err := k.BalanceKeeper.Deposit(ctx, d, take, "unstake"); err != nil {
				return removed, err
			}
		}
		removed = saturatingAdd(removed, take)
	}
	return removed, nil
}

func (k Keeper) decreaseEdge(ctx context.Context, delegator, module sdk.AccAddress, current, take uint64) error {
	if left := current - take; left == 0 {
		if err := k.StakeFrom.Remove(ctx, collections.Join(module, delegator)); err != nil {
			return err
		}
		if err := k.StakeTo.Remove(ctx, collections.Join(delegator, module)); err != nil {
			return err
		}
	} else {
		if err := k.StakeFrom.Set(ctx, collections.Join(module, delegator), left); err != nil {
			return err
		}
		to, err := getOrDefault(ctx, k.StakeTo, collections.Join(delegator, module), 0)
		if err != nil {
			return err
		}
		if err := k.StakeTo.Set(ctx, collections.Join(delegator, module), saturatingSub(to, take)); err != nil {
			return err
		}
	}

	stake, err := getOrDefault(ctx, k.Stake, module, 0)
	if err != nil {
		return err
	}
	if left := saturatingSub(stake, take); left == 0 {
		if err := k.Stake.Remove(ctx, module); err != nil {
			return err
		}
	} else if err := k.Stake.Set(ctx, module, left); err != nil {
		return err
	}
	total, err := itemOrDefault(ctx, k.TotalStake, 0)
	if err != nil {
		return err
	}
	return k.TotalStake.Set(ctx, saturatingSub(total, take))
}

// StakeEdge is one delegation seen from either side.
type StakeEdge struct {
	Delegator sdk.AccAddress
	Module    sdk.AccAddress
	Amount    uint64
}

// GetStakeFromVector lists the delegators of module in key order.
func (k Keeper) GetStakeFromVector(ctx context.Context, module sdk.AccAddress) ([]StakeEdge, error) {
	iter, err := k.StakeFrom.Iterate(ctx, collections.NewPrefixedPairRange[sdk.AccAddress, sdk.AccAddress](module))
	if err != nil {
		return nil, err
	}
	kvs, err := iter.KeyValues()
	if err != nil {
		return nil, err
	}
	edges := make([]StakeEdge, 0, len(kvs))
	for _, kv := range kvs {
		edges = append(edges, StakeEdge{Delegator: kv.Key.K2(), Module: module, Amount: kv.Value})
	}
	return edges, nil
}

// GetStakeToVector lists the modules delegator has staked on.
func (k Keeper) GetStakeToVector(ctx context.Context, delegator sdk.AccAddress) ([]StakeEdge, error) {
	iter, err := k.StakeTo.Iterate(ctx, collections.NewPrefixedPairRange[sdk.AccAddress, sdk.AccAddress](delegator))
	if err != nil {
		return nil, err
	}
	kvs, err := iter.KeyValues()
	if err != nil {
		return nil, err
	}
	edges := make([]StakeEdge, 0, len(kvs))
	for _, kv := range kvs {
		edges = append(edges, StakeEdge{Delegator: delegator, Module: kv.Key.K2(), Amount: kv.Value})
	}
	return edges, nil
}

func (k Keeper) GetStakeTo(ctx context.Context, delegator, module sdk.AccAddress) (uint64, error) {
	return getOrDefault(ctx, k.StakeTo, collections.Join(delegator, module), 0)
}

func (k Keeper) GetStake(ctx context.Context, module sdk.AccAddress) (uint64, error) {
	return getOrDefault(ctx, k.Stake, module, 0)
}

func (k Keeper) GetTotalStake(ctx context.Context) (uint64, error) {
	return itemOrDefault(ctx, k.TotalStake, 0)
}

// OwnershipRatios returns every delegator's share of the stake on module. A
// module nobody stakes on owns itself entirely.
func (k Keeper) OwnershipRatios(ctx context.Context, module sdk.AccAddress) ([]types.Ownership, error) {
	edges, err := k.GetStakeFromVector(ctx, module)
	if err != nil {
		return nil, err
	}
	var total uint64
	for _, edge := range edges {
		total = saturatingAdd(total, edge.Amount)
	}
	if total == 0 {
		return []types.Ownership{{Delegator: module, Ratio: sdkmath.LegacyOneDec()}}, nil
	}
	totalDec := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(total))
	ratios := make([]types.Ownership, 0, len(edges))
	for _, edge := range edges {
		ratio := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(edge.Amount)).QuoTruncate(totalDec)
		ratios = append(ratios, types.Ownership{Delegator: edge.Delegator, Ratio: ratio})
	}
	return ratios, nil
}

// TotalSubnetStake sums the stake of every module registered on netuid.
func (k Keeper) TotalSubnetStake(ctx context.Context, netuid uint16) (uint64, error) {
	keys, err := k.GetUidKeyPairs(ctx, netuid)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, key := range keys {
		stake, err := k.GetStake(ctx, key)
		if err != nil {
			return 0, err
		}
		total = saturatingAdd(total, stake)
	}
	return total, nil
}

// AddStake moves amount of the caller's free balance onto module.
func (k Keeper) AddStake(ctx context.Context, caller, module sdk.AccAddress, amount uint64) error {
	registered, err := k.IsRegisteredAnywhere(ctx, module)
	if err != nil {
		return err
	}
	if !registered {
		return errorsmod.Wrapf(types.ErrNotRegistered, "%s", module)
	}
	if free := k.BalanceKeeper.FreeBalance(ctx, caller); free < amount {
		return errorsmod.Wrapf(types.ErrNotEnoughBalanceToStake, "free balance %d, wants %d", free, amount)
	}

	before, err := k.GetStakeTo(ctx, caller, module)
	if err != nil {
		return err
	}
	if err := k.BalanceKeeper.Withdraw(ctx, caller, amount, "stake"); err != nil {
		return errorsmod.Wrap(types.ErrBalanceNotRemoved, err.Error())
	}
	if err := k.IncreaseStake(ctx, caller, module, amount); err != nil {
		return err
	}
	after, err := k.GetStakeTo(ctx, caller, module)
	if err != nil {
		return err
	}
	if after != saturatingAdd(before, amount) {
		return errorsmod.Wrapf(types.ErrStakeNotAdded, "stake went from %d to %d adding %d", before, after, amount)
	}

	k.emitStakeEvent(ctx, types.EventTypeStakeAdded, caller, module, amount)
	k.LogDebug("Stake added", types.Staking, "delegator", caller.String(), "module", module.String(), "amount", amount)
	return nil
}

// RemoveStake unstakes amount of the caller's stake on module back to free
// balance.
func (k Keeper) RemoveStake(ctx context.Context, caller, module sdk.AccAddress, amount uint64) error {
	staked, err := k.GetStakeTo(ctx, caller, module)
	if err != nil {
		return err
	}
	if staked < amount {
		return errorsmod.Wrapf(types.ErrNotEnoughStakeToWithdraw, "staked %d, wants %d", staked, amount)
	}

	before := k.BalanceKeeper.FreeBalance(ctx, caller)
	removed, err := k.DecreaseStake(ctx, caller, module, &amount, true)
	if err != nil {
		return err
	}
	if removed != amount {
		return errorsmod.Wrapf(types.ErrStakeNotRemoved, "removed %d of %d", removed, amount)
	}
	if after := k.BalanceKeeper.FreeBalance(ctx, caller); after != saturatingAdd(before, amount) {
		return errorsmod.Wrapf(types.ErrBalanceNotAdded, "balance went from %d to %d returning %d", before, after, amount)
	}

	k.emitStakeEvent(ctx, types.EventTypeStakeRemoved, caller, module, amount)
	k.LogDebug("Stake removed", types.Staking, "delegator", caller.String(), "module", module.String(), "amount", amount)
	return nil
}

func validateMultiple(keys []sdk.AccAddress, amounts []uint64) error {
	if len(keys) == 0 {
		return types.ErrEmptyKeys
	}
	if len(keys) != len(amounts) {
		return errorsmod.Wrapf(types.ErrDifferentLengths, "%d keys, %d amounts", len(keys), len(amounts))
	}
	if len(keys) > types.MaxMultipleKeys {
		return errorsmod.Wrapf(types.ErrTooManyKeys, "%d keys, at most %d", len(keys), types.MaxMultipleKeys)
	}
	return nil
}

// AddStakeMultiple stakes on several modules at once. Either every stake is
// added or none is.
func (k Keeper) AddStakeMultiple(ctx context.Context, caller sdk.AccAddress, modules []sdk.AccAddress, amounts []uint64) error {
	if err := validateMultiple(modules, amounts); err != nil {
		return err
	}
	var total uint64
	for _, amount := range amounts {
		total = saturatingAdd(total, amount)
	}
	if free := k.BalanceKeeper.FreeBalance(ctx, caller); free < total {
		return errorsmod.Wrapf(types.ErrNotEnoughBalanceToStake, "free balance %d, wants %d", free, total)
	}
	return k.inCache(ctx, func(cacheCtx context.Context) error {
		for i, module := range modules {
			if err := k.AddStake(cacheCtx, caller, module, amounts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveStakeMultiple unstakes from several modules at once.
func (k Keeper) RemoveStakeMultiple(ctx context.Context, caller sdk.AccAddress, modules []sdk.AccAddress, amounts []uint64) error {
	if err := validateMultiple(modules, amounts); err != nil {
		return err
	}
	return k.inCache(ctx, func(cacheCtx context.Context) error {
		for i, module := range modules {
			if err := k.RemoveStake(cacheCtx, caller, module, amounts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// TransferStake moves amount of the caller's stake from one module to another.
func (k Keeper) TransferStake(ctx context.Context, caller, from, to sdk.AccAddress, amount uint64) error {
	for _, module := range []sdk.AccAddress{from, to} {
		registered, err := k.IsRegisteredAnywhere(ctx, module)
		if err != nil {
			return err
		}
		if !registered {
			return errorsmod.Wrapf(types.ErrNotRegistered, "%s", module)
		}
	}
	staked, err := k.GetStakeTo(ctx, caller, from)
	if err != nil {
		return err
	}
	if staked < amount {
		return errorsmod.Wrapf(types.ErrNotEnoughStakeToWithdraw, "staked %d, wants %d", staked, amount)
	}
	if _, err := k.DecreaseStake(ctx, caller, from, &amount, false); err != nil {
		return err
	}
	if err := k.IncreaseStake(ctx, caller, to, amount); err != nil {
		return err
	}
	k.emitStakeEvent(ctx, types.EventTypeStakeRemoved, caller, from, amount)
	k.emitStakeEvent(ctx, types.EventTypeStakeAdded, caller, to, amount)
	return nil
}

// TransferMultiple pays free balance to several destinations.
func (k Keeper) TransferMultiple(ctx context.Context, caller sdk.AccAddress, destinations []sdk.AccAddress, amounts []uint64) error {
	if err := validateMultiple(destinations, amounts); err != nil {
		return err
	}
	var total uint64
	for _, amount := range amounts {
		total = saturatingAdd(total, amount)
	}
	if free := k.BalanceKeeper.FreeBalance(ctx, caller); free < total {
		return errorsmod.Wrapf(types.ErrNotEnoughBalanceToTransfer, "free balance %d, wants %d", free, total)
	}
	return k.inCache(ctx, func(cacheCtx context.Context) error {
		for i, destination := range destinations {
			if err := k.BalanceKeeper.Transfer(cacheCtx, caller, destination, amounts[i], "transfer"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (k Keeper) emitStakeEvent(ctx context.Context, eventType string, delegator, module sdk.AccAddress, amount uint64) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		eventType,
		sdk.NewAttribute(types.AttributeKeyDelegator, delegator.String()),
		sdk.NewAttribute(types.AttributeKeyModule, module.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
	))
}

// inCache runs fn on a cached context and writes it back only when fn
// succeeds.
func (k Keeper) inCache(ctx context.Context, fn func(cacheCtx context.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}
