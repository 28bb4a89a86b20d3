package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// RegisterInvariants registers the subspace invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "stake", StakeInvariant(k))
}

// StakeInvariant checks TotalStake == Σ Stake == Σ StakeFrom and that every
// StakeFrom edge is mirrored in StakeTo.
func StakeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		err := k.CheckStakeLedger(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "stake", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "stake", "stake ledger is consistent"), false
	}
}

// CheckStakeLedger returns ErrStakeLedgerMismatch when the ledger aggregates
// disagree.
func (k Keeper) CheckStakeLedger(ctx context.Context) error {
	total, err := k.GetTotalStake(ctx)
	if err != nil {
		return err
	}

	var sumStake uint64
	perModule := make(map[string]uint64)
	err = k.Stake.Walk(ctx, nil, func(module sdk.AccAddress, amount uint64) (bool, error) {
		sumStake = saturatingAdd(sumStake, amount)
		perModule[module.String()] = amount
		return false, nil
	})
	if err != nil {
		return err
	}

	var sumFrom uint64
	var edgesFrom int
	fromPerModule := make(map[string]uint64)
	var broken error
	err = k.StakeFrom.Walk(ctx, nil, func(key collections.Pair[sdk.AccAddress, sdk.AccAddress], amount uint64) (bool, error) {
		sumFrom = saturatingAdd(sumFrom, amount)
		edgesFrom++
		fromPerModule[key.K1().String()] = saturatingAdd(fromPerModule[key.K1().String()], amount)
		to, err := getOrDefault(ctx, k.StakeTo, collections.Join(key.K2(), key.K1()), 0)
		if err != nil {
			return true, err
		}
		if to != amount {
			broken = fmt.Errorf("edge %s -> %s: stake_from %d, stake_to %d", key.K2(), key.K1(), amount, to)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if broken != nil {
		return errorsmod.Wrap(types.ErrStakeLedgerMismatch, broken.Error())
	}

	if total != sumStake || total != sumFrom {
		return errorsmod.Wrapf(types.ErrStakeLedgerMismatch, "total %d, sum of stake %d, sum of stake_from %d", total, sumStake, sumFrom)
	}
	for module, amount := range perModule {
		if fromPerModule[module] != amount {
			return errorsmod.Wrapf(types.ErrStakeLedgerMismatch, "module %s: stake %d, stake_from %d", module, amount, fromPerModule[module])
		}
	}
	var edgesTo int
	err = k.StakeTo.Walk(ctx, nil, func(collections.Pair[sdk.AccAddress, sdk.AccAddress], uint64) (bool, error) {
		edgesTo++
		return false, nil
	})
	if err != nil {
		return err
	}
	if edgesTo != edgesFrom {
		return errorsmod.Wrapf(types.ErrStakeLedgerMismatch, "%d stake_to edges, %d stake_from edges", edgesTo, edgesFrom)
	}
	return nil
}
