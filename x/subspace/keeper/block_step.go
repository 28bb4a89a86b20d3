package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// BlockStep advances the economy by one block: it resets the per-block
// registration counter, steps the burn controllers, queues this block's
// emission on every subnet and runs the epochs that are due, ascending by
// netuid. A failing epoch is rolled back and logged, its pending emission
// is kept for the next tempo.
func (k Keeper) BlockStep(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := uint64(sdkCtx.BlockHeight())

	if err := k.RegistrationsPerBlock.Set(ctx, 0); err != nil {
		return err
	}
	if err := k.inCache(ctx, func(cacheCtx context.Context) error {
		return k.adjustBurns(cacheCtx, height)
	}); err != nil {
		k.LogError("Burn adjustment failed", types.Burn, "height", height, "error", err)
	}

	emission, err := k.EmissionPerBlock(ctx)
	if err != nil {
		return err
	}
	priced, err := k.SubnetPricing(ctx, emission)
	if err != nil {
		return err
	}

	netuids, err := k.Netuids(ctx)
	if err != nil {
		return err
	}
	for _, netuid := range netuids {
		pending, err := getOrDefault(ctx, k.PendingEmission, netuid, 0)
		if err != nil {
			return err
		}
		pending = saturatingAdd(pending, priced[netuid])
		if err := k.PendingEmission.Set(ctx, netuid, pending); err != nil {
			return err
		}

		subnet, err := k.GetSubnetParams(ctx, netuid)
		if err != nil {
			return err
		}
		if subnet.Tempo != 0 && (height+uint64(netuid))%uint64(subnet.Tempo) != 0 {
			continue
		}
		if err := k.RunEpoch(ctx, netuid); err != nil {
			return err
		}
	}
	return nil
}

// RunEpoch drains the pending emission of netuid into the engine its
// consensus type selects. The engine runs on a cached context that is only
// written back when it succeeds. The returned error is a storage failure
// outside the engine; engine failures are logged and reported as
// epoch_failed.
func (k Keeper) RunEpoch(ctx context.Context, netuid uint16) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return err
	}
	consensus, err := k.consensusType(ctx, netuid)
	if err != nil {
		return err
	}
	if n == 0 && consensus != types.ConsensusTreasury {
		k.LogDebug("Skipping epoch of empty subnet", types.Epoch, "netuid", netuid)
		return nil
	}
	pending, err := getOrDefault(ctx, k.PendingEmission, netuid, 0)
	if err != nil {
		return err
	}

	err = k.inCacheRecover(ctx, func(cacheCtx context.Context) error {
		subnet, err := k.GetSubnetParams(cacheCtx, netuid)
		if err != nil {
			return err
		}
		switch consensus {
		case types.ConsensusRoot:
			err = k.linearEpoch(cacheCtx, netuid, subnet, true, pending)
		case types.ConsensusLinear:
			err = k.linearEpoch(cacheCtx, netuid, subnet, false, pending)
		case types.ConsensusYuma:
			err = k.yumaEpoch(cacheCtx, netuid, subnet, pending)
		case types.ConsensusTreasury:
			err = k.payTreasury(cacheCtx, netuid, pending)
		default:
			err = errorsmod.Wrapf(types.ErrUnknownConsensus, "netuid %d: %d", netuid, consensus)
		}
		if err != nil {
			return err
		}
		if err := k.PendingEmission.Set(cacheCtx, netuid, 0); err != nil {
			return err
		}
		return k.resetSetWeightCalls(cacheCtx, netuid)
	})
	if err != nil {
		k.LogError("Epoch failed", types.Epoch, "netuid", netuid, "consensus", consensus.String(), "pending", pending, "error", err)
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeEpochFailed,
			sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
			sdk.NewAttribute(types.AttributeKeyError, err.Error()),
		))
		return nil
	}

	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeEpochFinished,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyEmission, strconv.FormatUint(pending, 10)),
		sdk.NewAttribute(types.AttributeKeyHeight, strconv.FormatInt(sdkCtx.BlockHeight(), 10)),
	))
	return nil
}

func (k Keeper) payTreasury(ctx context.Context, netuid uint16, amount uint64) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if params.TreasuryAddress == "" {
		return errorsmod.Wrapf(types.ErrTreasuryNotSet, "netuid %d", netuid)
	}
	treasury, err := sdk.AccAddressFromBech32(params.TreasuryAddress)
	if err != nil {
		return errorsmod.Wrapf(types.ErrTreasuryNotSet, "%s", err)
	}
	if err := k.BalanceKeeper.Mint(ctx, amount, "treasury emission"); err != nil {
		return err
	}
	if err := k.BalanceKeeper.Deposit(ctx, treasury, amount, "treasury emission"); err != nil {
		return err
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTreasuryPaid,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
	))
	k.LogInfo("Treasury paid", types.Emission, "netuid", netuid, "amount", amount, "treasury", params.TreasuryAddress)
	return nil
}

// inCacheRecover is inCache that also turns a panic inside fn into an
// error.
func (k Keeper) inCacheRecover(ctx context.Context, fn func(cacheCtx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errorsmod.Wrapf(types.ErrEpochPanicked, "%v", r)
		}
	}()
	return k.inCache(ctx, fn)
}
