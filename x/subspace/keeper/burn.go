package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/calculations"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// adjustBurns steps the registration-burn controller of every subnet whose
// target_registrations_interval divides height, and the subnet creation burn
// at subnet_burn_config.adjustment_interval.
func (k Keeper) adjustBurns(ctx context.Context, height uint64) error {
	if height == 0 {
		return nil
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	netuids, err := k.Netuids(ctx)
	if err != nil {
		return err
	}

	for _, netuid := range netuids {
		subnet, err := k.GetSubnetParams(ctx, netuid)
		if err != nil {
			return err
		}
		if subnet.TargetRegistrationsInterval == 0 || height%uint64(subnet.TargetRegistrationsInterval) != 0 {
			continue
		}
		current, err := getOrDefault(ctx, k.Burn, netuid, params.BurnConfig.MinBurn)
		if err != nil {
			return err
		}
		registrations, err := getOrDefault(ctx, k.RegistrationsThisInterval, netuid, 0)
		if err != nil {
			return err
		}
		next := calculations.AdjustBurn(calculations.BurnAdjustment{
			Current:       current,
			Registrations: uint64(registrations),
			Target:        uint64(subnet.TargetRegistrationsPerInterval),
			Alpha:         subnet.AdjustmentAlpha,
			Min:           params.BurnConfig.MinBurn,
			Max:           params.BurnConfig.MaxBurn,
		})
		if err := k.Burn.Set(ctx, netuid, next); err != nil {
			return err
		}
		if err := k.RegistrationsThisInterval.Set(ctx, netuid, 0); err != nil {
			return err
		}
		k.emitBurnAdjusted(ctx, strconv.FormatUint(uint64(netuid), 10), next)
		k.LogDebug("Burn adjusted", types.Burn, "netuid", netuid, "registrations", registrations, "from", current, "to", next)
	}

	cfg := params.SubnetBurnConfig
	if cfg.AdjustmentInterval == 0 || height%cfg.AdjustmentInterval != 0 {
		return nil
	}
	current, err := k.GetSubnetBurn(ctx)
	if err != nil {
		return err
	}
	registrations, err := itemOrDefault(ctx, k.SubnetRegistrationsThisInterval, 0)
	if err != nil {
		return err
	}
	next := calculations.AdjustBurn(calculations.BurnAdjustment{
		Current:       current,
		Registrations: uint64(registrations),
		Target:        cfg.ExpectedRegistrations,
		Alpha:         cfg.AdjustmentAlpha,
		Min:           cfg.MinBurn,
		Max:           cfg.MaxBurn,
	})
	if err := k.SubnetBurn.Set(ctx, next); err != nil {
		return err
	}
	if err := k.SubnetRegistrationsThisInterval.Set(ctx, 0); err != nil {
		return err
	}
	k.emitBurnAdjusted(ctx, "subnet", next)
	k.LogDebug("Subnet burn adjusted", types.Burn, "registrations", registrations, "from", current, "to", next)
	return nil
}

func (k Keeper) emitBurnAdjusted(ctx context.Context, netuid string, burn uint64) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeBurnAdjusted,
		sdk.NewAttribute(types.AttributeKeyNetuid, netuid),
		sdk.NewAttribute(types.AttributeKeyBurn, strconv.FormatUint(burn, 10)),
	))
}
