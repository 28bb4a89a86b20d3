package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/agicommies/subspace-network/x/subspace/calculations"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// EmissionPerBlock is the halved unit emission for the current issuance.
func (k Keeper) EmissionPerBlock(ctx context.Context) (uint64, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	unit, err := k.GetUnitEmission(ctx)
	if err != nil {
		return 0, err
	}
	return calculations.EmissionPerBlock(calculations.HalvingSchedule{
		UnitEmission:    unit,
		HalvingInterval: params.HalvingInterval,
		MaxSupply:       params.MaxSupply,
		Decimals:        params.Decimals,
	}, k.BalanceKeeper.TotalIssuance(ctx)), nil
}

// SubnetPricing splits emission between the subnets by the incentive the
// root subnet assigns to each netuid, and stores the result in
// SubnetEmission. The root subnet itself is never priced. Without a root
// subnet, or when no existing subnet got a share, the split is even.
func (k Keeper) SubnetPricing(ctx context.Context, emission uint64) (map[uint16]uint64, error) {
	netuids, err := k.Netuids(ctx)
	if err != nil {
		return nil, err
	}
	root, hasRoot, err := k.rootNetuid(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]uint16, 0, len(netuids))
	for _, netuid := range netuids {
		if hasRoot && netuid == root {
			continue
		}
		targets = append(targets, netuid)
	}

	shares := calculations.ZeroVector(len(targets))
	if hasRoot {
		rootShares, err := k.rootShares(ctx, root)
		if err != nil {
			return nil, err
		}
		for i, netuid := range targets {
			if int(netuid) < len(rootShares) {
				shares[i] = rootShares[netuid]
			}
		}
	}
	if calculations.IsZero(shares) {
		shares = calculations.EvenSplit(len(targets))
	}
	shares = calculations.Normalize(shares)

	priced := make(map[uint16]uint64, len(netuids))
	if hasRoot {
		priced[root] = 0
	}
	for i, netuid := range targets {
		priced[netuid] = calculations.MulU64(emission, shares[i])
	}
	for _, netuid := range netuids {
		if err := k.SubnetEmission.Set(ctx, netuid, priced[netuid]); err != nil {
			return nil, err
		}
	}
	k.LogDebug("Subnets priced", types.Pricing, "emission", emission, "subnets", len(targets), "root", hasRoot)
	return priced, nil
}

func (k Keeper) rootShares(ctx context.Context, root uint16) ([]sdkmath.LegacyDec, error) {
	n, err := k.GetN(ctx, root)
	if err != nil || n == 0 {
		return nil, err
	}
	subnet, err := k.GetSubnetParams(ctx, root)
	if err != nil {
		return nil, err
	}
	pass, err := k.runLinearPass(ctx, root, subnet, true)
	if err != nil {
		return nil, err
	}
	return pass.out.Incentive, nil
}
