package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// DistributeEmission exposes distributeEmission to the keeper_test package.
func (k Keeper) DistributeEmission(ctx context.Context, netuid uint16, subnet types.SubnetParams, keys []sdk.AccAddress, incentive, dividends []sdkmath.LegacyDec, drained uint64) ([]uint64, error) {
	return k.distributeEmission(ctx, netuid, subnet, keys, emissionShares{incentive: incentive, dividends: dividends}, drained)
}

func (k Keeper) AdjustBurns(ctx context.Context, height uint64) error {
	return k.adjustBurns(ctx, height)
}

func (k Keeper) ConsensusType(ctx context.Context, netuid uint16) (types.SubnetConsensus, error) {
	return k.consensusType(ctx, netuid)
}
