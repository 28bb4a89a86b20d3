package keeper

import (
	"context"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// consensusType returns the engine tag of netuid. Untagged subnets run root
// consensus on RootNetuid and Yuma everywhere else.
func (k Keeper) consensusType(ctx context.Context, netuid uint16) (types.SubnetConsensus, error) {
	if consensus, ok := k.ConsensusKeeper.GetSubnetConsensusType(ctx, netuid); ok {
		return consensus, nil
	}
	if netuid == types.RootNetuid {
		return types.ConsensusRoot, nil
	}
	return types.ConsensusYuma, nil
}

// rootNetuid finds the existing subnet that prices the others, lowest netuid
// first.
func (k Keeper) rootNetuid(ctx context.Context) (uint16, bool, error) {
	netuids, err := k.Netuids(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, netuid := range netuids {
		consensus, err := k.consensusType(ctx, netuid)
		if err != nil {
			return 0, false, err
		}
		if consensus == types.ConsensusRoot {
			return netuid, true, nil
		}
	}
	return 0, false, nil
}
