package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/calculations"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// linearPass is the loaded state of a subnet plus the outcome of the linear
// engine over it.
type linearPass struct {
	keys   []sdk.AccAddress
	stakes []uint64
	out    calculations.LinearOutput
}

// runLinearPass prunes the stored weights of netuid and scores them. Root
// subnets score netuids, every other subnet scores its own uids.
func (k Keeper) runLinearPass(ctx context.Context, netuid uint16, subnet types.SubnetParams, rootPriced bool) (linearPass, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return linearPass{}, err
	}
	keys, err := k.GetUidKeyPairs(ctx, netuid)
	if err != nil {
		return linearPass{}, err
	}
	n := len(keys)
	stakes := make([]uint64, n)
	var totalStake uint64
	for i, key := range keys {
		if stakes[i], err = k.GetStake(ctx, key); err != nil {
			return linearPass{}, err
		}
		totalStake = saturatingAdd(totalStake, stakes[i])
	}
	stake := calculations.Normalize(calculations.VectorFromU64(stakes))

	cols := n
	validTarget := func(target uint16) (bool, error) { return int(target) < n, nil }
	if rootPriced {
		if cols, err = k.netuidSpace(ctx); err != nil {
			return linearPass{}, err
		}
		validTarget = func(target uint16) (bool, error) {
			if target == netuid {
				return false, nil
			}
			return k.SubnetExists(ctx, target)
		}
	}

	rows, err := k.pruneWeights(ctx, netuid, subnet, params, pruneInput{
		n:           n,
		stake:       stake,
		totalStake:  totalStake,
		validTarget: validTarget,
	})
	if err != nil {
		return linearPass{}, err
	}

	out := calculations.Linear(calculations.LinearInput{
		Stake:        stake,
		RawStake:     stakes,
		Weights:      calculations.SparseFromU16Cols(rows, n, cols),
		Cols:         cols,
		MaskDiagonal: !rootPriced,
		TrustRatio:   calculations.PercentToDec(subnet.TrustRatio),
		MinStake:     subnet.MinStake,
	})
	return linearPass{keys: keys, stakes: stakes, out: out}, nil
}

type pruneInput struct {
	n           int
	stake       []sdkmath.LegacyDec
	totalStake  uint64
	validTarget func(uint16) (bool, error)
}

// pruneWeights drops rows older than max_weight_age or shorter than
// min_allowed_weights, and cells that point at unknown targets or carry less
// than min_weight_stake. Changed rows are written back. Rows are truncated to
// max_allowed_weights cells.
func (k Keeper) pruneWeights(ctx context.Context, netuid uint16, subnet types.SubnetParams, params types.Params, in pruneInput) ([][]types.SparseEntry, error) {
	lastUpdate, err := getVector(ctx, k.LastUpdate, netuid, in.n)
	if err != nil {
		return nil, err
	}
	height := uint64(sdk.UnwrapSDKContext(ctx).BlockHeight())
	totalStake := calculations.DecFromU64(in.totalStake)

	rows := make([][]types.SparseEntry, in.n)
	for uid := 0; uid < in.n; uid++ {
		key := collections.Join(netuid, uint16(uid))
		row, err := getOrDefault(ctx, k.Weights, key, nil)
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if saturatingSub(height, lastUpdate[uid]) > subnet.MaxWeightAge || len(row) < int(subnet.MinAllowedWeights) {
			if err := k.Weights.Remove(ctx, key); err != nil {
				return nil, err
			}
			continue
		}

		kept := make([]types.SparseEntry, 0, len(row))
		for _, cell := range row {
			if len(kept) >= int(subnet.MaxAllowedWeights) {
				break
			}
			ok, err := in.validTarget(cell.Uid)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if params.MinWeightStake > 0 {
				weightStake := in.stake[uid].MulTruncate(calculations.U16ProportionToDec(cell.Value)).MulTruncate(totalStake)
				if !weightStake.GT(calculations.DecFromU64(params.MinWeightStake)) {
					continue
				}
			}
			kept = append(kept, cell)
		}
		if len(kept) < int(subnet.MinAllowedWeights) {
			if err := k.Weights.Remove(ctx, key); err != nil {
				return nil, err
			}
			continue
		}
		if len(kept) != len(row) {
			if err := k.Weights.Set(ctx, key, kept); err != nil {
				return nil, err
			}
		}
		rows[uid] = kept
	}
	return rows, nil
}

// netuidSpace is one past the highest existing netuid.
func (k Keeper) netuidSpace(ctx context.Context) (int, error) {
	netuids, err := k.Netuids(ctx)
	if err != nil || len(netuids) == 0 {
		return 0, err
	}
	return int(netuids[len(netuids)-1]) + 1, nil
}

// linearEpoch runs the linear engine on netuid and pays out drained. A root
// subnet scores netuids, so its modules are paid through dividends only.
func (k Keeper) linearEpoch(ctx context.Context, netuid uint16, subnet types.SubnetParams, rootPriced bool, drained uint64) error {
	pass, err := k.runLinearPass(ctx, netuid, subnet, rootPriced)
	if err != nil {
		return err
	}
	n := len(pass.keys)

	incentive, trust := pass.out.Incentive, pass.out.Trust
	if rootPriced {
		incentive, trust = calculations.ZeroVector(n), calculations.ZeroVector(n)
	}
	dividends := pass.out.Dividends

	emission, err := k.distributeEmission(ctx, netuid, subnet, pass.keys, emissionShares{
		incentive: incentive,
		dividends: dividends,
	}, drained)
	if err != nil {
		return err
	}

	pruning := calculations.Normalize(calculations.AddVectors(incentive, dividends))
	if err := k.Incentive.Set(ctx, netuid, calculations.VectorToU16(incentive)); err != nil {
		return err
	}
	if err := k.Dividends.Set(ctx, netuid, calculations.VectorToU16(dividends)); err != nil {
		return err
	}
	if err := k.Trust.Set(ctx, netuid, calculations.VectorToU16(trust)); err != nil {
		return err
	}
	if err := k.PruningScores.Set(ctx, netuid, calculations.VectorToU16(pruning)); err != nil {
		return err
	}
	if err := k.Emission.Set(ctx, netuid, emission); err != nil {
		return err
	}
	k.LogInfo("Linear epoch finished", types.Epoch, "netuid", netuid, "n", n, "emission", drained, "root", rootPriced)
	return nil
}
