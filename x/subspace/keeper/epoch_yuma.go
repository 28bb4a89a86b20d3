package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/calculations"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// yumaEpoch runs Yuma consensus on netuid, pays out drained and persists the
// consensus vectors and bonds.
func (k Keeper) yumaEpoch(ctx context.Context, netuid uint16, subnet types.SubnetParams, drained uint64) error {
	keys, err := k.GetUidKeyPairs(ctx, netuid)
	if err != nil {
		return err
	}
	n := len(keys)

	stakes := make([]uint64, n)
	for i, key := range keys {
		if stakes[i], err = k.GetStake(ctx, key); err != nil {
			return err
		}
	}
	weights, err := k.loadRows(ctx, k.Weights, netuid, n)
	if err != nil {
		return err
	}
	bonds, err := k.loadRows(ctx, k.Bonds, netuid, n)
	if err != nil {
		return err
	}
	lastUpdate, err := getVector(ctx, k.LastUpdate, netuid, n)
	if err != nil {
		return err
	}
	registered := make([]uint64, n)
	for uid := range registered {
		if registered[uid], err = getOrDefault(ctx, k.RegistrationBlock, collections.Join(netuid, uint16(uid)), 0); err != nil {
			return err
		}
	}

	out := calculations.Yuma(calculations.YumaInput{
		Stake:                stakes,
		Weights:              calculations.SparseFromU16(weights, n),
		Bonds:                calculations.SparseFromU16(bonds, n),
		LastUpdate:           lastUpdate,
		RegistrationBlock:    registered,
		MaxAllowedValidators: int(subnet.MaxAllowedValidators),
		Kappa:                calculations.U16ProportionToDec(subnet.Kappa),
		BondsMovingAverage:   calculations.DecFromU64(subnet.BondsMA).QuoTruncate(calculations.DecFromU64(types.MaxBondsMovingAverage)),
		CurrentBlock:         uint64(sdk.UnwrapSDKContext(ctx).BlockHeight()),
		ActivityCutoff:       subnet.MaxWeightAge,
	})

	shares := emissionShares{incentive: out.Incentive, dividends: out.Dividends}
	if out.Fallback != nil {
		shares = emissionShares{incentive: calculations.ZeroVector(n), dividends: out.Fallback}
	}
	emission, err := k.distributeEmission(ctx, netuid, subnet, keys, shares, drained)
	if err != nil {
		return err
	}

	u16Vectors := []struct {
		m   collections.Map[uint16, []uint16]
		vec []uint16
	}{
		{k.Incentive, calculations.VectorToU16(out.Incentive)},
		{k.Dividends, calculations.VectorToU16(out.Dividends)},
		{k.Trust, calculations.VectorToU16(out.Trust)},
		{k.Consensus, calculations.VectorToU16(out.Consensus)},
		{k.Rank, calculations.VectorToU16(out.Rank)},
		{k.PruningScores, calculations.VectorToU16(out.PruningScores)},
		{k.ValidatorTrust, calculations.VectorToU16(out.ValidatorTrust)},
	}
	for _, v := range u16Vectors {
		if err := v.m.Set(ctx, netuid, v.vec); err != nil {
			return err
		}
	}
	if err := k.ValidatorPermits.Set(ctx, netuid, out.ValidatorPermits); err != nil {
		return err
	}
	if err := k.Active.Set(ctx, netuid, out.Active); err != nil {
		return err
	}
	if err := k.Emission.Set(ctx, netuid, emission); err != nil {
		return err
	}

	for uid, row := range calculations.SparseToU16(out.Bonds) {
		key := collections.Join(netuid, uint16(uid))
		if len(row) == 0 {
			if err := k.Bonds.Remove(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err := k.Bonds.Set(ctx, key, row); err != nil {
			return err
		}
	}
	k.LogInfo("Yuma epoch finished", types.Epoch, "netuid", netuid, "n", n, "emission", drained)
	return nil
}

// loadRows reads the sparse rows of the first n uids of netuid.
func (k Keeper) loadRows(ctx context.Context, m collections.Map[collections.Pair[uint16, uint16], []types.SparseEntry], netuid uint16, n int) ([][]types.SparseEntry, error) {
	rows := make([][]types.SparseEntry, n)
	for uid := range rows {
		row, err := getOrDefault(ctx, m, collections.Join(netuid, uint16(uid)), nil)
		if err != nil {
			return nil, err
		}
		rows[uid] = row
	}
	return rows, nil
}
