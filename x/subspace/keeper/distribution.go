package keeper

import (
	"context"
	"math"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/calculations"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// emissionShares are the normalized per-uid scores an epoch pays out. A zero
// vector hands its whole side of the split to the other one.
type emissionShares struct {
	incentive []sdkmath.LegacyDec
	dividends []sdkmath.LegacyDec
}

// distributeEmission pays drained out to the modules of netuid and returns
// the per-uid emission before burns. The returned vector always sums to
// drained.
func (k Keeper) distributeEmission(ctx context.Context, netuid uint16, subnet types.SubnetParams, keys []sdk.AccAddress, shares emissionShares, drained uint64) ([]uint64, error) {
	n := len(keys)
	if len(shares.incentive) != n || len(shares.dividends) != n {
		return nil, errorsmod.Wrapf(types.ErrVectorLengthMismatch, "%d keys, %d incentive, %d dividends", n, len(shares.incentive), len(shares.dividends))
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	founderUid, founderRegistered, err := k.founderUid(ctx, netuid, subnet)
	if err != nil {
		return nil, err
	}
	var founderEmission uint64
	if founderRegistered && subnet.FounderShare > 0 {
		founderEmission = calculations.MulU64(drained, calculations.PercentToDec(subnet.FounderShare))
	}
	rest := drained - founderEmission

	incentiveTotal := calculations.MulU64(rest, calculations.PercentToDec(subnet.IncentiveRatio))
	switch {
	case calculations.IsZero(shares.incentive):
		incentiveTotal = 0
	case calculations.IsZero(shares.dividends):
		incentiveTotal = rest
	}
	dividendsTotal := rest - incentiveTotal

	incentive := make([]uint64, n)
	dividends := make([]uint64, n)
	for i := 0; i < n; i++ {
		incentive[i] = calculations.MulU64(incentiveTotal, shares.incentive[i])
		dividends[i] = calculations.MulU64(dividendsTotal, shares.dividends[i])
	}
	if founderRegistered {
		incentive[founderUid] += founderEmission
	}

	var emitted uint64
	for i := 0; i < n; i++ {
		total := incentive[i] + dividends[i]
		if total < incentive[i] || emitted > math.MaxUint64-total {
			return nil, errorsmod.Wrapf(types.ErrArithmetic, "emission of uid %d overflows", i)
		}
		emitted += total
	}
	if emitted > drained {
		return nil, errorsmod.Wrapf(types.ErrEmittedMoreThanExpected, "emitted %d, drained %d", emitted, drained)
	}
	if dust := drained - emitted; dust > 0 && n > 0 {
		recipient := dustRecipient(incentive, dividends)
		if founderRegistered {
			recipient = int(founderUid)
		}
		incentive[recipient] += dust
	}

	emission := make([]uint64, n)
	for i := range emission {
		emission[i] = incentive[i] + dividends[i]
	}

	var burnQuota uint64
	if params.BurnRate > 0 && n > 0 {
		burnQuota = calculations.MulU64(drained, calculations.PercentToDec(params.BurnRate)) / uint64(n)
	}

	var credited, burned uint64
	for uid, key := range keys {
		inc, div := incentive[uid], dividends[uid]
		if burnQuota > 0 {
			if burnQuota > inc+div {
				taken, err := k.burnSelfStake(ctx, key, burnQuota-(inc+div))
				if err != nil {
					return nil, err
				}
				burned += taken
				continue
			}
			fromIncentive := min(burnQuota, inc)
			inc -= fromIncentive
			div -= burnQuota - fromIncentive
		}

		paid, err := k.payModule(ctx, netuid, key, inc, div)
		if err != nil {
			return nil, err
		}
		credited += paid
	}

	if err := k.BalanceKeeper.Mint(ctx, credited, "emission"); err != nil {
		return nil, err
	}
	if err := k.BalanceKeeper.Burn(ctx, burned, "burn quota"); err != nil {
		return nil, err
	}
	k.LogDebug("Emission distributed", types.Emission, "netuid", netuid, "drained", drained, "credited", credited, "burned", burned)
	return emission, nil
}

// payModule fans div out to the delegators of key net of the delegation fee,
// then credits what the owner keeps through its profit shares. It returns
// the amount credited.
func (k Keeper) payModule(ctx context.Context, netuid uint16, key sdk.AccAddress, inc, div uint64) (uint64, error) {
	var toDelegates uint64
	if div > 0 {
		ratios, err := k.OwnershipRatios(ctx, key)
		if err != nil {
			return 0, err
		}
		fee, err := k.GetDelegationFee(ctx, netuid, key)
		if err != nil {
			return 0, err
		}
		feeRatio := calculations.PercentToDec(fee)
		for _, ownership := range ratios {
			if ownership.Delegator.Equals(key) {
				continue
			}
			share := calculations.MulU64(div, ownership.Ratio)
			share -= calculations.MulU64(share, feeRatio)
			if err := k.IncreaseStake(ctx, ownership.Delegator, key, share); err != nil {
				return 0, err
			}
			toDelegates += share
		}
	}

	owner := inc + div - toDelegates
	profitShares, err := k.GetProfitShares(ctx, key)
	if err != nil {
		return 0, err
	}
	remaining := owner
	for _, ps := range profitShares {
		recipient, err := ps.Address()
		if err != nil {
			return 0, err
		}
		amount := calculations.MulU64(owner, calculations.U16ProportionToDec(ps.Share))
		if amount > remaining {
			amount = remaining
		}
		if err := k.IncreaseStake(ctx, recipient, key, amount); err != nil {
			return 0, err
		}
		remaining -= amount
	}
	if err := k.IncreaseStake(ctx, key, key, remaining); err != nil {
		return 0, err
	}
	return inc + div, nil
}

// burnSelfStake takes up to shortfall out of the stake key has on itself. The
// tokens stay in the module account until the caller burns them.
func (k Keeper) burnSelfStake(ctx context.Context, key sdk.AccAddress, shortfall uint64) (uint64, error) {
	self, err := k.GetStakeTo(ctx, key, key)
	if err != nil {
		return 0, err
	}
	take := min(shortfall, self)
	if take == 0 {
		return 0, nil
	}
	if _, err := k.DecreaseStake(ctx, key, key, &take, false); err != nil {
		return 0, err
	}
	k.LogDebug("Burn quota taken from stake", types.Burn, "module", key.String(), "amount", take)
	return take, nil
}

func (k Keeper) founderUid(ctx context.Context, netuid uint16, subnet types.SubnetParams) (uint16, bool, error) {
	founder, err := subnet.FounderAddress()
	if err != nil {
		k.LogWarn("Malformed founder address, founder share skipped", types.Emission, "netuid", netuid, "founder", subnet.Founder, "error", err)
		return 0, false, nil
	}
	return k.GetUid(ctx, netuid, founder)
}

// dustRecipient picks the uid with the highest emission, lowest uid on ties.
func dustRecipient(incentive, dividends []uint64) int {
	best := 0
	var bestTotal uint64
	for i := range incentive {
		if total := incentive[i] + dividends[i]; total > bestTotal {
			best, bestTotal = i, total
		}
	}
	return best
}
