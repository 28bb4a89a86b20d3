package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// SubnetChangeset is a validated set of subnet parameters waiting to be
// written.
type SubnetChangeset struct {
	keeper Keeper
	params types.SubnetParams
}

// NewSubnetChangeset validates params for a subnet that does not exist yet.
func (k Keeper) NewSubnetChangeset(ctx context.Context, params types.SubnetParams) (*SubnetChangeset, error) {
	cs := &SubnetChangeset{keeper: k, params: params}
	if err := cs.validate(ctx, nil); err != nil {
		return nil, err
	}
	return cs, nil
}

// UpdateSubnetChangeset validates params as the new parameters of netuid,
// which may keep its own name.
func (k Keeper) UpdateSubnetChangeset(ctx context.Context, netuid uint16, params types.SubnetParams) (*SubnetChangeset, error) {
	if _, err := k.GetSubnetParams(ctx, netuid); err != nil {
		return nil, err
	}
	cs := &SubnetChangeset{keeper: k, params: params}
	if err := cs.validate(ctx, &netuid); err != nil {
		return nil, err
	}
	return cs, nil
}

func (cs *SubnetChangeset) Params() types.SubnetParams {
	return cs.params
}

func (cs *SubnetChangeset) validate(ctx context.Context, netuid *uint16) error {
	global, err := cs.keeper.GetParams(ctx)
	if err != nil {
		return err
	}
	if err := cs.params.ValidateBasic(global); err != nil {
		return err
	}
	owner, found, err := cs.keeper.GetNetuidForName(ctx, cs.params.Name)
	if err != nil {
		return err
	}
	if found && (netuid == nil || owner != *netuid) {
		return errorsmod.Wrapf(types.ErrSubnetNameAlreadyExists, "%q belongs to subnet %d", cs.params.Name, owner)
	}
	return nil
}

// Apply validates the changeset again against current state and writes it
// to netuid. Lowering max_allowed_uids below the subnet size deregisters the
// highest uids, at most MaxRemovalsPerChangeset per call; when the cap is hit
// the stored max_allowed_uids is the size the subnet was left at.
func (cs *SubnetChangeset) Apply(ctx context.Context, netuid uint16) error {
	k := cs.keeper
	if err := cs.validate(ctx, &netuid); err != nil {
		return err
	}
	params := cs.params
	removed := 0
	err := k.inCache(ctx, func(cacheCtx context.Context) error {
		n, err := k.setMaxAllowedUids(cacheCtx, netuid, params.MaxAllowedUids)
		if err != nil {
			return err
		}
		removed = n
		size, err := k.GetN(cacheCtx, netuid)
		if err != nil {
			return err
		}
		if size > params.MaxAllowedUids {
			params.MaxAllowedUids = size
		}
		if err := k.SubnetParams.Set(cacheCtx, netuid, params); err != nil {
			return err
		}
		if err := k.GovernanceKeeper.UpdateSubnetGovernanceConfiguration(cacheCtx, netuid, params.Governance); err != nil {
			return errorsmod.Wrap(types.ErrInvalidGovernanceConfiguration, err.Error())
		}
		return nil
	})
	if err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSubnetParamsUpdated,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyName, params.Name),
	))
	k.LogInfo("Subnet params updated", types.Subnets, "netuid", netuid, "name", params.Name, "deregistered", removed, "max_allowed_uids", params.MaxAllowedUids)
	return nil
}

// setMaxAllowedUids removes modules from the top uid down until the subnet
// fits max or the per-call cap is hit.
func (k Keeper) setMaxAllowedUids(ctx context.Context, netuid uint16, max uint16) (int, error) {
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return 0, err
	}
	removed := 0
	for n > max && removed < types.MaxRemovalsPerChangeset {
		if err := k.RemoveModule(ctx, netuid, n-1); err != nil {
			return removed, err
		}
		removed++
		n--
	}
	return removed, nil
}
