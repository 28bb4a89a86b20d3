package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// GetParams get all parameters as types.Params
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	return itemOrDefault(ctx, k.Params, types.DefaultParams())
}

// SetParams set the params
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return k.Params.Set(ctx, params)
}

func (k Keeper) GetUnitEmission(ctx context.Context) (uint64, error) {
	return itemOrDefault(ctx, k.UnitEmission, types.DefaultUnitEmission)
}

// UpdateParams replaces the global parameters on behalf of the authority.
func (k Keeper) UpdateParams(ctx context.Context, signer string, params types.Params) error {
	if signer != k.authority {
		return errorsmod.Wrapf(types.ErrInvalidSigner, "invalid authority; expected %s, got %s", k.authority, signer)
	}
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.LogInfo("Params updated", types.Subnets, "signer", signer)
	return nil
}

// UpdateSubnetParams applies params to netuid on behalf of the authority.
func (k Keeper) UpdateSubnetParams(ctx context.Context, signer string, netuid uint16, params types.SubnetParams) error {
	if signer != k.authority {
		return errorsmod.Wrapf(types.ErrInvalidSigner, "invalid authority; expected %s, got %s", k.authority, signer)
	}
	changeset, err := k.UpdateSubnetChangeset(ctx, netuid, params)
	if err != nil {
		return err
	}
	return changeset.Apply(ctx, netuid)
}
