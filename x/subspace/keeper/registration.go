package keeper

import (
	"context"
	"math"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// RegisterRequest carries a module registration.
type RegisterRequest struct {
	Caller      sdk.AccAddress
	NetworkName string
	Name        string
	Address     string
	Stake       uint64
	ModuleKey   sdk.AccAddress
}

// Register puts ModuleKey on the subnet called NetworkName, creating the
// subnet with the caller as founder when the name is unknown. The caller
// pays Stake, the subnet burn is destroyed and the rest is staked on the new
// module.
func (k Keeper) Register(ctx context.Context, req RegisterRequest) (uint16, uint16, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, 0, err
	}
	perBlock, err := itemOrDefault(ctx, k.RegistrationsPerBlock, 0)
	if err != nil {
		return 0, 0, err
	}
	if perBlock >= params.MaxRegistrationsPerBlock {
		return 0, 0, errorsmod.Wrapf(types.ErrTooManyRegistrations, "%d this block", perBlock)
	}
	module := types.ModuleParams{Name: req.Name, Address: req.Address, DelegationFee: max(types.DefaultDelegationFee, params.FloorDelegationFee)}
	if err := module.ValidateBasic(params); err != nil {
		return 0, 0, err
	}

	netuid, found, err := k.GetNetuidForName(ctx, req.NetworkName)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		if netuid, err = k.registerSubnet(ctx, req); err != nil {
			return 0, 0, err
		}
	}
	subnet, err := k.GetSubnetParams(ctx, netuid)
	if err != nil {
		return 0, 0, err
	}

	intervalCount, err := getOrDefault(ctx, k.RegistrationsThisInterval, netuid, 0)
	if err != nil {
		return 0, 0, err
	}
	if intervalCount >= subnet.MaxRegistrationsPerInterval {
		return 0, 0, errorsmod.Wrapf(types.ErrTooManyRegistrationsInterval, "%d on subnet %d", intervalCount, netuid)
	}
	registered, err := k.IsRegistered(ctx, netuid, req.ModuleKey)
	if err != nil {
		return 0, 0, err
	}
	if registered {
		return 0, 0, errorsmod.Wrapf(types.ErrAlreadyRegistered, "%s on subnet %d", req.ModuleKey, netuid)
	}
	taken, err := k.moduleNameTaken(ctx, netuid, req.Name, nil)
	if err != nil {
		return 0, 0, err
	}
	if taken {
		return 0, 0, errorsmod.Wrapf(types.ErrModuleNameAlreadyExists, "%q", req.Name)
	}

	burn, err := getOrDefault(ctx, k.Burn, netuid, params.BurnConfig.MinBurn)
	if err != nil {
		return 0, 0, err
	}
	if req.Stake < saturatingAdd(burn, subnet.MinStake) {
		return 0, 0, errorsmod.Wrapf(types.ErrNotEnoughStakeToRegister, "stake %d, burn %d, min stake %d", req.Stake, burn, subnet.MinStake)
	}
	if free := k.BalanceKeeper.FreeBalance(ctx, req.Caller); free < req.Stake {
		return 0, 0, errorsmod.Wrapf(types.ErrNotEnoughBalanceToRegister, "free balance %d, stake %d", free, req.Stake)
	}

	prune, replace, err := k.pickReplacement(ctx, netuid, subnet, params)
	if err != nil {
		return 0, 0, err
	}

	if err := k.BalanceKeeper.Withdraw(ctx, req.Caller, req.Stake, "register"); err != nil {
		return 0, 0, errorsmod.Wrap(types.ErrBalanceNotRemoved, err.Error())
	}
	if err := k.BalanceKeeper.Burn(ctx, burn, "registration burn"); err != nil {
		return 0, 0, err
	}
	uid, err := k.AppendModule(ctx, netuid, req.ModuleKey, req.Name, req.Address)
	if err != nil {
		return 0, 0, err
	}
	if replace {
		// the new module is the last uid and moves into the pruned slot
		if err := k.RemoveModule(ctx, netuid, prune); err != nil {
			return 0, 0, err
		}
		uid = prune
	}
	if err := k.IncreaseStake(ctx, req.Caller, req.ModuleKey, req.Stake-burn); err != nil {
		return 0, 0, err
	}

	if err := k.RegistrationsPerBlock.Set(ctx, perBlock+1); err != nil {
		return 0, 0, err
	}
	if err := k.RegistrationsThisInterval.Set(ctx, netuid, intervalCount+1); err != nil {
		return 0, 0, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeModuleRegistered,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyUid, strconv.FormatUint(uint64(uid), 10)),
		sdk.NewAttribute(types.AttributeKeyModule, req.ModuleKey.String()),
		sdk.NewAttribute(types.AttributeKeyBurn, strconv.FormatUint(burn, 10)),
	))
	k.LogInfo("Module registered", types.Registration, "netuid", netuid, "uid", uid, "key", req.ModuleKey.String(), "burn", burn)
	return netuid, uid, nil
}

func (k Keeper) registerSubnet(ctx context.Context, req RegisterRequest) (uint16, error) {
	subnetBurn, err := k.GetSubnetBurn(ctx)
	if err != nil {
		return 0, err
	}
	if free := k.BalanceKeeper.FreeBalance(ctx, req.Caller); free < saturatingAdd(subnetBurn, req.Stake) {
		return 0, errorsmod.Wrapf(types.ErrNotEnoughBalanceToRegister, "free balance %d, subnet burn %d, stake %d", free, subnetBurn, req.Stake)
	}
	changeset, err := k.NewSubnetChangeset(ctx, types.DefaultSubnetParams(req.NetworkName, req.Caller))
	if err != nil {
		return 0, err
	}
	if err := k.BalanceKeeper.Withdraw(ctx, req.Caller, subnetBurn, "subnet registration"); err != nil {
		return 0, errorsmod.Wrap(types.ErrBalanceNotRemoved, err.Error())
	}
	if err := k.BalanceKeeper.Burn(ctx, subnetBurn, "subnet registration burn"); err != nil {
		return 0, err
	}
	return k.AddSubnet(ctx, changeset, nil)
}

// pickReplacement decides whether a registration on netuid must evict a
// module, and which one: the lowest pruning score among modules past their
// immunity period, lowest uid first.
func (k Keeper) pickReplacement(ctx context.Context, netuid uint16, subnet types.SubnetParams, params types.Params) (uint16, bool, error) {
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return 0, false, err
	}
	total, err := k.totalModules(ctx)
	if err != nil {
		return 0, false, err
	}
	if n < subnet.MaxAllowedUids && total < uint64(params.MaxAllowedModules) {
		return 0, false, nil
	}
	if n == 0 {
		return 0, false, errorsmod.Wrapf(types.ErrNoSlotAvailable, "module cap %d reached", params.MaxAllowedModules)
	}

	height := uint64(sdk.UnwrapSDKContext(ctx).BlockHeight())
	scores, err := getVector(ctx, k.PruningScores, netuid, int(n))
	if err != nil {
		return 0, false, err
	}
	var (
		best      uint16
		bestScore = uint16(math.MaxUint16)
		found     bool
	)
	for uid := uint16(0); uid < n; uid++ {
		registeredAt, err := getOrDefault(ctx, k.RegistrationBlock, collections.Join(netuid, uid), 0)
		if err != nil {
			return 0, false, err
		}
		if registeredAt+uint64(subnet.ImmunityPeriod) > height {
			continue
		}
		if !found || scores[uid] < bestScore {
			best, bestScore, found = uid, scores[uid], true
		}
	}
	if !found {
		return 0, false, errorsmod.Wrapf(types.ErrNoSlotAvailable, "every module on subnet %d is immune", netuid)
	}
	return best, true, nil
}

func (k Keeper) totalModules(ctx context.Context) (uint64, error) {
	var total uint64
	err := k.N.Walk(ctx, nil, func(_ uint16, n uint16) (bool, error) {
		total += uint64(n)
		return false, nil
	})
	return total, err
}

// Deregister removes the caller's module from netuid.
func (k Keeper) Deregister(ctx context.Context, caller sdk.AccAddress, netuid uint16) error {
	uid, found, err := k.GetUid(ctx, netuid, caller)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(types.ErrNotRegistered, "%s on subnet %d", caller, netuid)
	}
	if err := k.RemoveModule(ctx, netuid, uid); err != nil {
		return err
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeModuleDeregistered,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyUid, strconv.FormatUint(uint64(uid), 10)),
		sdk.NewAttribute(types.AttributeKeyModule, caller.String()),
	))
	return nil
}

func (k Keeper) GetSubnetBurn(ctx context.Context) (uint64, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	return itemOrDefault(ctx, k.SubnetBurn, params.SubnetBurnConfig.MinBurn)
}
