package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// GetUidKeyPairs returns the keys of netuid indexed by uid.
func (k Keeper) GetUidKeyPairs(ctx context.Context, netuid uint16) ([]sdk.AccAddress, error) {
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return nil, err
	}
	keys := make([]sdk.AccAddress, n)
	err = k.Keys.Walk(ctx, collections.NewPrefixedPairRange[uint16, uint16](netuid), func(key collections.Pair[uint16, uint16], value sdk.AccAddress) (bool, error) {
		if uid := key.K2(); int(uid) < len(keys) {
			keys[uid] = value
		}
		return false, nil
	})
	return keys, err
}

func (k Keeper) GetUid(ctx context.Context, netuid uint16, key sdk.AccAddress) (uint16, bool, error) {
	uid, err := k.Uids.Get(ctx, collections.Join(netuid, key))
	if errors.Is(err, collections.ErrNotFound) {
		return 0, false, nil
	}
	return uid, err == nil, err
}

func (k Keeper) IsRegistered(ctx context.Context, netuid uint16, key sdk.AccAddress) (bool, error) {
	return k.Uids.Has(ctx, collections.Join(netuid, key))
}

// IsRegisteredAnywhere reports whether key holds a uid on any subnet.
func (k Keeper) IsRegisteredAnywhere(ctx context.Context, key sdk.AccAddress) (bool, error) {
	netuids, err := k.Netuids(ctx)
	if err != nil {
		return false, err
	}
	for _, netuid := range netuids {
		registered, err := k.IsRegistered(ctx, netuid, key)
		if err != nil || registered {
			return registered, err
		}
	}
	return false, nil
}

func (k Keeper) GetDelegationFee(ctx context.Context, netuid uint16, key sdk.AccAddress) (uint16, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	fee, err := getOrDefault(ctx, k.DelegationFee, collections.Join(netuid, key), types.DefaultDelegationFee)
	if err != nil {
		return 0, err
	}
	if fee < params.FloorDelegationFee {
		fee = params.FloorDelegationFee
	}
	return fee, nil
}

func (k Keeper) moduleNameTaken(ctx context.Context, netuid uint16, name string, except *uint16) (bool, error) {
	taken := false
	err := k.Name.Walk(ctx, collections.NewPrefixedPairRange[uint16, uint16](netuid), func(key collections.Pair[uint16, uint16], value string) (bool, error) {
		if value == name && (except == nil || key.K2() != *except) {
			taken = true
			return true, nil
		}
		return false, nil
	})
	return taken, err
}

// AppendModule registers key on netuid with uid = n and grows every per-uid
// vector by one.
func (k Keeper) AppendModule(ctx context.Context, netuid uint16, key sdk.AccAddress, name, address string) (uint16, error) {
	uid, err := k.GetN(ctx, netuid)
	if err != nil {
		return 0, err
	}
	height := uint64(sdk.UnwrapSDKContext(ctx).BlockHeight())
	n := int(uid)

	if err := k.Keys.Set(ctx, collections.Join(netuid, uid), key); err != nil {
		return 0, err
	}
	if err := k.Uids.Set(ctx, collections.Join(netuid, key), uid); err != nil {
		return 0, err
	}
	if err := k.RegistrationBlock.Set(ctx, collections.Join(netuid, uid), height); err != nil {
		return 0, err
	}
	if err := k.Name.Set(ctx, collections.Join(netuid, uid), name); err != nil {
		return 0, err
	}
	if err := k.Address.Set(ctx, collections.Join(netuid, uid), address); err != nil {
		return 0, err
	}
	hasFee, err := k.DelegationFee.Has(ctx, collections.Join(netuid, key))
	if err != nil {
		return 0, err
	}
	if !hasFee {
		fee, err := k.GetDelegationFee(ctx, netuid, key)
		if err != nil {
			return 0, err
		}
		if err := k.DelegationFee.Set(ctx, collections.Join(netuid, key), fee); err != nil {
			return 0, err
		}
	}

	for _, m := range k.u16Vectors() {
		if err := appendVector(ctx, m, netuid, n, 0); err != nil {
			return 0, err
		}
	}
	if err := appendVector(ctx, k.Emission, netuid, n, 0); err != nil {
		return 0, err
	}
	if err := appendVector(ctx, k.LastUpdate, netuid, n, height); err != nil {
		return 0, err
	}
	if err := appendVector(ctx, k.ValidatorPermits, netuid, n, false); err != nil {
		return 0, err
	}
	if err := appendVector(ctx, k.Active, netuid, n, true); err != nil {
		return 0, err
	}

	if err := k.N.Set(ctx, netuid, uid+1); err != nil {
		return 0, err
	}
	k.LogDebug("Module appended", types.Modules, "netuid", netuid, "uid", uid, "key", key.String())
	return uid, nil
}

// RemoveModule frees uid by moving the last module into it. The removed key
// loses its inbound stake when it is registered nowhere else, and the subnet
// goes away once it has no modules left.
func (k Keeper) RemoveModule(ctx context.Context, netuid uint16, uid uint16) error {
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return err
	}
	if uid >= n {
		return errorsmod.Wrapf(types.ErrNotRegistered, "uid %d on subnet %d of size %d", uid, netuid, n)
	}
	last := n - 1
	key, err := k.Keys.Get(ctx, collections.Join(netuid, uid))
	if err != nil {
		return err
	}

	if uid != last {
		lastKey, err := k.Keys.Get(ctx, collections.Join(netuid, last))
		if err != nil {
			return err
		}
		if err := k.Keys.Set(ctx, collections.Join(netuid, uid), lastKey); err != nil {
			return err
		}
		if err := k.Uids.Set(ctx, collections.Join(netuid, lastKey), uid); err != nil {
			return err
		}
		if err := moveEntry(ctx, k.RegistrationBlock, netuid, last, uid); err != nil {
			return err
		}
		for _, m := range []collections.Map[collections.Pair[uint16, uint16], string]{k.Name, k.Address} {
			if err := moveEntry(ctx, m, netuid, last, uid); err != nil {
				return err
			}
		}
		for _, m := range []collections.Map[collections.Pair[uint16, uint16], []types.SparseEntry]{k.Weights, k.Bonds} {
			if err := moveEntry(ctx, m, netuid, last, uid); err != nil {
				return err
			}
		}
	}

	if err := k.Keys.Remove(ctx, collections.Join(netuid, last)); err != nil {
		return err
	}
	if err := k.RegistrationBlock.Remove(ctx, collections.Join(netuid, last)); err != nil {
		return err
	}
	for _, m := range []collections.Map[collections.Pair[uint16, uint16], string]{k.Name, k.Address} {
		if err := m.Remove(ctx, collections.Join(netuid, last)); err != nil {
			return err
		}
	}
	for _, m := range []collections.Map[collections.Pair[uint16, uint16], []types.SparseEntry]{k.Weights, k.Bonds} {
		if err := m.Remove(ctx, collections.Join(netuid, last)); err != nil {
			return err
		}
	}
	for _, m := range []collections.Map[collections.Pair[uint16, sdk.AccAddress], uint16]{k.Uids, k.DelegationFee, k.SetWeightCallsPerEpoch} {
		if err := m.Remove(ctx, collections.Join(netuid, key)); err != nil {
			return err
		}
	}

	for _, m := range k.u16Vectors() {
		if err := swapRemoveVector(ctx, m, netuid, int(n), int(uid)); err != nil {
			return err
		}
	}
	for _, m := range k.u64Vectors() {
		if err := swapRemoveVector(ctx, m, netuid, int(n), int(uid)); err != nil {
			return err
		}
	}
	for _, m := range k.boolVectors() {
		if err := swapRemoveVector(ctx, m, netuid, int(n), int(uid)); err != nil {
			return err
		}
	}

	if err := k.N.Set(ctx, netuid, last); err != nil {
		return err
	}
	k.LogDebug("Module removed", types.Modules, "netuid", netuid, "uid", uid, "key", key.String())

	if last == 0 {
		if err := k.RemoveSubnet(ctx, netuid); err != nil {
			return err
		}
	}
	return k.releaseIfUnregistered(ctx, key)
}

// UpdateModule changes the owner-editable fields of key's module on netuid.
func (k Keeper) UpdateModule(ctx context.Context, netuid uint16, key sdk.AccAddress, module types.ModuleParams) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	uid, found, err := k.GetUid(ctx, netuid, key)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(types.ErrNotRegistered, "%s on subnet %d", key, netuid)
	}
	if err := module.ValidateBasic(params); err != nil {
		return err
	}
	taken, err := k.moduleNameTaken(ctx, netuid, module.Name, &uid)
	if err != nil {
		return err
	}
	if taken {
		return errorsmod.Wrapf(types.ErrModuleNameAlreadyExists, "%q", module.Name)
	}

	if err := k.Name.Set(ctx, collections.Join(netuid, uid), module.Name); err != nil {
		return err
	}
	if err := k.Address.Set(ctx, collections.Join(netuid, uid), module.Address); err != nil {
		return err
	}
	if err := k.DelegationFee.Set(ctx, collections.Join(netuid, key), module.DelegationFee); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeModuleUpdated,
		sdk.NewAttribute(types.AttributeKeyNetuid, strconv.FormatUint(uint64(netuid), 10)),
		sdk.NewAttribute(types.AttributeKeyUid, strconv.FormatUint(uint64(uid), 10)),
		sdk.NewAttribute(types.AttributeKeyName, module.Name),
	))
	return nil
}

// ModuleInfo assembles the read model of uid on netuid.
func (k Keeper) ModuleInfo(ctx context.Context, netuid uint16, uid uint16) (types.ModuleInfo, error) {
	n, err := k.GetN(ctx, netuid)
	if err != nil {
		return types.ModuleInfo{}, err
	}
	if uid >= n {
		return types.ModuleInfo{}, errorsmod.Wrapf(types.ErrNotRegistered, "uid %d on subnet %d", uid, netuid)
	}
	key, err := k.Keys.Get(ctx, collections.Join(netuid, uid))
	if err != nil {
		return types.ModuleInfo{}, err
	}
	info := types.ModuleInfo{Netuid: netuid, Uid: uid, Key: key.String()}
	if info.Name, err = getOrDefault(ctx, k.Name, collections.Join(netuid, uid), ""); err != nil {
		return info, err
	}
	if info.Address, err = getOrDefault(ctx, k.Address, collections.Join(netuid, uid), ""); err != nil {
		return info, err
	}
	if info.DelegationFee, err = k.GetDelegationFee(ctx, netuid, key); err != nil {
		return info, err
	}
	if info.RegistrationBlock, err = getOrDefault(ctx, k.RegistrationBlock, collections.Join(netuid, uid), 0); err != nil {
		return info, err
	}
	if info.Stake, err = k.GetStake(ctx, key); err != nil {
		return info, err
	}

	size := int(n)
	incentive, err := getVector(ctx, k.Incentive, netuid, size)
	if err != nil {
		return info, err
	}
	dividends, err := getVector(ctx, k.Dividends, netuid, size)
	if err != nil {
		return info, err
	}
	trust, err := getVector(ctx, k.Trust, netuid, size)
	if err != nil {
		return info, err
	}
	emission, err := getVector(ctx, k.Emission, netuid, size)
	if err != nil {
		return info, err
	}
	lastUpdate, err := getVector(ctx, k.LastUpdate, netuid, size)
	if err != nil {
		return info, err
	}
	info.Incentive = incentive[uid]
	info.Dividends = dividends[uid]
	info.Trust = trust[uid]
	info.Emission = emission[uid]
	info.LastUpdate = lastUpdate[uid]
	return info, nil
}

func moveEntry[V any](ctx context.Context, m collections.Map[collections.Pair[uint16, uint16], V], netuid, from, to uint16) error {
	v, err := m.Get(ctx, collections.Join(netuid, from))
	if errors.Is(err, collections.ErrNotFound) {
		return m.Remove(ctx, collections.Join(netuid, to))
	}
	if err != nil {
		return err
	}
	return m.Set(ctx, collections.Join(netuid, to), v)
}

func appendVector[T any](ctx context.Context, m collections.Map[uint16, []T], netuid uint16, n int, value T) error {
	vec, err := getVector(ctx, m, netuid, n)
	if err != nil {
		return err
	}
	return m.Set(ctx, netuid, append(vec, value))
}

func swapRemoveVector[T any](ctx context.Context, m collections.Map[uint16, []T], netuid uint16, n int, uid int) error {
	vec, err := getVector(ctx, m, netuid, n)
	if err != nil {
		return err
	}
	vec[uid] = vec[n-1]
	return m.Set(ctx, netuid, vec[:n-1])
}
