package subspace

import (
	"errors"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/keeper"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, genState types.GenesisState) {
	k.LogInfo("InitGenesis: starting module genesis", types.Genesis, "subnets", len(genState.Subnets), "stakes", len(genState.Stakes))

	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(err)
	}
	if err := k.UnitEmission.Set(ctx, genState.UnitEmission); err != nil {
		panic(err)
	}
	if err := k.SubnetBurn.Set(ctx, genState.SubnetBurn); err != nil {
		panic(err)
	}

	for _, subnet := range genState.Subnets {
		initSubnet(ctx, k, subnet)
	}
	// genesis subnets do not count toward the subnet burn controller
	if err := k.SubnetRegistrationsThisInterval.Set(ctx, 0); err != nil {
		panic(err)
	}

	for _, stake := range genState.Stakes {
		delegator := sdk.MustAccAddressFromBech32(stake.Delegator)
		module := sdk.MustAccAddressFromBech32(stake.Module)
		if err := k.IncreaseStake(ctx, delegator, module, stake.Amount); err != nil {
			panic(err)
		}
	}

	for _, ps := range genState.ProfitShares {
		if err := k.ProfitShares.Set(ctx, sdk.MustAccAddressFromBech32(ps.Key), ps.Shares); err != nil {
			panic(err)
		}
	}

	if err := k.CheckStakeLedger(ctx); err != nil {
		panic(err)
	}
	k.LogInfo("InitGenesis: finished module genesis", types.Genesis)
}

func initSubnet(ctx sdk.Context, k keeper.Keeper, subnet types.GenesisSubnet) {
	changeset, err := k.NewSubnetChangeset(ctx, subnet.Params)
	if err != nil {
		panic(err)
	}
	netuid := subnet.Netuid
	if _, err := k.AddSubnet(ctx, changeset, &netuid); err != nil {
		panic(err)
	}
	if err := k.Burn.Set(ctx, netuid, subnet.Burn); err != nil {
		panic(err)
	}

	lastUpdate := make([]uint64, 0, len(subnet.Modules))
	for _, module := range subnet.Modules {
		key := sdk.MustAccAddressFromBech32(module.Key)
		uid, err := k.AppendModule(ctx, netuid, key, module.Name, module.Address)
		if err != nil {
			panic(err)
		}
		if err := k.DelegationFee.Set(ctx, collections.Join(netuid, key), module.DelegationFee); err != nil {
			panic(err)
		}
		if err := k.RegistrationBlock.Set(ctx, collections.Join(netuid, uid), module.RegistrationBlock); err != nil {
			panic(err)
		}
		if len(module.Weights) > 0 {
			if err := k.Weights.Set(ctx, collections.Join(netuid, uid), module.Weights); err != nil {
				panic(err)
			}
		}
		lastUpdate = append(lastUpdate, module.LastUpdate)
	}
	if err := k.LastUpdate.Set(ctx, netuid, lastUpdate); err != nil {
		panic(err)
	}
}

// ExportGenesis returns the module's exported genesis.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) *types.GenesisState {
	genesis := types.DefaultGenesis()

	var err error
	if genesis.Params, err = k.GetParams(ctx); err != nil {
		panic(err)
	}
	if genesis.UnitEmission, err = k.GetUnitEmission(ctx); err != nil {
		panic(err)
	}
	if genesis.SubnetBurn, err = k.GetSubnetBurn(ctx); err != nil {
		panic(err)
	}

	netuids, err := k.Netuids(ctx)
	if err != nil {
		panic(err)
	}
	for _, netuid := range netuids {
		genesis.Subnets = append(genesis.Subnets, exportSubnet(ctx, k, netuid))
	}

	err = k.StakeFrom.Walk(ctx, nil, func(key collections.Pair[sdk.AccAddress, sdk.AccAddress], amount uint64) (bool, error) {
		genesis.Stakes = append(genesis.Stakes, types.GenesisStake{
			Delegator: key.K2().String(),
			Module:    key.K1().String(),
			Amount:    amount,
		})
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	err = k.ProfitShares.Walk(ctx, nil, func(key sdk.AccAddress, shares []types.ProfitShare) (bool, error) {
		genesis.ProfitShares = append(genesis.ProfitShares, types.GenesisProfitShares{Key: key.String(), Shares: shares})
		return false, nil
	})
	if err != nil {
		panic(err)
	}

	return genesis
}

func exportSubnet(ctx sdk.Context, k keeper.Keeper, netuid uint16) types.GenesisSubnet {
	params, err := k.GetSubnetParams(ctx, netuid)
	if err != nil {
		panic(err)
	}
	burn, err := k.Burn.Get(ctx, netuid)
	if err != nil {
		panic(err)
	}
	keys, err := k.GetUidKeyPairs(ctx, netuid)
	if err != nil {
		panic(err)
	}
	modules := make([]types.GenesisModule, len(keys))
	for uid, key := range keys {
		info, err := k.ModuleInfo(ctx, netuid, uint16(uid))
		if err != nil {
			panic(err)
		}
		weights, err := k.Weights.Get(ctx, collections.Join(netuid, uint16(uid)))
		if err != nil && !isNotFound(err) {
			panic(err)
		}
		modules[uid] = types.GenesisModule{
			Key:               key.String(),
			Name:              info.Name,
			Address:           info.Address,
			DelegationFee:     info.DelegationFee,
			RegistrationBlock: info.RegistrationBlock,
			LastUpdate:        info.LastUpdate,
			Weights:           weights,
		}
	}
	return types.GenesisSubnet{
		Netuid:  netuid,
		Params:  params,
		Burn:    burn,
		Modules: modules,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, collections.ErrNotFound)
}
