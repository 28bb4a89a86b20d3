package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisModule is a registered module as it appears in genesis.
type GenesisModule struct {
	Key               string        `json:"key"`
	Name              string        `json:"name"`
	Address           string        `json:"address"`
	DelegationFee     uint16        `json:"delegation_fee"`
	RegistrationBlock uint64        `json:"registration_block"`
	LastUpdate        uint64        `json:"last_update"`
	Weights           []SparseEntry `json:"weights,omitempty"`
}

// GenesisSubnet carries a subnet with its modules in uid order.
type GenesisSubnet struct {
	Netuid  uint16          `json:"netuid"`
	Params  SubnetParams    `json:"params"`
	Burn    uint64          `json:"burn"`
	Modules []GenesisModule `json:"modules"`
}

// GenesisStake is one delegation edge.
type GenesisStake struct {
	Delegator string `json:"delegator"`
	Module    string `json:"module"`
	Amount    uint64 `json:"amount"`
}

// GenesisProfitShares lists the profit shares of a single module key.
type GenesisProfitShares struct {
	Key    string        `json:"key"`
	Shares []ProfitShare `json:"shares"`
}

// GenesisState defines the subspace module's genesis state.
type GenesisState struct {
	Params       Params                `json:"params"`
	UnitEmission uint64                `json:"unit_emission"`
	SubnetBurn   uint64                `json:"subnet_burn"`
	Subnets      []GenesisSubnet       `json:"subnets"`
	Stakes       []GenesisStake        `json:"stakes"`
	ProfitShares []GenesisProfitShares `json:"profit_shares,omitempty"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	params := DefaultParams()
	return &GenesisState{
		Params:       params,
		UnitEmission: DefaultUnitEmission,
		SubnetBurn:   params.SubnetBurnConfig.MinBurn,
		Subnets:      []GenesisSubnet{},
		Stakes:       []GenesisStake{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if len(gs.Subnets) > int(gs.Params.MaxAllowedSubnets) {
		return fmt.Errorf("%d subnets exceed max allowed subnets %d", len(gs.Subnets), gs.Params.MaxAllowedSubnets)
	}

	netuids := make(map[uint16]struct{}, len(gs.Subnets))
	names := make(map[string]struct{}, len(gs.Subnets))
	for _, subnet := range gs.Subnets {
		if _, ok := netuids[subnet.Netuid]; ok {
			return fmt.Errorf("duplicate netuid %d", subnet.Netuid)
		}
		netuids[subnet.Netuid] = struct{}{}
		if _, ok := names[subnet.Params.Name]; ok {
			return fmt.Errorf("duplicate subnet name %q", subnet.Params.Name)
		}
		names[subnet.Params.Name] = struct{}{}
		if err := subnet.Params.ValidateBasic(gs.Params); err != nil {
			return fmt.Errorf("subnet %d: %w", subnet.Netuid, err)
		}
		if len(subnet.Modules) == 0 {
			return fmt.Errorf("subnet %d has no modules", subnet.Netuid)
		}
		if len(subnet.Modules) > int(subnet.Params.MaxAllowedUids) {
			return fmt.Errorf("subnet %d has %d modules, max allowed uids is %d", subnet.Netuid, len(subnet.Modules), subnet.Params.MaxAllowedUids)
		}
		if err := validateGenesisModules(subnet, gs.Params); err != nil {
			return err
		}
	}

	type edge struct{ delegator, module string }
	edges := make(map[edge]struct{}, len(gs.Stakes))
	for _, stake := range gs.Stakes {
		if _, err := sdk.AccAddressFromBech32(stake.Delegator); err != nil {
			return fmt.Errorf("invalid delegator %q: %w", stake.Delegator, err)
		}
		if _, err := sdk.AccAddressFromBech32(stake.Module); err != nil {
			return fmt.Errorf("invalid module key %q: %w", stake.Module, err)
		}
		if stake.Amount == 0 {
			return fmt.Errorf("zero stake from %s to %s", stake.Delegator, stake.Module)
		}
		e := edge{stake.Delegator, stake.Module}
		if _, ok := edges[e]; ok {
			return fmt.Errorf("duplicate stake edge %s -> %s", stake.Delegator, stake.Module)
		}
		edges[e] = struct{}{}
	}

	for _, ps := range gs.ProfitShares {
		if _, err := sdk.AccAddressFromBech32(ps.Key); err != nil {
			return fmt.Errorf("invalid profit share key %q: %w", ps.Key, err)
		}
		var total uint64
		for _, share := range ps.Shares {
			if _, err := share.Address(); err != nil {
				return fmt.Errorf("invalid profit share recipient %q: %w", share.Key, err)
			}
			total += uint64(share.Share)
		}
		if total != ProportionScale {
			return fmt.Errorf("profit shares of %s sum to %d: %w", ps.Key, total, ErrInvalidNormalizedShares)
		}
	}
	return nil
}

func validateGenesisModules(subnet GenesisSubnet, params Params) error {
	keys := make(map[string]struct{}, len(subnet.Modules))
	moduleNames := make(map[string]struct{}, len(subnet.Modules))
	n := len(subnet.Modules)
	for uid, module := range subnet.Modules {
		if _, err := sdk.AccAddressFromBech32(module.Key); err != nil {
			return fmt.Errorf("subnet %d uid %d: invalid key: %w", subnet.Netuid, uid, err)
		}
		if _, ok := keys[module.Key]; ok {
			return fmt.Errorf("subnet %d: key %s registered twice", subnet.Netuid, module.Key)
		}
		keys[module.Key] = struct{}{}
		if _, ok := moduleNames[module.Name]; ok {
			return fmt.Errorf("subnet %d: module name %q registered twice", subnet.Netuid, module.Name)
		}
		moduleNames[module.Name] = struct{}{}
		mp := ModuleParams{Name: module.Name, Address: module.Address, DelegationFee: module.DelegationFee}
		if err := mp.ValidateBasic(params); err != nil {
			return fmt.Errorf("subnet %d uid %d: %w", subnet.Netuid, uid, err)
		}
		for _, w := range module.Weights {
			if int(w.Uid) >= n {
				return fmt.Errorf("subnet %d uid %d: weight targets unknown uid %d", subnet.Netuid, uid, w.Uid)
			}
		}
	}
	return nil
}
