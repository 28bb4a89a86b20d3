package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// SparseEntry is one non-zero cell of a weight or bond row. Value is a
// proportion out of ProportionScale.
type SparseEntry struct {
	Uid   uint16 `json:"uid"`
	Value uint16 `json:"value"`
}

// ProfitShare routes a fraction (out of ProportionScale) of a module's
// emission to another account.
type ProfitShare struct {
	Key   string `json:"key"`
	Share uint16 `json:"share"`
}

func (p ProfitShare) Address() (sdk.AccAddress, error) {
	return sdk.AccAddressFromBech32(p.Key)
}

// ModuleInfo is a read model of a single registered module.
type ModuleInfo struct {
	Netuid            uint16 `json:"netuid"`
	Uid               uint16 `json:"uid"`
	Key               string `json:"key"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	DelegationFee     uint16 `json:"delegation_fee"`
	RegistrationBlock uint64 `json:"registration_block"`
	Stake             uint64 `json:"stake"`
	Incentive         uint16 `json:"incentive"`
	Dividends         uint16 `json:"dividends"`
	Trust             uint16 `json:"trust"`
	Emission          uint64 `json:"emission"`
	LastUpdate        uint64 `json:"last_update"`
}

// Ownership is one delegator's fraction of a module's inbound stake.
type Ownership struct {
	Delegator sdk.AccAddress
	Ratio     math.LegacyDec
}
