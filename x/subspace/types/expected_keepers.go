package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

//go:generate mockgen -destination ../../../testutil/keeper/expected_keepers_mocks.go -package keeper . BalanceKeeper,GovernanceKeeper,SubnetConsensusKeeper

// BalanceKeeper moves free balance in and out of the staking module account.
// Amounts are in base units of Params.Denom.
type BalanceKeeper interface {
	FreeBalance(ctx context.Context, account sdk.AccAddress) uint64
	// Deposit pays amount from the module account to account.
	Deposit(ctx context.Context, account sdk.AccAddress, amount uint64, memo string) error
	// Withdraw moves amount from account into the module account.
	Withdraw(ctx context.Context, account sdk.AccAddress, amount uint64, memo string) error
	Transfer(ctx context.Context, from, to sdk.AccAddress, amount uint64, memo string) error
	// Mint creates amount inside the module account.
	Mint(ctx context.Context, amount uint64, memo string) error
	// Burn destroys amount held by the module account.
	Burn(ctx context.Context, amount uint64, memo string) error
	TotalIssuance(ctx context.Context) uint64
}

// GovernanceKeeper owns per-subnet governance configuration.
type GovernanceKeeper interface {
	GetSubnetGovernanceConfiguration(ctx context.Context, netuid uint16) GovernanceConfiguration
	UpdateSubnetGovernanceConfiguration(ctx context.Context, netuid uint16, cfg GovernanceConfiguration) error
	HandleSubnetRemoval(ctx context.Context, netuid uint16)
}

// SubnetConsensus selects the epoch engine that runs for a subnet.
type SubnetConsensus uint8

const (
	ConsensusRoot SubnetConsensus = iota
	ConsensusLinear
	ConsensusYuma
	ConsensusTreasury
)

func (c SubnetConsensus) String() string {
	switch c {
	case ConsensusRoot:
		return "Root"
	case ConsensusLinear:
		return "Linear"
	case ConsensusYuma:
		return "Yuma"
	case ConsensusTreasury:
		return "Treasury"
	default:
		return "Unknown"
	}
}

// SubnetConsensusKeeper tags subnets with their consensus type. A nil type
// clears the tag.
type SubnetConsensusKeeper interface {
	GetSubnetConsensusType(ctx context.Context, netuid uint16) (SubnetConsensus, bool)
	SetSubnetConsensusType(ctx context.Context, netuid uint16, consensus *SubnetConsensus)
}
