package types

import (
	"cosmossdk.io/collections"
)

const (
	// ModuleName defines the module name
	ModuleName = "subspace"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_subspace"

	// RootNetuid is the subnet that prices every other subnet by default.
	RootNetuid uint16 = 0
)

var (
	ParamsKey = collections.NewPrefix(0)

	// Subnet registry
	TotalSubnetsKey    = collections.NewPrefix(1)
	SubnetGapsKey      = collections.NewPrefix(2)
	SubnetParamsKey    = collections.NewPrefix(3)
	SubnetNKey         = collections.NewPrefix(4)
	BurnKey            = collections.NewPrefix(5)
	SubnetBurnKey      = collections.NewPrefix(6)
	UnitEmissionKey    = collections.NewPrefix(7)
	SubnetEmissionKey  = collections.NewPrefix(8)
	PendingEmissionKey = collections.NewPrefix(9)

	// Registration counters
	RegistrationsPerBlockKey           = collections.NewPrefix(10)
	RegistrationsThisIntervalKey       = collections.NewPrefix(11)
	SubnetRegistrationsThisIntervalKey = collections.NewPrefix(12)

	// Staking ledger
	TotalStakeKey   = collections.NewPrefix(20)
	StakeKey        = collections.NewPrefix(21)
	StakeFromKey    = collections.NewPrefix(22)
	StakeToKey      = collections.NewPrefix(23)
	ProfitSharesKey = collections.NewPrefix(24)

	// Per (netuid, uid) / (netuid, key) module data
	KeysKey                   = collections.NewPrefix(30)
	UidsKey                   = collections.NewPrefix(31)
	RegistrationBlockKey      = collections.NewPrefix(32)
	NameKey                   = collections.NewPrefix(33)
	AddressKey                = collections.NewPrefix(34)
	DelegationFeeKey          = collections.NewPrefix(35)
	WeightsKey                = collections.NewPrefix(36)
	BondsKey                  = collections.NewPrefix(37)
	SetWeightCallsPerEpochKey = collections.NewPrefix(38)

	// Consensus vectors, one dense slice per subnet
	IncentiveKey        = collections.NewPrefix(40)
	DividendsKey        = collections.NewPrefix(41)
	TrustKey            = collections.NewPrefix(42)
	ConsensusKey        = collections.NewPrefix(43)
	RankKey             = collections.NewPrefix(44)
	EmissionKey         = collections.NewPrefix(45)
	PruningScoresKey    = collections.NewPrefix(46)
	ValidatorPermitsKey = collections.NewPrefix(47)
	ValidatorTrustKey   = collections.NewPrefix(48)
	LastUpdateKey       = collections.NewPrefix(49)
	ActiveKey           = collections.NewPrefix(50)
)
