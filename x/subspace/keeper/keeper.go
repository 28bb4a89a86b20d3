package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

type (
	Keeper struct {
		storeService store.KVStoreService
		logger       log.Logger
		// the address capable of executing subnet changesets on behalf of
		// governance. Typically, this should be the x/gov module account.
		authority string

		BalanceKeeper    types.BalanceKeeper
		GovernanceKeeper types.GovernanceKeeper
		ConsensusKeeper  types.SubnetConsensusKeeper

		Schema collections.Schema
		Params collections.Item[types.Params]

		// Subnet registry
		TotalSubnets    collections.Item[uint16]
		SubnetGaps      collections.KeySet[uint16]
		SubnetParams    collections.Map[uint16, types.SubnetParams]
		N               collections.Map[uint16, uint16]
		Burn            collections.Map[uint16, uint64]
		SubnetBurn      collections.Item[uint64]
		UnitEmission    collections.Item[uint64]
		SubnetEmission  collections.Map[uint16, uint64]
		PendingEmission collections.Map[uint16, uint64]

		// Registration counters
		RegistrationsPerBlock           collections.Item[uint16]
		RegistrationsThisInterval       collections.Map[uint16, uint16]
		SubnetRegistrationsThisInterval collections.Item[uint16]

		// Staking ledger
		TotalStake   collections.Item[uint64]
		Stake        collections.Map[sdk.AccAddress, uint64]
		StakeFrom    collections.Map[collections.Pair[sdk.AccAddress, sdk.AccAddress], uint64]
		StakeTo      collections.Map[collections.Pair[sdk.AccAddress, sdk.AccAddress], uint64]
		ProfitShares collections.Map[sdk.AccAddress, []types.ProfitShare]

		// Modules
		Keys                   collections.Map[collections.Pair[uint16, uint16], sdk.AccAddress]
		Uids                   collections.Map[collections.Pair[uint16, sdk.AccAddress], uint16]
		RegistrationBlock      collections.Map[collections.Pair[uint16, uint16], uint64]
		Name                   collections.Map[collections.Pair[uint16, uint16], string]
		Address                collections.Map[collections.Pair[uint16, uint16], string]
		DelegationFee          collections.Map[collections.Pair[uint16, sdk.AccAddress], uint16]
		Weights                collections.Map[collections.Pair[uint16, uint16], []types.SparseEntry]
		Bonds                  collections.Map[collections.Pair[uint16, uint16], []types.SparseEntry]
		SetWeightCallsPerEpoch collections.Map[collections.Pair[uint16, sdk.AccAddress], uint16]

		// Consensus vectors, indexed by uid
		Incentive        collections.Map[uint16, []uint16]
		Dividends        collections.Map[uint16, []uint16]
		Trust            collections.Map[uint16, []uint16]
		Consensus        collections.Map[uint16, []uint16]
		Rank             collections.Map[uint16, []uint16]
		Emission         collections.Map[uint16, []uint64]
		PruningScores    collections.Map[uint16, []uint16]
		ValidatorPermits collections.Map[uint16, []bool]
		ValidatorTrust   collections.Map[uint16, []uint16]
		LastUpdate       collections.Map[uint16, []uint64]
		Active           collections.Map[uint16, []bool]
	}
)

func NewKeeper(
	storeService store.KVStoreService,
	logger log.Logger,
	authority string,
	balanceKeeper types.BalanceKeeper,
	governanceKeeper types.GovernanceKeeper,
	consensusKeeper types.SubnetConsensusKeeper,
) Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid authority address: %s", authority))
	}

	sb := collections.NewSchemaBuilder(storeService)
	accValue := collcodec.KeyToValueCodec(sdk.AccAddressKey)
	netuidUid := collections.PairKeyCodec(collections.Uint16Key, collections.Uint16Key)
	netuidKey := collections.PairKeyCodec(collections.Uint16Key, sdk.AccAddressKey)
	edge := collections.PairKeyCodec(sdk.AccAddressKey, sdk.AccAddressKey)

	k := Keeper{
		storeService: storeService,
		logger:       logger,
		authority:    authority,

		BalanceKeeper:    balanceKeeper,
		GovernanceKeeper: governanceKeeper,
		ConsensusKeeper:  consensusKeeper,

		Params: collections.NewItem(sb, types.ParamsKey, "params", types.JSONValue[types.Params]()),

		TotalSubnets:    collections.NewItem(sb, types.TotalSubnetsKey, "total_subnets", collections.Uint16Value),
		SubnetGaps:      collections.NewKeySet(sb, types.SubnetGapsKey, "subnet_gaps", collections.Uint16Key),
		SubnetParams:    collections.NewMap(sb, types.SubnetParamsKey, "subnet_params", collections.Uint16Key, types.JSONValue[types.SubnetParams]()),
		N:               collections.NewMap(sb, types.SubnetNKey, "n", collections.Uint16Key, collections.Uint16Value),
		Burn:            collections.NewMap(sb, types.BurnKey, "burn", collections.Uint16Key, collections.Uint64Value),
		SubnetBurn:      collections.NewItem(sb, types.SubnetBurnKey, "subnet_burn", collections.Uint64Value),
		UnitEmission:    collections.NewItem(sb, types.UnitEmissionKey, "unit_emission", collections.Uint64Value),
		SubnetEmission:  collections.NewMap(sb, types.SubnetEmissionKey, "subnet_emission", collections.Uint16Key, collections.Uint64Value),
		PendingEmission: collections.NewMap(sb, types.PendingEmissionKey, "pending_emission", collections.Uint16Key, collections.Uint64Value),

		RegistrationsPerBlock:           collections.NewItem(sb, types.RegistrationsPerBlockKey, "registrations_per_block", collections.Uint16Value),
		RegistrationsThisInterval:       collections.NewMap(sb, types.RegistrationsThisIntervalKey, "registrations_this_interval", collections.Uint16Key, collections.Uint16Value),
		SubnetRegistrationsThisInterval: collections.NewItem(sb, types.SubnetRegistrationsThisIntervalKey, "subnet_registrations_this_interval", collections.Uint16Value),

		TotalStake:   collections.NewItem(sb, types.TotalStakeKey, "total_stake", collections.Uint64Value),
		Stake:        collections.NewMap(sb, types.StakeKey, "stake", sdk.AccAddressKey, collections.Uint64Value),
		StakeFrom:    collections.NewMap(sb, types.StakeFromKey, "stake_from", edge, collections.Uint64Value),
		StakeTo:      collections.NewMap(sb, types.StakeToKey, "stake_to", edge, collections.Uint64Value),
		ProfitShares: collections.NewMap(sb, types.ProfitSharesKey, "profit_shares", sdk.AccAddressKey, types.JSONValue[[]types.ProfitShare]()),

		Keys:                   collections.NewMap(sb, types.KeysKey, "keys", netuidUid, accValue),
		Uids:                   collections.NewMap(sb, types.UidsKey, "uids", netuidKey, collections.Uint16Value),
		RegistrationBlock:      collections.NewMap(sb, types.RegistrationBlockKey, "registration_block", netuidUid, collections.Uint64Value),
		Name:                   collections.NewMap(sb, types.NameKey, "name", netuidUid, collections.StringValue),
		Address:                collections.NewMap(sb, types.AddressKey, "address", netuidUid, collections.StringValue),
		DelegationFee:          collections.NewMap(sb, types.DelegationFeeKey, "delegation_fee", netuidKey, collections.Uint16Value),
		Weights:                collections.NewMap(sb, types.WeightsKey, "weights", netuidUid, types.JSONValue[[]types.SparseEntry]()),
		Bonds:                  collections.NewMap(sb, types.BondsKey, "bonds", netuidUid, types.JSONValue[[]types.SparseEntry]()),
		SetWeightCallsPerEpoch: collections.NewMap(sb, types.SetWeightCallsPerEpochKey, "set_weight_calls_per_epoch", netuidKey, collections.Uint16Value),

		Incentive:        collections.NewMap(sb, types.IncentiveKey, "incentive", collections.Uint16Key, types.JSONValue[[]uint16]()),
		Dividends:        collections.NewMap(sb, types.DividendsKey, "dividends", collections.Uint16Key, types.JSONValue[[]uint16]()),
		Trust:            collections.NewMap(sb, types.TrustKey, "trust", collections.Uint16Key, types.JSONValue[[]uint16]()),
		Consensus:        collections.NewMap(sb, types.ConsensusKey, "consensus", collections.Uint16Key, types.JSONValue[[]uint16]()),
		Rank:             collections.NewMap(sb, types.RankKey, "rank", collections.Uint16Key, types.JSONValue[[]uint16]()),
		Emission:         collections.NewMap(sb, types.EmissionKey, "emission", collections.Uint16Key, types.JSONValue[[]uint64]()),
		PruningScores:    collections.NewMap(sb, types.PruningScoresKey, "pruning_scores", collections.Uint16Key, types.JSONValue[[]uint16]()),
		ValidatorPermits: collections.NewMap(sb, types.ValidatorPermitsKey, "validator_permits", collections.Uint16Key, types.JSONValue[[]bool]()),
		ValidatorTrust:   collections.NewMap(sb, types.ValidatorTrustKey, "validator_trust", collections.Uint16Key, types.JSONValue[[]uint16]()),
		LastUpdate:       collections.NewMap(sb, types.LastUpdateKey, "last_update", collections.Uint16Key, types.JSONValue[[]uint64]()),
		Active:           collections.NewMap(sb, types.ActiveKey, "active", collections.Uint16Key, types.JSONValue[[]bool]()),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) LogInfo(msg string, subSystem types.SubSystem, keyvals ...interface{}) {
	k.Logger().Info(msg, append(keyvals, "subsystem", subSystem.String())...)
}

func (k Keeper) LogError(msg string, subSystem types.SubSystem, keyvals ...interface{}) {
	k.Logger().Error(msg, append(keyvals, "subsystem", subSystem.String())...)
}

func (k Keeper) LogWarn(msg string, subSystem types.SubSystem, keyvals ...interface{}) {
	k.Logger().Warn(msg, append(keyvals, "subsystem", subSystem.String())...)
}

func (k Keeper) LogDebug(msg string, subSystem types.SubSystem, keyVals ...interface{}) {
	k.Logger().Debug(msg, append(keyVals, "subsystem", subSystem.String())...)
}
