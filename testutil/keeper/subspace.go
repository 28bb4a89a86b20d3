package keeper

import (
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agicommies/subspace-network/internal/simulation"
	balanceskeeper "github.com/agicommies/subspace-network/x/balances/keeper"
	"github.com/agicommies/subspace-network/x/subspace/keeper"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

// SubspaceCollaborators are the store-backed and in-memory keepers wired
// into a SubspaceKeeper.
type SubspaceCollaborators struct {
	Bank       *simulation.StoreBankKeeper
	Balances   balanceskeeper.Keeper
	Governance *simulation.InMemoryGovernanceKeeper
	Consensus  *simulation.InMemoryConsensusKeeper
}

// Fund gives account amount base units of the test denom.
func (c SubspaceCollaborators) Fund(t testing.TB, ctx sdk.Context, account sdk.AccAddress, amount uint64) {
	coins := sdk.NewCoins(sdk.NewCoin(c.Balances.Denom(), sdkmath.NewIntFromUint64(amount)))
	require.NoError(t, c.Bank.Fund(ctx, account, coins))
}

// SubspaceMocks holds the gomock collaborators of SubspaceKeeperReturningMocks.
type SubspaceMocks struct {
	BalanceKeeper    *MockBalanceKeeper
	GovernanceKeeper *MockGovernanceKeeper
	ConsensusKeeper  *MockSubnetConsensusKeeper
}

// SubspaceKeeper builds a keeper over a real balances keeper and a bank that
// share the multistore, so cached epochs roll back balances too.
func SubspaceKeeper(t testing.TB) (keeper.Keeper, sdk.Context, SubspaceCollaborators) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey(simulation.BankStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bank := simulation.NewStoreBankKeeper(runtime.NewKVStoreService(bankKey))
	collaborators := SubspaceCollaborators{
		Bank: bank,
		Balances: balanceskeeper.NewKeeper(
			log.NewNopLogger(),
			bank,
			types.ModuleName,
			types.BaseDenom,
			balanceskeeper.LogConfig{},
		),
		Governance: simulation.NewInMemoryGovernanceKeeper(),
		Consensus:  simulation.NewInMemoryConsensusKeeper(),
	}

	k := newSubspaceKeeper(storeKey, collaborators.Balances, collaborators.Governance, collaborators.Consensus)
	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	if err := k.SetParams(ctx, types.DefaultParams()); err != nil {
		panic(err)
	}
	return k, ctx, collaborators
}

func SubspaceKeeperReturningMocks(t testing.TB) (keeper.Keeper, sdk.Context, SubspaceMocks) {
	ctrl := gomock.NewController(t)
	mocks := SubspaceMocks{
		BalanceKeeper:    NewMockBalanceKeeper(ctrl),
		GovernanceKeeper: NewMockGovernanceKeeper(ctrl),
		ConsensusKeeper:  NewMockSubnetConsensusKeeper(ctrl),
	}
	k, ctx := SubspaceKeeperWithMock(t, mocks.BalanceKeeper, mocks.GovernanceKeeper, mocks.ConsensusKeeper)
	return k, ctx, mocks
}

func SubspaceKeeperWithMock(
	t testing.TB,
	balanceKeeper types.BalanceKeeper,
	governanceKeeper types.GovernanceKeeper,
	consensusKeeper types.SubnetConsensusKeeper,
) (keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	k := newSubspaceKeeper(storeKey, balanceKeeper, governanceKeeper, consensusKeeper)
	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	// Initialize params
	if err := k.SetParams(ctx, types.DefaultParams()); err != nil {
		panic(err)
	}
	return k, ctx
}

func newSubspaceKeeper(
	storeKey *storetypes.KVStoreKey,
	balanceKeeper types.BalanceKeeper,
	governanceKeeper types.GovernanceKeeper,
	consensusKeeper types.SubnetConsensusKeeper,
) keeper.Keeper {
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)
	return keeper.NewKeeper(
		runtime.NewKVStoreService(storeKey),
		log.NewNopLogger(),
		authority.String(),
		balanceKeeper,
		governanceKeeper,
		consensusKeeper,
	)
}

// ExpectAny lets the balance mock accept every call and report ample funds.
func (mocks SubspaceMocks) ExpectAny() {
	mocks.BalanceKeeper.EXPECT().FreeBalance(gomock.Any(), gomock.Any()).Return(uint64(1) << 62).AnyTimes()
	mocks.BalanceKeeper.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mocks.BalanceKeeper.EXPECT().Withdraw(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mocks.BalanceKeeper.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mocks.BalanceKeeper.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mocks.BalanceKeeper.EXPECT().Burn(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mocks.GovernanceKeeper.EXPECT().UpdateSubnetGovernanceConfiguration(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mocks.GovernanceKeeper.EXPECT().HandleSubnetRemoval(gomock.Any(), gomock.Any()).AnyTimes()
	mocks.ConsensusKeeper.EXPECT().GetSubnetConsensusType(gomock.Any(), gomock.Any()).Return(types.ConsensusYuma, false).AnyTimes()
	mocks.ConsensusKeeper.EXPECT().SetSubnetConsensusType(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
}
