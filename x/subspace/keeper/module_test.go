package keeper_test

import (
	"cosmossdk.io/collections"

	"github.com/agicommies/subspace-network/testutil"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

func (suite *KeeperTestSuite) TestAppendModuleGrowsEveryVector() {
	netuid := suite.newSubnet("modules", testutil.AccAddr(100), nil)
	for seed := 1; seed <= 3; seed++ {
		suite.appendModule(netuid, seed, 0)
	}

	n, err := suite.k.GetN(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(3), n)
	for _, vec := range []collections.Map[uint16, []uint16]{suite.k.Incentive, suite.k.Dividends, suite.k.Trust, suite.k.PruningScores} {
		values, err := vec.Get(suite.ctx, netuid)
		suite.Require().NoError(err)
		suite.Require().Len(values, 3)
	}
	active, err := suite.k.Active.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]bool{true, true, true}, active)
	lastUpdate, err := suite.k.LastUpdate.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint64{1, 1, 1}, lastUpdate)

	keys, err := suite.k.GetUidKeyPairs(suite.ctx, netuid)
	suite.Require().NoError(err)
	for uid, key := range keys {
		got, found, err := suite.k.GetUid(suite.ctx, netuid, key)
		suite.Require().NoError(err)
		suite.Require().True(found)
		suite.Require().Equal(uint16(uid), got)
	}

	fee, err := suite.k.GetDelegationFee(suite.ctx, netuid, keys[0])
	suite.Require().NoError(err)
	suite.Require().Equal(types.DefaultDelegationFee, fee)
}

func (suite *KeeperTestSuite) TestRemoveModuleMovesLastIntoSlot() {
	netuid := suite.newSubnet("modules", testutil.AccAddr(100), nil)
	first := suite.appendModule(netuid, 1, 0)
	second := suite.appendModule(netuid, 2, 0)
	last := suite.appendModule(netuid, 3, 0)
	suite.Require().NoError(suite.k.Weights.Set(suite.ctx, collections.Join(netuid, uint16(2)), []types.SparseEntry{{Uid: 0, Value: types.ProportionScale}}))
	suite.Require().NoError(suite.k.Incentive.Set(suite.ctx, netuid, []uint16{10, 20, 30}))

	suite.Require().NoError(suite.k.RemoveModule(suite.ctx, netuid, 0))

	keys, err := suite.k.GetUidKeyPairs(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Len(keys, 2)
	suite.Require().True(keys[0].Equals(last))
	suite.Require().True(keys[1].Equals(second))

	registered, err := suite.k.IsRegistered(suite.ctx, netuid, first)
	suite.Require().NoError(err)
	suite.Require().False(registered)

	incentive, err := suite.k.Incentive.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint16{30, 20}, incentive)

	weights, err := suite.k.Weights.Get(suite.ctx, collections.Join(netuid, uint16(0)))
	suite.Require().NoError(err)
	suite.Require().Len(weights, 1)
	has, err := suite.k.Weights.Has(suite.ctx, collections.Join(netuid, uint16(2)))
	suite.Require().NoError(err)
	suite.Require().False(has)

	info, err := suite.k.ModuleInfo(suite.ctx, netuid, 0)
	suite.Require().NoError(err)
	suite.Require().Equal("module-3", info.Name)
	suite.Require().Equal(uint16(30), info.Incentive)
}

func (suite *KeeperTestSuite) TestRemoveModuleReturnsStakeOfUnregisteredKey() {
	netuid := suite.newSubnet("modules", testutil.AccAddr(100), nil)
	module := suite.appendModule(netuid, 1, 100)
	suite.appendModule(netuid, 2, 0)
	delegator := testutil.AccAddr(5)
	suite.stake(delegator, module, 400)

	suite.Require().NoError(suite.k.Deregister(suite.ctx, module, netuid))

	suite.Require().Zero(suite.stakeOf(module))
	suite.Require().Equal(uint64(400), suite.freeBalance(delegator))
	suite.Require().Equal(uint64(100), suite.freeBalance(module))
	suite.Require().Len(suite.events(types.EventTypeModuleDeregistered), 1)
}

func (suite *KeeperTestSuite) TestStakeSurvivesWhileRegisteredElsewhere() {
	first := suite.newSubnet("first", testutil.AccAddr(100), nil)
	second := suite.newSubnet("second", testutil.AccAddr(100), nil)
	module := suite.appendModule(first, 1, 100)
	suite.appendModule(first, 2, 0)
	_, err := suite.k.AppendModule(suite.ctx, second, module, "module-1", "10.0.0.1:8080")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.k.Deregister(suite.ctx, module, first))
	suite.Require().Equal(uint64(100), suite.stakeOf(module))
}

func (suite *KeeperTestSuite) TestRemovingLastModuleRemovesSubnet() {
	netuid := suite.newSubnet("modules", testutil.AccAddr(100), nil)
	module := suite.appendModule(netuid, 1, 0)

	suite.Require().NoError(suite.k.Deregister(suite.ctx, module, netuid))

	exists, err := suite.k.SubnetExists(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().False(exists)
	suite.Require().Equal([]uint16{netuid}, suite.deps.Governance.Removed())
	hasGap, err := suite.k.SubnetGaps.Has(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().True(hasGap)

	// the freed netuid is handed out again
	reused := suite.newSubnet("again", testutil.AccAddr(100), nil)
	suite.Require().Equal(netuid, reused)
}

func (suite *KeeperTestSuite) TestRemoveModuleUnknownUid() {
	netuid := suite.newSubnet("modules", testutil.AccAddr(100), nil)
	suite.appendModule(netuid, 1, 0)
	suite.Require().ErrorIs(suite.k.RemoveModule(suite.ctx, netuid, 1), types.ErrNotRegistered)
}

func (suite *KeeperTestSuite) TestUpdateModule() {
	netuid := suite.newSubnet("modules", testutil.AccAddr(100), nil)
	module := suite.appendModule(netuid, 1, 0)
	suite.appendModule(netuid, 2, 0)

	err := suite.k.UpdateModule(suite.ctx, netuid, module, types.ModuleParams{Name: "module-2", Address: "x:1", DelegationFee: 10})
	suite.Require().ErrorIs(err, types.ErrModuleNameAlreadyExists)
	err = suite.k.UpdateModule(suite.ctx, netuid, module, types.ModuleParams{Name: "renamed", Address: "x:1", DelegationFee: 1})
	suite.Require().ErrorIs(err, types.ErrInvalidMinDelegationFee)

	suite.Require().NoError(suite.k.UpdateModule(suite.ctx, netuid, module, types.ModuleParams{Name: "module-1", Address: "x:1", DelegationFee: 10}))
	info, err := suite.k.ModuleInfo(suite.ctx, netuid, 0)
	suite.Require().NoError(err)
	suite.Require().Equal("x:1", info.Address)
	suite.Require().Equal(uint16(10), info.DelegationFee)
}
