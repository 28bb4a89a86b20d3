package keeper_test

import (
	"cosmossdk.io/collections"

	"github.com/agicommies/subspace-network/testutil"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

func (suite *KeeperTestSuite) TestSetWeightsNormalizesAndStamps() {
	netuid := suite.newSubnet("weights", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusYuma)
	voter := suite.appendModule(netuid, 1, 0)
	suite.appendModule(netuid, 2, 0)
	suite.appendModule(netuid, 3, 0)
	suite.ctx = suite.ctx.WithBlockHeight(7)

	suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, netuid, []uint16{1, 2}, []uint16{1, 3}))

	row, err := suite.k.Weights.Get(suite.ctx, collections.Join(netuid, uint16(0)))
	suite.Require().NoError(err)
	suite.Require().Equal([]types.SparseEntry{{Uid: 1, Value: 16383}, {Uid: 2, Value: 49151}}, row)
	lastUpdate, err := suite.k.LastUpdate.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint64{7, 1, 1}, lastUpdate)
	suite.Require().Len(suite.events(types.EventTypeWeightsSet), 1)
}

func (suite *KeeperTestSuite) TestSetWeightsValidation() {
	netuid := suite.newSubnet("weights", testutil.AccAddr(100), func(p *types.SubnetParams) {
		p.MinAllowedWeights = 1
		p.MaxAllowedWeights = 2
		p.MinStake = 10
	})
	suite.tag(netuid, types.ConsensusYuma)
	voter := suite.appendModule(netuid, 1, 10)
	suite.appendModule(netuid, 2, 0)
	suite.appendModule(netuid, 3, 0)
	suite.appendModule(netuid, 4, 0)
	poor := testutil.AccAddr(2)

	tests := []struct {
		name   string
		uids   []uint16
		values []uint16
		err    error
	}{
		{name: "length mismatch", uids: []uint16{1}, values: []uint16{1, 2}, err: types.ErrWeightVecNotEqualSize},
		{name: "duplicate", uids: []uint16{1, 1}, values: []uint16{1, 2}, err: types.ErrDuplicateUids},
		{name: "unknown uid", uids: []uint16{9}, values: []uint16{1}, err: types.ErrInvalidUid},
		{name: "self weight", uids: []uint16{0}, values: []uint16{1}, err: types.ErrNoSelfWeight},
		{name: "too few", uids: []uint16{}, values: []uint16{}, err: types.ErrNotSettingEnoughWeights},
		{name: "too many", uids: []uint16{1, 2, 3}, values: []uint16{1, 1, 1}, err: types.ErrInvalidUidsLength},
		{name: "all zero", uids: []uint16{1}, values: []uint16{0}, err: types.ErrEmptyWeights},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, voter, netuid, tc.uids, tc.values), tc.err)
		})
	}

	suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, poor, netuid, []uint16{0}, []uint16{1}), types.ErrNotEnoughStakeToSetWeights)
	suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, testutil.AccAddr(50), netuid, []uint16{0}, []uint16{1}), types.ErrNotRegistered)
	suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, voter, netuid+1, []uint16{1}, []uint16{1}), types.ErrNetworkDoesNotExist)
}

func (suite *KeeperTestSuite) TestSetWeightsCallsPerEpoch() {
	netuid := suite.newSubnet("weights", testutil.AccAddr(100), func(p *types.SubnetParams) { p.MaximumSetWeightCallsPerEpoch = 2 })
	suite.tag(netuid, types.ConsensusYuma)
	voter := suite.appendModule(netuid, 1, 0)
	suite.appendModule(netuid, 2, 0)

	for i := 0; i < 2; i++ {
		suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, netuid, []uint16{1}, []uint16{1}))
	}
	suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, voter, netuid, []uint16{1}, []uint16{1}), types.ErrMaximumSetWeightsPerEpochReached)

	suite.tag(netuid, types.ConsensusLinear)
	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))
	suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, netuid, []uint16{1}, []uint16{1}))
}

func (suite *KeeperTestSuite) TestRootWeightsTargetNetuids() {
	root := suite.newSubnet("root", testutil.AccAddr(100), nil)
	other := suite.newSubnet("other", testutil.AccAddr(100), nil)
	voter := suite.appendModule(root, 1, 0)

	consensus, err := suite.k.ConsensusType(suite.ctx, root)
	suite.Require().NoError(err)
	suite.Require().Equal(types.ConsensusRoot, consensus)

	suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, root, []uint16{other}, []uint16{1}))
	suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, voter, root, []uint16{root}, []uint16{1}), types.ErrInvalidUid)
	suite.Require().ErrorIs(suite.k.SetWeights(suite.ctx, voter, root, []uint16{7}, []uint16{1}), types.ErrInvalidUid)
}
