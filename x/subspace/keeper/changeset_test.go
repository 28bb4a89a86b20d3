package keeper_test

import (
	"fmt"

	"github.com/agicommies/subspace-network/testutil"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

func (suite *KeeperTestSuite) TestNewSubnetChangesetValidation() {
	founder := testutil.AccAddr(100)
	tests := []struct {
		name string
		edit func(*types.SubnetParams)
		err  error
	}{
		{name: "zero min allowed weights", edit: func(p *types.SubnetParams) { p.MinAllowedWeights = 0 }, err: types.ErrInvalidMinAllowedWeights},
		{name: "max below min weights", edit: func(p *types.SubnetParams) { p.MinAllowedWeights, p.MaxAllowedWeights = 5, 4 }, err: types.ErrInvalidMaxAllowedWeights},
		{name: "max weights above global", edit: func(p *types.SubnetParams) { p.MaxAllowedWeights = 513 }, err: types.ErrInvalidMaxAllowedWeights},
		{name: "tempo too short", edit: func(p *types.SubnetParams) { p.Tempo = 24 }, err: types.ErrInvalidTempo},
		{name: "weight age not above tempo", edit: func(p *types.SubnetParams) { p.MaxWeightAge = uint64(p.Tempo) }, err: types.ErrInvalidMaxWeightAge},
		{name: "trust ratio above 100", edit: func(p *types.SubnetParams) { p.TrustRatio = 101 }, err: types.ErrInvalidTrustRatio},
		{name: "no uids", edit: func(p *types.SubnetParams) { p.MaxAllowedUids = 0 }, err: types.ErrInvalidMaxAllowedUids},
		{name: "founder share below floor", edit: func(p *types.SubnetParams) { p.FounderShare = 7 }, err: types.ErrInvalidFounderShare},
		{name: "incentive ratio above 100", edit: func(p *types.SubnetParams) { p.IncentiveRatio = 101 }, err: types.ErrInvalidIncentiveRatio},
		{name: "short registration interval", edit: func(p *types.SubnetParams) { p.TargetRegistrationsInterval = 9 }, err: types.ErrInvalidTargetRegistrationsInterval},
		{name: "zero alpha", edit: func(p *types.SubnetParams) { p.AdjustmentAlpha = 0 }, err: types.ErrInvalidAdjustmentAlpha},
		{name: "bonds moving average above max", edit: func(p *types.SubnetParams) { p.BondsMA = types.MaxBondsMovingAverage + 1 }, err: types.ErrInvalidBondsMovingAverage},
		{name: "zero kappa", edit: func(p *types.SubnetParams) { p.Kappa = 0 }, err: types.ErrInvalidKappa},
		{name: "bad founder", edit: func(p *types.SubnetParams) { p.Founder = "nope" }, err: types.ErrInvalidFounder},
		{name: "name too short", edit: func(p *types.SubnetParams) { p.Name = "a" }, err: types.ErrSubnetNameTooShort},
		{name: "unknown vote mode", edit: func(p *types.SubnetParams) { p.Governance.VoteMode = "anarchy" }, err: types.ErrInvalidGovernanceConfiguration},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.k.NewSubnetChangeset(suite.ctx, suite.subnetParams("valid", founder, tc.edit))
			suite.Require().ErrorIs(err, tc.err)
		})
	}
}

func (suite *KeeperTestSuite) TestSubnetNamesAreUnique() {
	founder := testutil.AccAddr(100)
	netuid := suite.newSubnet("taken", founder, nil)

	_, err := suite.k.NewSubnetChangeset(suite.ctx, suite.subnetParams("taken", founder, nil))
	suite.Require().ErrorIs(err, types.ErrSubnetNameAlreadyExists)

	// a subnet keeps its own name on update
	changeset, err := suite.k.UpdateSubnetChangeset(suite.ctx, netuid, suite.subnetParams("taken", founder, func(p *types.SubnetParams) { p.Tempo = 50 }))
	suite.Require().NoError(err)
	suite.Require().NoError(changeset.Apply(suite.ctx, netuid))
	params, err := suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(50), params.Tempo)
	suite.Require().Len(suite.events(types.EventTypeSubnetParamsUpdated), 2)
}

func (suite *KeeperTestSuite) TestApplyForwardsGovernanceConfiguration() {
	netuid := suite.newSubnet("governed", testutil.AccAddr(100), func(p *types.SubnetParams) {
		p.Governance.VoteMode = types.VoteModeAuthority
		p.Governance.ProposalCost = 7
	})
	cfg := suite.deps.Governance.GetSubnetGovernanceConfiguration(suite.ctx, netuid)
	suite.Require().Equal(types.VoteModeAuthority, cfg.VoteMode)
	suite.Require().Equal(uint64(7), cfg.ProposalCost)
}

func (suite *KeeperTestSuite) TestShrinkingMaxAllowedUidsDeregistersTopUids() {
	founder := testutil.AccAddr(100)
	netuid := suite.newSubnet("shrink", founder, nil)
	const modules = 300
	for seed := 1; seed <= modules; seed++ {
		suite.appendModule(netuid, seed, 0)
	}

	changeset, err := suite.k.UpdateSubnetChangeset(suite.ctx, netuid, suite.subnetParams("shrink", founder, func(p *types.SubnetParams) { p.MaxAllowedUids = 10 }))
	suite.Require().NoError(err)
	suite.Require().NoError(changeset.Apply(suite.ctx, netuid))

	n, err := suite.k.GetN(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(modules-types.MaxRemovalsPerChangeset), n)
	stored, err := suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(n, stored.MaxAllowedUids, "capped shrink stores the size it reached")

	keys, err := suite.k.GetUidKeyPairs(suite.ctx, netuid)
	suite.Require().NoError(err)
	for uid, key := range keys {
		suite.Require().True(key.Equals(testutil.AccAddr(uid+1)), fmt.Sprintf("uid %d kept its key", uid))
	}

	// the next changeset finishes the job
	changeset, err = suite.k.UpdateSubnetChangeset(suite.ctx, netuid, suite.subnetParams("shrink", founder, func(p *types.SubnetParams) { p.MaxAllowedUids = 10 }))
	suite.Require().NoError(err)
	suite.Require().NoError(changeset.Apply(suite.ctx, netuid))
	n, err = suite.k.GetN(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(10), n)
	stored, err = suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(10), stored.MaxAllowedUids)
}

func (suite *KeeperTestSuite) TestUpdateSubnetParamsNeedsAuthority() {
	founder := testutil.AccAddr(100)
	netuid := suite.newSubnet("authority", founder, nil)
	params := suite.subnetParams("authority", founder, func(p *types.SubnetParams) { p.IncentiveRatio = 70 })

	err := suite.k.UpdateSubnetParams(suite.ctx, founder.String(), netuid, params)
	suite.Require().ErrorIs(err, types.ErrInvalidSigner)

	suite.Require().NoError(suite.k.UpdateSubnetParams(suite.ctx, suite.k.GetAuthority(), netuid, params))
	got, err := suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(70), got.IncentiveRatio)

	err = suite.k.UpdateSubnetParams(suite.ctx, suite.k.GetAuthority(), netuid+1, params)
	suite.Require().ErrorIs(err, types.ErrNetworkDoesNotExist)
}

func (suite *KeeperTestSuite) TestUpdateParams() {
	params := types.DefaultParams()
	params.BurnRate = 3

	suite.Require().ErrorIs(suite.k.UpdateParams(suite.ctx, testutil.AccAddr(1).String(), params), types.ErrInvalidSigner)
	suite.Require().NoError(suite.k.UpdateParams(suite.ctx, suite.k.GetAuthority(), params))
	got, err := suite.k.GetParams(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(3), got.BurnRate)

	params.MinNameLength = 0
	suite.Require().Error(suite.k.UpdateParams(suite.ctx, suite.k.GetAuthority(), params))
}

func (suite *KeeperTestSuite) TestAddSubnetCaps() {
	params := types.DefaultParams()
	params.MaxAllowedSubnets = 1
	suite.Require().NoError(suite.k.SetParams(suite.ctx, params))

	suite.newSubnet("only", testutil.AccAddr(100), nil)
	changeset, err := suite.k.NewSubnetChangeset(suite.ctx, suite.subnetParams("another", testutil.AccAddr(100), nil))
	suite.Require().NoError(err)
	_, err = suite.k.AddSubnet(suite.ctx, changeset, nil)
	suite.Require().ErrorIs(err, types.ErrTooManySubnets)
}

func (suite *KeeperTestSuite) TestAddSubnetSkipsTakenNetuids() {
	founder := testutil.AccAddr(100)
	changeset, err := suite.k.NewSubnetChangeset(suite.ctx, suite.subnetParams("pinned", founder, nil))
	suite.Require().NoError(err)
	explicit := uint16(1)
	pinned, err := suite.k.AddSubnet(suite.ctx, changeset, &explicit)
	suite.Require().NoError(err)
	suite.Require().Equal(explicit, pinned)
	suite.appendModule(pinned, 1, 0)
	suite.appendModule(pinned, 2, 0)

	fresh := suite.newSubnet("fresh", founder, nil)
	suite.Require().NotEqual(pinned, fresh)
	suite.Require().Equal(uint16(2), fresh)

	params, err := suite.k.GetSubnetParams(suite.ctx, pinned)
	suite.Require().NoError(err)
	suite.Require().Equal("pinned", params.Name)
	n, err := suite.k.GetN(suite.ctx, pinned)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(2), n)
}

func (suite *KeeperTestSuite) TestAddSubnetSkipsStaleGaps() {
	founder := testutil.AccAddr(100)
	live := suite.newSubnet("live", founder, nil)
	// imported state may list a live netuid as a gap
	suite.Require().NoError(suite.k.SubnetGaps.Set(suite.ctx, live))

	fresh := suite.newSubnet("fresh", founder, nil)
	suite.Require().NotEqual(live, fresh)
	params, err := suite.k.GetSubnetParams(suite.ctx, live)
	suite.Require().NoError(err)
	suite.Require().Equal("live", params.Name)
}
