package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/testutil"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

func decs(values ...string) []sdkmath.LegacyDec {
	out := make([]sdkmath.LegacyDec, len(values))
	for i, v := range values {
		out[i] = sdkmath.LegacyMustNewDecFromStr(v)
	}
	return out
}

// distribute pays drained out on netuid with the stored subnet parameters
// after edit.
func (suite *KeeperTestSuite) distribute(netuid uint16, edit func(*types.SubnetParams), incentive, dividends []sdkmath.LegacyDec, drained uint64) []uint64 {
	subnet, err := suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	if edit != nil {
		edit(&subnet)
	}
	keys, err := suite.k.GetUidKeyPairs(suite.ctx, netuid)
	suite.Require().NoError(err)
	emission, err := suite.k.DistributeEmission(suite.ctx, netuid, subnet, keys, incentive, dividends, drained)
	suite.Require().NoError(err)
	suite.Require().Equal(drained, sum(emission))
	return emission
}

func (suite *KeeperTestSuite) TestDistributionPaysRegisteredFounder() {
	founder := testutil.AccAddr(1)
	netuid := suite.newSubnet("founded", founder, nil)
	a := suite.appendModule(netuid, 1, 100)
	b := suite.appendModule(netuid, 2, 100)
	supplyBefore := suite.deps.Balances.TotalIssuance(suite.ctx)

	emission := suite.distribute(netuid, func(p *types.SubnetParams) {
		p.FounderShare = 10
		p.IncentiveRatio = 50
	}, decs("0.5", "0.5"), decs("1", "0"), 1_000)

	suite.Require().Equal([]uint64{775, 225}, emission)
	suite.Require().Equal(uint64(875), suite.stakeTo(a, a))
	suite.Require().Equal(uint64(325), suite.stakeTo(b, b))
	suite.Require().Equal(supplyBefore+1_000, suite.deps.Balances.TotalIssuance(suite.ctx))
}

func (suite *KeeperTestSuite) TestDistributionSkipsUnregisteredFounder() {
	netuid := suite.newSubnet("orphan", testutil.AccAddr(100), nil)
	suite.appendModule(netuid, 1, 0)
	suite.appendModule(netuid, 2, 0)

	emission := suite.distribute(netuid, func(p *types.SubnetParams) { p.FounderShare = 50 }, decs("0.5", "0.5"), decs("0.5", "0.5"), 1_000)
	suite.Require().Equal([]uint64{500, 500}, emission)
}

func (suite *KeeperTestSuite) TestDistributionSkipsMalformedFounder() {
	netuid := suite.newSubnet("malformed", testutil.AccAddr(1), nil)
	suite.appendModule(netuid, 1, 0)
	suite.appendModule(netuid, 2, 0)

	emission := suite.distribute(netuid, func(p *types.SubnetParams) {
		p.Founder = "nope"
		p.FounderShare = 50
	}, decs("0.5", "0.5"), decs("0.5", "0.5"), 1_000)
	suite.Require().Equal([]uint64{500, 500}, emission)
}

func (suite *KeeperTestSuite) TestDistributionPaysDelegatorsNetOfFee() {
	netuid := suite.newSubnet("delegated", testutil.AccAddr(100), nil)
	a := suite.appendModule(netuid, 1, 100)
	suite.appendModule(netuid, 2, 0)
	delegator := testutil.AccAddr(5)
	suite.stake(delegator, a, 300)

	emission := suite.distribute(netuid, func(p *types.SubnetParams) { p.IncentiveRatio = 0 }, decs("0", "0"), decs("1", "0"), 1_000)

	suite.Require().Equal([]uint64{1_000, 0}, emission)
	// 750 owned by the delegator, 20% of it kept as fee
	suite.Require().Equal(uint64(900), suite.stakeTo(delegator, a))
	suite.Require().Equal(uint64(500), suite.stakeTo(a, a))
}

func (suite *KeeperTestSuite) TestDistributionZeroSideYieldsToTheOther() {
	netuid := suite.newSubnet("lopsided", testutil.AccAddr(100), nil)
	suite.appendModule(netuid, 1, 0)
	suite.appendModule(netuid, 2, 0)

	emission := suite.distribute(netuid, nil, decs("0", "0"), decs("0.25", "0.75"), 1_000)
	suite.Require().Equal([]uint64{250, 750}, emission)
}

func (suite *KeeperTestSuite) TestDistributionBurnQuota() {
	params := types.DefaultParams()
	params.BurnRate = 10
	suite.Require().NoError(suite.k.SetParams(suite.ctx, params))
	netuid := suite.newSubnet("burning", testutil.AccAddr(100), nil)
	a := suite.appendModule(netuid, 1, 0)
	b := suite.appendModule(netuid, 2, 0)
	supplyBefore := suite.deps.Balances.TotalIssuance(suite.ctx)

	emission := suite.distribute(netuid, nil, decs("0.5", "0.5"), decs("0", "0"), 1_000)

	suite.Require().Equal([]uint64{500, 500}, emission)
	suite.Require().Equal(uint64(450), suite.stakeOf(a))
	suite.Require().Equal(uint64(450), suite.stakeOf(b))
	suite.Require().Equal(supplyBefore+900, suite.deps.Balances.TotalIssuance(suite.ctx))
}

func (suite *KeeperTestSuite) TestDistributionBurnShortfallComesFromSelfStake() {
	params := types.DefaultParams()
	params.BurnRate = 100
	suite.Require().NoError(suite.k.SetParams(suite.ctx, params))
	netuid := suite.newSubnet("burning", testutil.AccAddr(100), nil)
	a := suite.appendModule(netuid, 1, 0)
	b := suite.appendModule(netuid, 2, 100)
	supplyBefore := suite.deps.Balances.TotalIssuance(suite.ctx)

	emission := suite.distribute(netuid, nil, decs("1", "0"), decs("0", "0"), 1_000)

	suite.Require().Equal([]uint64{1_000, 0}, emission)
	suite.Require().Equal(uint64(500), suite.stakeOf(a))
	suite.Require().Zero(suite.stakeOf(b))
	suite.Require().Equal(supplyBefore+500-100, suite.deps.Balances.TotalIssuance(suite.ctx))
}

func (suite *KeeperTestSuite) TestDistributionHonorsProfitShares() {
	netuid := suite.newSubnet("shared", testutil.AccAddr(100), nil)
	a := suite.appendModule(netuid, 1, 0)
	p1, p2 := testutil.AccAddr(7), testutil.AccAddr(8)
	suite.Require().NoError(suite.k.AddProfitShares(suite.ctx, a, []sdk.AccAddress{p1, p2}, []uint16{1, 1}))

	suite.distribute(netuid, nil, decs("1"), decs("0"), 1_000)

	suite.Require().Equal(uint64(500), suite.stakeTo(p1, a))
	suite.Require().Equal(uint64(499), suite.stakeTo(p2, a))
	suite.Require().Equal(uint64(1), suite.stakeTo(a, a))
	suite.Require().Equal(uint64(1_000), suite.stakeOf(a))
}

func (suite *KeeperTestSuite) TestDistributionDustGoesToHighestEmission() {
	netuid := suite.newSubnet("dusty", testutil.AccAddr(100), nil)
	for seed := 1; seed <= 3; seed++ {
		suite.appendModule(netuid, seed, 0)
	}
	third := sdkmath.LegacyOneDec().QuoInt64(3)
	zero := sdkmath.LegacyZeroDec()

	emission := suite.distribute(netuid, func(p *types.SubnetParams) { p.IncentiveRatio = 100 },
		[]sdkmath.LegacyDec{third, third, third}, []sdkmath.LegacyDec{zero, zero, zero}, 1_000)
	suite.Require().Equal([]uint64{334, 333, 333}, emission)
}

func (suite *KeeperTestSuite) TestDistributionRejectsMismatchedVectors() {
	netuid := suite.newSubnet("broken", testutil.AccAddr(100), nil)
	suite.appendModule(netuid, 1, 0)
	subnet, err := suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	keys, err := suite.k.GetUidKeyPairs(suite.ctx, netuid)
	suite.Require().NoError(err)

	_, err = suite.k.DistributeEmission(suite.ctx, netuid, subnet, keys, decs("1", "0"), decs("1"), 10)
	suite.Require().ErrorIs(err, types.ErrVectorLengthMismatch)
}
