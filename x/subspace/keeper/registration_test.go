package keeper_test

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agicommies/subspace-network/testutil"
	"github.com/agicommies/subspace-network/x/subspace/keeper"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

func (suite *KeeperTestSuite) registerRequest(network string, seed int, stake uint64) keeper.RegisterRequest {
	key := testutil.AccAddr(seed)
	return keeper.RegisterRequest{
		Caller:      key,
		NetworkName: network,
		Name:        fmt.Sprintf("module-%d", seed),
		Address:     fmt.Sprintf("10.0.0.%d:8080", seed),
		Stake:       stake,
		ModuleKey:   key,
	}
}

func (suite *KeeperTestSuite) TestRegisterCreatesSubnet() {
	params := types.DefaultParams()
	subnetBurn := params.SubnetBurnConfig.MinBurn
	burn := params.BurnConfig.MinBurn
	stake := burn + testutil.ToNano(10)

	req := suite.registerRequest("fresh", 1, stake)
	suite.fund(req.Caller, subnetBurn+stake)
	supplyBefore := suite.deps.Balances.TotalIssuance(suite.ctx)

	netuid, uid, err := suite.k.Register(suite.ctx, req)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(0), netuid)
	suite.Require().Equal(uint16(0), uid)

	subnet, err := suite.k.GetSubnetParams(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(req.Caller.String(), subnet.Founder)
	suite.Require().Equal(testutil.ToNano(10), suite.stakeOf(req.ModuleKey))
	suite.Require().Zero(suite.freeBalance(req.Caller))
	suite.Require().Equal(supplyBefore-subnetBurn-burn, suite.deps.Balances.TotalIssuance(suite.ctx))
	suite.Require().Len(suite.events(types.EventTypeModuleRegistered), 1)
	suite.Require().Len(suite.events(types.EventTypeNetworkAdded), 1)
}

func (suite *KeeperTestSuite) TestRegisterOnExistingSubnet() {
	netuid := suite.newSubnet("existing", testutil.AccAddr(100), nil)
	burn := types.DefaultParams().BurnConfig.MinBurn
	req := suite.registerRequest("existing", 1, burn+500)
	suite.fund(req.Caller, burn+1_000)

	gotNetuid, uid, err := suite.k.Register(suite.ctx, req)
	suite.Require().NoError(err)
	suite.Require().Equal(netuid, gotNetuid)
	suite.Require().Equal(uint16(0), uid)
	suite.Require().Equal(uint64(500), suite.stakeOf(req.ModuleKey))
	suite.Require().Equal(uint64(500), suite.freeBalance(req.Caller))

	perBlock, err := suite.k.RegistrationsPerBlock.Get(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(1), perBlock)
	interval, err := suite.k.RegistrationsThisInterval.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(1), interval)

	_, _, err = suite.k.Register(suite.ctx, req)
	suite.Require().ErrorIs(err, types.ErrAlreadyRegistered)
}

func (suite *KeeperTestSuite) TestRegisterRejections() {
	suite.newSubnet("existing", testutil.AccAddr(100), func(p *types.SubnetParams) { p.MinStake = 1_000 })
	burn := types.DefaultParams().BurnConfig.MinBurn

	poor := suite.registerRequest("existing", 1, burn+1_000)
	suite.fund(poor.Caller, burn)
	_, _, err := suite.k.Register(suite.ctx, poor)
	suite.Require().ErrorIs(err, types.ErrNotEnoughBalanceToRegister)

	cheap := suite.registerRequest("existing", 2, burn+999)
	suite.fund(cheap.Caller, burn+999)
	_, _, err = suite.k.Register(suite.ctx, cheap)
	suite.Require().ErrorIs(err, types.ErrNotEnoughStakeToRegister)

	ok := suite.registerRequest("existing", 3, burn+1_000)
	suite.fund(ok.Caller, burn+1_000)
	_, _, err = suite.k.Register(suite.ctx, ok)
	suite.Require().NoError(err)

	clash := suite.registerRequest("existing", 4, burn+1_000)
	clash.Name = ok.Name
	suite.fund(clash.Caller, burn+1_000)
	_, _, err = suite.k.Register(suite.ctx, clash)
	suite.Require().ErrorIs(err, types.ErrModuleNameAlreadyExists)

	unnamed := suite.registerRequest("existing", 5, burn+1_000)
	unnamed.Name = ""
	_, _, err = suite.k.Register(suite.ctx, unnamed)
	suite.Require().ErrorIs(err, types.ErrInvalidModuleName)
}

func (suite *KeeperTestSuite) TestRegisterPerBlockAndIntervalCaps() {
	params := types.DefaultParams()
	params.MaxRegistrationsPerBlock = 2
	suite.Require().NoError(suite.k.SetParams(suite.ctx, params))
	netuid := suite.newSubnet("capped", testutil.AccAddr(100), func(p *types.SubnetParams) { p.MaxRegistrationsPerInterval = 3 })
	burn := params.BurnConfig.MinBurn

	for seed := 1; seed <= 2; seed++ {
		req := suite.registerRequest("capped", seed, burn)
		suite.fund(req.Caller, burn)
		_, _, err := suite.k.Register(suite.ctx, req)
		suite.Require().NoError(err)
	}
	req := suite.registerRequest("capped", 3, burn)
	suite.fund(req.Caller, burn)
	_, _, err := suite.k.Register(suite.ctx, req)
	suite.Require().ErrorIs(err, types.ErrTooManyRegistrations)

	// the block step clears the per-block counter
	suite.ctx = suite.ctx.WithBlockHeight(2)
	suite.Require().NoError(suite.k.RegistrationsPerBlock.Set(suite.ctx, 0))
	_, _, err = suite.k.Register(suite.ctx, req)
	suite.Require().NoError(err)

	req = suite.registerRequest("capped", 4, burn)
	suite.fund(req.Caller, burn)
	_, _, err = suite.k.Register(suite.ctx, req)
	suite.Require().ErrorIs(err, types.ErrTooManyRegistrationsInterval)

	n, err := suite.k.GetN(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(3), n)
}

func (suite *KeeperTestSuite) TestRegisterReplacesLowestPruningScore() {
	netuid := suite.newSubnet("full", testutil.AccAddr(100), func(p *types.SubnetParams) {
		p.MaxAllowedUids = 3
		p.ImmunityPeriod = 0
	})
	for seed := 1; seed <= 3; seed++ {
		suite.appendModule(netuid, seed, 0)
	}
	suite.Require().NoError(suite.k.PruningScores.Set(suite.ctx, netuid, []uint16{500, 100, 100}))
	burn := types.DefaultParams().BurnConfig.MinBurn

	req := suite.registerRequest("full", 9, burn)
	suite.fund(req.Caller, burn)
	_, uid, err := suite.k.Register(suite.ctx, req)
	suite.Require().NoError(err)
	suite.Require().Equal(uint16(1), uid, "lowest score, lowest uid")

	keys, err := suite.k.GetUidKeyPairs(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Len(keys, 3)
	suite.Require().True(keys[0].Equals(testutil.AccAddr(1)))
	suite.Require().True(keys[1].Equals(req.ModuleKey))
	suite.Require().True(keys[2].Equals(testutil.AccAddr(3)))
	registered, err := suite.k.IsRegistered(suite.ctx, netuid, testutil.AccAddr(2))
	suite.Require().NoError(err)
	suite.Require().False(registered)
}

func (suite *KeeperTestSuite) TestRegisterFailsWhenEveryModuleIsImmune() {
	netuid := suite.newSubnet("immune", testutil.AccAddr(100), func(p *types.SubnetParams) {
		p.MaxAllowedUids = 1
		p.ImmunityPeriod = 100
	})
	suite.appendModule(netuid, 1, 0)
	burn := types.DefaultParams().BurnConfig.MinBurn

	req := suite.registerRequest("immune", 2, burn)
	suite.fund(req.Caller, burn)
	_, _, err := suite.k.Register(suite.ctx, req)
	suite.Require().ErrorIs(err, types.ErrNoSlotAvailable)
	suite.Require().Equal(burn, suite.freeBalance(req.Caller))
}

func (suite *KeeperTestSuite) TestAddProfitShares() {
	owner := testutil.AccAddr(1)
	a, b, c := testutil.AccAddr(2), testutil.AccAddr(3), testutil.AccAddr(4)

	suite.Require().NoError(suite.k.AddProfitShares(suite.ctx, owner, []sdk.AccAddress{a, b, c}, []uint16{1, 1, 1}))
	shares, err := suite.k.GetProfitShares(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Require().Len(shares, 3)
	var total uint64
	for _, share := range shares {
		total += uint64(share.Share)
	}
	suite.Require().Equal(uint64(types.ProportionScale), total)

	suite.Require().NoError(suite.k.AddProfitShares(suite.ctx, owner, []sdk.AccAddress{a, b}, []uint16{1, 1}))
	shares, err = suite.k.GetProfitShares(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Require().Equal([]types.ProfitShare{{Key: a.String(), Share: 32768}, {Key: b.String(), Share: 32767}}, shares)

	suite.Require().NoError(suite.k.AddProfitShares(suite.ctx, owner, []sdk.AccAddress{a, b}, []uint16{0, 9}))
	shares, err = suite.k.GetProfitShares(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Require().Equal([]types.ProfitShare{{Key: b.String(), Share: types.ProportionScale}}, shares)

	suite.Require().ErrorIs(suite.k.AddProfitShares(suite.ctx, owner, []sdk.AccAddress{a, a}, []uint16{1, 1}), types.ErrInvalidShares)
	suite.Require().ErrorIs(suite.k.AddProfitShares(suite.ctx, owner, []sdk.AccAddress{a}, []uint16{0}), types.ErrInvalidShares)
	suite.Require().ErrorIs(suite.k.AddProfitShares(suite.ctx, owner, nil, nil), types.ErrEmptyKeys)
	suite.Require().ErrorIs(suite.k.AddProfitShares(suite.ctx, owner, []sdk.AccAddress{a}, []uint16{1, 2}), types.ErrDifferentLengths)
}
