package keeper_test

import (
	"cosmossdk.io/collections"

	"github.com/agicommies/subspace-network/testutil"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

func (suite *KeeperTestSuite) pending(netuid uint16) uint64 {
	pending, err := suite.k.PendingEmission.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	return pending
}

func (suite *KeeperTestSuite) TestLinearEpochPaysOutPending() {
	netuid := suite.newSubnet("linear", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusLinear)
	const modules = 10
	var staked uint64
	for seed := 1; seed <= modules; seed++ {
		suite.appendModule(netuid, seed, uint64(1_000*seed))
		staked += uint64(1_000 * seed)
	}
	for uid := 0; uid < modules; uid++ {
		voter := testutil.AccAddr(uid + 1)
		target := uint16((uid + 1) % modules)
		suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, netuid, []uint16{target}, []uint16{1}))
	}
	suite.Require().NoError(suite.k.PendingEmission.Set(suite.ctx, netuid, 1_000_000))
	supplyBefore := suite.deps.Balances.TotalIssuance(suite.ctx)

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))

	suite.Require().Zero(suite.pending(netuid))
	emission, err := suite.k.Emission.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Len(emission, modules)
	suite.Require().Equal(uint64(1_000_000), sum(emission))
	total, err := suite.k.GetTotalStake(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(staked+1_000_000, total)
	suite.Require().Equal(supplyBefore+1_000_000, suite.deps.Balances.TotalIssuance(suite.ctx))
	suite.Require().Len(suite.events(types.EventTypeEpochFinished), 1)
	suite.Require().Empty(suite.events(types.EventTypeEpochFailed))
}

func (suite *KeeperTestSuite) TestLinearEpochIgnoresSelfWeights() {
	netuid := suite.newSubnet("linear", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusLinear)
	suite.appendModule(netuid, 1, 100)
	suite.appendModule(netuid, 2, 100)
	toFirst := []types.SparseEntry{{Uid: 0, Value: types.ProportionScale}}
	suite.Require().NoError(suite.k.Weights.Set(suite.ctx, collections.Join(netuid, uint16(0)), toFirst))
	suite.Require().NoError(suite.k.Weights.Set(suite.ctx, collections.Join(netuid, uint16(1)), toFirst))
	suite.Require().NoError(suite.k.PendingEmission.Set(suite.ctx, netuid, 1_000))

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))

	incentive, err := suite.k.Incentive.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint16{types.ProportionScale, 0}, incentive)
	dividends, err := suite.k.Dividends.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint16{0, types.ProportionScale}, dividends)
	emission, err := suite.k.Emission.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint64{500, 500}, emission)
}

func (suite *KeeperTestSuite) TestYumaEpochSingleValidator() {
	netuid := suite.newSubnet("yuma", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusYuma)
	validator := suite.appendModule(netuid, 1, 100)
	suite.appendModule(netuid, 2, 0)
	suite.appendModule(netuid, 3, 0)
	suite.ctx = suite.ctx.WithBlockHeight(10)
	suite.Require().NoError(suite.k.SetWeights(suite.ctx, validator, netuid, []uint16{1, 2}, []uint16{1, 1}))
	suite.Require().NoError(suite.k.PendingEmission.Set(suite.ctx, netuid, 1_000))

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))

	emission, err := suite.k.Emission.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1_000), sum(emission))
	suite.Require().GreaterOrEqual(emission[0], uint64(500), "the only validator takes every dividend")
	suite.Require().InDelta(emission[1], emission[2], 1)

	dividends, err := suite.k.Dividends.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal([]uint16{types.ProportionScale, 0, 0}, dividends)
	permits, err := suite.k.ValidatorPermits.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Len(permits, 3)
	bonds, err := suite.k.Bonds.Get(suite.ctx, collections.Join(netuid, uint16(0)))
	suite.Require().NoError(err)
	suite.Require().Len(bonds, 2)
	suite.Require().Zero(suite.pending(netuid))
}

func (suite *KeeperTestSuite) TestYumaEpochOneVoterTenModules() {
	netuid := suite.newSubnet("yuma", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusYuma)
	const (
		modules    = 10
		voterStake = 1_000_000
		pending    = 1_000_000
	)
	voter := suite.appendModule(netuid, 1, voterStake)
	for seed := 2; seed <= modules; seed++ {
		suite.appendModule(netuid, seed, 0)
	}
	suite.ctx = suite.ctx.WithBlockHeight(10)
	uids := make([]uint16, 0, modules-1)
	values := make([]uint16, 0, modules-1)
	for uid := uint16(1); uid < modules; uid++ {
		uids = append(uids, uid)
		values = append(values, 1)
	}
	suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, netuid, uids, values))
	suite.Require().NoError(suite.k.PendingEmission.Set(suite.ctx, netuid, pending))

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))

	emission, err := suite.k.Emission.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Len(emission, modules)
	suite.Require().Equal(uint64(pending), sum(emission))
	incentive, err := suite.k.Incentive.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Zero(incentive[0], "a voter earns no incentive from its own weights")
	for uid := 2; uid < modules; uid++ {
		suite.Require().Equal(incentive[1], incentive[uid])
		suite.Require().InDelta(emission[1], emission[uid], 1)
	}
	suite.Require().GreaterOrEqual(emission[0], uint64(pending/2))
	suite.Require().Equal(uint64(voterStake)+emission[0], suite.stakeOf(voter), "dividends are staked back on the voter")
	suite.Require().Zero(suite.pending(netuid))
}

func (suite *KeeperTestSuite) TestTreasuryEpochRollsBackWithoutAddress() {
	netuid := suite.newSubnet("treasury", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusTreasury)
	suite.Require().NoError(suite.k.PendingEmission.Set(suite.ctx, netuid, 5_000))
	supplyBefore := suite.deps.Balances.TotalIssuance(suite.ctx)

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))
	suite.Require().Len(suite.events(types.EventTypeEpochFailed), 1)
	suite.Require().Equal(uint64(5_000), suite.pending(netuid))
	suite.Require().Equal(supplyBefore, suite.deps.Balances.TotalIssuance(suite.ctx))

	treasury := testutil.AccAddr(42)
	params := types.DefaultParams()
	params.TreasuryAddress = treasury.String()
	suite.Require().NoError(suite.k.SetParams(suite.ctx, params))

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))
	suite.Require().Equal(uint64(5_000), suite.freeBalance(treasury))
	suite.Require().Zero(suite.pending(netuid))
	suite.Require().Len(suite.events(types.EventTypeTreasuryPaid), 1)
	suite.Require().Len(suite.events(types.EventTypeEpochFinished), 1)
}

func (suite *KeeperTestSuite) TestRunEpochSkipsEmptySubnet() {
	netuid := suite.newSubnet("empty", testutil.AccAddr(100), nil)
	suite.tag(netuid, types.ConsensusLinear)
	suite.Require().NoError(suite.k.PendingEmission.Set(suite.ctx, netuid, 5_000))

	suite.Require().NoError(suite.k.RunEpoch(suite.ctx, netuid))
	suite.Require().Equal(uint64(5_000), suite.pending(netuid))
	suite.Require().Empty(suite.events(types.EventTypeEpochFinished))
}

func (suite *KeeperTestSuite) TestPricingSplitsEvenlyWithoutRoot() {
	first := suite.newSubnet("first", testutil.AccAddr(100), nil)
	second := suite.newSubnet("second", testutil.AccAddr(100), nil)
	suite.tag(first, types.ConsensusLinear)
	suite.tag(second, types.ConsensusLinear)

	suite.Require().NoError(suite.k.BlockStep(suite.ctx))

	half := types.DefaultUnitEmission / 2
	suite.Require().Equal(half, suite.pending(first))
	suite.Require().Equal(half, suite.pending(second))
	priced, err := suite.k.SubnetEmission.Get(suite.ctx, first)
	suite.Require().NoError(err)
	suite.Require().Equal(half, priced)
}

func (suite *KeeperTestSuite) TestPricingFollowsRootWeights() {
	root := suite.newSubnet("root", testutil.AccAddr(100), nil)
	low := suite.newSubnet("low", testutil.AccAddr(100), nil)
	high := suite.newSubnet("high", testutil.AccAddr(100), nil)
	voter := suite.appendModule(root, 1, 100)
	suite.Require().NoError(suite.k.SetWeights(suite.ctx, voter, root, []uint16{low, high}, []uint16{1, 3}))

	const emission = 1_000_000
	priced, err := suite.k.SubnetPricing(suite.ctx, emission)
	suite.Require().NoError(err)

	suite.Require().Zero(priced[root])
	suite.Require().InDelta(250_000, priced[low], 10)
	suite.Require().InDelta(750_000, priced[high], 10)
	suite.Require().LessOrEqual(priced[low]+priced[high], uint64(emission))
}

func (suite *KeeperTestSuite) TestBlockStepFiresEpochsOnTempo() {
	first := suite.newSubnet("first", testutil.AccAddr(100), nil)
	second := suite.newSubnet("second", testutil.AccAddr(100), nil)
	suite.tag(first, types.ConsensusLinear)
	suite.tag(second, types.ConsensusLinear)
	a := suite.appendModule(first, 1, 0)
	b := suite.appendModule(second, 2, 0)

	tempo := uint64(types.DefaultSubnetParams("first", testutil.AccAddr(100)).Tempo)
	for height := uint64(1); height <= tempo; height++ {
		suite.ctx = suite.ctx.WithBlockHeight(int64(height))
		suite.Require().NoError(suite.k.BlockStep(suite.ctx))
	}

	// first fires at height%tempo == 0, second one block earlier
	half := types.DefaultUnitEmission / 2
	suite.Require().Zero(suite.pending(first))
	suite.Require().Equal(half, suite.pending(second))
	suite.Require().Equal(tempo*half, suite.stakeOf(a))
	suite.Require().Equal((tempo-1)*half, suite.stakeOf(b))
	suite.Require().Len(suite.events(types.EventTypeEpochFinished), 2)
}

func (suite *KeeperTestSuite) TestBlockStepResetsRegistrationsPerBlock() {
	suite.Require().NoError(suite.k.RegistrationsPerBlock.Set(suite.ctx, 4))
	suite.Require().NoError(suite.k.BlockStep(suite.ctx))
	perBlock, err := suite.k.RegistrationsPerBlock.Get(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Zero(perBlock)
}

func (suite *KeeperTestSuite) TestAdjustBurnsOnInterval() {
	netuid := suite.newSubnet("busy", testutil.AccAddr(100), func(p *types.SubnetParams) {
		p.TargetRegistrationsInterval = 10
		p.TargetRegistrationsPerInterval = 1
	})
	minBurn := types.DefaultParams().BurnConfig.MinBurn
	suite.Require().NoError(suite.k.RegistrationsThisInterval.Set(suite.ctx, netuid, 5))

	suite.Require().NoError(suite.k.AdjustBurns(suite.ctx, 11))
	suite.Require().Empty(suite.events(types.EventTypeBurnAdjusted))

	suite.Require().NoError(suite.k.AdjustBurns(suite.ctx, 10))
	burn, err := suite.k.Burn.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Greater(burn, minBurn)
	suite.Require().Less(burn, types.DefaultParams().BurnConfig.MaxBurn)
	registrations, err := suite.k.RegistrationsThisInterval.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Zero(registrations)
	suite.Require().Len(suite.events(types.EventTypeBurnAdjusted), 1)

	// no registrations walks the burn back down to the floor
	for height := uint64(20); height <= 200; height += 10 {
		suite.Require().NoError(suite.k.AdjustBurns(suite.ctx, height))
	}
	burn, err = suite.k.Burn.Get(suite.ctx, netuid)
	suite.Require().NoError(err)
	suite.Require().Equal(minBurn, burn)
}

func (suite *KeeperTestSuite) TestEmissionPerBlockHalves() {
	params := types.DefaultParams()
	unit := types.DefaultUnitEmission

	emission, err := suite.k.EmissionPerBlock(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(unit, emission)

	scale := uint64(1_000_000_000)
	holder := testutil.AccAddr(77)
	suite.fund(holder, params.HalvingInterval*scale)
	emission, err = suite.k.EmissionPerBlock(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(unit>>1, emission)

	suite.fund(holder, (params.MaxSupply-params.HalvingInterval)*scale)
	emission, err = suite.k.EmissionPerBlock(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Zero(emission)
}

func (suite *KeeperTestSuite) TestUnitEmissionOverride() {
	suite.Require().NoError(suite.k.UnitEmission.Set(suite.ctx, 1_000))
	emission, err := suite.k.EmissionPerBlock(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1_000), emission)
}
