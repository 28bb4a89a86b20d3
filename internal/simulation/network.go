package simulation

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	balanceskeeper "github.com/agicommies/subspace-network/x/balances/keeper"
	"github.com/agicommies/subspace-network/x/subspace/keeper"
	"github.com/agicommies/subspace-network/x/subspace/types"
)

const (
	maxWeightTargets = 8
	// nano is one whole token in base units.
	nano uint64 = 1_000_000_000
)

// accountFor derives a stable account address from seed.
func accountFor(seed int) sdk.AccAddress {
	h := sha256.Sum256([]byte(fmt.Sprintf("subspacesim-%d", seed)))
	return sdk.AccAddress(h[:20])
}

// Network is an in-memory subspace chain driven one block at a time.
type Network struct {
	ctx      sdk.Context
	logger   log.Logger
	scenario Scenario
	rng      *rand.Rand

	keeper    keeper.Keeper
	bank      *StoreBankKeeper
	balances  balanceskeeper.Keeper
	consensus *InMemoryConsensusKeeper

	queue   []candidate
	netuids map[string]uint16
	stats   stats
	metrics *simMetrics
}

// candidate is a module of the scenario that is not registered yet.
type candidate struct {
	subnet SubnetScenario
	key    sdk.AccAddress
	index  int
}

type stats struct {
	registrations  int
	epochsFinished int
	epochsFailed   int
	burnAdjusted   int
}

// NewNetwork builds the stores and keepers of scenario. No block has run yet.
func NewNetwork(logger log.Logger, scenario Scenario) (*Network, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey(BankStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, err
	}

	bank := NewStoreBankKeeper(runtime.NewKVStoreService(bankKey))
	balances := balanceskeeper.NewKeeper(logger, bank, types.ModuleName, types.BaseDenom, balanceskeeper.LogConfig{LogLevel: "debug", SimpleEntry: true})
	consensus := NewInMemoryConsensusKeeper()
	k := keeper.NewKeeper(
		runtime.NewKVStoreService(storeKey),
		logger,
		authtypes.NewModuleAddress(govtypes.ModuleName).String(),
		balances,
		NewInMemoryGovernanceKeeper(),
		consensus,
	)

	n := &Network{
		ctx:       sdk.NewContext(stateStore, cmtproto.Header{}, false, logger),
		logger:    logger.With("module", "simulation"),
		scenario:  scenario,
		rng:       rand.New(rand.NewPCG(scenario.Seed, scenario.Seed^0x5eed)),
		keeper:    k,
		bank:      bank,
		balances:  balances,
		consensus: consensus,
		netuids:   make(map[string]uint16, len(scenario.Subnets)),
		metrics:   newSimMetrics(),
	}

	params := types.DefaultParams()
	params.BurnRate = scenario.BurnRate
	for _, subnet := range scenario.Subnets {
		consensus, _ := ParseConsensus(subnet.Consensus)
		if consensus == types.ConsensusTreasury {
			params.TreasuryAddress = accountFor(0).String()
		}
	}
	if err := k.SetParams(n.ctx, params); err != nil {
		return nil, err
	}
	if scenario.UnitEmission > 0 {
		if err := k.UnitEmission.Set(n.ctx, scenario.UnitEmission); err != nil {
			return nil, err
		}
	}

	for s, subnet := range scenario.Subnets {
		for i := 0; i < subnet.Modules; i++ {
			n.queue = append(n.queue, candidate{
				subnet: subnet,
				key:    accountFor(1_000*(s+1) + i),
				index:  i,
			})
		}
	}
	return n, nil
}

// Height is the last block that ran.
func (n *Network) Height() int64 {
	return n.ctx.BlockHeight()
}

// Keeper is the subspace keeper of the network.
func (n *Network) Keeper() keeper.Keeper {
	return n.keeper
}

// Context is the context of the last block.
func (n *Network) Context() sdk.Context {
	return n.ctx
}

// Run steps the network through blocks blocks.
func (n *Network) Run(blocks uint64) error {
	for i := uint64(0); i < blocks; i++ {
		if err := n.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one block: pending registrations, periodic weight updates, the
// block step of the keeper and a stake ledger check.
func (n *Network) Step() error {
	n.ctx = n.ctx.WithBlockHeight(n.ctx.BlockHeight() + 1).WithEventManager(sdk.NewEventManager())
	height := uint64(n.ctx.BlockHeight())

	if err := n.registerPending(); err != nil {
		return fmt.Errorf("block %d: %w", height, err)
	}
	if n.scenario.WeightInterval > 0 && height%n.scenario.WeightInterval == 0 {
		if err := n.setWeights(); err != nil {
			return fmt.Errorf("block %d: %w", height, err)
		}
	}
	if err := n.keeper.BlockStep(n.ctx); err != nil {
		return fmt.Errorf("block %d: %w", height, err)
	}
	if err := n.keeper.CheckStakeLedger(n.ctx); err != nil {
		return fmt.Errorf("block %d: %w", height, err)
	}

	for _, event := range n.ctx.EventManager().Events() {
		switch event.Type {
		case types.EventTypeEpochFinished:
			n.stats.epochsFinished++
			n.metrics.recordEpoch(attribute(event, types.AttributeKeyNetuid), epochFinished)
		case types.EventTypeEpochFailed:
			n.stats.epochsFailed++
			n.metrics.recordEpoch(attribute(event, types.AttributeKeyNetuid), epochFailed)
		case types.EventTypeBurnAdjusted:
			n.stats.burnAdjusted++
			n.metrics.burnAdjustments.Inc()
		}
	}
	n.metrics.blocks.Inc()
	return n.observe()
}

// observe refreshes the state gauges.
func (n *Network) observe() error {
	totalStake, err := n.keeper.GetTotalStake(n.ctx)
	if err != nil {
		return err
	}
	n.metrics.totalStake.Set(float64(totalStake))
	n.metrics.issuance.Set(float64(n.balances.TotalIssuance(n.ctx)))
	for _, netuid := range n.netuids {
		pending, err := getOr(n.ctx, n.keeper.PendingEmission, netuid, 0)
		if err != nil {
			return err
		}
		n.metrics.recordPending(netuid, pending)
	}
	return nil
}

func attribute(event sdk.Event, key string) string {
	for _, attr := range event.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// registerPending registers queued modules until the per-block cap is hit.
// Modules over their subnet's interval cap wait for a later block.
func (n *Network) registerPending() error {
	remaining := n.queue[:0]
	full := false
	for _, c := range n.queue {
		if full {
			remaining = append(remaining, c)
			continue
		}
		err := n.register(c)
		switch {
		case err == nil:
			n.stats.registrations++
			n.metrics.registrations.Inc()
		case errors.Is(err, types.ErrTooManyRegistrations):
			full = true
			remaining = append(remaining, c)
		case errors.Is(err, types.ErrTooManyRegistrationsInterval):
			remaining = append(remaining, c)
		default:
			return fmt.Errorf("registering %s on %q: %w", c.key, c.subnet.Name, err)
		}
	}
	n.queue = remaining
	return nil
}

// register funds and registers c on a cached context that is only written
// back when the registration succeeds.
func (n *Network) register(c candidate) error {
	k := n.keeper
	ctx, write := n.ctx.CacheContext()
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	netuid, exists, err := k.GetNetuidForName(ctx, c.subnet.Name)
	if err != nil {
		return err
	}
	burn := params.BurnConfig.MinBurn
	if exists {
		if burn, err = n.burnOf(ctx, netuid, burn); err != nil {
			return err
		}
	}
	subnetBurn, err := k.GetSubnetBurn(ctx)
	if err != nil {
		return err
	}

	stake := burn + c.subnet.Stake*nano
	funds := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, sdkmath.NewIntFromUint64(stake+subnetBurn)))
	if err := n.bank.Fund(ctx, c.key, funds); err != nil {
		return err
	}
	netuid, uid, err := k.Register(ctx, keeper.RegisterRequest{
		Caller:      c.key,
		NetworkName: c.subnet.Name,
		Name:        fmt.Sprintf("%s-%d", c.subnet.Name, c.index),
		Address:     fmt.Sprintf("10.%d.%d.1:8080", len(n.netuids), c.index%250),
		Stake:       stake,
		ModuleKey:   c.key,
	})
	if err != nil {
		return err
	}
	if !exists {
		if err := n.configureSubnet(ctx, netuid, c.subnet); err != nil {
			return err
		}
	}
	write()
	n.logger.Debug("Module registered", "subnet", c.subnet.Name, "netuid", netuid, "uid", uid)
	return nil
}

func (n *Network) burnOf(ctx sdk.Context, netuid uint16, fallback uint64) (uint64, error) {
	has, err := n.keeper.Burn.Has(ctx, netuid)
	if err != nil || !has {
		return fallback, err
	}
	return n.keeper.Burn.Get(ctx, netuid)
}

// configureSubnet applies the scenario overrides to a freshly created subnet
// and tags its consensus engine.
func (n *Network) configureSubnet(ctx sdk.Context, netuid uint16, scenario SubnetScenario) error {
	params, err := n.keeper.GetSubnetParams(ctx, netuid)
	if err != nil {
		return err
	}
	if scenario.Tempo > 0 {
		params.Tempo = scenario.Tempo
	}
	if scenario.IncentiveRatio > 0 {
		params.IncentiveRatio = scenario.IncentiveRatio
	}
	params.MaxRegistrationsPerInterval = uint16(max(scenario.Modules, int(params.MaxRegistrationsPerInterval)))
	if err := n.keeper.UpdateSubnetParams(ctx, n.keeper.GetAuthority(), netuid, params); err != nil {
		return err
	}
	consensus, err := ParseConsensus(scenario.Consensus)
	if err != nil {
		return err
	}
	n.consensus.SetSubnetConsensusType(ctx, netuid, &consensus)
	n.netuids[scenario.Name] = netuid
	n.logger.Info("Subnet created", "name", scenario.Name, "netuid", netuid, "consensus", consensus.String())
	return nil
}

// setWeights has every registered module vote for random targets. Root
// subnets vote for the other subnets.
func (n *Network) setWeights() error {
	for _, subnet := range n.scenario.Subnets {
		netuid, ok := n.netuids[subnet.Name]
		if !ok {
			continue
		}
		consensus, err := ParseConsensus(subnet.Consensus)
		if err != nil {
			return err
		}
		keys, err := n.keeper.GetUidKeyPairs(n.ctx, netuid)
		if err != nil {
			return err
		}

		for uid, key := range keys {
			var candidates []uint16
			if consensus == types.ConsensusRoot {
				for _, other := range n.netuids {
					if other != netuid {
						candidates = append(candidates, other)
					}
				}
				slices.Sort(candidates)
			} else {
				for target := range keys {
					if target != uid {
						candidates = append(candidates, uint16(target))
					}
				}
			}
			if len(candidates) == 0 {
				continue
			}
			n.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
			targets := candidates[:min(len(candidates), maxWeightTargets)]
			values := make([]uint16, len(targets))
			for i := range values {
				values[i] = uint16(1 + n.rng.IntN(1_000))
			}
			if err := n.keeper.SetWeights(n.ctx, key, netuid, targets, values); err != nil {
				n.logger.Debug("Weights rejected", "netuid", netuid, "uid", uid, "error", err)
			}
		}
	}
	return nil
}
