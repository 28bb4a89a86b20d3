package simulation

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml"
)

// Snapshot is the economic state of a Network after its last block.
type Snapshot struct {
	RunID            string           `toml:"run_id"`
	Scenario         string           `toml:"scenario"`
	Height           int64            `toml:"height"`
	Issuance         uint64           `toml:"issuance"`
	TotalStake       uint64           `toml:"total_stake"`
	EmissionPerBlock uint64           `toml:"emission_per_block"`
	SubnetBurn       uint64           `toml:"subnet_burn"`
	Registrations    int              `toml:"registrations"`
	Unregistered     int              `toml:"unregistered"`
	EpochsFinished   int              `toml:"epochs_finished"`
	EpochsFailed     int              `toml:"epochs_failed"`
	BurnAdjustments  int              `toml:"burn_adjustments"`
	Subnets          []SubnetSnapshot `toml:"subnets"`
}

// SubnetSnapshot is the state of one subnet.
type SubnetSnapshot struct {
	Netuid          uint16 `toml:"netuid"`
	Name            string `toml:"name"`
	Consensus       string `toml:"consensus"`
	Modules         uint16 `toml:"modules"`
	Burn            uint64 `toml:"burn"`
	PendingEmission uint64 `toml:"pending_emission"`
	SubnetEmission  uint64 `toml:"subnet_emission"`
	LastEmission    uint64 `toml:"last_emission"`
	TopModule       string `toml:"top_module"`
	TopStake        uint64 `toml:"top_stake"`
}

// Snapshot reads the current state of the network under a fresh run id.
func (n *Network) Snapshot() (Snapshot, error) {
	ctx, k := n.ctx, n.keeper
	emission, err := k.EmissionPerBlock(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	totalStake, err := k.GetTotalStake(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	subnetBurn, err := k.GetSubnetBurn(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		RunID:            uuid.New().String(),
		Scenario:         n.scenario.Name,
		Height:           ctx.BlockHeight(),
		Issuance:         n.balances.TotalIssuance(ctx),
		TotalStake:       totalStake,
		EmissionPerBlock: emission,
		SubnetBurn:       subnetBurn,
		Registrations:    n.stats.registrations,
		Unregistered:     len(n.queue),
		EpochsFinished:   n.stats.epochsFinished,
		EpochsFailed:     n.stats.epochsFailed,
		BurnAdjustments:  n.stats.burnAdjusted,
	}

	netuids, err := k.Netuids(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	for _, netuid := range netuids {
		subnet, err := k.GetSubnetParams(ctx, netuid)
		if err != nil {
			return Snapshot{}, err
		}
		consensus, ok := n.consensus.GetSubnetConsensusType(ctx, netuid)
		name := "untagged"
		if ok {
			name = consensus.String()
		}
		keys, err := k.GetUidKeyPairs(ctx, netuid)
		if err != nil {
			return Snapshot{}, err
		}
		s := SubnetSnapshot{
			Netuid:    netuid,
			Name:      subnet.Name,
			Consensus: name,
			Modules:   uint16(len(keys)),
		}
		if s.Burn, err = getOr(ctx, k.Burn, netuid, params.BurnConfig.MinBurn); err != nil {
			return Snapshot{}, err
		}
		if s.PendingEmission, err = getOr(ctx, k.PendingEmission, netuid, 0); err != nil {
			return Snapshot{}, err
		}
		if s.SubnetEmission, err = getOr(ctx, k.SubnetEmission, netuid, 0); err != nil {
			return Snapshot{}, err
		}
		lastEmission, err := k.Emission.Get(ctx, netuid)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return Snapshot{}, err
		}
		for _, e := range lastEmission {
			s.LastEmission += e
		}
		if s.TopModule, s.TopStake, err = n.topModule(keys); err != nil {
			return Snapshot{}, err
		}
		snapshot.Subnets = append(snapshot.Subnets, s)
	}
	return snapshot, nil
}

// EncodeTOML renders the snapshot as a TOML document.
func (s Snapshot) EncodeTOML() ([]byte, error) {
	return toml.Marshal(s)
}

func (n *Network) topModule(keys []sdk.AccAddress) (string, uint64, error) {
	var (
		top      string
		topStake uint64
	)
	for _, key := range keys {
		stake, err := n.keeper.GetStake(n.ctx, key)
		if err != nil {
			return "", 0, err
		}
		if top == "" || stake > topStake {
			top, topStake = key.String(), stake
		}
	}
	return top, topStake, nil
}

func getOr(ctx context.Context, m collections.Map[uint16, uint64], netuid uint16, fallback uint64) (uint64, error) {
	value, err := m.Get(ctx, netuid)
	if errors.Is(err, collections.ErrNotFound) {
		return fallback, nil
	}
	return value, err
}
