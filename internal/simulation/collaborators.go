package simulation

// Collaborators that only need to remember what they were told, kept in memory.
import (
	"context"
	"sync"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// InMemoryGovernanceKeeper records governance configurations per subnet.
type InMemoryGovernanceKeeper struct {
	data    map[uint16]types.GovernanceConfiguration
	removed []uint16
	mu      sync.RWMutex
}

func NewInMemoryGovernanceKeeper() *InMemoryGovernanceKeeper {
	return &InMemoryGovernanceKeeper{
		data: make(map[uint16]types.GovernanceConfiguration),
	}
}

func (keeper *InMemoryGovernanceKeeper) GetSubnetGovernanceConfiguration(ctx context.Context, netuid uint16) types.GovernanceConfiguration {
	keeper.mu.RLock()
	defer keeper.mu.RUnlock()
	if cfg, found := keeper.data[netuid]; found {
		return cfg
	}
	return types.DefaultGovernanceConfiguration()
}

func (keeper *InMemoryGovernanceKeeper) UpdateSubnetGovernanceConfiguration(ctx context.Context, netuid uint16, cfg types.GovernanceConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.data[netuid] = cfg
	return nil
}

func (keeper *InMemoryGovernanceKeeper) HandleSubnetRemoval(ctx context.Context, netuid uint16) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	delete(keeper.data, netuid)
	keeper.removed = append(keeper.removed, netuid)
}

// Removed lists the netuids HandleSubnetRemoval was called with, in order.
func (keeper *InMemoryGovernanceKeeper) Removed() []uint16 {
	keeper.mu.RLock()
	defer keeper.mu.RUnlock()
	return append([]uint16(nil), keeper.removed...)
}

// InMemoryConsensusKeeper tags subnets with a consensus type.
type InMemoryConsensusKeeper struct {
	data map[uint16]types.SubnetConsensus
	mu   sync.RWMutex
}

func NewInMemoryConsensusKeeper() *InMemoryConsensusKeeper {
	return &InMemoryConsensusKeeper{
		data: make(map[uint16]types.SubnetConsensus),
	}
}

func (keeper *InMemoryConsensusKeeper) GetSubnetConsensusType(ctx context.Context, netuid uint16) (types.SubnetConsensus, bool) {
	keeper.mu.RLock()
	defer keeper.mu.RUnlock()
	consensus, found := keeper.data[netuid]
	return consensus, found
}

func (keeper *InMemoryConsensusKeeper) SetSubnetConsensusType(ctx context.Context, netuid uint16, consensus *types.SubnetConsensus) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if consensus == nil {
		delete(keeper.data, netuid)
		return
	}
	keeper.data[netuid] = *consensus
}
