package simulation

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"

	"github.com/agicommies/subspace-network/x/subspace/types"
)

// Scenario describes the network a simulation builds and how long it runs.
type Scenario struct {
	Name           string           `mapstructure:"name" toml:"name"`
	Seed           uint64           `mapstructure:"seed" toml:"seed"`
	Blocks         uint64           `mapstructure:"blocks" toml:"blocks"`
	UnitEmission   uint64           `mapstructure:"unit_emission" toml:"unit_emission"`
	BurnRate       uint16           `mapstructure:"burn_rate" toml:"burn_rate"`
	WeightInterval uint64           `mapstructure:"weight_interval" toml:"weight_interval"`
	Subnets        []SubnetScenario `mapstructure:"subnets" toml:"subnets"`
}

// SubnetScenario is one subnet of a Scenario. Zero tempo and incentive ratio
// keep the subnet defaults. Stake is in whole tokens on top of the burn.
type SubnetScenario struct {
	Name           string `mapstructure:"name" toml:"name"`
	Consensus      string `mapstructure:"consensus" toml:"consensus"`
	Modules        int    `mapstructure:"modules" toml:"modules"`
	Stake          uint64 `mapstructure:"stake" toml:"stake"`
	Tempo          uint16 `mapstructure:"tempo" toml:"tempo"`
	IncentiveRatio uint16 `mapstructure:"incentive_ratio" toml:"incentive_ratio"`
}

// DefaultScenario is a root subnet pricing one linear and one Yuma subnet.
func DefaultScenario() Scenario {
	return Scenario{
		Name:           "default",
		Seed:           42,
		Blocks:         1_000,
		UnitEmission:   types.DefaultUnitEmission,
		WeightInterval: 10,
		Subnets: []SubnetScenario{
			{Name: "root", Consensus: "root", Modules: 4, Stake: 1_000, Tempo: 100},
			{Name: "alpha", Consensus: "linear", Modules: 8, Stake: 100, Tempo: 50},
			{Name: "beta", Consensus: "yuma", Modules: 8, Stake: 100, Tempo: 60, IncentiveRatio: 60},
		},
	}
}

// LoadScenario decodes a scenario from v on top of DefaultScenario.
func LoadScenario(v *viper.Viper) (Scenario, error) {
	scenario := DefaultScenario()
	if err := v.Unmarshal(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario: %w", err)
	}
	return scenario, scenario.Validate()
}

func (s Scenario) Validate() error {
	if s.Blocks == 0 {
		return fmt.Errorf("scenario %q runs no blocks", s.Name)
	}
	if len(s.Subnets) == 0 {
		return fmt.Errorf("scenario %q has no subnets", s.Name)
	}
	names := make(map[string]struct{}, len(s.Subnets))
	for _, subnet := range s.Subnets {
		if _, ok := names[subnet.Name]; ok {
			return fmt.Errorf("subnet %q listed twice", subnet.Name)
		}
		names[subnet.Name] = struct{}{}
		if subnet.Modules < 1 {
			return fmt.Errorf("subnet %q needs at least one module", subnet.Name)
		}
		if _, err := ParseConsensus(subnet.Consensus); err != nil {
			return fmt.Errorf("subnet %q: %w", subnet.Name, err)
		}
	}
	return nil
}

// EncodeTOML renders the scenario in the format LoadScenario reads.
func (s Scenario) EncodeTOML() ([]byte, error) {
	return toml.Marshal(s)
}

// ParseConsensus maps a consensus name to its tag, ignoring case.
func ParseConsensus(name string) (types.SubnetConsensus, error) {
	for _, consensus := range []types.SubnetConsensus{types.ConsensusRoot, types.ConsensusLinear, types.ConsensusYuma, types.ConsensusTreasury} {
		if strings.EqualFold(name, consensus.String()) {
			return consensus, nil
		}
	}
	return 0, fmt.Errorf("unknown consensus %q", name)
}
