package types

type SubSystem uint8

const (
	Staking SubSystem = iota
	Subnets
	Modules
	Weights
	Registration
	Epoch
	Emission
	Burn
	Pricing
	Balances
	Genesis
	Testing = 255
)

func (s SubSystem) String() string {
	switch s {
	case Staking:
		return "Staking"
	case Subnets:
		return "Subnets"
	case Modules:
		return "Modules"
	case Weights:
		return "Weights"
	case Registration:
		return "Registration"
	case Epoch:
		return "Epoch"
	case Emission:
		return "Emission"
	case Burn:
		return "Burn"
	case Pricing:
		return "Pricing"
	case Balances:
		return "Balances"
	case Genesis:
		return "Genesis"
	case Testing:
		return "Testing"
	default:
		return "Unknown"
	}
}
