package types

import (
	"fmt"
	"math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

const million = 1_000_000
const billion = 1_000_000_000

const (
	// MaxBondsMovingAverage is the denominator of SubnetParams.BondsMA.
	MaxBondsMovingAverage = 1_000_000
	// ProportionScale is the fixed scale of weights, kappa and profit shares.
	ProportionScale = math.MaxUint16
	// MaxMultipleKeys caps the keys/amounts vectors of multi-key staking calls.
	MaxMultipleKeys = 100
	// MaxRemovalsPerChangeset bounds how many modules a single max_allowed_uids
	// reduction may deregister.
	MaxRemovalsPerChangeset = 256
)

// BurnConfiguration drives the registration-fee controller.
type BurnConfiguration struct {
	MinBurn               uint64 `json:"min_burn"`
	MaxBurn               uint64 `json:"max_burn"`
	AdjustmentAlpha       uint64 `json:"adjustment_alpha"`
	AdjustmentInterval    uint64 `json:"adjustment_interval"`
	ExpectedRegistrations uint64 `json:"expected_registrations"`
}

// Params holds the global economic parameters.
type Params struct {
	MaxNameLength            uint16 `json:"max_name_length"`
	MinNameLength            uint16 `json:"min_name_length"`
	MaxAllowedSubnets        uint16 `json:"max_allowed_subnets"`
	MaxAllowedModules        uint16 `json:"max_allowed_modules"`
	MaxRegistrationsPerBlock uint16 `json:"max_registrations_per_block"`
	MaxAllowedWeights        uint16 `json:"max_allowed_weights"`
	// percent
	FloorDelegationFee uint16 `json:"floor_delegation_fee"`
	// percent
	FloorFounderShare uint16 `json:"floor_founder_share"`
	MinWeightStake    uint64 `json:"min_weight_stake"`
	// percent of the pending emission each module burns per epoch
	BurnRate         uint16            `json:"burn_rate"`
	BurnConfig       BurnConfiguration `json:"burn_config"`
	SubnetBurnConfig BurnConfiguration `json:"subnet_burn_config"`
	// whole tokens, scaled by 10^Decimals
	HalvingInterval uint64 `json:"halving_interval"`
	MaxSupply       uint64 `json:"max_supply"`
	Decimals        uint32 `json:"decimals"`
	Denom           string `json:"denom"`
	TreasuryAddress string `json:"treasury_address"`
}

// DefaultUnitEmission is the per-block emission before any halving, in base units.
const DefaultUnitEmission uint64 = 23_148_148_148

func DefaultBurnConfig() BurnConfiguration {
	return BurnConfiguration{
		MinBurn:               4 * billion,
		MaxBurn:               250 * billion,
		AdjustmentAlpha:       math.MaxUint64 / 2,
		AdjustmentInterval:    200,
		ExpectedRegistrations: 100,
	}
}

func DefaultSubnetBurnConfig() BurnConfiguration {
	return BurnConfiguration{
		MinBurn: 2_000 * billion,
		MaxBurn: 100_000 * billion,
		// 1.2x the module burn alpha
		AdjustmentAlpha:       math.MaxUint64 / 10 * 6,
		AdjustmentInterval:    2_000,
		ExpectedRegistrations: 1,
	}
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		MaxNameLength:            32,
		MinNameLength:            2,
		MaxAllowedSubnets:        256,
		MaxAllowedModules:        10_000,
		MaxRegistrationsPerBlock: 10,
		MaxAllowedWeights:        512,
		FloorDelegationFee:       5,
		FloorFounderShare:        8,
		MinWeightStake:           0,
		BurnRate:                 0,
		BurnConfig:               DefaultBurnConfig(),
		SubnetBurnConfig:         DefaultSubnetBurnConfig(),
		HalvingInterval:          250 * million,
		MaxSupply:                1_000 * million,
		Decimals:                 9,
		Denom:                    BaseDenom,
		TreasuryAddress:          "",
	}
}

// BaseDenom is the staking and emission denomination.
const BaseDenom = "ucomai"

// Validate validates the set of params
func (p Params) Validate() error {
	if p.MinNameLength == 0 {
		return fmt.Errorf("min name length must be positive")
	}
	if p.MaxNameLength < p.MinNameLength {
		return fmt.Errorf("max name length %d is below min name length %d", p.MaxNameLength, p.MinNameLength)
	}
	if p.MaxAllowedSubnets == 0 {
		return fmt.Errorf("max allowed subnets must be positive")
	}
	if p.MaxAllowedModules == 0 {
		return fmt.Errorf("max allowed modules must be positive")
	}
	if p.MaxAllowedWeights == 0 {
		return fmt.Errorf("max allowed weights must be positive")
	}
	if err := validatePercentage(p.FloorDelegationFee); err != nil {
		return errors.Wrap(err, "invalid floor_delegation_fee")
	}
	if err := validatePercentage(p.FloorFounderShare); err != nil {
		return errors.Wrap(err, "invalid floor_founder_share")
	}
	if err := validatePercentage(p.BurnRate); err != nil {
		return errors.Wrap(err, "invalid burn_rate")
	}
	if err := p.BurnConfig.Validate(); err != nil {
		return errors.Wrap(err, "invalid burn_config")
	}
	if err := p.SubnetBurnConfig.Validate(); err != nil {
		return errors.Wrap(err, "invalid subnet_burn_config")
	}
	if p.HalvingInterval == 0 {
		return fmt.Errorf("halving interval must be positive")
	}
	if p.Decimals > 18 {
		return fmt.Errorf("decimals must be at most 18, got %d", p.Decimals)
	}
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return errors.Wrap(err, "invalid denom")
	}
	if p.TreasuryAddress != "" {
		if _, err := sdk.AccAddressFromBech32(p.TreasuryAddress); err != nil {
			return errors.Wrap(err, "invalid treasury_address")
		}
	}
	return nil
}

// Validate validates a BurnConfiguration
func (c BurnConfiguration) Validate() error {
	if c.MinBurn > c.MaxBurn {
		return fmt.Errorf("min burn %d exceeds max burn %d", c.MinBurn, c.MaxBurn)
	}
	if c.AdjustmentAlpha == 0 {
		return ErrInvalidAdjustmentAlpha
	}
	if c.ExpectedRegistrations == 0 {
		return fmt.Errorf("expected registrations must be positive")
	}
	return nil
}

func validatePercentage(v uint16) error {
	if v > 100 {
		return fmt.Errorf("percentage must be at most 100, got %d", v)
	}
	return nil
}
