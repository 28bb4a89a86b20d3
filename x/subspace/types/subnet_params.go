package types

import (
	"fmt"
	"math"
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// VoteMode selects who may change a subnet's parameters.
type VoteMode string

const (
	VoteModeAuthority VoteMode = "authority"
	VoteModeVote      VoteMode = "vote"
)

// GovernanceConfiguration is handed to the governance collaborator whenever a
// changeset is applied.
type GovernanceConfiguration struct {
	ProposalCost                   uint64   `json:"proposal_cost"`
	ProposalExpiration             uint32   `json:"proposal_expiration"`
	ProposalParticipationThreshold uint16   `json:"proposal_participation_threshold"`
	VoteMode                       VoteMode `json:"vote_mode"`
}

func DefaultGovernanceConfiguration() GovernanceConfiguration {
	return GovernanceConfiguration{
		ProposalCost:                   10_000 * billion,
		ProposalExpiration:             130_000,
		ProposalParticipationThreshold: 50,
		VoteMode:                       VoteModeVote,
	}
}

func (g GovernanceConfiguration) Validate() error {
	if g.ProposalExpiration == 0 {
		return errorsmod.Wrap(ErrInvalidGovernanceConfiguration, "proposal expiration must be positive")
	}
	if g.ProposalParticipationThreshold > 100 {
		return errorsmod.Wrap(ErrInvalidGovernanceConfiguration, "participation threshold above 100")
	}
	switch g.VoteMode {
	case VoteModeAuthority, VoteModeVote:
	default:
		return errorsmod.Wrapf(ErrInvalidGovernanceConfiguration, "unknown vote mode %q", g.VoteMode)
	}
	return nil
}

// SubnetParams is the full parameter record of a subnet, also used as the
// changeset payload for subnet creation and updates.
type SubnetParams struct {
	Name    string `json:"name"`
	Founder string `json:"founder"`
	// percent
	FounderShare      uint16 `json:"founder_share"`
	Tempo             uint16 `json:"tempo"`
	ImmunityPeriod    uint16 `json:"immunity_period"`
	MinAllowedWeights uint16 `json:"min_allowed_weights"`
	MaxAllowedWeights uint16 `json:"max_allowed_weights"`
	MaxAllowedUids    uint16 `json:"max_allowed_uids"`
	MaxWeightAge      uint64 `json:"max_weight_age"`
	MinStake          uint64 `json:"min_stake"`
	// percent
	TrustRatio uint16 `json:"trust_ratio"`
	// percent of the emission paid as incentive, the rest is dividends
	IncentiveRatio uint16 `json:"incentive_ratio"`
	// out of MaxBondsMovingAverage
	BondsMA uint64 `json:"bonds_ma"`
	// out of ProportionScale
	Kappa uint16 `json:"kappa"`
	// 0 means every module may hold a validator permit
	MaxAllowedValidators           uint16 `json:"max_allowed_validators"`
	TargetRegistrationsInterval    uint16 `json:"target_registrations_interval"`
	TargetRegistrationsPerInterval uint16 `json:"target_registrations_per_interval"`
	MaxRegistrationsPerInterval    uint16 `json:"max_registrations_per_interval"`
	AdjustmentAlpha                uint64 `json:"adjustment_alpha"`
	// 0 means unlimited
	MaximumSetWeightCallsPerEpoch uint16                  `json:"maximum_set_weight_calls_per_epoch"`
	Governance                    GovernanceConfiguration `json:"governance"`
}

// DefaultSubnetParams returns the parameters a subnet starts with when only a
// name and founder are supplied.
func DefaultSubnetParams(name string, founder sdk.AccAddress) SubnetParams {
	return SubnetParams{
		Name:                           name,
		Founder:                        founder.String(),
		FounderShare:                   8,
		Tempo:                          100,
		ImmunityPeriod:                 40,
		MinAllowedWeights:              1,
		MaxAllowedWeights:              420,
		MaxAllowedUids:                 820,
		MaxWeightAge:                   3_600,
		MinStake:                       0,
		TrustRatio:                     0,
		IncentiveRatio:                 50,
		BondsMA:                        900_000,
		Kappa:                          32_767,
		MaxAllowedValidators:           0,
		TargetRegistrationsInterval:    200,
		TargetRegistrationsPerInterval: 100,
		MaxRegistrationsPerInterval:    42,
		AdjustmentAlpha:                math.MaxUint64 / 2,
		MaximumSetWeightCallsPerEpoch:  0,
		Governance:                     DefaultGovernanceConfiguration(),
	}
}

// FounderAddress decodes the bech32 founder.
func (p SubnetParams) FounderAddress() (sdk.AccAddress, error) {
	return sdk.AccAddressFromBech32(p.Founder)
}

// ValidateBasic performs every check that does not need chain state.
func (p SubnetParams) ValidateBasic(global Params) error {
	if p.MinAllowedWeights < 1 {
		return errorsmod.Wrapf(ErrInvalidMinAllowedWeights, "got %d, need at least 1", p.MinAllowedWeights)
	}
	if p.MaxAllowedWeights < p.MinAllowedWeights {
		return errorsmod.Wrapf(ErrInvalidMaxAllowedWeights, "%d is below min allowed weights %d", p.MaxAllowedWeights, p.MinAllowedWeights)
	}
	if p.MaxAllowedWeights > global.MaxAllowedWeights {
		return errorsmod.Wrapf(ErrInvalidMaxAllowedWeights, "%d exceeds global limit %d", p.MaxAllowedWeights, global.MaxAllowedWeights)
	}
	if p.Tempo < 25 {
		return errorsmod.Wrapf(ErrInvalidTempo, "got %d, need at least 25", p.Tempo)
	}
	if p.MaxWeightAge <= uint64(p.Tempo) {
		return errorsmod.Wrapf(ErrInvalidMaxWeightAge, "%d must exceed tempo %d", p.MaxWeightAge, p.Tempo)
	}
	if p.TrustRatio > 100 {
		return errorsmod.Wrapf(ErrInvalidTrustRatio, "got %d", p.TrustRatio)
	}
	if p.MaxAllowedUids == 0 {
		return errorsmod.Wrap(ErrInvalidMaxAllowedUids, "must be positive")
	}
	if p.FounderShare < global.FloorFounderShare || p.FounderShare > 100 {
		return errorsmod.Wrapf(ErrInvalidFounderShare, "%d outside [%d, 100]", p.FounderShare, global.FloorFounderShare)
	}
	if p.IncentiveRatio > 100 {
		return errorsmod.Wrapf(ErrInvalidIncentiveRatio, "got %d", p.IncentiveRatio)
	}
	if p.TargetRegistrationsInterval < 10 {
		return errorsmod.Wrapf(ErrInvalidTargetRegistrationsInterval, "got %d, need at least 10", p.TargetRegistrationsInterval)
	}
	if p.TargetRegistrationsPerInterval < 1 {
		return errorsmod.Wrap(ErrInvalidTargetRegistrationsPerInterval, "must be positive")
	}
	if p.MaxRegistrationsPerInterval < 1 {
		return errorsmod.Wrap(ErrInvalidMaxRegistrationsPerInterval, "must be positive")
	}
	if p.AdjustmentAlpha == 0 {
		return errorsmod.Wrap(ErrInvalidAdjustmentAlpha, "must be positive")
	}
	if p.BondsMA > MaxBondsMovingAverage {
		return errorsmod.Wrapf(ErrInvalidBondsMovingAverage, "%d exceeds %d", p.BondsMA, MaxBondsMovingAverage)
	}
	if p.Kappa == 0 {
		return errorsmod.Wrap(ErrInvalidKappa, "must be positive")
	}
	if _, err := p.FounderAddress(); err != nil {
		return errorsmod.Wrapf(ErrInvalidFounder, "%s", err)
	}
	if err := p.Governance.Validate(); err != nil {
		return err
	}
	return ValidateSubnetName(p.Name, global)
}

// ValidateSubnetName checks length bounds and encoding. Uniqueness is a keeper
// concern.
func ValidateSubnetName(name string, global Params) error {
	if len(name) == 0 {
		return errorsmod.Wrap(ErrInvalidSubnetName, "empty name")
	}
	if len(name) < int(global.MinNameLength) {
		return errorsmod.Wrapf(ErrSubnetNameTooShort, "%q is shorter than %d", name, global.MinNameLength)
	}
	if len(name) > int(global.MaxNameLength) {
		return errorsmod.Wrapf(ErrSubnetNameTooLong, "%q is longer than %d", name, global.MaxNameLength)
	}
	if !utf8.ValidString(name) {
		return errorsmod.Wrap(ErrInvalidSubnetName, "name is not valid utf-8")
	}
	return nil
}

// ModuleParams are the owner-editable fields of a registered module.
type ModuleParams struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	// percent
	DelegationFee uint16 `json:"delegation_fee"`
}

const MaxModuleAddressLength = 128

// DefaultDelegationFee is the fee a freshly registered module charges delegators.
const DefaultDelegationFee uint16 = 20

// ValidateBasic checks name, address and delegation fee bounds.
func (m ModuleParams) ValidateBasic(global Params) error {
	if len(m.Name) == 0 || !utf8.ValidString(m.Name) {
		return errorsmod.Wrap(ErrInvalidModuleName, "name must be non-empty utf-8")
	}
	if len(m.Name) > int(global.MaxNameLength) {
		return errorsmod.Wrapf(ErrModuleNameTooLong, "%q is longer than %d", m.Name, global.MaxNameLength)
	}
	if len(m.Address) == 0 || !utf8.ValidString(m.Address) {
		return errorsmod.Wrap(ErrInvalidModuleAddress, "address must be non-empty utf-8")
	}
	if len(m.Address) > MaxModuleAddressLength {
		return errorsmod.Wrapf(ErrModuleAddressTooLong, "%q is longer than %d", m.Address, MaxModuleAddressLength)
	}
	if m.DelegationFee < global.FloorDelegationFee || m.DelegationFee > 100 {
		return errorsmod.Wrapf(ErrInvalidMinDelegationFee, "%d outside [%d, 100]", m.DelegationFee, global.FloorDelegationFee)
	}
	return nil
}

func (m ModuleParams) String() string {
	return fmt.Sprintf("%s@%s fee=%d%%", m.Name, m.Address, m.DelegationFee)
}
