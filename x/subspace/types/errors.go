package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// x/subspace module sentinel errors
var (
	// subnets
	ErrNetworkDoesNotExist     = sdkerrors.Register(ModuleName, 1100, "network does not exist")
	ErrSubnetNameAlreadyExists = sdkerrors.Register(ModuleName, 1101, "subnet name already exists")
	ErrInvalidSubnetName       = sdkerrors.Register(ModuleName, 1102, "invalid subnet name")
	ErrSubnetNameTooShort      = sdkerrors.Register(ModuleName, 1103, "subnet name too short")
	ErrSubnetNameTooLong       = sdkerrors.Register(ModuleName, 1104, "subnet name too long")
	ErrTooManySubnets          = sdkerrors.Register(ModuleName, 1105, "maximum number of subnets reached")
	ErrNotFounder              = sdkerrors.Register(ModuleName, 1106, "caller is not the subnet founder")

	// subnet params
	ErrInvalidMinAllowedWeights              = sdkerrors.Register(ModuleName, 1120, "invalid min allowed weights")
	ErrInvalidMaxAllowedWeights              = sdkerrors.Register(ModuleName, 1121, "invalid max allowed weights")
	ErrInvalidTempo                          = sdkerrors.Register(ModuleName, 1122, "invalid tempo")
	ErrInvalidMaxWeightAge                   = sdkerrors.Register(ModuleName, 1123, "invalid max weight age")
	ErrInvalidTrustRatio                     = sdkerrors.Register(ModuleName, 1124, "invalid trust ratio")
	ErrInvalidMaxAllowedUids                 = sdkerrors.Register(ModuleName, 1125, "invalid max allowed uids")
	ErrInvalidFounderShare                   = sdkerrors.Register(ModuleName, 1126, "invalid founder share")
	ErrInvalidIncentiveRatio                 = sdkerrors.Register(ModuleName, 1127, "invalid incentive ratio")
	ErrInvalidTargetRegistrationsInterval    = sdkerrors.Register(ModuleName, 1128, "invalid target registrations interval")
	ErrInvalidTargetRegistrationsPerInterval = sdkerrors.Register(ModuleName, 1129, "invalid target registrations per interval")
	ErrInvalidMaxRegistrationsPerInterval    = sdkerrors.Register(ModuleName, 1130, "invalid max registrations per interval")
	ErrInvalidAdjustmentAlpha                = sdkerrors.Register(ModuleName, 1131, "invalid adjustment alpha")
	ErrInvalidBondsMovingAverage             = sdkerrors.Register(ModuleName, 1132, "invalid bonds moving average")
	ErrInvalidKappa                          = sdkerrors.Register(ModuleName, 1133, "invalid kappa")
	ErrInvalidGovernanceConfiguration        = sdkerrors.Register(ModuleName, 1134, "invalid governance configuration")
	ErrInvalidMaxAllowedValidators           = sdkerrors.Register(ModuleName, 1135, "invalid max allowed validators")
	ErrInvalidMaximumSetWeightCallsPerEpoch  = sdkerrors.Register(ModuleName, 1136, "invalid maximum set weight calls per epoch")
	ErrInvalidImmunityPeriod                 = sdkerrors.Register(ModuleName, 1137, "invalid immunity period")
	ErrInvalidFounder                        = sdkerrors.Register(ModuleName, 1138, "invalid founder address")

	// modules
	ErrNotRegistered                = sdkerrors.Register(ModuleName, 1200, "module is not registered")
	ErrAlreadyRegistered            = sdkerrors.Register(ModuleName, 1201, "key is already registered on this subnet")
	ErrNoSlotAvailable              = sdkerrors.Register(ModuleName, 1202, "no slot available on subnet")
	ErrModuleNameTooLong            = sdkerrors.Register(ModuleName, 1203, "module name too long")
	ErrInvalidModuleName            = sdkerrors.Register(ModuleName, 1204, "invalid module name")
	ErrModuleNameAlreadyExists      = sdkerrors.Register(ModuleName, 1205, "module name already exists in subnet")
	ErrModuleAddressTooLong         = sdkerrors.Register(ModuleName, 1206, "module address too long")
	ErrInvalidModuleAddress         = sdkerrors.Register(ModuleName, 1207, "invalid module address")
	ErrInvalidMinDelegationFee      = sdkerrors.Register(ModuleName, 1208, "delegation fee below floor")
	ErrTooManyRegistrations         = sdkerrors.Register(ModuleName, 1209, "too many registrations per block")
	ErrTooManyRegistrationsInterval = sdkerrors.Register(ModuleName, 1210, "too many registrations this interval")
	ErrNotEnoughStakeToRegister     = sdkerrors.Register(ModuleName, 1211, "not enough stake to register")
	ErrNotEnoughBalanceToRegister   = sdkerrors.Register(ModuleName, 1212, "not enough balance to register")

	// weights
	ErrWeightVecNotEqualSize            = sdkerrors.Register(ModuleName, 1300, "uids and weights have different lengths")
	ErrDuplicateUids                    = sdkerrors.Register(ModuleName, 1301, "duplicate uids in weights")
	ErrInvalidUid                       = sdkerrors.Register(ModuleName, 1302, "weight references an unknown uid")
	ErrNoSelfWeight                     = sdkerrors.Register(ModuleName, 1303, "module cannot weight itself")
	ErrInvalidUidsLength                = sdkerrors.Register(ModuleName, 1304, "too many weights")
	ErrNotSettingEnoughWeights          = sdkerrors.Register(ModuleName, 1305, "not setting enough weights")
	ErrNotEnoughStakeToSetWeights       = sdkerrors.Register(ModuleName, 1306, "not enough stake to set weights")
	ErrMaximumSetWeightsPerEpochReached = sdkerrors.Register(ModuleName, 1307, "maximum set weight calls per epoch reached")
	ErrEmptyWeights                     = sdkerrors.Register(ModuleName, 1308, "weights are all zero")

	// staking and balances
	ErrNotEnoughStakeToWithdraw   = sdkerrors.Register(ModuleName, 1400, "not enough stake to withdraw")
	ErrNotEnoughBalanceToStake    = sdkerrors.Register(ModuleName, 1401, "not enough balance to stake")
	ErrNotEnoughBalanceToTransfer = sdkerrors.Register(ModuleName, 1402, "not enough balance to transfer")
	ErrStakeNotAdded              = sdkerrors.Register(ModuleName, 1403, "stake was not added")
	ErrStakeNotRemoved            = sdkerrors.Register(ModuleName, 1404, "stake was not removed")
	ErrBalanceNotAdded            = sdkerrors.Register(ModuleName, 1405, "balance was not added")
	ErrBalanceNotRemoved          = sdkerrors.Register(ModuleName, 1406, "balance was not removed")
	ErrDifferentLengths           = sdkerrors.Register(ModuleName, 1407, "keys and amounts have different lengths")
	ErrEmptyKeys                  = sdkerrors.Register(ModuleName, 1408, "no keys provided")
	ErrTooManyKeys                = sdkerrors.Register(ModuleName, 1409, "too many keys")
	ErrInvalidShares              = sdkerrors.Register(ModuleName, 1410, "invalid profit shares")
	ErrInvalidNormalizedShares    = sdkerrors.Register(ModuleName, 1411, "normalized profit shares do not sum to 65535")
	ErrStakeLedgerMismatch        = sdkerrors.Register(ModuleName, 1412, "stake ledger aggregates disagree")
	ErrKeyRequired                = sdkerrors.Register(ModuleName, 1413, "delegator key is required for a partial unstake")

	// epoch
	ErrArithmetic              = sdkerrors.Register(ModuleName, 1500, "arithmetic error")
	ErrEmittedMoreThanExpected = sdkerrors.Register(ModuleName, 1501, "emitted more than the drained pending emission")
	ErrVectorLengthMismatch    = sdkerrors.Register(ModuleName, 1502, "consensus vector length does not match subnet size")
	ErrInvalidSigner           = sdkerrors.Register(ModuleName, 1503, "expected gov account as only signer for proposal message")
	ErrTreasuryNotSet          = sdkerrors.Register(ModuleName, 1504, "treasury address is not set")
	ErrEpochPanicked           = sdkerrors.Register(ModuleName, 1505, "epoch panicked")
	ErrUnknownConsensus        = sdkerrors.Register(ModuleName, 1506, "unknown subnet consensus type")
)
