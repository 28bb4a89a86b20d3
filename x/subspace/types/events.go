package types

// Event types
const (
	EventTypeNetworkAdded        = "network_added"
	EventTypeNetworkRemoved      = "network_removed"
	EventTypeSubnetParamsUpdated = "subnet_params_updated"
	EventTypeModuleRegistered    = "module_registered"
	EventTypeModuleDeregistered  = "module_deregistered"
	EventTypeModuleUpdated       = "module_updated"
	EventTypeStakeAdded          = "stake_added"
	EventTypeStakeRemoved        = "stake_removed"
	EventTypeWeightsSet          = "weights_set"
	EventTypeEpochFinished       = "epoch_finished"
	EventTypeEpochFailed         = "epoch_failed"
	EventTypeBurnAdjusted        = "burn_adjusted"
	EventTypeTreasuryPaid        = "treasury_paid"
)

// Event attribute keys
const (
	AttributeKeyNetuid    = "netuid"
	AttributeKeyName      = "name"
	AttributeKeyUid       = "uid"
	AttributeKeyModule    = "module"
	AttributeKeyDelegator = "delegator"
	AttributeKeyAmount    = "amount"
	AttributeKeyEmission  = "emission"
	AttributeKeyBurn      = "burn"
	AttributeKeyHeight    = "height"
	AttributeKeyError     = "error"
)
