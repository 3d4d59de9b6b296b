package domain

const (
	// Registry identity constants, fixed for the lifetime of a deployment
	RegistryName   = "Stampbook Registry"
	RegistrySymbol = "SBR"
	SchemaVersion  = 1

	// PrimaryTypeID is the stamp type minted at onboarding (the passport type)
	PrimaryTypeID TypeID = 0

	// PrimaryTypeDescription is the fixed description of the primary type.
	// Registering type 0 forces it, along with all-false flags; only the
	// base URI is taken from the caller.
	PrimaryTypeDescription = "primary type"

	// ZeroAddress is the EVM zero address, rejected wherever an account is required
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)
