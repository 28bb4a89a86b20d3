package testutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
)

const (
	// TestDenom matches the default Params.Denom.
	TestDenom = "ucomai"
	// Nano is one whole token in base units.
	Nano uint64 = 1_000_000_000
)

// ToNano converts whole tokens to base units.
func ToNano(tokens uint64) uint64 {
	return tokens * Nano
}

// AccAddr returns a deterministic account address for a seed.
func AccAddr(seed int) sdk.AccAddress {
	// Deterministic private key from seed
	h := sha256.Sum256([]byte(fmt.Sprintf("addr-seed-%d", seed)))
	priv := secp256k1.PrivKey{Key: h[:]}
	return sdk.AccAddress(priv.PubKey().Address())
}

// Bech32Addr returns a valid bech32-encoded account address with the configured HRP.
func Bech32Addr(seed int) string {
	hrp := sdk.GetConfig().GetBech32AccountAddrPrefix()
	bech, err := sdk.Bech32ifyAddressBytes(hrp, AccAddr(seed))
	if err != nil {
		panic(err)
	}
	return bech
}

// RandomAccAddr derives an address from a fresh UUID, for tests that only need
// a key nobody else uses.
func RandomAccAddr() sdk.AccAddress {
	id := uuid.New()
	h := sha256.Sum256(id[:])
	return sdk.AccAddress(h[:20])
}
