package domain

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// identityPrefix ties derived hashes to this registry's identity so the same
// payload yields unrelated hashes in other deployments
func identityPrefix() []byte {
	return []byte(RegistrySymbol + "|" + strconv.Itoa(SchemaVersion) + "|")
}

// DeriveClaimHash derives the claim hash for a payload: Keccak-256 over the
// registry identity prefix followed by the raw payload bytes. Issuers use this
// off-engine to produce the hashes they onboard or commit with.
func DeriveClaimHash(payload string) Hash {
	digest := crypto.Keccak256Hash(identityPrefix(), []byte(payload))
	return Hash(strings.ToLower(digest.Hex()))
}
