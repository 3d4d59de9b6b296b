package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address represents an account address in EIP-55 checksum form
type Address string

// NormalizeAddress validates a hex account address and returns its checksum form
func NormalizeAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return "", fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	return Address(addr.Hex()), nil
}

// String returns the string representation of the Address
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is unset
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

// Hash represents a 32-byte digest as 0x-prefixed lowercase hex.
// The zero value is the cleared-commitment sentinel.
type Hash string

// EmptyHash is the sentinel stored once a commitment has been redeemed
const EmptyHash Hash = ""

// NormalizeHash validates a 0x-prefixed 32-byte hex digest and lowercases it
func NormalizeHash(s string) (Hash, error) {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	h := strings.ToLower(s)
	for _, c := range h[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
		}
	}
	if h == "0x"+strings.Repeat("0", 64) {
		return "", fmt.Errorf("%w: zero hash", ErrInvalidHash)
	}
	return Hash(h), nil
}

// String returns the string representation of the Hash
func (h Hash) String() string {
	return string(h)
}

// IsEmpty reports whether the hash is the cleared sentinel
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// ItemID identifies a single stamp. Ids are allocated 0-based and monotonically;
// they are never reused, not even after a burn.
type ItemID uint64

// TypeID identifies a registered stamp type. Ids are allocated sequentially
// starting at 0; id 0 is the passport type.
type TypeID uint64

// StampType describes an issuable class of stamps. Re-registering an id
// replaces the whole record; the primary type is the exception, keeping
// all-false flags and the sentinel description no matter what is submitted.
type StampType struct {
	TypeID           TypeID `json:"type_id"`
	Transferable     bool   `json:"transferable"`
	BurnableByOwner  bool   `json:"burnable_by_owner"`
	BurnableByIssuer bool   `json:"burnable_by_issuer"`
	BaseURI          string `json:"base_uri"`
	Description      string `json:"description"`
}

// ClaimState represents where a stamp sits in its lifecycle
type ClaimState string

const (
	// ClaimStateCommitted means the stamp is allocated but not yet redeemed
	ClaimStateCommitted ClaimState = "committed"
	// ClaimStateClaimed means a committed stamp has been redeemed and minted
	ClaimStateClaimed ClaimState = "claimed"
	// ClaimStateMinted means the stamp was minted directly at onboarding (passport)
	ClaimStateMinted ClaimState = "minted"
	// ClaimStateBurned means the stamp has been destroyed
	ClaimStateBurned ClaimState = "burned"
)

// Item is the engine's record of a single stamp
type Item struct {
	ID         ItemID  `json:"id"`
	TypeID     TypeID  `json:"type_id"`
	Issuer     Address `json:"issuer,omitempty"`     // empty for passports
	Commitment Hash    `json:"commitment,omitempty"` // empty unless a claim is pending
	Burned     bool    `json:"burned"`
}

// State derives the lifecycle state from the record
func (i *Item) State() ClaimState {
	switch {
	case i.Burned:
		return ClaimStateBurned
	case !i.Commitment.IsEmpty():
		return ClaimStateCommitted
	case i.Issuer.IsZero():
		return ClaimStateMinted
	default:
		return ClaimStateClaimed
	}
}

// Pending reports whether the stamp still awaits redemption
func (i *Item) Pending() bool {
	return !i.Commitment.IsEmpty()
}

// MetadataURI builds the canonical metadata location for an item of a type with
// the given base URI. An empty base URI yields an empty result: metadata is
// optional per type.
func MetadataURI(baseURI string, id ItemID) string {
	if baseURI == "" {
		return ""
	}
	return baseURI + strconv.FormatUint(uint64(id), 10) + ".json"
}
