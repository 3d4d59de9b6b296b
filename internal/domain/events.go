package domain

import "time"

// RegistryEventType represents the type of registry event
type RegistryEventType string

const (
	// EventAuthorizationChanged is emitted whenever the approved-caller set changes
	// (including idempotent re-sets and the bootstrap self-approval)
	EventAuthorizationChanged RegistryEventType = "authorization.changed"
	// EventClaimCommitted is emitted once per committed claim hash
	EventClaimCommitted RegistryEventType = "claim.committed"
)

// AuthorizationChange is the payload of an authorization.changed event
type AuthorizationChange struct {
	Address  Address `json:"address"`
	Approved bool    `json:"approved"`
	ActedBy  Address `json:"acted_by"`
}

// ClaimCommitment is the payload of a claim.committed event. The commitment
// hash is included: it is public knowledge once committed.
type ClaimCommitment struct {
	ItemID     ItemID  `json:"item_id"`
	TypeID     TypeID  `json:"type_id"`
	Issuer     Address `json:"issuer"`
	Commitment Hash    `json:"commitment"`
}

// RegistryEvent is the envelope journaled with each operation and published to NATS
type RegistryEvent struct {
	EventID       string            `json:"event_id"` // ULID, time-sortable
	EventType     RegistryEventType `json:"event_type"`
	Registry      string            `json:"registry"`
	SchemaVersion int               `json:"schema_version"`
	Timestamp     time.Time         `json:"timestamp"`

	Authorization *AuthorizationChange `json:"authorization,omitempty"`
	Claim         *ClaimCommitment     `json:"claim,omitempty"`
}

// NewAuthorizationChangedEvent builds an authorization.changed event envelope
func NewAuthorizationChangedEvent(eventID string, at time.Time, change AuthorizationChange) RegistryEvent {
	return RegistryEvent{
		EventID:       eventID,
		EventType:     EventAuthorizationChanged,
		Registry:      RegistrySymbol,
		SchemaVersion: SchemaVersion,
		Timestamp:     at.UTC(),
		Authorization: &change,
	}
}

// NewClaimCommittedEvent builds a claim.committed event envelope
func NewClaimCommittedEvent(eventID string, at time.Time, claim ClaimCommitment) RegistryEvent {
	return RegistryEvent{
		EventID:       eventID,
		EventType:     EventClaimCommitted,
		Registry:      RegistrySymbol,
		SchemaVersion: SchemaVersion,
		Timestamp:     at.UTC(),
		Claim:         &claim,
	}
}
