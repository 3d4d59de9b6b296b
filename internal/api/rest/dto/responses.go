package dto

import (
	"encoding/json"
	"time"

	"github.com/stampbook/sb-registry/internal/domain"
)

// ApprovalResponse reports the approval flag of an address
type ApprovalResponse struct {
	Address  domain.Address `json:"address"`
	Approved bool           `json:"approved"`
}

// ListTypesResponse lists every registered stamp type
type ListTypesResponse struct {
	Types []domain.StampType `json:"types"`
}

// OnboardResponse returns the freshly minted passport id
type OnboardResponse struct {
	ItemID domain.ItemID `json:"item_id"`
}

// CommitClaimsResponse returns the allocated item ids, in request order
type CommitClaimsResponse struct {
	ItemIDs []domain.ItemID `json:"item_ids"`
}

// MetadataResponse returns the resolved metadata URI of an item
type MetadataResponse struct {
	ItemID      domain.ItemID `json:"item_id"`
	MetadataURI string        `json:"metadata_uri"`
}

// HashBindingResponse reports whether a claim hash is bound and to whom
type HashBindingResponse struct {
	Hash  domain.Hash    `json:"hash"`
	Bound bool           `json:"bound"`
	Owner domain.Address `json:"owner,omitempty"`
}

// DeriveHashResponse returns the canonical claim hash of a payload
type DeriveHashResponse struct {
	Payload string      `json:"payload"`
	Hash    domain.Hash `json:"hash"`
}

// EventResponse is a single journal row
type EventResponse struct {
	Cursor    uint64          `json:"cursor"`
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// ListEventsResponse is one page of the event journal
type ListEventsResponse struct {
	Events     []EventResponse `json:"events"`
	Total      uint64          `json:"total"`
	NextCursor *uint64         `json:"next_cursor,omitempty"`
}

// WebhookClientResponse is the public view of a webhook client. The secret is
// never included; it is returned once, at creation, via CreateWebhookClientResponse.
type WebhookClientResponse struct {
	ClientID         string    `json:"client_id"`
	Description      string    `json:"description,omitempty"`
	WebhookURL       string    `json:"webhook_url"`
	EventFilters     []string  `json:"event_filters"`
	IsActive         bool      `json:"is_active"`
	RetryMaxAttempts int       `json:"retry_max_attempts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateWebhookClientResponse represents the response for creating a webhook client
type CreateWebhookClientResponse struct {
	ClientID         string    `json:"client_id"`
	Description      string    `json:"description,omitempty"`
	WebhookURL       string    `json:"webhook_url"`
	WebhookSecret    string    `json:"webhook_secret"`
	EventFilters     []string  `json:"event_filters"`
	IsActive         bool      `json:"is_active"`
	RetryMaxAttempts int       `json:"retry_max_attempts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListWebhookClientsResponse lists every registered webhook client
type ListWebhookClientsResponse struct {
	Clients []WebhookClientResponse `json:"clients"`
}
