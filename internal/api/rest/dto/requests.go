package dto

import (
	"fmt"
	"net/url"

	"github.com/stampbook/sb-registry/internal/api/shared/constants"
	apierrors "github.com/stampbook/sb-registry/internal/api/shared/errors"
	"github.com/stampbook/sb-registry/internal/webhook"
)

// TransferAdministrationRequest names a successor administrator
type TransferAdministrationRequest struct {
	Successor string `json:"successor"`
}

// SetApprovalRequest flips the approval flag of an address
type SetApprovalRequest struct {
	Approved *bool `json:"approved"`
}

// Validate validates the request body
func (r *SetApprovalRequest) Validate() error {
	if r.Approved == nil {
		return apierrors.NewBadRequestError("approved is required")
	}
	return nil
}

// RegisterTypeRequest carries the record of a new stamp type
type RegisterTypeRequest struct {
	Transferable     bool   `json:"transferable"`
	BurnableByOwner  bool   `json:"burnable_by_owner"`
	BurnableByIssuer bool   `json:"burnable_by_issuer"`
	BaseURI          string `json:"base_uri,omitempty"`
	Description      string `json:"description,omitempty"`
}

// SetBaseURIRequest updates the base URI of a registered type
type SetBaseURIRequest struct {
	BaseURI string `json:"base_uri"`
}

// OnboardRequest mints a passport to a recipient and binds its claim hash
type OnboardRequest struct {
	Recipient string `json:"recipient"`
	Hash      string `json:"hash"`
}

// Validate validates the request body
func (r *OnboardRequest) Validate() error {
	if r.Recipient == "" {
		return apierrors.NewBadRequestError("recipient is required")
	}
	if r.Hash == "" {
		return apierrors.NewBadRequestError("hash is required")
	}
	return nil
}

// CommitClaimsRequest commits a batch of claim hashes against one type
type CommitClaimsRequest struct {
	TypeID *uint64  `json:"type_id"`
	Hashes []string `json:"hashes"`
}

// Validate validates the request body
func (r *CommitClaimsRequest) Validate() error {
	if r.TypeID == nil {
		return apierrors.NewBadRequestError("type_id is required")
	}
	if len(r.Hashes) == 0 {
		return apierrors.NewBadRequestError("hashes is required and must not be empty")
	}
	if len(r.Hashes) > constants.MAX_CLAIM_HASHES_PER_REQUEST {
		return apierrors.NewBadRequestError(fmt.Sprintf("maximum %d hashes allowed", constants.MAX_CLAIM_HASHES_PER_REQUEST))
	}
	return nil
}

// RedeemClaimRequest redeems a pending claim with its original hash
type RedeemClaimRequest struct {
	Hash string `json:"hash"`
}

// Validate validates the request body
func (r *RedeemClaimRequest) Validate() error {
	if r.Hash == "" {
		return apierrors.NewBadRequestError("hash is required")
	}
	return nil
}

// TransferItemRequest moves an item between addresses
type TransferItemRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate validates the request body
func (r *TransferItemRequest) Validate() error {
	if r.From == "" {
		return apierrors.NewBadRequestError("from is required")
	}
	if r.To == "" {
		return apierrors.NewBadRequestError("to is required")
	}
	return nil
}

// DeriveHashRequest derives the canonical claim hash of a payload
type DeriveHashRequest struct {
	Payload string `json:"payload"`
}

// Validate validates the request body
func (r *DeriveHashRequest) Validate() error {
	if r.Payload == "" {
		return apierrors.NewBadRequestError("payload is required")
	}
	return nil
}

// CreateWebhookClientRequest represents the request body for creating a webhook client
type CreateWebhookClientRequest struct {
	Description      string   `json:"description,omitempty"`
	WebhookURL       string   `json:"webhook_url"`
	EventFilters     []string `json:"event_filters"`
	RetryMaxAttempts *int     `json:"retry_max_attempts,omitempty"`
}

// Validate validates the request body. Non-HTTPS URLs are accepted only in
// debug mode.
func (r *CreateWebhookClientRequest) Validate(debug bool) error {
	if r.WebhookURL == "" {
		return apierrors.NewBadRequestError("webhook_url is required")
	}

	parsed, err := url.Parse(r.WebhookURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return apierrors.NewBadRequestError("webhook_url must be a valid URL")
	}
	if !debug && parsed.Scheme != "https" {
		return apierrors.NewBadRequestError("webhook_url must be a valid HTTPS URL")
	}

	if len(r.EventFilters) == 0 {
		return apierrors.NewBadRequestError("event_filters is required and must not be empty")
	}
	for _, eventType := range r.EventFilters {
		if !webhook.IsValidEventType(eventType) {
			return apierrors.NewBadRequestError(fmt.Sprintf("unsupported event type: %s. Supported types: %v", eventType, webhook.SupportedEventTypes))
		}
	}

	if r.RetryMaxAttempts != nil {
		if *r.RetryMaxAttempts < 1 || *r.RetryMaxAttempts > constants.MAX_RETRY_MAX_ATTEMPTS {
			return apierrors.NewBadRequestError(fmt.Sprintf("retry_max_attempts must be between 1 and %d", constants.MAX_RETRY_MAX_ATTEMPTS))
		}
	}

	return nil
}
