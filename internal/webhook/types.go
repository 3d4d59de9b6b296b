package webhook

import "github.com/stampbook/sb-registry/internal/domain"

// EventTypeWildcard is a filter entry that matches every event type
const EventTypeWildcard = "*"

// SupportedEventTypes lists every event type a client may subscribe to
var SupportedEventTypes = []string{
	EventTypeWildcard,
	string(domain.EventAuthorizationChanged),
	string(domain.EventClaimCommitted),
}

// IsValidEventType reports whether a filter entry names a supported event type
func IsValidEventType(eventType string) bool {
	for _, supported := range SupportedEventTypes {
		if eventType == supported {
			return true
		}
	}
	return false
}

// Delivery header names. The timestamp header carries the Unix timestamp the
// signature was computed over.
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderEventID   = "X-Webhook-Event-ID"
	HeaderEventType = "X-Webhook-Event-Type"
	HeaderTimestamp = "X-Webhook-Timestamp"

	UserAgent = "SBR-Notifier/1.0"
)

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Error contains error details if delivery failed
	Error string
}
