package store

import (
	"context"

	"gorm.io/datatypes"

	"github.com/stampbook/sb-registry/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks

// Snapshot is the complete registry state as read at boot. The engine rebuilds
// its in-memory maps from it and seeds the ledger with every live item.
type Snapshot struct {
	// Initialized reports whether bootstrap has already run
	Initialized bool
	// Administrator is the address fixed at bootstrap, empty before
	Administrator string
	// ApprovedCallers holds every allow-list row, revoked entries included
	ApprovedCallers []schema.ApprovedCaller
	// Types holds every registered type record ordered by type id
	Types []schema.StampType
	// Items holds every allocated item ordered by id, burned rows included
	Items []schema.Item
	// Bindings holds every hash binding
	Bindings []schema.HashBinding
	// Holdings holds every primary-holding entry ordered by address then position
	Holdings []schema.PrimaryHolding
}

// SaveOnboardInput carries the rows written by a successful onboard.
type SaveOnboardInput struct {
	Item    schema.Item
	Binding schema.HashBinding
	Holding schema.PrimaryHolding
}

// SaveClaimCommitsInput carries the rows written by a commit batch. Bindings
// holds entries only for hashes that were unbound at commit time; Events holds
// one journal row per committed item, in input order.
type SaveClaimCommitsInput struct {
	Items    []schema.Item
	Bindings []schema.HashBinding
	Events   []*schema.EventJournal
}

// SaveRedeemInput carries the row changes of a successful redemption. Holding
// is non-nil only when the item's type pins it to the redeemer's primary set.
type SaveRedeemInput struct {
	ItemID  uint64
	Owner   string
	Holding *schema.PrimaryHolding
}

// EventQueryFilter selects a page of the event journal.
type EventQueryFilter struct {
	// AfterCursor restricts the page to events with a journal cursor strictly
	// greater than this value
	AfterCursor *uint64
	// EventType filters by event type when non-empty
	EventType string
	// Limit caps the page size; zero means the default page size
	Limit int
}

// CreateWebhookClientInput contains the data needed to register a webhook client
type CreateWebhookClientInput struct {
	ClientID         string
	Description      string
	WebhookURL       string
	WebhookSecret    string
	EventFilters     datatypes.JSON
	IsActive         bool
	RetryMaxAttempts int
}

// Store defines the interface for database operations
type Store interface {
	// LoadState reads the full registry snapshot in one consistent view
	LoadState(ctx context.Context) (*Snapshot, error)

	// SaveBootstrap persists the bootstrap effect: the meta rows, the
	// administrator's self-approval, and the journal row, in one transaction
	SaveBootstrap(ctx context.Context, administrator string, event *schema.EventJournal) error
	// SaveCallerApproval upserts an allow-list row and journals the change
	SaveCallerApproval(ctx context.Context, address string, approved bool, event *schema.EventJournal) error
	// SaveTypeRecord upserts a type record; re-registering an id overwrites the row
	SaveTypeRecord(ctx context.Context, record *schema.StampType) error
	// SaveBaseURI updates the base URI of a registered type
	SaveBaseURI(ctx context.Context, typeID uint64, baseURI string) error
	// SaveOnboard persists a passport mint: item, hash binding, holding entry
	SaveOnboard(ctx context.Context, input SaveOnboardInput) error
	// SaveClaimCommits persists a commit batch together with its journal rows
	SaveClaimCommits(ctx context.Context, input SaveClaimCommitsInput) error
	// SaveRedeem clears the item's commitment, sets its owner, and appends the
	// optional holding entry
	SaveRedeem(ctx context.Context, input SaveRedeemInput) error
	// SaveBurn marks an item burned and clears its owner
	SaveBurn(ctx context.Context, itemID uint64) error
	// SaveTransfer moves an item to a new owner
	SaveTransfer(ctx context.Context, itemID uint64, newOwner string) error

	// GetEvents returns a journal page plus the total number of matching rows
	GetEvents(ctx context.Context, filter EventQueryFilter) ([]*schema.EventJournal, uint64, error)

	// CreateWebhookClient registers a new webhook client
	CreateWebhookClient(ctx context.Context, input CreateWebhookClientInput) (*schema.WebhookClient, error)
	// GetWebhookClientByID retrieves a webhook client by client ID, nil when absent
	GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error)
	// ListWebhookClients returns every registered webhook client
	ListWebhookClients(ctx context.Context) ([]*schema.WebhookClient, error)
	// GetActiveWebhookClientsByEventType returns active clients whose event
	// filters match the given event type (or carry the "*" wildcard)
	GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error)
	// SetWebhookClientActive flips a webhook client's active flag
	SetWebhookClientActive(ctx context.Context, clientID string, active bool) error
	// CreateWebhookDelivery creates a new webhook delivery record
	CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error
	// UpdateWebhookDeliveryStatus updates the status and result of a webhook delivery
	UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error
}
