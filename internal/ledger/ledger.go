package ledger

import (
	"context"
	"errors"

	"github.com/stampbook/sb-registry/internal/domain"
)

var (
	// ErrItemExists is returned when creating an item whose id is already taken
	ErrItemExists = errors.New("item already exists")

	// ErrUnknownItem is returned when an item was never created or has been destroyed
	ErrUnknownItem = errors.New("unknown item")

	// ErrNotOwner is returned when a transfer names a from address that does not own the item
	ErrNotOwner = errors.New("transfer from non-owner")
)

// Ledger is the asset ledger the engine delegates raw ownership bookkeeping to.
// The engine never tracks owners itself; it only decides whether an operation
// is allowed and then drives the ledger.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks
type Ledger interface {
	// Create registers a new item under owner
	Create(ctx context.Context, owner domain.Address, id domain.ItemID) error

	// Destroy removes an item
	Destroy(ctx context.Context, id domain.ItemID) error

	// Transfer moves an item; from must be the current owner
	Transfer(ctx context.Context, from, to domain.Address, id domain.ItemID) error

	// OwnerOf returns the current owner of an item
	OwnerOf(ctx context.Context, id domain.ItemID) (domain.Address, error)
}
