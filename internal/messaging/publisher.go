package messaging

import (
	"context"

	"github.com/stampbook/sb-registry/internal/domain"
)

// Publisher defines the interface for publishing registry events to the message broker.
// Publishing is best-effort: the durable record is the event journal row written in
// the same transaction as the operation, so a lost publish never loses the event.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a registry event to the message broker
	PublishEvent(ctx context.Context, event *domain.RegistryEvent) error
	// Close closes the connection
	Close()
}
