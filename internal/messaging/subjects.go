package messaging

import "github.com/stampbook/sb-registry/internal/domain"

const (
	// StreamName is the JetStream stream holding the registry event journal
	StreamName = "REGISTRY_EVENTS"

	// SubjectPrefix is the root of all registry event subjects
	SubjectPrefix = "registry.events"

	// SubjectWildcard matches every registry event subject
	SubjectWildcard = SubjectPrefix + ".>"
)

// SubjectFor constructs the NATS subject for an event type.
// Format: registry.events.{event_type}, e.g. registry.events.claim.committed
func SubjectFor(eventType domain.RegistryEventType) string {
	return SubjectPrefix + "." + string(eventType)
}
