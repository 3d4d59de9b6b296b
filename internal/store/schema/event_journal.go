package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EventJournal represents the event_journal table - the durable record of
// every notification the engine emits. Rows are written in the same
// transaction as the operation that caused them, so the journal is
// exactly-once even when the broker publish is lost or retried.
type EventJournal struct {
	// Cursor is an auto-incrementing sequence number for pagination and ordering
	Cursor uint64 `gorm:"column:cursor;primaryKey;autoIncrement"`
	// EventID is the ULID assigned when the event was emitted (time-sortable, unique)
	EventID string `gorm:"column:event_id;not null;uniqueIndex;type:varchar(26)"`
	// EventType is the registry event type (e.g. "claim.committed")
	EventType string `gorm:"column:event_type;not null;type:text;index"`
	// Payload is the full event envelope as JSON
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// EmittedAt is the engine timestamp carried inside the event
	EmittedAt time.Time `gorm:"column:emitted_at;not null;type:timestamptz"`
	// CreatedAt is the timestamp when the row was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the EventJournal model
func (EventJournal) TableName() string {
	return "event_journal"
}
