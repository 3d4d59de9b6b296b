package schema

import "time"

// PrimaryHolding represents the primary_holdings table - the per-address
// ordered, append-only list of pinned stamp ids. Entries are kept even after
// the referenced stamp is burned: the list records history, not live ownership.
type PrimaryHolding struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the holder the entry is pinned to
	Address string `gorm:"column:address;not null;type:text;uniqueIndex:idx_primary_holdings_address_position,priority:1"`
	// Position is the zero-based append order within the address's list
	Position int `gorm:"column:position;not null;uniqueIndex:idx_primary_holdings_address_position,priority:2"`
	// ItemID is the pinned stamp id
	ItemID uint64 `gorm:"column:item_id;not null"`
	// CreatedAt is the timestamp when the entry was appended
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PrimaryHolding model
func (PrimaryHolding) TableName() string {
	return "primary_holdings"
}
