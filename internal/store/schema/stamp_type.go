package schema

import (
	"time"
)

// StampType represents the stamp_types table - registered stamp type records.
// Re-registering a type id overwrites the row in place; the primary type's
// flags and description never change, only its base_uri.
type StampType struct {
	// TypeID is the sequential type id assigned by the engine; 0 is the passport type
	TypeID uint64 `gorm:"column:type_id;primaryKey;autoIncrement:false"`
	// Transferable permits holder-to-holder transfers for stamps of this type
	Transferable bool `gorm:"column:transferable;not null;default:false"`
	// BurnableByOwner permits the current owner to burn stamps of this type
	BurnableByOwner bool `gorm:"column:burnable_by_owner;not null;default:false"`
	// BurnableByIssuer permits the recorded issuer to burn stamps of this type
	BurnableByIssuer bool `gorm:"column:burnable_by_issuer;not null;default:false"`
	// BaseURI is the metadata location prefix; empty disables metadata resolution
	BaseURI string `gorm:"column:base_uri;type:text"`
	// Description is a human-readable label for the type
	Description string `gorm:"column:description;type:text"`
	// CreatedAt is the timestamp when this type was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the StampType model
func (StampType) TableName() string {
	return "stamp_types"
}
