package schema

import (
	"time"
)

// Item represents the items table - one row per allocated stamp id. Rows are
// never deleted: a burned stamp keeps its row with Burned set, so the table
// doubles as the issuance history and the id counter source (row count equals
// the total ever issued).
type Item struct {
	// ID is the stamp id allocated by the engine (0-based, monotonic)
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// TypeID is the stamp type; 0 is the passport type
	TypeID uint64 `gorm:"column:type_id;not null;index"`
	// Issuer is the committer of a claimed stamp; empty for passports
	Issuer string `gorm:"column:issuer;type:text"`
	// Owner is the current holder; empty while a claim is pending and after a burn
	Owner string `gorm:"column:owner;type:text;index"`
	// CommitmentHash is the pending claim hash; cleared to empty on redemption
	CommitmentHash string `gorm:"column:commitment_hash;type:text"`
	// Burned indicates the stamp has been destroyed in the ledger
	Burned bool `gorm:"column:burned;not null;default:false"`
	// CreatedAt is the timestamp when this row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Item model
func (Item) TableName() string {
	return "items"
}
