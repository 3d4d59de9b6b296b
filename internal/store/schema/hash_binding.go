package schema

import "time"

// HashBinding represents the hash_bindings table - the Hash Ownership Map.
// A hash is bound to exactly one address for the lifetime of the registry;
// rows are never updated or deleted.
type HashBinding struct {
	// Hash is the bound claim hash (0x-prefixed lowercase hex)
	Hash string `gorm:"column:hash;primaryKey;type:text"`
	// Address is the only address permitted to redeem commitments carrying this hash
	Address string `gorm:"column:address;not null;type:text;index"`
	// CreatedAt is the timestamp when the binding was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the HashBinding model
func (HashBinding) TableName() string {
	return "hash_bindings"
}
