package schema

import "time"

// ApprovedCaller represents the approved_callers table - the authorization
// gate allow-list. Rows are upserted; a revoked caller keeps its row with
// Approved set to false.
type ApprovedCaller struct {
	// Address is the caller address (EIP-55 checksum form)
	Address string `gorm:"column:address;primaryKey;type:text"`
	// Approved indicates whether the address may perform issuer operations
	Approved bool `gorm:"column:approved;not null;default:false"`
	// CreatedAt is the timestamp when this row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the approval last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ApprovedCaller model
func (ApprovedCaller) TableName() string {
	return "approved_callers"
}
