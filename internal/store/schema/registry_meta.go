package schema

import "time"

// Meta keys persisted in the registry_meta table
const (
	// MetaKeyInitialized is "true" once bootstrap has run
	MetaKeyInitialized = "initialized"
	// MetaKeyAdministrator holds the administrator address fixed at bootstrap
	MetaKeyAdministrator = "administrator"
)

// RegistryMeta stores registry-level key-value state (bootstrap flag, administrator)
type RegistryMeta struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RegistryMeta) TableName() string {
	return "registry_meta"
}
