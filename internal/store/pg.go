package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stampbook/sb-registry/internal/store/schema"
)

const (
	// defaultEventPageSize is the journal page size when the filter gives none
	defaultEventPageSize = 100
	// maxEventPageSize caps the journal page size
	maxEventPageSize = 1000
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// LoadState reads the whole registry state inside one transaction so the
// snapshot is consistent even while other connections keep writing.
func (s *pgStore) LoadState(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meta []schema.RegistryMeta
		if err := tx.Find(&meta).Error; err != nil {
			return fmt.Errorf("failed to load registry meta: %w", err)
		}
		for _, row := range meta {
			switch row.Key {
			case schema.MetaKeyInitialized:
				snapshot.Initialized = row.Value == "true"
			case schema.MetaKeyAdministrator:
				snapshot.Administrator = row.Value
			}
		}

		if err := tx.Order("address").Find(&snapshot.ApprovedCallers).Error; err != nil {
			return fmt.Errorf("failed to load approved callers: %w", err)
		}
		if err := tx.Order("type_id").Find(&snapshot.Types).Error; err != nil {
			return fmt.Errorf("failed to load stamp types: %w", err)
		}
		if err := tx.Order("id").Find(&snapshot.Items).Error; err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		if err := tx.Order("hash").Find(&snapshot.Bindings).Error; err != nil {
			return fmt.Errorf("failed to load hash bindings: %w", err)
		}
		if err := tx.Order("address, position").Find(&snapshot.Holdings).Error; err != nil {
			return fmt.Errorf("failed to load primary holdings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// SaveBootstrap persists the bootstrap effect in one transaction
func (s *pgStore) SaveBootstrap(ctx context.Context, administrator string, event *schema.EventJournal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta := []schema.RegistryMeta{
			{Key: schema.MetaKeyInitialized, Value: "true"},
			{Key: schema.MetaKeyAdministrator, Value: administrator},
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&meta).Error; err != nil {
			return fmt.Errorf("failed to upsert registry meta: %w", err)
		}

		approval := schema.ApprovedCaller{
			Address:  administrator,
			Approved: true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"approved", "updated_at"}),
		}).Create(&approval).Error; err != nil {
			return fmt.Errorf("failed to upsert approved caller: %w", err)
		}

		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create journal row: %w", err)
		}

		return nil
	})
}

// SaveCallerApproval upserts an allow-list row and journals the change
func (s *pgStore) SaveCallerApproval(ctx context.Context, address string, approved bool, event *schema.EventJournal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		approval := schema.ApprovedCaller{
			Address:  address,
			Approved: approved,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"approved", "updated_at"}),
		}).Create(&approval).Error; err != nil {
			return fmt.Errorf("failed to upsert approved caller: %w", err)
		}

		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create journal row: %w", err)
		}

		return nil
	})
}

// SaveTypeRecord upserts a type record; re-registering an id overwrites the row
func (s *pgStore) SaveTypeRecord(ctx context.Context, record *schema.StampType) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "type_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"transferable", "burnable_by_owner", "burnable_by_issuer",
			"base_uri", "description", "updated_at",
		}),
	}).Create(record).Error; err != nil {
		return fmt.Errorf("failed to upsert stamp type: %w", err)
	}
	return nil
}

// SaveBaseURI updates the base URI of a registered type
func (s *pgStore) SaveBaseURI(ctx context.Context, typeID uint64, baseURI string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.StampType{}).
		Where("type_id = ?", typeID).
		Updates(map[string]interface{}{
			"base_uri":   baseURI,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update base URI: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stamp type %d has no row", typeID)
	}
	return nil
}

// SaveOnboard persists a passport mint: the item row, the onboarding hash
// binding, and the first primary-holding entry, in one transaction
func (s *pgStore) SaveOnboard(ctx context.Context, input SaveOnboardInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&input.Item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		if err := tx.Create(&input.Binding).Error; err != nil {
			return fmt.Errorf("failed to create hash binding: %w", err)
		}
		if err := tx.Create(&input.Holding).Error; err != nil {
			return fmt.Errorf("failed to create primary holding: %w", err)
		}
		return nil
	})
}

// SaveClaimCommits persists a commit batch: the item rows, the fresh hash
// bindings, and one journal row per item, in one transaction
func (s *pgStore) SaveClaimCommits(ctx context.Context, input SaveClaimCommitsInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(input.Items) > 0 {
			if err := tx.Create(&input.Items).Error; err != nil {
				return fmt.Errorf("failed to create items: %w", err)
			}
		}
		if len(input.Bindings) > 0 {
			if err := tx.Create(&input.Bindings).Error; err != nil {
				return fmt.Errorf("failed to create hash bindings: %w", err)
			}
		}
		if len(input.Events) > 0 {
			if err := tx.Create(&input.Events).Error; err != nil {
				return fmt.Errorf("failed to create journal rows: %w", err)
			}
		}
		return nil
	})
}

// SaveRedeem clears the item's commitment, records its new owner, and appends
// the primary-holding entry when the type pins the item
func (s *pgStore) SaveRedeem(ctx context.Context, input SaveRedeemInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&schema.Item{}).
			Where("id = ?", input.ItemID).
			Updates(map[string]interface{}{
				"commitment_hash": "",
				"owner":           input.Owner,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("item %d has no row", input.ItemID)
		}

		if input.Holding != nil {
			if err := tx.Create(input.Holding).Error; err != nil {
				return fmt.Errorf("failed to create primary holding: %w", err)
			}
		}
		return nil
	})
}

// SaveBurn marks an item burned and clears its owner
func (s *pgStore) SaveBurn(ctx context.Context, itemID uint64) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"burned":     true,
			"owner":      "",
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark item burned: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %d has no row", itemID)
	}
	return nil
}

// SaveTransfer moves an item to a new owner
func (s *pgStore) SaveTransfer(ctx context.Context, itemID uint64, newOwner string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"owner":      newOwner,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item owner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %d has no row", itemID)
	}
	return nil
}

// GetEvents returns a journal page in cursor order plus the total match count
func (s *pgStore) GetEvents(ctx context.Context, filter EventQueryFilter) ([]*schema.EventJournal, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.EventJournal{})

	if filter.AfterCursor != nil {
		query = query.Where(`"cursor" > ?`, *filter.AfterCursor)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}

	var events []*schema.EventJournal
	if err := query.Order(`"cursor" ASC`).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get events: %w", err)
	}

	return events, uint64(total), nil
}

// GetActiveWebhookClientsByEventType returns active clients whose event
// filters contain the event type or the "*" wildcard
func (s *pgStore) GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error) {
	var clients []*schema.WebhookClient

	// JSONB containment: event_filters @> '["<type>"]' or '["*"]'
	err := s.db.WithContext(ctx).
		Where("is_active").
		Where("event_filters @> ?::jsonb OR event_filters @> ?::jsonb",
			fmt.Sprintf(`["%s"]`, eventType),
			`["*"]`).
		Find(&clients).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get webhook clients by event type: %w", err)
	}

	return clients, nil
}

// GetWebhookClientByID retrieves a webhook client by client ID
func (s *pgStore) GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error) {
	var client schema.WebhookClient
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook client: %w", err)
	}
	return &client, nil
}

// ListWebhookClients returns every registered webhook client
func (s *pgStore) ListWebhookClients(ctx context.Context) ([]*schema.WebhookClient, error) {
	var clients []*schema.WebhookClient
	err := s.db.WithContext(ctx).Order("created_at").Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook clients: %w", err)
	}
	return clients, nil
}

// CreateWebhookClient creates a new webhook client
func (s *pgStore) CreateWebhookClient(ctx context.Context, input CreateWebhookClientInput) (*schema.WebhookClient, error) {
	now := time.Now()
	client := &schema.WebhookClient{
		ClientID:         input.ClientID,
		Description:      input.Description,
		WebhookURL:       input.WebhookURL,
		WebhookSecret:    input.WebhookSecret,
		EventFilters:     input.EventFilters,
		IsActive:         input.IsActive,
		RetryMaxAttempts: input.RetryMaxAttempts,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.db.WithContext(ctx).Create(client).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return client, nil
}

// SetWebhookClientActive flips a webhook client's active flag
func (s *pgStore) SetWebhookClientActive(ctx context.Context, clientID string, active bool) error {
	result := s.db.WithContext(ctx).
		Model(&schema.WebhookClient{}).
		Where("client_id = ?", clientID).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update webhook client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook client %s has no row", clientID)
	}
	return nil
}

// CreateWebhookDelivery creates a new webhook delivery record
func (s *pgStore) CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error {
	err := s.db.WithContext(ctx).Create(delivery).Error
	if err != nil {
		return fmt.Errorf("failed to create webhook delivery: %w", err)
	}
	return nil
}

// UpdateWebhookDeliveryStatus updates the status and result of a webhook delivery
func (s *pgStore) UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"delivery_status": status,
		"attempts":        attempts,
		"response_body":   responseBody,
		"last_attempt_at": now,
		"updated_at":      now,
	}

	if responseStatus != nil {
		updates["response_status"] = *responseStatus
	}
	if errorMessage != "" {
		// Limit error message
		if len(errorMessage) > 1024 {
			errorMessage = errorMessage[:1024]
		}
		updates["error_message"] = errorMessage
	}

	err := s.db.WithContext(ctx).
		Model(&schema.WebhookDelivery{}).
		Where("id = ?", deliveryID).
		Updates(updates).Error

	if err != nil {
		return fmt.Errorf("failed to update webhook delivery status: %w", err)
	}

	return nil
}
