package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// draftRow maps the wizard_drafts table created by the SQL migrations.
type draftRow struct {
	Key       string `gorm:"primaryKey;column:key"`
	Wizard    string `gorm:"column:wizard"`
	UserID    string `gorm:"column:user_id"`
	EntityID  string `gorm:"column:entity_id"`
	Payload   []byte `gorm:"column:payload;type:jsonb"`
	UpdatedAt time.Time
}

func (draftRow) TableName() string {
	return "wizard_drafts"
}

// PostgresStore keeps drafts in Postgres so they survive restarts and are
// shared between server instances.
type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database: %w", err)
	}
	return NewPostgresStore(db), nil
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, key Key) (*Draft, error) {
	var row draftRow
	err := s.db.WithContext(ctx).Where("key = ?", key.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return decodePayload(key, row.Payload, row.UpdatedAt)
}

func (s *PostgresStore) Save(ctx context.Context, key Key, fields map[string]json.RawMessage) error {
	if err := validFields(fields); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := map[string]json.RawMessage{}

		var row draftRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("key = ?", key.String()).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("failed to load draft: %w", err)
		default:
			if draft, err := decodePayload(key, row.Payload, row.UpdatedAt); err == nil {
				existing = draft.Fields
			}
		}

		payload, err := json.Marshal(mergeFields(existing, fields))
		if err != nil {
			return fmt.Errorf("failed to encode draft: %w", err)
		}

		row = draftRow{
			Key:       key.String(),
			Wizard:    key.Wizard,
			UserID:    key.UserID,
			EntityID:  key.EntityID,
			Payload:   payload,
			UpdatedAt: time.Now().UTC(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Clear(ctx context.Context, key Key) error {
	err := s.db.WithContext(ctx).Where("key = ?", key.String()).Delete(&draftRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
