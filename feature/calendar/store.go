package calendar

import (
	"context"
	"errors"
	"fmt"

	"content-planner/core/reconcile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEntryNotFound is returned when no entry has the requested ID.
var ErrEntryNotFound = errors.New("calendar entry not found")

// Store persists calendar entries.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store backed by db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the calendar_entries table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&EntryRecord{}); err != nil {
		return fmt.Errorf("failed to migrate calendar entries: %w", err)
	}
	return nil
}

// List returns every entry ordered by date, then ID.
func (s *Store) List(ctx context.Context) ([]*reconcile.Entry, error) {
	var records []EntryRecord
	if err := s.db.WithContext(ctx).Order("date, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list calendar entries: %w", err)
	}

	entries := make([]*reconcile.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.ToEntry())
	}
	return entries, nil
}

// Get returns a single entry or ErrEntryNotFound.
func (s *Store) Get(ctx context.Context, id string) (*reconcile.Entry, error) {
	var record EntryRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar entry %s: %w", id, err)
	}
	return record.ToEntry(), nil
}

// Upsert inserts entries or overwrites the stored ones with the same ID, in one transaction.
func (s *Store) Upsert(ctx context.Context, entries []*reconcile.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	records := make([]EntryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, NewEntryRecord(e))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).CreateInBatches(records, 100).Error
		if err != nil {
			return fmt.Errorf("failed to upsert calendar entries: %w", err)
		}
		return nil
	})
}
