package calendar

import (
	"context"
	"errors"
	"fmt"

	"content-planner/core/reconcile"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidEntry wraps validation failures of submitted entries.
var ErrInvalidEntry = errors.New("invalid calendar entry")

type entryRules struct {
	ID        string   `validate:"required,max=64"`
	Date      string   `validate:"required,datetime=2006-01-02"`
	Platforms []string `validate:"required,min=1,unique,dive,platform"`
	URL       string   `validate:"omitempty,url"`
}

// Service exposes calendar entries to the HTTP and CLI layers.
type Service struct {
	store    *Store
	logger   *zap.Logger
	validate *validator.Validate
}

// NewService creates a new calendar service.
func NewService(store *Store, logger *zap.Logger) *Service {
	v := validator.New()
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return reconcile.IsCanonicalPlatform(fl.Field().String())
	})
	return &Service{store: store, logger: logger, validate: v}
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// List returns every entry.
func (s *Service) List(ctx context.Context) ([]*reconcile.Entry, error) {
	return s.store.List(ctx)
}

// Get returns one entry by ID.
func (s *Service) Get(ctx context.Context, id string) (*reconcile.Entry, error) {
	return s.store.Get(ctx, id)
}

// Replace validates entries and upserts them. Nothing is written if any entry is invalid.
func (s *Service) Replace(ctx context.Context, entries []*reconcile.Entry) error {
	if err := s.Validate(entries); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, entries); err != nil {
		return err
	}
	s.logger.Info("Calendar entries saved", zap.Int("count", len(entries)))
	return nil
}

// Validate checks required fields, ISO dates, canonical platforms and duplicate IDs.
func (s *Service) Validate(entries []*reconcile.Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e == nil {
			return fmt.Errorf("%w: entry %d is null", ErrInvalidEntry, i)
		}
		rules := entryRules{ID: e.ID, Date: e.Date, Platforms: e.Platforms, URL: e.URL}
		if err := s.validate.Struct(rules); err != nil {
			return fmt.Errorf("%w: entry %d (%s): %v", ErrInvalidEntry, i, e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidEntry, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
