package integrity

import (
	"context"
	"errors"

	"content-planner/core/storage"
	"content-planner/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageUnavailable is returned by structure checks when no storage client is configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	folders []string
	logger  *zap.Logger
	db      *gorm.DB
}

// NewService creates a new integrity service. folders are the bucket folders imports write to.
func NewService(client storage.Client, bucket string, folders []string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		folders: folders,
		logger:  logger,
		db:      db,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageUnavailable
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrStorageUnavailable
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckServer compares the database schema with the application's models.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db)
}
