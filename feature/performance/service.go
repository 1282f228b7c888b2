package performance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"content-planner/core/reconcile"
	"content-planner/core/storage"
	"content-planner/feature/calendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrEmptyUpload is returned when an import carries no content at all.
var ErrEmptyUpload = errors.New("upload is empty")

// ImportOptions controls a single import.
type ImportOptions struct {
	// DryRun resolves every row but persists nothing.
	DryRun bool
}

// ImportReport is the outcome of an import as returned to HTTP and CLI callers.
type ImportReport struct {
	RunID      string                `json:"run_id"`
	Source     string                `json:"source"`
	DryRun     bool                  `json:"dry_run"`
	Applied    bool                  `json:"applied"`
	ImportedAt time.Time             `json:"imported_at"`
	Summary    reconcile.Summary     `json:"summary"`
	Rows       []reconcile.RowResult `json:"rows"`
	ArchiveKey string                `json:"archive_key,omitempty"`
	ReportKey  string                `json:"report_key,omitempty"`
}

// Service runs performance imports against the calendar store.
type Service struct {
	db      *gorm.DB
	entries *calendar.Store
	client  storage.Client
	bucket  string
	cfg     Config
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time

	// mu serializes imports that write, so two merges never read the same snapshot.
	mu    sync.Mutex
	group singleflight.Group
}

// NewService creates a new import service. client may be nil when archiving is off.
func NewService(db *gorm.DB, client storage.Client, bucket string, cfg Config, logger *zap.Logger) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Service{
		db:      db,
		entries: calendar.NewStore(db),
		client:  client,
		bucket:  bucket,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Migrate creates the tables imports read and write.
func (s *Service) Migrate() error {
	if err := s.entries.Migrate(); err != nil {
		return err
	}
	if err := s.db.AutoMigrate(&ImportRun{}); err != nil {
		return fmt.Errorf("failed to migrate import runs: %w", err)
	}
	return nil
}

// Import merges a performance CSV into the stored calendar entries.
// Concurrent calls with identical content and mode share one execution.
func (s *Service) Import(ctx context.Context, source string, data []byte, opts ImportOptions) (*ImportReport, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyUpload
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	key := hash + ":apply"
	if opts.DryRun {
		key = hash + ":dry"
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.runImport(ctx, source, hash, data, opts)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Import result shared with concurrent upload", zap.String("hash", hash))
	}
	return v.(*ImportReport), nil
}

// ImportObject imports a CSV file that already lives in the bucket.
func (s *Service) ImportObject(ctx context.Context, key string, opts ImportOptions) (*ImportReport, error) {
	if s.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	data, err := storage.ReadAll(ctx, s.client, s.bucket, key, 0)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, key, data, opts)
}

func (s *Service) runImport(ctx context.Context, source, hash string, data []byte, opts ImportOptions) (*ImportReport, error) {
	if !opts.DryRun {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result := reconcile.MergeCSV(entries, string(data), reconcile.Options{Now: now, Location: s.loc})

	report := &ImportReport{
		RunID:      uuid.NewString(),
		Source:     source,
		DryRun:     opts.DryRun,
		ImportedAt: now,
		Summary:    result.Summary,
		Rows:       result.Rows,
	}

	l := s.logger.With(zap.String("run_id", report.RunID), zap.String("source", source))

	if !opts.DryRun && result.Changed {
		if err := s.entries.Upsert(ctx, result.Touched()); err != nil {
			return nil, err
		}
		report.Applied = true
	}

	if s.cfg.Archive && s.client != nil {
		s.archive(ctx, l, report, data)
	}

	if err := s.record(ctx, report, hash); err != nil {
		l.Warn("Failed to record import run", zap.Error(err))
	}

	l.Info("Import finished",
		zap.Bool("dry_run", report.DryRun),
		zap.Bool("applied", report.Applied),
		zap.Int("rows", report.Summary.TotalRows),
		zap.Int("matched", report.Summary.Matched),
		zap.Int("updated_entries", report.Summary.UpdatedEntryCount),
		zap.Int("issues", report.Summary.IssueCount()),
	)
	return report, nil
}

func (s *Service) archive(ctx context.Context, l *zap.Logger, report *ImportReport, data []byte) {
	name := path.Base(report.Source)
	if name == "." || name == "/" || name == "" {
		name = "upload.csv"
	}

	csvKey := storage.ObjectKey(s.cfg.ArchivePrefix, report.RunID+"-"+name)
	if err := storage.PutBytes(ctx, s.client, s.bucket, csvKey, data, "text/csv"); err != nil {
		l.Warn("Failed to archive upload", zap.Error(err))
		return
	}
	report.ArchiveKey = csvKey

	reportKey := storage.ObjectKey(s.cfg.ReportPrefix, report.RunID+".json")
	report.ReportKey = reportKey
	body, err := json.MarshalIndent(report, "", "  ")
	if err == nil {
		err = storage.PutBytes(ctx, s.client, s.bucket, reportKey, body, "application/json")
	}
	if err != nil {
		report.ReportKey = ""
		l.Warn("Failed to archive report", zap.Error(err))
	}
}

func (s *Service) record(ctx context.Context, report *ImportReport, hash string) error {
	run := ImportRun{
		ID:             report.RunID,
		Source:         report.Source,
		ContentHash:    hash,
		DryRun:         report.DryRun,
		Applied:        report.Applied,
		TotalRows:      report.Summary.TotalRows,
		Matched:        report.Summary.Matched,
		UpdatedEntries: report.Summary.UpdatedEntryCount,
		Missing:        len(report.Summary.Missing),
		Ambiguous:      len(report.Summary.Ambiguous),
		Errors:         len(report.Summary.Errors),
		ArchiveKey:     report.ArchiveKey,
		ReportKey:      report.ReportKey,
		CreatedAt:      report.ImportedAt,
	}
	return s.db.WithContext(ctx).Create(&run).Error
}

// History returns the most recent import runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []ImportRun
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	return runs, nil
}
