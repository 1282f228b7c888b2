package cmd

import (
	"fmt"

	"content-planner/core/config"
	"content-planner/core/database"
	"content-planner/core/logger"
	"content-planner/core/storage"
	"content-planner/feature/performance"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// session bundles what every command needs after configuration is loaded.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	client storage.Client
}

func loadSession() (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &session{cfg: cfg, log: logg, client: client}, nil
}

// connect opens the configured database.
func (rt *session) connect() error {
	db, err := database.Connect(rt.cfg.Database)
	if err != nil {
		return err
	}
	rt.db = db
	rt.log = rt.log.With(zap.String("database", rt.cfg.Database.Driver))
	return nil
}

func (rt *session) importService() (*performance.Service, error) {
	svc, err := performance.NewService(rt.db, rt.client, rt.cfg.Storage.Bucket, rt.cfg.Import, rt.log)
	if err != nil {
		return nil, err
	}
	if err := svc.Migrate(); err != nil {
		return nil, err
	}
	return svc, nil
}

func (rt *session) archiveFolders() []string {
	return []string{rt.cfg.Import.ArchivePrefix, rt.cfg.Import.ReportPrefix}
}
