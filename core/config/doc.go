// Package config provides configuration management for the content planner.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Every key is registered with the default declared on its
// struct tag, so a bare environment is enough to start the service.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and the bucket used to archive uploads
//   - Log: Logging level and format
//   - Import: Performance CSV import behavior (timezone, archiving, report size)
//
// Environment variables map to nested keys by replacing dots with underscores,
// e.g. IMPORT_TIMEZONE sets import.timezone.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
