package performance

import (
	"fmt"
	"time"
)

// Config holds configuration for performance imports.
type Config struct {
	// Timezone is used to reformat non-ISO dates found in uploads.
	Timezone string `mapstructure:"timezone" default:"UTC"`
	// MaxIssuesShown caps how many issues per category the CLI prints.
	MaxIssuesShown int `mapstructure:"max_issues_shown" default:"20"`
	// Archive stores every upload and its report in object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// ArchivePrefix is the bucket folder for uploaded CSV files.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"imports"`
	// ReportPrefix is the bucket folder for JSON import reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports"`
}

// Location resolves Timezone. Empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid import timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
