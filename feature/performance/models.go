package performance

import "time"

// ImportRun records one import attempt, dry runs included.
type ImportRun struct {
	ID             string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Source         string    `gorm:"column:source;type:varchar(255)" json:"source"`
	ContentHash    string    `gorm:"column:content_hash;type:varchar(64);index" json:"content_hash"`
	DryRun         bool      `gorm:"column:dry_run" json:"dry_run"`
	Applied        bool      `gorm:"column:applied" json:"applied"`
	TotalRows      int       `gorm:"column:total_rows" json:"total_rows"`
	Matched        int       `gorm:"column:matched" json:"matched"`
	UpdatedEntries int       `gorm:"column:updated_entries" json:"updated_entries"`
	Missing        int       `gorm:"column:missing" json:"missing"`
	Ambiguous      int       `gorm:"column:ambiguous" json:"ambiguous"`
	Errors         int       `gorm:"column:errors" json:"errors"`
	ArchiveKey     string    `gorm:"column:archive_key;type:varchar(512)" json:"archive_key,omitempty"`
	ReportKey      string    `gorm:"column:report_key;type:varchar(512)" json:"report_key,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
