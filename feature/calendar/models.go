package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"content-planner/core/reconcile"
)

// EntryRecord is the persisted form of a calendar entry.
type EntryRecord struct {
	ID        string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	Date      string          `gorm:"column:date;type:varchar(10);index"`
	Platforms StringList      `gorm:"column:platforms;type:text"`
	Caption   string          `gorm:"column:caption;type:text"`
	URL       string          `gorm:"column:url;type:varchar(2048)"`
	Analytics AnalyticsColumn `gorm:"column:analytics;type:text"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (EntryRecord) TableName() string {
	return "calendar_entries"
}

// ToEntry converts the record into the engine's entry type.
func (r EntryRecord) ToEntry() *reconcile.Entry {
	analytics := map[string]reconcile.PlatformMetrics(r.Analytics)
	if analytics == nil {
		analytics = map[string]reconcile.PlatformMetrics{}
	}
	platforms := []string(r.Platforms)
	if platforms == nil {
		platforms = []string{}
	}
	return &reconcile.Entry{
		ID:        r.ID,
		Date:      r.Date,
		Platforms: platforms,
		Caption:   r.Caption,
		URL:       r.URL,
		Analytics: analytics,
	}
}

// NewEntryRecord converts an engine entry into its persisted form.
func NewEntryRecord(e *reconcile.Entry) EntryRecord {
	return EntryRecord{
		ID:        e.ID,
		Date:      e.Date,
		Platforms: StringList(e.Platforms),
		Caption:   e.Caption,
		URL:       e.URL,
		Analytics: AnalyticsColumn(e.Analytics),
	}
}

// StringList stores a string slice as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, (*[]string)(l))
}

// AnalyticsColumn stores per-platform metrics as a JSON object.
type AnalyticsColumn map[string]reconcile.PlatformMetrics

func (a AnalyticsColumn) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]reconcile.PlatformMetrics(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *AnalyticsColumn) Scan(src any) error {
	return scanJSON(src, (*map[string]reconcile.PlatformMetrics)(a))
}

func scanJSON(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
