package reconcile

import (
	"strings"

	"content-planner/core/utils"
)

// Role is the meaning assigned to a recognized CSV header.
type Role string

const (
	RoleEntryID  Role = "entry_id"
	RoleDate     Role = "date"
	RolePlatform Role = "platform"
	RoleCaption  Role = "caption"
	RoleURL      Role = "url"
)

// roleSynonyms lists the normalized header labels recognized for each role.
var roleSynonyms = map[Role][]string{
	RoleEntryID:  {"entry_id", "content_id", "dashboard_id", "id"},
	RoleDate:     {"date", "post_date", "published_date", "scheduled_date"},
	RolePlatform: {"platform", "channel", "network"},
	RoleCaption:  {"caption", "copy", "post_text", "text"},
	RoleURL:      {"url", "link", "permalink"},
}

var (
	headerRoles = buildHeaderRoles()
	ignoredKeys = buildIgnoredKeys()
)

func buildHeaderRoles() map[string]Role {
	roles := make(map[string]Role)
	for role, synonyms := range roleSynonyms {
		for _, s := range synonyms {
			roles[s] = role
		}
	}
	return roles
}

func buildIgnoredKeys() map[string]struct{} {
	ignored := map[string]struct{}{
		"notes":    {},
		"comments": {},
	}
	for key := range headerRoles {
		ignored[key] = struct{}{}
	}
	return ignored
}

const (
	reasonRequiredColumns = "CSV must include an entry_id column, or both date and platform columns."
	reasonNoMetricColumns = "No metric columns found. Add columns such as impressions, likes or clicks."
)

// metricColumn binds a raw header label to the key its values are stored under.
type metricColumn struct {
	Key    string
	Header string
}

// headerLayout is the classification of an upload's header row.
type headerLayout struct {
	roles   map[Role][]string
	metrics []metricColumn
}

// classifyHeaders assigns roles to the headers and collects the metric columns.
// A non-empty reason means the upload is structurally unusable.
func classifyHeaders(headers []string) (*headerLayout, string) {
	layout := &headerLayout{roles: make(map[Role][]string)}

	for _, header := range headers {
		key := utils.NormalizeKey(header)
		if role, ok := headerRoles[key]; ok {
			layout.roles[role] = append(layout.roles[role], header)
		}
		if _, ignored := ignoredKeys[key]; ignored || key == "" || key == "_" {
			continue
		}
		layout.metrics = append(layout.metrics, metricColumn{Key: key, Header: header})
	}

	if !layout.has(RoleEntryID) && !(layout.has(RoleDate) && layout.has(RolePlatform)) {
		return nil, reasonRequiredColumns
	}
	if len(layout.metrics) == 0 {
		return nil, reasonNoMetricColumns
	}
	return layout, ""
}

func (l *headerLayout) has(role Role) bool {
	return len(l.roles[role]) > 0
}

// value returns the first non-empty cell among the headers carrying role.
func (l *headerLayout) value(record map[string]string, role Role) string {
	for _, header := range l.roles[role] {
		if v := strings.TrimSpace(record[header]); v != "" {
			return v
		}
	}
	return ""
}

// extractMetrics coerces every non-empty metric cell of the record.
func (l *headerLayout) extractMetrics(record map[string]string) map[string]MetricValue {
	values := make(map[string]MetricValue)
	for _, col := range l.metrics {
		raw := strings.TrimSpace(record[col.Header])
		if raw == "" {
			continue
		}
		values[col.Key] = ParseMetricValue(raw)
	}
	return values
}
