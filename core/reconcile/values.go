package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MetricKind discriminates the shapes a metric value can take.
type MetricKind string

const (
	// KindNumeric is a parsed number (commas stripped).
	KindNumeric MetricKind = "numeric"
	// KindPercentage is a display value ending in "%", kept verbatim.
	KindPercentage MetricKind = "percentage"
	// KindText is any other non-numeric value, kept verbatim.
	KindText MetricKind = "text"
)

// MetricValue is a single metric cell after coercion.
type MetricValue struct {
	Kind   MetricKind
	Number float64
	Text   string
}

// Numeric builds a numeric metric value.
func Numeric(v float64) MetricValue {
	return MetricValue{Kind: KindNumeric, Number: v}
}

// Percentage builds a percentage metric value such as "4.5%".
func Percentage(s string) MetricValue {
	return MetricValue{Kind: KindPercentage, Text: s}
}

// Text builds a free-text metric value.
func Text(s string) MetricValue {
	return MetricValue{Kind: KindText, Text: s}
}

// ParseMetricValue coerces a raw CSV cell.
// A trailing "%" keeps the value as a percentage string. Otherwise thousands
// separators are stripped and the value is parsed as a number, falling back to
// the original text.
func ParseMetricValue(raw string) MetricValue {
	value := strings.TrimSpace(raw)
	if strings.HasSuffix(value, "%") {
		return Percentage(value)
	}

	cleaned := strings.ReplaceAll(value, ",", "")
	if cleaned != "" {
		if n, err := strconv.ParseFloat(cleaned, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return Numeric(n)
		}
	}
	return Text(value)
}

// String renders the value the way it would be written back to a CSV cell.
func (v MetricValue) String() string {
	if v.Kind == KindNumeric {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON writes numbers as JSON numbers and everything else as strings.
func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNumeric {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON restores the kind from the JSON shape.
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.HasSuffix(s, "%") {
			*v = Percentage(s)
		} else {
			*v = Text(s)
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("metric value must be a number or string: %w", err)
	}
	*v = Numeric(n)
	return nil
}

// LastImportedAtKey is the reserved metrics-map key holding the last merge timestamp.
const LastImportedAtKey = "lastImportedAt"

// TimestampLayout formats lastImportedAt as an ISO-8601 UTC instant with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// PlatformMetrics holds the imported metrics for one platform of an entry.
// It serializes as a flat JSON object with the reserved lastImportedAt key.
type PlatformMetrics struct {
	Values         map[string]MetricValue
	LastImportedAt time.Time
}

// Clone returns a copy with its own Values map.
func (m PlatformMetrics) Clone() PlatformMetrics {
	c := PlatformMetrics{
		Values:         make(map[string]MetricValue, len(m.Values)),
		LastImportedAt: m.LastImportedAt,
	}
	for k, v := range m.Values {
		c.Values[k] = v
	}
	return c
}

// MarshalJSON flattens the values and the timestamp into one object.
func (m PlatformMetrics) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Values)+1)
	for k, v := range m.Values {
		out[k] = v
	}
	if !m.LastImportedAt.IsZero() {
		out[LastImportedAtKey] = m.LastImportedAt.UTC().Format(TimestampLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits the reserved timestamp key from the metric values.
func (m *PlatformMetrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Values = make(map[string]MetricValue, len(raw))
	m.LastImportedAt = time.Time{}
	for key, msg := range raw {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		if key == LastImportedAtKey {
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("%s: %w", LastImportedAtKey, err)
			}
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return fmt.Errorf("%s: %w", LastImportedAtKey, err)
			}
			m.LastImportedAt = ts
			continue
		}
		var v MetricValue
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("metric %s: %w", key, err)
		}
		m.Values[key] = v
	}
	return nil
}
