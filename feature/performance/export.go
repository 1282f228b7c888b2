package performance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"content-planner/core/reconcile"
)

var exportColumns = []string{"entry_id", "date", "platform", "caption", "url"}

// Export writes one CSV row per entry and scheduled platform with the metrics
// imported so far. The output can be edited and imported again.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, entries)
}

// WriteCSV renders entries in the export layout.
func WriteCSV(w io.Writer, entries []*reconcile.Entry) error {
	keys := metricKeys(entries)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, exportColumns...), keys...)); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, e := range entries {
		for _, platform := range e.Platforms {
			metrics := e.Analytics[platform]
			row := []string{e.ID, e.Date, platform, singleLine(e.Caption), singleLine(e.URL)}
			for _, k := range keys {
				if v, ok := metrics.Values[k]; ok {
					row = append(row, v.String())
				} else {
					row = append(row, "")
				}
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write export row for %s: %w", e.ID, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func metricKeys(entries []*reconcile.Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		for _, platform := range e.Platforms {
			for k := range e.Analytics[platform].Values {
				seen[k] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// The importer reads one record per line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
