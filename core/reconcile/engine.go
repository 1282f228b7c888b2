package reconcile

import (
	"time"

	"content-planner/core/csvparse"
)

// merger carries the per-call state of a merge.
type merger struct {
	layout *headerLayout
	index  *entryIndex
	opts   Options

	// clones holds the copy-on-write replacement of every touched entry, by ID.
	clones  map[string]*Entry
	touched []string
}

// MergeCSV parses text and merges it into entries. See Merge.
func MergeCSV(entries []*Entry, text string, opts Options) *Result {
	return Merge(entries, csvparse.Parse(text), opts)
}

// Merge matches each parsed row to one (entry, platform) pair and merges its
// metric values into that entry's analytics.
//
// Entries passed in are never modified. If no row was merged, the returned
// Result.Entries is the input slice itself; otherwise it is a new slice where
// only touched entries are replaced and untouched ones keep their pointer.
//
// Rows are resolved independently. Only a header row missing the required
// columns, or carrying no metric columns, aborts the whole call.
func Merge(entries []*Entry, table csvparse.Table, opts Options) *Result {
	opts = opts.withDefaults()

	result := &Result{
		Entries: entries,
		Summary: newSummary(len(table.Records)),
		Rows:    make([]RowResult, 0, len(table.Records)),
	}

	layout, reason := classifyHeaders(table.Headers)
	if reason != "" {
		result.Summary.Errors = append(result.Summary.Errors, Issue{RowNumber: 1, Reason: reason})
		return result
	}

	m := &merger{
		layout: layout,
		index:  buildIndex(entries),
		opts:   opts,
		clones: make(map[string]*Entry),
	}

	for _, row := range table.Records {
		rr := m.mergeRow(row)
		result.Rows = append(result.Rows, rr)

		issue := Issue{RowNumber: rr.RowNumber, Reason: rr.Reason}
		switch rr.Outcome {
		case OutcomeMatched:
			result.Summary.Matched++
		case OutcomeMissing:
			result.Summary.Missing = append(result.Summary.Missing, issue)
		case OutcomeAmbiguous:
			result.Summary.Ambiguous = append(result.Summary.Ambiguous, issue)
		case OutcomeError:
			result.Summary.Errors = append(result.Summary.Errors, issue)
		}
	}

	result.Summary.UpdatedEntries = append(result.Summary.UpdatedEntries, m.touched...)
	result.Summary.UpdatedEntryCount = len(m.touched)

	if len(m.clones) > 0 {
		result.Entries = m.finalize(entries)
		result.Changed = true
	}

	return result
}

// mergeRow resolves a row and, when it matches, merges its metrics.
func (m *merger) mergeRow(row csvparse.Row) RowResult {
	res := m.resolveRow(row)
	rr := RowResult{RowNumber: row.RowNumber, Outcome: res.outcome, Reason: res.reason}
	if res.outcome != OutcomeMatched {
		return rr
	}

	values := m.layout.extractMetrics(row.Record)
	if len(values) == 0 {
		rr.Outcome = OutcomeError
		rr.Reason = "No usable metric values in this row."
		return rr
	}

	m.apply(res.entry, res.platform, values, m.opts.Now)

	rr.EntryID = res.entry.ID
	rr.Platform = res.platform
	rr.MatchedBy = res.matchedBy
	rr.Metrics = values
	return rr
}

// apply shallow-merges values into the clone of entry and stamps the platform.
func (m *merger) apply(entry *Entry, platform string, values map[string]MetricValue, now time.Time) {
	clone, ok := m.clones[entry.ID]
	if !ok {
		clone = entry.Clone()
		m.clones[entry.ID] = clone
		m.touched = append(m.touched, entry.ID)
	}

	metrics := clone.Analytics[platform]
	if metrics.Values == nil {
		metrics.Values = make(map[string]MetricValue, len(values))
	}
	for key, v := range values {
		metrics.Values[key] = v
	}
	metrics.LastImportedAt = now
	clone.Analytics[platform] = metrics
}

// finalize builds the output collection, replacing touched positions only.
func (m *merger) finalize(entries []*Entry) []*Entry {
	next := make([]*Entry, len(entries))
	for i, e := range entries {
		next[i] = e
		if e == nil {
			continue
		}
		if clone, ok := m.clones[e.ID]; ok {
			next[i] = clone
		}
	}
	return next
}
