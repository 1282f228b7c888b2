package reconcile

import "time"

// Entry is the subset of a calendar entry the import engine reads and writes.
type Entry struct {
	// ID is the opaque unique identifier of the entry.
	ID string `json:"id"`

	// Date is the scheduled or published day in YYYY-MM-DD form.
	Date string `json:"date"`

	// Platforms lists the platforms the entry is scheduled on (e.g., "Instagram").
	Platforms []string `json:"platforms"`

	// Caption is the post copy. Only used to disambiguate date+platform collisions.
	Caption string `json:"caption,omitempty"`

	// URL is the published permalink. Only used to disambiguate date+platform collisions.
	URL string `json:"url,omitempty"`

	// Analytics maps a platform name to the metrics imported for it.
	Analytics map[string]PlatformMetrics `json:"analytics,omitempty"`
}

// HasPlatform reports whether the entry is currently scheduled on platform.
func (e *Entry) HasPlatform(platform string) bool {
	for _, p := range e.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entry. The analytics maps of the copy can be
// modified without affecting the original.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Platforms = append([]string(nil), e.Platforms...)
	c.Analytics = make(map[string]PlatformMetrics, len(e.Analytics))
	for platform, metrics := range e.Analytics {
		c.Analytics[platform] = metrics.Clone()
	}
	return &c
}

// Issue describes why a single row was not merged.
type Issue struct {
	// RowNumber is the CSV line the issue refers to (1 is the header).
	RowNumber int `json:"row_number"`

	// Reason is a human-readable explanation for the uploader.
	Reason string `json:"reason"`
}

// Summary aggregates the outcome of one merge call.
type Summary struct {
	// TotalRows is the number of parsed data rows.
	TotalRows int `json:"total_rows"`

	// Matched counts rows whose metrics were merged into an entry.
	Matched int `json:"matched"`

	// UpdatedEntries lists the distinct entry IDs touched, in first-touch order.
	UpdatedEntries []string `json:"updated_entries"`

	// UpdatedEntryCount is len(UpdatedEntries).
	UpdatedEntryCount int `json:"updated_entry_count"`

	// Missing holds rows referencing an entry or date+platform that does not exist.
	Missing []Issue `json:"missing"`

	// Ambiguous holds rows matching several entries, or a platform the entry is not scheduled on.
	Ambiguous []Issue `json:"ambiguous"`

	// Errors holds structurally invalid rows, or a single row-1 issue when the whole upload was rejected.
	Errors []Issue `json:"errors"`
}

func newSummary(totalRows int) Summary {
	return Summary{
		TotalRows:      totalRows,
		UpdatedEntries: []string{},
		Missing:        []Issue{},
		Ambiguous:      []Issue{},
		Errors:         []Issue{},
	}
}

// IssueCount returns the number of rows that were not merged.
func (s Summary) IssueCount() int {
	return len(s.Missing) + len(s.Ambiguous) + len(s.Errors)
}

// Outcome classifies how a single row was resolved.
type Outcome string

const (
	// OutcomeMatched means the row was merged into an entry.
	OutcomeMatched Outcome = "matched"
	// OutcomeMissing means no entry exists for the row's ID or date+platform.
	OutcomeMissing Outcome = "missing"
	// OutcomeAmbiguous means the row could not be pinned to exactly one entry and platform.
	OutcomeAmbiguous Outcome = "ambiguous"
	// OutcomeError means the row itself is invalid.
	OutcomeError Outcome = "error"
)

// MatchMethod records which key resolved a matched row.
type MatchMethod string

const (
	MatchByEntryID      MatchMethod = "entry_id"
	MatchByDatePlatform MatchMethod = "date_platform"
	MatchByCaption      MatchMethod = "caption"
	MatchByURL          MatchMethod = "url"
)

// RowResult is the per-row resolution detail behind the summary counts.
type RowResult struct {
	RowNumber int                    `json:"row_number"`
	Outcome   Outcome                `json:"outcome"`
	EntryID   string                 `json:"entry_id,omitempty"`
	Platform  string                 `json:"platform,omitempty"`
	MatchedBy MatchMethod            `json:"matched_by,omitempty"`
	Metrics   map[string]MetricValue `json:"metrics,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
}

// Result is the output of Merge.
type Result struct {
	// Entries is the collection after the merge. When Changed is false it is the
	// caller's slice itself; otherwise a new slice where only touched entries are replaced.
	Entries []*Entry `json:"-"`

	// Changed reports whether at least one row was merged.
	Changed bool `json:"changed"`

	// Summary provides aggregate counts and per-row issues.
	Summary Summary `json:"summary"`

	// Rows holds one resolution per parsed row, in file order.
	Rows []RowResult `json:"rows"`
}

// Touched returns the replaced entries in first-touch order.
func (r *Result) Touched() []*Entry {
	if !r.Changed {
		return nil
	}
	byID := make(map[string]*Entry, len(r.Entries))
	for _, e := range r.Entries {
		if e != nil {
			byID[e.ID] = e
		}
	}
	touched := make([]*Entry, 0, len(r.Summary.UpdatedEntries))
	for _, id := range r.Summary.UpdatedEntries {
		if e, ok := byID[id]; ok {
			touched = append(touched, e)
		}
	}
	return touched
}

// Options controls a merge call.
type Options struct {
	// Now is stamped as lastImportedAt on every merged platform.
	// If zero, the current time is used.
	Now time.Time

	// Location is used to reformat non-ISO dates. Defaults to UTC.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// Platforms is the canonical platform vocabulary.
var Platforms = []string{
	"Instagram",
	"Facebook",
	"LinkedIn",
	"X/Twitter",
	"TikTok",
	"YouTube",
	"Threads",
	"Pinterest",
}

// IsCanonicalPlatform reports whether name is part of the platform vocabulary.
func IsCanonicalPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}
