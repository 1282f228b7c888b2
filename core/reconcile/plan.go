package reconcile

import (
	"fmt"

	"content-planner/core/csvparse"
	"content-planner/core/utils"
)

// entryIndex holds the lookups built once per merge call.
type entryIndex struct {
	byID           map[string]*Entry
	byDatePlatform map[string][]*Entry
}

func datePlatformKey(date, platform string) string {
	return date + "__" + platform
}

// buildIndex indexes entries by ID and by every date+platform they are scheduled on.
// When IDs repeat, the last entry wins the ID lookup.
func buildIndex(entries []*Entry) *entryIndex {
	idx := &entryIndex{
		byID:           make(map[string]*Entry, len(entries)),
		byDatePlatform: make(map[string][]*Entry),
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		idx.byID[e.ID] = e
		for _, platform := range e.Platforms {
			key := datePlatformKey(e.Date, platform)
			idx.byDatePlatform[key] = append(idx.byDatePlatform[key], e)
		}
	}
	return idx
}

// resolution is the outcome of matching one row to an entry and platform.
type resolution struct {
	entry     *Entry
	platform  string
	matchedBy MatchMethod
	outcome   Outcome
	reason    string
}

func unresolved(outcome Outcome, format string, args ...any) resolution {
	return resolution{outcome: outcome, reason: fmt.Sprintf(format, args...)}
}

// resolveRow decides which entry and platform a row updates.
func (m *merger) resolveRow(row csvparse.Row) resolution {
	if id := m.layout.value(row.Record, RoleEntryID); id != "" {
		return m.resolveByID(row, id)
	}
	return m.resolveByDatePlatform(row)
}

func (m *merger) resolveByID(row csvparse.Row, id string) resolution {
	entry, ok := m.index.byID[id]
	if !ok {
		return unresolved(OutcomeMissing, "No calendar entry found with ID %q.", id)
	}

	platform := NormalizePlatform(m.layout.value(row.Record, RolePlatform))
	if platform == "" {
		if len(entry.Platforms) != 1 {
			return unresolved(OutcomeError,
				"Entry %q is scheduled on %d platforms; specify a platform for this row.", id, len(entry.Platforms))
		}
		platform = entry.Platforms[0]
	}

	if !entry.HasPlatform(platform) {
		return unresolved(OutcomeAmbiguous, "Entry %q is not scheduled for %s.", id, platform)
	}

	return resolution{
		entry:     entry,
		platform:  platform,
		matchedBy: MatchByEntryID,
		outcome:   OutcomeMatched,
	}
}

func (m *merger) resolveByDatePlatform(row csvparse.Row) resolution {
	rawDate := m.layout.value(row.Record, RoleDate)
	date, ok := NormalizeDate(rawDate, m.opts.Location)
	if !ok {
		if rawDate == "" {
			return unresolved(OutcomeError, "Missing date; add an entry_id or a date for this row.")
		}
		return unresolved(OutcomeError, "Unrecognized date %q.", rawDate)
	}

	rawPlatform := m.layout.value(row.Record, RolePlatform)
	platform := NormalizePlatform(rawPlatform)
	if platform == "" {
		if rawPlatform == "" {
			return unresolved(OutcomeError, "Missing platform; add an entry_id or a platform for this row.")
		}
		return unresolved(OutcomeError, "Unrecognized platform %q.", rawPlatform)
	}

	candidates := m.index.byDatePlatform[datePlatformKey(date, platform)]
	switch len(candidates) {
	case 0:
		return unresolved(OutcomeMissing, "No calendar entry found for %s on %s.", platform, date)
	case 1:
		return resolution{
			entry:     candidates[0],
			platform:  platform,
			matchedBy: MatchByDatePlatform,
			outcome:   OutcomeMatched,
		}
	}

	// Caption wins over url even when both would narrow to a single entry.
	if caption := m.layout.value(row.Record, RoleCaption); caption != "" {
		if found := filterCandidates(candidates, caption, func(e *Entry) string { return e.Caption }); len(found) == 1 {
			return resolution{entry: found[0], platform: platform, matchedBy: MatchByCaption, outcome: OutcomeMatched}
		}
	}
	if url := m.layout.value(row.Record, RoleURL); url != "" {
		if found := filterCandidates(candidates, url, func(e *Entry) string { return e.URL }); len(found) == 1 {
			return resolution{entry: found[0], platform: platform, matchedBy: MatchByURL, outcome: OutcomeMatched}
		}
	}

	return unresolved(OutcomeAmbiguous,
		"%d entries match %s on %s; add an entry_id column to pick one.", len(candidates), platform, date)
}

// filterCandidates keeps entries whose field contains needle, ignoring case.
func filterCandidates(candidates []*Entry, needle string, field func(*Entry) string) []*Entry {
	var found []*Entry
	for _, e := range candidates {
		if utils.ContainsFold(field(e), needle) {
			found = append(found, e)
		}
	}
	return found
}
