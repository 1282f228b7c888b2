package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Now: fixedNow, Location: time.UTC}
}

// sameSlice reports whether a and b share a backing array, i.e. Merge returned the input as is.
func sameSlice(a, b []*Entry) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func entry(id, date string, platforms ...string) *Entry {
	return &Entry{ID: id, Date: date, Platforms: platforms}
}

func TestMerge_StructuralAbort(t *testing.T) {
	entries := []*Entry{entry("e1", "2024-01-05", "Instagram")}

	tests := []struct {
		name   string
		csv    string
		reason string
	}{
		{"NoKeyColumns", "impressions,likes\n100,5", reasonRequiredColumns},
		{"DateWithoutPlatform", "date,impressions\n2024-01-05,100", reasonRequiredColumns},
		{"PlatformWithoutDate", "channel,impressions\nig,100", reasonRequiredColumns},
		{"NoMetricColumns", "entry_id,caption,notes,comments\ne1,hello,x,y", reasonNoMetricColumns},
		{"Empty", "", reasonRequiredColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MergeCSV(entries, tt.csv, testOptions())

			require.Len(t, result.Summary.Errors, 1)
			assert.Equal(t, Issue{RowNumber: 1, Reason: tt.reason}, result.Summary.Errors[0])
			assert.Empty(t, result.Summary.Missing)
			assert.Empty(t, result.Summary.Ambiguous)
			assert.Zero(t, result.Summary.Matched)
			assert.False(t, result.Changed)
			assert.True(t, sameSlice(entries, result.Entries))
		})
	}
}

func TestMerge_EntryIDExactMatch(t *testing.T) {
	entries := []*Entry{entry("e1", "2024-01-05", "Instagram")}

	result := MergeCSV(entries, "entry_id,impressions\ne1,100", testOptions())

	assert.True(t, result.Changed)
	assert.Equal(t, 1, result.Summary.Matched)
	assert.Equal(t, 1, result.Summary.TotalRows)
	assert.Equal(t, []string{"e1"}, result.Summary.UpdatedEntries)
	assert.Equal(t, 1, result.Summary.UpdatedEntryCount)

	metrics := result.Entries[0].Analytics["Instagram"]
	assert.Equal(t, Numeric(100), metrics.Values["impressions"])
	assert.Equal(t, fixedNow, metrics.LastImportedAt)

	// Input untouched.
	assert.Nil(t, entries[0].Analytics)
	assert.NotSame(t, entries[0], result.Entries[0])

	require.Len(t, result.Rows, 1)
	assert.Equal(t, MatchByEntryID, result.Rows[0].MatchedBy)
	assert.Equal(t, "Instagram", result.Rows[0].Platform)
}

func TestMerge_EntryIDPath(t *testing.T) {
	entries := []*Entry{
		entry("single", "2024-01-05", "Instagram"),
		entry("multi", "2024-01-05", "Instagram", "LinkedIn"),
		entry("none", "2024-01-05"),
	}

	tests := []struct {
		name     string
		row      string
		outcome  Outcome
		platform string
		reason   string
	}{
		{"UnknownID", "e404,,5", OutcomeMissing, "", `No calendar entry found with ID "e404".`},
		{"DefaultsToOnlyPlatform", "single,,5", OutcomeMatched, "Instagram", ""},
		{"InvalidPlatformFallsBackToOnlyPlatform", "single,myspace,5", OutcomeMatched, "Instagram", ""},
		{"ExplicitPlatform", "multi,LinkedIn,5", OutcomeMatched, "LinkedIn", ""},
		{"AliasPlatform", "multi,ig,5", OutcomeMatched, "Instagram", ""},
		{"MultiWithoutPlatform", "multi,,5", OutcomeError, "", `Entry "multi" is scheduled on 2 platforms; specify a platform for this row.`},
		{"NoPlatforms", "none,,5", OutcomeError, "", `Entry "none" is scheduled on 0 platforms; specify a platform for this row.`},
		{"NotScheduled", "single,tiktok,5", OutcomeAmbiguous, "", `Entry "single" is not scheduled for TikTok.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MergeCSV(entries, "entry_id,platform,likes\n"+tt.row, testOptions())

			require.Len(t, result.Rows, 1)
			row := result.Rows[0]
			assert.Equal(t, tt.outcome, row.Outcome)
			assert.Equal(t, tt.platform, row.Platform)
			assert.Equal(t, tt.reason, row.Reason)
			assert.Equal(t, 1, result.Summary.IssueCount()+result.Summary.Matched)
		})
	}
}

func TestMerge_DatePlatformUniqueMatch(t *testing.T) {
	entries := []*Entry{
		entry("a", "2024-01-05", "LinkedIn"),
		entry("b", "2024-01-05", "Instagram"),
		entry("c", "2024-01-06", "LinkedIn"),
	}

	result := MergeCSV(entries, "date,platform,clicks\n2024-01-05,linkedin,5", testOptions())

	require.Equal(t, 1, result.Summary.Matched)
	assert.Equal(t, []string{"a"}, result.Summary.UpdatedEntries)
	assert.Equal(t, Numeric(5), result.Entries[0].Analytics["LinkedIn"].Values["clicks"])
	assert.Same(t, entries[1], result.Entries[1])
	assert.Same(t, entries[2], result.Entries[2])
	assert.Equal(t, MatchByDatePlatform, result.Rows[0].MatchedBy)
}

func TestMerge_DatePlatformMissing(t *testing.T) {
	entries := []*Entry{entry("a", "2024-01-05", "LinkedIn")}

	result := MergeCSV(entries, "date,platform,clicks\n2024-01-06,LinkedIn,5", testOptions())

	require.Len(t, result.Summary.Missing, 1)
	assert.Equal(t, Issue{RowNumber: 2, Reason: "No calendar entry found for LinkedIn on 2024-01-06."}, result.Summary.Missing[0])
	assert.True(t, sameSlice(entries, result.Entries))
}

func TestMerge_NonISODate(t *testing.T) {
	entries := []*Entry{entry("a", "2024-01-05", "X/Twitter")}

	for _, date := range []string{`"Jan 5, 2024"`, "01/05/2024", `"January 5, 2024"`} {
		t.Run(date, func(t *testing.T) {
			result := MergeCSV(entries, "post date,network,likes\n"+date+",Twitter,3", testOptions())
			assert.Equal(t, 1, result.Summary.Matched, result.Rows)
		})
	}
}

func TestMerge_RowErrors(t *testing.T) {
	entries := []*Entry{entry("a", "2024-01-05", "Instagram")}

	csv := "date,platform,likes\n" +
		"someday,instagram,1\n" +
		"2024-01-05,myspace,1\n" +
		",instagram,1\n" +
		"2024-01-05,,1\n" +
		"2024-01-05,instagram,\n"

	result := MergeCSV(entries, csv, testOptions())

	assert.Equal(t, []Issue{
		{RowNumber: 2, Reason: `Unrecognized date "someday".`},
		{RowNumber: 3, Reason: `Unrecognized platform "myspace".`},
		{RowNumber: 4, Reason: "Missing date; add an entry_id or a date for this row."},
		{RowNumber: 5, Reason: "Missing platform; add an entry_id or a platform for this row."},
		{RowNumber: 6, Reason: "No usable metric values in this row."},
	}, result.Summary.Errors)
	assert.Zero(t, result.Summary.Matched)
	assert.True(t, sameSlice(entries, result.Entries))
}

func TestMerge_Disambiguation(t *testing.T) {
	collision := func() []*Entry {
		a := entry("a", "2024-01-05", "Instagram")
		a.Caption = "Spring launch teaser"
		a.URL = "https://instagram.com/p/AAA"
		b := entry("b", "2024-01-05", "Instagram")
		b.Caption = "Behind the scenes at the launch"
		b.URL = "https://instagram.com/p/BBB"
		return []*Entry{a, b}
	}

	tests := []struct {
		name      string
		csv       string
		wantID    string
		matchedBy MatchMethod
	}{
		{"NoHints", "date,platform,likes\n2024-01-05,Instagram,9", "", ""},
		{"CaptionNarrows", "date,platform,caption,likes\n2024-01-05,Instagram,SPRING LAUNCH,9", "a", MatchByCaption},
		{"CaptionTooBroadUrlNarrows", "date,platform,caption,url,likes\n2024-01-05,Instagram,launch,/p/bbb,9", "b", MatchByURL},
		{"CaptionBeatsUrl", "date,platform,caption,url,likes\n2024-01-05,Instagram,behind the scenes,/p/AAA,9", "b", MatchByCaption},
		{"NeitherNarrows", "date,platform,caption,url,likes\n2024-01-05,Instagram,launch,instagram.com,9", "", ""},
		{"NoCaptionMatch", "date,platform,copy,likes\n2024-01-05,Instagram,holiday,9", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := collision()
			result := MergeCSV(entries, tt.csv, testOptions())

			require.Len(t, result.Rows, 1)
			if tt.wantID == "" {
				assert.Equal(t, OutcomeAmbiguous, result.Rows[0].Outcome)
				require.Len(t, result.Summary.Ambiguous, 1)
				assert.Equal(t, "2 entries match Instagram on 2024-01-05; add an entry_id column to pick one.", result.Summary.Ambiguous[0].Reason)
				assert.True(t, sameSlice(entries, result.Entries))
				return
			}
			assert.Equal(t, 1, result.Summary.Matched)
			assert.Equal(t, []string{tt.wantID}, result.Summary.UpdatedEntries)
			assert.Equal(t, tt.matchedBy, result.Rows[0].MatchedBy)
		})
	}
}

func TestMerge_IDMatchIgnoresCaption(t *testing.T) {
	a := entry("a", "2024-01-05", "Instagram")
	a.Caption = "Spring launch"
	b := entry("b", "2024-01-05", "Instagram")
	b.Caption = "Other"
	entries := []*Entry{a, b}

	result := MergeCSV(entries, "entry_id,caption,likes\nb,Spring launch,4", testOptions())

	assert.Equal(t, []string{"b"}, result.Summary.UpdatedEntries)
	assert.Equal(t, MatchByEntryID, result.Rows[0].MatchedBy)
}

func TestMerge_ValueCoercion(t *testing.T) {
	entries := []*Entry{entry("e1", "2024-01-05", "Instagram")}

	csv := "entry_id,Engagement Rate,impressions,sentiment,reach\n" +
		"e1,4.5%,\"1,234\",positive,  \n"

	result := MergeCSV(entries, csv, testOptions())

	require.True(t, result.Changed)
	values := result.Entries[0].Analytics["Instagram"].Values
	assert.Equal(t, Percentage("4.5%"), values["engagement_rate"])
	assert.Equal(t, Numeric(1234), values["impressions"])
	assert.Equal(t, Text("positive"), values["sentiment"])
	assert.NotContains(t, values, "reach")
}

func TestMerge_PreservesExistingMetrics(t *testing.T) {
	e2 := entry("e2", "2024-01-06", "Instagram", "Facebook")
	e2.Analytics = map[string]PlatformMetrics{
		"Instagram": {Values: map[string]MetricValue{"reach": Numeric(50), "likes": Numeric(1)}},
		"Facebook":  {Values: map[string]MetricValue{"shares": Numeric(2)}},
	}
	entries := []*Entry{entry("e1", "2024-01-05", "Instagram"), e2, entry("e3", "2024-01-07", "Instagram")}

	result := MergeCSV(entries, "entry_id,platform,likes\ne2,instagram,7", testOptions())

	require.True(t, result.Changed)
	assert.Same(t, entries[0], result.Entries[0])
	assert.Same(t, entries[2], result.Entries[2])
	assert.NotSame(t, entries[1], result.Entries[1])

	updated := result.Entries[1].Analytics
	assert.Equal(t, Numeric(50), updated["Instagram"].Values["reach"])
	assert.Equal(t, Numeric(7), updated["Instagram"].Values["likes"])
	assert.Equal(t, fixedNow, updated["Instagram"].LastImportedAt)
	assert.Equal(t, Numeric(2), updated["Facebook"].Values["shares"])
	assert.True(t, updated["Facebook"].LastImportedAt.IsZero())

	// Original analytics are not aliased by the clone.
	assert.Equal(t, Numeric(1), e2.Analytics["Instagram"].Values["likes"])
	assert.True(t, e2.Analytics["Instagram"].LastImportedAt.IsZero())
}

func TestMerge_SeveralRowsSameEntry(t *testing.T) {
	entries := []*Entry{entry("e1", "2024-01-05", "Instagram", "Facebook")}

	csv := "entry_id,platform,likes,shares\n" +
		"e1,Instagram,10,\n" +
		"e1,Facebook,4,1\n" +
		"e1,Instagram,,3\n"

	result := MergeCSV(entries, csv, testOptions())

	assert.Equal(t, 3, result.Summary.Matched)
	assert.Equal(t, 1, result.Summary.UpdatedEntryCount)
	analytics := result.Entries[0].Analytics
	assert.Equal(t, map[string]MetricValue{"likes": Numeric(10), "shares": Numeric(3)}, analytics["Instagram"].Values)
	assert.Equal(t, map[string]MetricValue{"likes": Numeric(4), "shares": Numeric(1)}, analytics["Facebook"].Values)
	assert.Len(t, result.Touched(), 1)
}

func TestMerge_IdempotentReimport(t *testing.T) {
	entries := []*Entry{
		entry("e1", "2024-01-05", "Instagram"),
		entry("e2", "2024-01-05", "LinkedIn"),
	}
	csv := "entry_id,platform,impressions,ctr\ne1,ig,\"12,000\",3.1%\n,,,\n"
	csv2 := "date,platform,impressions,ctr\n2024-01-05,linkedin,800,1%\n"

	first := MergeCSV(entries, csv, testOptions())
	first = MergeCSV(first.Entries, csv2, testOptions())

	later := Options{Now: fixedNow.Add(time.Hour)}
	second := MergeCSV(first.Entries, csv, later)
	second = MergeCSV(second.Entries, csv2, later)

	for i := range entries {
		for platform, metrics := range first.Entries[i].Analytics {
			again := second.Entries[i].Analytics[platform]
			assert.Equal(t, metrics.Values, again.Values)
			assert.True(t, again.LastImportedAt.After(metrics.LastImportedAt))
		}
	}
}

func TestMerge_NoMutationShortCircuit(t *testing.T) {
	entries := []*Entry{
		entry("e1", "2024-01-05", "Instagram"),
		entry("e2", "2024-01-05", "Instagram"),
	}

	csv := "entry_id,date,platform,likes\n" +
		"e404,,,1\n" +
		",2024-01-05,instagram,1\n" +
		",2024-01-09,instagram,1\n" +
		"e1,,instagram,\n"

	result := MergeCSV(entries, csv, testOptions())

	assert.False(t, result.Changed)
	assert.True(t, sameSlice(entries, result.Entries))
	assert.Nil(t, result.Touched())
	assert.Equal(t, 4, result.Summary.TotalRows)
	assert.Len(t, result.Summary.Missing, 2)
	assert.Len(t, result.Summary.Ambiguous, 1)
	assert.Len(t, result.Summary.Errors, 1)
	assert.Equal(t, []int{2, 3, 4, 5}, []int{
		result.Rows[0].RowNumber, result.Rows[1].RowNumber, result.Rows[2].RowNumber, result.Rows[3].RowNumber,
	})
}

func TestMerge_HeaderSynonyms(t *testing.T) {
	entries := []*Entry{entry("e1", "2024-01-05", "YouTube")}

	csv := "Content ID,Channel,Views,Notes,Comments\ne1,YT,\"3,000\",great,n/a\n"

	result := MergeCSV(entries, csv, testOptions())

	require.Equal(t, 1, result.Summary.Matched)
	values := result.Entries[0].Analytics["YouTube"].Values
	assert.Equal(t, map[string]MetricValue{"views": Numeric(3000)}, values)
}

func TestMerge_NilEntries(t *testing.T) {
	entries := []*Entry{nil, entry("e1", "2024-01-05", "Instagram")}

	result := MergeCSV(entries, "entry_id,likes\ne1,2", testOptions())

	require.True(t, result.Changed)
	assert.Nil(t, result.Entries[0])
	assert.Equal(t, Numeric(2), result.Entries[1].Analytics["Instagram"].Values["likes"])
}

func TestMerge_DefaultOptions(t *testing.T) {
	entries := []*Entry{entry("e1", "2024-01-05", "Instagram")}
	before := time.Now()

	result := MergeCSV(entries, "entry_id,likes\ne1,2", Options{})

	stamp := result.Entries[0].Analytics["Instagram"].LastImportedAt
	assert.False(t, stamp.Before(before))
}
