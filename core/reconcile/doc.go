// Package reconcile merges uploaded performance metrics into calendar entries.
//
// Every row of a parsed CSV (see core/csvparse) is matched to exactly one
// (entry, platform) pair and its metric columns are merged into that entry's
// per-platform analytics. Rows that cannot be matched are reported, never
// silently dropped.
//
// # Matching
//
// Rows are resolved independently, in one of two ways:
//
// 1. Entry ID: the row names the entry directly. The platform comes from the row,
//    or defaults to the entry's only platform, and must be one the entry is scheduled on.
//
// 2. Date + platform: the row's date and platform select the entries scheduled on
//    that day. If several collide, the row's caption and then its url are used as
//    case-insensitive substring hints. Caption takes precedence.
//
// Header labels are normalized (lowercase, non-alphanumeric runs become "_") and
// recognized through fixed synonym lists. Every other column except notes and
// comments is a metric column.
//
// # Metric Values
//
// Cells ending in "%" are kept verbatim as percentages, numbers have thousands
// separators stripped, and anything else is stored as text. MetricValue keeps the
// kind explicit; JSON encodes numbers as numbers and the rest as strings.
//
// # Copy-on-Write
//
// Merge never mutates its input. Touched entries are cloned once per call and
// only their positions are replaced in the returned slice. When nothing matched,
// the input slice is returned as is so callers can skip persisting.
//
// # Usage Example
//
//	result := reconcile.MergeCSV(entries, csvText, reconcile.Options{Now: time.Now()})
//	if result.Changed {
//	    store.Upsert(ctx, result.Touched())
//	}
//	fmt.Println(result.Summary.Matched, len(result.Summary.Missing))
package reconcile
