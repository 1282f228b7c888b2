// Package csvparse turns uploaded performance CSV text into a header list and
// numbered row records.
//
// The parser is deliberately forgiving: blank lines are dropped before numbering,
// short rows are padded with empty cells, extra cells are ignored, and nothing
// ever returns an error. Validation of the content is left to core/reconcile.
//
// # Row Numbering
//
// The header counts as row 1, so the first data row is row 2. Numbering is dense
// over the non-blank lines, which means a blank line does not consume a number.
//
// # Usage
//
//	table := csvparse.Parse(text)
//	for _, row := range table.Records {
//	    fmt.Println(row.RowNumber, row.Record["impressions"])
//	}
package csvparse
