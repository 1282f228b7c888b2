package csvparse

import "strings"

// Row is a single data line keyed by header label.
type Row struct {
	// RowNumber is the 1-based line position counting the header as row 1.
	RowNumber int `json:"row_number"`
	// Record maps each header label to the trimmed cell value.
	Record map[string]string `json:"record"`
}

// Table is the parsed form of a CSV upload.
type Table struct {
	Headers []string `json:"headers"`
	Records []Row    `json:"records"`
}

// Parse converts raw CSV text into headers and rows.
// It never fails: malformed rows yield empty cells and are left to the caller to validate.
func Parse(text string) Table {
	table := Table{Headers: []string{}, Records: []Row{}}
	if strings.TrimSpace(text) == "" {
		return table
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return table
	}

	for _, h := range SplitLine(lines[0]) {
		table.Headers = append(table.Headers, strings.TrimSpace(h))
	}

	for i, line := range lines[1:] {
		cells := SplitLine(line)
		record := make(map[string]string, len(table.Headers))
		for col, header := range table.Headers {
			value := ""
			if col < len(cells) {
				value = strings.TrimSpace(cells[col])
			}
			record[header] = value
		}
		table.Records = append(table.Records, Row{
			RowNumber: i + 2,
			Record:    record,
		})
	}

	return table
}

// SplitLine splits one CSV line into raw fields.
// Quoted fields may contain commas, and a doubled quote inside quotes is a literal quote.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, current.String())

	return fields
}
