package tasks

import (
	"encoding/csv"
	"fmt"
	"io"
)

// FromSheet converts the cell values returned by the Google Sheets API into rows. The API omits
// trailing blank cells so rows are padded to the width of the header.
func FromSheet(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))

	width := 0
	if len(values) > 0 {
		width = len(values[0])
	}

	for _, v := range values {
		row := make([]string, max(width, len(v)))
		for i, cell := range v {
			if cell != nil {
				row[i] = fmt.Sprintf("%v", cell)
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// MakeCSV writes the cell values of a task worksheet as a CSV file that can be uploaded with 'upload
// --file'. The header must include the Type, Subtype and Item columns. Blank rows are dropped.
func MakeCSV(f io.Writer, values [][]any) error {
	if len(values) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	rows := FromSheet(values)

	// ... header
	header := make([]string, len(rows[0]))
	index := map[string]bool{}
	for i, v := range rows[0] {
		header[i] = clean(v)
		index[normalise(v)] = true
	}

	if len(header) == 0 {
		return fmt.Errorf("Missing/invalid header row")
	}

	for _, column := range []string{colType, colSubtype, colItem} {
		if !index[column] {
			return fmt.Errorf("Missing '%s' column", columns[column])
		}
	}

	// ... records
	records := [][]string{}
	for _, row := range rows[1:] {
		record := make([]string, len(header))
		blank := true
		for i := range header {
			if i < len(row) {
				record[i] = clean(row[i])
			}

			if record[i] != "" {
				blank = false
			}
		}

		if !blank {
			records = append(records, record)
		}
	}

	// ... write to file
	w := csv.NewWriter(f)

	w.Write(header)
	for _, record := range records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}
