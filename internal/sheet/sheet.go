// Package sheet converts spreadsheet files (.xlsx, .csv) to and from rows of
// named cells. It is the only package that touches spreadsheet encodings;
// everything downstream works with Data and Row.
package sheet

// Row is one data row keyed by header text exactly as it appears in the
// source sheet. Header order is not carried here; Data.Headers preserves it.
type Row map[string]string

// Data is a parsed sheet: the header row in source column order, plus one
// Row per data line.
type Data struct {
	Headers []string
	Rows    []Row
}

// Get returns the cell for a header, or "" when the row has no such column.
func (r Row) Get(header string) string {
	return r[header]
}
