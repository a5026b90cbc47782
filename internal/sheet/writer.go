package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/contactsheet/formatter/internal/contact"
)

// Export naming is fixed: every download is the same file regardless of the
// input sheet, matching the one-file one-pass model.
const (
	ExportSheetName   = "Formatted Data"
	ExportCSVName     = "formatted_contacts.csv"
	ExportXLSXName    = "formatted_contacts.xlsx"
)

// ExtraColumns returns the union of Extras keys across records, sorted, so
// unmapped source columns survive export with a stable column order.
func ExtraColumns(records []contact.Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r.Extras {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// exportRows builds the full header row and per-record cell rows: the fixed
// contact columns in declaration order, then extras columns.
func exportRows(records []contact.Record) ([]string, [][]string) {
	extraCols := ExtraColumns(records)
	header := append(append([]string{}, contact.Columns...), extraCols...)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := r.Values()
		for _, col := range extraCols {
			row = append(row, r.Extras[col])
		}
		rows = append(rows, row)
	}
	return header, rows
}

// WriteCSV writes records as CSV to w. The column order follows the output
// record's field declaration order, not the input sheet's.
func WriteCSV(w io.Writer, records []contact.Record) error {
	header, rows := exportRows(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes records as a single-sheet workbook named ExportSheetName.
func WriteXLSX(w io.Writer, records []contact.Record) error {
	header, rows := exportRows(records)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	writeRow := func(rowNum int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(ExportSheetName, cell, &cells)
	}

	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}
