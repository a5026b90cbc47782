package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Reader parses spreadsheet bytes into Data. The format is chosen from the
// file name extension: .csv is parsed as CSV, everything else as xlsx.
type Reader struct {
	fileName string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader for the named file.
func NewReader(fileName string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(fileName)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{fileName: fileName, fileType: fileType}
}

// Read parses the file contents. The first row of the first sheet is the
// header; every following row becomes one Row keyed by header text.
func (r *Reader) Read(data []byte) (*Data, error) {
	slog.Debug("reading sheet", "file", r.fileName, "type", r.fileType, "bytes", len(data))

	var rows [][]string
	var err error

	switch r.fileType {
	case "csv":
		rows, err = readCSVRows(data)
	case "xlsx":
		rows, err = readExcelRows(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("empty file: need a header row and at least one data row")
	}

	return buildData(rows), nil
}

func readCSVRows(data []byte) ([][]string, error) {
	data = sanitizeUTF8(data)
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return rows, nil
}

func readExcelRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

// buildData turns raw string rows into Data. Cells beyond the header width
// are dropped; short rows simply lack those keys.
func buildData(rows [][]string) *Data {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	dataRows := make([]Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		for j, cell := range raw {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, row)
	}

	slog.Debug("sheet parsed", "columns", len(headers), "rows", len(dataRows))
	return &Data{Headers: headers, Rows: dataRows}
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune so
// the CSV reader never chokes on mixed encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
