package sheet

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/contactsheet/formatter/internal/contact"
)

func sampleRecords() []contact.Record {
	return []contact.Record{
		{
			FirstName:     "Jane",
			LastName:      "Doe",
			Email:         "jane@example.com",
			BorrowerStage: contact.StageClient,
			Extras:        map[string]string{"Fax": "555-0199", "Branch": "North"},
		},
		{
			FirstName:     "Madonna",
			BorrowerStage: contact.StageProspect,
			Extras:        map[string]string{"Branch": "South"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Fixed columns in declaration order, extras sorted after them.
	wantHeader := append(append([]string{}, contact.Columns...), "Branch", "Fax")
	assert.Equal(t, wantHeader, rows[0])

	assert.Equal(t, "Jane", rows[1][0])
	assert.Equal(t, "Client", rows[1][9])
	assert.Equal(t, "North", rows[1][len(contact.Columns)])
	assert.Equal(t, "555-0199", rows[1][len(contact.Columns)+1])

	// Missing extras render as empty cells, not shifted columns.
	assert.Equal(t, "South", rows[2][len(contact.Columns)])
	assert.Equal(t, "", rows[2][len(contact.Columns)+1])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, contact.Columns, rows[0])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, ExportSheetName, f.GetSheetName(0))

	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "First Name", rows[0][0])
	assert.Equal(t, "Jane", rows[1][0])
	assert.Equal(t, "Madonna", rows[2][0])
}

func TestExtraColumns_SortedUnion(t *testing.T) {
	cols := ExtraColumns(sampleRecords())
	assert.Equal(t, []string{"Branch", "Fax"}, cols)
}
