package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReader_CSV(t *testing.T) {
	data := []byte("Name,Email,Phone\nJane Doe,jane@example.com,555-0100\nBob,,555-0101\n")

	parsed, err := NewReader("contacts.csv").Read(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Email", "Phone"}, parsed.Headers)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "Jane Doe", parsed.Rows[0].Get("Name"))
	assert.Equal(t, "jane@example.com", parsed.Rows[0].Get("Email"))
	assert.Equal(t, "", parsed.Rows[1].Get("Email"))
}

func TestReader_CSVShortRow(t *testing.T) {
	data := []byte("A,B,C\n1,2\n")

	parsed, err := NewReader("x.csv").Read(data)
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "2", parsed.Rows[0].Get("B"))
	assert.Equal(t, "", parsed.Rows[0].Get("C"))
}

func TestReader_CSVInvalidUTF8(t *testing.T) {
	data := []byte("Name\n")
	data = append(data, 0xff, 0xfe, 'x', '\n')

	parsed, err := NewReader("x.csv").Read(data)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	// Invalid bytes are replaced, never dropped silently.
	assert.Contains(t, parsed.Rows[0].Get("Name"), "x")
}

func TestReader_HeaderOnly(t *testing.T) {
	_, err := NewReader("x.csv").Read([]byte("Name,Email\n"))
	assert.ErrorContains(t, err, "empty file")
}

func TestReader_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"First Name", "Last Name", "Email"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Jane", "Doe", "jane@example.com"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	parsed, err := NewReader("contacts.xlsx").Read(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"First Name", "Last Name", "Email"}, parsed.Headers)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "Jane", parsed.Rows[0].Get("First Name"))
	assert.Equal(t, "Doe", parsed.Rows[0].Get("Last Name"))
}

func TestReader_XLSXGarbage(t *testing.T) {
	_, err := NewReader("contacts.xlsx").Read([]byte("this is not a workbook"))
	assert.Error(t, err)
}
