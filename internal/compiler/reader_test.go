package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

func writeTempExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadExportCSV(t *testing.T) {
	path := writeTempExport(t, "export.csv",
		"Q1,Q2\n"+
			"Favorite color?,Age?\n"+
			"\"{\"\"ImportId\"\":\"\"QID1\"\"}\",meta\n"+
			"red,30\n"+
			"\"value, with comma\",25\n")

	rows, err := ReadExport(path, 0)
	require.NoError(t, err)

	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Q1", "Q2"}, rows[0])
	assert.Equal(t, []string{`{"ImportId":"QID1"}`, "meta"}, rows[2])
	assert.Equal(t, []string{"value, with comma", "25"}, rows[4])
}

func TestReadExportTabDelimited(t *testing.T) {
	path := writeTempExport(t, "export.tsv",
		"Q1\tQ2\n"+
			"Favorite color?\tAge?\n"+
			"meta\tmeta\n"+
			"red, not blue\t30\n")

	rows, err := ReadExport(path, '\t')
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Q1", "Q2"}, rows[0])
	assert.Equal(t, []string{"red, not blue", "30"}, rows[3])
}

func TestReadExportCSVRaggedRowsSurviveRead(t *testing.T) {
	// Ragged rows are Compile's responsibility to reject with row context.
	path := writeTempExport(t, "ragged.csv", "Q1,Q2\nonly-one\n")

	rows, err := ReadExport(path, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 1)
}

func TestReadExportMissingFile(t *testing.T) {
	_, err := ReadExport(filepath.Join(t.TempDir(), "absent.csv"), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestReadExportBadQuoting(t *testing.T) {
	path := writeTempExport(t, "bad.csv", "Q1,Q2\n\"unterminated,30\n")

	_, err := ReadExport(path, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

// writeTempWorkbook builds an xlsx export where each row is set cell by
// cell, leaving trailing empty cells genuinely unset in the sheet.
func writeTempWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, cell))
		}
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestReadExportXLSX(t *testing.T) {
	path := writeTempWorkbook(t, [][]string{
		{"Q1", "Q2"},
		{"Favorite color?", "Age?"},
		{"meta", "meta"},
		{"red", "30"},
	})

	rows, err := ReadExport(path, 0)
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Q1", "Q2"}, rows[0])
	assert.Equal(t, []string{"red", "30"}, rows[3])
}

func TestReadExportXLSXPadsTrailingEmptyCells(t *testing.T) {
	// The workbook reader trims trailing empty cells, so a row whose last
	// answer is blank comes back short; ReadExport must restore the full
	// width so a well-formed workbook compiles.
	path := writeTempWorkbook(t, [][]string{
		{"Q1", "Q2"},
		{"Favorite color?", "Age?"},
		{"meta", "meta"},
		{"red", "30"},
		{"blue", ""},
	})

	rows, err := ReadExport(path, 0)
	require.NoError(t, err)

	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Len(t, row, 2, "row %d must be padded to sheet width", i)
	}
	assert.Equal(t, []string{"blue", ""}, rows[4])

	compiled, err := New(3).Compile(rows)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Q1", "Q2"},
		{"red", "30"},
		{"blue", ""},
	}, compiled)
}

func TestReadExportXLSXMissingFile(t *testing.T) {
	_, err := ReadExport(filepath.Join(t.TempDir(), "absent.xlsx"), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestPadRows(t *testing.T) {
	rows := padRows([][]string{
		{"a", "b", "c"},
		{"d"},
		{},
	})

	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"d", "", ""},
		{"", "", ""},
	}, rows)
}
