package compiler

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

// ReadExport reads a raw survey export into rows. CSV is the platform's
// default export; xlsx is accepted because the platform offers it as an
// alternative download format. A zero delimiter means comma.
func ReadExport(path string, delimiter rune) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path, delimiter)
	}
}

// readCSV reads a delimited export with standard CSV quoting.
func readCSV(path string, delimiter rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open export", err).WithContext("file", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	// Ragged rows are reported by Compile with row context rather than
	// aborted mid-read here.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewMalformedInputError("failed to parse export as CSV", err).WithContext("file", path)
	}
	return rows, nil
}

// readXLSX reads the first sheet that contains any rows.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open export workbook", err).WithContext("file", path)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err == nil && len(rows) > 0 {
			return padRows(rows), nil
		}
	}
	return nil, apperrors.NewMalformedInputError("export workbook contains no data sheet", nil).WithContext("file", path)
}

// padRows restores trailing empty cells that the workbook reader trims, so
// every row comes back at the sheet's full width.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}
