// Package compiler turns a multi-header survey export into a conventional
// single-header table.
//
// Qualtrics-style exports open with a fixed number of header rows: short
// field identifiers first, then the full question text, then a row of
// import metadata. The count and the combination rule are fixed by the
// export format, so they arrive here as configuration rather than being
// sniffed from the data.
package compiler

import (
	"fmt"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

// DefaultHeaderRows is the header-row count of the Qualtrics CSV export
// convention: identifiers, question text, import metadata.
const DefaultHeaderRows = 3

// Compiler collapses the export's header rows into one resolved header.
type Compiler struct {
	headerRows int
}

// New creates a Compiler for an export with the given number of leading
// header rows. Counts below one fall back to DefaultHeaderRows.
func New(headerRows int) *Compiler {
	if headerRows < 1 {
		headerRows = DefaultHeaderRows
	}
	return &Compiler{headerRows: headerRows}
}

// Compile converts the raw export rows into a single-header table.
//
// The identifier row is kept verbatim as the resolved header; the remaining
// header rows are metadata the export format requires but the compiled
// dataset does not. Data rows pass through unchanged in value and order.
// The transformation is pure: identical input always yields identical
// output, and the caller owns writing the result to disk.
func (c *Compiler) Compile(rows [][]string) ([][]string, error) {
	if len(rows) < c.headerRows+1 {
		return nil, apperrors.NewMalformedInputError(
			fmt.Sprintf("export must contain %d header rows and at least one data row, got %d rows total", c.headerRows, len(rows)),
			nil,
		).WithContext("rows", len(rows)).WithContext("header_rows", c.headerRows)
	}

	width := len(rows[0])
	if width == 0 {
		return nil, apperrors.NewMalformedInputError("identifier row has no columns", nil)
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, apperrors.NewMalformedInputError(
				fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), width),
				nil,
			).WithContext("row", i+1).WithContext("columns", len(row)).WithContext("expected", width)
		}
	}

	compiled := make([][]string, 0, len(rows)-c.headerRows+1)
	compiled = append(compiled, rows[0])
	compiled = append(compiled, rows[c.headerRows:]...)
	return compiled, nil
}

// Header returns the resolved header of a compiled table.
func Header(compiled [][]string) []string {
	if len(compiled) == 0 {
		return nil
	}
	return compiled[0]
}

// Records returns the data rows of a compiled table.
func Records(compiled [][]string) [][]string {
	if len(compiled) < 2 {
		return nil
	}
	return compiled[1:]
}
