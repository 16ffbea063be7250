package transform

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

// Apply transforms a compiled table according to the codebook. The returned
// header starts with the index column followed by the codebook columns in
// order; each record is recoded positionally to match.
func (cb *Codebook) Apply(header []string, records [][]string) ([]string, [][]string, error) {
	indexPos, err := columnPosition(header, cb.Index.Source)
	if err != nil {
		return nil, nil, err
	}

	positions := make([]int, len(cb.Columns))
	for i, col := range cb.Columns {
		pos, err := columnPosition(header, col.Source)
		if err != nil {
			return nil, nil, err
		}
		positions[i] = pos
	}

	outHeader := make([]string, 0, len(cb.Columns)+1)
	outHeader = append(outHeader, cb.indexName())
	for _, col := range cb.Columns {
		outHeader = append(outHeader, col.Name)
	}

	outRecords := make([][]string, 0, len(records))
	for rowNum, record := range records {
		out := make([]string, 0, len(outHeader))
		out = append(out, record[indexPos])
		for i, col := range cb.Columns {
			cell := record[positions[i]]
			if col.Remap == nil {
				out = append(out, cell)
				continue
			}
			coded, err := col.Remap.recode(cell)
			if err != nil {
				return nil, nil, apperrors.NewValidationError(
					fmt.Sprintf("cannot recode %q in column %s", cell, col.Name),
				).WithContext("column", col.Name).WithContext("row", rowNum+1)
			}
			out = append(out, strconv.Itoa(coded))
		}
		outRecords = append(outRecords, out)
	}

	return outHeader, outRecords, nil
}

// indexName returns the published name of the index column.
func (cb *Codebook) indexName() string {
	if cb.Index.Name != "" {
		return cb.Index.Name
	}
	return cb.Index.Source
}

// recode maps one answer string to its integer code.
func (r *RemapSpec) recode(cell string) (int, error) {
	if cell == "" {
		return r.missingValue(), nil
	}

	if r.Kind == RemapBitfield {
		// The answer is a comma-separated multi-select; each option sets
		// its mapped bit.
		var result int
		for _, value := range strings.Split(cell, ",") {
			bit, ok := r.Values[value]
			if !ok {
				return 0, fmt.Errorf("unknown value %q", value)
			}
			result |= 1 << bit
		}
		return result, nil
	}

	coded, ok := r.Values[cell]
	if !ok {
		return 0, fmt.Errorf("unknown value %q", cell)
	}
	return coded, nil
}

// columnPosition finds the position of a named column in the header.
func columnPosition(header []string, name string) (int, error) {
	for i, col := range header {
		if col == name {
			return i, nil
		}
	}
	return 0, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
}
