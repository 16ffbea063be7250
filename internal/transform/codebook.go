// Package transform applies a codebook to a compiled survey table: columns
// are renamed and reordered, and categorical answers are recoded as
// integers so the published dataset is analysis-ready.
package transform

import (
	"os"

	"gopkg.in/yaml.v2"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

// Remap kinds supported by the codebook.
const (
	// RemapValue maps each answer string to a single integer.
	RemapValue = "value"
	// RemapBitfield maps a comma-separated multi-select answer to a bit
	// field: each selected option sets the bit at its mapped position.
	RemapBitfield = "bitfield"
)

// Codebook describes how a compiled table becomes the published dataset.
type Codebook struct {
	// Index names the column used as the leading identifier column.
	Index IndexSpec `yaml:"index"`
	// Columns lists the output columns in their published order. Source
	// columns not listed here are dropped.
	Columns []ColumnSpec `yaml:"columns"`
}

// IndexSpec renames the identifier column.
type IndexSpec struct {
	Source string `yaml:"source"`
	Name   string `yaml:"name"`
}

// ColumnSpec renames one column and optionally recodes its values.
type ColumnSpec struct {
	Source string     `yaml:"source"`
	Name   string     `yaml:"name"`
	Remap  *RemapSpec `yaml:"remap,omitempty"`
}

// RemapSpec recodes a column's answer strings as integers.
type RemapSpec struct {
	Kind   string         `yaml:"kind"`
	Values map[string]int `yaml:"values"`
	// Missing is the integer written for an empty cell. Defaults to -1
	// for value remaps and 0 for bit fields.
	Missing *int `yaml:"missing,omitempty"`
}

// missingValue resolves the sentinel written for empty cells.
func (r *RemapSpec) missingValue() int {
	if r.Missing != nil {
		return *r.Missing
	}
	if r.Kind == RemapBitfield {
		return 0
	}
	return -1
}

// LoadCodebook reads a codebook from a YAML file.
func LoadCodebook(path string) (*Codebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read codebook", err).WithContext("file", path)
	}

	var cb Codebook
	if err := yaml.Unmarshal(data, &cb); err != nil {
		return nil, apperrors.NewConfigError("failed to parse codebook", err).WithContext("file", path)
	}
	if err := cb.validate(); err != nil {
		return nil, err
	}
	return &cb, nil
}

// validate checks structural requirements of a codebook.
func (cb *Codebook) validate() error {
	if cb.Index.Source == "" {
		return apperrors.NewValidationError("codebook index.source must not be empty")
	}
	if len(cb.Columns) == 0 {
		return apperrors.NewValidationError("codebook must list at least one column")
	}
	for _, col := range cb.Columns {
		if col.Source == "" || col.Name == "" {
			return apperrors.NewValidationError("codebook columns require both source and name").
				WithContext("source", col.Source).WithContext("name", col.Name)
		}
		if col.Remap != nil {
			switch col.Remap.Kind {
			case RemapValue, RemapBitfield:
			default:
				return apperrors.NewValidationError("codebook remap kind must be value or bitfield").
					WithContext("column", col.Name).WithContext("kind", col.Remap.Kind)
			}
			if len(col.Remap.Values) == 0 {
				return apperrors.NewValidationError("codebook remap requires a values mapping").
					WithContext("column", col.Name)
			}
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

// yesNo is the recode shared by the boolean survey questions.
func yesNo() *RemapSpec {
	return &RemapSpec{Kind: RemapValue, Values: map[string]int{"Yes": 1, "No": 0}}
}

// DefaultCodebook returns the codebook for the reproducibility survey
// dataset this tool was built to publish. The renames, column order, and
// recodes come from the dataset's own documentation.
func DefaultCodebook() *Codebook {
	return &Codebook{
		Index: IndexSpec{Source: "Paper DOI Link", Name: "doi"},
		Columns: []ColumnSpec{
			{Source: "Conference Proceedings", Name: "conference_proceedings"},
			{Source: "Type", Name: "paper_type", Remap: &RemapSpec{
				Kind: RemapValue,
				Values: map[string]int{
					"Research Article": 1,
					"Short paper":      2,
					"Poster":           3,
				},
			}},
			{Source: "Misclassified", Name: "acm_misclassified", Remap: yesNo()},
			{Source: "Open Methodology", Name: "open_methodology", Remap: &RemapSpec{
				Kind: RemapValue,
				Values: map[string]int{
					"Public Access": 3,
					"Open Access":   2,
					"Available":     1,
					"No":            0,
				},
			}},
			{Source: "Open Data", Name: "open_data", Remap: &RemapSpec{
				Kind: RemapValue,
				Values: map[string]int{
					"Yes":                       2,
					"Data Available on Request": 1,
					"No":                        0,
				},
			}},
			{Source: "Data Documentation", Name: "data_documentation", Remap: &RemapSpec{
				Kind: RemapValue,
				Values: map[string]int{
					"Yes":     2,
					"Partial": 1,
					"No":      0,
				},
			}},
			{Source: "Open Materials", Name: "open_materials", Remap: &RemapSpec{
				Kind: RemapValue,
				Values: map[string]int{
					"Full":       3,
					"Partial":    2,
					"On Request": 1,
					"No":         0,
				},
			}},
			{Source: "Materials Documentation", Name: "materials_documentation", Remap: &RemapSpec{
				Kind: RemapValue,
				Values: map[string]int{
					"Full":    2,
					"Partial": 1,
					"No":      0,
				},
			}},
			{Source: "README", Name: "readme", Remap: yesNo()},
			{Source: "License", Name: "permissible_software_license", Remap: yesNo()},
			{Source: "Preregistration", Name: "preregistration", Remap: yesNo()},
			{Source: "Reproducible", Name: "reproducible", Remap: yesNo()},
			{Source: "Reference Degradation", Name: "reference_degradation", Remap: &RemapSpec{
				Kind: RemapBitfield,
				Values: map[string]int{
					"Open Methodology": 0,
					"Open Data":        1,
					"Open Materials":   2,
					"Preregistration":  3,
				},
				Missing: intPtr(0),
			}},
		},
	}
}
