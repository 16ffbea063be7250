package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

func TestValidateExportFile(t *testing.T) {
	v := NewFileValidator(nil)
	base := t.TempDir()

	valid := filepath.Join(base, "export.csv")
	require.NoError(t, os.WriteFile(valid, []byte("Q1\nq?\nmeta\na\n"), 0o644))

	empty := filepath.Join(base, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	wrongExt := filepath.Join(base, "export.pdf")
	require.NoError(t, os.WriteFile(wrongExt, []byte("x"), 0o644))

	tsv := filepath.Join(base, "export.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("Q1\tQ2\n"), 0o644))

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "valid csv", path: valid},
		{name: "valid tsv", path: tsv},
		{name: "missing file", path: filepath.Join(base, "absent.csv"), wantType: apperrors.ErrTypeNotFound},
		{name: "directory", path: base, wantType: apperrors.ErrTypeValidation},
		{name: "empty file", path: empty, wantType: apperrors.ErrTypeValidation},
		{name: "wrong extension", path: wrongExt, wantType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateExportFile(tt.path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestValidateExportFileXLSX(t *testing.T) {
	v := NewFileValidator(nil)

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not really a workbook"), 0o644))

	// Extension and size checks pass; content is the reader's concern.
	assert.NoError(t, v.ValidateExportFile(path))
}
