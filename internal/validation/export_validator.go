// Package validation checks downloaded files before they enter the
// compile pass, so a bad download fails with a clear message instead of a
// confusing parse error.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

// exportExtensions are the formats the survey platform exports.
var exportExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".xlsx": true,
}

// FileValidator provides file validation for the compiler run.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateExportFile checks that the raw export exists, is a regular file,
// is not empty, and carries an export extension.
func (v *FileValidator) ValidateExportFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Export file does not exist",
			slog.String("path", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("export file %s", path))
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat export file", err).WithContext("file", path)
	}
	if info.IsDir() {
		v.logger.Error("Export path is a directory",
			slog.String("path", path))
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not an export file", path))
	}
	if info.Size() == 0 {
		v.logger.Error("Export file is empty",
			slog.String("path", path))
		return apperrors.NewValidationError(fmt.Sprintf("export file %s is empty", path)).WithContext("file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !exportExtensions[ext] {
		v.logger.Error("Export file has an unexpected extension",
			slog.String("path", path),
			slog.String("extension", ext))
		return apperrors.NewValidationError(
			fmt.Sprintf("export file %s must be .csv, .tsv, or .xlsx", path),
		).WithContext("extension", ext)
	}

	v.logger.Info("Export file validated",
		slog.String("path", path),
		slog.Int64("size_bytes", info.Size()))
	return nil
}
