package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations in a run.
type Paths struct {
	OutputDir string
	LogsDir   string

	// Well-known files
	RawExport    string // raw survey export inside the output directory
	CompiledFile string // single-header CSV produced by the compiler
}

// Supplemental documentation files distributed alongside the compiled
// dataset. Names are fixed by the remote project layout.
const (
	ContentLicenseFile     = "CONTENT-LICENSE"
	DatasetDescriptionFile = "dataset-description.pdf"
	ExplanationsFile       = "explanations.pdf"
)

// NewPaths builds the path set from configuration. Relative paths resolve
// against the current working directory, matching how the tool is invoked
// from a checkout.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		OutputDir:    cfg.OutputDir,
		LogsDir:      "logs",
		RawExport:    filepath.Join(cfg.OutputDir, cfg.RawExport),
		CompiledFile: filepath.Join(cfg.OutputDir, cfg.CompiledFile),
	}
}

// EnsureDirectories creates the directories a run writes into.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetOutputPath returns the path of a file inside the output directory.
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path of a file inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
