package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the loader at a nonexistent config file so tests
// never pick up a config.yaml from the working directory.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPrefix+"_CONFIG_FILE", filepath.Join(t.TempDir(), "no-config.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Fetch.RawDataset)
	assert.True(t, cfg.Fetch.Docs)
	assert.Equal(t, "https://osf.io/download/q2bxh/", cfg.Fetch.ExportURL)
	assert.Equal(t, 3, cfg.Compile.HeaderRows)
	assert.Equal(t, ",", cfg.Compile.Delimiter)
	assert.True(t, cfg.Transform.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data", cfg.Paths.OutputDir)
	assert.Equal(t, "qualtrics-survey-data.csv", cfg.Paths.RawExport)
	assert.Equal(t, "compiled-survey-data.csv", cfg.Paths.CompiledFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv(EnvPrefix+"_FETCH_RAW_DATASET", "true")
	t.Setenv(EnvPrefix+"_FETCH_DOCS", "false")
	t.Setenv(EnvPrefix+"_COMPILE_HEADER_ROWS", "2")
	t.Setenv(EnvPrefix+"_LOGGING_LEVEL", "debug")
	t.Setenv(EnvPrefix+"_PATHS_OUTPUT_DIR", "out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Fetch.RawDataset)
	assert.False(t, cfg.Fetch.Docs)
	assert.Equal(t, 2, cfg.Compile.HeaderRows)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "out", cfg.Paths.OutputDir)
}

func TestLoadFileConfig(t *testing.T) {
	content := `
transform:
  codebook_file: custom-codebook.yaml
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "custom-codebook.yaml", cfg.Transform.CodebookFile)
}

func TestLoadFileBooleans(t *testing.T) {
	// Booleans cannot ride the zero-value merge, so they get their own
	// presence-aware pass.
	content := `
fetch:
  raw_dataset: true
  docs: false
transform:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Fetch.RawDataset)
	assert.False(t, cfg.Fetch.Docs)
	assert.False(t, cfg.Transform.Enabled)
}

func TestLoadFileBooleansPartial(t *testing.T) {
	// Settings absent from the file keep their defaults.
	content := `
fetch:
  raw_dataset: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Fetch.RawDataset)
	assert.True(t, cfg.Fetch.Docs)
	assert.True(t, cfg.Transform.Enabled)
}

func TestLoadFileBooleansEnvWins(t *testing.T) {
	content := `
fetch:
  raw_dataset: true
  docs: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)
	t.Setenv(EnvPrefix+"_FETCH_RAW_DATASET", "false")

	cfg, err := Load()
	require.NoError(t, err)

	// The env variable is explicit, the file loses; docs has no env
	// setting, so the file value stands.
	assert.False(t, cfg.Fetch.RawDataset)
	assert.True(t, cfg.Fetch.Docs)
}

func TestLoadFileConfigEnvWins(t *testing.T) {
	content := `
transform:
  codebook_file: from-file.yaml
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)
	t.Setenv(EnvPrefix+"_TRANSFORM_CODEBOOK_FILE", "from-env.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env.yaml", cfg.Transform.CodebookFile)
}

func TestLoadInvalidFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{broken yaml"), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "header rows below one",
			env:     map[string]string{EnvPrefix + "_COMPILE_HEADER_ROWS": "0"},
			wantErr: "header_rows",
		},
		{
			name:    "export url not http",
			env:     map[string]string{EnvPrefix + "_FETCH_EXPORT_URL": "ftp://example.org/file"},
			wantErr: "export_url",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{EnvPrefix + "_LOGGING_LEVEL": "verbose"},
			wantErr: "logging.level",
		},
		{
			name:    "non-positive request rate",
			env:     map[string]string{EnvPrefix + "_FETCH_REQUESTS_PER_SECOND": "-1"},
			wantErr: "requests_per_second",
		},
		{
			name:    "multi-character delimiter",
			env:     map[string]string{EnvPrefix + "_COMPILE_DELIMITER": "||"},
			wantErr: "delimiter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ',', CompileConfig{}.DelimiterRune())
	assert.Equal(t, ',', CompileConfig{Delimiter: ","}.DelimiterRune())
	assert.Equal(t, '\t', CompileConfig{Delimiter: "\t"}.DelimiterRune())
	assert.Equal(t, ';', CompileConfig{Delimiter: ";"}.DelimiterRune())
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths(PathsConfig{
		OutputDir:    "data",
		RawExport:    "raw.csv",
		CompiledFile: "compiled.csv",
	})

	assert.Equal(t, "data", paths.OutputDir)
	assert.Equal(t, filepath.Join("data", "raw.csv"), paths.RawExport)
	assert.Equal(t, filepath.Join("data", "compiled.csv"), paths.CompiledFile)
	assert.Equal(t, filepath.Join("data", "extra.pdf"), paths.GetOutputPath("extra.pdf"))
	assert.Equal(t, filepath.Join("logs", "compiler.log"), paths.GetLogPath("compiler.log"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(PathsConfig{
		OutputDir:    filepath.Join(base, "data"),
		RawExport:    "raw.csv",
		CompiledFile: "compiled.csv",
	})
	paths.LogsDir = filepath.Join(base, "logs")

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.OutputDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
