package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for all environment variables read by envconfig.
// The original dataset tooling used 74BZS_* variables; Go identifiers and
// envconfig both want a leading letter, hence SURVEY74BZS.
const EnvPrefix = "SURVEY74BZS"

// Config represents the complete application configuration
type Config struct {
	Fetch     FetchConfig     `yaml:"fetch" envconfig:"FETCH"`
	Compile   CompileConfig   `yaml:"compile" envconfig:"COMPILE"`
	Transform TransformConfig `yaml:"transform" envconfig:"TRANSFORM"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// FetchConfig controls what gets downloaded and from where.
type FetchConfig struct {
	// RawDataset mirrors the -r/--raw-dataset flag: when true the raw
	// export is fetched into (and kept under) the output directory.
	RawDataset bool `yaml:"raw_dataset" envconfig:"RAW_DATASET" default:"false"`
	// Docs mirrors the -n/--no-docs flag: supplemental documentation is
	// fetched unless this is turned off.
	Docs bool `yaml:"docs" envconfig:"DOCS" default:"true"`

	ExportURL string `yaml:"export_url" envconfig:"EXPORT_URL" default:"https://osf.io/download/q2bxh/"`
	// ProjectURL is where the remote files live; used only for messages.
	ProjectURL string `yaml:"project_url" envconfig:"PROJECT_URL" default:"https://doi.org/10.17605/osf.io/74bzs"`

	// RequestsPerSecond paces requests against the remote host.
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"2"`
}

// CompileConfig fixes the shape of the source export. The header-row count
// and combination rule are dictated by the survey platform's export
// convention, not inferred from the data.
type CompileConfig struct {
	// HeaderRows is the number of leading non-data rows: identifiers,
	// question text, import metadata.
	HeaderRows int `yaml:"header_rows" envconfig:"HEADER_ROWS" default:"3"`
	// Delimiter is the field separator of the raw export, one character.
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" default:","`
}

// DelimiterRune returns the configured field delimiter as a rune.
func (c CompileConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	return []rune(c.Delimiter)[0]
}

// TransformConfig controls the codebook pass applied after compilation.
type TransformConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	// CodebookFile overrides the built-in codebook when set.
	CodebookFile string `yaml:"codebook_file" envconfig:"CODEBOOK_FILE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/compiler.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutputDir    string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data"`
	RawExport    string `yaml:"raw_export" envconfig:"RAW_EXPORT" default:"qualtrics-survey-data.csv"`
	CompiledFile string `yaml:"compiled_file" envconfig:"COMPILED_FILE" default:"compiled-survey-data.csv"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		fileConfig, err := parseFile(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
		if err := applyFileBooleans(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// parseFile parses configuration from YAML file contents
func parseFile(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// fileBools mirrors the boolean settings with pointers so that a value
// present in the file is distinguishable from an absent one.
type fileBools struct {
	Fetch struct {
		RawDataset *bool `yaml:"raw_dataset"`
		Docs       *bool `yaml:"docs"`
	} `yaml:"fetch"`
	Transform struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"transform"`
}

// applyFileBooleans merges boolean file settings. Booleans cannot use the
// zero-value merge because false is indistinguishable from unset, so they
// are re-read with pointer fields; a file value applies only when the
// corresponding environment variable is absent, keeping env precedence.
func applyFileBooleans(data []byte, cfg *Config) error {
	var fb fileBools
	if err := yaml.Unmarshal(data, &fb); err != nil {
		return err
	}
	setBoolFromFile(&cfg.Fetch.RawDataset, fb.Fetch.RawDataset, "FETCH_RAW_DATASET")
	setBoolFromFile(&cfg.Fetch.Docs, fb.Fetch.Docs, "FETCH_DOCS")
	setBoolFromFile(&cfg.Transform.Enabled, fb.Transform.Enabled, "TRANSFORM_ENABLED")
	return nil
}

func setBoolFromFile(dst *bool, fileValue *bool, envKey string) {
	if fileValue == nil {
		return
	}
	if _, set := os.LookupEnv(EnvPrefix + "_" + envKey); set {
		return
	}
	*dst = *fileValue
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Fetch.ExportURL == "" {
		envConfig.Fetch.ExportURL = fileConfig.Fetch.ExportURL
	}
	if envConfig.Fetch.ProjectURL == "" {
		envConfig.Fetch.ProjectURL = fileConfig.Fetch.ProjectURL
	}
	if envConfig.Fetch.RequestsPerSecond == 0 {
		envConfig.Fetch.RequestsPerSecond = fileConfig.Fetch.RequestsPerSecond
	}
	if envConfig.Compile.HeaderRows == 0 {
		envConfig.Compile.HeaderRows = fileConfig.Compile.HeaderRows
	}
	if envConfig.Compile.Delimiter == "" {
		envConfig.Compile.Delimiter = fileConfig.Compile.Delimiter
	}
	if envConfig.Transform.CodebookFile == "" {
		envConfig.Transform.CodebookFile = fileConfig.Transform.CodebookFile
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.OutputDir == "" {
		envConfig.Paths.OutputDir = fileConfig.Paths.OutputDir
	}
	if envConfig.Paths.RawExport == "" {
		envConfig.Paths.RawExport = fileConfig.Paths.RawExport
	}
	if envConfig.Paths.CompiledFile == "" {
		envConfig.Paths.CompiledFile = fileConfig.Paths.CompiledFile
	}

	return envConfig
}

// getConfigFilePath returns the config file path, overridable for tests
// and alternate deployments via SURVEY74BZS_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks configuration values
func (c *Config) validate() error {
	if c.Compile.HeaderRows < 1 {
		return fmt.Errorf("compile.header_rows must be at least 1, got %d", c.Compile.HeaderRows)
	}
	if c.Compile.Delimiter != "" && len([]rune(c.Compile.Delimiter)) != 1 {
		return fmt.Errorf("compile.delimiter must be a single character, got %q", c.Compile.Delimiter)
	}
	if c.Fetch.ExportURL == "" {
		return fmt.Errorf("fetch.export_url must not be empty")
	}
	if !strings.HasPrefix(c.Fetch.ExportURL, "http://") && !strings.HasPrefix(c.Fetch.ExportURL, "https://") {
		return fmt.Errorf("fetch.export_url must be an http(s) URL, got %q", c.Fetch.ExportURL)
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetch.requests_per_second must be positive, got %v", c.Fetch.RequestsPerSecond)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}
