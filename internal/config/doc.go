// Package config provides centralized configuration management for the
// survey export compiler. It handles loading configuration from multiple
// sources, validation, and the path layout of a run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by the cmd layer, highest priority)
//	2. Environment variables
//	3. Configuration file (YAML)
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SURVEY74BZS_* for
// namespacing:
//
//	SURVEY74BZS_FETCH_RAW_DATASET=true
//	SURVEY74BZS_FETCH_DOCS=false
//	SURVEY74BZS_COMPILE_HEADER_ROWS=3
//	SURVEY74BZS_LOGGING_LEVEL=debug
//	SURVEY74BZS_PATHS_OUTPUT_DIR=data
//
// SURVEY74BZS_CONFIG_FILE points the loader at an alternate YAML file;
// the default is config.yaml in the working directory.
//
// # Paths
//
// Paths is the single source of truth for where a run reads and writes:
// the output directory receives the compiled dataset, optionally the raw
// export, and the supplemental documentation files.
package config
