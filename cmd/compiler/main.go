// Command compiler downloads the survey export and supplemental documents,
// collapses the export's multi-row header into one, applies the dataset
// codebook, and writes the compiled CSV into the output directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/compiler"
	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/config"
	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/exporter"
	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/fetcher"
	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/infrastructure"
	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/transform"
	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/validation"
)

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override environment and file configuration. Short and long
	// spellings match the original tooling.
	flag.BoolVar(&cfg.Fetch.RawDataset, "r", cfg.Fetch.RawDataset, "keep the raw export in the output directory")
	flag.BoolVar(&cfg.Fetch.RawDataset, "raw-dataset", cfg.Fetch.RawDataset, "keep the raw export in the output directory")
	noDocs := flag.Bool("n", !cfg.Fetch.Docs, "skip downloading supplemental documentation")
	flag.BoolVar(noDocs, "no-docs", !cfg.Fetch.Docs, "skip downloading supplemental documentation")
	input := flag.String("input", "", "use a local export file instead of downloading")
	out := flag.String("out", "", "output directory (defaults to "+cfg.Paths.OutputDir+")")
	flag.Parse()
	cfg.Fetch.Docs = !*noDocs
	if *out != "" {
		cfg.Paths.OutputDir = *out
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" || cfg.Logging.FilePath == "logs/compiler.log" {
		cfg.Logging.FilePath = paths.GetLogPath("compiler.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.NewRunContext(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	logger.Info("Survey export compiler starting",
		slog.String("output_dir", paths.OutputDir),
		slog.Bool("raw_dataset", cfg.Fetch.RawDataset),
		slog.Bool("docs", cfg.Fetch.Docs))

	if err := run(ctx, cfg, paths, *input, logger); err != nil {
		logger.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes one compile pass: fetch, compile, transform, write, docs.
// All failures are fatal; rerunning the tool is the recovery strategy.
func run(ctx context.Context, cfg *config.Config, paths *config.Paths, input string, logger *slog.Logger) error {
	// The run is idempotent at the file level: an existing compiled file
	// means there is nothing to do.
	if _, err := os.Stat(paths.CompiledFile); err == nil {
		logger.Info("Compiled file already exists, exiting early",
			slog.String("path", paths.CompiledFile))
		return nil
	}

	client := fetcher.NewClient(cfg.Fetch, logger)

	rawPath := input
	if rawPath == "" {
		// Without -r the raw export is kept next to the invocation and
		// not treated as part of the published output.
		rawPath = cfg.Paths.RawExport
		if cfg.Fetch.RawDataset {
			rawPath = paths.RawExport
		}
		if err := client.Download(ctx, cfg.Fetch.ExportURL, rawPath); err != nil {
			return err
		}
	}

	if err := validation.NewFileValidator(logger).ValidateExportFile(rawPath); err != nil {
		return err
	}

	rows, err := compiler.ReadExport(rawPath, cfg.Compile.DelimiterRune())
	if err != nil {
		return err
	}

	compiled, err := compiler.New(cfg.Compile.HeaderRows).Compile(rows)
	if err != nil {
		return err
	}
	header := compiler.Header(compiled)
	records := compiler.Records(compiled)
	logger.Info("Export compiled",
		slog.Int("columns", len(header)),
		slog.Int("records", len(records)))

	if cfg.Transform.Enabled {
		codebook := transform.DefaultCodebook()
		if cfg.Transform.CodebookFile != "" {
			codebook, err = transform.LoadCodebook(cfg.Transform.CodebookFile)
			if err != nil {
				return err
			}
		}
		header, records, err = codebook.Apply(header, records)
		if err != nil {
			return err
		}
		logger.Info("Codebook applied", slog.Int("columns", len(header)))
	}

	writer := exporter.NewCSVWriter(paths)
	stream, err := writer.CreateStreamWriter(paths.CompiledFile, header)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return err
		}
	}
	if err := stream.Close(); err != nil {
		return err
	}
	logger.Info("Compiled dataset written", slog.String("path", paths.CompiledFile))

	if cfg.Fetch.Docs {
		if err := client.FetchDocs(ctx, paths.OutputDir); err != nil {
			return err
		}
	}

	return nil
}
