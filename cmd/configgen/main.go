package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/common"
	"github.com/joseph-ayodele/equipment-config/internal/configstore"
	"github.com/joseph-ayodele/equipment-config/internal/core"
	"github.com/joseph-ayodele/equipment-config/internal/equipment"
	"github.com/joseph-ayodele/equipment-config/internal/export"
	"github.com/joseph-ayodele/equipment-config/internal/extract"
	"github.com/joseph-ayodele/equipment-config/internal/llm/openai"
	"github.com/joseph-ayodele/equipment-config/internal/pipeline"
	"github.com/joseph-ayodele/equipment-config/internal/repository"
	"github.com/joseph-ayodele/equipment-config/internal/schema"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		pdf        = flag.String("pdf", "", "datasheet PDF to process (required)")
		equipType  = flag.String("equipment", "", "equipment type, e.g. 'reciprocating compressor' (required)")
		paramsPath = flag.String("params", "", "JSON file of constant parameters (required for reciprocating compressors)")
		out        = flag.String("out", "", "output directory for generated configs (defaults to CONFIG_OUTPUT_DIR)")
		dbURL      = flag.String("db", "", "run-history database DSN (defaults to DB_URL)")
		inmem      = flag.Bool("inmem", false, "use an in-memory SQLite run-history database")
		exportPath = flag.String("export", "", "write an XLSX summary of the run to this path (optional)")
	)
	flag.Parse()

	if *pdf == "" {
		printError("Error: --pdf is required\n")
		os.Exit(1)
	}
	if *equipType == "" {
		printError("Error: --equipment is required\n")
		os.Exit(1)
	}
	et, ok := constants.ParseEquipmentType(*equipType)
	if !ok {
		printError("Error: unknown equipment type %q (supported: %v)\n", *equipType, constants.EquipmentTypes())
		os.Exit(1)
	}

	var params map[string]map[string]any
	if *paramsPath != "" {
		b, err := os.ReadFile(*paramsPath)
		if err != nil {
			printError("Error: reading --params: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(b, &params); err != nil {
			printError("Error: parsing --params: %v\n", err)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *out != "" {
		cfg.Output.Dir = *out
	}
	if *dbURL != "" {
		cfg.Database.DSN = *dbURL
	}
	if *inmem {
		cfg.Database.DSN = "file::memory:?cache=shared"
	}
	if cfg.Database.DSN == "" {
		printError("Error: a run-history database is required: set DB_URL, pass --db, or pass --inmem\n")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close db", "error", cerr)
		}
	}()

	registry, err := schema.NewRegistry()
	if err != nil {
		logger.Error("load schema registry", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Timeout:   cfg.Extract.Timeout,
	})
	gateway := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	store := configstore.NewStore(cfg.Output.Dir, logger)

	controller := pipeline.NewController(extractor, registry, gateway, store, logger)
	processor := core.NewProcessor(logger, controller, db)

	runID, err := processor.ProcessDocument(ctx, equipment.RunInput{
		EquipmentType:  et,
		DocumentPath:   *pdf,
		ConstantParams: params,
	})
	if err != nil {
		logger.Error("run failed", "run_id", runID, "error", err)
		os.Exit(1)
	}
	fmt.Printf("run %s completed; configs written to %s\n", runID, cfg.Output.Dir)

	if *exportPath != "" {
		svc := export.NewService(db, logger)
		b, err := svc.ExportRunXLSX(ctx, runID)
		if err != nil {
			logger.Error("export failed", "run_id", runID, "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*exportPath, b, 0o644); err != nil {
			logger.Error("write export", "path", *exportPath, "error", err)
			os.Exit(1)
		}
		fmt.Printf("run summary written to %s\n", *exportPath)
	}
}
