package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/equipment-config/internal/common"
	"github.com/joseph-ayodele/equipment-config/internal/equipment"
	"github.com/joseph-ayodele/equipment-config/internal/extract"
)

// Extracts a datasheet's text and prints it, along with any stage/throw
// combinations found. Handy for checking pdftotext layout output before a
// full pipeline run.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <datasheet.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Timeout:   cfg.Extract.Timeout,
	})
	res, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("extract failed", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("extract ok",
		"path", path,
		"pages", res.Pages,
		"method", res.Method,
		"text_len", len(res.Text),
		"warnings", res.Warnings,
		"elapsed_ms", res.Duration.Milliseconds(),
	)

	combos := equipment.DiscoverCombinations(res.Text)
	logger.Info("combinations", "count", len(combos), "combinations", combos)

	fmt.Print(res.Text)
}
