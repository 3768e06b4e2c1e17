package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/equipment-config/internal/common"
)

// Config for the pdftotext-backed extractor.
type Config struct {
	Pdftotext string // binary name or path; defaults to "pdftotext"
	Timeout   time.Duration
}

// Extractor shells out to pdftotext in layout mode, which keeps the datasheet
// table columns positionally aligned — the combination enumerator depends on
// that alignment.
type Extractor struct {
	cfg    Config
	runner Runner
}

func NewExtractor(cfg Config) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}}
}

// NewExtractorWithRunner is for tests.
func NewExtractorWithRunner(cfg Config, r Runner) *Extractor {
	e := NewExtractor(cfg)
	e.runner = r
	return e
}

func (e *Extractor) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("pdftotext %s: %v: %w", path, err, common.ErrTextExtraction)
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return TextExtractionResult{}, fmt.Errorf("no text extracted from %s: %w", path, common.ErrTextExtraction)
	}

	res := TextExtractionResult{
		Text:     text,
		Pages:    1 + strings.Count(text, "\f"), // form feed is the page separator
		Method:   "pdf-text",
		Duration: time.Since(start),
	}
	if len(errb) > 0 {
		res.Warnings = []string{string(errb)}
	}
	return res, nil
}
