// Package pipeline runs the sequential datasheet-to-config state machine:
// route by equipment type, extract text, load the schema template, then the
// type-specific branch. Reciprocating compressors loop once per stage/throw
// combination; the other types make a single pass.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/calc"
	"github.com/joseph-ayodele/equipment-config/internal/equipment"
	"github.com/joseph-ayodele/equipment-config/internal/extract"
	"github.com/joseph-ayodele/equipment-config/internal/llm"
)

// SchemaRegistry looks up the configuration template for an equipment type.
type SchemaRegistry interface {
	Lookup(et constants.EquipmentType) (map[string]any, error)
}

// ConfigSaver persists one named configuration record and returns the path
// it was written to.
type ConfigSaver interface {
	Save(name string, record map[string]any) (string, error)
}

// Artifact is one persisted (or attempted) configuration record. For
// reciprocating compressors there is one per combination; the other types
// produce exactly one.
type Artifact struct {
	Combination  string // empty for single-pass equipment
	Name         string
	Config       map[string]any
	Calculations map[string]any // per-function result or error string; nil for single-pass equipment
	Path         string
	Saved        bool
	SaveError    string
}

type Controller struct {
	extractor extract.TextExtractor
	schemas   SchemaRegistry
	gateway   llm.Gateway
	store     ConfigSaver
	log       *slog.Logger
}

func NewController(extractor extract.TextExtractor, schemas SchemaRegistry, gateway llm.Gateway, store ConfigSaver, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		extractor: extractor,
		schemas:   schemas,
		gateway:   gateway,
		store:     store,
		log:       logger,
	}
}

// Run executes one pipeline run. The document and any artifacts produced
// before a failure are returned alongside the error.
func (c *Controller) Run(ctx context.Context, in equipment.RunInput) (*equipment.Document, []Artifact, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	et, _ := constants.ParseEquipmentType(string(in.EquipmentType))

	c.log.Info("pipeline.run.start",
		"equipment", et,
		"document", in.DocumentPath,
		"constant_params", len(in.ConstantParams),
	)

	doc := equipment.NewDocument()

	txt, err := c.extractor.Extract(ctx, in.DocumentPath)
	if err != nil {
		return doc, nil, fmt.Errorf("extract text: %w", err)
	}
	doc.RawText = txt.Text
	c.log.Info("pipeline.extract_text.ok",
		"pages", txt.Pages, "method", txt.Method, "text_len", len(txt.Text),
	)

	tmpl, err := c.schemas.Lookup(et)
	if err != nil {
		return doc, nil, fmt.Errorf("load schema template: %w", err)
	}
	doc.SchemaTemplate = tmpl

	var artifacts []Artifact
	if et == constants.Reciprocating {
		artifacts, err = c.runReciprocating(ctx, et, doc, in)
	} else {
		artifacts, err = c.runSinglePass(ctx, et, doc, in)
	}
	if err != nil {
		return doc, artifacts, err
	}

	c.log.Info("pipeline.run.ok", "equipment", et, "artifacts", len(artifacts))
	return doc, artifacts, nil
}

// runReciprocating loops extraction, base config, calculations and the final
// merge over every discovered stage/throw combination. The body runs at least
// once: a datasheet with no parsable combination table is processed as a
// single unscoped pass.
func (c *Controller) runReciprocating(ctx context.Context, et constants.EquipmentType, doc *equipment.Document, in equipment.RunInput) ([]Artifact, error) {
	doc.Combinations = equipment.DiscoverCombinations(doc.RawText)
	c.log.Info("pipeline.combinations.discovered",
		"count", len(doc.Combinations), "combinations", doc.Combinations,
	)

	current := ""
	if len(doc.Combinations) > 0 {
		current = doc.Combinations[0]
	}

	var artifacts []Artifact
	for {
		doc.BeginCombination(current, in.ConstantParams)
		c.log.Info("pipeline.combination.start", "combination", current)

		if err := c.extractForCombination(ctx, et, doc, in); err != nil {
			return artifacts, err
		}
		if err := c.buildBaseConfig(ctx, et, doc); err != nil {
			return artifacts, err
		}
		c.runCalculations(ctx, doc)

		final, err := c.gateway.MergeCalculations(ctx, llm.MergeRequest{
			BaseConfig:   doc.BaseConfig,
			Calculations: doc.CalculationResults,
		})
		if err != nil {
			return artifacts, fmt.Errorf("merge final config for %q: %w", current, err)
		}
		doc.FinalConfig = equipment.ApplyMapping(doc.BaseConfig, final)

		last := !equipment.HasMore(doc.Combinations, current)
		art, err := c.persist(et, current, doc.FinalConfig, last)
		art.Calculations = equipment.Merge(make(map[string]any, len(doc.CalculationResults)), doc.CalculationResults)
		artifacts = append(artifacts, art)
		if err != nil {
			return artifacts, err
		}

		if last {
			break
		}
		current = equipment.Advance(doc.Combinations, current)
	}
	return artifacts, nil
}

// runSinglePass handles the three non-looping equipment types: one extraction,
// one schema mapping, the base config is the artifact.
func (c *Controller) runSinglePass(ctx context.Context, et constants.EquipmentType, doc *equipment.Document, in equipment.RunInput) ([]Artifact, error) {
	doc.Combinations = nil
	doc.BeginCombination("", in.ConstantParams)

	if err := c.extractForCombination(ctx, et, doc, in); err != nil {
		return nil, err
	}
	if err := c.buildBaseConfig(ctx, et, doc); err != nil {
		return nil, err
	}

	art, err := c.persist(et, "", doc.BaseConfig, true)
	return []Artifact{art}, err
}

// extractForCombination runs the gateway extraction for the combination in
// focus and folds the result into the extracted record. Constant parameters
// are re-merged afterwards so they win any key collision.
func (c *Controller) extractForCombination(ctx context.Context, et constants.EquipmentType, doc *equipment.Document, in equipment.RunInput) error {
	rec, err := c.gateway.ExtractDatasheet(ctx, llm.DatasheetRequest{
		Equipment:   et,
		SourceText:  doc.RawText,
		Combination: doc.CurrentCombination,
	})
	if err != nil {
		return fmt.Errorf("extract datasheet for %q: %w", doc.CurrentCombination, err)
	}
	doc.MergeExtracted(rec)

	consts := make(map[string]any, len(in.ConstantParams))
	for k, v := range in.ConstantParams {
		consts[k] = equipment.Clone(v)
	}
	doc.MergeExtracted(consts)
	return nil
}

func (c *Controller) buildBaseConfig(ctx context.Context, et constants.EquipmentType, doc *equipment.Document) error {
	mapped, err := c.gateway.MapToSchema(ctx, llm.MappingRequest{
		Equipment: et,
		Source:    doc.ExtractedRecord,
		Template:  doc.SchemaTemplate,
	})
	if err != nil {
		return fmt.Errorf("build base config for %q: %w", doc.CurrentCombination, err)
	}
	doc.BaseConfig = equipment.ApplyMapping(doc.SchemaTemplate, mapped)
	return nil
}

// runCalculations invokes the twelve calculation functions in registry order.
// Failures in argument mapping or in the function itself degrade that one
// result to an error string; the remaining functions still run. Successful
// outputs feed back into the extracted record so later functions can consume
// them (the valve diameters need mean_piston_speed).
func (c *Controller) runCalculations(ctx context.Context, doc *equipment.Document) {
	for _, fn := range calc.Functions() {
		args, err := c.gateway.MapFunctionArgs(ctx, llm.ArgsRequest{
			FunctionName: fn.Name,
			Params:       fn.Params,
			Description:  fn.Description,
			Input:        doc.ExtractedRecord,
		})
		if err != nil {
			c.log.Warn("pipeline.calc.degraded",
				"combination", doc.CurrentCombination, "function", fn.Name, "error", err,
			)
			doc.RecordCalculationError(fn.Name, err)
			continue
		}

		res, err := fn.Invoke(args)
		if err != nil {
			c.log.Warn("pipeline.calc.degraded",
				"combination", doc.CurrentCombination, "function", fn.Name, "error", err,
			)
			doc.RecordCalculationError(fn.Name, err)
			continue
		}
		doc.RecordCalculation(fn.Name, res)
	}
}

// persist writes one artifact. Saves are best-effort mid-run, but a terminal
// artifact that cannot be written fails the run.
func (c *Controller) persist(et constants.EquipmentType, combination string, record map[string]any, terminal bool) (Artifact, error) {
	name := et.ConfigName()
	if combination != "" {
		name = equipment.SanitizeName(combination)
	}

	art := Artifact{
		Combination: combination,
		Name:        name,
		Config:      record,
	}
	path, err := c.store.Save(name, record)
	if err != nil {
		art.SaveError = err.Error()
		c.log.Warn("pipeline.save.failed",
			"name", name, "terminal", terminal, "error", err,
		)
		if terminal {
			return art, fmt.Errorf("persist terminal artifact %q: %w", name, err)
		}
		return art, nil
	}
	art.Path = path
	art.Saved = true
	c.log.Info("pipeline.save.ok", "name", name, "path", path)
	return art, nil
}
