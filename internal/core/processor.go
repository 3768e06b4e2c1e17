// Package core owns one run end to end: it records the run in the
// repository, drives the pipeline, and persists the artifact history. The
// pipeline itself stays free of database side effects.
package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/equipment"
	"github.com/joseph-ayodele/equipment-config/internal/pipeline"
	"github.com/joseph-ayodele/equipment-config/internal/repository"
)

type Processor struct {
	logger     *slog.Logger
	controller *pipeline.Controller
	db         *repository.DB
}

func NewProcessor(logger *slog.Logger, controller *pipeline.Controller, db *repository.DB) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		controller: controller,
		db:         db,
	}
}

// ProcessDocument runs the pipeline for one datasheet and records the run and
// its artifacts. The run ID is returned even when the run fails, so callers
// can inspect the history. Repository write failures after a successful
// pipeline run are logged, not fatal: the artifacts are already on disk.
func (p *Processor) ProcessDocument(ctx context.Context, in equipment.RunInput) (string, error) {
	runID := uuid.New().String()

	if err := p.db.CreateRun(ctx, repository.Run{
		ID:            runID,
		EquipmentType: in.EquipmentType,
		DocumentPath:  in.DocumentPath,
		Status:        constants.RunStatusQueued,
	}); err != nil {
		return "", err
	}
	if err := p.db.SetRunStatus(ctx, runID, constants.RunStatusRunning); err != nil {
		return runID, err
	}

	doc, artifacts, runErr := p.controller.Run(ctx, in)

	for _, a := range artifacts {
		if err := p.db.AddArtifact(ctx, repository.RunArtifact{
			RunID:        runID,
			Combination:  a.Combination,
			Name:         a.Name,
			Config:       a.Config,
			Calculations: a.Calculations,
			Path:         a.Path,
			Saved:        a.Saved,
		}); err != nil {
			p.logger.Error("processor.artifact.record_failed",
				"run_id", runID, "name", a.Name, "error", err)
		}
	}

	if runErr != nil {
		p.logger.Error("processor.run.failed", "run_id", runID, "error", runErr)
		if err := p.db.FailRun(ctx, runID, runErr.Error()); err != nil {
			p.logger.Error("processor.run.record_failed", "run_id", runID, "error", err)
		}
		return runID, runErr
	}

	combinations := 0
	if doc != nil {
		combinations = len(doc.Combinations)
	}
	if err := p.db.CompleteRun(ctx, runID, combinations); err != nil {
		p.logger.Error("processor.run.record_failed", "run_id", runID, "error", err)
	}

	p.logger.Info("processor.run.ok",
		"run_id", runID,
		"equipment", in.EquipmentType,
		"combinations", combinations,
		"artifacts", len(artifacts),
	)
	return runID, nil
}
