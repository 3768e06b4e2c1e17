// Package export renders a run's generated configurations into an XLSX
// workbook: one sheet summarizing the artifacts, one detailing the
// calculation results per combination.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/equipment-config/internal/repository"
)

// Service is a tiny façade over the repository that produces XLSX bytes.
type Service struct {
	db     *repository.DB
	logger *slog.Logger
}

func NewService(db *repository.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}
}

// ExportRunXLSX returns an XLSX workbook (as bytes) for the given run.
func (s *Service) ExportRunXLSX(ctx context.Context, runID string) ([]byte, error) {
	start := time.Now()

	run, err := s.db.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	artifacts, err := s.db.ListArtifacts(ctx, runID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const configSheet = "Configurations"
	const calcSheet = "Calculations"

	if err := f.SetSheetName("Sheet1", configSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(calcSheet); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex(configSheet); err == nil {
		f.SetActiveSheet(index)
	}

	if err := s.writeConfigSheet(f, configSheet, run, artifacts); err != nil {
		return nil, err
	}
	if err := s.writeCalcSheet(f, calcSheet, artifacts); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", runID,
		"artifacts", len(artifacts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeConfigSheet(f *excelize.File, sheet string, run repository.Run, artifacts []repository.RunArtifact) error {
	headers := []string{
		"Combination",
		"Artifact Name",
		"Saved",
		"File Path",
		"Configuration (JSON)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, a := range artifacts {
		combination := a.Combination
		if combination == "" {
			combination = string(run.EquipmentType)
		}
		cfg, err := json.Marshal(a.Config)
		if err != nil {
			return fmt.Errorf("marshal config %s: %w", a.Name, err)
		}

		write(1, row, combination)
		write(2, row, a.Name)
		write(3, row, a.Saved)
		write(4, row, a.Path)
		write(5, row, string(cfg))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 8)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	_ = f.SetColWidth(sheet, "E", "E", 80)
	return nil
}

func (s *Service) writeCalcSheet(f *excelize.File, sheet string, artifacts []repository.RunArtifact) error {
	headers := []string{
		"Combination",
		"Function",
		"Result",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, a := range artifacts {
		names := make([]string, 0, len(a.Calculations))
		for name := range a.Calculations {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			var rendered string
			switch v := a.Calculations[name].(type) {
			case string:
				rendered = v
			default:
				b, err := json.Marshal(v)
				if err != nil {
					return fmt.Errorf("marshal calculation %s: %w", name, err)
				}
				rendered = string(b)
			}
			write(1, row, a.Combination)
			write(2, row, name)
			write(3, row, rendered)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "C", 80)
	return nil
}
