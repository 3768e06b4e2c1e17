package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/common"
)

// Run is one pipeline execution.
type Run struct {
	ID            string
	EquipmentType constants.EquipmentType
	DocumentPath  string
	Status        constants.RunStatus
	Combinations  int
	Error         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RunArtifact is one persisted configuration record of a run.
type RunArtifact struct {
	RunID        string
	Combination  string
	Name         string
	Config       map[string]any
	Calculations map[string]any
	Path         string
	Saved        bool
	CreatedAt    time.Time
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (d *DB) CreateRun(ctx context.Context, r Run) error {
	ts := now()
	_, err := d.db.ExecContext(ctx, d.rebind(`
		INSERT INTO runs (id, equipment_type, document_path, status, combinations, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, string(r.EquipmentType), r.DocumentPath, string(r.Status), r.Combinations, r.Error, ts, ts)
	if err != nil {
		return fmt.Errorf("insert run %s: %v: %w", r.ID, err, common.ErrDatabase)
	}
	return nil
}

func (d *DB) SetRunStatus(ctx context.Context, id string, status constants.RunStatus) error {
	return d.updateRun(ctx, id, `status = ?, updated_at = ?`, string(status), now())
}

// CompleteRun marks the run COMPLETED and records how many combinations it
// processed.
func (d *DB) CompleteRun(ctx context.Context, id string, combinations int) error {
	return d.updateRun(ctx, id, `status = ?, combinations = ?, updated_at = ?`,
		string(constants.RunStatusCompleted), combinations, now())
}

// FailRun marks the run FAILED with the terminal error message.
func (d *DB) FailRun(ctx context.Context, id string, cause string) error {
	return d.updateRun(ctx, id, `status = ?, error = ?, updated_at = ?`,
		string(constants.RunStatusFailed), cause, now())
}

func (d *DB) updateRun(ctx context.Context, id, set string, args ...any) error {
	args = append(args, id)
	res, err := d.db.ExecContext(ctx, d.rebind(`UPDATE runs SET `+set+` WHERE id = ?`), args...)
	if err != nil {
		return fmt.Errorf("update run %s: %v: %w", id, err, common.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found: %w", id, common.ErrDatabase)
	}
	return nil
}

func (d *DB) GetRun(ctx context.Context, id string) (Run, error) {
	row := d.db.QueryRowContext(ctx, d.rebind(`
		SELECT id, equipment_type, document_path, status, combinations, error, created_at, updated_at
		FROM runs WHERE id = ?`), id)

	var r Run
	var et, status, created, updated string
	err := row.Scan(&r.ID, &et, &r.DocumentPath, &status, &r.Combinations, &r.Error, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s not found: %w", id, common.ErrDatabase)
	}
	if err != nil {
		return Run{}, fmt.Errorf("select run %s: %v: %w", id, err, common.ErrDatabase)
	}
	r.EquipmentType = constants.EquipmentType(et)
	r.Status = constants.RunStatus(status)
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return r, nil
}

func (d *DB) AddArtifact(ctx context.Context, a RunArtifact) error {
	cfg, err := json.Marshal(a.Config)
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %v: %w", a.Name, err, common.ErrDatabase)
	}
	calcs := []byte("{}")
	if a.Calculations != nil {
		if calcs, err = json.Marshal(a.Calculations); err != nil {
			return fmt.Errorf("marshal artifact %s calculations: %v: %w", a.Name, err, common.ErrDatabase)
		}
	}
	saved := 0
	if a.Saved {
		saved = 1
	}
	_, err = d.db.ExecContext(ctx, d.rebind(`
		INSERT INTO run_artifacts (run_id, combination, name, config, calculations, path, saved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		a.RunID, a.Combination, a.Name, string(cfg), string(calcs), a.Path, saved, now())
	if err != nil {
		return fmt.Errorf("insert artifact %s/%s: %v: %w", a.RunID, a.Name, err, common.ErrDatabase)
	}
	return nil
}

// CountRuns reports the number of recorded runs.
func (d *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %v: %w", err, common.ErrDatabase)
	}
	return n, nil
}

// ListArtifacts returns a run's artifacts in insertion order.
func (d *DB) ListArtifacts(ctx context.Context, runID string) ([]RunArtifact, error) {
	rows, err := d.db.QueryContext(ctx, d.rebind(`
		SELECT run_id, combination, name, config, calculations, path, saved, created_at
		FROM run_artifacts WHERE run_id = ? ORDER BY created_at, name`), runID)
	if err != nil {
		return nil, fmt.Errorf("select artifacts %s: %v: %w", runID, err, common.ErrDatabase)
	}
	defer rows.Close()

	var out []RunArtifact
	for rows.Next() {
		var a RunArtifact
		var cfg, calcs, created string
		var saved int
		if err := rows.Scan(&a.RunID, &a.Combination, &a.Name, &cfg, &calcs, &a.Path, &saved, &created); err != nil {
			return nil, fmt.Errorf("scan artifact: %v: %w", err, common.ErrDatabase)
		}
		if err := json.Unmarshal([]byte(cfg), &a.Config); err != nil {
			return nil, fmt.Errorf("decode artifact %s config: %v: %w", a.Name, err, common.ErrDatabase)
		}
		if err := json.Unmarshal([]byte(calcs), &a.Calculations); err != nil {
			return nil, fmt.Errorf("decode artifact %s calculations: %v: %w", a.Name, err, common.ErrDatabase)
		}
		a.Saved = saved != 0
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %v: %w", err, common.ErrDatabase)
	}
	return out, nil
}
