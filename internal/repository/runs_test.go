package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/common"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(context.Background(), Config{DSN: dsn, DialTimeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id := uuid.New().String()
	require.NoError(t, db.CreateRun(ctx, Run{
		ID:            id,
		EquipmentType: constants.Reciprocating,
		DocumentPath:  "jgk4.pdf",
		Status:        constants.RunStatusQueued,
	}))

	require.NoError(t, db.SetRunStatus(ctx, id, constants.RunStatusRunning))
	require.NoError(t, db.CompleteRun(ctx, id, 4))

	got, err := db.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusCompleted, got.Status)
	assert.Equal(t, 4, got.Combinations)
	assert.Equal(t, constants.Reciprocating, got.EquipmentType)
	assert.Empty(t, got.Error)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFailRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id := uuid.New().String()
	require.NoError(t, db.CreateRun(ctx, Run{
		ID:            id,
		EquipmentType: constants.InductionMotor,
		DocumentPath:  "motor.pdf",
		Status:        constants.RunStatusRunning,
	}))
	require.NoError(t, db.FailRun(ctx, id, "extract text: blank document"))

	got, err := db.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusFailed, got.Status)
	assert.Equal(t, "extract text: blank document", got.Error)
}

func TestUpdateMissingRun(t *testing.T) {
	db := openTestDB(t)

	err := db.SetRunStatus(context.Background(), uuid.New().String(), constants.RunStatusRunning)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDatabase)
}

func TestGetMissingRun(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetRun(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDatabase)
}

func TestArtifacts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id := uuid.New().String()
	require.NoError(t, db.CreateRun(ctx, Run{
		ID:            id,
		EquipmentType: constants.Reciprocating,
		DocumentPath:  "jgk4.pdf",
		Status:        constants.RunStatusRunning,
	}))

	require.NoError(t, db.AddArtifact(ctx, RunArtifact{
		RunID:       id,
		Combination: "stage 1->throw 1",
		Name:        "stage_1_throw_1",
		Config:      map[string]any{"stroke": 6.0, "eos": nil},
		Calculations: map[string]any{
			"head_end_area":  map[string]any{"head_end_area": 70.88},
			"crank_end_area": "Error: crank_end_area: rod diameter must be less than bore diameter",
		},
		Path:  "out/config_stage_1_throw_1.json",
		Saved: true,
	}))
	require.NoError(t, db.AddArtifact(ctx, RunArtifact{
		RunID:       id,
		Combination: "stage 2->throw 4",
		Name:        "stage_2_throw_4",
		Config:      map[string]any{"stroke": 6.0},
	}))

	got, err := db.ListArtifacts(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "stage_1_throw_1", got[0].Name)
	assert.True(t, got[0].Saved)
	assert.Equal(t, 6.0, got[0].Config["stroke"])
	assert.Contains(t, got[0].Config, "eos")
	require.Contains(t, got[0].Calculations, "crank_end_area")
	assert.IsType(t, "", got[0].Calculations["crank_end_area"])
	assert.Empty(t, got[1].Calculations)
	assert.False(t, got[1].Saved)
	assert.Empty(t, got[1].Path)
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.HealthCheck(context.Background(), time.Second))
}
