package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/repository"
)

func seedRun(t *testing.T) (*repository.DB, string) {
	t.Helper()
	ctx := context.Background()

	db, err := repository.Open(ctx, repository.Config{
		DSN:         filepath.Join(t.TempDir(), "runs.db"),
		DialTimeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	id := uuid.New().String()
	require.NoError(t, db.CreateRun(ctx, repository.Run{
		ID:            id,
		EquipmentType: constants.Reciprocating,
		DocumentPath:  "jgk4.pdf",
		Status:        constants.RunStatusCompleted,
		Combinations:  2,
	}))
	require.NoError(t, db.AddArtifact(ctx, repository.RunArtifact{
		RunID:       id,
		Combination: "stage 1->throw 1",
		Name:        "stage_1_throw_1",
		Config:      map[string]any{"stroke": 6.0},
		Calculations: map[string]any{
			"mean_piston_speed": map[string]any{"mean_piston_speed_ft_min": 500.0},
			"crank_end_area":    "Error: crank_end_area: rod diameter must be less than bore diameter",
		},
		Path:  "out/config_stage_1_throw_1.json",
		Saved: true,
	}))
	require.NoError(t, db.AddArtifact(ctx, repository.RunArtifact{
		RunID:       id,
		Combination: "stage 2->throw 2",
		Name:        "stage_2_throw_2",
		Config:      map[string]any{"stroke": 6.0},
		Saved:       true,
	}))
	return db, id
}

func TestExportRunXLSX(t *testing.T) {
	db, id := seedRun(t)
	svc := NewService(db, nil)

	b, err := svc.ExportRunXLSX(context.Background(), id)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Configurations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Combination", rows[0][0])
	assert.Equal(t, "stage 1->throw 1", rows[1][0])
	assert.Equal(t, "stage_1_throw_1", rows[1][1])
	assert.Contains(t, rows[1][4], `"stroke"`)

	calcRows, err := f.GetRows("Calculations")
	require.NoError(t, err)
	// header + two calculation entries for the first combination
	require.Len(t, calcRows, 3)
	assert.Equal(t, "crank_end_area", calcRows[1][1])
	assert.Contains(t, calcRows[1][2], "Error: ")
	assert.Equal(t, "mean_piston_speed", calcRows[2][1])
	assert.Contains(t, calcRows[2][2], "500")
}

func TestExportRunXLSXMissingRun(t *testing.T) {
	db, _ := seedRun(t)
	svc := NewService(db, nil)

	_, err := svc.ExportRunXLSX(context.Background(), uuid.New().String())
	require.Error(t, err)
}
