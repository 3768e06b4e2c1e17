package configstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")
	s := NewStore(dir, nil)

	path, err := s.Save("stage_1_throw_3", map[string]any{
		"stroke": 6.5,
		"eos":    nil,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config_stage_1_throw_3.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 6.5, got["stroke"])
	assert.Contains(t, got, "eos")
}

func TestSaveOverwrites(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	_, err := s.Save("Induction_Motor", map[string]any{"rated_power": 250})
	require.NoError(t, err)
	path, err := s.Save("Induction_Motor", map[string]any{"rated_power": 300})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, float64(300), got["rated_power"])
}

func TestSaveUnserializable(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	_, err := s.Save("bad", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}
