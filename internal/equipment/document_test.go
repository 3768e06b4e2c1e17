package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/equipment-config/internal/calc"
)

func TestMergeLaterWriteWins(t *testing.T) {
	dst := map[string]any{"a": 1, "b": 2}
	Merge(dst, map[string]any{"b": 20, "c": 3})
	assert.Equal(t, map[string]any{"a": 1, "b": 20, "c": 3}, dst)
}

func TestMergeNeverDeletes(t *testing.T) {
	dst := map[string]any{"keep": "me"}
	Merge(dst, map[string]any{})
	Merge(dst, map[string]any{"other": 1})
	assert.Contains(t, dst, "keep")
}

func TestMergeIdempotent(t *testing.T) {
	rec := map[string]any{"stroke": map[string]any{"unit": "in", "value": 6.5}}
	d := NewDocument()
	d.BeginCombination("stage 1->throw 1", nil)
	d.MergeExtracted(rec)
	once := Clone(d.ExtractedRecord)
	d.MergeExtracted(rec)
	assert.Equal(t, once, d.ExtractedRecord)
}

func TestApplyMappingPreservesTemplateKeys(t *testing.T) {
	template := map[string]any{
		"stroke":       nil,
		"rod_diameter": nil,
		"composition":  []any{},
	}
	mapped := map[string]any{"stroke": 6.5} // model dropped the other keys
	out := ApplyMapping(template, mapped)

	assert.Equal(t, 6.5, out["stroke"])
	assert.Contains(t, out, "rod_diameter")
	assert.Contains(t, out, "composition")
	// template itself is untouched
	assert.Nil(t, template["stroke"])
}

func TestBeginCombinationClearsPriorFields(t *testing.T) {
	constants := map[string]map[string]any{
		"he_suction_valve_quantity": {"unit": "", "value": 2},
	}
	d := NewDocument()
	d.BeginCombination("stage 1->throw 1", constants)
	d.MergeExtracted(map[string]any{"bore": map[string]any{"unit": "in", "value": 26.5}})
	d.BaseConfig = map[string]any{"stroke": 6.0}
	d.RecordCalculation("head_end_area", calc.Result{"head_end_area": 551.5})

	d.BeginCombination("stage 2->throw 4", constants)

	assert.Equal(t, "stage 2->throw 4", d.CurrentCombination)
	assert.NotContains(t, d.ExtractedRecord, "bore", "combination-scoped fields must not leak forward")
	assert.Contains(t, d.ExtractedRecord, "he_suction_valve_quantity", "constants carry forward")
	assert.Nil(t, d.BaseConfig)
	assert.Nil(t, d.FinalConfig)
	assert.Empty(t, d.CalculationResults)
}

func TestRecordCalculation(t *testing.T) {
	d := NewDocument()
	d.BeginCombination("", nil)
	d.MergeExtracted(map[string]any{"existing": "field"})

	d.RecordCalculation("mean_piston_speed", calc.Result{"mean_piston_speed_ft_min": 500.0})

	require.Contains(t, d.CalculationResults, "mean_piston_speed")
	assert.Equal(t, calc.Result{"mean_piston_speed_ft_min": 500.0}, d.CalculationResults["mean_piston_speed"])

	// outputs are merged additively into the extracted record as {unit,value}
	assert.Contains(t, d.ExtractedRecord, "existing")
	payload, ok := d.ExtractedRecord["mean_piston_speed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"unit": "", "value": 500.0}, payload["mean_piston_speed_ft_min"])
}

func TestRecordCalculationError(t *testing.T) {
	d := NewDocument()
	d.BeginCombination("", nil)
	d.RecordCalculationError("crank_end_area", assert.AnError)

	assert.Equal(t, "Error: "+assert.AnError.Error(), d.CalculationResults["crank_end_area"])
	assert.NotContains(t, d.ExtractedRecord, "crank_end_area")
}

func TestCloneIsDeep(t *testing.T) {
	src := map[string]any{
		"nested": map[string]any{"k": "v"},
		"list":   []any{map[string]any{"x": 1}},
	}
	dup := Clone(src)
	dup["nested"].(map[string]any)["k"] = "changed"
	dup["list"].([]any)[0].(map[string]any)["x"] = 2

	assert.Equal(t, "v", src["nested"].(map[string]any)["k"])
	assert.Equal(t, 1, src["list"].([]any)[0].(map[string]any)["x"])
}
