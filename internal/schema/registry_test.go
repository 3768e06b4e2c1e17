package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/common"
)

func TestRegistryCoversAllEquipmentTypes(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	for _, et := range constants.EquipmentTypes() {
		tmpl, err := r.Lookup(constants.EquipmentType(et))
		require.NoError(t, err, et)
		assert.NotEmpty(t, tmpl, et)
	}
}

func TestLookupUnknownType(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Lookup("STEAM_TURBINE")
	assert.ErrorIs(t, err, common.ErrSchemaNotFound)
}

func TestLookupReturnsIndependentCopies(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	a, err := r.Lookup(constants.Reciprocating)
	require.NoError(t, err)
	a["stroke"] = 6.5

	b, err := r.Lookup(constants.Reciprocating)
	require.NoError(t, err)
	assert.Nil(t, b["stroke"])
}

func TestReciprocatingTemplateShape(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	tmpl, err := r.Lookup(constants.Reciprocating)
	require.NoError(t, err)

	assert.Equal(t, "Variable Speed", tmpl["application"], "defaults are applied")
	assert.Nil(t, tmpl["eos"], "enums without a default stay null")
	assert.Equal(t, []any{}, tmpl["composition"], "arrays start empty")

	cyl, ok := tmpl["cylinder"].(map[string]any)
	require.True(t, ok, "$ref objects are expanded")
	assert.Contains(t, cyl, "swept_volume")

	valves, ok := tmpl["valves"].(map[string]any)
	require.True(t, ok)
	he, ok := valves["head_end"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, he, "suction_valve_diameter")
}

func TestTemplateFromSchemaRootMustBeObject(t *testing.T) {
	_, err := TemplateFromSchema(map[string]any{"type": "array"})
	assert.Error(t, err)
}

func TestTemplateFromSchemaBadRef(t *testing.T) {
	_, err := TemplateFromSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"$ref": "#/$defs/missing"},
		},
	})
	assert.Error(t, err)

	_, err = TemplateFromSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"$ref": "https://example.com/other.json"},
		},
	})
	assert.Error(t, err)
}
