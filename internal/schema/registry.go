// Package schema holds the registered configuration schema for each equipment
// type and derives the template skeleton the pipeline's mapping step fills in.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/common"
	"github.com/joseph-ayodele/equipment-config/internal/equipment"
)

//go:embed configs/*.json
var configFS embed.FS

// Registry maps equipment types to their configuration template skeletons.
type Registry struct {
	templates map[constants.EquipmentType]map[string]any
}

// NewRegistry loads and compiles the embedded schema documents and derives a
// template per equipment type. A schema that fails to compile is a packaging
// bug, reported at startup rather than mid-run.
func NewRegistry() (*Registry, error) {
	r := &Registry{templates: make(map[constants.EquipmentType]map[string]any)}
	for _, et := range constants.EquipmentTypes() {
		typ := constants.EquipmentType(et)
		name := "configs/" + strings.ToLower(et) + ".json"
		raw, err := configFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		if _, err := compiler.Compile(name); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}

		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode schema %s: %w", name, err)
		}
		tmpl, err := TemplateFromSchema(doc)
		if err != nil {
			return nil, fmt.Errorf("derive template %s: %w", name, err)
		}
		r.templates[typ] = tmpl
	}
	return r, nil
}

// Lookup returns a fresh copy of the template for the equipment type.
func (r *Registry) Lookup(et constants.EquipmentType) (map[string]any, error) {
	tmpl, ok := r.templates[et]
	if !ok {
		return nil, fmt.Errorf("no schema registered for equipment type %q: %w", et, common.ErrSchemaNotFound)
	}
	return equipment.Clone(tmpl), nil
}
