package schema

import (
	"fmt"
	"strings"
)

// TemplateFromSchema walks a JSON-Schema document and produces the config
// skeleton the mapping step populates: objects are recursed, arrays become
// empty lists, scalars take their schema default or null. Local "#/" refs
// are resolved against the root document; external refs are rejected.
func TemplateFromSchema(doc map[string]any) (map[string]any, error) {
	if t, _ := doc["type"].(string); t != "object" {
		return nil, fmt.Errorf("root schema must be of type object")
	}
	return processObject(doc, doc)
}

func processObject(obj, root map[string]any) (map[string]any, error) {
	if ref, ok := obj["$ref"].(string); ok {
		resolved, err := resolveRef(ref, root)
		if err != nil {
			return nil, err
		}
		return processObject(resolved, root)
	}

	out := make(map[string]any)
	props, _ := obj["properties"].(map[string]any)
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			out[name] = nil
			continue
		}
		if ref, ok := prop["$ref"].(string); ok {
			resolved, err := resolveRef(ref, root)
			if err != nil {
				return nil, err
			}
			nested, err := processObject(resolved, root)
			if err != nil {
				return nil, err
			}
			out[name] = nested
			continue
		}

		switch t, _ := prop["type"].(string); t {
		case "object":
			nested, err := processObject(prop, root)
			if err != nil {
				return nil, err
			}
			out[name] = nested
		case "array":
			out[name] = []any{}
		default:
			// scalar: default wins, enums without a default stay null
			if def, ok := prop["default"]; ok {
				out[name] = def
			} else {
				out[name] = nil
			}
		}
	}
	return out, nil
}

func resolveRef(ref string, root map[string]any) (map[string]any, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("external references not supported: %s", ref)
	}
	current := any(root)
	for _, part := range strings.Split(ref[2:], "/") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid reference: %s", ref)
		}
		current, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("invalid reference: %s", ref)
		}
	}
	m, ok := current.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid reference: %s", ref)
	}
	return m, nil
}
