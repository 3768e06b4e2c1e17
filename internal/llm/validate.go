package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/equipment-config/internal/common"
)

// StripFences removes a markdown code fence wrapper if the model added
// one, returning the inner text. Input without a fence passes through.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// optional language tag on the opening fence, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first == "" || strings.EqualFold(first, "json") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ValidateJSONAgainstSchema validates data against the given schema source.
func ValidateJSONAgainstSchema(schemaJSON string, data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// DecodeEnvelope strips fences from a raw model reply, checks it against
// the {"data": <object>} envelope, and returns the unwrapped payload.
func DecodeEnvelope(raw string) (Record, error) {
	body := []byte(StripFences(raw))
	if err := ValidateJSONAgainstSchema(EnvelopeSchema(), body); err != nil {
		return nil, fmt.Errorf("model reply failed envelope validation: %v: %w", err, common.ErrExtractionFailure)
	}
	var env struct {
		Data Record `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode model reply: %v: %w", err, common.ErrExtractionFailure)
	}
	return env.Data, nil
}
