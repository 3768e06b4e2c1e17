package llm

// EnvelopeSchema is the JSON Schema every model reply must satisfy:
// a single object with the payload under "data" and nothing else.
func EnvelopeSchema() string {
	return `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "data": {"type": "object"}
  },
  "required": ["data"],
  "additionalProperties": false
}`
}