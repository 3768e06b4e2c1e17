// Package equipment holds the per-run document record and the stage/throw
// combination enumerator for reciprocating compressor datasheets.
package equipment

import (
	"github.com/joseph-ayodele/equipment-config/internal/calc"
)

// Document is the shared record threaded through the pipeline. It has a single
// writer: the pipeline node currently executing. For multi-combination
// equipment the per-combination fields are rebuilt once per combination while
// RawText, SchemaTemplate and Combinations stay fixed for the whole run.
type Document struct {
	RawText            string
	SchemaTemplate     map[string]any
	Combinations       []string
	CurrentCombination string // empty when no combination is in focus
	ExtractedRecord    map[string]any
	BaseConfig         map[string]any
	CalculationResults map[string]any // calc.Result on success, error string on failure
	FinalConfig        map[string]any
}

func NewDocument() *Document {
	return &Document{
		CalculationResults: make(map[string]any),
	}
}

// Merge copies src into dst key by key. Later writes win; keys are never
// deleted. This is the only mutation primitive the pipeline uses on records.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Clone deep-copies a record (maps and slices; scalars are shared).
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// ApplyMapping overlays a semantically-mapped record onto a template. The
// result starts from a deep copy of the template, so every template key is
// present in the output no matter what the mapped record dropped.
func ApplyMapping(template, mapped map[string]any) map[string]any {
	return Merge(Clone(template), mapped)
}

// BeginCombination resets the per-combination state for the next loop pass.
// The extracted record is rebuilt from the caller's constant parameters only;
// fields extracted for a previous combination do not leak forward.
func (d *Document) BeginCombination(combination string, constants map[string]map[string]any) {
	d.CurrentCombination = combination
	d.ExtractedRecord = make(map[string]any, len(constants))
	for k, v := range constants {
		d.ExtractedRecord[k] = Clone(v)
	}
	d.BaseConfig = nil
	d.FinalConfig = nil
	d.CalculationResults = make(map[string]any)
}

// MergeExtracted merges a gateway extraction result into the extracted record.
func (d *Document) MergeExtracted(rec map[string]any) {
	d.ExtractedRecord = Merge(d.ExtractedRecord, rec)
}

// RecordCalculation stores a successful calculation result and merges its
// outputs back into the extracted record under the function's name, as
// {unit,value} payloads, so later calculations can consume them.
func (d *Document) RecordCalculation(name string, res calc.Result) {
	d.CalculationResults[name] = res
	payload := make(map[string]any, len(res))
	for k, v := range res {
		payload[k] = map[string]any{"unit": "", "value": v}
	}
	d.ExtractedRecord = Merge(d.ExtractedRecord, map[string]any{name: payload})
}

// RecordCalculationError stores a per-function failure without touching the
// extracted record; the remaining functions still run.
func (d *Document) RecordCalculationError(name string, err error) {
	d.CalculationResults[name] = "Error: " + err.Error()
}
