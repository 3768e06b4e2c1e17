// Package llm defines the model-facing contracts used to turn datasheet
// text into structured records. Callers depend on the Gateway interface;
// the openai subpackage provides the HTTP-backed implementation.
package llm

import (
	"context"

	"github.com/joseph-ayodele/equipment-config/constants"
)

// Record is a generic JSON object payload exchanged with the model.
type Record = map[string]any

// DatasheetRequest asks the model to pull equipment parameters out of
// raw datasheet text. Combination is set only for reciprocating
// compressors, where extraction is scoped to one stage/throw pair.
type DatasheetRequest struct {
	Equipment   constants.EquipmentType
	SourceText  string
	Combination string
}

// MappingRequest asks the model to map an extracted record onto a
// schema-derived template. Only keys present in the template may be
// populated; unmatched template keys keep their existing values.
type MappingRequest struct {
	Equipment constants.EquipmentType
	Source    Record
	Template  Record
}

// ArgsRequest asks the model to assemble the argument mapping for one
// named calculation from the fields of an extracted record.
type ArgsRequest struct {
	FunctionName string
	Params       []string
	Description  string
	Input        Record
}

// MergeRequest asks the model to fold calculation results into a
// populated base configuration, producing the final record.
type MergeRequest struct {
	BaseConfig   Record
	Calculations map[string]any
}

// Gateway is the set of model capabilities the pipeline relies on.
type Gateway interface {
	ExtractDatasheet(ctx context.Context, req DatasheetRequest) (Record, error)
	MapToSchema(ctx context.Context, req MappingRequest) (Record, error)
	MapFunctionArgs(ctx context.Context, req ArgsRequest) (Record, error)
	MergeCalculations(ctx context.Context, req MergeRequest) (Record, error)
}
