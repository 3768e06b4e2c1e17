package openai

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/llm"
)

// Every reply must be a bare JSON object with the payload under "data".
// The envelope is re-validated on the way back in, so the instruction
// here is belt: the validator is suspenders.
const envelopeInstruction = `Respond with a single raw JSON object of the form {"data": { ... }}. ` +
	`Do not include triple backticks, markdown formatting, or any explanation.`

// Datasheet text is passed whole. Datasheets are a handful of pages;
// the cap only guards against a runaway upstream extraction.
const maxPromptText = 60000

func clipText(s string) string {
	if len(s) > maxPromptText {
		return s[:maxPromptText]
	}
	return s
}

func datasheetSystemPrompt(req llm.DatasheetRequest) string {
	parts := []string{
		"You are a mechanical engineer specializing in turbomachinery data analysis.",
		"The input is a manufacturer's datasheet, originally tabular, converted to plain text.",
		"Extract every technical parameter present in the text. Represent each parameter as a key whose value is an object with 'unit' and 'value' keys.",
		"Separate units from values, including percentages and unitless parameters.",
		"Preserve 'N/A' and '-' values as string literals. Keep numeric values as numbers.",
		"Maintain the original order of parameters. Do not omit any parameter present in the input.",
		"Add 'machine_name' and 'machine_type' at the top level of the payload when identifiable.",
	}
	switch req.Equipment {
	case constants.Reciprocating:
		parts = append(parts,
			"The datasheet covers compressor data, driver data, services, stage data, and cylinder/throw data.",
			"Column headers carry stage numbers; the row labelled 'Stage number at (HE/CE)' maps stages to throws, and 'Frame Ext/Cyl. Bore' carries throw numbers before the '/'.",
			"A stage entry of '---' repeats the previous stage in the sequence.",
			"Extract only the column for the requested stage/throw combination, from the first data row through the last parameter, including 'N/A' entries.",
			"Nest machine-level parameters under 'machine_data', stage parameters under 'stage_data' (with 'stage_number'), and throw parameters under 'throw_data' (with 'throw_number').",
		)
	case constants.InductionMotor:
		parts = append(parts,
			"The datasheet covers an induction motor: voltage, current, power, efficiency and related parameters.",
			"Nest the extracted parameters under 'motor_data' and set 'machine_type' to 'Induction Motor'.",
		)
	case constants.ScrewCompressor:
		parts = append(parts,
			"The datasheet spans multiple pages with sections such as 'Gas Analysis', 'Suction Conditions', 'Discharge Conditions', 'Compressor Performance', and 'Compressor Data'.",
			"Skip the 'Testing and inspection requirements', 'Drawing and data requirements', and 'Mechanical characteristics' sections.",
			"Nest the extracted parameters under 'compressor_data' and set 'machine_type' to 'Screw Compressor'.",
		)
	case constants.Centrifugal:
		parts = append(parts,
			"Parameters appear in the form 'parameter_name,unit value'.",
			"Nest the extracted parameters under 'compressor_data' and set 'machine_type' to 'centrifugal_compressor'.",
		)
	}
	parts = append(parts, envelopeInstruction)
	return strings.Join(parts, " ")
}

func datasheetUserPrompt(req llm.DatasheetRequest) string {
	var b strings.Builder
	if req.Combination != "" {
		b.WriteString("Stage-throw combination to extract: ")
		b.WriteString(req.Combination)
		b.WriteString("\n\n")
	}
	b.WriteString("Datasheet text:\n")
	b.WriteString(clipText(req.SourceText))
	return b.String()
}

func mappingSystemPrompt(req llm.MappingRequest) string {
	name := req.Equipment.ConfigName()
	parts := []string{
		"You are a mechanical engineer with expertise in turbomachinery.",
		"You are given a source dictionary of extracted " + name + " data and a target configuration dictionary.",
		"Source values are objects with 'unit' and 'value' keys; assign only the bare value into the target.",
		"For each target key, search the source for a corresponding key by naming, technical similarity, and turbomachinery domain knowledge (e.g. 'stroke_length' maps to 'stroke').",
		"Update a target key only when the match is confident. Leave unmatched target keys exactly as they are.",
		"Never remove a key from the target dictionary. Return the full updated target dictionary as the payload.",
		envelopeInstruction,
	}
	return strings.Join(parts, " ")
}

func mappingUserPrompt(req llm.MappingRequest) string {
	return "Source dictionary:\n" + mustJSON(req.Source) +
		"\n\nTarget dictionary:\n" + mustJSON(req.Template)
}

func argsSystemPrompt() string {
	parts := []string{
		"You are a mechanical engineer mapping input fields to the parameters of an engineering calculation.",
		"Match keys from the input dictionary to the required parameters by exact name first, then by semantic similarity using turbomachinery terminology (e.g. 'cylinder_bore_diameter' matches 'bore_diameter').",
		"When a matched source value is an object with 'unit' and 'value' keys, use the bare value.",
		"Only map when confident; do not guess or invent values. Omit parameters you cannot resolve.",
		"The payload is the argument mapping: required parameter names to their values.",
		envelopeInstruction,
	}
	return strings.Join(parts, " ")
}

func argsUserPrompt(req llm.ArgsRequest) string {
	var b strings.Builder
	b.WriteString("Function name: ")
	b.WriteString(req.FunctionName)
	b.WriteString("\nFunction description: ")
	b.WriteString(req.Description)
	b.WriteString("\nRequired parameters: ")
	b.WriteString(strings.Join(req.Params, ", "))
	b.WriteString("\n\nInput dictionary:\n")
	b.WriteString(mustJSON(req.Input))
	return b.String()
}

func mergeSystemPrompt() string {
	parts := []string{
		"You are a configuration mapping expert for turbomachinery systems.",
		"Fold the calculated parameters into the most appropriate fields of the base configuration.",
		"Match by similarity of meaning (e.g. 'head_end_area' may map to 'he_area').",
		"A calculated parameter with no relevant field in the base configuration leaves the configuration unchanged.",
		"Never remove a key from the base configuration. The payload is the full updated configuration.",
		envelopeInstruction,
	}
	return strings.Join(parts, " ")
}

func mergeUserPrompt(req llm.MergeRequest) string {
	return "Base configuration:\n" + mustJSON(req.BaseConfig) +
		"\n\nCalculated parameters:\n" + mustJSON(req.Calculations)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
