package constants

import (
	"strings"
)

// EquipmentType identifies one of the supported datasheet families.
type EquipmentType string

const (
	Reciprocating   EquipmentType = "RECIPROCATING_COMPRESSOR"
	InductionMotor  EquipmentType = "INDUCTION_MOTOR"
	ScrewCompressor EquipmentType = "SCREW_COMPRESSOR"
	Centrifugal     EquipmentType = "CENTRIFUGAL_COMPRESSOR"
)

var allEquipmentTypes = []EquipmentType{
	Reciprocating,
	InductionMotor,
	ScrewCompressor,
	Centrifugal,
}

// EquipmentTypes returns the supported types as strings, in dispatch order.
func EquipmentTypes() []string {
	result := make([]string, len(allEquipmentTypes))
	for i, et := range allEquipmentTypes {
		result[i] = string(et)
	}
	return result
}

// ConfigName returns the default artifact name for a single-pass run of this
// equipment type ("Induction_Motor" etc.).
func (e EquipmentType) ConfigName() string {
	switch e {
	case Reciprocating:
		return "Reciprocating_Compressor"
	case InductionMotor:
		return "Induction_Motor"
	case ScrewCompressor:
		return "Screw_Compressor"
	case Centrifugal:
		return "Centrifugal_Compressor"
	}
	return "Unknown"
}

// ParseEquipmentType canonicalizes a user- or API-supplied equipment label.
// Accepts the canonical names, the datasheet-style lowercase names
// ("reciprocating compressor"), and common shorthand ("recip", "motor").
func ParseEquipmentType(input string) (EquipmentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	// synonyms map
	synonyms := map[string]EquipmentType{
		"recip":            Reciprocating,
		"recip compressor": Reciprocating,
		"motor":            InductionMotor,
		"electric motor":   InductionMotor,
		"screw":            ScrewCompressor,
		"centrifugal":      Centrifugal,
	}
	if et, ok := synonyms[normalized]; ok {
		return et, true
	}

	spaced := strings.NewReplacer("_", " ").Replace(normalized)
	for _, et := range allEquipmentTypes {
		canonical := strings.ToLower(strings.ReplaceAll(string(et), "_", " "))
		if spaced == canonical {
			return et, true
		}
	}
	return "", false
}
