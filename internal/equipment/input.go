package equipment

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/equipment-config/constants"
	"github.com/joseph-ayodele/equipment-config/internal/common"
)

// requiredValveQuantities are the constant parameters a reciprocating
// compressor run must supply; the valve-diameter calculations consume them.
var requiredValveQuantities = []string{
	"he_suction_valve_quantity",
	"he_discharge_valve_quantity",
	"ce_suction_valve_quantity",
	"ce_discharge_valve_quantity",
}

// RunInput is the caller-supplied input for one pipeline run.
type RunInput struct {
	EquipmentType  constants.EquipmentType
	DocumentPath   string
	ConstantParams map[string]map[string]any // parameter name -> {"unit": ..., "value": ...}
}

// Validate checks the input at the boundary, before any pipeline node runs.
func (in RunInput) Validate() error {
	if _, ok := constants.ParseEquipmentType(string(in.EquipmentType)); !ok {
		return fmt.Errorf("equipment type %q: %w", in.EquipmentType, common.ErrUnknownEquipment)
	}
	if strings.TrimSpace(in.DocumentPath) == "" {
		return fmt.Errorf("document path is required: %w", common.ErrInvalidInput)
	}
	if in.EquipmentType == constants.Reciprocating {
		for _, key := range requiredValveQuantities {
			p, ok := in.ConstantParams[key]
			if !ok {
				return fmt.Errorf("missing required constant parameter %q: %w", key, common.ErrInvalidInput)
			}
			if _, ok := p["value"]; !ok {
				return fmt.Errorf("constant parameter %q must contain a value entry: %w", key, common.ErrInvalidInput)
			}
		}
	}
	return nil
}
