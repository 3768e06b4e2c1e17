// Package calc implements the reciprocating compressor sizing formulas.
// Every function is pure: it validates its inputs, computes one closed-form
// quantity, and returns a named-field result so downstream merging stays keyed.
package calc

import (
	"fmt"
	"math"

	"github.com/joseph-ayodele/equipment-config/internal/common"
)

// Result holds the named outputs of one calculation function.
type Result map[string]float64

// Function describes one calculation: its wire name, the argument names the
// gateway must map from the extracted record, and the computation itself.
type Function struct {
	Name        string
	Params      []string
	Description string
	apply       func(args map[string]float64) (Result, error)
}

// Invoke coerces the mapped arguments and runs the calculation. Missing or
// non-numeric arguments fail with ErrInvalidInput, same as a precondition
// violation inside the formula.
func (f Function) Invoke(args map[string]any) (Result, error) {
	vals := make(map[string]float64, len(f.Params))
	for _, p := range f.Params {
		raw, ok := args[p]
		if !ok {
			return nil, fmt.Errorf("%s: missing argument %q: %w", f.Name, p, common.ErrInvalidInput)
		}
		v, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%s: argument %q must be a valid number: %w", f.Name, p, common.ErrInvalidInput)
		}
		vals[p] = v
	}
	return f.apply(vals)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		return toFloat(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func positive(fn, name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s: %s must be positive: %w", fn, name, common.ErrInvalidInput)
	}
	return nil
}

func nonNegative(fn, name string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%s: %s must be non-negative: %w", fn, name, common.ErrInvalidInput)
	}
	return nil
}

// valveDiameter is the shared form of the four valve-sizing functions:
// 12 * sqrt((bore/12)^2 * speed / (qty * velocity)), all in inches and ft/min.
func valveDiameter(fn string, bore, speed, velocity, qty float64) (float64, error) {
	if err := positive(fn, "bore_dia_in", bore); err != nil {
		return 0, err
	}
	if err := positive(fn, "mean_piston_speed_ft_min", speed); err != nil {
		return 0, err
	}
	if err := positive(fn, "valve quantity", qty); err != nil {
		return 0, err
	}
	if err := positive(fn, "gas velocity", velocity); err != nil {
		return 0, err
	}
	boreFt := bore / 12
	return 12 * math.Sqrt(boreFt*boreFt*speed/(qty*velocity)), nil
}

// Functions returns the calculation registry in execution order. The order is
// load-bearing: mean_piston_speed must run before the valve-diameter functions
// so its output is available in the extracted record for argument mapping.
func Functions() []Function {
	return []Function{
		{
			Name:        "head_end_area",
			Params:      []string{"bore_dia_in"},
			Description: "Head end area of a compressor cylinder from bore diameter, in square inches.",
			apply: func(args map[string]float64) (Result, error) {
				bore := args["bore_dia_in"]
				if err := positive("head_end_area", "bore_dia_in", bore); err != nil {
					return nil, err
				}
				return Result{"head_end_area": math.Pi / 4 * bore * bore}, nil
			},
		},
		{
			Name:        "crank_end_area",
			Params:      []string{"bore_dia_in", "rod_dia_in"},
			Description: "Crank end area from bore diameter and rod diameter, in square inches.",
			apply: func(args map[string]float64) (Result, error) {
				bore, rod := args["bore_dia_in"], args["rod_dia_in"]
				if err := positive("crank_end_area", "bore_dia_in", bore); err != nil {
					return nil, err
				}
				if err := positive("crank_end_area", "rod_dia_in", rod); err != nil {
					return nil, err
				}
				if rod >= bore {
					return nil, fmt.Errorf("crank_end_area: rod diameter must be less than bore diameter: %w", common.ErrInvalidInput)
				}
				return Result{"crank_end_area": math.Pi / 4 * (bore*bore - rod*rod)}, nil
			},
		},
		{
			Name:        "head_end_displacement",
			Params:      []string{"head_end_area", "stroke_in"},
			Description: "Head end displacement from head end area and stroke length, in cubic inches.",
			apply: func(args map[string]float64) (Result, error) {
				area, stroke := args["head_end_area"], args["stroke_in"]
				if err := positive("head_end_displacement", "head_end_area", area); err != nil {
					return nil, err
				}
				if err := positive("head_end_displacement", "stroke_in", stroke); err != nil {
					return nil, err
				}
				return Result{"head_end_displacement_value": area * stroke}, nil
			},
		},
		{
			Name:        "crank_end_displacement",
			Params:      []string{"crank_end_area", "stroke_in"},
			Description: "Crank end displacement from crank end area and stroke length, in cubic inches.",
			apply: func(args map[string]float64) (Result, error) {
				area, stroke := args["crank_end_area"], args["stroke_in"]
				if err := positive("crank_end_displacement", "crank_end_area", area); err != nil {
					return nil, err
				}
				if err := positive("crank_end_displacement", "stroke_in", stroke); err != nil {
					return nil, err
				}
				return Result{"crank_end_displacement_value": area * stroke}, nil
			},
		},
		{
			Name:        "swept_volume",
			Params:      []string{"head_end_displacement_value", "crank_end_displacement_value"},
			Description: "Swept volume of one cylinder: head end plus crank end displacement, in cubic inches.",
			apply: func(args map[string]float64) (Result, error) {
				he, ce := args["head_end_displacement_value"], args["crank_end_displacement_value"]
				if err := positive("swept_volume", "head_end_displacement_value", he); err != nil {
					return nil, err
				}
				if err := positive("swept_volume", "crank_end_displacement_value", ce); err != nil {
					return nil, err
				}
				return Result{"swept_volume_in3": he + ce}, nil
			},
		},
		{
			Name:        "head_end_clearances",
			Params:      []string{"head_end_displacement_value", "head_end_fixed_clearance_pct", "head_end_added_clearance_pct"},
			Description: "Head end fixed and added clearance volumes and total clearance percentage.",
			apply: func(args map[string]float64) (Result, error) {
				disp := args["head_end_displacement_value"]
				fixed := args["head_end_fixed_clearance_pct"]
				added := args["head_end_added_clearance_pct"]
				if err := positive("head_end_clearances", "head_end_displacement_value", disp); err != nil {
					return nil, err
				}
				if err := nonNegative("head_end_clearances", "head_end_fixed_clearance_pct", fixed); err != nil {
					return nil, err
				}
				if err := nonNegative("head_end_clearances", "head_end_added_clearance_pct", added); err != nil {
					return nil, err
				}
				return Result{
					"head_end_fixed_clearance_in3": fixed / 100 * disp,
					"head_end_added_clearance_in3": added / 100 * disp,
					"head_end_total_clearance_pct": fixed + added,
				}, nil
			},
		},
		{
			Name:        "crank_end_clearances",
			Params:      []string{"crank_end_displacement_value", "crank_end_fixed_clearance_pct", "crank_end_added_clearance_pct"},
			Description: "Crank end fixed and added clearance volumes and total clearance percentage.",
			apply: func(args map[string]float64) (Result, error) {
				disp := args["crank_end_displacement_value"]
				fixed := args["crank_end_fixed_clearance_pct"]
				added := args["crank_end_added_clearance_pct"]
				if err := positive("crank_end_clearances", "crank_end_displacement_value", disp); err != nil {
					return nil, err
				}
				if err := nonNegative("crank_end_clearances", "crank_end_fixed_clearance_pct", fixed); err != nil {
					return nil, err
				}
				if err := nonNegative("crank_end_clearances", "crank_end_added_clearance_pct", added); err != nil {
					return nil, err
				}
				return Result{
					"crank_end_fixed_clearance_in3": fixed / 100 * disp,
					"crank_end_added_clearance_in3": added / 100 * disp,
					"crank_end_total_clearance_pct": fixed + added,
				}, nil
			},
		},
		{
			Name:        "mean_piston_speed",
			Params:      []string{"stroke_in", "rpm"},
			Description: "Mean piston speed from stroke length and RPM, in feet per minute.",
			apply: func(args map[string]float64) (Result, error) {
				stroke, rpm := args["stroke_in"], args["rpm"]
				if err := positive("mean_piston_speed", "stroke_in", stroke); err != nil {
					return nil, err
				}
				if err := positive("mean_piston_speed", "rpm", rpm); err != nil {
					return nil, err
				}
				return Result{"mean_piston_speed_ft_min": stroke * rpm / 12}, nil
			},
		},
		{
			Name:        "he_suction_valve_diameter",
			Params:      []string{"bore_dia_in", "mean_piston_speed_ft_min", "suction_gas_velocity_ft_min", "he_suction_valve_quantity"},
			Description: "Head end suction valve diameter, in inches.",
			apply: func(args map[string]float64) (Result, error) {
				d, err := valveDiameter("he_suction_valve_diameter",
					args["bore_dia_in"], args["mean_piston_speed_ft_min"],
					args["suction_gas_velocity_ft_min"], args["he_suction_valve_quantity"])
				if err != nil {
					return nil, err
				}
				return Result{"head_end_suction_valve_diameter_in": d}, nil
			},
		},
		{
			Name:        "he_discharge_valve_diameter",
			Params:      []string{"bore_dia_in", "mean_piston_speed_ft_min", "discharge_gas_velocity_ft_min", "he_discharge_valve_quantity"},
			Description: "Head end discharge valve diameter, in inches.",
			apply: func(args map[string]float64) (Result, error) {
				d, err := valveDiameter("he_discharge_valve_diameter",
					args["bore_dia_in"], args["mean_piston_speed_ft_min"],
					args["discharge_gas_velocity_ft_min"], args["he_discharge_valve_quantity"])
				if err != nil {
					return nil, err
				}
				return Result{"head_end_discharge_valve_diameter_in": d}, nil
			},
		},
		{
			Name:        "ce_suction_valve_diameter",
			Params:      []string{"bore_dia_in", "mean_piston_speed_ft_min", "suction_gas_velocity_ft_min", "ce_suction_valve_quantity"},
			Description: "Crank end suction valve diameter, in inches.",
			apply: func(args map[string]float64) (Result, error) {
				d, err := valveDiameter("ce_suction_valve_diameter",
					args["bore_dia_in"], args["mean_piston_speed_ft_min"],
					args["suction_gas_velocity_ft_min"], args["ce_suction_valve_quantity"])
				if err != nil {
					return nil, err
				}
				return Result{"crank_end_suction_valve_diameter_in": d}, nil
			},
		},
		{
			Name:        "ce_discharge_valve_diameter",
			Params:      []string{"bore_dia_in", "mean_piston_speed_ft_min", "discharge_gas_velocity_ft_min", "ce_discharge_valve_quantity"},
			Description: "Crank end discharge valve diameter, in inches.",
			apply: func(args map[string]float64) (Result, error) {
				d, err := valveDiameter("ce_discharge_valve_diameter",
					args["bore_dia_in"], args["mean_piston_speed_ft_min"],
					args["discharge_gas_velocity_ft_min"], args["ce_discharge_valve_quantity"])
				if err != nil {
					return nil, err
				}
				return Result{"crank_end_discharge_valve_diameter_in": d}, nil
			},
		},
	}
}
