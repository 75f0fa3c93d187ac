package recommend

import (
	"fmt"
	"math"

	sfrc "SFRC/internal/calc/sfrc"
)

type Target string

const (
	TargetFR1 Target = "fr1"
	TargetFR3 Target = "fr3"
)

type Level string

const (
	LevelMean           Level = "mean"
	LevelCharacteristic Level = "characteristic"
	LevelDesign         Level = "design"
)

type DosageInput struct {
	Target          Target            `json:"target"`
	Level           Level             `json:"level"`
	TargetMPa       float64           `json:"target_mpa"`
	StrengthMPa     float64           `json:"strength_mpa"`
	StrengthMode    sfrc.StrengthMode `json:"strength_mode"`
	FiberLengthMM   float64           `json:"fiber_length_mm"`
	FiberDiameterMM float64           `json:"fiber_diameter_mm"`
	FiberTensileMPa float64           `json:"fiber_tensile_mpa"`
}

type DosageResult struct {
	FiberFraction float64     `json:"fiber_fraction"`
	FiberPercent  float64     `json:"fiber_percent"`
	MeanTargetMPa float64     `json:"mean_target_mpa"`
	Check         sfrc.Result `json:"check"`
	Notes         string      `json:"notes"`
}

// FiberDosage inverts the mean regression of the chosen target for V_f.
func FiberDosage(e *sfrc.Engine, in DosageInput) (DosageResult, error) {
	if e == nil {
		e = sfrc.Default()
	}
	if in.TargetMPa <= 0 || math.IsNaN(in.TargetMPa) || math.IsInf(in.TargetMPa, 0) {
		return DosageResult{}, &sfrc.InvalidInputError{Field: "target_mpa", Value: in.TargetMPa, Reason: "must be a positive number"}
	}
	p := e.Params()

	var scale sfrc.Scaling
	switch in.Target {
	case TargetFR1, "":
		in.Target = TargetFR1
		scale = p.ScaleFR1
	case TargetFR3:
		scale = p.ScaleFR3
	default:
		return DosageResult{}, &sfrc.InvalidInputError{Field: "target", Reason: fmt.Sprintf("unknown target %q", in.Target)}
	}

	mean := in.TargetMPa
	switch in.Level {
	case LevelCharacteristic, "":
		mean /= scale.KChar
	case LevelDesign:
		mean /= scale.KDesign
	case LevelMean:
	default:
		return DosageResult{}, &sfrc.InvalidInputError{Field: "level", Reason: fmt.Sprintf("unknown level %q", in.Level)}
	}

	// the dosage here is a placeholder, only strength and fibre geometry are used
	n, err := e.Normalize(sfrc.Input{
		Vf:              1,
		StrengthMPa:     in.StrengthMPa,
		StrengthMode:    in.StrengthMode,
		FiberLengthMM:   in.FiberLengthMM,
		FiberDiameterMM: in.FiberDiameterMM,
		FiberTensileMPa: in.FiberTensileMPa,
	})
	if err != nil {
		return DosageResult{}, err
	}

	var vf float64
	if in.Target == TargetFR1 {
		c := p.FR1
		rest := c.A * math.Pow(n.AspectRatio, c.C) * math.Pow(n.StrengthFc, c.D)
		vf, err = invert(mean, c.Const, rest, c.B)
	} else {
		c := p.FR3
		rest := c.A * math.Pow(n.AspectRatio, c.C) * math.Pow(n.StrengthFc, c.D) *
			math.Pow(n.TensileStar, c.E) * math.Pow(n.LengthStar, c.F)
		vf, err = invert(mean, c.Const, rest, c.B)
	}
	if err != nil {
		return DosageResult{}, err
	}

	check, err := e.Predict(sfrc.Input{
		Vf:              vf,
		VfMode:          sfrc.FiberDecimal,
		StrengthMPa:     in.StrengthMPa,
		StrengthMode:    in.StrengthMode,
		FiberLengthMM:   in.FiberLengthMM,
		FiberDiameterMM: in.FiberDiameterMM,
		FiberTensileMPa: in.FiberTensileMPa,
	})
	if err != nil {
		return DosageResult{}, err
	}

	notes := fmt.Sprintf("Fibre dosage reaching %s %s = %.3f MPa.", in.Level, in.Target, in.TargetMPa)
	if in.Level == "" {
		notes = fmt.Sprintf("Fibre dosage reaching characteristic %s = %.3f MPa.", in.Target, in.TargetMPa)
	}
	if !check.InDomain {
		notes += " Required dosage or mix lies outside the calibration range."
	}
	return DosageResult{
		FiberFraction: vf,
		FiberPercent:  sfrc.FractionToPercent(vf),
		MeanTargetMPa: mean,
		Check:         check,
		Notes:         notes,
	}, nil
}

// invert solves mean = rest*vf^exp + konst for vf.
func invert(mean, konst, rest, exp float64) (float64, error) {
	base := (mean - konst) / rest
	if base <= 0 || exp == 0 {
		return 0, &sfrc.InvalidInputError{Field: "target_mpa", Value: mean, Reason: "cannot be reached by any fibre dosage"}
	}
	vf := math.Pow(base, 1/exp)
	if math.IsInf(vf, 0) || math.IsNaN(vf) || vf <= 0 || vf > 1 {
		return 0, &sfrc.InvalidInputError{Field: "target_mpa", Value: mean, Reason: "cannot be reached by any fibre dosage"}
	}
	return vf, nil
}
