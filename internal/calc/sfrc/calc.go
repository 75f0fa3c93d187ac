package sfrc

import (
	"fmt"
	"math"
)

type FiberMode string

const (
	FiberPercent FiberMode = "percent"
	FiberDecimal FiberMode = "decimal"
)

type StrengthMode string

const (
	StrengthCylinder StrengthMode = "fc"
	StrengthCube     StrengthMode = "fcu"
)

type Input struct {
	Vf              float64      `json:"vf"`
	VfMode          FiberMode    `json:"vf_mode"`
	StrengthMPa     float64      `json:"strength_mpa"`
	StrengthMode    StrengthMode `json:"strength_mode"`
	FiberLengthMM   float64      `json:"fiber_length_mm"`
	FiberDiameterMM float64      `json:"fiber_diameter_mm"`
	FiberTensileMPa float64      `json:"fiber_tensile_mpa"`
}

// Normalized holds the input on one basis: decimal fiber fraction and cylinder
// strength. The derived ratios used by the regressions are kept for display.
type Normalized struct {
	VfMode        FiberMode `json:"vf_mode"`
	FiberFraction float64   `json:"fiber_fraction"`
	FiberPercent  float64   `json:"fiber_percent"`
	StrengthFc    float64   `json:"strength_fc_mpa"`
	StrengthFcu   float64   `json:"strength_fcu_mpa"`
	LengthMM      float64   `json:"fiber_length_mm"`
	DiameterMM    float64   `json:"fiber_diameter_mm"`
	AspectRatio   float64   `json:"aspect_ratio"`
	TensileMPa    float64   `json:"fiber_tensile_mpa"`
	TensileStar   float64   `json:"fiber_tensile_star"`
	LengthStar    float64   `json:"fiber_length_star"`
}

// Mean is the regression output. Raw values below zero are clamped to 0.
type Mean struct {
	FR1       float64
	FR3       float64
	RawFR1    float64
	RawFR3    float64
	ClampedR1 bool
	ClampedR3 bool
}

type Levels struct {
	CharacteristicFR1 float64
	CharacteristicFR3 float64
	DesignFR1         float64
	DesignFR3         float64
}

type Result struct {
	MeanFR1           float64    `json:"mean_fr1"`
	MeanFR3           float64    `json:"mean_fr3"`
	CharacteristicFR1 float64    `json:"characteristic_fr1"`
	CharacteristicFR3 float64    `json:"characteristic_fr3"`
	DesignFR1         float64    `json:"design_fr1"`
	DesignFR3         float64    `json:"design_fr3"`
	InDomain          bool       `json:"in_domain"`
	Warnings          []string   `json:"warnings"`
	RawFR1            float64    `json:"raw_fr1"`
	RawFR3            float64    `json:"raw_fr3"`
	ClampedFR1        bool       `json:"clamped_fr1"`
	ClampedFR3        bool       `json:"clamped_fr3"`
	GammaFR1          float64    `json:"gamma_fr1"`
	GammaFR3          float64    `json:"gamma_fr3"`
	Normalized        Normalized `json:"normalized"`
	Notes             string     `json:"notes"`
}

// Engine evaluates the residual strength regressions for one parameter set.
// It is immutable and safe for concurrent use.
type Engine struct {
	params Params
}

func NewEngine(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: p}, nil
}

var defaultEngine = mustEngine(DefaultParams())

func mustEngine(p Params) *Engine {
	e, err := NewEngine(p)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the engine built on the published calibration.
func Default() *Engine { return defaultEngine }

// Calculate runs Predict on the default engine.
func Calculate(in Input) (Result, error) {
	return defaultEngine.Predict(in)
}

func (e *Engine) Params() Params { return e.params }

func (e *Engine) Normalize(in Input) (Normalized, error) {
	if err := positive("vf", in.Vf); err != nil {
		return Normalized{}, err
	}
	if err := positive("strength_mpa", in.StrengthMPa); err != nil {
		return Normalized{}, err
	}

	var n Normalized
	switch in.VfMode {
	case FiberPercent, "":
		if in.Vf > 100 {
			return Normalized{}, invalid("vf", in.Vf, "must not exceed 100 %")
		}
		n.VfMode = FiberPercent
		n.FiberPercent = in.Vf
		n.FiberFraction = PercentToFraction(in.Vf)
	case FiberDecimal:
		if in.Vf > 1 {
			return Normalized{}, invalid("vf", in.Vf, "must not exceed 1 as a decimal fraction")
		}
		n.VfMode = FiberDecimal
		n.FiberFraction = in.Vf
		n.FiberPercent = FractionToPercent(in.Vf)
	default:
		return Normalized{}, &InvalidInputError{Field: "vf_mode", Reason: fmt.Sprintf("unknown mode %q", in.VfMode)}
	}

	switch in.StrengthMode {
	case StrengthCylinder, "":
		n.StrengthFc = in.StrengthMPa
		n.StrengthFcu = e.CylinderToCube(in.StrengthMPa)
	case StrengthCube:
		n.StrengthFcu = in.StrengthMPa
		n.StrengthFc = e.CubeToCylinder(in.StrengthMPa)
	default:
		return Normalized{}, &InvalidInputError{Field: "strength_mode", Reason: fmt.Sprintf("unknown mode %q", in.StrengthMode)}
	}

	var err error
	if n.LengthMM, err = optional("fiber_length_mm", in.FiberLengthMM, DefaultLengthMM); err != nil {
		return Normalized{}, err
	}
	if n.DiameterMM, err = optional("fiber_diameter_mm", in.FiberDiameterMM, DefaultDiameterMM); err != nil {
		return Normalized{}, err
	}
	if n.TensileMPa, err = optional("fiber_tensile_mpa", in.FiberTensileMPa, DefaultTensileMPa); err != nil {
		return Normalized{}, err
	}
	n.AspectRatio = n.LengthMM / n.DiameterMM
	n.TensileStar = n.TensileMPa / tensileRef
	n.LengthStar = n.LengthMM / lengthRef

	// the ratios can still overflow for absurd inputs
	if err := positive("fiber_fraction", n.FiberFraction); err != nil {
		return Normalized{}, err
	}
	if err := positive("strength_fc_mpa", n.StrengthFc); err != nil {
		return Normalized{}, err
	}
	if err := positive("aspect_ratio", n.AspectRatio); err != nil {
		return Normalized{}, err
	}
	return n, nil
}

// CheckDomain reports whether n lies inside the closed bounds of d, with one
// warning per bound that is violated. V_f is compared in the unit it was
// entered in.
func CheckDomain(n Normalized, d Domain) (bool, []string) {
	var warnings []string
	fiberOK := d.PercentBounds().Contains(n.FiberPercent)
	if n.VfMode == FiberDecimal {
		fiberOK = d.FiberFraction.Contains(n.FiberFraction)
	}
	if !fiberOK {
		warnings = append(warnings, fmt.Sprintf("V_f = %.3f %% is outside [%.2f, %.2f] %%",
			n.FiberPercent, FractionToPercent(d.FiberFraction.Min), FractionToPercent(d.FiberFraction.Max)))
	}
	if !d.StrengthFc.Contains(n.StrengthFc) {
		warnings = append(warnings, fmt.Sprintf("f_c = %.2f MPa is outside [%g, %g] MPa",
			n.StrengthFc, d.StrengthFc.Min, d.StrengthFc.Max))
	}
	if !d.AspectRatio.Contains(n.AspectRatio) {
		warnings = append(warnings, fmt.Sprintf("l_f/d_f = %.2f is outside [%g, %g]",
			n.AspectRatio, d.AspectRatio.Min, d.AspectRatio.Max))
	}
	if !d.TensileMPa.Contains(n.TensileMPa) {
		warnings = append(warnings, fmt.Sprintf("f_fu = %.0f MPa is outside [%g, %g] MPa",
			n.TensileMPa, d.TensileMPa.Min, d.TensileMPa.Max))
	}
	return len(warnings) == 0, warnings
}

func (e *Engine) PredictMean(n Normalized) Mean {
	c1 := e.params.FR1
	raw1 := c1.A*
		math.Pow(n.FiberFraction, c1.B)*
		math.Pow(n.AspectRatio, c1.C)*
		math.Pow(n.StrengthFc, c1.D) + c1.Const

	c3 := e.params.FR3
	raw3 := c3.A*
		math.Pow(n.FiberFraction, c3.B)*
		math.Pow(n.AspectRatio, c3.C)*
		math.Pow(n.StrengthFc, c3.D)*
		math.Pow(n.TensileStar, c3.E)*
		math.Pow(n.LengthStar, c3.F) + c3.Const

	return Mean{
		FR1:       math.Max(0, raw1),
		FR3:       math.Max(0, raw3),
		RawFR1:    raw1,
		RawFR3:    raw3,
		ClampedR1: raw1 < 0,
		ClampedR3: raw3 < 0,
	}
}

// DeriveDesignValues scales mean predictions. Both levels are taken from the
// mean, so k_design <= k_char <= 1 keeps design <= characteristic <= mean.
func (e *Engine) DeriveDesignValues(meanFR1, meanFR3 float64) Levels {
	s1, s3 := e.params.ScaleFR1, e.params.ScaleFR3
	return Levels{
		CharacteristicFR1: s1.KChar * meanFR1,
		CharacteristicFR3: s3.KChar * meanFR3,
		DesignFR1:         s1.KDesign * meanFR1,
		DesignFR3:         s3.KDesign * meanFR3,
	}
}

func (e *Engine) Predict(in Input) (Result, error) {
	n, err := e.Normalize(in)
	if err != nil {
		return Result{}, err
	}
	inDomain, warnings := CheckDomain(n, e.params.Domain)
	mean := e.PredictMean(n)
	lv := e.DeriveDesignValues(mean.FR1, mean.FR3)

	notes := "Mean, characteristic and design residual flexural strengths (MPa)."
	if !inDomain {
		notes += " Inputs outside the calibration range: use with caution."
	}
	if mean.ClampedR1 || mean.ClampedR3 {
		notes += " Negative raw prediction set to 0.0 MPa."
	}
	if warnings == nil {
		warnings = []string{}
	}

	return Result{
		MeanFR1:           mean.FR1,
		MeanFR3:           mean.FR3,
		CharacteristicFR1: lv.CharacteristicFR1,
		CharacteristicFR3: lv.CharacteristicFR3,
		DesignFR1:         lv.DesignFR1,
		DesignFR3:         lv.DesignFR3,
		InDomain:          inDomain,
		Warnings:          warnings,
		RawFR1:            mean.RawFR1,
		RawFR3:            mean.RawFR3,
		ClampedFR1:        mean.ClampedR1,
		ClampedFR3:        mean.ClampedR3,
		GammaFR1:          e.params.ScaleFR1.Gamma,
		GammaFR3:          e.params.ScaleFR3.Gamma,
		Normalized:        n,
		Notes:             notes,
	}, nil
}

func (e *Engine) CubeToCylinder(fcu float64) float64 { return e.params.FcFromFcu * fcu }
func (e *Engine) CylinderToCube(fc float64) float64  { return fc / e.params.FcFromFcu }

func PercentToFraction(pct float64) float64 { return pct / 100.0 }
func FractionToPercent(f float64) float64   { return f * 100.0 }

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, v, "is not a finite number")
	}
	if v <= 0 {
		return invalid(field, v, "must be positive")
	}
	return nil
}

// optional fields: zero selects the default, anything else must be positive.
func optional(field string, v, def float64) (float64, error) {
	if v == 0 {
		return def, nil
	}
	if err := positive(field, v); err != nil {
		return 0, err
	}
	return v, nil
}
