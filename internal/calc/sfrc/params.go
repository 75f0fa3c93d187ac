package sfrc

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// FR1Coefficients: fR1 = A*Vf^B*(lf/df)^C*fc^D + Const
type FR1Coefficients struct {
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
	C     float64 `json:"c" yaml:"c"`
	D     float64 `json:"d" yaml:"d"`
	Const float64 `json:"const" yaml:"const"`
}

// FR3Coefficients: fR3 = A*Vf^B*(lf/df)^C*fc^D*(ffu/1000)^E*(lf/50)^F + Const
type FR3Coefficients struct {
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
	C     float64 `json:"c" yaml:"c"`
	D     float64 `json:"d" yaml:"d"`
	E     float64 `json:"e" yaml:"e"`
	F     float64 `json:"f" yaml:"f"`
	Const float64 `json:"const" yaml:"const"`
}

// Scaling converts a mean prediction to characteristic and design level.
type Scaling struct {
	KChar   float64 `json:"k_char" yaml:"k_char"`
	KDesign float64 `json:"k_design" yaml:"k_design"`
	Gamma   float64 `json:"gamma" yaml:"gamma"`
}

type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether x lies in the closed interval [Min, Max].
func (b Bounds) Contains(x float64) bool {
	return x >= b.Min && x <= b.Max
}

// Domain is the range of the calibration dataset. Fiber fraction is decimal.
type Domain struct {
	FiberFraction Bounds `json:"fiber_fraction" yaml:"fiber_fraction"`
	StrengthFc    Bounds `json:"strength_fc_mpa" yaml:"strength_fc_mpa"`
	AspectRatio   Bounds `json:"aspect_ratio" yaml:"aspect_ratio"`
	TensileMPa    Bounds `json:"fiber_tensile_mpa" yaml:"fiber_tensile_mpa"`
}

// PercentBounds is the fiber fraction range expressed in percent.
func (d Domain) PercentBounds() Bounds {
	return Bounds{Min: FractionToPercent(d.FiberFraction.Min), Max: FractionToPercent(d.FiberFraction.Max)}
}

type Params struct {
	FR1        FR1Coefficients `json:"fr1" yaml:"fr1"`
	FR3        FR3Coefficients `json:"fr3" yaml:"fr3"`
	ScaleFR1   Scaling         `json:"scale_fr1" yaml:"scale_fr1"`
	ScaleFR3   Scaling         `json:"scale_fr3" yaml:"scale_fr3"`
	FcFromFcu  float64         `json:"fc_from_fcu" yaml:"fc_from_fcu"`
	Domain     Domain          `json:"domain" yaml:"domain"`
	FiberType  string          `json:"fiber_type" yaml:"fiber_type"`
	Disclaimer string          `json:"disclaimer" yaml:"disclaimer"`
}

const (
	DefaultLengthMM   = 50.0
	DefaultDiameterMM = 0.75
	DefaultTensileMPa = 2000.0

	// reference values of the fR3 normalisation
	tensileRef = 1000.0
	lengthRef  = 50.0
)

// DefaultParams returns the published calibration (EN 1990 Annex C scaling).
func DefaultParams() Params {
	return Params{
		FR1:       FR1Coefficients{A: 6.939, B: 0.448, C: 0.377, D: 0.265, Const: -3.823},
		FR3:       FR3Coefficients{A: 12.000, B: 0.613, C: 0.370, D: 0.247, E: 0.411, F: 0.313, Const: -1.506},
		ScaleFR1:  Scaling{KChar: 0.67, KDesign: 0.49, Gamma: 1.36},
		ScaleFR3:  Scaling{KChar: 0.62, KDesign: 0.43, Gamma: 1.45},
		FcFromFcu: 0.82,
		Domain: Domain{
			FiberFraction: Bounds{Min: 0.002, Max: 0.02},
			StrengthFc:    Bounds{Min: 22, Max: 79},
			AspectRatio:   Bounds{Min: 38, Max: 100},
			TensileMPa:    Bounds{Min: 1000, Max: 3200},
		},
		FiberType:  "3D hooked-end steel fibres (as in the experimental dataset used for calibration).",
		Disclaimer: "For scientific/research use only. Not intended for structural design or safety-critical decisions.",
	}
}

// LoadParams reads a YAML file over the defaults. Keys missing from the file keep
// their published value.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse params %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"fr1.a", p.FR1.A}, {"fr1.b", p.FR1.B}, {"fr1.c", p.FR1.C}, {"fr1.d", p.FR1.D}, {"fr1.const", p.FR1.Const},
		{"fr3.a", p.FR3.A}, {"fr3.b", p.FR3.B}, {"fr3.c", p.FR3.C}, {"fr3.d", p.FR3.D},
		{"fr3.e", p.FR3.E}, {"fr3.f", p.FR3.F}, {"fr3.const", p.FR3.Const},
		{"scale_fr1.k_char", p.ScaleFR1.KChar}, {"scale_fr1.k_design", p.ScaleFR1.KDesign}, {"scale_fr1.gamma", p.ScaleFR1.Gamma},
		{"scale_fr3.k_char", p.ScaleFR3.KChar}, {"scale_fr3.k_design", p.ScaleFR3.KDesign}, {"scale_fr3.gamma", p.ScaleFR3.Gamma},
		{"fc_from_fcu", p.FcFromFcu},
	} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%s: %v is not a finite number", c.name, c.v)
		}
	}

	for _, s := range []struct {
		name string
		s    Scaling
	}{{"fr1", p.ScaleFR1}, {"fr3", p.ScaleFR3}} {
		if s.s.KChar <= 0 || s.s.KChar > 1 {
			return fmt.Errorf("scale %s: k_char %v outside (0,1]", s.name, s.s.KChar)
		}
		if s.s.KDesign <= 0 || s.s.KDesign > s.s.KChar {
			return fmt.Errorf("scale %s: k_design %v outside (0,k_char]", s.name, s.s.KDesign)
		}
	}
	if p.FcFromFcu <= 0 {
		return fmt.Errorf("fc_from_fcu must be positive")
	}
	if p.FR1.A <= 0 || p.FR3.A <= 0 {
		return fmt.Errorf("leading coefficient must be positive")
	}
	for _, b := range []struct {
		name string
		b    Bounds
	}{
		{"fiber_fraction", p.Domain.FiberFraction},
		{"strength_fc_mpa", p.Domain.StrengthFc},
		{"aspect_ratio", p.Domain.AspectRatio},
		{"fiber_tensile_mpa", p.Domain.TensileMPa},
	} {
		if math.IsNaN(b.b.Min) || math.IsNaN(b.b.Max) || math.IsInf(b.b.Min, 0) || math.IsInf(b.b.Max, 0) {
			return fmt.Errorf("domain %s: bounds must be finite", b.name)
		}
		if b.b.Min > b.b.Max {
			return fmt.Errorf("domain %s: min %v above max %v", b.name, b.b.Min, b.b.Max)
		}
	}
	return nil
}
