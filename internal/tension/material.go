package tension

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMaterial is returned for a material the engine cannot run with.
var ErrInvalidMaterial = errors.New("tension: invalid material parameters")

const (
	DefaultStiffness  = 2e5    // N
	DefaultBaseStrain = 1.5e-4 // 0.015 %
	DefaultStrainStep = 2e-5
)

// Material carries the web properties the engine needs. Stiffness is the
// effective axial stiffness EA = E·thickness·width in newtons.
type Material struct {
	Stiffness  float64 `json:"ea" yaml:"ea"`
	BaseStrain float64 `json:"base_strain" yaml:"base_strain"`
	StrainStep float64 `json:"strain_step" yaml:"strain_step"`
}

func DefaultMaterial() Material {
	return Material{
		Stiffness:  DefaultStiffness,
		BaseStrain: DefaultBaseStrain,
		StrainStep: DefaultStrainStep,
	}
}

// Validate rejects non-finite values and a non-positive stiffness. It never
// substitutes defaults.
func (m Material) Validate() error {
	if math.IsNaN(m.Stiffness) || math.IsInf(m.Stiffness, 0) || m.Stiffness <= 0 {
		return fmt.Errorf("%w: stiffness must be positive and finite, got %g", ErrInvalidMaterial, m.Stiffness)
	}
	if math.IsNaN(m.BaseStrain) || math.IsInf(m.BaseStrain, 0) {
		return fmt.Errorf("%w: base strain must be finite, got %g", ErrInvalidMaterial, m.BaseStrain)
	}
	if math.IsNaN(m.StrainStep) || math.IsInf(m.StrainStep, 0) {
		return fmt.Errorf("%w: strain step must be finite, got %g", ErrInvalidMaterial, m.StrainStep)
	}
	return nil
}

// Tension converts strain to tension. A web cannot push, so the result is
// never negative.
func (m Material) Tension(strain float64) float64 {
	return math.Max(m.Stiffness*strain, 0)
}
