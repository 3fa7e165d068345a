package tension

import "github.com/san-kum/webtension/internal/dynamo"

// ZoneDynamics is the strain relaxation of a single zone.
// State: [ε]. Control: [v_up, v_down] in m/s.
type ZoneDynamics struct {
	Target  float64
	Damping float64
	Gain    float64
}

func NewZoneDynamics(p ZoneParams) *ZoneDynamics {
	return &ZoneDynamics{
		Target:  p.TargetStrain,
		Damping: p.Damping,
		Gain:    p.StrainGain,
	}
}

func (z *ZoneDynamics) StateDim() int   { return 1 }
func (z *ZoneDynamics) ControlDim() int { return 2 }

func (z *ZoneDynamics) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	dv := u[0] - u[1]
	return dynamo.State{z.Gain*dv - z.Damping*(x[0]-z.Target)}
}
