package tension

import "github.com/san-kum/webtension/internal/line"

const (
	BaseDamping         = 4.0
	DancerDampingFactor = 2.5
)

// ZoneParams are the per-zone constants of one run.
type ZoneParams struct {
	Zone          line.Zone
	Group         int
	Local         int
	TargetStrain  float64
	TargetTension float64
	Damping       float64
	StrainGain    float64
}

func (p ZoneParams) ID() string { return p.Zone.ID }

// Parameterize derives set-points for zones already placed in tension
// groups. Strain set-points rise by StrainStep per zone inside a group so
// downstream spans of the same group run tauter. Zones bounded by a dancer
// are damped 2.5x harder. groups must come from line.AssignGroups(zones).
func Parameterize(zones []line.Zone, groups []line.Assignment, m Material) []ZoneParams {
	out := make([]ZoneParams, len(zones))
	for i, z := range zones {
		a := groups[i]
		eps := m.BaseStrain + float64(a.Local)*m.StrainStep

		damping := BaseDamping
		if z.Compliant() {
			damping *= DancerDampingFactor
		}

		out[i] = ZoneParams{
			Zone:          z,
			Group:         a.Group,
			Local:         a.Local,
			TargetStrain:  eps,
			TargetTension: m.Stiffness * eps,
			Damping:       damping,
			StrainGain:    1 / z.EffectiveLength(),
		}
	}
	return out
}
