package storage

import (
	"github.com/san-kum/webtension/internal/line"
	"github.com/san-kum/webtension/internal/tension"
)

func (z ZoneMeta) params(index int) tension.ZoneParams {
	return tension.ZoneParams{
		Zone: line.Zone{
			ID:            z.ID,
			From:          line.Station{ID: z.From, Type: line.StationType(z.FromType)},
			To:            line.Station{ID: z.To, Type: line.StationType(z.ToType)},
			LengthPercent: z.LengthPercent,
			LengthMeters:  z.LengthM,
			Index:         index,
		},
		Group:         z.Group,
		Local:         z.Local,
		TargetStrain:  z.TargetStrain,
		TargetTension: z.TargetTension,
		Damping:       z.Damping,
		StrainGain:    z.StrainGain,
	}
}
