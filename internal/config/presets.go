package config

import (
	"sort"

	"github.com/san-kum/webtension/internal/line"
)

// MaterialPreset describes a web material. E is Young's modulus in Pa;
// strains are dimensionless.
type MaterialPreset struct {
	Label      string
	E          float64
	BaseStrain float64
	StrainStep float64
	MaxStrain  float64
}

// Stiffness is EA = E·thickness·width for thickness in µm and width in m.
func (p MaterialPreset) Stiffness(thicknessUm, widthM float64) float64 {
	return p.E * thicknessUm * 1e-6 * widthM
}

var Materials = map[string]*MaterialPreset{
	"copper_foil":   {Label: "Copper foil", E: 110e9, BaseStrain: 5e-5, StrainStep: 5e-5, MaxStrain: 3e-4},
	"aluminum_foil": {Label: "Aluminum foil", E: 70e9, BaseStrain: 4e-5, StrainStep: 4e-5, MaxStrain: 3e-4},
	"cathode":       {Label: "Cathode electrode", E: 10e9, BaseStrain: 8e-5, StrainStep: 8e-5, MaxStrain: 6e-4},
	"anode":         {Label: "Anode electrode", E: 8e9, BaseStrain: 1.0e-4, StrainStep: 8e-5, MaxStrain: 6e-4},
	"separator":     {Label: "Separator film", E: 2e9, BaseStrain: 2.0e-4, StrainStep: 1.0e-4, MaxStrain: 1.2e-3},
	"pet":           {Label: "PET web", E: 4e9, BaseStrain: 1.5e-4, StrainStep: 7e-5, MaxStrain: 8e-4},
}

var Layouts = map[string][]line.Station{
	"default": {
		{ID: "unwind", Type: line.Unwind, Position: 5},
		{ID: "dancer1", Type: line.Dancer, Position: 15},
		{ID: "roller1", Type: line.Roller, Position: 25},
		{ID: "roller2", Type: line.Roller, Position: 35},
		{ID: "roller3", Type: line.Roller, Position: 45},
		{ID: "roller4", Type: line.Roller, Position: 55},
		{ID: "roller5", Type: line.Roller, Position: 65},
		{ID: "roller6", Type: line.Roller, Position: 75},
		{ID: "dancer2", Type: line.Dancer, Position: 85},
		{ID: "rewind", Type: line.Rewind, Position: 95},
	},
	"single_span": {
		{ID: "unwind", Type: line.Unwind, Position: 0},
		{ID: "rewind", Type: line.Rewind, Position: 100},
	},
	"pitch_split": {
		{ID: "unwind", Type: line.Unwind, Position: 5},
		{ID: "dancer1", Type: line.Dancer, Position: 20},
		{ID: "roller1", Type: line.Roller, Position: 35},
		{ID: "pitch1", Type: line.Pitch, Position: 50},
		{ID: "roller2", Type: line.Roller, Position: 65},
		{ID: "dancer2", Type: line.Dancer, Position: 80},
		{ID: "rewind", Type: line.Rewind, Position: 95},
	},
	"dual_pitch": {
		{ID: "unwind", Type: line.Unwind, Position: 0},
		{ID: "roller1", Type: line.Roller, Position: 15},
		{ID: "pitch1", Type: line.Pitch, Position: 30},
		{ID: "roller2", Type: line.Roller, Position: 45},
		{ID: "roller3", Type: line.Roller, Position: 55},
		{ID: "pitch2", Type: line.Pitch, Position: 70},
		{ID: "roller4", Type: line.Roller, Position: 85},
		{ID: "rewind", Type: line.Rewind, Position: 100},
	},
}

func GetMaterial(name string) *MaterialPreset {
	p, ok := Materials[name]
	if !ok {
		return nil
	}
	return p
}

func ListMaterials() []string {
	return sortedKeys(Materials)
}

// GetLayout returns a copy of the named layout, or nil.
func GetLayout(name string) []line.Station {
	stations, ok := Layouts[name]
	if !ok {
		return nil
	}
	out := make([]line.Station, len(stations))
	copy(out, stations)
	return out
}

func ListLayouts() []string {
	return sortedKeys(Layouts)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
