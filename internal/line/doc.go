// Package line describes the physical layout of a web-handling line and
// derives its zones.
//
// A line is a set of [Station] values placed by position (percent of total
// line length). [BuildZones] orders them and emits one [Zone] per adjacent
// pair. [AssignGroups] partitions the zones into tension groups separated
// by driven pitch rollers:
//
//	zones := line.BuildZones(stations, 10)
//	groups := line.AssignGroups(zones)
package line
