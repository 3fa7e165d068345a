package line

// Assignment places a zone inside a tension group.
type Assignment struct {
	Group int
	Local int
}

// AssignGroups walks zones in order. A zone leaving a pitch roller starts a
// new group with local index 0; the first zone always opens group 0 even
// when its upstream station is a pitch roller.
func AssignGroups(zones []Zone) []Assignment {
	out := make([]Assignment, len(zones))
	group, local := 0, 0
	for i, z := range zones {
		if i > 0 && z.From.Type.Driven() {
			group++
			local = 0
		}
		out[i] = Assignment{Group: group, Local: local}
		local++
	}
	return out
}

// GroupCount is the number of distinct tension groups in assignments.
func GroupCount(assignments []Assignment) int {
	if len(assignments) == 0 {
		return 0
	}
	return assignments[len(assignments)-1].Group + 1
}
