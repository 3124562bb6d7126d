package pitch

// Group is every observation one pitcher threw of one pitch type.
type Group struct {
	Key          GroupKey
	Observations []Observation
}

// GroupObservations splits observations into pitcher/pitch-type groups,
// preserving first-appearance order of the groups and input order of the
// observations inside each group.
func GroupObservations(obs []Observation) []Group {
	index := make(map[GroupKey]int)
	groups := make([]Group, 0)
	for _, o := range obs {
		key := GroupKey{Pitcher: o.Pitcher, Type: o.Type}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Observations = append(groups[i].Observations, o)
	}
	return groups
}
