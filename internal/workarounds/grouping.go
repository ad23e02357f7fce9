package workarounds

// keyField names the entity attribute used as a grouping key.
type keyField int

const (
	noField keyField = iota
	routeShortNameField
	stopCodeField
)

// groupingField is the lookup table for (disruption type, workaround type).
// "all" has no grouping field: it is entity-set independent.
func groupingField(disruptionType DisruptionType, workaroundType WorkaroundType) (keyField, bool) {
	switch disruptionType {
	case DisruptionTypeRoutes:
		switch workaroundType {
		case WorkaroundTypeRoute:
			return routeShortNameField, true
		case WorkaroundTypeStop:
			return stopCodeField, true
		}
	case DisruptionTypeStops:
		switch workaroundType {
		case WorkaroundTypeRoute:
			return routeShortNameField, true
		case WorkaroundTypeStop:
			return stopCodeField, true
		}
	}
	return noField, false
}

func (f keyField) entityKey(e AffectedEntity) string {
	switch f {
	case routeShortNameField:
		return e.RouteShortName
	case stopCodeField:
		return e.StopCode
	}
	return ""
}

func (f keyField) workaroundKey(w Workaround) string {
	switch f {
	case routeShortNameField:
		return w.RouteShortName
	case stopCodeField:
		return w.StopCode
	}
	return ""
}

// groupBy buckets items by key, dropping items whose key is empty.
// Group order is first-seen order and member order is input order.
func groupBy[T any](items []T, key func(T) string) []Group[T] {
	groups := make([]Group[T], 0)
	index := make(map[string]int)
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Members = append(groups[i].Members, item)
	}
	return groups
}

func findGroup[T any](groups []Group[T], key string) (Group[T], bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group[T]{}, false
}

// GroupEntities groups the entities by the field the disruption and
// workaround types select. Unknown combinations yield no groups.
func GroupEntities(entities []AffectedEntity, disruptionType DisruptionType, workaroundType WorkaroundType) []Group[AffectedEntity] {
	field, ok := groupingField(disruptionType, workaroundType)
	if !ok {
		return []Group[AffectedEntity]{}
	}
	return groupBy(entities, field.entityKey)
}

func groupWorkarounds(workarounds []Workaround, disruptionType DisruptionType, workaroundType WorkaroundType) []Group[Workaround] {
	field, ok := groupingField(disruptionType, workaroundType)
	if !ok {
		return []Group[Workaround]{}
	}
	return groupBy(workarounds, field.workaroundKey)
}

// IsWorkaroundTypeDisabled reports whether no entity supports the workaround
// scope, e.g. "by stop" when no affected entity has a stop code.
func IsWorkaroundTypeDisabled(entities []AffectedEntity, disruptionType DisruptionType, workaroundType WorkaroundType) bool {
	if len(entities) == 0 {
		return true
	}
	// "all" has no grouping field but is always available once something is selected.
	if workaroundType == WorkaroundTypeAll {
		return !disruptionType.IsValid()
	}
	field, ok := groupingField(disruptionType, workaroundType)
	if !ok {
		return true
	}
	for _, e := range entities {
		if field.entityKey(e) != "" {
			return false
		}
	}
	return true
}
