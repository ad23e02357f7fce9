package workarounds

import "slices"

// MergeWorkarounds replaces the workarounds of one group with edited.Workarounds
// and leaves every other group untouched. Groups keep their first-seen order;
// a group that did not exist before is appended. Entries without a grouping
// key for the current scope are kept after the groups. Under "all" there is no
// grouping and the result is edited.Workarounds alone.
func MergeWorkarounds(existing []Workaround, edited EditedGroup, disruptionType DisruptionType, workaroundType WorkaroundType) []Workaround {
	if len(existing) == 0 {
		return cloneWorkarounds(edited.Workarounds)
	}

	groups := groupWorkarounds(existing, disruptionType, workaroundType)
	replaced := false
	for i := range groups {
		if groups[i].Key == edited.Key {
			groups[i].Members = edited.Workarounds
			replaced = true
		}
	}
	if !replaced {
		groups = append(groups, Group[Workaround]{Key: edited.Key, Members: edited.Workarounds})
	}

	merged := make([]Workaround, 0, len(existing)+len(edited.Workarounds))
	for _, g := range groups {
		merged = append(merged, g.Members...)
	}
	if field, ok := groupingField(disruptionType, workaroundType); ok {
		for _, w := range existing {
			if field.workaroundKey(w) == "" {
				merged = append(merged, w)
			}
		}
	}
	return merged
}

// ReconcileWorkaroundsForEntities rebuilds the workaround list after the
// affected entities changed. Text entered for a group is re-emitted for every
// entity now in that group; groups that lost all entities, or never had text,
// produce nothing. "all" workarounds do not depend on entities and pass through.
func ReconcileWorkaroundsForEntities(entities []AffectedEntity, existing []Workaround, disruptionType DisruptionType, workaroundType WorkaroundType) []Workaround {
	if workaroundType == WorkaroundTypeAll {
		return cloneWorkarounds(existing)
	}

	groupedEntities := GroupEntities(entities, disruptionType, workaroundType)
	groupedWorkarounds := groupWorkarounds(existing, disruptionType, workaroundType)

	reconciled := make([]Workaround, 0, len(existing))
	for _, entityGroup := range groupedEntities {
		workaroundGroup, ok := findGroup(groupedWorkarounds, entityGroup.Key)
		if !ok {
			continue
		}
		text := FirstWorkaroundText(workaroundGroup.Members)
		for _, e := range entityGroup.Members {
			reconciled = append(reconciled, Workaround{
				Type:           workaroundType,
				Workaround:     text,
				RouteShortName: e.RouteShortName,
				StopCode:       e.StopCode,
			})
		}
	}
	return reconciled
}

// BuildEditedGroup produces the replacement set for one group key holding text.
// Empty text yields an empty set, which removes the group on merge.
func BuildEditedGroup(entities []AffectedEntity, key, text string, disruptionType DisruptionType, workaroundType WorkaroundType) EditedGroup {
	edited := EditedGroup{Key: key, Workarounds: []Workaround{}}
	if text == "" {
		return edited
	}
	if workaroundType == WorkaroundTypeAll {
		edited.Workarounds = append(edited.Workarounds, Workaround{Type: WorkaroundTypeAll, Workaround: text})
		return edited
	}
	group, ok := findGroup(GroupEntities(entities, disruptionType, workaroundType), key)
	if !ok {
		return edited
	}
	for _, e := range group.Members {
		edited.Workarounds = append(edited.Workarounds, Workaround{
			Type:           workaroundType,
			Workaround:     text,
			RouteShortName: e.RouteShortName,
			StopCode:       e.StopCode,
		})
	}
	return edited
}

func cloneWorkarounds(workarounds []Workaround) []Workaround {
	if workarounds == nil {
		return []Workaround{}
	}
	return slices.Clone(workarounds)
}
