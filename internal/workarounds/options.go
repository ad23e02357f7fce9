package workarounds

import (
	"log/slog"
	"slices"
	"strings"

	"disruptions.onebusaway.org/internal/logging"
	"github.com/hashicorp/go-set/v2"
)

const allWorkaroundLabel = "All"

type entityNoun struct {
	singular string
	plural   string
	name     func(AffectedEntity) string
}

var (
	routeNoun = entityNoun{singular: "route", plural: "routes", name: func(e AffectedEntity) string { return e.RouteShortName }}
	stopNoun  = entityNoun{singular: "stop", plural: "stops", name: func(e AffectedEntity) string { return e.StopCode }}
)

// sentence names the distinct entities, e.g. "stop 4222" or "stops 4222, 7037".
func (n entityNoun) sentence(entities []AffectedEntity) string {
	names := distinctNames(entities, n.name)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return n.singular + " " + names[0]
	default:
		return n.plural + " " + strings.Join(names, ", ")
	}
}

func distinctNames(entities []AffectedEntity, name func(AffectedEntity) string) []string {
	seen := set.New[string](len(entities))
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		n := name(e)
		if n == "" {
			continue
		}
		if seen.Insert(n) {
			names = append(names, n)
		}
	}
	return names
}

type helperTextConfig struct {
	child       entityNoun
	parent      entityNoun
	preposition string
}

func helperTextConfigFor(disruptionType DisruptionType) (helperTextConfig, bool) {
	switch disruptionType {
	case DisruptionTypeRoutes:
		return helperTextConfig{child: stopNoun, parent: routeNoun, preposition: "for"}, true
	case DisruptionTypeStops:
		return helperTextConfig{child: routeNoun, parent: stopNoun, preposition: "at"}, true
	}
	return helperTextConfig{}, false
}

func (c helperTextConfig) allHelperText(entities []AffectedEntity) string {
	text := "Applies to all selected " + c.child.plural
	if parent := c.parent.sentence(entities); parent != "" {
		text += " " + c.preposition + " " + parent
	}
	return text
}

func (c helperTextConfig) groupHelperText(members []AffectedEntity) string {
	child := c.child.sentence(members)
	parent := c.parent.sentence(members)
	switch {
	case child != "" && parent != "":
		return "Applies to " + child + " " + c.preposition + " " + parent
	case parent != "":
		return "Applies to " + parent
	case child != "":
		return "Applies to " + child
	}
	return ""
}

func groupLabel(workaroundType WorkaroundType, group Group[AffectedEntity]) string {
	switch workaroundType {
	case WorkaroundTypeRoute:
		return group.Key
	case WorkaroundTypeStop:
		stopName := ""
		for _, e := range group.Members {
			if e.StopName != "" {
				stopName = e.StopName
				break
			}
		}
		return strings.TrimSpace(group.Key + " " + stopName)
	}
	return group.Key
}

// GenerateWorkaroundsUIOptions derives the editable workaround fields for the
// current entities: a single field for "all", otherwise one per group.
// An unknown disruption type is a configuration defect; it is logged and
// yields no options.
func GenerateWorkaroundsUIOptions(entities []AffectedEntity, existing []Workaround, disruptionType DisruptionType, workaroundType WorkaroundType) []WorkaroundUIOption {
	cfg, ok := helperTextConfigFor(disruptionType)
	if !ok {
		logger := slog.Default().With(slog.String("component", "workarounds"))
		logging.LogWarning(logger, "no helper text configuration for disruption type",
			slog.String("disruption_type", string(disruptionType)),
			slog.String("workaround_type", string(workaroundType)))
		return []WorkaroundUIOption{}
	}

	if workaroundType == WorkaroundTypeAll {
		return []WorkaroundUIOption{{
			WorkaroundType: WorkaroundTypeAll,
			Label:          allWorkaroundLabel,
			HelperText:     cfg.allHelperText(entities),
			WorkaroundKey:  string(WorkaroundTypeAll),
			Entities:       cloneEntities(entities),
			WorkaroundText: FirstWorkaroundText(existing),
		}}
	}

	groupedWorkarounds := groupWorkarounds(existing, disruptionType, workaroundType)
	groups := GroupEntities(entities, disruptionType, workaroundType)
	options := make([]WorkaroundUIOption, 0, len(groups))
	for _, group := range groups {
		text := ""
		if wg, ok := findGroup(groupedWorkarounds, group.Key); ok {
			text = FirstWorkaroundText(wg.Members)
		}
		options = append(options, WorkaroundUIOption{
			WorkaroundType: workaroundType,
			Label:          groupLabel(workaroundType, group),
			HelperText:     cfg.groupHelperText(group.Members),
			WorkaroundKey:  group.Key,
			Entities:       cloneEntities(group.Members),
			WorkaroundText: text,
		})
	}
	return options
}

func cloneEntities(entities []AffectedEntity) []AffectedEntity {
	if entities == nil {
		return []AffectedEntity{}
	}
	return slices.Clone(entities)
}
