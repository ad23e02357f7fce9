package workarounds

import (
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// DefaultTextSeparator joins workarounds in WorkaroundsAsText.
const DefaultTextSeparator = "; "

// FirstWorkaroundText returns the text of the first workaround in a group, or "".
func FirstWorkaroundText(groupWorkarounds []Workaround) string {
	if len(groupWorkarounds) == 0 {
		return ""
	}
	return groupWorkarounds[0].Workaround
}

func (w Workaround) summaryKey() string {
	switch w.Type {
	case WorkaroundTypeRoute:
		return w.RouteShortName
	case WorkaroundTypeStop:
		return w.StopCode
	}
	return ""
}

// String renders the workaround as "[key]text", or just the text for "all".
func (w Workaround) String() string {
	if key := w.summaryKey(); key != "" {
		return "[" + key + "]" + w.Workaround
	}
	return w.Workaround
}

// WorkaroundsAsText renders workarounds for display and export. Identical
// renderings collapse into their first occurrence.
func WorkaroundsAsText(workarounds []Workaround, separator string) string {
	seen := set.New[string](len(workarounds))
	parts := make([]string, 0, len(workarounds))
	for _, w := range workarounds {
		s := w.String()
		if seen.Insert(s) {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, separator)
}
