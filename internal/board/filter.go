package board

import (
	"strings"

	"github.com/schollz/closestmatch"
)

const (
	TabAll              = "all"
	HighPointsThreshold = 40
	EmptyMessage        = "No activities match your filters"
)

// Filter narrows the board. Every set criterion must hold.
type Filter struct {
	Tab            string
	Search         string
	RegisteredOnly bool
	AvailableOnly  bool
	HighPoints     bool
}

type FilterResult struct {
	Activities   []Activity `json:"activities"`
	EmptyMessage string     `json:"empty_message,omitempty"`
	Suggestion   string     `json:"suggestion,omitempty"`
}

func (f Filter) Matches(a Activity) bool {
	if f.Tab != "" && f.Tab != TabAll && a.Type != f.Tab {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" &&
		!strings.Contains(strings.ToLower(a.Title), q) &&
		!strings.Contains(strings.ToLower(a.Location), q) {
		return false
	}

	if f.RegisteredOnly && !a.IsRegistered {
		return false
	}
	if f.AvailableOnly && !a.HasSpots() {
		return false
	}
	if f.HighPoints && a.Points < HighPointsThreshold {
		return false
	}

	return true
}

// Apply filters activities. An empty result carries the empty-state message
// and, when a search was given, the closest activity title.
func Apply(activities []Activity, f Filter) FilterResult {
	res := FilterResult{Activities: []Activity{}}
	for _, a := range activities {
		if f.Matches(a) {
			res.Activities = append(res.Activities, a)
		}
	}

	if len(res.Activities) == 0 {
		res.EmptyMessage = EmptyMessage
		res.Suggestion = suggest(activities, f.Search)
	}
	return res
}

func suggest(activities []Activity, search string) string {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" || len(activities) == 0 {
		return ""
	}

	byLower := make(map[string]string, len(activities))
	titles := make([]string, 0, len(activities))
	for _, a := range activities {
		lower := strings.ToLower(a.Title)
		if _, ok := byLower[lower]; !ok {
			byLower[lower] = a.Title
			titles = append(titles, lower)
		}
	}

	cm := closestmatch.New(titles, []int{2, 3})
	return byLower[cm.Closest(search)]
}
