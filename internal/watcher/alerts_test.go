package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeState(score *float64, wears map[string]int) *WatchState {
	s := &WatchState{
		Timestamp:           time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC),
		SustainabilityScore: score,
		wears:               map[string]int{},
		names:               map[string]string{},
	}
	for id, w := range wears {
		s.wears[id] = w
		s.names[id] = "item " + id
		s.TotalItems++
		s.TotalWorn += w
		if w == 0 {
			s.NeverWorn++
		}
	}
	return s
}

func score(v float64) *float64 { return &v }

func alertTitles(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Title
	}
	return out
}

func TestCompare_IdenticalStates(t *testing.T) {
	prev := makeState(score(40), map[string]int{"a": 2, "b": 0})
	curr := makeState(score(40), map[string]int{"a": 2, "b": 0})
	assert.Empty(t, Compare(prev, curr))
}

func TestCompare_NewWornAndRemovedItems(t *testing.T) {
	prev := makeState(score(40), map[string]int{"a": 2, "b": 0, "gone": 5})
	curr := makeState(score(40), map[string]int{"a": 3, "b": 0, "c": 0})

	alerts := Compare(prev, curr)
	assert.Equal(t, []string{"Worn: item a", "New item: item c", "Removed: item gone"}, alertTitles(alerts))
	for _, a := range alerts {
		assert.Equal(t, LevelInfo, a.Level)
	}
	assert.Equal(t, "Wear count 2 → 3", alerts[0].Message)
}

func TestCompare_SustainabilityMovement(t *testing.T) {
	up := Compare(makeState(score(40), nil), makeState(score(50), nil))
	require.Len(t, up, 1)
	assert.Equal(t, "Sustainability score up", up[0].Title)
	assert.Equal(t, LevelInfo, up[0].Level)

	down := Compare(makeState(score(50), nil), makeState(score(40), nil))
	require.Len(t, down, 1)
	assert.Equal(t, "Sustainability score dropped", down[0].Title)
	assert.Equal(t, LevelWarning, down[0].Level)

	assert.Empty(t, Compare(makeState(score(50), nil), makeState(score(52), nil)), "small moves are noise")
	assert.Empty(t, Compare(makeState(nil, nil), makeState(score(52), nil)), "no baseline")
}

func TestCompare_NeverWornGrowth(t *testing.T) {
	prev := makeState(nil, map[string]int{"a": 1, "b": 1})
	curr := makeState(nil, map[string]int{"a": 1, "b": 0})
	curr.wears["b"] = 0

	alerts := Compare(prev, curr)
	require.NotEmpty(t, alerts)
	assert.Equal(t, "More items left unworn", alerts[0].Title)
	assert.Equal(t, LevelWarning, alerts[0].Level)

	// Adding a fresh unworn item is not a regression.
	grown := makeState(nil, map[string]int{"a": 1, "b": 1, "c": 0})
	assert.Equal(t, []string{"New item: item c"}, alertTitles(Compare(prev, grown)))
}

func TestCompare_PlanChanges(t *testing.T) {
	prev := makeState(nil, nil)
	curr := makeState(nil, nil)
	curr.DaysPlanned = 5
	curr.MissingItems = 2

	alerts := Compare(prev, curr)
	assert.Equal(t, []string{"Plan references missing items", "Weekly plan updated"}, alertTitles(alerts))
}
