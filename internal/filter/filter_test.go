package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halloway/timeline-companion/internal/graph"
	"github.com/halloway/timeline-companion/internal/tabular"
)

func timelineFixture(t *testing.T) *graph.Graph {
	t.Helper()
	events := tabular.Decode(
		"Event Name,Beginning Date,Location,Related People & Groups,Tags,Description,Document Images\n" +
			"Arrest,1/5/1920,Paris,John Smith,Legal,Officers arrive at dawn,\"scan.jpg (https://cdn.example.com/scan.jpg)\"\n" +
			"Hearing,1/6/1920,Paris,\"John Smith,Jane Roe\",Legal,Before the magistrate,\n" +
			"Sighting,1/6/1920,Berlin,Jane Roe,Rumor,Unconfirmed report,\n" +
			"Letter,,,John Smith,Correspondence,Undated letter,\n")
	g, err := graph.Build(graph.Sources{Events: events})
	require.NoError(t, err)
	return g
}

func eventNames(gs []DayGroup) []string {
	var out []string
	for _, grp := range gs {
		for _, e := range grp.Events {
			out = append(out, e.Name)
		}
	}
	return out
}

func TestZeroStateMatchesEverything(t *testing.T) {
	g := timelineFixture(t)
	got := Apply(g.Events, State{})
	assert.Len(t, got, 4)
	assert.True(t, State{}.IsZero())
}

func TestLocationMultiSelect(t *testing.T) {
	g := timelineFixture(t)

	got := Apply(g.Events, State{Locations: []string{"paris"}})
	require.Len(t, got, 2)
	assert.Equal(t, "Arrest", got[0].Name)
	assert.Equal(t, "Hearing", got[1].Name)

	got = Apply(g.Events, State{Locations: []string{"Paris", "Berlin"}})
	assert.Len(t, got, 3)
}

func TestPersonAndTagConjunction(t *testing.T) {
	g := timelineFixture(t)

	got := Apply(g.Events, State{People: []string{"jane roe"}, Tags: []string{"legal"}})
	require.Len(t, got, 1)
	assert.Equal(t, "Hearing", got[0].Name)
}

func TestQuerySubstring(t *testing.T) {
	g := timelineFixture(t)

	got := Apply(g.Events, State{Query: "MAGISTRATE"})
	require.Len(t, got, 1)
	assert.Equal(t, "Hearing", got[0].Name)

	assert.Empty(t, Apply(g.Events, State{Query: "no such phrase"}))
}

func TestMediaOnlyNarrows(t *testing.T) {
	g := timelineFixture(t)

	base := State{Locations: []string{"Paris"}}
	without := Apply(g.Events, base)

	withMedia := base
	withMedia.MediaOnly = true
	with := Apply(g.Events, withMedia)

	assert.LessOrEqual(t, len(with), len(without))
	require.Len(t, with, 1)
	assert.Equal(t, "Arrest", with[0].Name)
}

func TestRestrictSet(t *testing.T) {
	g := timelineFixture(t)

	s := State{Restrict: []string{"ARREST", "sighting"}}
	got := Apply(g.Events, s)
	require.Len(t, got, 2)
	assert.Equal(t, "Arrest", got[0].Name)
	assert.Equal(t, "Sighting", got[1].Name)

	cleared := s.ClearRestrict()
	assert.Empty(t, cleared.Restrict)
	assert.Len(t, Apply(g.Events, cleared), 4)
}

func TestGroupByDayBucketsAscendingWithUnknownLast(t *testing.T) {
	g := timelineFixture(t)
	groups := GroupByDay(Apply(g.Events, State{}))

	require.Len(t, groups, 3)
	assert.Equal(t, "1920-01-05", groups[0].Key)
	assert.Equal(t, "1920-01-06", groups[1].Key)
	assert.Equal(t, "unknown", groups[2].Key)

	assert.Equal(t, []string{"Arrest", "Hearing", "Sighting", "Letter"}, eventNames(groups))
}
