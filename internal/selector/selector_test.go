package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kfwd/internal/config"
)

func TestParseTagSelection(t *testing.T) {
	sel, err := ParseTagSelection("foo+bar")
	require.NoError(t, err)
	assert.ElementsMatch(t, []config.Tag{"foo", "bar"}, config.TagSet(sel).Sorted())
}

func TestParseTagSelection_DropsEmptyComponents(t *testing.T) {
	sel, err := ParseTagSelection("foo+bar+++baz++")
	require.NoError(t, err)
	assert.ElementsMatch(t, []config.Tag{"foo", "bar", "baz"}, config.TagSet(sel).Sorted())
}

func TestParseTagSelection_InvalidTag(t *testing.T) {
	_, err := ParseTagSelection("foo+1bad")
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	parse := func(raw ...string) []TagSelection {
		sels, err := ParseTagSelections(raw)
		require.NoError(t, err)
		return sels
	}

	tags := config.NewTagSet("a", "b")

	// conjunction within an expression, disjunction across expressions
	assert.True(t, Matches(parse("a+b"), tags))
	assert.True(t, Matches(parse("a"), tags))
	assert.True(t, Matches(parse("c", "b"), tags))
	assert.False(t, Matches(parse("a+c"), tags))
	assert.False(t, Matches(parse("c"), tags))

	// no expressions matches everything, even untagged targets
	assert.True(t, Matches(nil, tags))
	assert.True(t, Matches(nil, config.NewTagSet()))

	// an empty expression is always true
	assert.True(t, Matches(parse("+"), config.NewTagSet()))
}

func TestSelect_NamePrefix(t *testing.T) {
	targets := []config.Target{
		{Target: "api-server", Tags: config.NewTagSet()},
		{Target: "database", Name: "Primary DB", Tags: config.NewTagSet()},
		{Target: "cache", Tags: config.NewTagSet()},
	}

	selected := Select(targets, nil, []string{"API"})
	require.Len(t, selected, 1)
	assert.Equal(t, "api-server", selected[0].Target.Target)

	// display name participates in prefix matching
	selected = Select(targets, nil, []string{"primary"})
	require.Len(t, selected, 1)
	assert.Equal(t, "database", selected[0].Target.Target)

	selected = Select(targets, nil, []string{"api", "cache"})
	assert.Len(t, selected, 2)

	selected = Select(targets, nil, []string{"nothing"})
	assert.Empty(t, selected)
}

func TestSelect_TagAndNameDimensionsAreConjoined(t *testing.T) {
	targets := []config.Target{
		{Target: "api", Tags: config.NewTagSet("prod")},
		{Target: "api-staging", Tags: config.NewTagSet("staging")},
		{Target: "worker", Tags: config.NewTagSet("prod")},
	}
	expr, err := ParseTagSelections([]string{"prod"})
	require.NoError(t, err)

	selected := Select(targets, expr, []string{"api"})
	require.Len(t, selected, 1)
	assert.Equal(t, "api", selected[0].Target.Target)
}

func TestSelect_AssignsSequentialIDs(t *testing.T) {
	targets := []config.Target{
		{Target: "a", Tags: config.NewTagSet("keep")},
		{Target: "b", Tags: config.NewTagSet()},
		{Target: "c", Tags: config.NewTagSet("keep")},
	}
	expr, err := ParseTagSelections([]string{"keep"})
	require.NoError(t, err)

	selected := Select(targets, expr, nil)
	require.Len(t, selected, 2)
	assert.Equal(t, config.TargetID(0), selected[0].ID)
	assert.Equal(t, "a", selected[0].Target.Target)
	assert.Equal(t, config.TargetID(1), selected[1].ID)
	assert.Equal(t, "c", selected[1].Target.Target)
}
