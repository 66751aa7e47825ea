package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	same := Compare("a", "a")
	assert.False(t, same.Changed())
	assert.Nil(t, same.New)

	diff := Compare("a", "b")
	require.True(t, diff.Changed())
	assert.Equal(t, "a", diff.Old)
	assert.Equal(t, "b", *diff.New)
}

func TestCompareNullable(t *testing.T) {
	a, b := "a", "b"

	assert.False(t, CompareNullable[string](nil, nil).Changed)
	assert.False(t, CompareNullable(&a, &a).Changed)

	cleared := CompareNullable(&a, nil)
	assert.True(t, cleared.Changed)
	assert.Nil(t, cleared.New)

	set := CompareNullable(nil, &b)
	assert.True(t, set.Changed)
	assert.Equal(t, "b", *set.New)
}

func TestDiffMediaDetails(t *testing.T) {
	src := "archive"
	from := &MediaDetail{Title: "Photo", DetailText: "Old text", Source: &src}
	to := &MediaDetail{Title: "Photo", DetailText: "New text"}

	changes := DiffMediaDetails(from, to)
	assert.False(t, changes.Title.Changed())
	assert.True(t, changes.DetailText.Changed())
	assert.True(t, changes.Source.Changed)

	b, err := json.Marshal(changes)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": {"old": "Photo"},
		"detail_text": {"old": "Old text", "new": "New text"},
		"source": {"old": "archive", "changed": true}
	}`, string(b))
}

func TestDiffTagDetails(t *testing.T) {
	from := &TagDetail{Title: "Wall", Keywords: StringList{"berlin", "cold war"}}
	to := &TagDetail{Title: "Wall", Keywords: StringList{"berlin"}}

	changes := DiffTagDetails(from, to)
	assert.False(t, changes.Title.Changed())
	assert.Equal(t, StringList{"berlin"}, changes.Keywords.New)

	unchanged := DiffTagDetails(from, from)
	assert.Nil(t, unchanged.Keywords.New)
}

func TestDiffWaypointLocations(t *testing.T) {
	from := &WaypointLocation{Latitude: 1, Longitude: 2}
	to := &WaypointLocation{Latitude: 1, Longitude: 3}

	changes := DiffWaypointLocations(from, to)
	require.True(t, changes.Location.Changed())
	assert.Equal(t, Location{Latitude: 1, Longitude: 3}, *changes.Location.New)
}
