package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusIsLive(t *testing.T) {
	assert.True(t, StatusFirstHalf.IsLive())
	assert.True(t, StatusSecondHalf.IsLive())
	assert.False(t, StatusNotStarted.IsLive())
	assert.False(t, StatusHalfTime.IsLive())
	assert.False(t, StatusFullTime.IsLive())
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "Live", StatusFirstHalf.Badge())
	assert.Equal(t, "Half Time", StatusHalfTime.Badge())
	assert.Equal(t, "Full Time", StatusFullTime.Badge())
	assert.Equal(t, "Not Started", StatusNotStarted.Badge())
	assert.Equal(t, "Unknown", MatchStatus("EXTRA_TIME").Badge())
}

func TestMatchDetailClone(t *testing.T) {
	var nilDetail *MatchDetail
	assert.Nil(t, nilDetail.Clone())

	d := &MatchDetail{
		Match:  Match{ID: "m1", HomeScore: 1},
		Events: []MatchEvent{{ID: "e1", Type: EventGoal}},
	}
	c := d.Clone()
	require.NotNil(t, c)

	c.HomeScore = 9
	c.Events[0].ID = "mutated"
	assert.Equal(t, 1, d.HomeScore)
	assert.Equal(t, "e1", d.Events[0].ID)
}
