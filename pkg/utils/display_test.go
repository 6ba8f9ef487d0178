package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matchcenter/pkg/models"
)

func TestFormatMinute(t *testing.T) {
	assert.Equal(t, "45'", FormatMinute(45, models.StatusFirstHalf))
	assert.Equal(t, "72'", FormatMinute(72, models.StatusSecondHalf))
	assert.Equal(t, "HT", FormatMinute(45, models.StatusHalfTime))
	assert.Equal(t, "FT", FormatMinute(90, models.StatusFullTime))
	assert.Equal(t, "", FormatMinute(0, models.StatusNotStarted))
}

func TestGroupMatches(t *testing.T) {
	g := GroupMatches([]models.Match{
		{ID: "a", Status: models.StatusFirstHalf},
		{ID: "b", Status: models.StatusNotStarted},
		{ID: "c", Status: models.StatusFullTime},
		{ID: "d", Status: models.StatusHalfTime},
		{ID: "e", Status: models.StatusSecondHalf},
	})

	assert.Len(t, g.Live, 3, "half time counts as in progress")
	assert.Len(t, g.Upcoming, 1)
	assert.Len(t, g.Recent, 1)
}
