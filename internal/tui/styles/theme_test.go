package styles

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "Arsenal", Truncate("Arsenal", 20))
	assert.Equal(t, "Atlético Madrid", Truncate("Atlético Madrid", 20))
}

func TestTruncateCountsRunes(t *testing.T) {
	got := Truncate("Atlético de Madrid FC", 10)

	assert.Equal(t, "Atlétic...", got)
	assert.True(t, utf8.ValidString(got), "must never cut a rune in half")
}

func TestTruncateTinyWidth(t *testing.T) {
	assert.Equal(t, "...", Truncate("Borussia Mönchengladbach", 3))
}
