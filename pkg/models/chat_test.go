package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("ab"))
	assert.NoError(t, ValidateUsername("Match Fan_42"))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", 20)))

	assert.ErrorIs(t, ValidateUsername(""), ErrUsernameRequired)
	assert.ErrorIs(t, ValidateUsername("   "), ErrUsernameRequired)
	assert.ErrorIs(t, ValidateUsername("a"), ErrUsernameLength)
	assert.ErrorIs(t, ValidateUsername(strings.Repeat("a", 21)), ErrUsernameLength)
	assert.ErrorIs(t, ValidateUsername("no-dashes"), ErrUsernameCharset)
	assert.ErrorIs(t, ValidateUsername("émile"), ErrUsernameCharset)
}

func TestValidateChatMessage(t *testing.T) {
	trimmed, err := ValidateChatMessage("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", trimmed)

	_, err = ValidateChatMessage("")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = ValidateChatMessage("   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	// Length is counted in runes, not bytes.
	_, err = ValidateChatMessage(strings.Repeat("ü", 500))
	assert.NoError(t, err)
	_, err = ValidateChatMessage(strings.Repeat("ü", 501))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestIsSystem(t *testing.T) {
	assert.True(t, ChatMessage{UserID: SystemUserID}.IsSystem())
	assert.False(t, ChatMessage{UserID: "u1"}.IsSystem())
}
