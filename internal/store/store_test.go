package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcenter/pkg/models"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestGetUnsetKey(t *testing.T) {
	s, _ := openTestStore(t)

	_, ok, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestIdentityGeneratedOnFirstRun(t *testing.T) {
	s, _ := openTestStore(t)

	user, err := s.Identity()
	require.NoError(t, err)
	_, err = uuid.Parse(user.UserID)
	assert.NoError(t, err, "generated id is a uuid")
	assert.Empty(t, user.Username, "no display name until the user picks one")
}

func TestIdentitySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	s, err := Open(path)
	require.NoError(t, err)
	first, err := s.Identity()
	require.NoError(t, err)
	require.NoError(t, s.SetUsername("alice_99"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	second, err := s.Identity()
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, "alice_99", second.Username)
}

func TestSetUsernameValidates(t *testing.T) {
	s, _ := openTestStore(t)

	assert.ErrorIs(t, s.SetUsername(""), models.ErrUsernameRequired)
	assert.ErrorIs(t, s.SetUsername("a"), models.ErrUsernameLength)
	assert.ErrorIs(t, s.SetUsername("this name is way too long!!"), models.ErrUsernameLength)
	assert.ErrorIs(t, s.SetUsername("bad<name>"), models.ErrUsernameCharset)

	require.NoError(t, s.SetUsername("Match Fan_42"))
	user, err := s.Identity()
	require.NoError(t, err)
	assert.Equal(t, "Match Fan_42", user.Username)
}

func TestThemeDefaultsToLight(t *testing.T) {
	s, _ := openTestStore(t)

	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestThemeRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.SetTheme(ThemeDark))
	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	assert.Error(t, s.SetTheme("sepia"))
}

func TestCorruptThemeFallsBack(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.Set("theme", "garbage"))
	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}
