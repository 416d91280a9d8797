package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	c, err := Open(path)
	require.NoError(t, err)

	_, ok := c.Get(KeyUserID)
	assert.False(t, ok)

	require.NoError(t, c.Set(KeyUserID, "user-1"))
	v, ok := c.Get(KeyUserID)
	assert.True(t, ok)
	assert.Equal(t, "user-1", v)

	require.NoError(t, c.Delete(KeyUserID))
	_, ok = c.Get(KeyUserID)
	assert.False(t, ok)
}

func TestCache_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Set(KeyUserID, "user-1"))
	require.NoError(t, c.Set(KeyOnboardingComplete, "true"))

	reopened, err := Open(path)
	require.NoError(t, err)

	v, ok := reopened.Get(KeyUserID)
	assert.True(t, ok)
	assert.Equal(t, "user-1", v)

	v, ok = reopened.Get(KeyOnboardingComplete)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestCache_JSONRoundTrip(t *testing.T) {
	type profile struct {
		Name   string   `json:"name"`
		Brands []string `json:"brands"`
	}

	path := filepath.Join(t.TempDir(), "session.json")
	c, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, c.SetJSON(KeyProfile, profile{Name: "Mia", Brands: []string{"Glossier"}}))

	var got profile
	found, err := c.GetJSON(KeyProfile, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Mia", got.Name)
	assert.Equal(t, []string{"Glossier"}, got.Brands)

	found, err = c.GetJSON("missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_ClearDropsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	c, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, c.Set(KeyUserID, "user-1"))
	require.NoError(t, c.Clear())

	_, ok := c.Get(KeyUserID)
	assert.False(t, ok)

	reopened, err := Open(path)
	require.NoError(t, err)
	_, ok = reopened.Get(KeyUserID)
	assert.False(t, ok)
}

func TestOpen_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}
