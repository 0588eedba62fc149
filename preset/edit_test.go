package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor(t *testing.T) {
	store := NewMemoryStore(map[string]Preset{
		"Cut": {DurationMinutes: 30, Materials: mats(map[string]string{"Wood": "2 kg"})},
	})
	ed := Editor{Store: store}

	require.NoError(t, ed.SetDuration("Cut", 75))

	name, err := ed.AddMaterial("Cut")
	require.NoError(t, err)
	assert.Equal(t, "New Material", name)
	name, err = ed.AddMaterial("Cut")
	require.NoError(t, err)
	assert.Equal(t, "New Material 1", name)

	require.NoError(t, ed.RenameMaterial("Cut", "New Material", "Screws"))
	err = ed.RenameMaterial("Cut", "New Material 1", "Wood")
	assert.ErrorIs(t, err, ErrNameTaken)

	require.NoError(t, ed.SetMaterial("Cut", "Screws", "12"))
	require.NoError(t, ed.RemoveMaterial("Cut", "New Material 1"))

	got, ok := store.Get("Cut")
	require.True(t, ok)
	assert.Equal(t, int64(75), got.DurationMinutes)
	assert.Equal(t, map[string]string{"Screws": "12", "Wood": "2 kg"}, got.Materials.Map())

	require.NoError(t, ed.Delete("Cut"))
	_, ok = store.Get("Cut")
	assert.False(t, ok)

	assert.ErrorIs(t, ed.SetDuration("Cut", 1), ErrNotFound)
}
