package material

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_WithWithoutRename(t *testing.T) {
	l := FromMap(map[string]string{"Wood": "5 kg", "Glue": "1"})
	assert.Equal(t, []string{"Glue", "Wood"}, l.Names())

	l2 := l.With("Paint", "2 l")
	assert.Equal(t, []string{"Glue", "Paint", "Wood"}, l2.Names())
	assert.Equal(t, []string{"Glue", "Wood"}, l.Names(), "receiver must be unchanged")

	l3 := l2.With("Paint", "3 l")
	qty, ok := l3.Get("Paint")
	require.True(t, ok)
	assert.Equal(t, "3 l", qty)
	assert.Len(t, l3, 3)

	l4 := l3.Without("Glue")
	assert.False(t, l4.Has("Glue"))
	assert.True(t, l3.Has("Glue"))

	l5 := l4.Rename("Paint", "Wood")
	assert.Equal(t, List{{Name: "Wood", Quantity: "3 l"}}, l5)

	assert.True(t, l.Rename("Missing", "X").Equal(l))
}

func TestList_NextName(t *testing.T) {
	var l List
	assert.Equal(t, "New Material", l.NextName())
	l = l.With("New Material", "0")
	assert.Equal(t, "New Material 1", l.NextName())
	l = l.With("New Material 1", "0")
	assert.Equal(t, "New Material 2", l.NextName())
}

func TestList_JSON(t *testing.T) {
	l := FromMap(map[string]string{"b": "2", "a": "1 \"kg\""})
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1 \"kg\"","b":"2"}`, string(data))

	var back List
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(l))

	data, err = json.Marshal(List(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	var empty List
	require.NoError(t, json.Unmarshal([]byte("null"), &empty))
	assert.Empty(t, empty)
}
