package preset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ *MemoryStore }

func (failingStore) Upsert(string, Preset) error { return errors.New("disk full") }

func TestPending_ProposeReplaces(t *testing.T) {
	var p Pending
	require.NoError(t, p.Propose("Cut", Preset{DurationMinutes: 10}))
	require.NoError(t, p.Propose("Paint", Preset{DurationMinutes: 20}))

	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "Paint", cur.OperationID)
	assert.Equal(t, int64(20), cur.Candidate.DurationMinutes)
}

func TestPending_BlankOperation(t *testing.T) {
	var p Pending
	err := p.Propose("   ", Preset{})
	assert.ErrorIs(t, err, ErrBlankOperation)
	_, ok := p.Current()
	assert.False(t, ok)
}

func TestPending_ConfirmUpsertsAndClears(t *testing.T) {
	store := NewMemoryStore(nil)
	var p Pending
	require.NoError(t, p.Propose("Cut", Preset{DurationMinutes: 15, Materials: mats(map[string]string{"Wood": "1 kg"})}))

	applied, err := p.Confirm(store)
	require.NoError(t, err)
	assert.Equal(t, "Cut", applied.OperationID)

	got, ok := store.Get("Cut")
	require.True(t, ok)
	assert.Equal(t, int64(15), got.DurationMinutes)

	_, ok = p.Current()
	assert.False(t, ok)

	_, err = p.Confirm(store)
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestPending_ConfirmFailureKeepsProposal(t *testing.T) {
	var p Pending
	require.NoError(t, p.Propose("Cut", Preset{DurationMinutes: 15}))

	_, err := p.Confirm(failingStore{NewMemoryStore(nil)})
	require.Error(t, err)

	_, ok := p.Current()
	assert.True(t, ok)
}

func TestPending_Cancel(t *testing.T) {
	store := NewMemoryStore(nil)
	var p Pending
	require.NoError(t, p.Propose("Cut", Preset{DurationMinutes: 15}))
	p.Cancel()

	_, ok := p.Current()
	assert.False(t, ok)
	assert.Empty(t, store.All())
}

func TestPending_Review(t *testing.T) {
	store := NewMemoryStore(map[string]Preset{
		"Cut": {DurationMinutes: 60, Materials: mats(map[string]string{"Glue": "1"})},
	})
	var p Pending
	_, ok := p.Review(store)
	assert.False(t, ok)

	require.NoError(t, p.Propose("Cut", Preset{DurationMinutes: 90, Materials: mats(map[string]string{"Glue": "1", "Paint": "2"})}))
	rev, ok := p.Review(store)
	require.True(t, ok)
	assert.Equal(t, "Update Preset for 'Cut'?", rev.Title)
	assert.Equal(t, []string{"Duration: 60m -> 90m", "Added Paint: 2"}, rev.Report.Lines())

	// Review is advisory only.
	got, _ := store.Get("Cut")
	assert.Equal(t, int64(60), got.DurationMinutes)
}
