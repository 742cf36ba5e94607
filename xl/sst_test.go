package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedStringsDedup(t *testing.T) {
	sst := newSharedStrings()

	id1, err := sst.Insert("hello")
	require.NoError(t, err)
	id2, err := sst.Insert("hello")
	require.NoError(t, err)

	assert.Equal(t, 0, id1)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, sst.Len())
	assert.Equal(t, 2, sst.Count())
}

func TestSharedStringsIdsAreDense(t *testing.T) {
	sst := newSharedStrings()
	for i, s := range []string{"a", "b", "c"} {
		id, err := sst.Insert(s)
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}
	id, err := sst.Insert("b")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, 3, sst.Len())

	s, ok := sst.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, "c", s)
	_, ok = sst.Lookup(3)
	assert.False(t, ok)
}

func TestSharedStringsExactContent(t *testing.T) {
	sst := newSharedStrings()
	for _, s := range []string{"abc", "ABC", "abc ", " abc", "abc\n", ""} {
		_, err := sst.Insert(s)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, sst.Len())
}

func TestSharedStringsFrozen(t *testing.T) {
	sst := newSharedStrings()
	_, err := sst.Insert("kept")
	require.NoError(t, err)
	sst.freeze()

	id, err := sst.Insert("kept")
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	_, err = sst.Insert("new")
	assert.ErrorIs(t, err, ErrWorkbookClosed)
	assert.Equal(t, 1, sst.Len())
}
