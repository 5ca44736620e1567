package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	type account struct{ ID int }
	values := map[string]any{
		"login":   "alice",
		"count":   3,
		"account": account{ID: 7},
		"empty":   "",
	}
	for k, v := range values {
		s.Put(k, v)
	}
	for k, v := range values {
		got, ok := s.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, 4, s.Len())
}

func TestStoreOverwrite(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put("x", "first")
	s.Put("x", "second")

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, s.Len())
}

func TestStoreRemove(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put("x", 1)

	v, ok := s.Remove("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = s.Remove("x")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put("a", 1)
	s.Put("b", 2)
	s.Clear()

	for _, n := range []string{"a", "b"} {
		_, ok := s.Get(n)
		assert.False(t, ok, n)
	}
	assert.Zero(t, s.Len())
}

func TestStoreEachOrdered(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Put("b", 2)
	s.Put("a", 1)

	var seen []string
	s.Each(func(name string, _ any) { seen = append(seen, name) })
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, seen, s.Names())
}
