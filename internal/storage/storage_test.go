package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct{ panics bool }

func (f failingStorage) Get(string) (string, bool, error) {
	if f.panics {
		panic("quota exceeded")
	}
	return "", false, errors.New("denied")
}

func (f failingStorage) Set(string, string) error {
	if f.panics {
		panic("quota exceeded")
	}
	return errors.New("denied")
}

func (f failingStorage) Remove(string) error {
	if f.panics {
		panic("quota exceeded")
	}
	return errors.New("denied")
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get(KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(KeyTheme, "dark"))
	v, ok, err := m.Get(KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, m.Remove(KeyTheme))
	_, ok, _ = m.Get(KeyTheme)
	assert.False(t, ok)
}

func TestSafeHelpers_TolerateErrorsAndPanics(t *testing.T) {
	for _, s := range []Storage{failingStorage{}, failingStorage{panics: true}} {
		v, ok := Read(s, KeyTableColumns, nil)
		assert.False(t, ok)
		assert.Empty(t, v)
		assert.False(t, Write(s, KeyTableColumns, "[]", nil))
		assert.False(t, Delete(s, KeyTableColumns, nil))
	}
}

func TestBadger_RoundTrip(t *testing.T) {
	b, err := OpenBadger(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	_, ok, err := b.Get(KeyTablePresets)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(KeyTablePresets, `[{"id":"custom:a"}]`))
	require.NoError(t, b.Set(KeySidebarOpen, "0"))

	v, ok, err := b.Get(KeyTablePresets)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"custom:a"}]`, v)

	require.NoError(t, b.Remove(KeySidebarOpen))
	_, ok, err = b.Get(KeySidebarOpen)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenBadger(dir, nil)
	require.NoError(t, err)
	require.NoError(t, b.Set(KeyTheme, "light"))
	require.NoError(t, b.Close())

	b, err = OpenBadger(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	v, ok := Read(b, KeyTheme, nil)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestBadger_InMemory(t *testing.T) {
	b, err := OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	assert.True(t, Write(b, KeyTheme, "dark", nil))
	v, ok := Read(b, KeyTheme, nil)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
