package historystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.jsonl"), 100)
	entries, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := New(path, 100)

	want := []string{"first command", "second\nwith newline", `has "quotes"`}
	require.NoError(t, s.Record(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecordTruncatesToTrailingLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := New(path, 2)

	require.NoError(t, s.Record([]string{"a", "b", "c", "d"}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, got)
}

func TestRecordOverwritesPreviousContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := New(path, 100)

	require.NoError(t, s.Record([]string{"one"}))
	require.NoError(t, s.Record([]string{"one", "two"}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
}
