package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDownloadStore_TakeOnce(t *testing.T) {
	s := newExportDownloadStore(0)
	token := s.put([]byte("xlsx"), "dashboard_Todos_Todos.xlsx", time.Minute)

	p, ok := s.take(token)
	require.True(t, ok)
	assert.Equal(t, "dashboard_Todos_Todos.xlsx", p.filename)
	assert.Equal(t, []byte("xlsx"), p.data)

	_, ok = s.take(token)
	assert.False(t, ok)
	assert.Equal(t, 0, s.len())
}

func TestExportDownloadStore_Expires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newExportDownloadStore(0)
	s.now = func() time.Time { return now }

	token := s.put([]byte("a"), "a.xlsx", time.Minute)
	now = now.Add(2 * time.Minute)

	_, ok := s.take(token)
	assert.False(t, ok)
	assert.Equal(t, 0, s.size)
}

func TestExportDownloadStore_EvictsOldestOverLimit(t *testing.T) {
	s := newExportDownloadStore(10)
	first := s.put(make([]byte, 6), "1.xlsx", time.Minute)
	second := s.put(make([]byte, 6), "2.xlsx", time.Minute)

	_, ok := s.take(first)
	assert.False(t, ok, "oldest export should be evicted")
	_, ok = s.take(second)
	assert.True(t, ok)

	big := s.put(make([]byte, 20), "big.xlsx", time.Minute)
	_, ok = s.take(big)
	assert.True(t, ok, "newest export is kept even above the limit")
}
