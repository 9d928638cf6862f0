package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscue/pscue/internal/history"
)

func entry(key string, t time.Time) history.Entry {
	return history.Entry{Timestamp: t, CommandKey: key}
}

func TestRing_GetRecentNewestFirst(t *testing.T) {
	t.Parallel()

	r := history.New(10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.Append(entry("first", base))
	r.Append(entry("second", base.Add(time.Minute)))
	r.Append(entry("third", base.Add(2*time.Minute)))

	got := r.GetRecent(2)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].CommandKey)
	assert.Equal(t, "second", got[1].CommandKey)
}

func TestRing_DefaultCapacity(t *testing.T) {
	t.Parallel()

	r := history.New(0)
	assert.Equal(t, history.DefaultCapacity, r.Capacity())
}

func TestRing_GetRecentNMoreThanSize(t *testing.T) {
	t.Parallel()

	r := history.New(5)
	r.Append(entry("only", time.Now()))
	got := r.GetRecent(100)
	assert.Len(t, got, 1)
}
