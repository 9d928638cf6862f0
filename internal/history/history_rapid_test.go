package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pscue/pscue/internal/history"
)

// TestRing_BoundedAndEvictsOldestWhenFull checks, across arbitrary
// capacities H and append counts N, that the ring never holds more
// than H entries and that for N > H the survivors are exactly the H
// most recently appended keys, newest first — generalizing the fixed
// N=3/4 example into the general "bounded ring, oldest evicted first"
// invariant.
func TestRing_BoundedAndEvictsOldestWhenFull(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		numAppends := rapid.IntRange(0, 20).Draw(t, "numAppends")

		r := history.New(capacity)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		var keys []string
		for i := range numAppends {
			key := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "key")
			keys = append(keys, key)
			r.Append(history.Entry{
				Timestamp:  base.Add(time.Duration(i) * time.Minute),
				CommandKey: key,
			})
		}

		wantLen := min(numAppends, capacity)
		require.Equal(t, wantLen, r.Len())
		require.LessOrEqual(t, r.Len(), capacity)

		recent := r.GetRecent(0)
		require.Len(t, recent, wantLen)

		var gotKeys []string
		for _, e := range recent {
			gotKeys = append(gotKeys, e.CommandKey)
		}

		wantKeys := make([]string, 0, wantLen)
		for i := len(keys) - 1; i >= 0 && len(wantKeys) < capacity; i-- {
			wantKeys = append(wantKeys, keys[i])
		}
		require.Equal(t, wantKeys, gotKeys)
	})
}
