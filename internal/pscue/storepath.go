package pscue

import (
	"os"
	"path/filepath"

	"github.com/pscue/pscue/internal/syncx"
)

type storePathResult struct {
	path string
	err  error
}

var defaultStorePath syncx.SetOnce[storePathResult]

// DefaultStorePath returns the default persisted-state location,
// "<user_data_dir>/PSCue/learned-data.sqlite" (§6 "Persisted state
// layout"). The directory is not created here; Open creates it before
// opening the store. The first result is kept for the rest of the
// process: later calls return it, although each call still repeats the
// os.UserConfigDir lookup.
func DefaultStorePath() (string, error) {
	result := defaultStorePath.Get(resolveStorePath())
	return result.path, result.err
}

func resolveStorePath() storePathResult {
	base, err := os.UserConfigDir()
	if err != nil {
		return storePathResult{err: err}
	}
	return storePathResult{path: filepath.Join(base, "PSCue", "learned-data.sqlite")}
}
