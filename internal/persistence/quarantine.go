package persistence

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/silog"
	"github.com/pscue/pscue/internal/workflow"
)

// OpenOrQuarantine opens the store at path and loads its contents. If
// the file exists but is unreadable/corrupt (§7 "Persistence fatal
// error"), it is preserved as "<name>.corrupt.<timestamp>" and a fresh,
// empty store is opened in its place rather than failing startup.
func OpenOrQuarantine(ctx context.Context, path string, log *silog.Logger, now func() time.Time) (*Store, knowledge.Snapshot, workflow.Snapshot, []history.Entry, error) {
	if log == nil {
		log = silog.Nop()
	}
	if now == nil {
		now = time.Now
	}

	store, err := Open(ctx, path, log)
	if err == nil {
		ks, ws, hist, loadErr := store.LoadAll(ctx)
		if loadErr == nil {
			return store, ks, ws, hist, nil
		}
		store.Close()
		err = loadErr
	}

	log.Error("persisted store unreadable, quarantining and starting fresh",
		"path", path, "error", err)

	if quarantineErr := quarantine(path, now()); quarantineErr != nil {
		log.Error("failed to quarantine corrupt store", "path", path, "error", quarantineErr)
	}

	freshStore, openErr := Open(ctx, path, log)
	if openErr != nil {
		return nil, knowledge.Snapshot{}, workflow.Snapshot{}, nil, fmt.Errorf("open fresh store after quarantine: %w", openErr)
	}
	return freshStore, knowledge.Snapshot{}, workflow.Snapshot{}, nil, nil
}

func quarantine(path string, at time.Time) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	dest := fmt.Sprintf("%s.corrupt.%d", path, at.Unix())
	return os.Rename(path, dest)
}
