package navigate

import (
	"context"
	"os"
	"path/filepath"

	"go.abhg.dev/container/ring"
)

type scanItem struct {
	path  string
	depth int
}

// scanFilesystem performs a bounded breadth-first walk rooted at d, up
// to e.scanDepth levels deep, and returns every directory discovered
// (d itself excluded). It uses the teacher's FIFO queue type exactly as
// internal/spice/branch_graph.go traverses a branch DAG: push, pop,
// repeat until empty — here the "graph" being explored is the
// filesystem tree instead of branch dependencies, and it genuinely
// needs no eviction (a scan that finds more entries than it started
// with is the normal case).
func (e *Engine) scanFilesystem(ctx context.Context, d string) []string {
	var out []string
	var q ring.Q[scanItem]
	q.Push(scanItem{path: d, depth: 0})

	for !q.Empty() {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		item := q.Pop()
		entries, err := e.ListDir(item.path)
		if err != nil {
			continue
		}
		for _, name := range entries {
			child := filepath.Join(item.path, name)
			out = append(out, child)
			if item.depth+1 < e.scanDepth {
				q.Push(scanItem{path: child, depth: item.depth + 1})
			}
		}
	}
	return out
}

// osListDir lists the subdirectories of path, filtering out
// non-directory entries.
func osListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() {
			names = append(names, ent.Name())
		}
	}
	return names, nil
}
