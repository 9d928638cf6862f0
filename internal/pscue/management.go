package pscue

import (
	"context"
	"time"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/persistence"
	"github.com/pscue/pscue/internal/workflow"
)

// View returns a consistent-enough snapshot of everything currently
// learned (§6 "view learned data").
func (h *Host) View() (knowledge.Snapshot, workflow.Snapshot) {
	return h.graph.Snapshot(), h.learner.Snapshot()
}

// Clear wipes the in-memory Knowledge Graph, Workflow Learner, History,
// any pending delta, and the persisted store (§6 "clear learned data").
func (h *Host) Clear(ctx context.Context) error {
	h.graph.LoadSnapshot(knowledge.Snapshot{})
	h.learner.LoadSnapshot(workflow.Snapshot{})
	h.history = history.New(h.cfg.HistorySize)
	h.ClearDelta()
	return h.store.Clear(ctx)
}

// Save forces an immediate flush of the accumulated delta (§6 "force
// immediate save").
func (h *Host) Save(ctx context.Context) {
	h.autosaver.Flush(ctx)
}

// Export writes the current Knowledge Graph and Workflow Learner to a
// neutral YAML document at path (§6 "export to a neutral text file").
func (h *Host) Export(path string) error {
	ks, ws := h.View()
	return persistence.Export(path, ks, ws)
}

// ImportMode selects how Import combines a document with existing
// state.
type ImportMode int

const (
	// ImportReplace discards current state and loads the document as-is.
	ImportReplace ImportMode = iota
	// ImportMerge additively combines the document into current state.
	ImportMerge
)

// Import loads a neutral document from path and applies it either as a
// full replacement or an additive merge (§6 "import (replace or
// merge)"). On parse failure, no state is mutated (§7 "Import failure").
func (h *Host) Import(path string, mode ImportMode) error {
	ks, ws, err := persistence.ImportDocument(path)
	if err != nil {
		return err
	}

	switch mode {
	case ImportMerge:
		h.graph.Merge(ks)
		h.learner.Merge(ws)
	default:
		h.graph.LoadSnapshot(ks)
		h.learner.LoadSnapshot(ws)
	}
	return nil
}

// ListWorkflows lists learned transitions (§6 "list workflow
// transitions"). With no commandKeys it returns every learned
// transition, unordered. Otherwise it orders commandKeys with
// Learner.Chain and returns the learned transition between each
// consecutive pair of that chain, skipping pairs that have none.
func (h *Host) ListWorkflows(commandKeys []string) []workflow.Transition {
	if len(commandKeys) == 0 {
		return h.learner.Snapshot().Transitions
	}

	chain := h.learner.Chain(commandKeys)
	out := make([]workflow.Transition, 0, len(chain))
	for i := 0; i+1 < len(chain); i++ {
		for _, t := range h.learner.NextCommands(chain[i]) {
			if t.To == chain[i+1] {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// ClearWorkflows removes all learned workflow transitions without
// touching the Knowledge Graph or History (§6 "clear workflows").
func (h *Host) ClearWorkflows() {
	h.learner.LoadSnapshot(workflow.Snapshot{})
}

// QueryHistory returns the n most recently recorded history entries,
// newest first (§6 "query the persisted history").
func (h *Host) QueryHistory(n int) []history.Entry {
	return h.history.GetRecent(n)
}

// Diagnostics is the summary returned by the diagnostics management
// query (§6 "a diagnostics query returning a summary of module state").
type Diagnostics struct {
	CommandsKnown      int
	TransitionsLearned int
	HistoryEntries     int
	HistoryCapacity    int
	LearningDisabled   bool
	GeneratedAt        time.Time
}

// Diagnostics reports a point-in-time summary of the host's state.
func (h *Host) Diagnostics(now time.Time) Diagnostics {
	ks, ws := h.View()
	return Diagnostics{
		CommandsKnown:      len(ks.Commands),
		TransitionsLearned: len(ws.Transitions),
		HistoryEntries:     h.history.Len(),
		HistoryCapacity:    h.history.Capacity(),
		LearningDisabled:   h.cfg.DisableLearning,
		GeneratedAt:        now,
	}
}
