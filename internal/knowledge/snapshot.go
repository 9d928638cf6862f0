package knowledge

import (
	"github.com/pscue/pscue/internal/cmputil"
	"github.com/pscue/pscue/internal/maputil"
)

// Snapshot is the full, serializable contents of a Graph, used by the
// persistence layer for load/save and neutral-document export/import
// (§4.7).
type Snapshot struct {
	Commands []CommandKnowledge
}

// Snapshot captures every command-key currently known, for persistence.
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	keys := maputil.Keys(g.records)
	g.mu.RUnlock()

	out := Snapshot{Commands: make([]CommandKnowledge, 0, len(keys))}
	for _, k := range keys {
		if ck, ok := g.GetCommandKnowledge(k); ok {
			out.Commands = append(out.Commands, ck)
		}
	}
	return out
}

// LoadSnapshot replaces the graph's contents with snap, overwriting any
// existing records. Used when restoring from the persistence layer at
// startup.
func (g *Graph) LoadSnapshot(snap Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.records = make(map[string]*record, len(snap.Commands))
	for _, ck := range snap.Commands {
		r := &record{
			totalUsage: ck.TotalUsage,
			firstSeen:  ck.FirstSeen,
			lastUsed:   ck.LastUsed,
			args:       make(map[string]*ArgumentKnowledge, len(ck.Arguments)),
		}
		for lit, a := range ck.Arguments {
			cp := a
			r.args[lit] = &cp
		}
		g.records[ck.CommandKey] = r
	}
}

// Merge additively combines snap into the graph: usage counts sum,
// first_seen takes the earliest value, last_used takes the latest
// (§4.7 "additive merge"). Used when importing a neutral document
// exported from another instance rather than restoring a clean save.
func (g *Graph) Merge(snap Snapshot) {
	for _, ck := range snap.Commands {
		r := g.recordFor(ck.CommandKey)

		r.mu.Lock()
		r.totalUsage += ck.TotalUsage
		if r.firstSeen.IsZero() || (!ck.FirstSeen.IsZero() && ck.FirstSeen.Before(r.firstSeen)) {
			r.firstSeen = ck.FirstSeen
		}
		if ck.LastUsed.After(r.lastUsed) {
			r.lastUsed = ck.LastUsed
		}
		for lit, a := range ck.Arguments {
			if cmputil.Zero(a) {
				continue // empty placeholder record, nothing to merge
			}
			existing, ok := r.args[lit]
			if !ok {
				cp := a
				r.args[lit] = &cp
				continue
			}
			existing.UsageCount += a.UsageCount
			if existing.FirstSeen.IsZero() || (!a.FirstSeen.IsZero() && a.FirstSeen.Before(existing.FirstSeen)) {
				existing.FirstSeen = a.FirstSeen
			}
			if a.LastUsed.After(existing.LastUsed) {
				existing.LastUsed = a.LastUsed
			}
			existing.IsFlag = existing.IsFlag || a.IsFlag
		}
		r.mu.Unlock()
	}
}
