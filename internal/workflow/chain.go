package workflow

import "github.com/pscue/pscue/internal/graph"

// Chain orders commandKeys into a display-friendly topological sequence
// using each key's most-likely-next predecessor as its parent, so that
// `pscue workflows list` can print learned sequences (A -> B -> C)
// instead of an unordered edge dump.
func (l *Learner) Chain(commandKeys []string) []string {
	parentOf := make(map[string]string, len(commandKeys))
	known := make(map[string]struct{}, len(commandKeys))
	for _, k := range commandKeys {
		known[k] = struct{}{}
	}

	now := l.Now()
	parentConf := make(map[string]float64, len(commandKeys))
	for _, k := range commandKeys {
		l.mu.RLock()
		for from, toMap := range l.edges {
			if _, ok := known[from]; !ok {
				continue
			}
			e, ok := toMap[k]
			if !ok {
				continue
			}
			e.mu.Lock()
			conf := Transition{Frequency: e.frequency, LastObserved: e.lastObserved}.Confidence(now)
			e.mu.Unlock()
			// Highest confidence wins; ties go to the smaller key.
			if p, already := parentOf[k]; !already || conf > parentConf[k] || (conf == parentConf[k] && from < p) {
				parentOf[k], parentConf[k] = from, conf
			}
		}
		l.mu.RUnlock()
	}

	return graph.Toposort(commandKeys, func(n string) (string, bool) {
		p, ok := parentOf[n]
		if !ok || p == n {
			return "", false
		}
		return p, ok
	})
}
