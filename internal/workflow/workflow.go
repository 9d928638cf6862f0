// Package workflow implements the Workflow Learner (§4.5): an adjacency
// map from command-key to next-command-key, weighted by transition
// frequency and cumulative elapsed time, used to predict what the user
// is likely to run next.
package workflow

import (
	"math"
	"sync"
	"time"

	"github.com/pscue/pscue/internal/cmdkey"
)

// DeltaMax is the maximum gap between two consecutive commands for the
// pair to be considered a learnable transition (§4.5).
const DeltaMax = 5 * time.Minute

// ConfidenceThreshold is the default frequency threshold used in the
// confidence formula (§4.5).
const ConfidenceThreshold = 5

// Transition is a snapshot of one learned command-key -> command-key
// edge.
type Transition struct {
	From, To       string
	Frequency      int64
	TimeDeltaTotal time.Duration
	FirstSeen      time.Time
	LastObserved   time.Time
}

// Confidence implements the §4.5 confidence formula.
func (t Transition) Confidence(now time.Time) float64 {
	ageDays := now.Sub(t.LastObserved).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	freqFactor := float64(t.Frequency) / ConfidenceThreshold
	if freqFactor > 1 {
		freqFactor = 1
	}
	return freqFactor * math.Exp(-ageDays/30)
}

type edge struct {
	mu             sync.Mutex
	frequency      int64
	timeDeltaTotal time.Duration
	firstSeen      time.Time
	lastObserved   time.Time
}

// Learner is the thread-safe adjacency map.
type Learner struct {
	mu    sync.RWMutex
	edges map[string]map[string]*edge // from -> to -> edge

	// Now is overridable for deterministic tests.
	Now func() time.Time

	lastMu  sync.Mutex
	lastKey string
	lastAt  time.Time
	hasLast bool
}

// New builds an empty Learner.
func New() *Learner {
	return &Learner{
		edges: make(map[string]map[string]*edge),
		Now:   time.Now,
	}
}

// Key derives the command-key for a tokenized command line (§4.5 "Key
// derivation"), delegating to the shared internal/cmdkey helper.
func Key(tokens []string) string {
	return cmdkey.Of(tokens)
}

// Observe records a single command invocation at timestamp ts for the
// given command-key, learning a transition from the previously observed
// command if the gap between them is within DeltaMax. Observe is meant
// to be called once per successful command, in chronological order.
func (l *Learner) Observe(commandKey string, ts time.Time) {
	l.lastMu.Lock()
	prevKey, prevAt, hadLast := l.lastKey, l.lastAt, l.hasLast
	l.lastKey, l.lastAt, l.hasLast = commandKey, ts, true
	l.lastMu.Unlock()

	if !hadLast {
		return
	}
	delta := ts.Sub(prevAt)
	if delta < 0 || delta > DeltaMax {
		return
	}
	l.recordTransition(prevKey, commandKey, delta, ts)
}

func (l *Learner) recordTransition(from, to string, delta time.Duration, ts time.Time) {
	l.mu.RLock()
	toMap, ok := l.edges[from]
	l.mu.RUnlock()
	if !ok {
		l.mu.Lock()
		if toMap, ok = l.edges[from]; !ok {
			toMap = make(map[string]*edge)
			l.edges[from] = toMap
		}
		l.mu.Unlock()
	}

	l.mu.RLock()
	e, ok := toMap[to]
	l.mu.RUnlock()
	if !ok {
		l.mu.Lock()
		if e, ok = toMap[to]; !ok {
			e = &edge{firstSeen: ts}
			toMap[to] = e
		}
		l.mu.Unlock()
	}

	e.mu.Lock()
	e.frequency++
	e.timeDeltaTotal += delta
	if ts.After(e.lastObserved) {
		e.lastObserved = ts
	}
	e.mu.Unlock()
}

// Reset discards every learned transition edge but preserves the
// most-recently-observed command and timestamp, so a subsequent Observe
// call can still learn the transition out of it. This is for delta
// accumulators that are periodically drained without losing track of
// "what command just ran" — unlike New, which starts with no last
// command at all and would silently drop the next transition.
func (l *Learner) Reset() {
	l.mu.Lock()
	l.edges = make(map[string]map[string]*edge)
	l.mu.Unlock()
}

// NextCommands returns every learned transition out of commandKey,
// unsorted.
func (l *Learner) NextCommands(commandKey string) []Transition {
	l.mu.RLock()
	toMap, ok := l.edges[commandKey]
	l.mu.RUnlock()
	if !ok {
		return nil
	}

	out := make([]Transition, 0, len(toMap))
	for to, e := range toMap {
		e.mu.Lock()
		out = append(out, Transition{
			From:           commandKey,
			To:             to,
			Frequency:      e.frequency,
			TimeDeltaTotal: e.timeDeltaTotal,
			FirstSeen:      e.firstSeen,
			LastObserved:   e.lastObserved,
		})
		e.mu.Unlock()
	}
	return out
}

// MostLikelyNext returns the single highest-confidence transition out of
// commandKey, if any have been learned.
func (l *Learner) MostLikelyNext(commandKey string) (Transition, bool) {
	transitions := l.NextCommands(commandKey)
	if len(transitions) == 0 {
		return Transition{}, false
	}

	now := l.Now()
	best := transitions[0]
	bestConf := best.Confidence(now)
	for _, t := range transitions[1:] {
		if c := t.Confidence(now); c > bestConf {
			best, bestConf = t, c
		}
	}
	return best, true
}
