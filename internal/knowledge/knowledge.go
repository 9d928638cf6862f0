// Package knowledge implements the Knowledge Graph (§4.3): per-command
// argument-usage statistics with path normalization for navigation
// commands, safe for concurrent readers and writers.
package knowledge

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pscue/pscue/internal/cmdkey"
)

// RecencyDecayDays is the single global decay constant used by the
// scoring formula (§4.3): recency_factor = exp(-age_days / RecencyDecayDays).
// spec.md notes that per-command tuning of this constant is not
// established; it is kept as one package-level value (Open Question,
// see DESIGN.md).
const RecencyDecayDays = 30.0

// FrequencyWeight and RecencyWeight are the fixed blend weights from the
// scoring formula in §4.3.
const (
	FrequencyWeight = 0.6
	RecencyWeight   = 0.4
)

// ArgumentKnowledge records usage of a single argument literal for a
// command.
type ArgumentKnowledge struct {
	Literal    string
	UsageCount int64
	FirstSeen  time.Time
	LastUsed   time.Time
	IsFlag     bool
}

// CommandKnowledge is a snapshot of everything known about one
// command-key: total usage and per-argument records.
type CommandKnowledge struct {
	CommandKey string
	TotalUsage int64
	FirstSeen  time.Time
	LastUsed   time.Time
	Arguments  map[string]ArgumentKnowledge
}

// Suggestion is a ranked completion candidate drawn from learned data.
type Suggestion struct {
	Argument   string
	UsageCount int64
	LastUsed   time.Time
	Score      float64
}

// record is the graph's mutable per-command-key entry. It carries its own
// mutex so that concurrent updates to different commands never contend
// (§5 "fine-grained per-key locking").
type record struct {
	mu sync.Mutex

	totalUsage int64
	firstSeen  time.Time
	lastUsed   time.Time
	args       map[string]*ArgumentKnowledge
}

// Graph is the thread-safe Knowledge Graph.
type Graph struct {
	mu      sync.RWMutex // guards the records map itself (not its values)
	records map[string]*record

	// Now returns the current time; overridable for deterministic tests.
	Now func() time.Time

	// HomeDir returns the current user's home directory for "~"
	// expansion during path normalization; overridable for tests.
	HomeDir func() (string, error)
}

// New builds an empty Knowledge Graph.
func New() *Graph {
	return &Graph{
		records: make(map[string]*record),
		Now:     time.Now,
		HomeDir: defaultHomeDir,
	}
}

func (g *Graph) recordFor(key string) *record {
	g.mu.RLock()
	r, ok := g.records[key]
	g.mu.RUnlock()
	if ok {
		return r
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok = g.records[key]; ok {
		return r
	}
	r = &record{args: make(map[string]*ArgumentKnowledge)}
	g.records[key] = r
	return r
}

// RecordUsage records a single invocation of commandKey with the given
// raw arguments, observed from workingDirectory. Navigation commands
// (GLOSSARY) have their path arguments normalized (§4.3) before being
// recorded, so that equivalent path forms accumulate into one record.
func (g *Graph) RecordUsage(_ context.Context, commandKey string, arguments []string, workingDirectory string) {
	if commandKey == "" {
		return
	}

	now := g.Now()
	r := g.recordFor(commandKey)

	normalized := arguments
	if firstWord := strings.Fields(commandKey); len(firstWord) > 0 && cmdkey.IsNavigation(firstWord[0]) {
		normalized = make([]string, len(arguments))
		for i, a := range arguments {
			normalized[i] = g.NormalizePath(a, workingDirectory)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalUsage++
	if r.firstSeen.IsZero() || now.Before(r.firstSeen) {
		r.firstSeen = now
	}
	if now.After(r.lastUsed) {
		r.lastUsed = now
	}

	counted := make(map[string]struct{}, len(normalized))
	for _, lit := range normalized {
		if lit == "" {
			continue
		}
		if _, dup := counted[lit]; dup {
			continue // one invocation counts each literal once
		}
		counted[lit] = struct{}{}
		a, ok := r.args[lit]
		if !ok {
			a = &ArgumentKnowledge{
				Literal:   lit,
				FirstSeen: now,
				IsFlag:    strings.HasPrefix(lit, "-"),
			}
			r.args[lit] = a
		}
		a.UsageCount++
		if a.FirstSeen.IsZero() || now.Before(a.FirstSeen) {
			a.FirstSeen = now
		}
		if now.After(a.LastUsed) {
			a.LastUsed = now
		}
	}
}

// GetCommandKnowledge returns a consistent snapshot of everything known
// about commandKey.
func (g *Graph) GetCommandKnowledge(commandKey string) (CommandKnowledge, bool) {
	g.mu.RLock()
	r, ok := g.records[commandKey]
	g.mu.RUnlock()
	if !ok {
		return CommandKnowledge{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	args := make(map[string]ArgumentKnowledge, len(r.args))
	for lit, a := range r.args {
		args[lit] = *a
	}
	return CommandKnowledge{
		CommandKey: commandKey,
		TotalUsage: r.totalUsage,
		FirstSeen:  r.firstSeen,
		LastUsed:   r.lastUsed,
		Arguments:  args,
	}, true
}

// GetSuggestions returns every argument recorded for commandKey whose
// literal starts with partialArguments, ranked by score (§4.3) in
// descending order.
func (g *Graph) GetSuggestions(commandKey, partialArguments string) []Suggestion {
	ck, ok := g.GetCommandKnowledge(commandKey)
	if !ok || ck.TotalUsage == 0 {
		return nil
	}

	now := g.Now()
	var out []Suggestion
	for lit, a := range ck.Arguments {
		if partialArguments != "" && !strings.HasPrefix(strings.ToLower(lit), strings.ToLower(partialArguments)) {
			continue
		}
		out = append(out, Suggestion{
			Argument:   lit,
			UsageCount: a.UsageCount,
			LastUsed:   a.LastUsed,
			Score:      Score(a.UsageCount, ck.TotalUsage, a.LastUsed, now),
		})
	}

	sortSuggestions(out)
	return out
}

// Score implements the §4.3 scoring formula.
func Score(usageCount, totalUsage int64, lastUsed, now time.Time) float64 {
	if totalUsage == 0 {
		return 0
	}
	frequencyFactor := float64(usageCount) / float64(totalUsage)
	ageDays := now.Sub(lastUsed).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	recencyFactor := expDecay(ageDays, RecencyDecayDays)
	return FrequencyWeight*frequencyFactor + RecencyWeight*recencyFactor
}

func sortSuggestions(s []Suggestion) {
	// Simple insertion sort: suggestion lists are small (one command's
	// learned arguments), and this keeps the package dependency-free of
	// sort for the common tiny-N case while remaining O(n^2) only in the
	// worst case of a very busy command.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].Score > s[j-1].Score; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
