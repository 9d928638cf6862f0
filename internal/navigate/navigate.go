// Package navigate implements the Smart-Navigation Engine (§4.7): a
// specialized predictor for directory-change commands that ranks
// learned and discovered paths by match type, frecency, and filesystem
// distance from the current directory.
package navigate

import (
	"context"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/sliceutil"
)

// MatchType classifies how a candidate matched the input word, in the
// priority order used to break score ties (§4.7 step 2).
type MatchType int

const (
	MatchFilesystem MatchType = iota
	MatchFuzzy
	MatchPrefix
	MatchExact
	MatchWellKnown
)

func (m MatchType) String() string {
	switch m {
	case MatchWellKnown:
		return "WellKnown"
	case MatchExact:
		return "Exact"
	case MatchPrefix:
		return "Prefix"
	case MatchFuzzy:
		return "Fuzzy"
	default:
		return "Filesystem"
	}
}

// Default tunables from §4.7 step 3.
const (
	FrequencyWeight = 0.5
	RecencyWeight   = 0.3
	DistanceWeight  = 0.2
	ExactBoost      = 2.0

	// DefaultScanDepth is D, the default bounded filesystem scan depth.
	DefaultScanDepth = 3

	// DefaultFuzzyMinScore is the minimum sahilm/fuzzy match score (as a
	// fraction of the best possible score for the query length) for a
	// candidate to be considered a Fuzzy match rather than discarded.
	DefaultFuzzyMinScore = 0.3
)

// Candidate is one ranked navigation target (§4.7 step 5).
type Candidate struct {
	RelativePath string
	AbsolutePath string
	MatchType    MatchType
	Tooltip      string
	Score        float64
}

// Engine ranks navigation candidates for a single command-key (e.g.
// "cd") by combining learned paths from the Knowledge Graph with an
// optional bounded filesystem scan.
type Engine struct {
	graph     *knowledge.Graph
	scanDepth int
	topK      int

	// Now is overridable for deterministic tests.
	Now func() time.Time

	// ListDir is overridable for deterministic tests; defaults to
	// os.ReadDir-backed scanning via scanFilesystem.
	ListDir func(path string) ([]string, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithScanDepth overrides D, the filesystem scan depth bound.
func WithScanDepth(d int) Option {
	return func(e *Engine) { e.scanDepth = d }
}

// WithTopK overrides how many candidates Rank returns.
func WithTopK(k int) Option {
	return func(e *Engine) { e.topK = k }
}

// New builds an Engine over graph.
func New(graph *knowledge.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:     graph,
		scanDepth: DefaultScanDepth,
		topK:      10,
		Now:       time.Now,
		ListDir:   osListDir,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank implements §4.7 steps 1-5 for commandKey's navigation
// candidates given the input word w and current directory d.
func (e *Engine) Rank(ctx context.Context, commandKey, w, d string) []Candidate {
	now := e.Now()
	seen := make(map[string]struct{})
	var candidates []Candidate

	if ck, ok := e.graph.GetCommandKnowledge(commandKey); ok {
		for literal, arg := range ck.Arguments {
			if _, dup := seen[literal]; dup {
				continue
			}
			seen[literal] = struct{}{}
			candidates = append(candidates, e.score(literal, w, d, arg.UsageCount, ck.TotalUsage, arg.LastUsed, now, false))
		}
	}

	if w != "" {
		// An unfiltered scan with no input word is too noisy to
		// rank usefully; only keep filesystem matches when the
		// caller actually typed something to match against.
		for _, path := range e.scanFilesystem(ctx, d) {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			candidates = append(candidates, e.score(path, w, d, 0, 0, time.Time{}, now, true))
		}
	}

	filtered := sliceutil.RemoveFunc(candidates, func(c Candidate) bool {
		return c.AbsolutePath == filepath.Clean(d) // §4.7 step 4: filter out the current directory
	})

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Score != filtered[j].Score {
			return filtered[i].Score > filtered[j].Score
		}
		if filtered[i].MatchType != filtered[j].MatchType {
			return filtered[i].MatchType > filtered[j].MatchType
		}
		return filtered[i].AbsolutePath < filtered[j].AbsolutePath
	})

	for i := range filtered {
		filtered[i].AbsolutePath = ensureTrailingSeparator(filtered[i].AbsolutePath)
		filtered[i].RelativePath = ensureTrailingSeparator(filtered[i].RelativePath)
	}

	if len(filtered) > e.topK {
		filtered = filtered[:e.topK]
	}
	return filtered
}

// BestMatch implements "best-match navigation": if path does not exist
// on the filesystem, pick the highest-scoring candidate whose absolute
// path does exist, and return it. exists reports whether a path exists
// on the filesystem (injectable for tests).
func (e *Engine) BestMatch(ctx context.Context, commandKey, word, d string, exists func(string) bool) (string, bool) {
	candidates := e.Rank(ctx, commandKey, word, d)
	for _, c := range candidates {
		abs := strings.TrimRight(c.AbsolutePath, string(filepath.Separator))
		if exists(abs) {
			return c.AbsolutePath, true
		}
	}
	return "", false
}

func (e *Engine) score(path, w, d string, usageCount, totalUsage int64, lastUsed, now time.Time, fromScan bool) Candidate {
	matchType := classify(path, w)

	frequencyFactor := 0.0
	if totalUsage > 0 {
		frequencyFactor = float64(usageCount) / float64(totalUsage)
	}
	recencyFactor := 0.0
	if !lastUsed.IsZero() {
		ageDays := now.Sub(lastUsed).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		recencyFactor = math.Exp(-ageDays / 30)
	}
	distanceFactor := 1.0 / (1.0 + float64(depthDelta(d, path)))

	score := FrequencyWeight*frequencyFactor + RecencyWeight*recencyFactor + DistanceWeight*distanceFactor
	if matchType == MatchExact {
		score *= ExactBoost
	}

	matchType = finalizeMatchType(matchType, fromScan)

	return Candidate{
		RelativePath: relativeOrSelf(d, path),
		AbsolutePath: path,
		MatchType:    matchType,
		Score:        score,
	}
}

func finalizeMatchType(classified MatchType, fromScan bool) MatchType {
	if fromScan && classified == MatchFuzzy {
		return MatchFilesystem
	}
	return classified
}

func classify(path, w string) MatchType {
	if w == "~" || w == ".." || w == "." {
		return MatchWellKnown
	}
	base := filepath.Base(path)
	if strings.EqualFold(path, w) || strings.EqualFold(base, w) {
		return MatchExact
	}
	if w != "" && strings.HasPrefix(strings.ToLower(base), strings.ToLower(w)) {
		return MatchPrefix
	}
	if w != "" {
		matches := fuzzy.Find(w, []string{base})
		if len(matches) > 0 {
			maxPossible := len(w) * 2 // heuristic ceiling consistent with sahilm/fuzzy's scoring
			if maxPossible > 0 && float64(matches[0].Score)/float64(maxPossible) >= DefaultFuzzyMinScore {
				return MatchFuzzy
			}
		}
	}
	return MatchFilesystem
}

// depthDelta is the absolute difference in path-segment depth between d
// and candidate, used as the §4.7 distance factor's input.
func depthDelta(d, candidate string) int {
	dd := strings.Count(filepath.Clean(d), string(filepath.Separator))
	cd := strings.Count(filepath.Clean(candidate), string(filepath.Separator))
	if dd > cd {
		return dd - cd
	}
	return cd - dd
}

func relativeOrSelf(d, path string) string {
	rel, err := filepath.Rel(d, path)
	if err != nil {
		return path
	}
	return rel
}

func ensureTrailingSeparator(path string) string {
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}
	return path + string(filepath.Separator)
}
