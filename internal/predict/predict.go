// Package predict implements the Predictor (§4.6): given a partial
// command line, it blends the Completion Engine's catalogue walk with
// the Knowledge Graph to produce a single-line continuation, within a
// strict latency budget.
package predict

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pscue/pscue/internal/cmdkey"
	"github.com/pscue/pscue/internal/engine"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/workflow"
)

// Budget is the §4.6 / §5 hard latency budget for a single prediction.
const Budget = 20 * time.Millisecond

// CatalogueBaselineScore is the fixed score assigned to catalogue-only
// candidates before blending with learned scores (§4.6 step 3).
const CatalogueBaselineScore = 0.5

// TopN bounds how many candidates are pulled from each source before
// blending.
const TopN = 5

// Predictor blends the Catalogue, Knowledge Graph, and Workflow Learner
// to answer predict(partial_line).
type Predictor struct {
	engine   *engine.Engine
	graph    *knowledge.Graph
	learner  *workflow.Learner
	deadline time.Duration
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithDeadline overrides the default 20ms latency budget; used by tests.
func WithDeadline(d time.Duration) Option {
	return func(p *Predictor) { p.deadline = d }
}

// New builds a Predictor over eng, graph, and learner.
func New(eng *engine.Engine, graph *knowledge.Graph, learner *workflow.Learner, opts ...Option) *Predictor {
	p := &Predictor{engine: eng, graph: graph, learner: learner, deadline: Budget}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// candidate is an internal blended-score entry before the top choice is
// picked.
type candidate struct {
	text  string
	score float64
}

// Predict implements predict(partial_line) -> optional single-line
// continuation (§4.6).
func (p *Predictor) Predict(ctx context.Context, partialLine string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	tokens := cmdkey.Split(partialLine)
	if len(tokens) == 0 {
		return "", false
	}

	wordToComplete := ""
	if !strings.HasSuffix(partialLine, " ") {
		wordToComplete = tokens[len(tokens)-1]
	}

	node, searchTerm, ok := p.engine.Walk(ctx, partialLine, wordToComplete)
	commandKey := cmdkey.Of(tokens)

	var candidates []candidate
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	if ok {
		g.Go(func() error {
			matches := node.ListMatching(gctx, searchTerm, false)
			if len(matches) > TopN {
				matches = matches[:TopN]
			}
			mu.Lock()
			for _, m := range matches {
				candidates = append(candidates, candidate{text: m.Text, score: CatalogueBaselineScore})
			}
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		suggestions := p.graph.GetSuggestions(commandKey, searchTerm)
		if len(suggestions) > TopN {
			suggestions = suggestions[:TopN]
		}
		mu.Lock()
		for _, s := range suggestions {
			candidates = append(candidates, candidate{text: s.Argument, score: s.Score})
		}
		mu.Unlock()
		return nil
	})

	if !ok {
		// Unknown command: fall back to the Workflow Learner and/or the
		// Knowledge Graph keyed by the bare command (§4.6 step 5).
		g.Go(func() error {
			if next, found := p.learner.MostLikelyNext(commandKey); found {
				mu.Lock()
				candidates = append(candidates, candidate{text: next.To, score: next.Confidence(time.Now())})
				mu.Unlock()
			}
			return nil
		})
	}

	// errgroup's functions never return an error. Stop waiting once the
	// deadline passes and rank whatever candidates were gathered by then.
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	mu.Lock()
	gathered := append([]candidate(nil), candidates...)
	mu.Unlock()

	best, ok := bestCandidate(gathered)
	if !ok {
		return "", false
	}
	return concatenate(partialLine, best.text), true
}

func bestCandidate(candidates []candidate) (candidate, bool) {
	if len(candidates) == 0 {
		return candidate{}, false
	}

	merged := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if existing, ok := merged[c.text]; !ok || c.score > existing {
			merged[c.text] = c.score
		}
	}

	texts := make([]string, 0, len(merged))
	for t := range merged {
		texts = append(texts, t)
	}
	sort.Slice(texts, func(i, j int) bool {
		if merged[texts[i]] != merged[texts[j]] {
			return merged[texts[i]] > merged[texts[j]]
		}
		return texts[i] < texts[j]
	})

	return candidate{text: texts[0], score: merged[texts[0]]}, true
}

// concatenate implements §4.6 step 4, word-boundary concatenation.
func concatenate(partialLine, literal string) string {
	isAbsolutePath := strings.HasPrefix(literal, "/") || strings.HasPrefix(literal, "~")

	lastSpace := strings.LastIndexByte(partialLine, ' ')
	lastToken := partialLine
	prefix := ""
	if lastSpace >= 0 {
		lastToken = partialLine[lastSpace+1:]
		prefix = partialLine[:lastSpace+1]
	}

	if !isAbsolutePath && lastToken != "" && strings.HasPrefix(strings.ToLower(literal), strings.ToLower(lastToken)) {
		return prefix + literal
	}
	if partialLine == "" || strings.HasSuffix(partialLine, " ") {
		return partialLine + literal
	}
	if isAbsolutePath {
		return prefix + literal
	}
	return partialLine + " " + literal
}
