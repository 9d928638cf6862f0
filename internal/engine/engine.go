// Package engine implements the completion engine: it parses a partial
// command line, walks the completion catalogue to locate the current
// position in it, and returns an ordered, filtered candidate list.
//
// The walk is a generalization of the teacher's internal/komplete token
// scanner (itself modeled on kong.Context's argument parser): tokens are
// consumed left to right, flags/parameters that expect a value consume
// their successor, and the walk stops as soon as a token fails to match
// anything in the catalogue.
package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/silog"
)

// Request describes a single completion lookup.
type Request struct {
	// Line is the raw text up to the cursor.
	Line string
	// WordToComplete is the token currently being completed, possibly
	// empty.
	WordToComplete string
	// IncludeDynamic allows the caller to suppress expensive dynamic
	// producers (the fast path used by the Predictor).
	IncludeDynamic bool
}

// Engine parses command lines against a Catalogue and emits completions.
type Engine struct {
	cat   *catalogue.Catalogue
	log   *silog.Logger
	cache *cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger used for malformed-input diagnostics
// (§7).
func WithLogger(log *silog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCache enables the optional completion cache (§3 "Cache entry")
// with the given TTL. A zero TTL disables caching (the default).
func WithCache(ttl time.Duration) Option {
	return func(e *Engine) { e.cache = newCache(ttl) }
}

// New builds an Engine over the given catalogue.
func New(cat *catalogue.Catalogue, opts ...Option) *Engine {
	e := &Engine{cat: cat, log: silog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetCompletions implements the synchronous tab-completion contract
// (§4.2): it returns an ordered sequence of (text, tooltip) candidates
// for req, or an empty slice if the command is unknown or the line is
// malformed.
func (e *Engine) GetCompletions(ctx context.Context, req Request) []catalogue.Candidate {
	cmdName, rest, ok := splitCommandName(req.Line)
	if !ok {
		// Malformed input: unparseable command length.
		e.log.Debug("malformed command line", "line", req.Line)
		return nil
	}
	if cmdName == "" {
		return nil
	}

	if e.cache != nil {
		if hit, ok := e.cache.get(cmdName, req.Line); ok {
			return hit
		}
	}

	root, ok := e.cat.Lookup(cmdName)
	if !ok {
		return nil // unknown command: not an error
	}

	node, searchTerm := e.walk(ctx, root, rest, req.Line, req.WordToComplete)
	candidates := node.ListMatching(ctx, searchTerm, req.IncludeDynamic)
	sort.Slice(candidates, func(i, j int) bool {
		return strings.ToLower(candidates[i].Text) < strings.ToLower(candidates[j].Text)
	})

	if e.cache != nil {
		e.cache.put(cmdName, req.Line, candidates)
	}
	return candidates
}

// Walk exposes the engine's tree-walking logic without producing a final
// candidate list, so that callers (notably the Predictor) can combine
// the resulting node and search term with additional scoring.
func (e *Engine) Walk(ctx context.Context, line, wordToComplete string) (node *catalogue.Node, searchTerm string, ok bool) {
	cmdName, rest, valid := splitCommandName(line)
	if !valid || cmdName == "" {
		return nil, "", false
	}
	root, found := e.cat.Lookup(cmdName)
	if !found {
		return nil, "", false
	}
	node, searchTerm = e.walk(ctx, root, rest, line, wordToComplete)
	return node, searchTerm, true
}

// splitCommandName extracts the text up to the first space, stripping a
// trailing ".exe" suffix on platforms where that is the conventional
// suffix. Splitting at the first space cannot go out of bounds, so ok
// is always true here; callers treat a false ok as malformed input, not
// an unknown command.
func splitCommandName(line string) (name, rest string, ok bool) {
	if line == "" {
		return "", "", true
	}

	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		name, rest = line, ""
	} else {
		name, rest = line[:idx], line[idx+1:]
	}
	name = strings.TrimSuffix(name, ".exe")
	return name, rest, true
}

// walk performs the token-by-token descent described in §4.2 steps 3-6.
func (e *Engine) walk(ctx context.Context, root *catalogue.Node, rest, rawLine, wordToComplete string) (*catalogue.Node, string) {
	tokens := strings.Fields(rest)
	endsWithSpace := strings.HasSuffix(rawLine, " ")

	current := root
	searchTerm := ""
	stopped := false

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		isLastToken := i == len(tokens)-1
		atCursorBoundary := isLastToken && !endsWithSpace

		child, matchKind := current.FindChild(ctx, t)
		if child == nil {
			searchTerm = t
			stopped = true
			break
		}

		if atCursorBoundary && matchKind == catalogue.MatchAlias {
			if len(current.ListMatching(ctx, t, false)) > 1 {
				// Multi-match alias case: remain at parent,
				// keep prefix-matching semantics.
				searchTerm = t
				stopped = true
				break
			}
		}

		switch child.Kind {
		case catalogue.KindCommand:
			current = child

		case catalogue.KindParameter:
			if !child.RequiresValue {
				// Value-less parameter: stay at the parent so
				// sibling parameters remain suggestible.
				continue
			}

			if atCursorBoundary {
				// The cursor is inside what would become this
				// parameter's value: descend so ListMatching
				// offers its static/dynamic arguments.
				current = child
				continue
			}

			if i+1 < len(tokens) {
				// Consume the next token as the parameter's
				// value and remain at the parent.
				i++
				continue
			}

			// Flag written with a trailing space and nothing
			// after it yet: we're about to type its value.
			current = child

		default:
			// Argument nodes are not expected to be returned by
			// FindChild at the command level; treat as a stop.
			searchTerm = t
			stopped = true
		}

		if stopped {
			break
		}
	}

	// Every token that reaches here matched something exactly (FindChild
	// only returns a non-nil child on an exact name/alias/argument
	// match); a loop that finishes without stopping means the cursor
	// sits right after a fully-resolved path through the catalogue, the
	// same position as a bare command name. searchTerm stays "" so the
	// current node's full listing is offered, unfiltered.

	return current, searchTerm
}
