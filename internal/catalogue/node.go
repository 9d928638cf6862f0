// Package catalogue implements the completion catalogue: an immutable
// tree of known commands, their parameters, and the arguments each can
// take.
//
// The tree is a tagged variant with three cases (command, parameter,
// argument) rather than a class hierarchy per case, following the
// teacher's preference for small fixed-case variants over deep
// polymorphism. The walker in package engine only ever needs FindChild
// and ListMatching.
package catalogue

import (
	"context"
	"strings"
)

// Kind distinguishes the three node variants.
type Kind int

// Supported node kinds.
const (
	KindCommand Kind = iota
	KindParameter
	KindArgument
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindParameter:
		return "parameter"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Producer yields a finite sequence of arguments on demand, e.g. by
// enumerating git branches or listing directory entries. Producers must
// be cancellable: they should respect ctx's deadline and return whatever
// they have so far (or nothing) once it expires.
type Producer func(ctx context.Context) []Argument

// Argument is a single completion value: either a static literal baked
// into the catalogue, or one produced dynamically by a Producer.
type Argument struct {
	Text    string
	Tooltip string
}

// Node is a catalogue node. Its Kind determines which fields are
// meaningful:
//
//   - KindCommand: Name, Alias, Tooltip, Commands, Parameters, Dynamic.
//   - KindParameter: Name, Alias, Tooltip, RequiresValue, Static, Dynamic.
//   - KindArgument: Text, Tooltip (used only as an entry in Static).
type Node struct {
	Kind Kind

	// Name is the primary literal token for commands and parameters,
	// e.g. "commit" or "--message".
	Name string
	// Alias is an optional short form, e.g. "co" for "checkout" or
	// "-m" for "--message".
	Alias   string
	Tooltip string

	// Commands and Parameters hold this command node's children, in
	// catalogue (declaration) order. Only meaningful for KindCommand.
	Commands   []*Node
	Parameters []*Node

	// RequiresValue is true for a parameter that binds the next token
	// as its value. Only meaningful for KindParameter.
	RequiresValue bool

	// Static holds this parameter's fixed argument literals, in
	// declaration order. Only meaningful for KindParameter.
	Static []*Node

	// Dynamic, if set, produces additional arguments (for a parameter)
	// or additional positional completions (for a command) at request
	// time.
	Dynamic Producer

	// Text is this argument's completion literal. Only meaningful for
	// KindArgument.
	Text string
}

// NewCommand builds a command node.
func NewCommand(name string, opts ...NodeOption) *Node {
	n := &Node{Kind: KindCommand, Name: name}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewParameter builds a parameter node.
func NewParameter(name string, opts ...NodeOption) *Node {
	n := &Node{Kind: KindParameter, Name: name}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewArgument builds a static argument node.
func NewArgument(text, tooltip string) *Node {
	return &Node{Kind: KindArgument, Text: text, Tooltip: tooltip}
}

// NodeOption configures a command or parameter node at construction time.
type NodeOption func(*Node)

// WithAlias sets the node's short alias.
func WithAlias(alias string) NodeOption {
	return func(n *Node) { n.Alias = alias }
}

// WithTooltip sets the node's tooltip.
func WithTooltip(tooltip string) NodeOption {
	return func(n *Node) { n.Tooltip = tooltip }
}

// WithCommands adds subcommands to a command node.
func WithCommands(children ...*Node) NodeOption {
	return func(n *Node) { n.Commands = append(n.Commands, children...) }
}

// WithParameters adds parameters to a command node.
func WithParameters(params ...*Node) NodeOption {
	return func(n *Node) { n.Parameters = append(n.Parameters, params...) }
}

// WithDynamic sets a command's or parameter's dynamic-argument producer.
func WithDynamic(p Producer) NodeOption {
	return func(n *Node) { n.Dynamic = p }
}

// RequiresValue marks a parameter as binding the next token as its value.
func RequiresValue() NodeOption {
	return func(n *Node) { n.RequiresValue = true }
}

// WithStatic adds static arguments to a parameter node.
func WithStatic(args ...*Node) NodeOption {
	return func(n *Node) { n.Static = append(n.Static, args...) }
}

// MatchKind reports how FindChild located a result, needed by the engine
// to implement the alias-ambiguity rule (§4.1/§4.2).
type MatchKind int

// Supported match kinds, in the priority order FindChild applies them.
const (
	MatchNone MatchKind = iota
	MatchName
	MatchAlias
	MatchArgument
)

func eqFold(a, b string) bool { return strings.EqualFold(a, b) }

// FindChild returns the unique subcommand, parameter, or static/dynamic
// argument whose primary name equals word, else whose alias equals word,
// else one whose literal text equals word, else none.
//
// Equality is case-insensitive. For a KindCommand node this searches
// Commands then Parameters; for a KindParameter node this searches
// Static then Dynamic arguments produced by ctx.
func (n *Node) FindChild(ctx context.Context, word string) (*Node, MatchKind) {
	if n == nil {
		return nil, MatchNone
	}

	switch n.Kind {
	case KindCommand:
		for _, c := range n.Commands {
			if eqFold(c.Name, word) {
				return c, MatchName
			}
		}
		for _, p := range n.Parameters {
			if eqFold(p.Name, word) {
				return p, MatchName
			}
		}
		for _, c := range n.Commands {
			if c.Alias != "" && eqFold(c.Alias, word) {
				return c, MatchAlias
			}
		}
		for _, p := range n.Parameters {
			if p.Alias != "" && eqFold(p.Alias, word) {
				return p, MatchAlias
			}
		}
		return nil, MatchNone

	case KindParameter:
		for _, a := range n.Static {
			if eqFold(a.Text, word) {
				return a, MatchArgument
			}
		}
		if n.Dynamic != nil {
			for _, a := range n.Dynamic(ctx) {
				if eqFold(a.Text, word) {
					return &Node{Kind: KindArgument, Text: a.Text, Tooltip: a.Tooltip}, MatchArgument
				}
			}
		}
		return nil, MatchNone

	default:
		return nil, MatchNone
	}
}

// Candidate is a single completion result: the literal text to insert,
// and an optional human-readable tooltip.
type Candidate struct {
	Text    string
	Tooltip string
}

// ListMatching returns every child whose primary name or alias starts
// with prefix (case-insensitive), in the order: subcommands in catalogue
// order, then parameters in catalogue order, then dynamic arguments in
// producer order (only if includeDynamic). Duplicate literals are
// removed, keeping the first occurrence.
//
// For a KindParameter node, this instead lists its static arguments (in
// declaration order) followed by its dynamic arguments.
func (n *Node) ListMatching(ctx context.Context, prefix string, includeDynamic bool) []Candidate {
	if n == nil {
		return nil
	}

	var out []Candidate
	seen := make(map[string]struct{})
	add := func(text, tooltip string) {
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		out = append(out, Candidate{Text: text, Tooltip: tooltip})
	}

	hasPrefix := func(s string) bool {
		return prefix == "" || len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
	}

	switch n.Kind {
	case KindCommand:
		for _, c := range n.Commands {
			if hasPrefix(c.Name) {
				add(c.Name, c.Tooltip)
			} else if c.Alias != "" && hasPrefix(c.Alias) {
				add(c.Alias, c.Tooltip)
			}
		}
		for _, p := range n.Parameters {
			if hasPrefix(p.Name) {
				add(p.Name, p.Tooltip)
			} else if p.Alias != "" && hasPrefix(p.Alias) {
				add(p.Alias, p.Tooltip)
			}
		}
		if includeDynamic && n.Dynamic != nil {
			for _, a := range n.Dynamic(ctx) {
				if hasPrefix(a.Text) {
					add(a.Text, a.Tooltip)
				}
			}
		}

	case KindParameter:
		for _, a := range n.Static {
			if hasPrefix(a.Text) {
				add(a.Text, a.Tooltip)
			}
		}
		if includeDynamic && n.Dynamic != nil {
			for _, a := range n.Dynamic(ctx) {
				if hasPrefix(a.Text) {
					add(a.Text, a.Tooltip)
				}
			}
		}
	}

	return out
}
