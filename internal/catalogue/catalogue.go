package catalogue

import "strings"

// Catalogue is the top-level registry of known commands, keyed by the
// literal command name (e.g. "git", "docker"). It is built once per
// process and never mutated afterwards.
type Catalogue struct {
	commands map[string]*Node
	order    []string
}

// New builds an empty catalogue.
func New() *Catalogue {
	return &Catalogue{commands: make(map[string]*Node)}
}

// Register adds a top-level command to the catalogue. Registering the
// same name twice replaces the earlier entry.
func (c *Catalogue) Register(cmd *Node) {
	if cmd.Kind != KindCommand {
		panic("catalogue: Register requires a command node")
	}
	name := strings.ToLower(cmd.Name)
	if _, ok := c.commands[name]; !ok {
		c.order = append(c.order, name)
	}
	c.commands[name] = cmd
}

// Lookup returns the top-level command node for name, case-insensitively.
func (c *Catalogue) Lookup(name string) (*Node, bool) {
	n, ok := c.commands[strings.ToLower(name)]
	return n, ok
}

// Names returns the registered top-level command names in registration
// order.
func (c *Catalogue) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len reports the number of top-level commands registered.
func (c *Catalogue) Len() int {
	return len(c.commands)
}
