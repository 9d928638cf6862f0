// Package probe runs external commands as time-bounded dynamic-argument
// producers (§3 "Argument", §9 "Dynamic-argument producers").
//
// It generalizes the teacher's internal/git/cmd.go exec wrapper (a
// context-bound *exec.Cmd builder that captures stderr into the error)
// from "run git" to "run any external probe and parse its stdout lines":
// the spec's dynamic producers enumerate branches, list directories, or
// shell out to other tools, not specifically git.
package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/silog"
)

// Command builds a [catalogue.Producer] that runs name with args, bounded
// by timeout, and converts each non-empty line of stdout into an
// argument via parseLine. A producer that exceeds its budget, exits
// non-zero, or fails to start is treated as empty and logged at debug
// level (§7 "Dynamic producer failure").
func Command(log *silog.Logger, timeout time.Duration, parseLine func(line string) (catalogue.Argument, bool), name string, args ...string) catalogue.Producer {
	if log == nil {
		log = silog.Nop()
	}

	return func(ctx context.Context) []catalogue.Argument {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, name, args...)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout

		if err := cmd.Run(); err != nil {
			log.Debug("dynamic argument probe failed",
				"command", name, "args", args, "error", err)
			return nil
		}

		var out []catalogue.Argument
		for _, line := range strings.Split(stdout.String(), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if arg, ok := parseLine(line); ok {
				out = append(out, arg)
			}
		}
		return out
	}
}

// Lines is a parseLine helper that treats each line verbatim as an
// argument's completion text, with no tooltip.
func Lines(line string) (catalogue.Argument, bool) {
	return catalogue.Argument{Text: line}, true
}
