// Command pscue-complete is the short-lived completer binary invoked by
// the shell on every tab-completion request (§6 "Completer binary"). It
// takes exactly three positional arguments — the word being completed,
// the command line up to the cursor (or the full line), and the cursor
// position — and writes one "completion_text|tooltip_text" line per
// candidate to standard output.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/config"
	"github.com/pscue/pscue/internal/engine"
	"github.com/pscue/pscue/internal/probe"
	"github.com/pscue/pscue/internal/silog"
)

// probeTimeout bounds each dynamic-argument producer so the whole
// completer stays well within the ≤50ms tab-completion latency target.
const probeTimeout = 30 * time.Millisecond

func main() {
	if len(os.Args) != 4 {
		// §6: "Silent on any argument count other than three."
		return
	}
	os.Exit(run(os.Args[1], os.Args[2], os.Args[3]))
}

func run(wordToComplete, commandAST, cursorPosition string) (exitCode int) {
	log := silog.Nop()
	defer func() {
		if r := recover(); r != nil {
			log.Error("completer panic", "recovered", r)
			exitCode = 1
		}
	}()

	cfg := config.Load(log)
	if cfg.Debug {
		log = silog.New(os.Stderr, &silog.Options{Level: silog.LevelDebug})
	}

	line := truncateAtCursor(commandAST, cursorPosition)

	cat := catalogue.Builtin(liveProducers(log))
	eng := engine.New(cat, engine.WithLogger(log))

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	candidates := eng.GetCompletions(ctx, engine.Request{
		Line:           line,
		WordToComplete: wordToComplete,
		IncludeDynamic: true,
	})

	for _, c := range candidates {
		fmt.Printf("%s|%s\n", c.Text, c.Tooltip)
	}
	return 0
}

// truncateAtCursor trims commandAST to cursorPosition when that value
// parses as a valid index into it; otherwise the full line is used
// as-is (§6 "the raw command line up to the cursor or the full line").
func truncateAtCursor(commandAST, cursorPosition string) string {
	pos, err := strconv.Atoi(cursorPosition)
	if err != nil || pos < 0 || pos > len(commandAST) {
		return commandAST
	}
	return commandAST[:pos]
}

// liveProducers wires the builtin catalogue's dynamic arguments to real
// external probes (git, docker, kubectl), each bounded by probeTimeout
// (§7 "Dynamic producer failure").
func liveProducers(log *silog.Logger) catalogue.DynamicProducers {
	return catalogue.DynamicProducers{
		GitBranches: probe.Command(log, probeTimeout, probe.Lines,
			"git", "branch", "--format=%(refname:short)"),
		GitRemotes: probe.Command(log, probeTimeout, probe.Lines,
			"git", "remote"),
		DockerImages: probe.Command(log, probeTimeout, probe.Lines,
			"docker", "images", "--format", "{{.Repository}}:{{.Tag}}"),
		DockerPS: probe.Command(log, probeTimeout, probe.Lines,
			"docker", "ps", "--format", "{{.Names}}"),
		KubeResources: probe.Command(log, probeTimeout, probe.Lines,
			"kubectl", "get", "pods", "-o", "name"),
		KubeNamespace: probe.Command(log, probeTimeout, probe.Lines,
			"kubectl", "get", "namespaces", "-o", "name"),
	}
}
