package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pscue/pscue/internal/pscue"
)

type diagnosticsCmd struct{}

func (*diagnosticsCmd) Help() string {
	return "Print a summary of the host's current state: how many " +
		"commands and transitions are known, how much history is " +
		"retained, and whether learning is disabled."
}

func (*diagnosticsCmd) Run(host *pscue.Host, opts *globalOptions) error {
	d := host.Diagnostics(time.Now())

	if opts.JSON {
		enc := json.NewEncoder(jsonStdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	fmt.Printf("commands known:       %d\n", d.CommandsKnown)
	fmt.Printf("transitions learned:  %d\n", d.TransitionsLearned)
	fmt.Printf("history entries:      %d/%d\n", d.HistoryEntries, d.HistoryCapacity)
	fmt.Printf("learning disabled:    %t\n", d.LearningDisabled)
	fmt.Printf("generated at:         %s\n", d.GeneratedAt.Format(timeFormat))
	return nil
}
