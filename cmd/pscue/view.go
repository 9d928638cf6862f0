package main

import (
	"encoding/json"
	"fmt"

	"github.com/pscue/pscue/internal/pscue"
)

type viewCmd struct{}

func (*viewCmd) Help() string {
	return "Print every command-key currently known to the Knowledge Graph, " +
		"including per-argument usage counts."
}

func (cmd *viewCmd) Run(host *pscue.Host, opts *globalOptions) error {
	ks, _ := host.View()

	if opts.JSON {
		enc := json.NewEncoder(jsonStdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ks)
	}

	if len(ks.Commands) == 0 {
		fmt.Println("no learned data yet")
		return nil
	}
	for _, ck := range ks.Commands {
		fmt.Printf("%s (used %d times, last %s)\n", ck.CommandKey, ck.TotalUsage, ck.LastUsed.Format(timeFormat))
		for _, a := range ck.Arguments {
			fmt.Printf("  %-20s %d\n", a.Literal, a.UsageCount)
		}
	}
	return nil
}
