package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/pscue/pscue/internal/iterutil"
	"github.com/pscue/pscue/internal/pscue"
)

type workflowsCmd struct {
	List  workflowsListCmd  `cmd:"" help:"List learned workflow transitions."`
	Clear workflowsClearCmd `cmd:"" help:"Clear all learned workflow transitions."`
}

func (*workflowsCmd) Help() string {
	return "Inspect or clear the transitions the Workflow Learner has " +
		"observed between consecutive commands."
}

type workflowsListCmd struct {
	Command []string `arg:"" optional:"" help:"Command keys to chain through, in order. With none given, every learned transition is listed."`
}

func (cmd *workflowsListCmd) Run(host *pscue.Host, opts *globalOptions) error {
	transitions := host.ListWorkflows(cmd.Command)

	if opts.JSON {
		enc := json.NewEncoder(jsonStdout)
		enc.SetIndent("", "  ")
		return enc.Encode(transitions)
	}

	if len(transitions) == 0 {
		fmt.Println("no learned workflow transitions")
		return nil
	}
	for i, t := range iterutil.Enumerate(slices.Values(transitions)) {
		fmt.Printf("%3d. %s -> %s (seen %d times)\n", i+1, t.From, t.To, t.Frequency)
	}
	return nil
}

type workflowsClearCmd struct{}

func (*workflowsClearCmd) Run(host *pscue.Host) error {
	host.ClearWorkflows()
	fmt.Println("workflow transitions cleared")
	return nil
}
