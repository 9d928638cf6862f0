package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pscue/pscue/internal/pscue"
)

type historyCmd struct {
	N int `help:"Number of most recent entries to show." default:"20" short:"n"`
}

func (*historyCmd) Help() string {
	return "Print the most recently recorded commands, newest first, " +
		"including their working directory and exit status."
}

func (cmd *historyCmd) Run(host *pscue.Host, opts *globalOptions) error {
	entries := host.QueryHistory(cmd.N)

	if opts.JSON {
		enc := json.NewEncoder(jsonStdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("no history recorded yet")
		return nil
	}
	for _, e := range entries {
		line := e.CommandKey
		if len(e.Arguments) > 0 {
			line += " " + strings.Join(e.Arguments, " ")
		}
		fmt.Printf("%s  [%s]  exit=%d  %s\n", e.Timestamp.Format(timeFormat), e.WorkingDirectory, e.ExitStatus, line)
	}
	return nil
}
