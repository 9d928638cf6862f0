package main

import (
	"fmt"

	"github.com/pscue/pscue/internal/pscue"
)

type exportCmd struct {
	Path string `arg:"" help:"Destination path for the exported YAML document." type:"path"`
}

func (*exportCmd) Help() string {
	return "Writes every learned command, argument, and workflow transition " +
		"to a single neutral YAML document that can be reviewed, diffed, " +
		"or imported elsewhere."
}

func (cmd *exportCmd) Run(host *pscue.Host) error {
	if err := host.Export(cmd.Path); err != nil {
		return fmt.Errorf("export learned data: %w", err)
	}
	fmt.Printf("exported learned data to %s\n", cmd.Path)
	return nil
}

type importCmd struct {
	Path  string `arg:"" help:"Path to a previously exported YAML document." type:"path"`
	Merge bool   `help:"Additively merge into existing state instead of replacing it."`
}

func (*importCmd) Help() string {
	return "Loads a neutral YAML document, either replacing all current " +
		"learned state or additively merging it in. On a parse failure, " +
		"no existing state is modified."
}

func (cmd *importCmd) Run(host *pscue.Host) error {
	mode := pscue.ImportReplace
	if cmd.Merge {
		mode = pscue.ImportMerge
	}
	if err := host.Import(cmd.Path, mode); err != nil {
		return fmt.Errorf("import learned data: %w", err)
	}
	fmt.Printf("imported learned data from %s\n", cmd.Path)
	return nil
}
