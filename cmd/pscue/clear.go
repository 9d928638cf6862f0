package main

import (
	"context"
	"fmt"

	"github.com/pscue/pscue/internal/pscue"
)

type clearCmd struct {
	Confirm bool `help:"Skip the confirmation prompt." short:"y"`
}

func (*clearCmd) Help() string {
	return "Permanently erases all learned command, argument, history, " +
		"and workflow data, both in memory and in the persisted store."
}

func (cmd *clearCmd) Run(host *pscue.Host) error {
	if !cmd.Confirm {
		fmt.Print("This will permanently delete all learned data. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := host.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear learned data: %w", err)
	}
	fmt.Println("learned data cleared")
	return nil
}
