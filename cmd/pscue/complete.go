package main

import (
	"fmt"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/text"
)

type completeCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell to print the registration snippet for."`
}

func (*completeCmd) Help() string {
	return text.Dedent(`
		Prints the shell snippet that registers pscue-complete as the
		completion function for every catalogued command. Eval the
		output from your shell's rc file. For example:

			# bash
			eval "$(pscue complete bash)"

			# zsh
			eval "$(pscue complete zsh)"

			# fish
			pscue complete fish | source
	`)
}

func (cmd *completeCmd) Run() error {
	names := catalogue.Builtin(catalogue.DynamicProducers{}).Names()

	switch cmd.Shell {
	case "bash":
		for _, name := range names {
			fmt.Printf("complete -C pscue-complete %s\n", name)
		}
	case "zsh":
		fmt.Println(`autoload -Uz compinit && compinit`)
		for _, name := range names {
			fmt.Printf("complete -C pscue-complete %s\n", name)
		}
	case "fish":
		for _, name := range names {
			fmt.Printf("complete -c %s -a '(pscue-complete (commandline -ct) (commandline) (commandline -C))'\n", name)
		}
	default:
		return fmt.Errorf("unsupported shell: %s", cmd.Shell)
	}
	return nil
}
