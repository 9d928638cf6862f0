// Command pscue is the management CLI for the PSCue shell-completion
// and inline-prediction host (§6 "Management surface"). It opens the
// persisted learned-data store, exposes the view/clear/export/import/
// save/workflow/history/diagnostics operations, and can print the
// shell snippets that register the completer binary.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/config"
	"github.com/pscue/pscue/internal/pscue"
	"github.com/pscue/pscue/internal/silog"
)

type globalOptions struct {
	Store string `help:"Path to the learned-data store file." type:"path"`
	JSON  bool   `help:"Emit the result as a machine-readable JSON document." name:"json"`
}

type rootCmd struct {
	globalOptions

	View        viewCmd        `cmd:"" help:"View learned command and argument usage data."`
	Clear       clearCmd       `cmd:"" help:"Clear all learned data, in memory and in the store."`
	Export      exportCmd      `cmd:"" help:"Export learned data to a neutral YAML document."`
	Import      importCmd      `cmd:"" help:"Import learned data from a neutral YAML document."`
	Save        saveCmd        `cmd:"" help:"Force an immediate save of pending changes."`
	Workflows   workflowsCmd   `cmd:"" help:"Inspect or clear learned workflow transitions."`
	History     historyCmd     `cmd:"" help:"Query the persisted command history."`
	Diagnostics diagnosticsCmd `cmd:"" help:"Print a summary of the host's current state."`
	Complete    completeCmd    `cmd:"" help:"Print the shell snippet that registers the completer."`

	host *pscue.Host
}

func (c *rootCmd) AfterApply(kctx *kong.Context) error {
	if kctx.Command() == "complete <shell>" {
		// The completion-snippet printer needs only the static
		// catalogue, not a live store.
		return nil
	}

	log := silog.Nop()
	cfg := config.Load(log)
	if cfg.Debug {
		log = silog.New(os.Stderr, &silog.Options{Level: silog.LevelDebug})
	}

	storePath := c.Store
	if storePath == "" {
		path, err := pscue.DefaultStorePath()
		if err != nil {
			return fmt.Errorf("resolve default store path: %w", err)
		}
		storePath = path
	}

	cat := catalogue.Builtin(catalogue.DynamicProducers{})
	h, err := pscue.Open(context.Background(), storePath, cat, cfg, log)
	if err != nil {
		return fmt.Errorf("open learned-data store: %w", err)
	}

	c.host = h
	kctx.BindTo(h, (*pscue.Host)(nil))
	kctx.Bind(&c.globalOptions)
	return nil
}

func main() {
	var cmd rootCmd
	kctx := kong.Parse(&cmd,
		kong.Name("pscue"),
		kong.Description("Inspect and manage PSCue's learned shell-completion and prediction data."),
		kong.UsageOnError(),
	)

	err := kctx.Run()
	if cmd.host != nil {
		cmd.host.Close(context.Background())
	}
	kctx.FatalIfErrorf(err)
}
