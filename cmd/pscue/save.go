package main

import (
	"context"
	"fmt"

	"github.com/pscue/pscue/internal/pscue"
)

type saveCmd struct{}

func (*saveCmd) Help() string {
	return "Flushes any changes accumulated since the last save to the " +
		"persisted store immediately, instead of waiting for the " +
		"background autosave interval."
}

func (*saveCmd) Run(host *pscue.Host) error {
	host.Save(context.Background())
	fmt.Println("saved")
	return nil
}
