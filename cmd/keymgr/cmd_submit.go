package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
)

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a deploy from the input and submit it. The receipt is written to the
output. The command fails if the deploy was not executed.
`)
		fl.PrintDefaults()
	}
	appFl := flApp(fl)
	fl.Parse(args)

	d, err := readDeploy(input)
	if err != nil {
		return err
	}

	a, err := appFl.open()
	if err != nil {
		return fmt.Errorf("cannot open application: %s", err)
	}
	defer a.Close()

	receipt, submitErr := a.Submit(context.Background(), d)
	raw, err := json.MarshalIndent(receipt, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize receipt: %s", err)
	}
	if _, err := fmt.Fprintln(output, string(raw)); err != nil {
		return err
	}
	if submitErr != nil {
		return fmt.Errorf("deploy rejected (code %d): %s", receipt.Code, receipt.Log)
	}
	return nil
}

func cmdInstall(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Bring an account under the weighted authorization model. The account starts
with a single key of weight 1 and both thresholds set to 1. By default the
account address itself is used as the key.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Account to install.")
		keyFl     = flAddress(fl, "key", "", "Initial associated key. Defaults to the account address.")
	)
	appFl := flApp(fl)
	fl.Parse(args)

	if len(*accountFl) == 0 {
		return errors.New("account is required")
	}
	key := *keyFl
	if len(key) == 0 {
		key = *accountFl
	}

	a, err := appFl.open()
	if err != nil {
		return fmt.Errorf("cannot open application: %s", err)
	}
	defer a.Close()

	ctx := a.Context(context.Background())
	acc, err := a.Ledger().Install(ctx, *accountFl, key)
	if err != nil {
		return fmt.Errorf("cannot install account: %s", err)
	}
	return printAccount(output, acc)
}
