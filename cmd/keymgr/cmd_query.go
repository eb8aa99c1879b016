package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/keymgr/x/keys"
)

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the authorization state of an account. Without -account all accounts
are printed.
`)
		fl.PrintDefaults()
	}
	accountFl := flAddress(fl, "account", "", "Account to show.")
	appFl := flApp(fl)
	fl.Parse(args)

	a, err := appFl.open()
	if err != nil {
		return fmt.Errorf("cannot open application: %s", err)
	}
	defer a.Close()

	ctx := a.Context(context.Background())
	if len(*accountFl) != 0 {
		acc, err := a.Ledger().Account(ctx, *accountFl)
		if err != nil {
			return err
		}
		return printAccount(output, acc)
	}

	accs, err := a.Ledger().Accounts(ctx)
	if err != nil {
		return err
	}
	for _, acc := range accs {
		if err := printAccount(output, acc); err != nil {
			return err
		}
	}
	return nil
}

func cmdAuthorize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Check whether the given signers carry enough weight for an action class of
an account. Prints true or false. Nothing is changed.
`)
		fl.PrintDefaults()
	}
	var signersFl addressList
	fl.Var(&signersFl, "signer", "Address of a signer. Can be repeated.")
	var (
		accountFl = flAddress(fl, "account", "", "Account to check.")
		classFl   = fl.String("class", "deploy", "Action class, deploy or manage.")
	)
	appFl := flApp(fl)
	fl.Parse(args)

	if len(*accountFl) == 0 {
		return errors.New("account is required")
	}
	class, err := keys.ParseActionClass(*classFl)
	if err != nil {
		return err
	}

	a, err := appFl.open()
	if err != nil {
		return fmt.Errorf("cannot open application: %s", err)
	}
	defer a.Close()

	ok, err := a.Ledger().Authorize(a.Context(context.Background()), *accountFl, class, signersFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, ok)
	return err
}

func printAccount(w io.Writer, acc *keys.Account) error {
	raw, err := keys.MarshalAccountJSON(acc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
