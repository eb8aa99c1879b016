package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/keymgr"
)

func cmdWithSigner(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a deploy from the input and add a signer to it. The signer is taken from
a private key file or given as an address. Adding a signer that is already
listed has no effect.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", "", "Path to the private key file of the signer.")
		addressFl = flAddress(fl, "address", "", "Address of the signer, used when no key is given.")
	)
	fl.Parse(args)

	var signer keymgr.Address
	switch {
	case *keyPathFl != "":
		key, err := loadKey(*keyPathFl)
		if err != nil {
			return err
		}
		signer = key.Address()
	case len(*addressFl) != 0:
		signer = *addressFl
	default:
		return errors.New("either -key or -address is required")
	}

	d, err := readDeploy(input)
	if err != nil {
		return err
	}
	for _, s := range d.Signers {
		if s.Equals(signer) {
			return writeDeploy(output, d)
		}
	}
	d.Signers = append(d.Signers, signer)
	return writeDeploy(output, d)
}

func cmdView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a deploy from the input and print a human readable summary.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	d, err := readDeploy(input)
	if err != nil {
		return err
	}
	msg, err := d.GetMsg()
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "account: %s\n", d.Account)
	fmt.Fprintf(output, "action:  %s (%s)\n", msg.Path(), d.Action.ActionClass())
	for _, s := range d.Signers {
		fmt.Fprintf(output, "signer:  %s\n", s)
	}
	return nil
}
