package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/keymgr/app"
	"github.com/iov-one/keymgr/crypto"
)

func cmdScenario(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Play one of the reference scenarios against a fresh in-memory store and print
every step with its outcome, followed by the final account state.

Available scenarios:
`)
		for i, s := range app.Scenarios {
			fmt.Fprintf(flag.CommandLine.Output(), "  %d. %s: %s\n", i+1, s.Name, s.Description)
		}
		fmt.Fprintln(flag.CommandLine.Output())
		fl.PrintDefaults()
	}
	var (
		nameFl     = fl.String("name", "1", "Scenario name or number.")
		seedFl     = fl.String("seed", "", "Hex encoded seed to derive the keys from. A random one is used if not given.")
		logLevelFl = fl.String("log-level", env("KEYMGR_LOG_LEVEL", "error"), "Log level (debug, info, error or none).")
	)
	fl.Parse(args)

	s, err := app.FindScenario(*nameFl)
	if err != nil {
		return err
	}

	var seed []byte
	if *seedFl != "" {
		if seed, err = hex.DecodeString(*seedFl); err != nil {
			return fmt.Errorf("cannot decode seed: %s", err)
		}
	} else {
		seed = crypto.GenPrivKeyEd25519().Seed()
	}

	logger, err := newLogger(*logLevelFl)
	if err != nil {
		return err
	}
	a, err := app.New(app.Config{Backend: app.MemoryBackend, Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(output, "Scenario %s: %s\n\n", s.Name, s.Description)
	res, runErr := app.RunScenario(context.Background(), a, s, seed)
	if res != nil {
		for _, name := range s.Keys {
			fmt.Fprintf(output, "%-8s %s\n", name, res.Keys[name].Address())
		}
		fmt.Fprintln(output)
		for i, r := range res.Receipts {
			status := "ok"
			if !r.OK() {
				status = fmt.Sprintf("rejected (code %d): %s", r.Code, r.Log)
			}
			fmt.Fprintf(output, "%d. %s: %s\n", i+1, r.Path, status)
		}
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintln(output, "\nFinal account state:")
	return printAccount(output, res.Account)
}
