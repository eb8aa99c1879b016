package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/app"
	"github.com/iov-one/keymgr/x/keys"
)

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print a genesis file. Every -account is installed with its own address as
the single key of weight 1 and both thresholds set to 1.
`)
		fl.PrintDefaults()
	}
	var accountsFl addressList
	fl.Var(&accountsFl, "account", "Account to install. Can be repeated.")
	maxKeysFl := fl.Uint("max-keys", keys.DefaultMaxKeys, "Highest number of keys an account may have.")
	fl.Parse(args)

	conf := keys.Configuration{MaxKeys: uint32(*maxKeysFl)}
	if err := conf.Validate(); err != nil {
		return err
	}

	accounts := make([]*keys.Account, 0, len(accountsFl))
	for _, a := range accountsFl {
		acc := &keys.Account{
			Address:                a,
			Keys:                   []*keys.AssociatedKey{{Address: a, Weight: 1}},
			DeploymentThreshold:    1,
			KeyManagementThreshold: 1,
		}
		if err := acc.Validate(); err != nil {
			return err
		}
		accounts = append(accounts, acc)
	}

	rawConf, err := json.Marshal(map[string]keys.Configuration{"keys": conf})
	if err != nil {
		return err
	}
	rawAccounts, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	gen := app.Genesis{
		AppState: keymgr.Options{
			"conf": rawConf,
			"keys": rawAccounts,
		},
	}
	raw, err := json.MarshalIndent(gen, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
