package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/keymgr/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with hex encoded private key is created. This
command fails if the private key file already exists.

If a seed is given, the key is derived from it at the SLIP-10 path
m/44'/234'/<index>'. The same seed and index always give the same key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("KEYMGR_PRIV_KEY", filepath.Join(homeDir(), "priv.key")),
			"Path to the private key file. You can use KEYMGR_PRIV_KEY environment variable to set it.")
		seedFl  = fl.String("seed", "", "Hex encoded seed (16 to 64 bytes) to derive the key from.")
		indexFl = fl.Uint("index", 0, "Derivation index, used together with -seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var key *crypto.PrivateKey
	if *seedFl != "" {
		seed, err := hex.DecodeString(*seedFl)
		if err != nil {
			return fmt.Errorf("cannot decode seed: %s", err)
		}
		key, err = crypto.DeriveChild(seed, uint32(*indexFl))
		if err != nil {
			return fmt.Errorf("cannot derive key: %s", err)
		}
	} else {
		key = crypto.GenPrivKeyEd25519()
	}

	if err := os.MkdirAll(filepath.Dir(*keyPathFl), 0o700); err != nil {
		return fmt.Errorf("cannot create key directory: %s", err)
	}
	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fmt.Fprintln(fd, hex.EncodeToString(key.Ed25519)); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("KEYMGR_PRIV_KEY", filepath.Join(homeDir(), "priv.key")),
			"Path to the private key file. You can use KEYMGR_PRIV_KEY environment variable to set it.")
		bech32Fl = fl.Bool("bech32", false, "Print the bech32 form of the address.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.Address()
	if *bech32Fl {
		b, err := addr.Bech32()
		if err != nil {
			return fmt.Errorf("cannot encode address: %s", err)
		}
		_, err = fmt.Fprintln(output, b)
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}
