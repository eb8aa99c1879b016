package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/crypto"
)

func TestKeygenFromSeed(t *testing.T) {
	dir := mustTempDir(t)
	defer os.RemoveAll(dir)

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []uint32{0, 1, 2} {
		index := strconv.Itoa(int(n))
		t.Run(index, func(t *testing.T) {
			path := filepath.Join(dir, "key-"+index)
			out := run(t, cmdKeygen, nil, "-key", path, "-seed", seedHex, "-index", index)

			want, err := crypto.DeriveChild(seed, n)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(string(out)); got != want.Address().String() {
				t.Fatalf("want %s address, got %s", want.Address(), got)
			}

			addr := run(t, cmdKeyaddr, nil, "-key", path)
			if string(addr) != string(out) {
				t.Fatalf("keyaddr printed %q, keygen printed %q", addr, out)
			}

			bech := run(t, cmdKeyaddr, nil, "-key", path, "-bech32")
			if !strings.HasPrefix(string(bech), keymgr.AddressHRP+"1") {
				t.Fatalf("unexpected bech32 address %q", bech)
			}
		})
	}
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	path, _ := mustKeyFile(t, 0)
	defer os.Remove(path)

	if err := cmdKeygen(nil, os.Stdout, []string{"-key", path}); err == nil {
		t.Fatal("want error when the key file exists")
	}
}
