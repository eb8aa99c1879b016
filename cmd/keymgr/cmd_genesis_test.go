package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/iov-one/keymgr/app"
	"github.com/iov-one/keymgr/keymgrtest"
	"github.com/iov-one/keymgr/x/keys"
)

func TestCmdGenesis(t *testing.T) {
	a := keymgrtest.SequenceAddr(1)
	b := keymgrtest.SequenceAddr(2)

	raw := run(t, cmdGenesis, nil, "-account", a.String(), "-account", b.String(), "-max-keys", "4")
	path := mustCreateFile(t, bytes.NewReader(raw))
	defer os.Remove(path)

	out := run(t, cmdShow, nil, "-backend", app.MemoryBackend, "-genesis", path, "-log-level", "none")
	dec := json.NewDecoder(bytes.NewReader(out))
	var got []keys.Account
	for dec.More() {
		var acc keys.Account
		if err := dec.Decode(&acc); err != nil {
			t.Fatalf("cannot decode account: %s", err)
		}
		got = append(got, acc)
	}
	if len(got) != 2 {
		t.Fatalf("want two accounts, got %d", len(got))
	}
	if !got[0].Address.Equals(a) || !got[1].Address.Equals(b) {
		t.Fatalf("unexpected accounts: %s, %s", got[0].Address, got[1].Address)
	}
	for _, acc := range got {
		if len(acc.Keys) != 1 || !acc.Keys[0].Address.Equals(acc.Address) || acc.Keys[0].Weight != 1 {
			t.Errorf("account %s: unexpected keys", acc.Address)
		}
	}
}

func TestCmdGenesisInvalidMaxKeys(t *testing.T) {
	var out bytes.Buffer
	if err := cmdGenesis(nil, &out, []string{"-max-keys", "0"}); err == nil {
		t.Fatal("want error for zero max keys")
	}
}
