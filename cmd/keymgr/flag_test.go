package main

import (
	"flag"
	"io/ioutil"
	"testing"

	"github.com/iov-one/keymgr/keymgrtest"
	"github.com/iov-one/keymgr/x/keys"
)

func TestKeyWeightList(t *testing.T) {
	a := keymgrtest.SequenceAddr(1)
	b := keymgrtest.SequenceAddr(2)

	cases := map[string]struct {
		args    []string
		want    []*keys.AssociatedKey
		wantErr bool
	}{
		"no keys": {
			args: nil,
			want: nil,
		},
		"two keys": {
			args: []string{"-key", a.String() + "=3", "-key", b.String() + "=0"},
			want: []*keys.AssociatedKey{
				{Address: a, Weight: 3},
				{Address: b, Weight: 0},
			},
		},
		"missing weight": {
			args:    []string{"-key", a.String()},
			wantErr: true,
		},
		"weight is not a number": {
			args:    []string{"-key", a.String() + "=many"},
			wantErr: true,
		},
		"invalid address": {
			args:    []string{"-key", "zz=1"},
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			fl := flag.NewFlagSet("", flag.ContinueOnError)
			fl.SetOutput(ioutil.Discard)
			var got keyWeightList
			fl.Var(&got, "key", "")

			err := fl.Parse(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %s", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("want %d keys, got %d", len(tc.want), len(got))
			}
			for i, k := range tc.want {
				if !got[i].Address.Equals(k.Address) || got[i].Weight != k.Weight {
					t.Errorf("key %d: want %s=%d, got %s=%d", i, k.Address, k.Weight, got[i].Address, got[i].Weight)
				}
			}
		})
	}
}

func TestAddressList(t *testing.T) {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.SetOutput(ioutil.Discard)
	var got addressList
	fl.Var(&got, "signer", "")

	a := keymgrtest.SequenceAddr(7)
	if err := fl.Parse([]string{"-signer", a.String(), "-signer", a.String()}); err != nil {
		t.Fatalf("parse: %s", err)
	}
	if len(got) != 2 || !got[0].Equals(a) {
		t.Fatalf("unexpected result: %s", got.String())
	}
	if err := got.Set("not an address"); err == nil {
		t.Fatal("want error")
	}
}
