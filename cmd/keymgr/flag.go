package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/x/keys"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *keymgr.Address {
	var a keymgr.Address
	if defaultVal != "" {
		var err error
		a, err = keymgr.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q keymgr.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flWeight returns a weight flag. Range is checked by the message
// validation, not while parsing.
func flWeight(fl *flag.FlagSet, name string, defaultVal uint, usage string) *keys.Weight {
	w := keys.Weight(defaultVal)
	fl.Var((*weightValue)(&w), name, usage)
	return &w
}

type weightValue keys.Weight

func (w *weightValue) String() string {
	if w == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*w), 10)
}

func (w *weightValue) Set(raw string) error {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid weight %q", raw)
	}
	*w = weightValue(n)
	return nil
}

// addressList collects addresses given by repeating a flag.
type addressList []keymgr.Address

func (l *addressList) String() string {
	if l == nil {
		return ""
	}
	s := make([]string, len(*l))
	for i, a := range *l {
		s[i] = a.String()
	}
	return strings.Join(s, ",")
}

func (l *addressList) Set(raw string) error {
	a, err := keymgr.ParseAddress(raw)
	if err != nil {
		return err
	}
	*l = append(*l, a)
	return nil
}

// keyWeightList collects associated keys given by repeating a flag in
// the <address>=<weight> format.
type keyWeightList []*keys.AssociatedKey

func (l *keyWeightList) String() string {
	if l == nil {
		return ""
	}
	s := make([]string, len(*l))
	for i, k := range *l {
		s[i] = fmt.Sprintf("%s=%d", k.Address, k.Weight)
	}
	return strings.Join(s, ",")
}

func (l *keyWeightList) Set(raw string) error {
	i := strings.LastIndex(raw, "=")
	if i < 0 {
		return fmt.Errorf("want <address>=<weight>, got %q", raw)
	}
	a, err := keymgr.ParseAddress(raw[:i])
	if err != nil {
		return err
	}
	var w weightValue
	if err := w.Set(raw[i+1:]); err != nil {
		return err
	}
	*l = append(*l, &keys.AssociatedKey{Address: a, Weight: keys.Weight(w)})
	return nil
}
