package keymgr_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	addr := keymgr.Address([]byte("ABCD123456LHB1234567"))
	assert.Equal(t, fmt.Sprintf("%X", []byte(addr)), addr.String())
	assert.Equal(t, "(nil)", keymgr.Address(nil).String())

	cond := keymgr.NewCondition("sigs", "ed25519", []byte("ABCD123456LHB"))
	assert.Equal(t, "sigs/ed25519/414243443132333435364C4842", cond.String())

	bad := keymgr.Condition("nothing here")
	assert.Equal(t, "Invalid Condition: 6E6F7468696E672068657265", bad.String())
}

func TestConditionAddress(t *testing.T) {
	cond := keymgr.NewCondition("sigs", "ed25519", []byte("public key"))
	addr := cond.Address()
	require.NoError(t, addr.Validate())
	assert.Len(t, addr, keymgr.AddressLength)
	assert.True(t, addr.Equals(keymgr.NewAddress(cond)))

	other := keymgr.NewCondition("sigs", "ed25519", []byte("another key"))
	assert.False(t, addr.Equals(other.Address()))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := keymgr.NewCondition("foo", "bar", []byte("conditiondata")).Address()
	bech, err := addr.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr keymgr.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf("%q", addr.String()),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%s"`, addr.String()),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     fmt.Sprintf(`"bech32:%s"`, bech),
			wantAddr: addr,
		},
		"bech32 with a foreign prefix": {
			json:    `"bech32:tiov1w3jhxapdwpshjmr0v9jqymqq4y"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid hex length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInvalidInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrInvalidType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a keymgr.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := keymgr.Address([]byte("ABCD123456LHB1234567"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var back keymgr.Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)
}

func TestAddressFlagValue(t *testing.T) {
	addr := keymgr.NewCondition("foo", "bar", []byte("x")).Address()

	var a keymgr.Address
	require.NoError(t, a.Set(addr.String()))
	assert.Equal(t, addr, a)

	assert.Error(t, a.Set("not-hex"))
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition keymgr.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: keymgr.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInvalidInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got keymgr.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   keymgr.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   keymgr.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}
