package main

import (
	"bytes"
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/crypto"
)

// seedHex is used to derive deterministic test keys.
const seedHex = "6b65796d6772207465737420736565642030313233343536373839616263646566"

func mustCreateFile(t testing.TB, r io.Reader) string {
	t.Helper()

	fd, err := ioutil.TempFile("", "keymgr")
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	if _, err := io.Copy(fd, r); err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}
	return fd.Name()
}

func mustTempDir(t testing.TB) string {
	t.Helper()

	dir, err := ioutil.TempDir("", "keymgr")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// mustKeyFile derives the key n from the test seed and writes it into a
// private key file.
func mustKeyFile(t testing.TB, n uint32) (string, keymgr.Address) {
	t.Helper()

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		t.Fatal(err)
	}
	key, err := crypto.DeriveChild(seed, n)
	if err != nil {
		t.Fatalf("cannot derive key: %s", err)
	}
	path := mustCreateFile(t, strings.NewReader(hex.EncodeToString(key.Ed25519)))
	return path, key.Address()
}

// run executes a command and returns its output. The test fails if the
// command returns an error.
func run(t testing.TB, cmd func(io.Reader, io.Writer, []string) error, input []byte, args ...string) []byte {
	t.Helper()

	var output bytes.Buffer
	if err := cmd(bytes.NewReader(input), &output, args); err != nil {
		t.Fatalf("command %v failed: %s", args, err)
	}
	return output.Bytes()
}

func TestLoadKey(t *testing.T) {
	path, addr := mustKeyFile(t, 3)
	defer os.Remove(path)

	key, err := loadKey(path)
	if err != nil {
		t.Fatalf("cannot load key: %s", err)
	}
	if !key.Address().Equals(addr) {
		t.Fatalf("want %s address, got %s", addr, key.Address())
	}

	if _, err := loadKey(path + ".missing"); err == nil {
		t.Fatal("want error for a missing file")
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "error", "none"} {
		if _, err := newLogger(level); err != nil {
			t.Errorf("level %q: %s", level, err)
		}
	}
	if _, err := newLogger("loud"); err == nil {
		t.Error("want error for an unknown level")
	}
}
