package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/iov-one/keymgr/app"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/x/keys"
)

func TestDeployPipeline(t *testing.T) {
	home := mustTempDir(t)
	defer os.RemoveAll(home)

	withApp := func(args ...string) []string {
		return append(args, "-backend", app.BoltBackend, "-home", home, "-log-level", "none")
	}

	mainKey, main := mustKeyFile(t, 0)
	defer os.Remove(mainKey)
	browserKey, browser := mustKeyFile(t, 1)
	defer os.Remove(browserKey)

	run(t, cmdInstall, nil, withApp("-account", main.String())...)

	deploy := run(t, cmdSetKeyWeight, nil,
		"-account", main.String(), "-key", browser.String(), "-weight", "1")

	view := run(t, cmdView, deploy)
	if !strings.Contains(string(view), "keys/set_key_weight (manage)") {
		t.Fatalf("unexpected view output: %s", view)
	}

	// Nobody signed the deploy yet.
	var out bytes.Buffer
	if err := cmdSubmit(bytes.NewReader(deploy), &out, withApp()); err == nil {
		t.Fatal("unsigned deploy must be rejected")
	}
	var receipt app.Receipt
	if err := json.Unmarshal(out.Bytes(), &receipt); err != nil {
		t.Fatalf("cannot decode receipt: %s", err)
	}
	if receipt.Code != errors.ErrUnauthorized.Code() {
		t.Fatalf("want unauthorized code, got %d: %s", receipt.Code, receipt.Log)
	}

	signed := run(t, cmdWithSigner, deploy, "-key", mainKey)
	// Adding the same signer twice is a no-op.
	signed = run(t, cmdWithSigner, signed, "-address", main.String())
	d, err := readDeploy(bytes.NewReader(signed))
	if err != nil {
		t.Fatalf("cannot read signed deploy: %s", err)
	}
	if len(d.Signers) != 1 || !d.Signers[0].Equals(main) {
		t.Fatalf("unexpected signers: %v", d.Signers)
	}
	run(t, cmdSubmit, signed, withApp()...)

	thresholds := run(t, cmdSetThresholds, nil,
		"-account", main.String(), "-deploy", "1", "-manage", "2")
	thresholds = run(t, cmdWithSigner, thresholds, "-key", browserKey)
	run(t, cmdSubmit, thresholds, withApp()...)

	var acc keys.Account
	shown := run(t, cmdShow, nil, withApp("-account", main.String())...)
	if err := json.Unmarshal(shown, &acc); err != nil {
		t.Fatalf("cannot decode account: %s", err)
	}
	if len(acc.Keys) != 2 {
		t.Fatalf("want two keys, got %d", len(acc.Keys))
	}
	if acc.DeploymentThreshold != 1 || acc.KeyManagementThreshold != 2 {
		t.Fatalf("unexpected thresholds: %d/%d", acc.DeploymentThreshold, acc.KeyManagementThreshold)
	}

	authorize := func(class string, signers ...string) string {
		args := []string{"-account", main.String(), "-class", class}
		for _, s := range signers {
			args = append(args, "-signer", s)
		}
		return strings.TrimSpace(string(run(t, cmdAuthorize, nil, withApp(args...)...)))
	}
	if got := authorize("deploy", browser.String()); got != "true" {
		t.Errorf("browser alone must deploy, got %s", got)
	}
	if got := authorize("manage", browser.String()); got != "false" {
		t.Errorf("browser alone must not manage, got %s", got)
	}
	if got := authorize("manage", browser.String(), main.String()); got != "true" {
		t.Errorf("both keys must manage, got %s", got)
	}
}

func TestInstallTwice(t *testing.T) {
	_, main := mustKeyFile(t, 0)
	home := mustTempDir(t)
	defer os.RemoveAll(home)

	args := []string{"-account", main.String(), "-backend", app.BoltBackend, "-home", home, "-log-level", "none"}
	run(t, cmdInstall, nil, args...)
	var out bytes.Buffer
	if err := cmdInstall(nil, &out, args); err == nil {
		t.Fatal("installing an account twice must fail")
	}
}

func TestSubmitRequiresInput(t *testing.T) {
	var out bytes.Buffer
	err := cmdSubmit(bytes.NewReader(nil), &out, []string{"-backend", app.MemoryBackend})
	if err == nil {
		t.Fatal("want error for empty input")
	}
}
