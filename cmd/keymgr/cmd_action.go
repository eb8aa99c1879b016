package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/keymgr/x/keys"
)

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a deploy executing an ordinary action on behalf of the account. The
payload is opaque. It is accepted if the signers reach the deployment
threshold.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Account the deploy runs for.")
		payloadFl = fl.String("payload", "", "Hex encoded payload.")
	)
	fl.Parse(args)

	payload, err := hex.DecodeString(*payloadFl)
	if err != nil {
		return fmt.Errorf("cannot decode payload: %s", err)
	}
	return newDeploy(output, *accountFl, &keys.ExecuteDeployMsg{Payload: payload})
}

func cmdSetKeyWeight(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a deploy adding an associated key or changing its weight. Weight 0
revokes the key.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Account to change.")
		keyFl     = flAddress(fl, "key", "", "Address of the associated key.")
		weightFl  = flWeight(fl, "weight", 1, "New weight of the key, between 0 and 255.")
	)
	fl.Parse(args)

	return newDeploy(output, *accountFl, &keys.SetKeyWeightMsg{
		Key:    *keyFl,
		Weight: *weightFl,
	})
}

func cmdSetThresholds(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a deploy changing both thresholds at once.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Account to change.")
		deployFl  = flWeight(fl, "deploy", 1, "Deployment threshold.")
		manageFl  = flWeight(fl, "manage", 1, "Key management threshold.")
	)
	fl.Parse(args)

	return newDeploy(output, *accountFl, &keys.SetThresholdsMsg{
		DeploymentThreshold:    *deployFl,
		KeyManagementThreshold: *manageFl,
	})
}

func cmdSetDeploymentThreshold(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a deploy changing the deployment threshold.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl   = flAddress(fl, "account", "", "Account to change.")
		thresholdFl = flWeight(fl, "threshold", 1, "Deployment threshold.")
	)
	fl.Parse(args)

	return newDeploy(output, *accountFl, &keys.SetDeploymentThresholdMsg{Threshold: *thresholdFl})
}

func cmdSetKeyManagementThreshold(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a deploy changing the key management threshold.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl   = flAddress(fl, "account", "", "Account to change.")
		thresholdFl = flWeight(fl, "threshold", 1, "Key management threshold.")
	)
	fl.Parse(args)

	return newDeploy(output, *accountFl, &keys.SetKeyManagementThresholdMsg{Threshold: *thresholdFl})
}

func cmdSetAll(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a deploy replacing the whole key set and both thresholds in a single
step. Use -key <address>=<weight> once for every key.
`)
		fl.PrintDefaults()
	}
	var keysFl keyWeightList
	fl.Var(&keysFl, "key", "Associated key in the <address>=<weight> format. Can be repeated.")
	var (
		accountFl = flAddress(fl, "account", "", "Account to change.")
		deployFl  = flWeight(fl, "deploy", 1, "Deployment threshold.")
		manageFl  = flWeight(fl, "manage", 1, "Key management threshold.")
	)
	fl.Parse(args)

	return newDeploy(output, *accountFl, &keys.SetAllMsg{
		DeploymentThreshold:    *deployFl,
		KeyManagementThreshold: *manageFl,
		Keys:                   keysFl,
	})
}
