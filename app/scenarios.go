package app

import (
	"context"
	"fmt"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/crypto"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/x/keys"
)

// Scenario is a reference account setup played as a series of deploys
// against a freshly installed account.
type Scenario struct {
	Name        string
	Description string
	// Keys names the identities used. The first one is the account and
	// its installation key.
	Keys []string
	// Steps returns the deploys to play, k holds the addresses of Keys in
	// the same order.
	Steps func(k []keymgr.Address) []Step
}

// Step is a single deploy of a scenario with its expected outcome.
type Step struct {
	Description string
	Signers     []keymgr.Address
	Action      keys.Action
	// Want is the expected error, nil if the deploy must succeed.
	Want *errors.Error
}

// ScenarioResult is what a played scenario leaves behind.
type ScenarioResult struct {
	Keys     map[string]*crypto.PrivateKey
	Receipts []*Receipt
	Account  *keys.Account
}

// RunScenario derives the scenario keys from seed, installs the account and
// submits every step. An error is returned as soon as a step has an outcome
// other than the expected one.
func RunScenario(ctx context.Context, a *App, s Scenario, seed []byte) (*ScenarioResult, error) {
	res := &ScenarioResult{Keys: make(map[string]*crypto.PrivateKey, len(s.Keys))}
	addrs := make([]keymgr.Address, len(s.Keys))
	for i, name := range s.Keys {
		key, err := crypto.DeriveChild(seed, uint32(i+1))
		if err != nil {
			return nil, errors.Wrapf(err, "derive %s key", name)
		}
		res.Keys[name] = key
		addrs[i] = key.Address()
	}
	if len(addrs) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "scenario keys")
	}
	account := addrs[0]

	ctx = a.Context(ctx)
	logger := keymgr.GetLogger(ctx).With("scenario", s.Name)
	if _, err := a.Ledger().Install(ctx, account, account); err != nil {
		return nil, errors.Wrap(err, "install")
	}

	for i, step := range s.Steps(addrs) {
		d := &keys.Deploy{
			Account: account,
			Signers: step.Signers,
			Action:  step.Action,
		}
		r, err := a.Submit(ctx, d)
		res.Receipts = append(res.Receipts, r)
		if !step.Want.Is(err) {
			return res, errors.Wrapf(errors.ErrState,
				"step %d (%s): unexpected outcome: %v", i+1, step.Description, err)
		}
		logger.Debug("step done", "step", i+1, "code", r.Code)
	}

	acc, err := a.Ledger().Account(ctx, account)
	if err != nil {
		return res, err
	}
	res.Account = acc
	return res, nil
}

// FindScenario returns the scenario with given name or 1-based number.
func FindScenario(name string) (Scenario, error) {
	for i, s := range Scenarios {
		if s.Name == name || fmt.Sprint(i+1) == name {
			return s, nil
		}
	}
	return Scenario{}, errors.Wrapf(errors.ErrNotFound, "scenario %q", name)
}

func addrs(k ...keymgr.Address) []keymgr.Address {
	return k
}

// Scenarios are the reference setups, from a single key with full control
// to a lost main key replaced by safe keys.
var Scenarios = []Scenario{
	{
		Name:        "single-key",
		Description: "One key signs for the account with weight 1, both thresholds are 1.",
		Keys:        []string{"main"},
		Steps: func(k []keymgr.Address) []Step {
			main := k[0]
			return []Step{
				{
					Description: "set weight of main to 1",
					Signers:     addrs(main),
					Action:      &keys.SetKeyWeightMsg{Key: main, Weight: 1},
				},
				{
					Description: "set key management threshold to 1",
					Signers:     addrs(main),
					Action:      &keys.SetKeyManagementThresholdMsg{Threshold: 1},
				},
				{
					Description: "set deployment threshold to 1",
					Signers:     addrs(main),
					Action:      &keys.SetDeploymentThresholdMsg{Threshold: 1},
				},
				{
					Description: "main deploys",
					Signers:     addrs(main),
					Action:      &keys.ExecuteDeployMsg{Payload: []byte("transfer")},
				},
			}
		},
	},
	{
		Name:        "deploy-only-key",
		Description: "Main key (weight 2) deploys and manages, the second key (weight 1) can only deploy.",
		Keys:        []string{"main", "first"},
		Steps: func(k []keymgr.Address) []Step {
			main, first := k[0], k[1]
			return []Step{
				{
					Description: "set weight of main to 2",
					Signers:     addrs(main),
					Action:      &keys.SetKeyWeightMsg{Key: main, Weight: 2},
				},
				{
					Description: "set weight of first to 1",
					Signers:     addrs(main),
					Action:      &keys.SetKeyWeightMsg{Key: first, Weight: 1},
				},
				{
					Description: "set key management threshold to 2",
					Signers:     addrs(main),
					Action:      &keys.SetKeyManagementThresholdMsg{Threshold: 2},
				},
				{
					Description: "set deployment threshold to 1",
					Signers:     addrs(main),
					Action:      &keys.SetDeploymentThresholdMsg{Threshold: 1},
				},
				{
					Description: "first deploys",
					Signers:     addrs(first),
					Action:      &keys.ExecuteDeployMsg{},
				},
				{
					Description: "first cannot manage keys",
					Signers:     addrs(first),
					Action:      &keys.SetKeyWeightMsg{Key: first, Weight: 2},
					Want:        errors.ErrUnauthorized,
				},
			}
		},
	},
	{
		Name:        "two-of-two-management",
		Description: "Two keys of weight 1, either one deploys, both are needed to manage the account.",
		Keys:        []string{"main", "first"},
		Steps: func(k []keymgr.Address) []Step {
			main, first := k[0], k[1]
			return []Step{
				{
					Description: "set all: main 1, first 1, thresholds 1 and 2",
					Signers:     addrs(main),
					Action: &keys.SetAllMsg{
						DeploymentThreshold:    1,
						KeyManagementThreshold: 2,
						Keys:                   []*keys.AssociatedKey{{Address: main, Weight: 1}, {Address: first, Weight: 1}},
					},
				},
				{
					Description: "first deploys",
					Signers:     addrs(first),
					Action:      &keys.ExecuteDeployMsg{},
				},
				{
					Description: "main alone cannot manage",
					Signers:     addrs(main),
					Action:      &keys.SetThresholdsMsg{DeploymentThreshold: 2, KeyManagementThreshold: 2},
					Want:        errors.ErrUnauthorized,
				},
				{
					Description: "main and first manage together",
					Signers:     addrs(main, first),
					Action:      &keys.SetThresholdsMsg{DeploymentThreshold: 1, KeyManagementThreshold: 2},
				},
			}
		},
	},
	{
		Name:        "weighted-recovery",
		Description: "Browser and mobile keys (weight 1 each) deploy together, the safe key (weight 3) manages the account.",
		Keys:        []string{"safe", "browser", "mobile"},
		Steps: func(k []keymgr.Address) []Step {
			safe, browser, mobile := k[0], k[1], k[2]
			return []Step{
				{
					Description: "set all: safe 3, browser 1, mobile 1, thresholds 2 and 3",
					Signers:     addrs(safe),
					Action: &keys.SetAllMsg{
						DeploymentThreshold:    2,
						KeyManagementThreshold: 3,
						Keys: []*keys.AssociatedKey{
							{Address: safe, Weight: 3},
							{Address: browser, Weight: 1},
							{Address: mobile, Weight: 1},
						},
					},
				},
				{
					Description: "browser and mobile deploy",
					Signers:     addrs(browser, mobile),
					Action:      &keys.ExecuteDeployMsg{},
				},
				{
					Description: "browser alone cannot deploy",
					Signers:     addrs(browser),
					Action:      &keys.ExecuteDeployMsg{},
					Want:        errors.ErrUnauthorized,
				},
				{
					Description: "stolen browser and mobile cannot manage",
					Signers:     addrs(browser, mobile),
					Action:      &keys.SetKeyWeightMsg{Key: browser, Weight: 3},
					Want:        errors.ErrUnauthorized,
				},
				{
					Description: "safe cannot revoke itself",
					Signers:     addrs(safe),
					Action:      &keys.SetKeyWeightMsg{Key: safe, Weight: 0},
					Want:        keys.ErrInvariant,
				},
			}
		},
	},
	{
		Name:        "multiple-safe-keys",
		Description: "Three safe keys of weight 3, any of them manages the account alone.",
		Keys:        []string{"safe", "safe1", "safe2", "browser", "mobile"},
		Steps: func(k []keymgr.Address) []Step {
			safe, safe1, safe2, browser, mobile := k[0], k[1], k[2], k[3], k[4]
			return []Step{
				{
					Description: "set all: safe keys 3, browser 1, mobile 1, thresholds 2 and 3",
					Signers:     addrs(safe),
					Action: &keys.SetAllMsg{
						DeploymentThreshold:    2,
						KeyManagementThreshold: 3,
						Keys: []*keys.AssociatedKey{
							{Address: safe, Weight: 3},
							{Address: safe1, Weight: 3},
							{Address: safe2, Weight: 3},
							{Address: browser, Weight: 1},
							{Address: mobile, Weight: 1},
						},
					},
				},
				{
					Description: "safe1 revokes the stolen browser key",
					Signers:     addrs(safe1),
					Action:      &keys.SetKeyWeightMsg{Key: browser, Weight: 0},
				},
				{
					Description: "browser and mobile cannot deploy anymore",
					Signers:     addrs(browser, mobile),
					Action:      &keys.ExecuteDeployMsg{},
					Want:        errors.ErrUnauthorized,
				},
			}
		},
	},
	{
		Name:        "lost-main-key",
		Description: "The main key is lost and set to weight 0 by a safe key, the account keeps working.",
		Keys:        []string{"main", "safe1", "safe2", "safe3", "browser", "mobile"},
		Steps: func(k []keymgr.Address) []Step {
			main, safe1, safe2, safe3, browser, mobile := k[0], k[1], k[2], k[3], k[4], k[5]
			return []Step{
				{
					Description: "set all: main and safe keys 3, browser 1, mobile 1, thresholds 2 and 3",
					Signers:     addrs(main),
					Action: &keys.SetAllMsg{
						DeploymentThreshold:    2,
						KeyManagementThreshold: 3,
						Keys: []*keys.AssociatedKey{
							{Address: main, Weight: 3},
							{Address: safe1, Weight: 3},
							{Address: safe2, Weight: 3},
							{Address: safe3, Weight: 3},
							{Address: browser, Weight: 1},
							{Address: mobile, Weight: 1},
						},
					},
				},
				{
					Description: "safe1 sets the lost main key to 0",
					Signers:     addrs(safe1),
					Action:      &keys.SetKeyWeightMsg{Key: main, Weight: 0},
				},
				{
					Description: "main cannot deploy anymore",
					Signers:     addrs(main),
					Action:      &keys.ExecuteDeployMsg{},
					Want:        errors.ErrUnauthorized,
				},
				{
					Description: "browser and mobile deploy",
					Signers:     addrs(browser, mobile),
					Action:      &keys.ExecuteDeployMsg{},
				},
			}
		},
	},
}
