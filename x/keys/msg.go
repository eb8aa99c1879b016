package keys

import (
	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

const (
	pathExecuteDeployMsg             = "keys/execute_deploy"
	pathSetKeyWeightMsg              = "keys/set_key_weight"
	pathSetDeploymentThresholdMsg    = "keys/set_deployment_threshold"
	pathSetKeyManagementThresholdMsg = "keys/set_key_management_threshold"
	pathSetThresholdsMsg             = "keys/set_thresholds"
	pathSetAllMsg                    = "keys/set_all"

	// maxPayloadSize bounds the opaque execution payload.
	maxPayloadSize = 64 * 1024
)

// Action is one of the closed set of messages a deploy can carry. Use a
// type switch to dispatch, the routing path is only used for registration.
type Action interface {
	keymgr.Msg
	// ActionClass returns the class whose threshold gates this action.
	ActionClass() ActionClass
	isAction()
}

var (
	_ Action = (*ExecuteDeployMsg)(nil)
	_ Action = (*SetKeyWeightMsg)(nil)
	_ Action = (*SetDeploymentThresholdMsg)(nil)
	_ Action = (*SetKeyManagementThresholdMsg)(nil)
	_ Action = (*SetThresholdsMsg)(nil)
	_ Action = (*SetAllMsg)(nil)
)

// ExecuteDeployMsg is an ordinary execution on behalf of the account. The
// payload is opaque.
type ExecuteDeployMsg struct {
	Payload []byte `json:"payload"`
}

func (ExecuteDeployMsg) Path() string             { return pathExecuteDeployMsg }
func (ExecuteDeployMsg) ActionClass() ActionClass { return DeployAction }
func (ExecuteDeployMsg) isAction()                {}

// Validate ensures the payload is not oversized.
func (m *ExecuteDeployMsg) Validate() error {
	if len(m.Payload) > maxPayloadSize {
		return errors.Wrapf(errors.ErrMsg, "payload of %d bytes exceeds %d", len(m.Payload), maxPayloadSize)
	}
	return nil
}

// SetKeyWeightMsg adds a key or changes the weight of an existing one.
// Weight 0 revokes the key but keeps it in the key set.
type SetKeyWeightMsg struct {
	Key    keymgr.Address `json:"key"`
	Weight Weight         `json:"weight"`
}

func (SetKeyWeightMsg) Path() string             { return pathSetKeyWeightMsg }
func (SetKeyWeightMsg) ActionClass() ActionClass { return ManageAction }
func (SetKeyWeightMsg) isAction()                {}

// Validate checks the key and the weight range.
func (m *SetKeyWeightMsg) Validate() error {
	if err := m.Key.Validate(); err != nil {
		return errors.Wrap(err, "key")
	}
	return m.Weight.Validate()
}

// SetDeploymentThresholdMsg changes only the deployment threshold.
type SetDeploymentThresholdMsg struct {
	Threshold Weight `json:"threshold"`
}

func (SetDeploymentThresholdMsg) Path() string             { return pathSetDeploymentThresholdMsg }
func (SetDeploymentThresholdMsg) ActionClass() ActionClass { return ManageAction }
func (SetDeploymentThresholdMsg) isAction()                {}

// Validate checks the threshold range. Whether the threshold fits the
// account is decided by the Ledger once the signers are authorized.
func (m *SetDeploymentThresholdMsg) Validate() error {
	return errors.Wrap(m.Threshold.Validate(), "deployment threshold")
}

// SetKeyManagementThresholdMsg changes only the key management threshold.
type SetKeyManagementThresholdMsg struct {
	Threshold Weight `json:"threshold"`
}

func (SetKeyManagementThresholdMsg) Path() string             { return pathSetKeyManagementThresholdMsg }
func (SetKeyManagementThresholdMsg) ActionClass() ActionClass { return ManageAction }
func (SetKeyManagementThresholdMsg) isAction()                {}

// Validate checks the threshold range.
func (m *SetKeyManagementThresholdMsg) Validate() error {
	return errors.Wrap(m.Threshold.Validate(), "key management threshold")
}

// SetThresholdsMsg changes both thresholds at once.
type SetThresholdsMsg struct {
	DeploymentThreshold    Weight `json:"deployment_threshold"`
	KeyManagementThreshold Weight `json:"key_management_threshold"`
}

func (SetThresholdsMsg) Path() string             { return pathSetThresholdsMsg }
func (SetThresholdsMsg) ActionClass() ActionClass { return ManageAction }
func (SetThresholdsMsg) isAction()                {}

// Validate checks both threshold ranges.
func (m *SetThresholdsMsg) Validate() error {
	if err := m.DeploymentThreshold.Validate(); err != nil {
		return errors.Wrap(err, "deployment threshold")
	}
	return errors.Wrap(m.KeyManagementThreshold.Validate(), "key management threshold")
}

// SetAllMsg replaces the whole key set and both thresholds in a single
// step.
type SetAllMsg struct {
	DeploymentThreshold    Weight           `json:"deployment_threshold"`
	KeyManagementThreshold Weight           `json:"key_management_threshold"`
	Keys                   []*AssociatedKey `json:"keys"`
}

func (SetAllMsg) Path() string             { return pathSetAllMsg }
func (SetAllMsg) ActionClass() ActionClass { return ManageAction }
func (SetAllMsg) isAction()                {}

// Validate rejects malformed input only. Duplicated keys, zero or
// unreachable thresholds and the configured key limit are checked by the
// Ledger after the signers are authorized.
func (m *SetAllMsg) Validate() error {
	if err := checkKeyList(m.Keys); err != nil {
		return err
	}
	if err := m.DeploymentThreshold.Validate(); err != nil {
		return errors.Wrap(err, "deployment threshold")
	}
	return errors.Wrap(m.KeyManagementThreshold.Validate(), "key management threshold")
}
