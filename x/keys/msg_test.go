package keys

import (
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/keymgrtest"
)

func TestMsgValidate(t *testing.T) {
	a, b := keymgrtest.SequenceAddr(1), keymgrtest.SequenceAddr(2)

	cases := map[string]struct {
		msg     keymgr.Msg
		wantErr *errors.Error
	}{
		"execute with payload": {
			msg: &ExecuteDeployMsg{Payload: []byte("transfer 100")},
		},
		"execute without payload": {
			msg: &ExecuteDeployMsg{},
		},
		"execute with oversized payload": {
			msg:     &ExecuteDeployMsg{Payload: make([]byte, maxPayloadSize+1)},
			wantErr: errors.ErrMsg,
		},
		"revoke a key": {
			msg: &SetKeyWeightMsg{Key: a, Weight: 0},
		},
		"key weight out of range": {
			msg:     &SetKeyWeightMsg{Key: a, Weight: 256},
			wantErr: ErrInvariant,
		},
		"key weight with a bad key": {
			msg:     &SetKeyWeightMsg{Key: keymgr.Address("x"), Weight: 1},
			wantErr: errors.ErrInvalidInput,
		},
		"deployment threshold": {
			msg: &SetDeploymentThresholdMsg{Threshold: 255},
		},
		// Zero thresholds are rejected by the ledger, after authorization.
		"zero deployment threshold": {
			msg: &SetDeploymentThresholdMsg{Threshold: 0},
		},
		"deployment threshold out of range": {
			msg:     &SetDeploymentThresholdMsg{Threshold: 256},
			wantErr: ErrInvariant,
		},
		"key management threshold out of range": {
			msg:     &SetKeyManagementThresholdMsg{Threshold: 1000},
			wantErr: ErrInvariant,
		},
		"both thresholds": {
			msg: &SetThresholdsMsg{DeploymentThreshold: 2, KeyManagementThreshold: 3},
		},
		"both thresholds, one zero": {
			msg: &SetThresholdsMsg{DeploymentThreshold: 2, KeyManagementThreshold: 0},
		},
		"both thresholds, one out of range": {
			msg:     &SetThresholdsMsg{DeploymentThreshold: 300, KeyManagementThreshold: 1},
			wantErr: ErrInvariant,
		},
		"set all": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 2,
				Keys:                   []*AssociatedKey{{a, 1}, {b, 1}},
			},
		},
		// Reachability depends on the whole key set and is left to the
		// ledger.
		"set all with unreachable threshold": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 3,
				Keys:                   []*AssociatedKey{{a, 1}, {b, 1}},
			},
		},
		"set all with duplicated key": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 1,
				Keys:                   []*AssociatedKey{{a, 1}, {a, 1}},
			},
		},
		"set all without keys": {
			msg: &SetAllMsg{DeploymentThreshold: 1, KeyManagementThreshold: 1},
		},
		"set all with a weight out of range": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 1,
				Keys:                   []*AssociatedKey{{a, 1}, {b, 256}},
			},
			wantErr: ErrInvariant,
		},
		"set all with a threshold out of range": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 256,
				Keys:                   []*AssociatedKey{{a, 1}},
			},
			wantErr: ErrInvariant,
		},
		"set all with too many keys": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 1,
				Keys:                   sequenceKeys(MaxKeysLimit + 1),
			},
			wantErr: ErrInvariant,
		},
		"set all with a nil key": {
			msg: &SetAllMsg{
				DeploymentThreshold:    1,
				KeyManagementThreshold: 1,
				Keys:                   []*AssociatedKey{{a, 1}, nil},
			},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestActionClasses(t *testing.T) {
	cases := map[string]struct {
		action Action
		class  ActionClass
	}{
		pathExecuteDeployMsg:             {&ExecuteDeployMsg{}, DeployAction},
		pathSetKeyWeightMsg:              {&SetKeyWeightMsg{}, ManageAction},
		pathSetDeploymentThresholdMsg:    {&SetDeploymentThresholdMsg{}, ManageAction},
		pathSetKeyManagementThresholdMsg: {&SetKeyManagementThresholdMsg{}, ManageAction},
		pathSetThresholdsMsg:             {&SetThresholdsMsg{}, ManageAction},
		pathSetAllMsg:                    {&SetAllMsg{}, ManageAction},
	}
	for path, tc := range cases {
		if got := tc.action.Path(); got != path {
			t.Errorf("want %q path, got %q", path, got)
		}
		if got := tc.action.ActionClass(); got != tc.class {
			t.Errorf("%s: want %s class, got %s", path, tc.class, got)
		}
	}
}
