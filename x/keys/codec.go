package keys

import (
	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc knows all action kinds. An action is encoded together with its
// registered name, so it is decoded into the right type exactly once.
var cdc = amino.NewCodec()

func init() {
	RegisterAmino(cdc)
	cdc.Seal()
}

// RegisterAmino registers the Action interface and all its implementations
// with given codec.
func RegisterAmino(c *amino.Codec) {
	c.RegisterInterface((*Action)(nil), nil)
	c.RegisterConcrete(&ExecuteDeployMsg{}, pathExecuteDeployMsg, nil)
	c.RegisterConcrete(&SetKeyWeightMsg{}, pathSetKeyWeightMsg, nil)
	c.RegisterConcrete(&SetDeploymentThresholdMsg{}, pathSetDeploymentThresholdMsg, nil)
	c.RegisterConcrete(&SetKeyManagementThresholdMsg{}, pathSetKeyManagementThresholdMsg, nil)
	c.RegisterConcrete(&SetThresholdsMsg{}, pathSetThresholdsMsg, nil)
	c.RegisterConcrete(&SetAllMsg{}, pathSetAllMsg, nil)
}

// Deploy is what the submission collaborator hands in: the account the
// action runs for, the identities that signed it and the action itself.
// Signatures are checked before a Deploy is built, the signer list is taken
// as given.
type Deploy struct {
	Account keymgr.Address   `json:"account"`
	Signers []keymgr.Address `json:"signers"`
	Action  Action           `json:"action"`
}

var _ keymgr.Tx = (*Deploy)(nil)

// GetMsg returns the action carried by the deploy.
func (d *Deploy) GetMsg() (keymgr.Msg, error) {
	if d.Action == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "action")
	}
	return d.Action, nil
}

// GetAccount returns the account the deploy runs for.
func (d *Deploy) GetAccount() keymgr.Address {
	return d.Account
}

// GetSigners returns the identities that signed the deploy.
func (d *Deploy) GetSigners() []keymgr.Address {
	return d.Signers
}

// MarshalDeploy returns the JSON representation of a deploy.
func MarshalDeploy(d *Deploy) ([]byte, error) {
	raw, err := cdc.MarshalJSONIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// UnmarshalDeploy decodes a deploy from its JSON representation. An unknown
// action name is rejected.
func UnmarshalDeploy(raw []byte) (*Deploy, error) {
	var d Deploy
	if err := cdc.UnmarshalJSON(raw, &d); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return &d, nil
}

// MarshalAccountJSON returns the JSON representation of an account.
func MarshalAccountJSON(a *Account) ([]byte, error) {
	raw, err := cdc.MarshalJSONIndent(a, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}
