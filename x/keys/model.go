package keys

import (
	"bytes"
	"sort"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/orm"
)

const (
	// BucketName is where we store the accounts
	BucketName = "accounts"

	// Maximum value a weight or a threshold can be set to. This is uint8
	// capacity but weight is represented by uint32 and we must manually
	// force the limit. Thresholds share the key weight range, so a threshold
	// stays at most 255 even when the total weight of the keys is higher.
	maxWeightValue = 255
)

// Weight represents the strength of a signature. Thresholds are expressed
// as weights as well.
type Weight uint32

// Validate returns an error if the weight exceeds the allowed range. Zero is
// a valid key weight.
func (w Weight) Validate() error {
	if w > maxWeightValue {
		return errors.Wrapf(ErrInvariant,
			"weight is %d and must not be greater than %d", w, maxWeightValue)
	}
	return nil
}

// validateThreshold is stricter than Weight.Validate, a zero threshold
// would make an action class authorizable by anyone.
func validateThreshold(w Weight) error {
	if w < 1 {
		return errors.Wrap(ErrInvariant, "threshold must be greater than 0")
	}
	return w.Validate()
}

// ActionClass tells which threshold gates an action.
type ActionClass int

const (
	// DeployAction is ordinary execution, gated by the deployment threshold.
	DeployAction ActionClass = iota
	// ManageAction is any change of keys or thresholds, gated by the key
	// management threshold.
	ManageAction
)

func (c ActionClass) String() string {
	switch c {
	case DeployAction:
		return "deploy"
	case ManageAction:
		return "manage"
	default:
		return "unknown"
	}
}

// ParseActionClass returns the class named by s ("deploy" or "manage").
func ParseActionClass(s string) (ActionClass, error) {
	switch s {
	case "deploy":
		return DeployAction, nil
	case "manage":
		return ManageAction, nil
	default:
		return 0, errors.Wrapf(errors.ErrInvalidInput, "unknown action class %q", s)
	}
}

// AssociatedKey is an identity allowed to contribute its weight toward the
// thresholds of an account.
type AssociatedKey struct {
	Address keymgr.Address `json:"address"`
	Weight  Weight         `json:"weight"`
}

// Account is the authorization state of a single account.
type Account struct {
	Address keymgr.Address `json:"address"`
	// Keys are ordered by address and contain every address at most once.
	Keys                   []*AssociatedKey `json:"keys"`
	DeploymentThreshold    Weight           `json:"deployment_threshold"`
	KeyManagementThreshold Weight           `json:"key_management_threshold"`
}

var _ orm.Model = (*Account)(nil)

// Validate checks all account invariants. The key count is only checked
// against the hard limit, the configured limit is enforced by the Ledger.
func (a *Account) Validate() error {
	return a.validate(MaxKeysLimit)
}

// validate checks all account invariants. Keys must already be sorted.
func (a *Account) validate(maxKeys uint32) error {
	if err := a.Address.Validate(); err != nil {
		return errors.Wrap(err, "account address")
	}
	if err := validateKeys(a.Keys, maxKeys); err != nil {
		return err
	}
	for i := 1; i < len(a.Keys); i++ {
		if bytes.Compare(a.Keys[i-1].Address, a.Keys[i].Address) >= 0 {
			return errors.Wrap(errors.ErrModel, "keys not sorted")
		}
	}
	return validateThresholds(a.TotalWeight(), a.DeploymentThreshold, a.KeyManagementThreshold)
}

// validateKeys checks a key set on its own: size, identities, weights and
// duplicates.
func validateKeys(keys []*AssociatedKey, maxKeys uint32) error {
	if n := len(keys); uint32(n) > maxKeys {
		return errors.Wrapf(ErrInvariant, "%d keys, at most %d allowed", n, maxKeys)
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == nil {
			return errors.Wrap(errors.ErrEmpty, "key")
		}
		if err := k.Address.Validate(); err != nil {
			return errors.Wrapf(err, "key %s", k.Address)
		}
		if err := k.Weight.Validate(); err != nil {
			return errors.Wrapf(err, "key %s", k.Address)
		}
		if _, ok := seen[string(k.Address)]; ok {
			return errors.Wrapf(ErrInvariant, "duplicated key %s", k.Address)
		}
		seen[string(k.Address)] = struct{}{}
	}
	return nil
}

// checkKeyList checks only the shape of a proposed key set: every key is
// present, has a valid address and a weight in range, and the list is not
// longer than MaxKeysLimit. Rules that depend on the whole set are left to
// Account.validate.
func checkKeyList(keys []*AssociatedKey) error {
	if n := len(keys); n > MaxKeysLimit {
		return errors.Wrapf(ErrInvariant, "%d keys, at most %d allowed", n, MaxKeysLimit)
	}
	for _, k := range keys {
		if k == nil {
			return errors.Wrap(errors.ErrEmpty, "key")
		}
		if err := k.Address.Validate(); err != nil {
			return errors.Wrapf(err, "key %s", k.Address)
		}
		if err := k.Weight.Validate(); err != nil {
			return errors.Wrapf(err, "key %s", k.Address)
		}
	}
	return nil
}

// validateThresholds returns an error if any threshold is invalid or
// unreachable with the total weight.
func validateThresholds(total uint64, deploy, manage Weight) error {
	if err := validateThreshold(deploy); err != nil {
		return errors.Wrap(err, "deployment threshold")
	}
	if err := validateThreshold(manage); err != nil {
		return errors.Wrap(err, "key management threshold")
	}
	if uint64(manage) > total {
		return errors.Wrapf(ErrInvariant,
			"key management threshold %d greater than total weight %d", manage, total)
	}
	if uint64(deploy) > total {
		return errors.Wrapf(ErrInvariant,
			"deployment threshold %d greater than total weight %d", deploy, total)
	}
	return nil
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() orm.Model {
	return a.clone()
}

func (a *Account) clone() *Account {
	keys := make([]*AssociatedKey, 0, len(a.Keys))
	for _, k := range a.Keys {
		keys = append(keys, &AssociatedKey{
			Address: append(keymgr.Address{}, k.Address...),
			Weight:  k.Weight,
		})
	}
	return &Account{
		Address:                append(keymgr.Address{}, a.Address...),
		Keys:                   keys,
		DeploymentThreshold:    a.DeploymentThreshold,
		KeyManagementThreshold: a.KeyManagementThreshold,
	}
}

// TotalWeight is the sum of all key weights.
func (a *Account) TotalWeight() uint64 {
	var total uint64
	for _, k := range a.Keys {
		total += uint64(k.Weight)
	}
	return total
}

// KeyWeight returns the weight of given identity. Unknown identities weigh
// 0.
func (a *Account) KeyWeight(addr keymgr.Address) Weight {
	if i, ok := a.keyIndex(addr); ok {
		return a.Keys[i].Weight
	}
	return 0
}

// keyIndex returns the position of the key in the sorted key list, or the
// position it should be inserted at.
func (a *Account) keyIndex(addr keymgr.Address) (int, bool) {
	i := sort.Search(len(a.Keys), func(i int) bool {
		return bytes.Compare(a.Keys[i].Address, addr) >= 0
	})
	return i, i < len(a.Keys) && a.Keys[i].Address.Equals(addr)
}

// setKeyWeight inserts a new key or overwrites the weight of an existing
// one, keeping the order.
func (a *Account) setKeyWeight(addr keymgr.Address, w Weight) {
	i, ok := a.keyIndex(addr)
	if ok {
		a.Keys[i].Weight = w
		return
	}
	key := &AssociatedKey{Address: append(keymgr.Address{}, addr...), Weight: w}
	a.Keys = append(a.Keys, nil)
	copy(a.Keys[i+1:], a.Keys[i:])
	a.Keys[i] = key
}

// SignerWeight returns the summed weight of the distinct signers. Each
// identity counts once no matter how many times it is listed.
func (a *Account) SignerWeight(signers []keymgr.Address) uint64 {
	seen := make(map[string]struct{}, len(signers))
	var total uint64
	for _, s := range signers {
		if _, ok := seen[string(s)]; ok {
			continue
		}
		seen[string(s)] = struct{}{}
		total += uint64(a.KeyWeight(s))
	}
	return total
}

// Threshold returns the threshold gating given action class.
func (a *Account) Threshold(class ActionClass) Weight {
	if class == ManageAction {
		return a.KeyManagementThreshold
	}
	return a.DeploymentThreshold
}

// Authorized returns true if signers carry enough weight for the action
// class.
func (a *Account) Authorized(class ActionClass, signers []keymgr.Address) bool {
	return a.SignerWeight(signers) >= uint64(a.Threshold(class))
}

// sortKeys returns a sorted copy of the keys.
func sortKeys(keys []*AssociatedKey) []*AssociatedKey {
	res := make([]*AssociatedKey, 0, len(keys))
	for _, k := range keys {
		if k == nil {
			res = append(res, nil)
			continue
		}
		res = append(res, &AssociatedKey{
			Address: append(keymgr.Address{}, k.Address...),
			Weight:  k.Weight,
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i] == nil || res[j] == nil {
			return res[j] != nil
		}
		return bytes.Compare(res[i].Address, res[j].Address) < 0
	})
	return res
}

// AccountBucket keeps accounts indexed by their address.
type AccountBucket struct {
	orm.ModelBucket
}

// NewAccountBucket returns a bucket storing accounts with the amino binary
// encoding.
func NewAccountBucket() AccountBucket {
	return AccountBucket{
		ModelBucket: orm.NewModelBucket(BucketName, orm.NewAminoCodec(cdc)),
	}
}

// GetAccount returns the account stored under given address. ErrNotFound is
// returned if there is none.
func (b AccountBucket) GetAccount(db keymgr.ReadOnlyKVStore, addr keymgr.Address) (*Account, error) {
	var acc Account
	if err := b.One(db, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
