package keys

import (
	"context"
	"sync"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

// Ledger holds the authorization state of all accounts and gates every
// action through weight-sum evaluation.
//
// Each account is an independent unit of atomicity. Mutations of a single
// account are serialized and run as one read-modify-validate-write step,
// reads of the same account may run in parallel with each other. Distinct
// accounts never wait on each other, except for the short time a store call
// takes.
type Ledger struct {
	bucket  AccountBucket
	maxKeys uint32

	// storeMu guards db, which is not safe for concurrent use.
	storeMu sync.Mutex
	db      keymgr.KVStore

	// mu guards records and the refs of every record. It is held only to
	// look up, create or drop a record.
	mu      sync.Mutex
	records map[string]*record
}

// record caches the committed state of a single account. Records of
// accounts that do not exist are dropped once no caller holds them, so
// lookups of unknown addresses do not grow the cache.
type record struct {
	refs int

	mu     sync.RWMutex
	loaded bool
	// state is nil if the account does not exist.
	state *Account
}

// NewLedger returns a ledger reading and writing accounts through db. The
// configuration stored in db is loaded once, the default one is used if
// none was saved.
//
// If db implements keymgr.Committer, every successful mutation is
// committed.
func NewLedger(db keymgr.KVStore) (*Ledger, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		bucket:  NewAccountBucket(),
		maxKeys: conf.MaxKeys,
		db:      db,
		records: make(map[string]*record),
	}, nil
}

// MaxKeys returns the highest number of keys an account may have.
func (l *Ledger) MaxKeys() uint32 {
	return l.maxKeys
}

// acquire returns the record of given account, creating it if needed.
// Every acquire must be paired with a release once the record lock is
// dropped.
func (l *Ledger) acquire(account keymgr.Address) *record {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[string(account)]
	if !ok {
		r = &record{}
		l.records[string(account)] = r
	}
	r.refs++
	return r
}

// release returns a record taken with acquire. The record lock must no
// longer be held.
func (l *Ledger) release(account keymgr.Address, r *record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r.refs--
	if r.refs > 0 {
		return
	}
	// Nobody holds r and a new holder must take l.mu first, so state can
	// be read without the record lock.
	if r.state == nil {
		delete(l.records, string(account))
	}
}

// cached returns the number of cached records.
func (l *Ledger) cached() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// load reads the account from the store unless it is already cached. The
// record write lock must be held.
func (l *Ledger) load(r *record, account keymgr.Address) error {
	if r.loaded {
		return nil
	}

	l.storeMu.Lock()
	acc, err := l.bucket.GetAccount(l.db, account)
	l.storeMu.Unlock()

	switch {
	case err == nil:
		r.state = acc
	case errors.ErrNotFound.Is(err):
		r.state = nil
	default:
		return errors.Wrap(err, "load account")
	}
	r.loaded = true
	return nil
}

// readLock returns the record of given account read locked and loaded.
// Call RUnlock and then release on the returned record when done.
func (l *Ledger) readLock(account keymgr.Address) (*record, error) {
	r := l.acquire(account)
	r.mu.RLock()
	if r.loaded {
		return r, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	err := l.load(r, account)
	r.mu.Unlock()
	if err != nil {
		l.release(account, r)
		return nil, err
	}

	// A loaded record never becomes unloaded, so it is safe to read
	// once the read lock is taken again.
	r.mu.RLock()
	return r, nil
}

// Authorize returns true if the distinct signers carry enough weight for the
// action class. Unknown signers weigh nothing. It has no side effects.
func (l *Ledger) Authorize(ctx context.Context, account keymgr.Address, class ActionClass, signers []keymgr.Address) (bool, error) {
	r, err := l.readLock(account)
	if err != nil {
		return false, err
	}
	defer l.release(account, r)
	defer r.mu.RUnlock()

	if r.state == nil {
		return false, errors.Wrapf(ErrUnknownAccount, "account %s", account)
	}
	return r.state.Authorized(class, signers), nil
}

// Execute checks that the signers may run an ordinary deploy for the
// account. ErrUnauthorized is returned if they carry too little weight.
func (l *Ledger) Execute(ctx context.Context, account keymgr.Address, signers []keymgr.Address) error {
	ok, err := l.Authorize(ctx, account, DeployAction, signers)
	if err != nil {
		return err
	}
	if !ok {
		keymgr.GetLogger(ctx).Debug("deploy denied", "account", account)
		return errors.Wrapf(errors.ErrUnauthorized, "deployment threshold of %s not reached", account)
	}
	return nil
}

// Account returns a copy of the current state of the account.
func (l *Ledger) Account(ctx context.Context, account keymgr.Address) (*Account, error) {
	r, err := l.readLock(account)
	if err != nil {
		return nil, err
	}
	defer l.release(account, r)
	defer r.mu.RUnlock()

	if r.state == nil {
		return nil, errors.Wrapf(ErrUnknownAccount, "account %s", account)
	}
	return r.state.clone(), nil
}

// Accounts returns all accounts in address order.
func (l *Ledger) Accounts(ctx context.Context) ([]*Account, error) {
	l.storeMu.Lock()
	keys, err := l.bucket.Keys(l.db)
	l.storeMu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}

	res := make([]*Account, 0, len(keys))
	for _, k := range keys {
		acc, err := l.Account(ctx, k)
		if err != nil {
			return nil, err
		}
		res = append(res, acc)
	}
	return res, nil
}

// Install brings an account under the authorization model. The account
// starts with the single given key at weight 1 and both thresholds at 1.
// ErrDuplicate is returned if the account already exists.
func (l *Ledger) Install(ctx context.Context, account, key keymgr.Address) (*Account, error) {
	if err := account.Validate(); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if err := key.Validate(); err != nil {
		return nil, errors.Wrap(err, "key")
	}

	r := l.acquire(account)
	defer l.release(account, r)
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := l.load(r, account); err != nil {
		return nil, err
	}
	if r.state != nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", account)
	}

	next := &Account{
		Address:                append(keymgr.Address{}, account...),
		Keys:                   []*AssociatedKey{{Address: append(keymgr.Address{}, key...), Weight: 1}},
		DeploymentThreshold:    1,
		KeyManagementThreshold: 1,
	}
	if err := l.commit(r, nil, next); err != nil {
		return nil, err
	}
	keymgr.GetLogger(ctx).Info("account installed", "account", account, "key", key)
	return next.clone(), nil
}

// SetKeyWeight adds a key to the account or changes the weight of an
// existing one. Weight 0 revokes the key, which stays in the key set.
func (l *Ledger) SetKeyWeight(ctx context.Context, account keymgr.Address, signers []keymgr.Address, key keymgr.Address, weight Weight) (*Account, error) {
	if err := key.Validate(); err != nil {
		return nil, errors.Wrap(err, "key")
	}
	return l.mutate(ctx, pathSetKeyWeightMsg, account, signers, func(acc *Account) error {
		acc.setKeyWeight(key, weight)
		return nil
	})
}

// SetThresholds changes both thresholds. Either both are updated or none.
func (l *Ledger) SetThresholds(ctx context.Context, account keymgr.Address, signers []keymgr.Address, deploy, manage Weight) (*Account, error) {
	return l.mutate(ctx, pathSetThresholdsMsg, account, signers, func(acc *Account) error {
		acc.DeploymentThreshold = deploy
		acc.KeyManagementThreshold = manage
		return nil
	})
}

// SetDeploymentThreshold changes the deployment threshold only.
func (l *Ledger) SetDeploymentThreshold(ctx context.Context, account keymgr.Address, signers []keymgr.Address, threshold Weight) (*Account, error) {
	return l.mutate(ctx, pathSetDeploymentThresholdMsg, account, signers, func(acc *Account) error {
		acc.DeploymentThreshold = threshold
		return nil
	})
}

// SetKeyManagementThreshold changes the key management threshold only.
func (l *Ledger) SetKeyManagementThreshold(ctx context.Context, account keymgr.Address, signers []keymgr.Address, threshold Weight) (*Account, error) {
	return l.mutate(ctx, pathSetKeyManagementThresholdMsg, account, signers, func(acc *Account) error {
		acc.KeyManagementThreshold = threshold
		return nil
	})
}

// SetAll replaces the key set and both thresholds in a single step.
// Authorization is checked against the current key set, never against the
// proposed one. Duplicated identities in keys are rejected.
func (l *Ledger) SetAll(ctx context.Context, account keymgr.Address, signers []keymgr.Address, deploy, manage Weight, keys []*AssociatedKey) (*Account, error) {
	return l.mutate(ctx, pathSetAllMsg, account, signers, func(acc *Account) error {
		// Runs after the authorization check in mutate.
		if err := validateKeys(keys, l.maxKeys); err != nil {
			return err
		}
		acc.Keys = sortKeys(keys)
		acc.DeploymentThreshold = deploy
		acc.KeyManagementThreshold = manage
		return nil
	})
}

// mutate runs change on a copy of the current account state, provided the
// signers reach the key management threshold of the current state. The
// result is validated and stored. Any failure leaves the account unchanged.
//
// Authorization always comes first. An unauthorized caller gets
// ErrUnauthorized whatever the proposed change is.
func (l *Ledger) mutate(
	ctx context.Context,
	action string,
	account keymgr.Address,
	signers []keymgr.Address,
	change func(*Account) error,
) (*Account, error) {
	logger := keymgr.GetLogger(ctx).With("account", account, "action", action)

	r := l.acquire(account)
	defer l.release(account, r)
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := l.load(r, account); err != nil {
		return nil, err
	}
	cur := r.state
	if cur == nil {
		return nil, errors.Wrapf(ErrUnknownAccount, "account %s", account)
	}

	if !cur.Authorized(ManageAction, signers) {
		logger.Debug("change denied",
			"weight", cur.SignerWeight(signers),
			"threshold", cur.KeyManagementThreshold)
		return nil, errors.Wrapf(errors.ErrUnauthorized,
			"key management threshold of %s not reached", account)
	}

	next := cur.clone()
	if err := change(next); err != nil {
		return nil, err
	}
	if err := next.validate(l.maxKeys); err != nil {
		logger.Debug("change rejected", "err", err)
		return nil, err
	}
	if err := l.commit(r, cur, next); err != nil {
		return nil, err
	}

	logger.Info("account updated",
		"keys", len(next.Keys),
		"deployment_threshold", next.DeploymentThreshold,
		"key_management_threshold", next.KeyManagementThreshold)
	return next.clone(), nil
}

// commit writes next to the store and only then replaces the cached state.
// The record write lock must be held. prev is restored in the store if the
// write cannot be committed.
func (l *Ledger) commit(r *record, prev, next *Account) error {
	l.storeMu.Lock()
	defer l.storeMu.Unlock()

	if err := l.bucket.Put(l.db, next.Address, next); err != nil {
		return errors.Wrap(err, "store account")
	}
	if c, ok := l.db.(keymgr.Committer); ok {
		if _, err := c.Commit(); err != nil {
			l.rollback(prev, next.Address)
			return errors.Wrap(err, "commit")
		}
	}
	r.state = next
	r.loaded = true
	return nil
}

// rollback puts back the previous state after a failed commit, so the
// working state of the store matches the cached state again.
func (l *Ledger) rollback(prev *Account, account keymgr.Address) {
	if prev == nil {
		_ = l.bucket.Delete(l.db, account)
		return
	}
	_ = l.bucket.Put(l.db, account, prev)
}
