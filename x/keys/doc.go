/*
Package keys implements the weighted multi-key account authorization model.

An account is controlled by a set of associated keys. Every key carries a
weight between 0 and 255 and the account has two thresholds: the deployment
threshold gates ordinary execution and the key management threshold gates any
change to the keys or the thresholds themselves. A request is authorized when
the summed weight of the distinct signers reaches the threshold of its class.

The Ledger holds the state of all accounts. Every mutation is checked against
the current state first and the proposed state must keep both thresholds
reachable, so an account can never be locked out through this package. A key
whose weight is set to 0 stays in the key set as a revoked, zero-weight
record.

Actions are a closed set of message types decoded once at the boundary with
the package amino codec. The Handler routes a Deploy to the matching Ledger
operation and the Initializer loads accounts and configuration from the
genesis file.
*/
package keys
