/*
Package errors provides registered errors with numeric codes.

Every error that leaves a package should wrap one of the root errors
declared with Register. The code of the root error survives any number of
wraps and is what a client sees in a receipt:

	if err := acc.Validate(); err != nil {
		return errors.Wrapf(err, "account %s", acc.Address)
	}
	...
	errors.ErrNotFound.Is(err) // compare kinds
	errors.Code(err)           // code of the root error, 1 if there is none

Packages register their own codes when no root error fits; x/keys does so
for invariant violations and unknown accounts.

The innermost Wrap records a stack trace. Print an error with %+v to see it,
%s and %v print only the message.
*/
package errors
