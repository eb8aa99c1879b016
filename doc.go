/*

Package keymgr defines the interfaces shared by the key manager packages:
account identities, storage, genesis options and the context helpers used to
carry a logger through a request.

The authorization model itself lives in x/keys. Storage backends live in
store and its subpackages. Look into this package to get a brief overview of
the building blocks the extensions are wired with.

*/

package keymgr
