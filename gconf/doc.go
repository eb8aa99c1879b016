/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

This package allows to load configuration from a genesis file, validate it and
keep it in the database under a key unique to each extension. Extensions read
their configuration back with Load.

Not being able to get a configuration value is a critical condition for an
extension that requires it, so Load returns ErrNotFound instead of a zero
value.

*/
package gconf
