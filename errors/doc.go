/*
Package errors implements the single error taxonomy used across the
ledger. Every rejection wraps one of the registered root errors, so a
caller can both classify the failure with Is and read the full reason
string from Error.

Create an error instance providing a context description:

	errors.Wrap(errors.ErrNotFound, "no balance object found")

Test an error instance against a root error:

	if errors.ErrNotFound.Is(err) { ... }

Errors are never recovered from. A rejected operation is aborted as a
whole and leaves no trace in the store.
*/
package errors
