/*
Package ghost defines the common interfaces that tie the ledger
extensions together: addresses and conditions, the key-value store
contracts, message and handler abstractions, and context helpers for
ledger visible time.

The heavy lifting happens in the extension packages under x/ which own
the actual state transitions. This package should stay small and free
of any business logic.
*/
package ghost
