/*
Package token implements the fungible side of the ledger: a single
issued currency with per-account balances, a storage payer per row,
and a one-spender-per-owner allowance registry that other accounts can
draw on. The nft and auction extensions build on the Controller of
this package for every coin movement.
*/
package token
