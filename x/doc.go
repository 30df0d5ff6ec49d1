/*
Package x holds the interfaces shared by all ledger extensions that
did not fit in the root package, most notably the Authenticator and
the Accounts collaborators.

The extension packages live below this one: x/token, x/nft and
x/auction.
*/
package x
