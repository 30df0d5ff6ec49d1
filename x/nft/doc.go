/*
Package nft implements the collection side of the ledger. Each token
is a unique numbered item with a name and an attached value, owned by
one account and optionally delegated to one spender. Minting is open
to anyone holding a signature by the registered issuer over the mint
digest. Unit balances mirror ownership through the fungible ledger.
*/
package nft
