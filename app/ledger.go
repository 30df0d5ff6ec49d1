package app

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/x"
	"github.com/ghostchain/ghost/x/auction"
	"github.com/ghostchain/ghost/x/nft"
	"github.com/ghostchain/ghost/x/token"
)

// RegisterLedger attaches the complete ledger operation surface to the
// registry: the fungible currency, the collection and the auction
// engine, all sharing one controller stack so composite operations run
// as direct internal calls.
func RegisterLedger(r ghost.Registry, auth x.Authenticator, accounts x.Accounts) {
	tokens := token.NewController(auth)
	nfts := nft.NewController(auth, tokens)
	auctions := auction.NewController(tokens, nfts)

	token.RegisterRoutes(r, auth, accounts, tokens)
	nft.RegisterRoutes(r, auth, accounts, nfts)
	auction.RegisterRoutes(r, auth, auctions)
}
