package auction

import (
	"time"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
	"github.com/ghostchain/ghost/x/nft"
	"github.com/ghostchain/ghost/x/token"
)

// BidResult reports what an accepted bid displaced, so the handler can
// notify the refunded party.
type BidResult struct {
	Refunded   bool
	PrevBidder ghost.Address
	PrevBid    coin.Coin
}

// ClaimResult reports how a settlement went. Owner is the token owner
// before any ownership change.
type ClaimResult struct {
	Sold       bool
	Owner      ghost.Address
	HighBidder ghost.Address
	Paid       coin.Coin
}

// Controller is the auction engine. Funds are escrowed on the contract
// account through the fungible ledger, the token is escrowed by making
// the contract its spender.
type Controller interface {
	Create(ctx ghost.Context, db ghost.KVStore, auctioneer ghost.Address, id uint64, minPrice coin.Coin, seconds int64) error
	Bid(ctx ghost.Context, db ghost.KVStore, bidder ghost.Address, id uint64, bid coin.Coin) (*BidResult, error)
	Claim(ctx ghost.Context, db ghost.KVStore, requester ghost.Address, id uint64) (*ClaimResult, error)

	Auction(db ghost.ReadOnlyKVStore, id uint64) (*Auction, error)
}

type controller struct {
	contract ghost.Address
	auctions orm.ModelBucket
	ledger   token.Controller
	nfts     nft.Controller
}

var _ Controller = (*controller)(nil)

// NewController returns an auction engine over the given fungible
// ledger and collection registry.
func NewController(ledger token.Controller, nfts nft.Controller) Controller {
	return &controller{
		contract: token.ContractAddress(),
		auctions: NewAuctionBucket(),
		ledger:   ledger,
		nfts:     nfts,
	}
}

func (c *controller) Create(ctx ghost.Context, db ghost.KVStore, auctioneer ghost.Address, id uint64, minPrice coin.Coin, seconds int64) error {
	info, err := c.ledger.Issuer(db)
	if err != nil {
		return err
	}
	if info.Supply.Symbol != minPrice.Symbol {
		return errors.Wrap(errors.ErrSymbol, "symbol precision mismatch")
	}
	tok, err := c.nfts.Token(db, id)
	if err != nil {
		return err
	}
	if !tok.Owner.Equals(auctioneer) {
		return errors.Wrap(errors.ErrUnauthorized, "you do not own the token")
	}
	key := auctionKey(id)
	switch ok, err := c.auctions.Has(db, key); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrDuplicate, "an auction for the token already exists")
	}

	now, err := ghost.BlockTime(ctx)
	if err != nil {
		return err
	}
	if err := c.nfts.Escrow(db, id); err != nil {
		return err
	}
	a := Auction{
		TokenID:    id,
		HighBidder: auctioneer,
		HighBid:    minPrice,
		Deadline:   ghost.AsUnixTime(now.Add(time.Duration(seconds) * time.Second)),
	}
	return c.auctions.Put(db, key, &a)
}

func (c *controller) Bid(ctx ghost.Context, db ghost.KVStore, bidder ghost.Address, id uint64, bid coin.Coin) (*BidResult, error) {
	key := auctionKey(id)
	var a Auction
	if err := c.auctions.One(db, key, &a); err != nil {
		return nil, errors.Wrap(err, "no auction for the token")
	}
	if ghost.IsExpired(ctx, a.Deadline) {
		return nil, errors.Wrap(errors.ErrExpired, "the auction deadline has passed")
	}
	tok, err := c.nfts.Token(db, id)
	if err != nil {
		return nil, err
	}
	if tok.Owner.Equals(bidder) {
		return nil, errors.Wrap(errors.ErrInput, "the owner cannot bid on their own auction")
	}
	info, err := c.ledger.Issuer(db)
	if err != nil {
		return nil, err
	}
	if info.Supply.Symbol != bid.Symbol {
		return nil, errors.Wrap(errors.ErrSymbol, "symbol precision mismatch")
	}
	if bid.Amount <= a.HighBid.Amount {
		return nil, errors.Wrap(errors.ErrAmount, "bid must exceed the current high bid")
	}

	res := BidResult{}
	// the auctioneer's opening bid is a placeholder without escrowed
	// funds, only a bid by somebody else is refunded
	if !a.HighBidder.Equals(tok.Owner) {
		if err := c.ledger.Move(ctx, db, c.contract, a.HighBidder, a.HighBid); err != nil {
			return nil, err
		}
		res = BidResult{Refunded: true, PrevBidder: a.HighBidder, PrevBid: a.HighBid}
	}
	if err := c.ledger.Move(ctx, db, bidder, c.contract, bid); err != nil {
		return nil, err
	}
	a.HighBidder = bidder
	a.HighBid = bid
	if err := c.auctions.Put(db, key, &a); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *controller) Claim(ctx ghost.Context, db ghost.KVStore, requester ghost.Address, id uint64) (*ClaimResult, error) {
	key := auctionKey(id)
	var a Auction
	if err := c.auctions.One(db, key, &a); err != nil {
		return nil, errors.Wrap(err, "no auction for the token")
	}
	tok, err := c.nfts.Token(db, id)
	if err != nil {
		return nil, err
	}
	if !requester.Equals(tok.Owner) && !requester.Equals(a.HighBidder) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the owner or the high bidder may claim")
	}
	if !ghost.IsExpired(ctx, a.Deadline) {
		return nil, errors.Wrap(errors.ErrState, "deadline not over")
	}

	res := ClaimResult{Owner: tok.Owner, HighBidder: a.HighBidder, Paid: a.HighBid}
	if a.HighBidder.Equals(tok.Owner) {
		// nobody bid, hand the token back
		if err := c.nfts.Release(db, id); err != nil {
			return nil, err
		}
	} else {
		res.Sold = true
		if err := c.ledger.Move(ctx, db, c.contract, tok.Owner, a.HighBid); err != nil {
			return nil, err
		}
		// the contract is the escrow spender, settlement is a
		// delegated transfer to the winner
		if _, err := c.nfts.MoveFrom(ctx, db, c.contract, a.HighBidder, id); err != nil {
			return nil, err
		}
	}
	if err := c.auctions.Delete(db, key); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *controller) Auction(db ghost.ReadOnlyKVStore, id uint64) (*Auction, error) {
	var a Auction
	if err := c.auctions.One(db, auctionKey(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
