package auction

import (
	"encoding/binary"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
)

// Auction is the sealed state of one running sale. The row exists only
// between listing and settlement. A fresh auction starts with the
// auctioneer as high bidder at the minimum price; that placeholder bid
// holds no escrowed funds and is never refunded.
type Auction struct {
	TokenID    uint64
	HighBidder ghost.Address
	HighBid    coin.Coin
	Deadline   ghost.UnixTime
}

var _ orm.Model = (*Auction)(nil)

func (a *Auction) Validate() error {
	if err := a.HighBidder.Validate(); err != nil {
		return errors.Wrap(err, "high bidder")
	}
	if err := a.HighBid.Validate(); err != nil {
		return errors.Wrap(err, "high bid")
	}
	if !a.HighBid.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "high bid must be positive")
	}
	if err := a.Deadline.Validate(); err != nil {
		return errors.Wrap(err, "deadline")
	}
	return nil
}

// NewAuctionBucket returns the bucket holding all running auctions,
// keyed by token id.
func NewAuctionBucket() orm.ModelBucket {
	return orm.NewModelBucket("auction")
}

func auctionKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
