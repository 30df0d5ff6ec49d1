package auction

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/errors"
)

var _ ghost.Msg = (*AuctionTokenMsg)(nil)
var _ ghost.Msg = (*BidTokenMsg)(nil)
var _ ghost.Msg = (*ClaimTokenMsg)(nil)

// AuctionTokenMsg lists a token for a timed sale.
type AuctionTokenMsg struct {
	Auctioneer ghost.Address
	TokenID    uint64
	MinPrice   coin.Coin
	// Duration of the sale in seconds, added to the current block time
	// to fix the deadline.
	Duration int64
}

func (AuctionTokenMsg) Path() string {
	return "auctiontoken"
}

func (m *AuctionTokenMsg) Validate() error {
	if err := m.Auctioneer.Validate(); err != nil {
		return errors.Wrap(err, "auctioneer")
	}
	if err := m.MinPrice.Validate(); err != nil {
		return errors.Wrap(err, "minimum price")
	}
	if !m.MinPrice.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "minimum price must be positive")
	}
	if m.Duration <= 0 {
		return errors.Wrap(errors.ErrInput, "auction duration must be positive")
	}
	return nil
}

// BidTokenMsg places a bid on a running auction.
type BidTokenMsg struct {
	Bidder  ghost.Address
	TokenID uint64
	Bid     coin.Coin
}

func (BidTokenMsg) Path() string {
	return "bidtoken"
}

func (m *BidTokenMsg) Validate() error {
	if err := m.Bidder.Validate(); err != nil {
		return errors.Wrap(err, "bidder")
	}
	if err := m.Bid.Validate(); err != nil {
		return errors.Wrap(err, "bid")
	}
	if !m.Bid.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "bid must be positive")
	}
	return nil
}

// ClaimTokenMsg settles an auction whose deadline has passed.
type ClaimTokenMsg struct {
	Requester ghost.Address
	TokenID   uint64
}

func (ClaimTokenMsg) Path() string {
	return "claimtoken"
}

func (m *ClaimTokenMsg) Validate() error {
	if err := m.Requester.Validate(); err != nil {
		return errors.Wrap(err, "requester")
	}
	return nil
}
