package auction

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
	"github.com/ghostchain/ghost/x"
	"github.com/ghostchain/ghost/x/token"
)

const (
	createCost int64 = 150
	bidCost    int64 = 120
	claimCost  int64 = 150
)

// RegisterRoutes wires the auction operations into the registry.
func RegisterRoutes(r ghost.Registry, auth x.Authenticator, control Controller) {
	r.Handle((AuctionTokenMsg{}).Path(), AuctionTokenHandler{auth: auth, control: control})
	r.Handle((BidTokenMsg{}).Path(), BidTokenHandler{auth: auth, control: control})
	r.Handle((ClaimTokenMsg{}).Path(), ClaimTokenHandler{auth: auth, control: control})
}

// AuctionTokenHandler lists a token for sale.
type AuctionTokenHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = AuctionTokenHandler{}

func (h AuctionTokenHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: createCost}, nil
}

func (h AuctionTokenHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Create(ctx, db, m.Auctioneer, m.TokenID, m.MinPrice, m.Duration); err != nil {
		return nil, err
	}
	key := auctionKey(m.TokenID)
	return &ghost.DeliverResult{
		Data: key,
		Notifications: []ghost.Notification{
			{Recipient: m.Auctioneer, Path: m.Path(), Payload: key},
			{Recipient: token.ContractAddress(), Path: m.Path(), Payload: key},
		},
	}, nil
}

func (h AuctionTokenHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*AuctionTokenMsg, error) {
	m, ok := msg.(*AuctionTokenMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Auctioneer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "auctioneer signature required")
	}
	return m, nil
}

// BidTokenHandler places a bid, refunding the displaced one.
type BidTokenHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = BidTokenHandler{}

func (h BidTokenHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: bidCost}, nil
}

func (h BidTokenHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	bid, err := h.control.Bid(ctx, db, m.Bidder, m.TokenID, m.Bid)
	if err != nil {
		return nil, err
	}

	var ns []ghost.Notification
	if bid.Refunded {
		refund, err := orm.MarshalModel(&bid.PrevBid)
		if err != nil {
			return nil, err
		}
		ns = append(ns,
			ghost.Notification{Recipient: token.ContractAddress(), Path: "transfer", Payload: refund},
			ghost.Notification{Recipient: bid.PrevBidder, Path: "transfer", Payload: refund},
		)
	}
	escrowed, err := orm.MarshalModel(&m.Bid)
	if err != nil {
		return nil, err
	}
	ns = append(ns,
		ghost.Notification{Recipient: m.Bidder, Path: "transfer", Payload: escrowed},
		ghost.Notification{Recipient: token.ContractAddress(), Path: "transfer", Payload: escrowed},
		// the accepted amount goes back to the bidder as a receipt
		ghost.Notification{Recipient: m.Bidder, Path: "bidresult", Payload: escrowed},
	)
	return &ghost.DeliverResult{Notifications: ns}, nil
}

func (h BidTokenHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*BidTokenMsg, error) {
	m, ok := msg.(*BidTokenMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Bidder) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "bidder signature required")
	}
	return m, nil
}

// ClaimTokenHandler settles an expired auction.
type ClaimTokenHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = ClaimTokenHandler{}

func (h ClaimTokenHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: claimCost}, nil
}

func (h ClaimTokenHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	claim, err := h.control.Claim(ctx, db, m.Requester, m.TokenID)
	if err != nil {
		return nil, err
	}
	if !claim.Sold {
		return &ghost.DeliverResult{}, nil
	}
	paid, err := orm.MarshalModel(&claim.Paid)
	if err != nil {
		return nil, err
	}
	key := auctionKey(m.TokenID)
	return &ghost.DeliverResult{
		Notifications: []ghost.Notification{
			{Recipient: token.ContractAddress(), Path: "transfer", Payload: paid},
			{Recipient: claim.Owner, Path: "transfer", Payload: paid},
			{Recipient: claim.Owner, Path: "sendfrom", Payload: key},
			{Recipient: claim.HighBidder, Path: "sendfrom", Payload: key},
		},
	}, nil
}

func (h ClaimTokenHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ClaimTokenMsg, error) {
	m, ok := msg.(*ClaimTokenMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Requester) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "requester signature required")
	}
	return m, nil
}
