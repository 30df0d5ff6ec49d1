package nft

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/x"
)

const (
	issueCost    int64 = 150
	burnCost     int64 = 80
	sendCost     int64 = 100
	approveCost  int64 = 40
	burnUnitCost int64 = 20
)

// RegisterRoutes wires all collection operations into the registry.
func RegisterRoutes(r ghost.Registry, auth x.Authenticator, accounts x.Accounts, control Controller) {
	r.Handle((IssueNFTMsg{}).Path(), IssueNFTHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((BurnNFTMsg{}).Path(), BurnNFTHandler{auth: auth, control: control})
	r.Handle((BurnNFTFromMsg{}).Path(), BurnNFTFromHandler{auth: auth, control: control})
	r.Handle((SendMsg{}).Path(), SendHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((ApproveNFTMsg{}).Path(), ApproveNFTHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((SendFromMsg{}).Path(), SendFromHandler{auth: auth, accounts: accounts, control: control})
}

// movedNotifications notifies both sides of an ownership change with
// the id of the moved token.
func movedNotifications(path string, prev, next ghost.Address, id uint64) []ghost.Notification {
	payload := tokenKey(id)
	return []ghost.Notification{
		{Recipient: prev, Path: path, Payload: payload},
		{Recipient: next, Path: path, Payload: payload},
	}
}

// IssueNFTHandler mints a token. The destination signs the message,
// the registered issuer signs the mint digest.
type IssueNFTHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = IssueNFTHandler{}

func (h IssueNFTHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: issueCost}, nil
}

func (h IssueNFTHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Issue(ctx, db, m.Destination, m.TokenID, m.Name, m.Value, m.Signature); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{Data: tokenKey(m.TokenID)}, nil
}

func (h IssueNFTHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*IssueNFTMsg, error) {
	m, ok := msg.(*IssueNFTMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Destination) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "destination signature required")
	}
	if !h.accounts.Exists(ctx, m.Destination) {
		return nil, errors.Wrap(errors.ErrNotFound, "destination account does not exist")
	}
	return m, nil
}

// BurnNFTHandler batch-burns tokens of the signer.
type BurnNFTHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = BurnNFTHandler{}

func (h BurnNFTHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	gas := burnCost + burnUnitCost*int64(len(m.TokenIDs))
	return &ghost.CheckResult{GasAllocated: gas}, nil
}

func (h BurnNFTHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Burn(ctx, db, m.Owner, m.TokenIDs); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h BurnNFTHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*BurnNFTMsg, error) {
	m, ok := msg.(*BurnNFTMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return m, nil
}

// BurnNFTFromHandler burns a token on behalf of its owner.
type BurnNFTFromHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = BurnNFTFromHandler{}

func (h BurnNFTFromHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: burnCost}, nil
}

func (h BurnNFTFromHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	owner, err := h.control.BurnFrom(ctx, db, m.Burner, m.TokenID)
	if err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{
		Notifications: []ghost.Notification{
			{Recipient: owner, Path: m.Path(), Payload: tokenKey(m.TokenID)},
		},
	}, nil
}

func (h BurnNFTFromHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*BurnNFTFromMsg, error) {
	m, ok := msg.(*BurnNFTFromMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Burner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "burner signature required")
	}
	return m, nil
}

// SendHandler transfers a token by its owner.
type SendHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = SendHandler{}

func (h SendHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: sendCost}, nil
}

func (h SendHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Move(ctx, db, m.Source, m.Destination, m.TokenID); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{
		Notifications: movedNotifications(m.Path(), m.Source, m.Destination, m.TokenID),
	}, nil
}

func (h SendHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*SendMsg, error) {
	m, ok := msg.(*SendMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature required")
	}
	if !h.accounts.Exists(ctx, m.Destination) {
		return nil, errors.Wrap(errors.ErrNotFound, "destination account does not exist")
	}
	return m, nil
}

// ApproveNFTHandler delegates a token to a spender.
type ApproveNFTHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = ApproveNFTHandler{}

func (h ApproveNFTHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveNFTHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Approve(ctx, db, m.Owner, m.Spender, m.TokenID); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h ApproveNFTHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ApproveNFTMsg, error) {
	m, ok := msg.(*ApproveNFTMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	if !h.accounts.Exists(ctx, m.Spender) {
		return nil, errors.Wrap(errors.ErrNotFound, "spender account does not exist")
	}
	return m, nil
}

// SendFromHandler transfers a token by its delegated spender.
type SendFromHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = SendFromHandler{}

func (h SendFromHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: sendCost}, nil
}

func (h SendFromHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	owner, err := h.control.MoveFrom(ctx, db, m.Spender, m.Destination, m.TokenID)
	if err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{
		Notifications: movedNotifications(m.Path(), owner, m.Destination, m.TokenID),
	}, nil
}

func (h SendFromHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*SendFromMsg, error) {
	m, ok := msg.(*SendFromMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Spender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "spender signature required")
	}
	if !h.accounts.Exists(ctx, m.Destination) {
		return nil, errors.Wrap(errors.ErrNotFound, "destination account does not exist")
	}
	return m, nil
}
