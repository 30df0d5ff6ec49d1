package token

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
	"github.com/ghostchain/ghost/x"
)

// Gas costs charged during Check. Operations touching more rows are
// more expensive.
const (
	initCost      int64 = 50
	issueCost     int64 = 100
	burnCost      int64 = 80
	transferCost  int64 = 100
	approveCost   int64 = 40
	allowanceCost int64 = 20
	openCost      int64 = 50
	closeCost     int64 = 10
)

// RegisterRoutes wires all fungible ledger operations into the
// registry.
func RegisterRoutes(r ghost.Registry, auth x.Authenticator, accounts x.Accounts, control Controller) {
	r.Handle((InitMsg{}).Path(), InitHandler{auth: auth, control: control})
	r.Handle((IssueMsg{}).Path(), IssueHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((BurnMsg{}).Path(), BurnHandler{auth: auth, control: control})
	r.Handle((BurnFromMsg{}).Path(), BurnFromHandler{auth: auth, control: control})
	r.Handle((TransferMsg{}).Path(), TransferHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((ApproveMsg{}).Path(), ApproveHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((TransferFromMsg{}).Path(), TransferFromHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((IncAllowanceMsg{}).Path(), IncAllowanceHandler{auth: auth, control: control})
	r.Handle((DecAllowanceMsg{}).Path(), DecAllowanceHandler{auth: auth, control: control})
	r.Handle((OpenMsg{}).Path(), OpenHandler{auth: auth, accounts: accounts, control: control})
	r.Handle((CloseMsg{}).Path(), CloseHandler{auth: auth, control: control})
}

// transferNotifications builds the recipient notifications of a
// completed transfer. Both parties receive the moved amount.
func transferNotifications(source, dest ghost.Address, amount coin.Coin) ([]ghost.Notification, error) {
	payload, err := orm.MarshalModel(&amount)
	if err != nil {
		return nil, err
	}
	return []ghost.Notification{
		{Recipient: source, Path: "transfer", Payload: payload},
		{Recipient: dest, Path: "transfer", Payload: payload},
	}, nil
}

// InitHandler registers the issuer key. Only the ledger itself may do
// this and only once.
type InitHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = InitHandler{}

func (h InitHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: initCost}, nil
}

func (h InitHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Init(db, m.PublicKey, m.Symbol, m.CollectionSymbol); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h InitHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*InitMsg, error) {
	m, ok := msg.(*InitMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, ContractAddress()) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "contract authority required")
	}
	return m, nil
}

// IssueHandler mints fungible tokens. Only the ledger itself may mint.
type IssueHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = IssueHandler{}

func (h IssueHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: issueCost}, nil
}

func (h IssueHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Issue(ctx, db, m.Destination, m.Amount); err != nil {
		return nil, err
	}
	res := ghost.DeliverResult{}
	if !m.Destination.Equals(ContractAddress()) {
		ns, err := transferNotifications(ContractAddress(), m.Destination, m.Amount)
		if err != nil {
			return nil, err
		}
		res.Notifications = ns
	}
	return &res, nil
}

func (h IssueHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*IssueMsg, error) {
	m, ok := msg.(*IssueMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, ContractAddress()) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "contract authority required")
	}
	if !h.accounts.Exists(ctx, m.Destination) {
		return nil, errors.Wrap(errors.ErrNotFound, "destination account does not exist")
	}
	return m, nil
}

// BurnHandler destroys tokens held by the signer.
type BurnHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = BurnHandler{}

func (h BurnHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: burnCost}, nil
}

func (h BurnHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Burn(ctx, db, m.Owner, m.Amount); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h BurnHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*BurnMsg, error) {
	m, ok := msg.(*BurnMsg)
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

// BurnFromHandler destroys tokens of another account, consuming the
// allowance granted to the signer.
type BurnFromHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = BurnFromHandler{}

func (h BurnFromHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: burnCost}, nil
}

func (h BurnFromHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.BurnFrom(ctx, db, m.Burner, m.Owner, m.Amount); err != nil {
		return nil, err
	}
	payload, err := orm.MarshalModel(&m.Amount)
	if err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{
		Notifications: []ghost.Notification{
			{Recipient: m.Owner, Path: m.Path(), Payload: payload},
		},
	}, nil
}

func (h BurnFromHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*BurnFromMsg, error) {
	m, ok := msg.(*BurnFromMsg)
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

// TransferHandler moves tokens between two accounts.
type TransferHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Move(ctx, db, m.Source, m.Destination, m.Amount); err != nil {
		return nil, err
	}
	ns, err := transferNotifications(m.Source, m.Destination, m.Amount)
	if err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{Notifications: ns}, nil
}

func (h TransferHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*TransferMsg, error) {
	m, ok := msg.(*TransferMsg)
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

// ApproveHandler registers a spender with an exact allowance.
type ApproveHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Approve(ctx, db, m.Owner, m.Spender, m.Amount); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h ApproveHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ApproveMsg, error) {
	m, ok := msg.(*ApproveMsg)
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

// TransferFromHandler moves tokens of another account, consuming the
// allowance granted to the signer.
type TransferFromHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = TransferFromHandler{}

func (h TransferFromHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferFromHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveFrom(ctx, db, m.Spender, m.Owner, m.Destination, m.Amount); err != nil {
		return nil, err
	}
	ns, err := transferNotifications(m.Owner, m.Destination, m.Amount)
	if err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{Notifications: ns}, nil
}

func (h TransferFromHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*TransferFromMsg, error) {
	m, ok := msg.(*TransferFromMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Spender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "spender signature required")
	}
	if !h.accounts.Exists(ctx, m.Owner) {
		return nil, errors.Wrap(errors.ErrNotFound, "owner account does not exist")
	}
	if !h.accounts.Exists(ctx, m.Destination) {
		return nil, errors.Wrap(errors.ErrNotFound, "destination account does not exist")
	}
	return m, nil
}

// IncAllowanceHandler raises an existing allowance.
type IncAllowanceHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = IncAllowanceHandler{}

func (h IncAllowanceHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: allowanceCost}, nil
}

func (h IncAllowanceHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.IncAllowance(ctx, db, m.Owner, m.Amount); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h IncAllowanceHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*IncAllowanceMsg, error) {
	m, ok := msg.(*IncAllowanceMsg)
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

// DecAllowanceHandler lowers an existing allowance.
type DecAllowanceHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = DecAllowanceHandler{}

func (h DecAllowanceHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: allowanceCost}, nil
}

func (h DecAllowanceHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.DecAllowance(ctx, db, m.Owner, m.Amount); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h DecAllowanceHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*DecAllowanceMsg, error) {
	m, ok := msg.(*DecAllowanceMsg)
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

// OpenHandler creates a zero balance row billed to the payer.
type OpenHandler struct {
	auth     x.Authenticator
	accounts x.Accounts
	control  Controller
}

var _ ghost.Handler = OpenHandler{}

func (h OpenHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: openCost}, nil
}

func (h OpenHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Open(ctx, db, m.Owner, m.Symbol, m.Payer); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h OpenHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*OpenMsg, error) {
	m, ok := msg.(*OpenMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid type %T", msg)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, m.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	if !h.accounts.Exists(ctx, m.Owner) {
		return nil, errors.Wrap(errors.ErrNotFound, "owner account does not exist")
	}
	return m, nil
}

// CloseHandler removes an emptied balance row.
type CloseHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ ghost.Handler = CloseHandler{}

func (h CloseHandler) Check(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &ghost.CheckResult{GasAllocated: closeCost}, nil
}

func (h CloseHandler) Deliver(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*ghost.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	if err := h.control.Close(ctx, db, m.Owner, m.Symbol); err != nil {
		return nil, err
	}
	return &ghost.DeliverResult{}, nil
}

func (h CloseHandler) validate(ctx ghost.Context, db ghost.KVStore, msg ghost.Msg) (*CloseMsg, error) {
	m, ok := msg.(*CloseMsg)
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
