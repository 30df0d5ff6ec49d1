package token

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
)

// maxMemoSize is the longest memo carried by a transfer, in bytes.
const maxMemoSize = 256

var _ ghost.Msg = (*InitMsg)(nil)
var _ ghost.Msg = (*IssueMsg)(nil)
var _ ghost.Msg = (*BurnMsg)(nil)
var _ ghost.Msg = (*BurnFromMsg)(nil)
var _ ghost.Msg = (*TransferMsg)(nil)
var _ ghost.Msg = (*ApproveMsg)(nil)
var _ ghost.Msg = (*TransferFromMsg)(nil)
var _ ghost.Msg = (*IncAllowanceMsg)(nil)
var _ ghost.Msg = (*DecAllowanceMsg)(nil)
var _ ghost.Msg = (*OpenMsg)(nil)
var _ ghost.Msg = (*CloseMsg)(nil)

// InitMsg registers the issuer public key and fixes the symbols of the
// fungible supply and the collection. It can succeed only once.
type InitMsg struct {
	PublicKey        crypto.PublicKey
	Symbol           coin.Symbol
	CollectionSymbol coin.Symbol
}

func (InitMsg) Path() string {
	return "init"
}

func (m *InitMsg) Validate() error {
	if m.PublicKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if err := m.PublicKey.Validate(); err != nil {
		return err
	}
	if err := m.Symbol.Validate(); err != nil {
		return err
	}
	if err := m.CollectionSymbol.Validate(); err != nil {
		return err
	}
	if m.CollectionSymbol.Precision != 0 {
		return errors.Wrap(errors.ErrSymbol, "collection symbol must have zero precision")
	}
	if m.Symbol.Code == m.CollectionSymbol.Code {
		return errors.Wrap(errors.ErrDuplicate, "supply and collection symbol")
	}
	return nil
}

// IssueMsg mints new fungible tokens into the destination account.
type IssueMsg struct {
	Destination ghost.Address
	Amount      coin.Coin
	Memo        string
}

func (IssueMsg) Path() string {
	return "issue"
}

func (m *IssueMsg) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := validatePositive(m.Amount); err != nil {
		return err
	}
	return validateMemo(m.Memo)
}

// BurnMsg destroys fungible tokens held by the signer.
type BurnMsg struct {
	Owner  ghost.Address
	Amount coin.Coin
	Memo   string
}

func (BurnMsg) Path() string {
	return "burn"
}

func (m *BurnMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := validatePositive(m.Amount); err != nil {
		return err
	}
	return validateMemo(m.Memo)
}

// BurnFromMsg destroys fungible tokens of Owner, consuming the
// allowance granted to Burner.
type BurnFromMsg struct {
	Burner ghost.Address
	Owner  ghost.Address
	Amount coin.Coin
	Memo   string
}

func (BurnFromMsg) Path() string {
	return "burnfrom"
}

func (m *BurnFromMsg) Validate() error {
	if err := m.Burner.Validate(); err != nil {
		return errors.Wrap(err, "burner")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if m.Burner.Equals(m.Owner) {
		return errors.Wrap(errors.ErrInput, "burner and owner are the same account")
	}
	if err := validatePositive(m.Amount); err != nil {
		return err
	}
	return validateMemo(m.Memo)
}

// TransferMsg moves fungible tokens between two accounts.
type TransferMsg struct {
	Source      ghost.Address
	Destination ghost.Address
	Amount      coin.Coin
	Memo        string
}

func (TransferMsg) Path() string {
	return "transfer"
}

func (m *TransferMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Source.Equals(m.Destination) {
		return errors.Wrap(errors.ErrInput, "cannot transfer to self")
	}
	if err := validatePositive(m.Amount); err != nil {
		return err
	}
	return validateMemo(m.Memo)
}

// ApproveMsg sets the allowance of Spender over Owner funds to exactly
// Amount, replacing any previous allowance row for the symbol.
type ApproveMsg struct {
	Owner   ghost.Address
	Spender ghost.Address
	Amount  coin.Coin
}

func (ApproveMsg) Path() string {
	return "approve"
}

func (m *ApproveMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	return validatePositive(m.Amount)
}

// TransferFromMsg moves Owner funds to Destination, consuming the
// allowance granted to Spender.
type TransferFromMsg struct {
	Spender     ghost.Address
	Owner       ghost.Address
	Destination ghost.Address
	Amount      coin.Coin
	Memo        string
}

func (TransferFromMsg) Path() string {
	return "transferfrom"
}

func (m *TransferFromMsg) Validate() error {
	if err := m.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Spender.Equals(m.Owner) {
		return errors.Wrap(errors.ErrInput, "spender and owner are the same account")
	}
	if m.Owner.Equals(m.Destination) {
		return errors.Wrap(errors.ErrInput, "cannot transfer to self")
	}
	if err := validatePositive(m.Amount); err != nil {
		return err
	}
	return validateMemo(m.Memo)
}

// IncAllowanceMsg raises the existing allowance of Owner by Amount.
type IncAllowanceMsg struct {
	Owner  ghost.Address
	Amount coin.Coin
}

func (IncAllowanceMsg) Path() string {
	return "incallowance"
}

func (m *IncAllowanceMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return validatePositive(m.Amount)
}

// DecAllowanceMsg lowers the existing allowance of Owner by Amount.
type DecAllowanceMsg struct {
	Owner  ghost.Address
	Amount coin.Coin
}

func (DecAllowanceMsg) Path() string {
	return "decallowance"
}

func (m *DecAllowanceMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return validatePositive(m.Amount)
}

// OpenMsg creates a zero balance row for Owner so that a later deposit
// does not bill Owner for storage. Payer funds the row.
type OpenMsg struct {
	Owner  ghost.Address
	Symbol coin.Symbol
	Payer  ghost.Address
}

func (OpenMsg) Path() string {
	return "open"
}

func (m *OpenMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	return m.Symbol.Validate()
}

// CloseMsg deletes the zero balance row of Owner, releasing its
// storage back to the payer.
type CloseMsg struct {
	Owner  ghost.Address
	Symbol coin.Symbol
}

func (CloseMsg) Path() string {
	return "close"
}

func (m *CloseMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return m.Symbol.Validate()
}

func validatePositive(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be a positive quantity")
	}
	return nil
}

func validateMemo(memo string) error {
	if len(memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo has more than %d bytes", maxMemoSize)
	}
	return nil
}
