package nft

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
)

const maxMemoSize = 256

var _ ghost.Msg = (*IssueNFTMsg)(nil)
var _ ghost.Msg = (*BurnNFTMsg)(nil)
var _ ghost.Msg = (*BurnNFTFromMsg)(nil)
var _ ghost.Msg = (*SendMsg)(nil)
var _ ghost.Msg = (*ApproveNFTMsg)(nil)
var _ ghost.Msg = (*SendFromMsg)(nil)

// IssueNFTMsg mints a new token to Destination. Anyone may submit the
// message, minting is gated solely by the issuer signature over the
// mint digest.
type IssueNFTMsg struct {
	Destination ghost.Address
	TokenID     uint64
	Name        string
	Value       coin.Coin
	Signature   crypto.Signature
	Memo        string
}

func (IssueNFTMsg) Path() string {
	return "issuenft"
}

func (m *IssueNFTMsg) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := validateName(m.Name); err != nil {
		return err
	}
	if err := m.Value.Validate(); err != nil {
		return errors.Wrap(err, "value")
	}
	if !m.Value.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative value")
	}
	if err := m.Signature.Validate(); err != nil {
		return err
	}
	return validateMemo(m.Memo)
}

// BurnNFTMsg destroys a batch of tokens owned by the signer.
type BurnNFTMsg struct {
	Owner    ghost.Address
	TokenIDs []uint64
	Memo     string
}

func (BurnNFTMsg) Path() string {
	return "burnnft"
}

func (m *BurnNFTMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if len(m.TokenIDs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "token ids")
	}
	return validateMemo(m.Memo)
}

// BurnNFTFromMsg destroys a single token on behalf of its owner,
// authorized by the registered spender.
type BurnNFTFromMsg struct {
	Burner  ghost.Address
	TokenID uint64
	Memo    string
}

func (BurnNFTFromMsg) Path() string {
	return "burnnftfrom"
}

func (m *BurnNFTFromMsg) Validate() error {
	if err := m.Burner.Validate(); err != nil {
		return errors.Wrap(err, "burner")
	}
	return validateMemo(m.Memo)
}

// SendMsg transfers a token to a new owner.
type SendMsg struct {
	Source      ghost.Address
	Destination ghost.Address
	TokenID     uint64
	Memo        string
}

func (SendMsg) Path() string {
	return "send"
}

func (m *SendMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Source.Equals(m.Destination) {
		return errors.Wrap(errors.ErrInput, "cannot send to self")
	}
	return validateMemo(m.Memo)
}

// ApproveNFTMsg delegates one token to a spender.
type ApproveNFTMsg struct {
	Owner   ghost.Address
	Spender ghost.Address
	TokenID uint64
}

func (ApproveNFTMsg) Path() string {
	return "approvenft"
}

func (m *ApproveNFTMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	return nil
}

// SendFromMsg transfers a token to a new owner, authorized by the
// registered spender.
type SendFromMsg struct {
	Spender     ghost.Address
	Destination ghost.Address
	TokenID     uint64
	Memo        string
}

func (SendFromMsg) Path() string {
	return "sendfrom"
}

func (m *SendFromMsg) Validate() error {
	if err := m.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return validateMemo(m.Memo)
}

func validateMemo(memo string) error {
	if len(memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo has more than %d bytes", maxMemoSize)
	}
	return nil
}
