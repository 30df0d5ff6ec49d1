package nft

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"strconv"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
)

// maxNameSize is the longest token name accepted on minting, in bytes.
const maxNameSize = 32

// Token is a single collection item. Spender is the one account
// allowed to move or burn the token on behalf of the owner; a freshly
// minted or transferred token has its owner as spender. A token whose
// spender is the contract itself is under auction escrow.
type Token struct {
	ID      uint64
	Owner   ghost.Address
	Spender ghost.Address
	Name    string
	Value   coin.Coin
	Payer   ghost.Address
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Validate() error {
	if err := t.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := t.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	if err := t.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := validateName(t.Name); err != nil {
		return err
	}
	if err := t.Value.Validate(); err != nil {
		return errors.Wrap(err, "value")
	}
	if !t.Value.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative value")
	}
	return nil
}

func validateName(name string) error {
	if len(name) == 0 {
		return errors.Wrap(errors.ErrEmpty, "token name")
	}
	if len(name) > maxNameSize {
		return errors.Wrapf(errors.ErrInput, "token name has more than %d bytes", maxNameSize)
	}
	return nil
}

// NewTokenBucket returns the bucket holding all collection items,
// keyed by token id.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("nft")
}

// tokenKey is the big endian token id, so iteration order follows the
// numeric order of ids.
func tokenKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// MintDigest returns the digest an issuer must sign to authorize
// minting one specific token to one specific owner. Every field of the
// mint is bound into the digest so a signature cannot be replayed for
// a different token or recipient.
func MintDigest(to ghost.Address, id uint64, name string, value coin.Coin) []byte {
	h := sha256.New()
	io.WriteString(h, to.String())
	io.WriteString(h, strconv.FormatUint(id, 10))
	io.WriteString(h, name)
	io.WriteString(h, value.String())
	return h.Sum(nil)
}
