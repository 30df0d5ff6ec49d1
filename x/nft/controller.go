package nft

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
	"github.com/ghostchain/ghost/x"
	"github.com/ghostchain/ghost/x/token"
)

// Controller is the functionality of the collection registry exposed
// to handlers and to the auction extension. Unit balances and the
// collection supply are maintained through the fungible ledger, so
// every token always has exactly one unit on its owner's account.
type Controller interface {
	Issue(ctx ghost.Context, db ghost.KVStore, dest ghost.Address, id uint64, name string, value coin.Coin, sig crypto.Signature) error
	Burn(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, ids []uint64) error
	// BurnFrom returns the owner of the destroyed token so callers can
	// notify them.
	BurnFrom(ctx ghost.Context, db ghost.KVStore, burner ghost.Address, id uint64) (ghost.Address, error)
	Move(ctx ghost.Context, db ghost.KVStore, source, dest ghost.Address, id uint64) error
	Approve(ctx ghost.Context, db ghost.KVStore, owner, spender ghost.Address, id uint64) error
	// MoveFrom returns the previous owner of the moved token.
	MoveFrom(ctx ghost.Context, db ghost.KVStore, spender, dest ghost.Address, id uint64) (ghost.Address, error)

	// Escrow and Release flip the spender of a token to the contract
	// and back to the owner. Only the auction engine uses them.
	Escrow(db ghost.KVStore, id uint64) error
	Release(db ghost.KVStore, id uint64) error

	Token(db ghost.ReadOnlyKVStore, id uint64) (*Token, error)
}

type controller struct {
	auth     x.Authenticator
	contract ghost.Address
	tokens   orm.ModelBucket
	ledger   token.Controller
}

var _ Controller = (*controller)(nil)

// NewController returns a collection controller backed by the given
// fungible ledger for unit accounting.
func NewController(auth x.Authenticator, ledger token.Controller) Controller {
	return &controller{
		auth:     auth,
		contract: token.ContractAddress(),
		tokens:   NewTokenBucket(),
		ledger:   ledger,
	}
}

func (c *controller) Issue(ctx ghost.Context, db ghost.KVStore, dest ghost.Address, id uint64, name string, value coin.Coin, sig crypto.Signature) error {
	info, err := c.ledger.Issuer(db)
	if err != nil {
		return err
	}
	key := tokenKey(id)
	switch ok, err := c.tokens.Has(db, key); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrDuplicate, "token with this id already exists")
	}

	signer, err := crypto.RecoverSigner(MintDigest(dest, id, name, value), sig)
	if err != nil {
		return err
	}
	if !signer.Equals(info.PublicKey) {
		return errors.Wrap(errors.ErrSignature, "not signed by the registered issuer")
	}

	tok := Token{
		ID:      id,
		Owner:   dest,
		Spender: dest,
		Name:    name,
		Value:   value,
		Payer:   dest,
	}
	if err := c.tokens.Put(db, key, &tok); err != nil {
		return err
	}
	unit := coin.NewCoin(1, info.NFTSupply.Symbol)
	if err := c.ledger.AddNFTSupply(db, unit); err != nil {
		return err
	}
	return c.ledger.AddBalance(ctx, db, dest, unit, dest)
}

func (c *controller) Burn(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, ids []uint64) error {
	info, err := c.ledger.Issuer(db)
	if err != nil {
		return err
	}
	for _, id := range ids {
		tok, err := c.get(db, id)
		if err != nil {
			return err
		}
		if !tok.Owner.Equals(owner) {
			return errors.Wrapf(errors.ErrUnauthorized, "token %d is not owned by the account", id)
		}
		if err := c.tokens.Delete(db, tokenKey(id)); err != nil {
			return err
		}
	}
	units := coin.NewCoin(int64(len(ids)), info.NFTSupply.Symbol)
	if err := c.ledger.SubNFTSupply(db, units); err != nil {
		return err
	}
	return c.ledger.SubBalance(ctx, db, owner, units)
}

func (c *controller) BurnFrom(ctx ghost.Context, db ghost.KVStore, burner ghost.Address, id uint64) (ghost.Address, error) {
	info, err := c.ledger.Issuer(db)
	if err != nil {
		return nil, err
	}
	tok, err := c.get(db, id)
	if err != nil {
		return nil, err
	}
	if !tok.Spender.Equals(burner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "you are not a spender")
	}
	owner := tok.Owner
	if err := c.tokens.Delete(db, tokenKey(id)); err != nil {
		return nil, err
	}
	unit := coin.NewCoin(1, info.NFTSupply.Symbol)
	if err := c.ledger.SubNFTSupply(db, unit); err != nil {
		return nil, err
	}
	// the owner's unit is burned, not the burner's
	if err := c.ledger.SubBalance(ctx, db, owner, unit); err != nil {
		return nil, err
	}
	return owner, nil
}

func (c *controller) Move(ctx ghost.Context, db ghost.KVStore, source, dest ghost.Address, id uint64) error {
	tok, err := c.get(db, id)
	if err != nil {
		return err
	}
	if !tok.Owner.Equals(source) {
		return errors.Wrap(errors.ErrUnauthorized, "you do not own the token")
	}
	if tok.Spender.Equals(c.contract) {
		return errors.Wrap(errors.ErrState, "the token is under auction")
	}
	return c.changeOwner(ctx, db, tok, dest, source)
}

func (c *controller) Approve(ctx ghost.Context, db ghost.KVStore, owner, spender ghost.Address, id uint64) error {
	tok, err := c.get(db, id)
	if err != nil {
		return err
	}
	if !tok.Owner.Equals(owner) {
		return errors.Wrap(errors.ErrUnauthorized, "you do not own the token")
	}
	// escrow delegation cannot be approved away while the auction runs
	if tok.Spender.Equals(c.contract) {
		return errors.Wrap(errors.ErrState, "the token is under auction")
	}
	tok.Spender = spender
	return c.tokens.Put(db, tokenKey(id), tok)
}

func (c *controller) MoveFrom(ctx ghost.Context, db ghost.KVStore, spender, dest ghost.Address, id uint64) (ghost.Address, error) {
	tok, err := c.get(db, id)
	if err != nil {
		return nil, err
	}
	if !tok.Spender.Equals(spender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "you are not a spender")
	}
	if tok.Owner.Equals(spender) {
		return nil, errors.Wrap(errors.ErrInput, "spender and owner are the same account")
	}
	owner := tok.Owner
	if err := c.changeOwner(ctx, db, tok, dest, spender); err != nil {
		return nil, err
	}
	return owner, nil
}

func (c *controller) Escrow(db ghost.KVStore, id uint64) error {
	tok, err := c.get(db, id)
	if err != nil {
		return err
	}
	tok.Spender = c.contract
	return c.tokens.Put(db, tokenKey(id), tok)
}

func (c *controller) Release(db ghost.KVStore, id uint64) error {
	tok, err := c.get(db, id)
	if err != nil {
		return err
	}
	tok.Spender = tok.Owner
	return c.tokens.Put(db, tokenKey(id), tok)
}

func (c *controller) Token(db ghost.ReadOnlyKVStore, id uint64) (*Token, error) {
	return c.get(db, id)
}

func (c *controller) get(db ghost.ReadOnlyKVStore, id uint64) (*Token, error) {
	var tok Token
	if err := c.tokens.One(db, tokenKey(id), &tok); err != nil {
		return nil, errors.Wrapf(err, "token %d", id)
	}
	return &tok, nil
}

// changeOwner moves the unit balance and rewrites the record for the
// new owner. Delegation never survives an ownership change, the
// spender collapses to the new owner. When the destination did not
// authorize the operation, fallback is billed for its unit row.
func (c *controller) changeOwner(ctx ghost.Context, db ghost.KVStore, tok *Token, dest, fallback ghost.Address) error {
	info, err := c.ledger.Issuer(db)
	if err != nil {
		return err
	}
	unit := coin.NewCoin(1, info.NFTSupply.Symbol)
	if err := c.ledger.SubBalance(ctx, db, tok.Owner, unit); err != nil {
		return err
	}
	payer := fallback
	if c.auth.HasAddress(ctx, dest) {
		payer = dest
	}
	if err := c.ledger.AddBalance(ctx, db, dest, unit, payer); err != nil {
		return err
	}
	tok.Owner = dest
	tok.Spender = dest
	if c.auth.HasAddress(ctx, dest) {
		tok.Payer = dest
	}
	return c.tokens.Put(db, tokenKey(tok.ID), tok)
}
