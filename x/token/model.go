package token

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
)

// contractCondition identifies the ledger itself. Funds escrowed during
// an auction are held under this address and issuance must be
// authorized by it.
var contractCondition = ghost.NewCondition("ghost", "ledger", []byte("self"))

// ContractAddress returns the address of the ledger contract itself.
func ContractAddress() ghost.Address {
	return contractCondition.Address()
}

// IssuerInfo is the ledger singleton: the registered issuer public key
// and the outstanding supply of both asset kinds. The public key is
// set once and never modified, the supplies move on issue and burn.
type IssuerInfo struct {
	PublicKey crypto.PublicKey
	Supply    coin.Coin
	NFTSupply coin.Coin
}

var _ orm.Model = (*IssuerInfo)(nil)

func (i *IssuerInfo) Validate() error {
	if i.PublicKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "issuer public key")
	}
	if err := i.PublicKey.Validate(); err != nil {
		return err
	}
	if err := i.Supply.Validate(); err != nil {
		return errors.Wrap(err, "supply")
	}
	if err := i.NFTSupply.Validate(); err != nil {
		return errors.Wrap(err, "collection supply")
	}
	if !i.Supply.IsNonNegative() || !i.NFTSupply.IsNonNegative() {
		return errors.Wrap(errors.ErrState, "negative supply")
	}
	return nil
}

// Balance is a single account row holding the amount of one symbol
// owned by one address. Payer is the storage payer billed for the
// space of this row, independent of who may spend the funds.
type Balance struct {
	Owner   ghost.Address
	Balance coin.Coin
	Payer   ghost.Address
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Validate() error {
	if err := b.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := b.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := b.Balance.Validate(); err != nil {
		return err
	}
	// a row never persists a negative amount
	if !b.Balance.IsNonNegative() {
		return errors.Wrap(errors.ErrState, "negative balance")
	}
	return nil
}

// Allowance is the single delegated-spending row of one owner for one
// symbol. Approving a new spender replaces the row.
type Allowance struct {
	Owner   ghost.Address
	Spender ghost.Address
	Balance coin.Coin
}

var _ orm.Model = (*Allowance)(nil)

func (a *Allowance) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := a.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	if err := a.Balance.Validate(); err != nil {
		return err
	}
	if !a.Balance.IsPositive() {
		return errors.Wrap(errors.ErrState, "allowance must be positive")
	}
	return nil
}

// issuerInfoKey is the key of the IssuerInfo singleton.
var issuerInfoKey = []byte("issuer")

// NewInfoBucket returns the bucket holding the IssuerInfo singleton.
func NewInfoBucket() orm.ModelBucket {
	return orm.NewModelBucket("info")
}

// NewBalanceBucket returns the bucket holding all account balances,
// keyed by owner and symbol.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("acct")
}

// NewAllowanceBucket returns the bucket holding all allowances, keyed
// by owner and symbol.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("allw")
}

// accountSymbolKey builds the (owner, symbol) primary key. The owner
// address has a fixed length so the concatenation is unambiguous.
func accountSymbolKey(owner ghost.Address, sym coin.Symbol) []byte {
	key := make([]byte, 0, len(owner)+len(sym.Code))
	key = append(key, owner...)
	key = append(key, sym.Code...)
	return key
}
