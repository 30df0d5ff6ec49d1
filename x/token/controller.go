package token

import (
	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/orm"
	"github.com/ghostchain/ghost/x"
)

// Controller is the functionality of the fungible ledger exposed to
// handlers and to the other extensions. All methods work on the store
// only, authentication of the actor happens in the handlers. The actor
// context is still threaded through because the storage payer of a
// touched row depends on who authorized the operation.
type Controller interface {
	// Init registers the issuer key and the two symbols. Succeeds once.
	Init(db ghost.KVStore, pub crypto.PublicKey, symbol, collection coin.Symbol) error

	Issue(ctx ghost.Context, db ghost.KVStore, dest ghost.Address, amount coin.Coin) error
	Burn(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error
	BurnFrom(ctx ghost.Context, db ghost.KVStore, burner, owner ghost.Address, amount coin.Coin) error
	Move(ctx ghost.Context, db ghost.KVStore, source, dest ghost.Address, amount coin.Coin) error
	MoveFrom(ctx ghost.Context, db ghost.KVStore, spender, owner, dest ghost.Address, amount coin.Coin) error

	Approve(ctx ghost.Context, db ghost.KVStore, owner, spender ghost.Address, amount coin.Coin) error
	IncAllowance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error
	DecAllowance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error

	Open(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, sym coin.Symbol, payer ghost.Address) error
	Close(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, sym coin.Symbol) error

	// AddBalance and SubBalance credit or debit a single row without
	// symbol restrictions or allowance bookkeeping. The collection
	// ledger is maintained through them.
	AddBalance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin, payer ghost.Address) error
	SubBalance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error

	// AddNFTSupply and SubNFTSupply move the collection supply
	// recorded in the singleton.
	AddNFTSupply(db ghost.KVStore, units coin.Coin) error
	SubNFTSupply(db ghost.KVStore, units coin.Coin) error

	Issuer(db ghost.ReadOnlyKVStore) (*IssuerInfo, error)
	Balance(db ghost.ReadOnlyKVStore, owner ghost.Address, sym coin.Symbol) (*Balance, error)
	Allowance(db ghost.ReadOnlyKVStore, owner ghost.Address, sym coin.Symbol) (*Allowance, error)
	IterateBalances(db ghost.ReadOnlyKVStore, fn func(*Balance) error) error
}

type controller struct {
	auth       x.Authenticator
	contract   ghost.Address
	info       orm.ModelBucket
	balances   orm.ModelBucket
	allowances orm.ModelBucket
}

var _ Controller = (*controller)(nil)

// NewController returns a fungible ledger controller using the given
// authenticator to pick storage payers.
func NewController(auth x.Authenticator) Controller {
	return &controller{
		auth:       auth,
		contract:   ContractAddress(),
		info:       NewInfoBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

func (c *controller) Init(db ghost.KVStore, pub crypto.PublicKey, symbol, collection coin.Symbol) error {
	switch ok, err := c.info.Has(db, issuerInfoKey); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrImmutable, "public key is already registered")
	}
	info := IssuerInfo{
		PublicKey: pub,
		Supply:    coin.Coin{Amount: 0, Symbol: symbol},
		NFTSupply: coin.Coin{Amount: 0, Symbol: collection},
	}
	return c.info.Put(db, issuerInfoKey, &info)
}

func (c *controller) Issue(ctx ghost.Context, db ghost.KVStore, dest ghost.Address, amount coin.Coin) error {
	info, err := c.fungible(db, amount)
	if err != nil {
		return err
	}
	info.Supply, err = info.Supply.Add(amount)
	if err != nil {
		return errors.Wrap(err, "supply")
	}
	if err := c.info.Put(db, issuerInfoKey, info); err != nil {
		return err
	}
	// minted funds land on the contract account and are forwarded from
	// there, so issuing to an external account behaves exactly like a
	// transfer out of the contract
	if err := c.addBalance(db, c.contract, amount, c.contract); err != nil {
		return err
	}
	if dest.Equals(c.contract) {
		return nil
	}
	return c.moveCoins(ctx, db, c.contract, dest, amount)
}

func (c *controller) Burn(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error {
	info, err := c.fungible(db, amount)
	if err != nil {
		return err
	}
	if err := c.subBalance(ctx, db, owner, amount); err != nil {
		return err
	}
	info.Supply, err = info.Supply.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "supply")
	}
	if !info.Supply.IsNonNegative() {
		return errors.Wrap(errors.ErrState, "supply underflow")
	}
	if err := c.info.Put(db, issuerInfoKey, info); err != nil {
		return err
	}
	return c.clampAllowance(db, owner, amount.Symbol)
}

func (c *controller) BurnFrom(ctx ghost.Context, db ghost.KVStore, burner, owner ghost.Address, amount coin.Coin) error {
	info, err := c.fungible(db, amount)
	if err != nil {
		return err
	}
	if err := c.consumeAllowance(db, burner, owner, amount); err != nil {
		return err
	}
	if err := c.subBalance(ctx, db, owner, amount); err != nil {
		return err
	}
	info.Supply, err = info.Supply.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "supply")
	}
	if !info.Supply.IsNonNegative() {
		return errors.Wrap(errors.ErrState, "supply underflow")
	}
	return c.info.Put(db, issuerInfoKey, info)
}

func (c *controller) Move(ctx ghost.Context, db ghost.KVStore, source, dest ghost.Address, amount coin.Coin) error {
	if _, err := c.fungible(db, amount); err != nil {
		return err
	}
	return c.moveCoins(ctx, db, source, dest, amount)
}

func (c *controller) MoveFrom(ctx ghost.Context, db ghost.KVStore, spender, owner, dest ghost.Address, amount coin.Coin) error {
	if _, err := c.fungible(db, amount); err != nil {
		return err
	}
	if err := c.consumeAllowance(db, spender, owner, amount); err != nil {
		return err
	}
	if err := c.subBalance(ctx, db, owner, amount); err != nil {
		return err
	}
	payer := spender
	if c.auth.HasAddress(ctx, dest) {
		payer = dest
	}
	return c.addBalance(db, dest, amount, payer)
}

func (c *controller) Approve(ctx ghost.Context, db ghost.KVStore, owner, spender ghost.Address, amount coin.Coin) error {
	if _, err := c.fungible(db, amount); err != nil {
		return err
	}
	var bal Balance
	key := accountSymbolKey(owner, amount.Symbol)
	if err := c.balances.One(db, key, &bal); err != nil {
		return errors.Wrap(err, "owner does not have a balance for the symbol")
	}
	if !bal.Balance.IsGTE(amount) {
		return errors.Wrap(errors.ErrInsufficientAmount, "allowance exceeds balance")
	}
	allw := Allowance{Owner: owner, Spender: spender, Balance: amount}
	return c.allowances.Put(db, key, &allw)
}

func (c *controller) IncAllowance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error {
	if _, err := c.fungible(db, amount); err != nil {
		return err
	}
	key := accountSymbolKey(owner, amount.Symbol)
	var allw Allowance
	if err := c.allowances.One(db, key, &allw); err != nil {
		return errors.Wrap(err, "no allowance registered for the owner")
	}
	var bal Balance
	if err := c.balances.One(db, key, &bal); err != nil {
		return errors.Wrap(err, "owner does not have a balance for the symbol")
	}
	raised, err := allw.Balance.Add(amount)
	if err != nil {
		return err
	}
	if !bal.Balance.IsGTE(raised) {
		return errors.Wrap(errors.ErrInsufficientAmount, "increase exceeds available balance")
	}
	allw.Balance = raised
	return c.allowances.Put(db, key, &allw)
}

func (c *controller) DecAllowance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error {
	if _, err := c.fungible(db, amount); err != nil {
		return err
	}
	key := accountSymbolKey(owner, amount.Symbol)
	var allw Allowance
	if err := c.allowances.One(db, key, &allw); err != nil {
		return errors.Wrap(err, "no allowance registered for the owner")
	}
	if !allw.Balance.IsGTE(amount) {
		return errors.Wrap(errors.ErrInsufficientAmount, "decrease exceeds allowance")
	}
	lowered, err := allw.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	if lowered.IsZero() {
		return c.allowances.Delete(db, key)
	}
	allw.Balance = lowered
	return c.allowances.Put(db, key, &allw)
}

func (c *controller) Open(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, sym coin.Symbol, payer ghost.Address) error {
	info, err := c.issuer(db)
	if err != nil {
		return err
	}
	if info.Supply.Symbol != sym {
		return errors.Wrap(errors.ErrSymbol, "symbol precision mismatch")
	}
	key := accountSymbolKey(owner, sym)
	switch ok, err := c.balances.Has(db, key); {
	case err != nil:
		return err
	case ok:
		// opening an existing row is a no-op, the payer stays
		return nil
	}
	bal := Balance{
		Owner:   owner,
		Balance: coin.Coin{Amount: 0, Symbol: sym},
		Payer:   payer,
	}
	return c.balances.Put(db, key, &bal)
}

func (c *controller) Close(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, sym coin.Symbol) error {
	key := accountSymbolKey(owner, sym)
	var bal Balance
	if err := c.balances.One(db, key, &bal); err != nil {
		return errors.Wrap(err, "balance row already deleted or never existed")
	}
	if !bal.Balance.IsZero() {
		return errors.Wrap(errors.ErrState, "cannot close because the balance is not zero")
	}
	return c.balances.Delete(db, key)
}

func (c *controller) AddBalance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin, payer ghost.Address) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must credit a positive quantity")
	}
	return c.addBalance(db, owner, amount, payer)
}

func (c *controller) SubBalance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must debit a positive quantity")
	}
	return c.subBalance(ctx, db, owner, amount)
}

func (c *controller) AddNFTSupply(db ghost.KVStore, units coin.Coin) error {
	info, err := c.issuer(db)
	if err != nil {
		return err
	}
	if info.NFTSupply.Symbol != units.Symbol {
		return errors.Wrap(errors.ErrSymbol, "symbol precision mismatch")
	}
	info.NFTSupply, err = info.NFTSupply.Add(units)
	if err != nil {
		return errors.Wrap(err, "collection supply")
	}
	return c.info.Put(db, issuerInfoKey, info)
}

func (c *controller) SubNFTSupply(db ghost.KVStore, units coin.Coin) error {
	info, err := c.issuer(db)
	if err != nil {
		return err
	}
	if info.NFTSupply.Symbol != units.Symbol {
		return errors.Wrap(errors.ErrSymbol, "symbol precision mismatch")
	}
	info.NFTSupply, err = info.NFTSupply.Subtract(units)
	if err != nil {
		return errors.Wrap(err, "collection supply")
	}
	if !info.NFTSupply.IsNonNegative() {
		return errors.Wrap(errors.ErrState, "collection supply underflow")
	}
	return c.info.Put(db, issuerInfoKey, info)
}

func (c *controller) Issuer(db ghost.ReadOnlyKVStore) (*IssuerInfo, error) {
	return c.issuer(db)
}

func (c *controller) Balance(db ghost.ReadOnlyKVStore, owner ghost.Address, sym coin.Symbol) (*Balance, error) {
	var bal Balance
	if err := c.balances.One(db, accountSymbolKey(owner, sym), &bal); err != nil {
		return nil, err
	}
	return &bal, nil
}

func (c *controller) Allowance(db ghost.ReadOnlyKVStore, owner ghost.Address, sym coin.Symbol) (*Allowance, error) {
	var allw Allowance
	if err := c.allowances.One(db, accountSymbolKey(owner, sym), &allw); err != nil {
		return nil, err
	}
	return &allw, nil
}

func (c *controller) IterateBalances(db ghost.ReadOnlyKVStore, fn func(*Balance) error) error {
	var bal Balance
	return c.balances.Iterate(db, &bal, func([]byte) error {
		cpy := bal
		return fn(&cpy)
	})
}

// issuer loads the singleton, failing with ErrNotFound before init.
func (c *controller) issuer(db ghost.ReadOnlyKVStore) (*IssuerInfo, error) {
	var info IssuerInfo
	if err := c.info.One(db, issuerInfoKey, &info); err != nil {
		return nil, errors.Wrap(err, "issuer is not registered")
	}
	return &info, nil
}

// fungible loads the singleton and ensures amount denominates the
// fungible supply, both code and precision.
func (c *controller) fungible(db ghost.ReadOnlyKVStore, amount coin.Coin) (*IssuerInfo, error) {
	info, err := c.issuer(db)
	if err != nil {
		return nil, err
	}
	if info.Supply.Symbol != amount.Symbol {
		return nil, errors.Wrap(errors.ErrSymbol, "symbol precision mismatch")
	}
	return info, nil
}

// moveCoins debits source and credits dest, then clamps the source
// allowance so that no spender keeps a claim on funds that are gone.
// The destination pays for its own row only when it authorized the
// operation, otherwise the source is billed.
func (c *controller) moveCoins(ctx ghost.Context, db ghost.KVStore, source, dest ghost.Address, amount coin.Coin) error {
	if err := c.subBalance(ctx, db, source, amount); err != nil {
		return err
	}
	payer := source
	if c.auth.HasAddress(ctx, dest) {
		payer = dest
	}
	if err := c.addBalance(db, dest, amount, payer); err != nil {
		return err
	}
	return c.clampAllowance(db, source, amount.Symbol)
}

// consumeAllowance spends amount from the allowance row of owner. The
// row must name spender and cover the amount. A fully consumed row is
// deleted.
func (c *controller) consumeAllowance(db ghost.KVStore, spender, owner ghost.Address, amount coin.Coin) error {
	key := accountSymbolKey(owner, amount.Symbol)
	var allw Allowance
	if err := c.allowances.One(db, key, &allw); err != nil {
		return errors.Wrap(err, "no allowance registered for the owner")
	}
	if !allw.Spender.Equals(spender) {
		return errors.Wrap(errors.ErrUnauthorized, "you are not a spender")
	}
	if !allw.Balance.IsGTE(amount) {
		return errors.Wrap(errors.ErrInsufficientAmount, "not enough allowance")
	}
	left, err := allw.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	if left.IsZero() {
		return c.allowances.Delete(db, key)
	}
	allw.Balance = left
	return c.allowances.Put(db, key, &allw)
}

// clampAllowance caps the allowance of owner at the remaining balance
// after a debit. An allowance over an emptied row is deleted so that
// the registry never promises funds that do not exist.
func (c *controller) clampAllowance(db ghost.KVStore, owner ghost.Address, sym coin.Symbol) error {
	key := accountSymbolKey(owner, sym)
	var allw Allowance
	switch err := c.allowances.One(db, key, &allw); {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	var bal Balance
	if err := c.balances.One(db, key, &bal); err != nil {
		return err
	}
	if bal.Balance.IsZero() {
		return c.allowances.Delete(db, key)
	}
	if allw.Balance.IsGTE(bal.Balance) && !allw.Balance.Equals(bal.Balance) {
		allw.Balance = bal.Balance
		return c.allowances.Put(db, key, &allw)
	}
	return nil
}

func (c *controller) addBalance(db ghost.KVStore, owner ghost.Address, amount coin.Coin, payer ghost.Address) error {
	key := accountSymbolKey(owner, amount.Symbol)
	var bal Balance
	switch err := c.balances.One(db, key, &bal); {
	case errors.ErrNotFound.Is(err):
		bal = Balance{Owner: owner, Balance: amount, Payer: payer}
	case err != nil:
		return err
	default:
		total, err := bal.Balance.Add(amount)
		if err != nil {
			return err
		}
		bal.Balance = total
	}
	return c.balances.Put(db, key, &bal)
}

// subBalance debits the row of owner, keeping the emptied row in
// place. When the owner authorized the operation the row is re-billed
// to the owner.
func (c *controller) subBalance(ctx ghost.Context, db ghost.KVStore, owner ghost.Address, amount coin.Coin) error {
	key := accountSymbolKey(owner, amount.Symbol)
	var bal Balance
	if err := c.balances.One(db, key, &bal); err != nil {
		return errors.Wrap(err, "no balance object found")
	}
	if !bal.Balance.IsGTE(amount) {
		return errors.Wrap(errors.ErrInsufficientAmount, "overdrawn balance")
	}
	left, err := bal.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	bal.Balance = left
	if c.auth.HasAddress(ctx, owner) {
		bal.Payer = owner
	}
	return c.balances.Put(db, key, &bal)
}
