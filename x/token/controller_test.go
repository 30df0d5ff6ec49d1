package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/coin"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/ghosttest"
	"github.com/ghostchain/ghost/store"
)

var (
	kc  = coin.NewSymbol("KC", 2)
	gho = coin.NewSymbol("GHO", 0)
)

func kcoin(amount int64) coin.Coin {
	return coin.NewCoin(amount, kc)
}

// newLedger returns an initialized controller together with an
// authenticator that the test can point at any actor.
func newLedger(t *testing.T, db ghost.KVStore) (Controller, *ghosttest.Auth) {
	t.Helper()
	auth := &ghosttest.Auth{}
	control := NewController(auth)
	_, pub, err := crypto.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, control.Init(db, pub, kc, gho))
	return control, auth
}

func TestInitOnce(t *testing.T) {
	db := store.MemStore()
	control, _ := newLedger(t, db)

	_, pub, err := crypto.GenerateKey()
	require.NoError(t, err)
	err = control.Init(db, pub, kc, gho)
	assert.True(t, errors.ErrImmutable.Is(err))

	info, err := control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, kc, info.Supply.Symbol)
	assert.Equal(t, gho, info.NFTSupply.Symbol)
	assert.True(t, info.Supply.IsZero())
}

func TestIssueAndSupply(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	auth.Signer = ContractAddress()

	require.NoError(t, control.Issue(ctx, db, alice, kcoin(500)))

	info, err := control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, kcoin(500), info.Supply)

	bal, err := control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(500), bal.Balance)
	// alice did not sign, the contract pays for her row
	assert.Equal(t, ContractAddress(), bal.Payer)

	// the forwarding account ends up empty but its row stays
	cbal, err := control.Balance(db, ContractAddress(), kc)
	require.NoError(t, err)
	assert.True(t, cbal.Balance.IsZero())
}

func TestIssueSymbolMismatch(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	auth.Signer = ContractAddress()
	ctx := context.Background()

	alice := ghosttest.RandomAddress()

	cases := map[string]coin.Coin{
		"wrong code":      coin.NewCoin(10, coin.NewSymbol("XYZ", 2)),
		"wrong precision": coin.NewCoin(10, coin.NewSymbol("KC", 4)),
	}
	for name, amount := range cases {
		t.Run(name, func(t *testing.T) {
			err := control.Issue(ctx, db, alice, amount)
			assert.True(t, errors.ErrSymbol.Is(err))
		})
	}
}

func TestMoveConservesSupply(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(1000)))

	auth.Signer = alice
	require.NoError(t, control.Move(ctx, db, alice, bob, kcoin(300)))

	abal, err := control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(700), abal.Balance)

	bbal, err := control.Balance(db, bob, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(300), bbal.Balance)

	var total int64
	err = control.IterateBalances(db, func(b *Balance) error {
		total += b.Balance.Amount
		return nil
	})
	require.NoError(t, err)
	info, err := control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, info.Supply.Amount, total)
}

func TestMoveOverdraw(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))

	auth.Signer = alice
	err := control.Move(ctx, db, alice, bob, kcoin(101))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// the failed move must not create a row for bob
	_, err = control.Balance(db, bob, kc)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestMovePayerSelection(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))

	// only alice signs: she pays for the new row of bob
	auth.Signer = alice
	require.NoError(t, control.Move(ctx, db, alice, bob, kcoin(10)))
	bbal, err := control.Balance(db, bob, kc)
	require.NoError(t, err)
	assert.Equal(t, alice, bbal.Payer)
	// and her own row is re-billed to her
	abal, err := control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, alice, abal.Payer)

	// when the recipient also signs, the recipient pays
	carol := ghosttest.RandomAddress()
	auth.Signer = nil
	auth.Signers = []ghost.Address{alice, carol}
	require.NoError(t, control.Move(ctx, db, alice, carol, kcoin(10)))
	cbal, err := control.Balance(db, carol, kc)
	require.NoError(t, err)
	assert.Equal(t, carol, cbal.Payer)
}

func TestBurnReducesSupply(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))

	auth.Signer = alice
	require.NoError(t, control.Burn(ctx, db, alice, kcoin(40)))

	info, err := control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, kcoin(60), info.Supply)

	bal, err := control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(60), bal.Balance)

	err = control.Burn(ctx, db, alice, kcoin(61))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
}

func TestApproveRequiresBalance(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = alice
	err := control.Approve(ctx, db, alice, bob, kcoin(10))
	assert.True(t, errors.ErrNotFound.Is(err))

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))

	auth.Signer = alice
	err = control.Approve(ctx, db, alice, bob, kcoin(101))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(80)))
	allw, err := control.Allowance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, bob, allw.Spender)
	assert.Equal(t, kcoin(80), allw.Balance)

	// approving again replaces the row, spender included
	carol := ghosttest.RandomAddress()
	require.NoError(t, control.Approve(ctx, db, alice, carol, kcoin(5)))
	allw, err = control.Allowance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, carol, allw.Spender)
	assert.Equal(t, kcoin(5), allw.Balance)
}

func TestAllowanceIncDec(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))
	auth.Signer = alice
	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(50)))

	// cannot raise above the balance
	err := control.IncAllowance(ctx, db, alice, kcoin(51))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	require.NoError(t, control.IncAllowance(ctx, db, alice, kcoin(30)))
	allw, err := control.Allowance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(80), allw.Balance)

	err = control.DecAllowance(ctx, db, alice, kcoin(81))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// lowering to zero removes the row entirely
	require.NoError(t, control.DecAllowance(ctx, db, alice, kcoin(80)))
	_, err = control.Allowance(db, alice, kc)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestMoveFromConsumesAllowance(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()
	carol := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))
	auth.Signer = alice
	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(60)))

	// only the registered spender may draw
	auth.Signer = carol
	err := control.MoveFrom(ctx, db, carol, alice, carol, kcoin(10))
	assert.True(t, errors.ErrUnauthorized.Is(err))

	auth.Signer = bob
	require.NoError(t, control.MoveFrom(ctx, db, bob, alice, carol, kcoin(40)))

	allw, err := control.Allowance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(20), allw.Balance)

	cbal, err := control.Balance(db, carol, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(40), cbal.Balance)
	// the spender funded the new row, not the owner
	assert.Equal(t, bob, cbal.Payer)

	err = control.MoveFrom(ctx, db, bob, alice, carol, kcoin(21))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// draining the allowance deletes the row
	require.NoError(t, control.MoveFrom(ctx, db, bob, alice, carol, kcoin(20)))
	_, err = control.Allowance(db, alice, kc)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestBurnFromConsumesAllowance(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))
	auth.Signer = alice
	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(50)))

	auth.Signer = bob
	require.NoError(t, control.BurnFrom(ctx, db, bob, alice, kcoin(50)))

	info, err := control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, kcoin(50), info.Supply)

	bal, err := control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(50), bal.Balance)

	_, err = control.Allowance(db, alice, kc)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestAllowanceClampedAfterDebit(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()
	carol := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))
	auth.Signer = alice
	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(100)))

	// alice spends her own funds, the promise to bob shrinks with them
	require.NoError(t, control.Move(ctx, db, alice, carol, kcoin(70)))
	allw, err := control.Allowance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, kcoin(30), allw.Balance)

	// emptying the account removes the allowance
	require.NoError(t, control.Burn(ctx, db, alice, kcoin(30)))
	_, err = control.Allowance(db, alice, kc)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestOpenAndClose(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	sponsor := ghosttest.RandomAddress()

	auth.Signer = sponsor
	require.NoError(t, control.Open(ctx, db, alice, kc, sponsor))

	bal, err := control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.True(t, bal.Balance.IsZero())
	assert.Equal(t, sponsor, bal.Payer)

	// a second open is a no-op and must not change the payer
	require.NoError(t, control.Open(ctx, db, alice, kc, alice))

	err = control.Open(ctx, db, alice, coin.NewSymbol("KC", 9), sponsor)
	assert.True(t, errors.ErrSymbol.Is(err))

	// deposits into the opened row do not change the payer when the
	// owner never signed
	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(5)))
	bal, err = control.Balance(db, alice, kc)
	require.NoError(t, err)
	assert.Equal(t, sponsor, bal.Payer)

	auth.Signer = alice
	err = control.Close(ctx, db, alice, kc)
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, control.Burn(ctx, db, alice, kcoin(5)))
	require.NoError(t, control.Close(ctx, db, alice, kc))
	_, err = control.Balance(db, alice, kc)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = control.Close(ctx, db, alice, kc)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestNFTSupply(t *testing.T) {
	db := store.MemStore()
	control, _ := newLedger(t, db)

	unit := coin.NewCoin(1, gho)
	require.NoError(t, control.AddNFTSupply(db, unit))
	require.NoError(t, control.AddNFTSupply(db, unit))

	info, err := control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.NFTSupply.Amount)

	require.NoError(t, control.SubNFTSupply(db, unit))
	info, err = control.Issuer(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.NFTSupply.Amount)

	err = control.SubNFTSupply(db, coin.NewCoin(2, gho))
	assert.True(t, errors.ErrState.Is(err))

	err = control.AddNFTSupply(db, coin.NewCoin(1, kc))
	assert.True(t, errors.ErrSymbol.Is(err))
}
