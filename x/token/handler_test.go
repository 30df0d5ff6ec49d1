package token

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/crypto"
	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/ghosttest"
	"github.com/ghostchain/ghost/store"
)

// router is a minimal registry so tests can exercise the dispatch
// wiring without the full application.
type router map[string]ghost.Handler

func (r router) Handle(path string, h ghost.Handler) {
	if _, ok := r[path]; ok {
		panic("duplicate path: " + path)
	}
	r[path] = h
}

func TestRegisterRoutes(t *testing.T) {
	auth := &ghosttest.Auth{}
	accounts := &ghosttest.Accounts{AllowAll: true}
	r := router{}
	RegisterRoutes(r, auth, accounts, NewController(auth))

	for _, path := range []string{
		"init", "issue", "burn", "burnfrom", "transfer", "approve",
		"transferfrom", "incallowance", "decallowance", "open", "close",
	} {
		assert.NotNil(t, r[path], path)
	}
}

func TestIssueHandlerAuth(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	accounts := &ghosttest.Accounts{AllowAll: true}
	h := IssueHandler{auth: auth, accounts: accounts, control: control}
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	msg := &IssueMsg{Destination: alice, Amount: kcoin(10)}

	// a random signer cannot mint
	auth.Signer = alice
	_, err := h.Deliver(ctx, db, msg)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	auth.Signer = ContractAddress()
	res, err := h.Deliver(ctx, db, msg)
	require.NoError(t, err)
	// both parties of the forwarding transfer are notified
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, ContractAddress(), res.Notifications[0].Recipient)
	assert.Equal(t, alice, res.Notifications[1].Recipient)
	assert.Equal(t, "transfer", res.Notifications[0].Path)

	// minting straight into the contract account notifies nobody
	res, err = h.Deliver(ctx, db, &IssueMsg{Destination: ContractAddress(), Amount: kcoin(5)})
	require.NoError(t, err)
	assert.Len(t, res.Notifications, 0)
}

func TestIssueHandlerUnknownAccount(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	auth.Signer = ContractAddress()
	accounts := &ghosttest.Accounts{}
	h := IssueHandler{auth: auth, accounts: accounts, control: control}

	msg := &IssueMsg{Destination: ghosttest.RandomAddress(), Amount: kcoin(10)}
	_, err := h.Deliver(context.Background(), db, msg)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestTransferHandler(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	accounts := &ghosttest.Accounts{AllowAll: true}
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))

	h := TransferHandler{auth: auth, accounts: accounts, control: control}

	// source must sign
	auth.Signer = bob
	_, err := h.Deliver(ctx, db, &TransferMsg{Source: alice, Destination: bob, Amount: kcoin(10)})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	auth.Signer = alice
	res, err := h.Deliver(ctx, db, &TransferMsg{Source: alice, Destination: bob, Amount: kcoin(10)})
	require.NoError(t, err)
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, alice, res.Notifications[0].Recipient)
	assert.Equal(t, bob, res.Notifications[1].Recipient)

	// self transfers are rejected before touching state
	_, err = h.Deliver(ctx, db, &TransferMsg{Source: alice, Destination: alice, Amount: kcoin(10)})
	assert.True(t, errors.ErrInput.Is(err))

	// an oversized memo is rejected
	_, err = h.Deliver(ctx, db, &TransferMsg{
		Source:      alice,
		Destination: bob,
		Amount:      kcoin(10),
		Memo:        strings.Repeat("m", maxMemoSize+1),
	})
	assert.True(t, errors.ErrInput.Is(err))

	gas, err := h.Check(ctx, db, &TransferMsg{Source: alice, Destination: bob, Amount: kcoin(1)})
	require.NoError(t, err)
	assert.Equal(t, transferCost, gas.GasAllocated)
}

func TestTransferFromHandler(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	accounts := &ghosttest.Accounts{AllowAll: true}
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()
	carol := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))
	auth.Signer = alice
	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(50)))

	h := TransferFromHandler{auth: auth, accounts: accounts, control: control}

	// the spender signs, not the owner
	_, err := h.Deliver(ctx, db, &TransferFromMsg{
		Spender: bob, Owner: alice, Destination: carol, Amount: kcoin(20),
	})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	auth.Signer = bob
	res, err := h.Deliver(ctx, db, &TransferFromMsg{
		Spender: bob, Owner: alice, Destination: carol, Amount: kcoin(20),
	})
	require.NoError(t, err)
	// the owner and the recipient are notified, not the spender
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, alice, res.Notifications[0].Recipient)
	assert.Equal(t, carol, res.Notifications[1].Recipient)
}

func TestBurnFromHandlerNotifiesOwner(t *testing.T) {
	db := store.MemStore()
	control, auth := newLedger(t, db)
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()

	auth.Signer = ContractAddress()
	require.NoError(t, control.Issue(ctx, db, alice, kcoin(100)))
	auth.Signer = alice
	require.NoError(t, control.Approve(ctx, db, alice, bob, kcoin(50)))

	h := BurnFromHandler{auth: auth, control: control}
	auth.Signer = bob
	res, err := h.Deliver(ctx, db, &BurnFromMsg{Burner: bob, Owner: alice, Amount: kcoin(50)})
	require.NoError(t, err)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, alice, res.Notifications[0].Recipient)
	assert.Equal(t, "burnfrom", res.Notifications[0].Path)
}

func TestInitHandler(t *testing.T) {
	db := store.MemStore()
	auth := &ghosttest.Auth{}
	control := NewController(auth)
	h := InitHandler{auth: auth, control: control}
	ctx := context.Background()

	_, pub, err := crypto.GenerateKey()
	require.NoError(t, err)
	msg := &InitMsg{PublicKey: pub, Symbol: kc, CollectionSymbol: gho}

	// only the contract may initialize
	auth.Signer = ghosttest.RandomAddress()
	_, err = h.Deliver(ctx, db, msg)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	auth.Signer = ContractAddress()
	_, err = h.Deliver(ctx, db, msg)
	require.NoError(t, err)

	_, err = h.Deliver(ctx, db, msg)
	assert.True(t, errors.ErrImmutable.Is(err))
}
