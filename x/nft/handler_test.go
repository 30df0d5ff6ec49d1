package nft

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
)

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
	ledger := NewController(auth, nil)
	r := router{}
	RegisterRoutes(r, auth, accounts, ledger)

	for _, path := range []string{
		"issuenft", "burnnft", "burnnftfrom", "send", "approvenft", "sendfrom",
	} {
		assert.NotNil(t, r[path], path)
	}
}

func TestIssueNFTHandler(t *testing.T) {
	f := newFixture(t)
	accounts := &ghosttest.Accounts{AllowAll: true}
	h := IssueNFTHandler{auth: f.auth, accounts: accounts, control: f.control}
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	value := coin.NewCoin(0, kc)
	msg := &IssueNFTMsg{
		Destination: alice,
		TokenID:     1,
		Name:        "Sword",
		Value:       value,
		Signature:   crypto.Sign(f.issuer, MintDigest(alice, 1, "Sword", value)),
	}

	// the destination account must sign the mint
	f.auth.Signer = ghosttest.RandomAddress()
	_, err := h.Deliver(ctx, f.db, msg)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	f.auth.Signer = alice
	res, err := h.Deliver(ctx, f.db, msg)
	require.NoError(t, err)
	assert.Equal(t, tokenKey(1), res.Data)
	assert.Len(t, res.Notifications, 0)
}

func TestSendFromHandlerNotifies(t *testing.T) {
	f := newFixture(t)
	accounts := &ghosttest.Accounts{AllowAll: true}
	ctx := context.Background()

	alice := ghosttest.RandomAddress()
	bob := ghosttest.RandomAddress()
	carol := ghosttest.RandomAddress()
	f.mint(t, alice, 1, "Sword")
	f.auth.Signer = alice
	require.NoError(t, f.control.Approve(ctx, f.db, alice, bob, 1))

	h := SendFromHandler{auth: f.auth, accounts: accounts, control: f.control}
	f.auth.Signer = bob
	res, err := h.Deliver(ctx, f.db, &SendFromMsg{Spender: bob, Destination: carol, TokenID: 1})
	require.NoError(t, err)

	// the previous owner and the recipient learn about the move
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, alice, res.Notifications[0].Recipient)
	assert.Equal(t, carol, res.Notifications[1].Recipient)
	assert.Equal(t, "sendfrom", res.Notifications[0].Path)
}
