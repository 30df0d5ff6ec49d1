/*
Package ghosttest provides test doubles for the collaborators that the
ledger extensions are built against. They implement the interfaces the
handlers expect with plain in-memory state, so extension tests can run
against a MemStore without a host environment.
*/
package ghosttest

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/x"
)

// Auth authorizes exactly the configured signers. Use a single Signer
// for the common one-actor case and Signers when an operation carries
// several authorities.
type Auth struct {
	Signer  ghost.Address
	Signers []ghost.Address
}

var _ x.Authenticator = &Auth{}

// HasAddress returns true if the address is among the configured
// signers.
func (a *Auth) HasAddress(ctx ghost.Context, addr ghost.Address) bool {
	if a.Signer != nil && a.Signer.Equals(addr) {
		return true
	}
	for _, s := range a.Signers {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}

// Accounts knows a fixed set of addresses. With AllowAll set every
// address resolves to an existing account, which is what most tests
// want.
type Accounts struct {
	Known    []ghost.Address
	AllowAll bool
}

var _ x.Accounts = &Accounts{}

// Exists returns true if the address is a known account.
func (a *Accounts) Exists(ctx ghost.Context, addr ghost.Address) bool {
	if a.AllowAll {
		return true
	}
	for _, k := range a.Known {
		if k.Equals(addr) {
			return true
		}
	}
	return false
}

// Notifier records every notification flushed to it, in order.
type Notifier struct {
	Notifications []ghost.Notification
}

var _ ghost.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(note ghost.Notification) {
	n.Notifications = append(n.Notifications, note)
}

// RandomAddress returns a new valid address that no other caller
// holds keys for.
func RandomAddress() ghost.Address {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		panic(err)
	}
	return ghost.NewAddress(raw)
}

// WithBlockTime returns a context carrying the given block time,
// declared valid for handlers that check expiry.
func WithBlockTime(t time.Time) ghost.Context {
	return ghost.WithBlockTime(context.Background(), t)
}
