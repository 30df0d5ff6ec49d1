package x

import (
	"github.com/ghostchain/ghost"
)

// Authenticator is the authorization authority of the ledger. The host
// environment decides which principals authorized the current
// operation before any ledger logic runs; handlers only ask.
// This should be passed into the constructor of handlers, so we can
// plug in another authentication system, rather than hard-coding one
// for all extensions.
type Authenticator interface {
	// HasAddress checks if the given address authorized the current
	// operation.
	HasAddress(ctx ghost.Context, addr ghost.Address) bool
}

// Accounts resolves whether an address belongs to a registered
// account. Account creation is outside of the ledger, this is a read
// only collaborator.
type Accounts interface {
	Exists(ctx ghost.Context, addr ghost.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// HasAddress returns true iff any chained Authenticator approves.
func (m MultiAuth) HasAddress(ctx ghost.Context, addr ghost.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
