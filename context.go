package ghost

import (
	"context"
	"time"

	"github.com/ghostchain/ghost/errors"
)

// Context is just an alias for the standard implementation.
// We use functions to extend and query the data.
type Context = context.Context

type contextKey int // local to the ghost module

const (
	contextKeyBlockTime contextKey = iota
)

// WithBlockTime sets the ledger visible "now" for the duration of a
// single operation. Every deadline comparison must use this value,
// never the wall clock of the machine running the code.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the ledger visible "now" as set on the context.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrState, "block time not present in the context")
	}
	return val, nil
}

// IsExpired returns true if given time is in the past as compared to
// the "now" as declared for the operation. Expiration is inclusive,
// meaning that if current time is equal to the expiration time then
// this function returns true.
//
// This function panics if the block time is not present in the
// context. All operations are given a block time, so a missing value
// is a broken setup, not a runtime condition.
func IsExpired(ctx Context, t UnixTime) bool {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return t <= AsUnixTime(now)
}
