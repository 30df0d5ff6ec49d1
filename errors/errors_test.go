package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedErrors(t *testing.T) {
	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"wrapped once": {
			kind: ErrNotFound,
			err:  Wrap(ErrNotFound, "no balance object found"),
			want: true,
		},
		"wrapped twice": {
			kind: ErrUnauthorized,
			err:  Wrap(Wrap(ErrUnauthorized, "inner"), "outer"),
			want: true,
		},
		"bare root": {
			kind: ErrExpired,
			err:  ErrExpired,
			want: true,
		},
		"different root": {
			kind: ErrNotFound,
			err:  Wrap(ErrDuplicate, "token with symbol already exists"),
			want: false,
		},
		"stdlib error": {
			kind: ErrNotFound,
			err:  fmt.Errorf("not found"),
			want: false,
		},
		"nil kind nil error": {
			kind: nil,
			err:  nil,
			want: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Is(tc.err))
		})
	}
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "whatever"))
	assert.Nil(t, Wrapf(nil, "whatever %d", 42))
}

func TestWrapKeepsReason(t *testing.T) {
	err := Wrap(ErrInsufficientAmount, "overdrawn balance")
	assert.Equal(t, "overdrawn balance: insufficient amount", err.Error())
}

func TestRegisterPanicsOnDuplicateCode(t *testing.T) {
	assert.Panics(t, func() {
		Register(2, "conflicting with unauthorized")
	})
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("mayday")
	}()
	assert.True(t, ErrPanic.Is(err))
}
