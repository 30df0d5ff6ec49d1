package coin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ghostchain/ghost/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{1,7}$`).MatchString

const (
	// MaxAmount is the largest amount we accept
	MaxAmount int64 = (1 << 62) - 1
	// MinAmount is the lowest amount we accept
	MinAmount = -MaxAmount

	// MaxPrecision is the maximum number of decimal places a symbol
	// may declare.
	MaxPrecision uint8 = 18
)

// Symbol identifies a currency as a code plus the number of decimal
// places all amounts of that currency carry. Two symbols are
// interchangeable only when both the code and the precision match.
// There is no rescaling between precisions, a mismatch is an error.
type Symbol struct {
	Code      string
	Precision uint8
}

// NewSymbol creates a symbol from a currency code and precision.
func NewSymbol(code string, precision uint8) Symbol {
	return Symbol{Code: code, Precision: precision}
}

// Equals returns true when both code and precision match.
func (s Symbol) Equals(o Symbol) bool {
	return s.Code == o.Code && s.Precision == o.Precision
}

// Validate ensures the symbol declares a valid currency code and a
// supported precision.
func (s Symbol) Validate() error {
	if !IsCC(s.Code) {
		return errors.Wrapf(errors.ErrSymbol, "invalid symbol name: %q", s.Code)
	}
	if s.Precision > MaxPrecision {
		return errors.Wrapf(errors.ErrSymbol, "unsupported precision: %d", s.Precision)
	}
	return nil
}

// String returns the currency code.
func (s Symbol) String() string {
	return s.Code
}

// Coin is a fixed-precision amount of a single currency. Amount is
// expressed in the smallest unit of the symbol, so 100.00 KC with
// precision 2 is Amount 10000.
type Coin struct {
	Amount int64
	Symbol Symbol
}

// NewCoin creates a new coin object
func NewCoin(amount int64, sym Symbol) Coin {
	return Coin{Amount: amount, Symbol: sym}
}

// Add combines two coins. Returns an error if they are of different
// symbols, or if the combination would cause an overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameSymbol(o) {
		return Coin{}, errors.Wrapf(errors.ErrSymbol, "adding %s to %s", o.Symbol, c.Symbol)
	}
	n := c.Amount + o.Amount
	// overflow detection on same-sign inputs
	if c.Amount > 0 && o.Amount > 0 && n < 0 {
		return Coin{}, errors.ErrOverflow
	}
	if c.Amount < 0 && o.Amount < 0 && n > 0 {
		return Coin{}, errors.ErrOverflow
	}
	if n < MinAmount || n > MaxAmount {
		return Coin{}, errors.ErrOverflow
	}
	c.Amount = n
	return c, nil
}

// Subtract given amount.
func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

// Negative returns the opposite coins value
//
//	c.Add(c.Negative()).IsZero() == true
func (c Coin) Negative() Coin {
	return Coin{Amount: -c.Amount, Symbol: c.Symbol}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Amount == o.Amount && c.Symbol.Equals(o.Symbol)
}

// IsZero returns true if the amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the amount is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsNonNegative returns true if the amount is 0 or higher
func (c Coin) IsNonNegative() bool {
	return c.Amount >= 0
}

// IsGTE returns true if c is the same symbol and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameSymbol(o) && c.Amount >= o.Amount
}

// SameSymbol returns true if they have the same currency
func (c Coin) SameSymbol(o Coin) bool {
	return c.Symbol.Equals(o.Symbol)
}

// Validate ensures that the coin has a valid symbol and the amount is
// within the valid range. It accepts negative values, so you may want
// to make other checks in your business logic.
func (c Coin) Validate() error {
	if err := c.Symbol.Validate(); err != nil {
		return err
	}
	if c.Amount < MinAmount || c.Amount > MaxAmount {
		return errors.ErrOverflow
	}
	return nil
}

// String provides a human readable representation of the coin, in the
// usual "100.00 KC" asset notation. The representation is stable and
// used when building signing digests, do not change it lightly.
func (c Coin) String() string {
	amount := c.Amount
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	p := int(c.Symbol.Precision)
	if p == 0 {
		return fmt.Sprintf("%s%s %s", sign, digits, c.Symbol.Code)
	}
	if len(digits) <= p {
		digits = strings.Repeat("0", p-len(digits)+1) + digits
	}
	cut := len(digits) - p
	return fmt.Sprintf("%s%s.%s %s", sign, digits[:cut], digits[cut:], c.Symbol.Code)
}
