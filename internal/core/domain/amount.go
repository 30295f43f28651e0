package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₱"

// Amount is a monetary value normalized at the JSON boundary. The server
// sends it as a string, a number, or null; it is held as an exact count of
// hundredths (rounded half away from zero).
type Amount struct {
	cents int64
	valid bool
}

// NewAmount builds an Amount from hundredths.
func NewAmount(cents int64) Amount { return Amount{cents: cents, valid: true} }

// ParseAmount parses a decimal literal such as "1500", "1500.5" or "1.5e3".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("parse amount: empty")
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Amount{}, fmt.Errorf("parse amount %q: not a number", s)
	}
	r.Mul(r, big.NewRat(100, 1))

	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	neg := num.Sign() < 0
	num.Abs(num)

	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	if new(big.Int).Mul(m, big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return Amount{}, fmt.Errorf("parse amount %q: out of range", s)
	}
	cents := q.Int64()
	if neg {
		cents = -cents
	}
	return Amount{cents: cents, valid: true}, nil
}

// Valid reports whether the amount was present and numeric.
func (a Amount) Valid() bool { return a.valid }

// Cents returns the amount in hundredths.
func (a Amount) Cents() int64 { return a.cents }

// String renders the fixed-point value with two decimals, or "-" when absent.
func (a Amount) String() string {
	if !a.valid {
		return "-"
	}
	sign := ""
	c := a.cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// Display renders the amount with the currency symbol, or "-" when absent.
func (a Amount) Display() string {
	if !a.valid {
		return "-"
	}
	return CurrencySymbol + a.String()
}

// UnmarshalJSON accepts a JSON string, number, or null. Strings that are
// not numeric decode as an absent amount.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}
	text := string(b)
	if b[0] == '"' {
		s, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		parsed, err := ParseAmount(s)
		if err != nil {
			*a = Amount{}
			return nil
		}
		*a = parsed
		return nil
	}
	parsed, err := ParseAmount(text)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = parsed
	return nil
}

// MarshalJSON writes the normalized decimal as a string, or null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}
