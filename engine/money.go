/*
Package engine provides the core payroll calculation substrate.

PURPOSE:
  This package contains the shared building blocks every calculator in the
  system depends on: fixed-point money arithmetic, civil-date calculus,
  the statutory parameter snapshot, and the concept catalog. Whether
  computing a monthly payroll line, a statutory bonus, or a full
  settlement, the same substrate handles rounding, day counts, and
  parameter lookups.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A monetary amount backed by decimal.Decimal (never float64)
  - RoundCents: HALF-UP rounding to 2 places, ties away from zero
  - Round4: 4-place rounding for intermediates (e.g., hourly rates)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal avoids binary floating-point errors
  2. Late rounding: intermediates keep full precision; rounding happens at
     the last operation producing a user-visible amount
  3. Reconciliation: a displayed total is the rounded sum of rounded lines

USAGE:
  salary := engine.MustMoney("460.00")
  daily := salary.DivInt(30)               // full precision
  pay := daily.MulInt(16).RoundCents()     // 245.33

SEE ALSO:
  - date.go: Day counts and accrual windows
  - params.go: Statutory parameter snapshot
  - concepts.go: Earning/deduction catalog
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point monetary amount
// =============================================================================

// Money is a monetary amount in the national currency unit.
// All engine arithmetic goes through this type; binary floating point is
// never used for currency.
type Money struct {
	Value decimal.Decimal
}

// NewMoney parses a decimal string such as "460.00".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustMoney parses a decimal string and panics on failure.
// Intended for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("engine: invalid money literal: " + s)
	}
	return Money{Value: d}
}

func MoneyFromInt(n int64) Money     { return Money{Value: decimal.NewFromInt(n)} }
func MoneyFromFloat(f float64) Money { return Money{Value: decimal.NewFromFloat(f)} }
func ZeroMoney() Money               { return Money{Value: decimal.Zero} }

// MustRate parses a rate literal such as "0.0945". Rates are plain
// decimals, not Money; this helper exists so parameter tables read cleanly.
func MustRate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("engine: invalid rate literal: " + s)
	}
	return d
}

// Arithmetic. Results carry full precision; round explicitly.
func (m Money) Add(o Money) Money           { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money           { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money { return Money{Value: m.Value.Div(s)} }
func (m Money) MulInt(n int64) Money        { return m.Mul(decimal.NewFromInt(n)) }
func (m Money) DivInt(n int64) Money        { return m.Div(decimal.NewFromInt(n)) }
func (m Money) Neg() Money                  { return Money{Value: m.Value.Neg()} }

// Comparison.
func (m Money) IsZero() bool             { return m.Value.IsZero() }
func (m Money) IsNegative() bool         { return m.Value.IsNegative() }
func (m Money) IsPositive() bool         { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool       { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool   { return m.Value.LessThan(o.Value) }

func (m Money) Min(o Money) Money {
	if m.LessThan(o) {
		return m
	}
	return o
}

func (m Money) Max(o Money) Money {
	if m.GreaterThan(o) {
		return m
	}
	return o
}

// RoundCents rounds to 2 decimal places, HALF-UP with ties away from zero.
// Idempotent: RoundCents(RoundCents(x)) == RoundCents(x).
func (m Money) RoundCents() Money {
	return Money{Value: m.Value.Round(2)}
}

// Round4 rounds to 4 decimal places. Used for intermediates that the
// statute fixes at 4 places before further use (e.g., hourly rates).
func (m Money) Round4() Money {
	return Money{Value: m.Value.Round(4)}
}

// String renders the amount with 2 fractional digits.
func (m Money) String() string {
	return m.Value.StringFixed(2)
}

// Float64 is for JSON serialization at the host boundary only.
// Engine arithmetic never round-trips through it.
func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

// MarshalJSON renders the amount as a quoted fixed-point string, e.g. "460.00".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", s, err)
	}
	m.Value = d
	return nil
}

// SumRounded returns the rounded sum of the individually rounded amounts.
// This is the reconciliation rule for every displayed total: the total is
// the rounded sum of the rounded lines.
func SumRounded(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Value.Round(2))
	}
	return Money{Value: total.Round(2)}
}
