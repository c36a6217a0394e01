/*
params.go - Statutory parameter snapshot

PURPOSE:
  Holds one immutable snapshot of the statutory rates a payroll run is
  computed against: minimum wage, social-insurance rates, the reserve-fund
  rate, overtime multipliers, and the income-tax bracket table. Every
  calculator takes the snapshot as an explicit argument - there are no
  module-level rate constants anywhere in the engine.

WHY EXPLICIT SNAPSHOTS?
  - Historical recomputation: run 2024 payroll against 2024 parameters
  - Deterministic tests: alter a rate without mutating shared state
  - Auditability: every snapshot carries an effective-year marker

IMMUTABILITY:
  Construction validates everything up front and fails with
  ConfigurationError; after that the snapshot is read-only. "Updates"
  derive a new validated snapshot (WithMinimumWage, WithBrackets, ...).

KNOWN AMBIGUITY:
  The employer social-insurance rate circulates as both 0.1115 and 0.1215
  depending on the source. The snapshot takes a single caller-chosen value
  and makes the choice explicit; see factory presets for both.

SEE ALSO:
  - concepts.go: Concept catalog carried alongside the snapshot
  - factory/params.go: JSON parsing and per-year presets
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX BRACKETS
// =============================================================================

// TaxBracket is one row of the progressive income-tax table. Amounts are
// annual. Tax for a basis x inside the bracket is
// AccumulatedBase + (x - Lower) * MarginalRate.
type TaxBracket struct {
	Lower           decimal.Decimal
	Upper           decimal.Decimal
	MarginalRate    decimal.Decimal
	AccumulatedBase decimal.Decimal
}

// =============================================================================
// PARAMETERS - One immutable statutory snapshot
// =============================================================================

// OvertimeMultipliers are the statutory surcharge factors for the three
// overtime buckets.
type OvertimeMultipliers struct {
	Pct25  decimal.Decimal // 1.25
	Pct50  decimal.Decimal // 1.50
	Pct100 decimal.Decimal // 2.00
}

// Parameters is the statutory snapshot all calculators read from.
// Construct with NewParameters; the zero value is not usable.
type Parameters struct {
	// EffectiveYear stamps which statutory year the snapshot encodes.
	// Required: bracket tables without a year marker are not accepted.
	EffectiveYear int

	MinimumWage Money

	WorkerSocialInsuranceRate   decimal.Decimal
	EmployerSocialInsuranceRate decimal.Decimal
	ReserveFundRate             decimal.Decimal
	SeveranceNoticeRate         decimal.Decimal

	Overtime OvertimeMultipliers

	WeeklyHours         int
	VacationDaysPerYear int
	MaxIndemnityYears   int

	Brackets []TaxBracket

	Catalog *Catalog
}

// NewParameters validates and freezes a snapshot. Any violation returns
// ConfigurationError; a snapshot is either fully valid or not built.
func NewParameters(p Parameters) (*Parameters, error) {
	if p.EffectiveYear == 0 {
		return nil, &ConfigurationError{Field: "effectiveYear", Reason: "snapshot requires an effective-year marker"}
	}
	if !p.MinimumWage.IsPositive() {
		return nil, &ConfigurationError{Field: "minimumWage", Reason: "must be positive"}
	}
	for _, r := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"workerSocialInsuranceRate", p.WorkerSocialInsuranceRate},
		{"employerSocialInsuranceRate", p.EmployerSocialInsuranceRate},
		{"reserveFundRate", p.ReserveFundRate},
		{"severanceNoticeRate", p.SeveranceNoticeRate},
	} {
		if r.rate.IsNegative() || r.rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, &ConfigurationError{Field: r.name, Reason: "rate must be in [0, 1]"}
		}
	}
	one := decimal.NewFromInt(1)
	for _, m := range []struct {
		name string
		mult decimal.Decimal
	}{
		{"overtime.25", p.Overtime.Pct25},
		{"overtime.50", p.Overtime.Pct50},
		{"overtime.100", p.Overtime.Pct100},
	} {
		if m.mult.LessThan(one) {
			return nil, &ConfigurationError{Field: m.name, Reason: "multiplier must be >= 1"}
		}
	}
	if p.WeeklyHours <= 0 {
		return nil, &ConfigurationError{Field: "weeklyHours", Reason: "must be positive"}
	}
	if p.VacationDaysPerYear <= 0 {
		return nil, &ConfigurationError{Field: "vacationDaysPerYear", Reason: "must be positive"}
	}
	if p.MaxIndemnityYears <= 0 {
		return nil, &ConfigurationError{Field: "maxIndemnityYears", Reason: "must be positive"}
	}
	if err := validateBrackets(p.Brackets); err != nil {
		return nil, err
	}
	if p.Catalog == nil {
		p.Catalog = DefaultCatalog()
	}

	snapshot := p
	snapshot.Brackets = make([]TaxBracket, len(p.Brackets))
	copy(snapshot.Brackets, p.Brackets)
	return &snapshot, nil
}

func validateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "table is empty"}
	}
	if !brackets[0].Lower.IsZero() {
		return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "first bracket must start at 0"}
	}
	prev := brackets[0]
	if err := validateBracketRow(prev, 0); err != nil {
		return err
	}
	for i := 1; i < len(brackets); i++ {
		b := brackets[i]
		if err := validateBracketRow(b, i); err != nil {
			return err
		}
		// Contiguity: each bracket starts exactly where the previous ends.
		if !b.Lower.Equal(prev.Upper) {
			return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "brackets must be contiguous and ascending"}
		}
		if b.MarginalRate.LessThan(prev.MarginalRate) {
			return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "marginal rates must not decrease"}
		}
		if b.AccumulatedBase.LessThan(prev.AccumulatedBase) {
			return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "accumulated bases must not decrease"}
		}
		prev = b
	}
	return nil
}

func validateBracketRow(b TaxBracket, i int) error {
	if b.Lower.IsNegative() {
		return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "bounds must be non-negative"}
	}
	if !b.Upper.GreaterThan(b.Lower) {
		return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "upper bound must exceed lower bound"}
	}
	if b.MarginalRate.IsNegative() || b.MarginalRate.GreaterThan(decimal.NewFromInt(1)) {
		return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "marginal rate must be in [0, 1]"}
	}
	if b.AccumulatedBase.IsNegative() {
		return &ConfigurationError{Field: "incomeTaxBrackets", Reason: "accumulated base must be non-negative"}
	}
	return nil
}

// =============================================================================
// DERIVED SNAPSHOTS - "Updates" produce new validated snapshots
// =============================================================================

// WithMinimumWage derives a new snapshot with a different minimum wage.
func (p *Parameters) WithMinimumWage(wage Money) (*Parameters, error) {
	next := *p
	next.MinimumWage = wage
	return NewParameters(next)
}

// WithBrackets derives a new snapshot with a different bracket table.
func (p *Parameters) WithBrackets(year int, brackets []TaxBracket) (*Parameters, error) {
	next := *p
	next.EffectiveYear = year
	next.Brackets = brackets
	return NewParameters(next)
}

// WithEmployerRate derives a new snapshot with the chosen employer
// social-insurance rate (see the 0.1115 / 0.1215 ambiguity note above).
func (p *Parameters) WithEmployerRate(rate decimal.Decimal) (*Parameters, error) {
	next := *p
	next.EmployerSocialInsuranceRate = rate
	return NewParameters(next)
}

// =============================================================================
// TAX LOOKUP
// =============================================================================

// BracketFor locates the single bracket containing an annual basis.
// Brackets partition [0, +inf): a basis on a boundary belongs to the
// bracket it opens, and any basis beyond the table falls in the last row.
func (p *Parameters) BracketFor(annualBasis decimal.Decimal) TaxBracket {
	last := len(p.Brackets) - 1
	for i, b := range p.Brackets {
		if i == last {
			return b
		}
		if annualBasis.GreaterThanOrEqual(b.Lower) && annualBasis.LessThan(b.Upper) {
			return b
		}
	}
	return p.Brackets[last]
}

// AnnualTax computes the progressive income tax for an annualized basis.
// Negative bases (possible when deductions dominate a lenient run) tax to
// zero but are never clipped anywhere else.
func (p *Parameters) AnnualTax(annualBasis decimal.Decimal) Money {
	if annualBasis.IsNegative() {
		return ZeroMoney()
	}
	b := p.BracketFor(annualBasis)
	tax := b.AccumulatedBase.Add(annualBasis.Sub(b.Lower).Mul(b.MarginalRate))
	return Money{Value: tax}
}
