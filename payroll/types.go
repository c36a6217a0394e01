/*
Package payroll computes one worker's payroll line for one period.

PURPOSE:
  Given a worker record, the period's inputs (days worked, overtime hours,
  additional concept lines, loan/advance repayments) and a statutory
  parameter snapshot, Calculate produces the full monetary breakdown:
  gross earnings, worker social insurance, income tax, other deductions,
  net pay, and the employer-side informational accruals.

KEY TYPES:
  - PeriodInput: One period's raw inputs (exists for a single run)
  - ConceptLine: An additional earning/deduction line by catalog code
  - Line: The computed output, with every evaluated line item

PURITY:
  Calculate is a pure function of its arguments. Two identical calls yield
  identical lines; nothing is retained, nothing is persisted here.

SEE ALSO:
  - calculator.go: The calculation itself
  - engine/concepts.go: How concept codes resolve to statutory flags
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/engine"
)

// =============================================================================
// INPUTS
// =============================================================================

// OvertimeHours splits overtime into the three statutory surcharge buckets.
type OvertimeHours struct {
	Pct25  decimal.Decimal
	Pct50  decimal.Decimal
	Pct100 decimal.Decimal
}

// ConceptLine is one additional earning or deduction for the period,
// identified by catalog code. The optional flags override the catalog's
// social-insurance and income-tax applicability for this line only.
type ConceptLine struct {
	Code   string
	Amount engine.Money

	AppliesToSocialInsurance *bool
	AppliesToIncomeTax       *bool
}

// PeriodInput carries one worker's raw inputs for one payroll run.
// It exists for a single run and is never retained by the engine.
type PeriodInput struct {
	// Label identifies the period: "2024-06" for monthly, "2024-W23" for
	// weekly frequencies.
	Label string

	// End is the period's final calendar day. Monthly labels derive it
	// automatically; weekly and biweekly inputs must set it.
	End engine.Date

	// DaysWorked in the period, 0 <= d <= period length. The period length
	// follows the worker's pay frequency (30/15/7 commercial days).
	DaysWorked int

	Overtime OvertimeHours

	// Extra concept lines beyond base pay and overtime.
	Concepts []ConceptLine

	// Outstanding loan and advance repayments withheld this period.
	Loans    engine.Money
	Advances engine.Money
}

// =============================================================================
// OUTPUT
// =============================================================================

// EvaluatedConcept is one concept line after catalog resolution.
type EvaluatedConcept struct {
	Code      string
	Name      string
	Kind      engine.ConceptKind
	Amount    engine.Money
	Insurable bool
	Taxable   bool
}

// EmployerAccruals are the informational employer-side amounts for the
// period. They are not part of the worker's net pay.
type EmployerAccruals struct {
	SocialInsurance engine.Money
	ReserveFund     engine.Money
	Thirteenth      engine.Money
	Fourteenth      engine.Money
	Vacation        engine.Money
}

// Line is the computed payroll line for one worker and one period.
// Every monetary field is rounded to 2 decimal places; GrossEarnings is
// the rounded sum of the rounded earning lines.
type Line struct {
	WorkerID   string
	Period     string
	DaysWorked int

	BasePay     engine.Money
	Overtime25  engine.Money
	Overtime50  engine.Money
	Overtime100 engine.Money
	Extras      []EvaluatedConcept

	GrossEarnings engine.Money

	InsurableBasis engine.Money
	TaxableBasis   engine.Money

	SocialInsuranceWorker engine.Money
	IncomeTax             engine.Money
	OtherDeductions       engine.Money
	Loans                 engine.Money
	Advances              engine.Money

	// NetPay may be negative; a worker can end a period owing a balance.
	// The engine reports it as-is, never clipped.
	NetPay engine.Money

	Employer EmployerAccruals

	// Warnings record lenient-mode concept fallbacks.
	Warnings []string
}
