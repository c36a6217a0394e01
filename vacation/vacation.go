/*
Package vacation tracks accrued versus taken vacation days and validates
new requests.

PURPOSE:
  Maintains, per worker, the statutory vacation position:
  - accrued: floor(yearsWorked * 15) days of right
  - taken:   approved vacation days in the worker's history
  - paid:    days cashed out at settlement or on request
  - balance: accrued - taken - paid, never reported negative

HISTORY AS A LEDGER:
  The worker's vacation history is an append-only list of dated entries
  (taken ranges, paid-out day counts, manual adjustments). The engine
  never mutates it; the host owns persistence and passes the history in
  by value on every call. Corrections are new adjustment entries, not
  edits.

OVERDRAW HANDLING:
  A balance can never go negative. When taken+paid exceed accrued, the
  engine reports balance 0 and flags the position overdrawn; request
  validation returns an explicit reason instead of failing.

SEE ALSO:
  - liquidation: Cashes out the remaining balance on termination
*/
package vacation

import (
	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/engine"
)

// =============================================================================
// HISTORY - Append-only vacation entries (host-persisted)
// =============================================================================

// EntryKind classifies a vacation history entry.
type EntryKind string

const (
	// EntryTaken records an approved time-off range.
	EntryTaken EntryKind = "taken"
	// EntryPaid records days cashed out instead of taken.
	EntryPaid EntryKind = "paid"
	// EntryAdjustment records a manual correction in days (may be negative).
	EntryAdjustment EntryKind = "adjustment"
)

// Entry is one immutable vacation history record.
type Entry struct {
	ID    string
	Kind  EntryKind
	Start engine.Date // zero for paid/adjustment entries
	End   engine.Date
	Days  int
}

// History is the worker's complete vacation record, oldest first.
type History []Entry

// =============================================================================
// BALANCE
// =============================================================================

// Balance is the vacation position at a point in time.
type Balance struct {
	Accrued int
	Taken   int
	Paid    int
	// Balance is accrued - taken - paid, floored at zero.
	Balance int
	// Overdrawn is set when taken+paid exceed accrued; the negative
	// remainder is never reported as a balance.
	Overdrawn bool
}

// BalanceAt computes the vacation position for a worker at a date.
// Accrual is floor(yearsWorked * vacationDaysPerYear); entries dated after
// the given date are ignored.
func BalanceAt(worker engine.Worker, history History, at engine.Date, params *engine.Parameters) Balance {
	years := worker.YearsOfServiceAt(at)
	accrued := int(years.Mul(decimal.NewFromInt(int64(params.VacationDaysPerYear))).IntPart())

	b := Balance{Accrued: accrued}
	for _, e := range history {
		if !e.effectiveDate().IsZero() && e.effectiveDate().After(at) {
			continue
		}
		switch e.Kind {
		case EntryTaken:
			b.Taken += e.Days
		case EntryPaid:
			b.Paid += e.Days
		case EntryAdjustment:
			b.Accrued += e.Days
		}
	}

	remaining := b.Accrued - b.Taken - b.Paid
	if remaining < 0 {
		b.Overdrawn = true
		remaining = 0
	}
	b.Balance = remaining
	return b
}

func (e Entry) effectiveDate() engine.Date {
	if !e.Start.IsZero() {
		return e.Start
	}
	return e.End
}

// =============================================================================
// REQUEST VALIDATION
// =============================================================================

// Request is a proposed vacation range.
type Request struct {
	Start engine.Date
	End   engine.Date
	Days  int
}

// ValidationResult is the outcome of request validation. OK means the
// request can be approved; every other value names the rejection reason.
type ValidationResult string

const (
	ResultOK                  ValidationResult = "ok"
	ResultInsufficientBalance ValidationResult = "insufficient_balance"
	ResultOverlapsExisting    ValidationResult = "overlaps_existing_request"
	ResultBeforeHireDate      ValidationResult = "before_hire_date"
	ResultAfterTermination    ValidationResult = "after_termination_date"
	ResultNegativeRange       ValidationResult = "negative_range"
)

// ValidateRequest checks a proposed vacation range against the worker's
// record and history. Overdraw is a validation outcome, not an error.
func ValidateRequest(worker engine.Worker, history History, req Request, params *engine.Parameters) ValidationResult {
	if req.Days <= 0 || req.End.Before(req.Start) {
		return ResultNegativeRange
	}
	if req.Start.Before(worker.HireDate) {
		return ResultBeforeHireDate
	}
	if worker.TerminationDate != nil && req.End.After(*worker.TerminationDate) {
		return ResultAfterTermination
	}
	requested := engine.Interval{Start: req.Start, End: req.End}
	for _, e := range history {
		if e.Kind != EntryTaken || e.Start.IsZero() {
			continue
		}
		if _, overlaps := requested.Overlap(engine.Interval{Start: e.Start, End: e.End}); overlaps {
			return ResultOverlapsExisting
		}
	}
	balance := BalanceAt(worker, history, req.Start, params)
	if req.Days > balance.Balance {
		return ResultInsufficientBalance
	}
	return ResultOK
}

// CheckOverdraw returns an OverdrawnVacationError when a requested day
// count exceeds the accrued balance, for callers that want the structured
// form of the insufficient-balance outcome.
func CheckOverdraw(balance Balance, requested int) error {
	if requested > balance.Balance {
		return &engine.OverdrawnVacationError{Accrued: balance.Accrued, Requested: requested}
	}
	return nil
}

// =============================================================================
// MONETARY VALUE
// =============================================================================

// Payout values vacation days in money: days * baseSalary/30. A cash-out
// of unused days at settlement is subject to social insurance; days taken
// as time off carry no deduction.
func Payout(days int, baseSalary engine.Money) engine.Money {
	if days <= 0 {
		return engine.ZeroMoney()
	}
	daily := baseSalary.DivInt(engine.CommercialMonthDays)
	return daily.MulInt(int64(days)).RoundCents()
}
