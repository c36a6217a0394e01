/*
Package liquidation composes the full end-of-employment settlement.

PURPOSE:
  On termination, every accrual the worker is owed comes due at once:
  the final partial month's salary, unused vacation days cashed out, the
  proportional thirteenth and fourteenth bonuses, the current year's
  reserve fund, and - depending on the termination cause - indemnity and
  notice compensation. This package calls the dedicated calculator for
  each component and sums them.

TERMINATION CAUSES:
  resignation              no indemnity, no notice-in-lieu
  dismissal-without-cause  indemnity + notice-in-lieu + employer-notice bonus
  dismissal-with-cause     no indemnity, no notice-in-lieu
  mutual-agreement         half indemnity + notice-in-lieu
  contract-expiry          notice-in-lieu only

FAILURE SEMANTICS:
  Termination before hire fails with ErrInvalidTermination. Computational
  errors surface to the caller; the engine never silently zeroes a
  component. A negative net settlement is reported as such.

SEE ALSO:
  - benefits: Proportional bonuses and reserve fund
  - vacation: Balance and cash-out value
  - payroll: The per-period line the final salary mirrors
*/
package liquidation

import (
	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/benefits"
	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/payroll"
	"github.com/andino/payroll-engine/vacation"
)

// =============================================================================
// TERMINATION CAUSE
// =============================================================================

// Cause is the legal ground for ending the employment relationship.
type Cause string

const (
	CauseResignation           Cause = "resignation"
	CauseDismissalWithoutCause Cause = "dismissal_without_cause"
	CauseDismissalWithCause    Cause = "dismissal_with_cause"
	CauseMutualAgreement       Cause = "mutual_agreement"
	CauseContractExpiry        Cause = "contract_expiry"
)

func (c Cause) valid() bool {
	switch c {
	case CauseResignation, CauseDismissalWithoutCause, CauseDismissalWithCause,
		CauseMutualAgreement, CauseContractExpiry:
		return true
	}
	return false
}

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// Input carries everything a settlement needs beyond the worker record.
// Earnings are the host-persisted monthly insurable totals used for the
// proportional bonuses and the current-year reserve fund.
type Input struct {
	TerminationDate engine.Date
	Cause           Cause

	// OutstandingDebts is the sum of loan and advance balances withheld
	// from the settlement.
	OutstandingDebts engine.Money

	VacationHistory vacation.History
	Earnings        []benefits.MonthlyEarning
}

// Result is the full settlement breakdown. Every component is rounded to
// cents; NetSettlement is the algebraic sum and may be negative.
type Result struct {
	WorkerID        string
	TerminationDate engine.Date
	Cause           Cause
	YearsWorked     decimal.Decimal

	FinalSalary         engine.Money
	VacationDays        int
	VacationPayout      engine.Money
	Thirteenth          engine.Money
	Fourteenth          engine.Money
	ReserveFund         engine.Money
	Indemnity           engine.Money
	NoticeInLieu        engine.Money
	EmployerNoticeBonus engine.Money

	Deductions    engine.Money
	NetSettlement engine.Money

	// NewStatus is the status the host should persist for the worker
	// after a successful settlement.
	NewStatus engine.WorkerStatus
}

// =============================================================================
// SETTLEMENT CALCULATION
// =============================================================================

// Calculate composes the full settlement for a terminated worker.
func Calculate(worker engine.Worker, in Input, params *engine.Parameters) (*Result, error) {
	if params == nil {
		return nil, &engine.ConfigurationError{Field: "params", Reason: "snapshot required"}
	}
	if err := worker.Validate(); err != nil {
		return nil, err
	}
	if in.TerminationDate.IsZero() {
		return nil, &engine.InputError{Field: "terminationDate", Reason: "required"}
	}
	if in.TerminationDate.Before(worker.HireDate) {
		return nil, engine.ErrInvalidTermination
	}
	if !in.Cause.valid() {
		return nil, &engine.InputError{Field: "cause", Reason: "unknown termination cause"}
	}

	termination := in.TerminationDate
	years := engine.YearsWorked(worker.HireDate, termination)

	r := &Result{
		WorkerID:        worker.ID,
		TerminationDate: termination,
		Cause:           in.Cause,
		YearsWorked:     years,
		NewStatus:       engine.StatusRetired,
	}

	// 1. Pro-rated salary for the final partial month. A termination on
	// the month's last calendar day pays the full commercial month.
	finalDays := payroll.DaysForMidPeriodTermination(termination)
	r.FinalSalary = worker.BaseSalary.
		DivInt(engine.CommercialMonthDays).
		MulInt(int64(finalDays)).
		RoundCents()

	// 2. Unused vacation days cashed out at the daily rate.
	balance := vacation.BalanceAt(worker, in.VacationHistory, termination, params)
	r.VacationDays = balance.Balance
	r.VacationPayout = vacation.Payout(balance.Balance, worker.BaseSalary)

	// 3-4. Proportional statutory bonuses, cut off at termination.
	r.Thirteenth = benefits.ThirteenthProportional(
		worker, in.Earnings, engine.ThirteenthWindowFor(termination), termination)
	r.Fourteenth = benefits.FourteenthProportional(
		worker, engine.FourteenthWindowFor(termination), termination, params)

	// 5. Reserve fund accrued in the termination year.
	r.ReserveFund = benefits.ReserveBalance(
		worker, earningsInYear(in.Earnings, termination.Year()), params)

	// 6. Indemnity, for unlawful termination only. Years cap at the
	// statutory maximum.
	cappedYears := decimal.Min(years, decimal.NewFromInt(int64(params.MaxIndemnityYears)))
	switch in.Cause {
	case CauseDismissalWithoutCause:
		r.Indemnity = worker.BaseSalary.Mul(cappedYears).RoundCents()
	case CauseMutualAgreement:
		r.Indemnity = worker.BaseSalary.Mul(cappedYears).DivInt(2).RoundCents()
	default:
		r.Indemnity = engine.ZeroMoney()
	}

	// 7. Notice-in-lieu, except for resignation and dismissal with cause.
	notice := worker.BaseSalary.Mul(params.SeveranceNoticeRate).Mul(years).RoundCents()
	switch in.Cause {
	case CauseResignation, CauseDismissalWithCause:
		r.NoticeInLieu = engine.ZeroMoney()
	default:
		r.NoticeInLieu = notice
	}

	// 8. Employer-notice bonus, only on dismissal without cause.
	if in.Cause == CauseDismissalWithoutCause {
		r.EmployerNoticeBonus = notice
	} else {
		r.EmployerNoticeBonus = engine.ZeroMoney()
	}

	// Deductions and net. No component clips to non-negative; a worker
	// whose debts exceed the settlement owes the difference.
	r.Deductions = in.OutstandingDebts.RoundCents()
	r.NetSettlement = engine.SumRounded(
		r.FinalSalary, r.VacationPayout, r.Thirteenth, r.Fourteenth,
		r.ReserveFund, r.Indemnity, r.NoticeInLieu, r.EmployerNoticeBonus,
	).Sub(r.Deductions).RoundCents()

	return r, nil
}

func earningsInYear(earnings []benefits.MonthlyEarning, year int) []benefits.MonthlyEarning {
	var out []benefits.MonthlyEarning
	for _, e := range earnings {
		if e.Month.Year() == year {
			out = append(out, e)
		}
	}
	return out
}
