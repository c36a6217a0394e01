/*
Package benefits computes the statutory bonuses and the reserve fund.

PURPOSE:
  - Thirteenth-month bonus: 1/12 of all insurable earnings accumulated in
    the December-through-November window, full or proportional.
  - Fourteenth-month bonus: one minimum wage, accrued over the
    August-through-July window, full or proportional.
  - Reserve fund: 8.33% of monthly earnings, accruing only after one full
    year of service.

PROPORTIONALITY:
  Proportional amounts use the 360-day commercial year: the full amount
  times effectiveDays/360, where effectiveDays is the overlap of the
  worker's service (hire through cutoff) with the accrual window, capped
  at 360 so full-window service pays exactly the full amount.

ROUNDING:
  Only the final amount of each computation is rounded. Neither bonus is
  subject to worker social insurance or income tax.

SEE ALSO:
  - engine/date.go: Accrual window constructors
  - liquidation: Composes the proportional forms on termination
*/
package benefits

import (
	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/engine"
)

// =============================================================================
// MONTHLY EARNINGS - Host-supplied totals for annual computations
// =============================================================================

// MonthlyEarning is one month's insurable earnings total, as persisted by
// the host from prior payroll lines.
type MonthlyEarning struct {
	Month  engine.Date // any day identifying the month
	Amount engine.Money
}

// SumInWindow totals the earnings of the months falling inside a window.
func SumInWindow(earnings []MonthlyEarning, window engine.Interval) engine.Money {
	total := engine.ZeroMoney()
	for _, e := range earnings {
		if window.Contains(e.Month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// =============================================================================
// THIRTEENTH-MONTH BONUS
// =============================================================================

// Thirteenth computes the full annual thirteenth-month bonus: the sum of
// insurable earnings within the accrual window divided by 12. The caller
// supplies the monthly totals; months outside the window are ignored.
func Thirteenth(earnings []MonthlyEarning, window engine.Interval) engine.Money {
	return SumInWindow(earnings, window).DivInt(12).RoundCents()
}

// ThirteenthFromAnnual computes the full bonus from a precomputed annual
// insurable total.
func ThirteenthFromAnnual(annualInsurable engine.Money) engine.Money {
	return annualInsurable.DivInt(12).RoundCents()
}

// ThirteenthProportional computes the mid-year proportional bonus:
// full * effectiveDays/360, where effectiveDays is the overlap of
// [hire, cutoff] with the window.
func ThirteenthProportional(worker engine.Worker, earnings []MonthlyEarning, window engine.Interval, cutoff engine.Date) engine.Money {
	full := SumInWindow(earnings, window).DivInt(12)
	return prorate(full, worker.HireDate, cutoff, window)
}

// =============================================================================
// FOURTEENTH-MONTH BONUS
// =============================================================================

// Fourteenth returns the full fourteenth-month bonus: one minimum wage.
func Fourteenth(params *engine.Parameters) engine.Money {
	return params.MinimumWage.RoundCents()
}

// FourteenthProportional computes minimumWage * effectiveDays/360 over the
// August-July window.
func FourteenthProportional(worker engine.Worker, window engine.Interval, cutoff engine.Date, params *engine.Parameters) engine.Money {
	return prorate(params.MinimumWage, worker.HireDate, cutoff, window)
}

// prorate scales a full amount by effectiveDays/360. Effective days cap
// at the commercial year, so service covering the whole window pays
// exactly the full amount; a service range that misses the window
// entirely yields zero. Only the final amount rounds.
func prorate(full engine.Money, hire, cutoff engine.Date, window engine.Interval) engine.Money {
	service := engine.Interval{Start: hire, End: cutoff}
	if !service.IsValid() {
		return engine.ZeroMoney()
	}
	overlap, ok := window.Overlap(service)
	if !ok {
		return engine.ZeroMoney()
	}
	effectiveDays := overlap.Days()
	if effectiveDays >= engine.CommercialYearDays {
		return full.RoundCents()
	}
	fraction := decimal.NewFromInt(int64(effectiveDays)).
		Div(decimal.NewFromInt(engine.CommercialYearDays))
	return full.Mul(fraction).RoundCents()
}
