package benefits

import (
	"github.com/andino/payroll-engine/engine"
)

// =============================================================================
// RESERVE FUND - 8.33% monthly accrual after one year of service
// =============================================================================

// ReserveAccrual computes the reserve-fund accrual for a single month:
// monthlyEarnings * reserveFundRate, or zero if the worker has not yet
// completed one full year of service at the given date.
func ReserveAccrual(worker engine.Worker, monthlyEarnings engine.Money, at engine.Date, params *engine.Parameters) engine.Money {
	if !worker.CompletedFullYearAt(at) {
		return engine.ZeroMoney()
	}
	return monthlyEarnings.Mul(params.ReserveFundRate).RoundCents()
}

// ReserveBalance computes the running reserve balance over a range of
// monthly earnings: the sum of each month's accrual, where months before
// the one-year service mark contribute nothing. Whether the balance is
// paid out monthly or held and disbursed on request is the host's choice;
// the engine only reports the amounts.
func ReserveBalance(worker engine.Worker, earnings []MonthlyEarning, params *engine.Parameters) engine.Money {
	total := engine.ZeroMoney()
	for _, e := range earnings {
		monthEnd := e.Month.EndOfMonth()
		total = total.Add(ReserveAccrual(worker, e.Amount, monthEnd, params))
	}
	return total.RoundCents()
}
