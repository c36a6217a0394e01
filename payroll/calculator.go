package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/engine"
)

// =============================================================================
// PERIOD PAYROLL CALCULATOR
// =============================================================================

// Calculate computes the payroll line for one worker and one period.
//
// The algorithm, in order:
//  1. Pro-rated base: baseSalary/30 * daysWorked
//  2. Hourly rate: baseSalary / (weeklyHours * 4.33), rounded to 4 places
//  3. Overtime per bucket: hourlyRate * hours * multiplier
//  4. Additional earnings from concept lines
//  5. Gross = rounded sum of the rounded earning lines
//  6. Insurable basis: base + overtime + lines flagged insurable
//  7. Worker social insurance = insurable basis * worker rate
//  8. Income tax: annualized taxable basis through the bracket table,
//     re-periodized by the same factor
//  9. Other deductions: deduction lines + loans + advances
// 10. Net = gross - social insurance - income tax - other deductions
// 11. Employer-side informational accruals
//
// Calculate never clips a negative net pay: a worker who owes a balance is
// reported as such.
func Calculate(worker engine.Worker, input PeriodInput, params *engine.Parameters) (*Line, error) {
	if params == nil {
		return nil, &engine.ConfigurationError{Field: "params", Reason: "snapshot required"}
	}
	if err := worker.Validate(); err != nil {
		return nil, err
	}
	if worker.BaseSalary.LessThan(params.MinimumWage) {
		return nil, &engine.InputError{
			Field:  "baseSalary",
			Reason: fmt.Sprintf("below statutory minimum wage %s", params.MinimumWage),
		}
	}

	periodLen := worker.Frequency.PeriodLength()
	if input.DaysWorked < 0 {
		return nil, &engine.PeriodError{Period: input.Label, Reason: "days worked must be non-negative"}
	}
	if input.DaysWorked > periodLen {
		return nil, &engine.PeriodError{
			Period: input.Label,
			Reason: fmt.Sprintf("days worked %d exceeds period length %d", input.DaysWorked, periodLen),
		}
	}
	if err := validateOvertime(input.Overtime); err != nil {
		return nil, err
	}

	periodEnd, err := input.periodEnd()
	if err != nil {
		return nil, err
	}
	if periodEnd.Before(worker.HireDate) {
		return nil, &engine.PeriodError{Period: input.Label, Reason: "period ends before hire date"}
	}

	line := &Line{WorkerID: worker.ID, Period: input.Label, DaysWorked: input.DaysWorked}

	// 1. Pro-rated base pay. The daily rate always uses the 30-day
	// commercial month, regardless of pay frequency.
	dailyRate := worker.BaseSalary.DivInt(engine.CommercialMonthDays)
	line.BasePay = dailyRate.MulInt(int64(input.DaysWorked)).RoundCents()

	// 2-3. Overtime. The hourly rate is fixed at 4 decimal places before
	// any bucket multiplies it.
	hourlyRate := worker.BaseSalary.
		Div(decimal.NewFromInt(int64(params.WeeklyHours)).Mul(decimal.NewFromFloat(4.33))).
		Round4()
	line.Overtime25 = hourlyRate.Mul(input.Overtime.Pct25).Mul(params.Overtime.Pct25).RoundCents()
	line.Overtime50 = hourlyRate.Mul(input.Overtime.Pct50).Mul(params.Overtime.Pct50).RoundCents()
	line.Overtime100 = hourlyRate.Mul(input.Overtime.Pct100).Mul(params.Overtime.Pct100).RoundCents()

	// 4. Resolve additional concept lines against the catalog.
	catalog := params.Catalog
	if catalog == nil {
		catalog = engine.DefaultCatalog()
	}
	for _, cl := range input.Concepts {
		concept, warning, err := catalog.Resolve(cl.Code)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			line.Warnings = append(line.Warnings, warning)
		}
		evaluated := EvaluatedConcept{
			Code:      concept.Code,
			Name:      concept.Name,
			Kind:      concept.Kind,
			Amount:    cl.Amount.RoundCents(),
			Insurable: concept.Insurable,
			Taxable:   concept.Taxable,
		}
		if cl.AppliesToSocialInsurance != nil {
			evaluated.Insurable = *cl.AppliesToSocialInsurance
		}
		if cl.AppliesToIncomeTax != nil {
			evaluated.Taxable = *cl.AppliesToIncomeTax
		}
		line.Extras = append(line.Extras, evaluated)
	}

	// 5. Gross earnings: rounded sum of rounded earning lines.
	earningLines := []engine.Money{line.BasePay, line.Overtime25, line.Overtime50, line.Overtime100}
	for _, ec := range line.Extras {
		if ec.Kind == engine.KindEarning {
			earningLines = append(earningLines, ec.Amount)
		}
	}
	line.GrossEarnings = engine.SumRounded(earningLines...)

	// 6. Insurable basis: base and overtime always count; extras per flag.
	insurable := []engine.Money{line.BasePay, line.Overtime25, line.Overtime50, line.Overtime100}
	for _, ec := range line.Extras {
		if ec.Kind == engine.KindEarning && ec.Insurable {
			insurable = append(insurable, ec.Amount)
		}
	}
	line.InsurableBasis = engine.SumRounded(insurable...)

	// 7. Worker social insurance.
	line.SocialInsuranceWorker = line.InsurableBasis.Mul(params.WorkerSocialInsuranceRate).RoundCents()

	// 8. Income tax on the annualized taxable basis. Taxable deduction
	// lines reduce the basis; the default deduction concepts do not carry
	// the flag.
	taxable := engine.ZeroMoney()
	for _, m := range []engine.Money{line.BasePay, line.Overtime25, line.Overtime50, line.Overtime100} {
		taxable = taxable.Add(m)
	}
	for _, ec := range line.Extras {
		if !ec.Taxable {
			continue
		}
		if ec.Kind == engine.KindEarning {
			taxable = taxable.Add(ec.Amount)
		} else {
			taxable = taxable.Sub(ec.Amount)
		}
	}
	line.TaxableBasis = taxable.RoundCents()

	periodsPerYear := worker.Frequency.PeriodsPerYear()
	annualBasis := line.TaxableBasis.MulInt(periodsPerYear)
	annualTax := params.AnnualTax(annualBasis.Value)
	line.IncomeTax = annualTax.DivInt(periodsPerYear).RoundCents()

	// 9. Other deductions.
	line.Loans = input.Loans.RoundCents()
	line.Advances = input.Advances.RoundCents()
	deductions := []engine.Money{line.Loans, line.Advances}
	for _, ec := range line.Extras {
		if ec.Kind == engine.KindDeduction {
			deductions = append(deductions, ec.Amount)
		}
	}
	line.OtherDeductions = engine.SumRounded(deductions...)

	// 10. Net pay. May legitimately be negative; never clipped.
	line.NetPay = line.GrossEarnings.
		Sub(line.SocialInsuranceWorker).
		Sub(line.IncomeTax).
		Sub(line.OtherDeductions).
		RoundCents()

	// 11. Employer-side informational accruals.
	line.Employer = EmployerAccruals{
		SocialInsurance: line.InsurableBasis.Mul(params.EmployerSocialInsuranceRate).RoundCents(),
		Thirteenth:      worker.BaseSalary.DivInt(12).RoundCents(),
		Fourteenth:      params.MinimumWage.DivInt(12).RoundCents(),
		Vacation:        worker.BaseSalary.DivInt(24).RoundCents(),
	}
	if worker.CompletedFullYearAt(periodEnd) {
		line.Employer.ReserveFund = worker.BaseSalary.Mul(params.ReserveFundRate).RoundCents()
	} else {
		line.Employer.ReserveFund = engine.ZeroMoney()
	}

	return line, nil
}

func validateOvertime(ot OvertimeHours) error {
	for _, h := range []decimal.Decimal{ot.Pct25, ot.Pct50, ot.Pct100} {
		if h.IsNegative() {
			return &engine.InputError{Field: "overtime", Reason: "hours must be non-negative"}
		}
	}
	return nil
}

// =============================================================================
// PERIOD RESOLUTION
// =============================================================================

// End, when set, is the period's final calendar day. Monthly labels
// ("2006-01") derive it automatically; weekly and biweekly inputs must set
// it explicitly.
func (in PeriodInput) periodEnd() (engine.Date, error) {
	if !in.End.IsZero() {
		return in.End, nil
	}
	t, err := time.Parse("2006-01", in.Label)
	if err != nil {
		return engine.Date{}, &engine.PeriodError{Period: in.Label, Reason: "period end not derivable from label"}
	}
	return engine.NewDate(t.Year(), t.Month(), 1).EndOfMonth(), nil
}

// =============================================================================
// MID-PERIOD DAY CONVENTIONS
// =============================================================================

// DaysForMidPeriodHire returns the days-worked convention for a worker
// hired mid-month: the commercial month minus the elapsed calendar days
// before the hire. Hiring on the 1st always yields the full 30 days,
// February included.
func DaysForMidPeriodHire(hire engine.Date) int {
	elapsed := hire.Day() - 1
	if elapsed > engine.CommercialMonthDays {
		elapsed = engine.CommercialMonthDays
	}
	return engine.CommercialMonthDays - elapsed
}

// DaysForMidPeriodTermination returns the days-worked convention for a
// worker terminated mid-month: the termination day of month, capped at the
// commercial month length. Terminating on the month's last calendar day
// always yields the full 30 days, February included.
func DaysForMidPeriodTermination(termination engine.Date) int {
	if termination.Equal(termination.EndOfMonth()) {
		return engine.CommercialMonthDays
	}
	days := termination.Day()
	if days > engine.CommercialMonthDays {
		days = engine.CommercialMonthDays
	}
	return days
}
