package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORKER - Caller-owned value record
// =============================================================================

// WorkerClass tags the worker category. It affects nothing in the engine
// directly; it is retained for reporting.
type WorkerClass string

const (
	ClassOperational    WorkerClass = "operational"
	ClassAdministrative WorkerClass = "administrative"
	ClassExecutive      WorkerClass = "executive"
)

// PayFrequency determines period length conventions and the income-tax
// annualization factor.
type PayFrequency string

const (
	FrequencyWeekly   PayFrequency = "weekly"
	FrequencyBiweekly PayFrequency = "biweekly"
	FrequencyMonthly  PayFrequency = "monthly"
)

// PeriodLength returns the period length in commercial days for a
// frequency: 30 for monthly, 15 for biweekly, 7 for weekly.
func (f PayFrequency) PeriodLength() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyBiweekly:
		return 15
	default:
		return CommercialMonthDays
	}
}

// PeriodsPerYear returns the annualization factor for income tax: 12 for
// monthly, 24 for biweekly, 52 for weekly.
func (f PayFrequency) PeriodsPerYear() int64 {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 24
	default:
		return 12
	}
}

// WorkerStatus is the employment state the host tracks for a worker.
type WorkerStatus string

const (
	StatusActive     WorkerStatus = "active"
	StatusOnVacation WorkerStatus = "on_vacation"
	StatusOnLeave    WorkerStatus = "on_leave"
	StatusRetired    WorkerStatus = "retired"
	StatusPensioned  WorkerStatus = "pensioned"
	StatusSuspended  WorkerStatus = "suspended"
)

// Worker is the caller-owned employment record. The engine never retains a
// reference to it after a calculation returns.
type Worker struct {
	ID         string
	FullName   string
	NationalID string

	HireDate        Date
	TerminationDate *Date

	BaseSalary Money
	Class      WorkerClass
	Frequency  PayFrequency
	Status     WorkerStatus
	Dependents int
}

// Validate checks the worker invariants: hire date set, termination (if
// present) not before hire, positive salary, non-negative dependents.
func (w Worker) Validate() error {
	if w.HireDate.IsZero() {
		return &InputError{Field: "hireDate", Reason: "required"}
	}
	if w.TerminationDate != nil && w.TerminationDate.Before(w.HireDate) {
		return ErrInvalidTermination
	}
	if !w.BaseSalary.IsPositive() {
		return &InputError{Field: "baseSalary", Reason: "must be positive"}
	}
	if w.Dependents < 0 {
		return &InputError{Field: "dependents", Reason: "must be non-negative"}
	}
	return nil
}

// YearsOfServiceAt returns tenure at a date, to 4 decimal places.
func (w Worker) YearsOfServiceAt(at Date) decimal.Decimal {
	if at.Before(w.HireDate) {
		return decimal.Zero
	}
	return YearsWorked(w.HireDate, at)
}

// CompletedFullYearAt reports whether the worker has at least one full
// year of service at the given date. The reserve fund accrues only after
// this point.
func (w Worker) CompletedFullYearAt(at Date) bool {
	return w.HireDate.AddYears(1).BeforeOrEqual(at)
}

// ServiceWindow returns [hire, termination] or [hire, fallbackEnd] for
// workers still employed.
func (w Worker) ServiceWindow(fallbackEnd Date) Interval {
	end := fallbackEnd
	if w.TerminationDate != nil {
		end = *w.TerminationDate
	}
	return Interval{Start: w.HireDate, End: end}
}
