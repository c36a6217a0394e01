package vacation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/factory"
	"github.com/andino/payroll-engine/vacation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func params2024(t *testing.T) *engine.Parameters {
	t.Helper()
	p, err := factory.Ecuador2024()
	require.NoError(t, err)
	return p
}

func date(y int, m time.Month, d int) engine.Date { return engine.NewDate(y, m, d) }

func worker(hire engine.Date) engine.Worker {
	return engine.Worker{
		ID: "w-1", FullName: "Carlos Paredes",
		HireDate:   hire,
		BaseSalary: engine.MustMoney("600.00"),
		Frequency:  engine.FrequencyMonthly,
		Status:     engine.StatusActive,
	}
}

func taken(id string, start, end engine.Date, days int) vacation.Entry {
	return vacation.Entry{ID: id, Kind: vacation.EntryTaken, Start: start, End: end, Days: days}
}

// =============================================================================
// BALANCE
// =============================================================================

func TestBalanceAt_AccruesFifteenDaysPerYear(t *testing.T) {
	w := worker(date(2020, time.January, 1))

	// About 4.5 years of service: floor(4.4983 * 15) = 67 days accrued.
	b := vacation.BalanceAt(w, nil, date(2024, time.June, 30), params2024(t))
	assert.Equal(t, 67, b.Accrued)
	assert.Equal(t, 67, b.Balance)
	assert.False(t, b.Overdrawn)
}

func TestBalanceAt_SubtractsTakenAndPaid(t *testing.T) {
	w := worker(date(2022, time.January, 1))
	history := vacation.History{
		taken("v-1", date(2023, time.March, 6), date(2023, time.March, 10), 5),
		{ID: "v-2", Kind: vacation.EntryPaid, End: date(2023, time.December, 31), Days: 3},
	}

	b := vacation.BalanceAt(w, history, date(2024, time.January, 1), params2024(t))
	assert.Equal(t, 5, b.Taken)
	assert.Equal(t, 3, b.Paid)
	assert.Equal(t, b.Accrued-8, b.Balance)
}

func TestBalanceAt_IgnoresFutureEntries(t *testing.T) {
	w := worker(date(2022, time.January, 1))
	history := vacation.History{
		taken("v-1", date(2024, time.August, 5), date(2024, time.August, 9), 5),
	}

	b := vacation.BalanceAt(w, history, date(2024, time.June, 1), params2024(t))
	assert.Zero(t, b.Taken, "entries after the as-of date do not count")
}

func TestBalanceAt_NeverNegative(t *testing.T) {
	// GIVEN: a worker with 3 accrued days who somehow took 10
	// WHEN: the balance is computed
	// THEN: balance is 0 and the position is flagged overdrawn

	w := worker(date(2024, time.March, 1))
	history := vacation.History{
		taken("v-1", date(2024, time.May, 6), date(2024, time.May, 15), 10),
	}

	b := vacation.BalanceAt(w, history, date(2024, time.May, 20), params2024(t))
	assert.Equal(t, 3, b.Accrued, "floor(0.2218 * 15)")
	assert.Equal(t, 0, b.Balance, "never negative")
	assert.True(t, b.Overdrawn)
}

func TestBalanceAt_AdjustmentEntries(t *testing.T) {
	w := worker(date(2022, time.January, 1))
	history := vacation.History{
		{ID: "adj-1", Kind: vacation.EntryAdjustment, End: date(2023, time.January, 1), Days: 4},
	}

	with := vacation.BalanceAt(w, history, date(2024, time.January, 1), params2024(t))
	without := vacation.BalanceAt(w, nil, date(2024, time.January, 1), params2024(t))
	assert.Equal(t, without.Accrued+4, with.Accrued)
}

// =============================================================================
// REQUEST VALIDATION
// =============================================================================

func TestValidateRequest(t *testing.T) {
	p := params2024(t)
	w := worker(date(2022, time.January, 1))
	history := vacation.History{
		taken("v-1", date(2024, time.February, 5), date(2024, time.February, 9), 5),
	}

	cases := []struct {
		name string
		req  vacation.Request
		want vacation.ValidationResult
	}{
		{
			"valid request",
			vacation.Request{Start: date(2024, time.July, 1), End: date(2024, time.July, 5), Days: 5},
			vacation.ResultOK,
		},
		{
			"negative range",
			vacation.Request{Start: date(2024, time.July, 5), End: date(2024, time.July, 1), Days: 5},
			vacation.ResultNegativeRange,
		},
		{
			"zero days",
			vacation.Request{Start: date(2024, time.July, 1), End: date(2024, time.July, 1), Days: 0},
			vacation.ResultNegativeRange,
		},
		{
			"before hire date",
			vacation.Request{Start: date(2021, time.December, 20), End: date(2021, time.December, 24), Days: 5},
			vacation.ResultBeforeHireDate,
		},
		{
			"overlaps existing request",
			vacation.Request{Start: date(2024, time.February, 7), End: date(2024, time.February, 12), Days: 4},
			vacation.ResultOverlapsExisting,
		},
		{
			"insufficient balance",
			vacation.Request{Start: date(2024, time.July, 1), End: date(2024, time.August, 29), Days: 60},
			vacation.ResultInsufficientBalance,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, vacation.ValidateRequest(w, history, tc.req, p))
		})
	}
}

func TestValidateRequest_AfterTermination(t *testing.T) {
	term := date(2024, time.June, 30)
	w := worker(date(2022, time.January, 1))
	w.TerminationDate = &term

	got := vacation.ValidateRequest(w, nil, vacation.Request{
		Start: date(2024, time.June, 28), End: date(2024, time.July, 3), Days: 4,
	}, params2024(t))
	assert.Equal(t, vacation.ResultAfterTermination, got)
}

// =============================================================================
// OVERDRAW REPORTING
// =============================================================================

func TestCheckOverdraw(t *testing.T) {
	// GIVEN: 3 accrued days, 10 requested
	// THEN: the structured overdraw error reports both figures

	w := worker(date(2024, time.March, 1))
	b := vacation.BalanceAt(w, nil, date(2024, time.May, 20), params2024(t))
	require.Equal(t, 3, b.Accrued)

	err := vacation.CheckOverdraw(b, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrOverdrawnVacation))

	var overdrawn *engine.OverdrawnVacationError
	require.True(t, errors.As(err, &overdrawn))
	assert.Equal(t, 3, overdrawn.Accrued)
	assert.Equal(t, 10, overdrawn.Requested)

	assert.NoError(t, vacation.CheckOverdraw(b, 3))
}

// =============================================================================
// MONETARY VALUE
// =============================================================================

func TestPayout(t *testing.T) {
	// 600/30 = 20 per day; 7 days = 140.00.
	assert.Equal(t, "140.00", vacation.Payout(7, engine.MustMoney("600.00")).String())
	assert.Equal(t, "0.00", vacation.Payout(0, engine.MustMoney("600.00")).String())

	// Non-terminating daily rate rounds only at the end: 500/30*7 = 116.67.
	assert.Equal(t, "116.67", vacation.Payout(7, engine.MustMoney("500.00")).String())
}
