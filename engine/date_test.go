package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andino/payroll-engine/engine"
)

func date(y int, m time.Month, d int) engine.Date { return engine.NewDate(y, m, d) }

func TestDaysBetween_Inclusive(t *testing.T) {
	cases := []struct {
		name string
		from engine.Date
		to   engine.Date
		want int
	}{
		{"same day counts as one", date(2024, time.March, 1), date(2024, time.March, 1), 1},
		{"full 30-day month", date(2024, time.April, 1), date(2024, time.April, 30), 30},
		{"full 31-day month", date(2024, time.March, 1), date(2024, time.March, 31), 31},
		{"leap February", date(2024, time.February, 1), date(2024, time.February, 29), 29},
		{"across year boundary", date(2023, time.December, 31), date(2024, time.January, 1), 2},
		{"march through august", date(2024, time.March, 1), date(2024, time.August, 31), 184},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.DaysBetween(tc.from, tc.to))
		})
	}
}

func TestYearsWorked_FourDecimals(t *testing.T) {
	// 2020-01-01 .. 2024-06-30 inclusive = 1643 days; / 365.25 = 4.4983.
	years := engine.YearsWorked(date(2020, time.January, 1), date(2024, time.June, 30))
	assert.Equal(t, "4.4983", years.String())

	// Exactly one 365-day year, inclusive count 366.
	years = engine.YearsWorked(date(2023, time.January, 1), date(2023, time.December, 31))
	assert.Equal(t, "0.9993", years.String())
}

func TestCommercialMonths(t *testing.T) {
	// 30 inclusive days = exactly one commercial month.
	months := engine.CommercialMonths(date(2024, time.April, 1), date(2024, time.April, 30))
	assert.True(t, months.Equal(engine.MustRate("1")))

	// 15 days = half a commercial month.
	months = engine.CommercialMonths(date(2024, time.April, 1), date(2024, time.April, 15))
	assert.Equal(t, "0.5", months.String())
}

func TestInterval_Overlap(t *testing.T) {
	window := engine.Interval{Start: date(2023, time.December, 1), End: date(2024, time.November, 30)}

	// Hire mid-window, cutoff mid-window.
	got, ok := window.Overlap(engine.Interval{Start: date(2024, time.March, 1), End: date(2024, time.August, 31)})
	require.True(t, ok)
	assert.Equal(t, 184, got.Days())

	// Service window fully covering the accrual window clips to the window.
	got, ok = window.Overlap(engine.Interval{Start: date(2020, time.January, 1), End: date(2025, time.June, 30)})
	require.True(t, ok)
	assert.Equal(t, window.Days(), got.Days())

	// Disjoint ranges do not overlap.
	_, ok = window.Overlap(engine.Interval{Start: date(2025, time.January, 1), End: date(2025, time.June, 30)})
	assert.False(t, ok)
}

func TestAccrualWindows(t *testing.T) {
	th := engine.ThirteenthWindow(2024)
	assert.Equal(t, date(2023, time.December, 1), th.Start)
	assert.Equal(t, date(2024, time.November, 30), th.End)

	fo := engine.FourteenthWindow(2024)
	assert.Equal(t, date(2023, time.August, 1), fo.Start)
	assert.Equal(t, date(2024, time.July, 31), fo.End)
}

func TestAccrualWindowFor_ContainsDate(t *testing.T) {
	// A December date belongs to the NEXT payout year's thirteenth window.
	d := date(2024, time.December, 15)
	assert.True(t, engine.ThirteenthWindowFor(d).Contains(d))
	assert.Equal(t, date(2025, time.November, 30), engine.ThirteenthWindowFor(d).End)

	// An August date belongs to the next payout year's fourteenth window.
	d = date(2024, time.August, 2)
	assert.True(t, engine.FourteenthWindowFor(d).Contains(d))
	assert.Equal(t, date(2025, time.July, 31), engine.FourteenthWindowFor(d).End)

	// A June date belongs to the current payout year.
	d = date(2024, time.June, 30)
	assert.True(t, engine.FourteenthWindowFor(d).Contains(d))
	assert.Equal(t, date(2024, time.July, 31), engine.FourteenthWindowFor(d).End)
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, 29, date(2024, time.February, 10).EndOfMonth().Day())
	assert.Equal(t, 28, date(2023, time.February, 10).EndOfMonth().Day())
	assert.Equal(t, 31, date(2024, time.December, 1).EndOfMonth().Day())
}

func TestParseDate(t *testing.T) {
	d, err := engine.ParseDate("2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 30), d)

	_, err = engine.ParseDate("30/06/2024")
	assert.Error(t, err)
}
