package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Civil calendar date (no time-of-day)
// =============================================================================

// Date is a civil calendar date, normalized to UTC midnight.
// The engine never deals in time-of-day.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func DateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current civil date in UTC.
func Today() Date {
	return DateFromTime(time.Now().UTC())
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON renders the date as a quoted "2006-01-02" string, or "" when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted "2006-01-02" string. Empty means the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EndOfMonth returns the last calendar day of the date's month.
func (d Date) EndOfMonth() Date {
	t := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{t: t}
}

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

// =============================================================================
// DAY COUNTS - Calendar for differences, 30-day commercial for pro-ration
// =============================================================================

// CommercialMonthDays is the 30-day convention used for proportional
// monetary calculations (salary/30, period/360).
const CommercialMonthDays = 30

// CommercialYearDays is the 360-day convention (12 commercial months).
const CommercialYearDays = 360

// DaysBetween returns the inclusive day count between two dates: both
// endpoints count, so from == to yields 1. Callers must ensure from <= to.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours()/24) + 1
}

// CommercialMonths returns the inclusive day count divided by 30, carried
// at full precision.
func CommercialMonths(from, to Date) decimal.Decimal {
	return decimal.NewFromInt(int64(DaysBetween(from, to))).
		Div(decimal.NewFromInt(CommercialMonthDays))
}

// YearsWorked returns tenure in years: inclusive days / 365.25, carried to
// 4 decimal places. This is the only place 365.25 appears; monetary
// pro-ration always uses the 360-day commercial convention.
func YearsWorked(from, to Date) decimal.Decimal {
	return decimal.NewFromInt(int64(DaysBetween(from, to))).
		Div(decimal.NewFromFloat(365.25)).
		Round(4)
}

// =============================================================================
// INTERVAL - Closed date range [Start, End]
// =============================================================================

type Interval struct {
	Start Date
	End   Date
}

func (iv Interval) IsValid() bool { return iv.Start.BeforeOrEqual(iv.End) }

func (iv Interval) Contains(d Date) bool {
	return d.AfterOrEqual(iv.Start) && d.BeforeOrEqual(iv.End)
}

// Days returns the inclusive day count of the interval.
func (iv Interval) Days() int { return DaysBetween(iv.Start, iv.End) }

// Overlap returns the intersection of two intervals. The second return is
// false when they do not intersect.
func (iv Interval) Overlap(other Interval) (Interval, bool) {
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	if start.After(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

func (iv Interval) String() string {
	return "[" + iv.Start.String() + ", " + iv.End.String() + "]"
}

// =============================================================================
// ACCRUAL WINDOWS - Statutory bonus accumulation ranges
// =============================================================================

// ThirteenthWindow returns the thirteenth-month accrual window for a payout
// year: 1 Dec of year-1 through 30 Nov of year.
func ThirteenthWindow(year int) Interval {
	return Interval{
		Start: NewDate(year-1, time.December, 1),
		End:   NewDate(year, time.November, 30),
	}
}

// FourteenthWindow returns the fourteenth-month accrual window for a payout
// year: 1 Aug of year-1 through 31 Jul of year.
func FourteenthWindow(year int) Interval {
	return Interval{
		Start: NewDate(year-1, time.August, 1),
		End:   NewDate(year, time.July, 31),
	}
}

// ThirteenthWindowFor returns the accrual window containing the given date.
func ThirteenthWindowFor(d Date) Interval {
	year := d.Year()
	if d.Month() == time.December {
		year++
	}
	return ThirteenthWindow(year)
}

// FourteenthWindowFor returns the accrual window containing the given date.
func FourteenthWindowFor(d Date) Interval {
	year := d.Year()
	if d.Month() >= time.August {
		year++
	}
	return FourteenthWindow(year)
}
