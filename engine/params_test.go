package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andino/payroll-engine/engine"
)

func rate(s string) decimal.Decimal { return engine.MustRate(s) }

// testBrackets is a small contiguous progressive table for tests.
func testBrackets() []engine.TaxBracket {
	return []engine.TaxBracket{
		{Lower: rate("0"), Upper: rate("11902"), MarginalRate: rate("0"), AccumulatedBase: rate("0")},
		{Lower: rate("11902"), Upper: rate("15159"), MarginalRate: rate("0.05"), AccumulatedBase: rate("0")},
		{Lower: rate("15159"), Upper: rate("19682"), MarginalRate: rate("0.10"), AccumulatedBase: rate("163")},
		{Lower: rate("19682"), Upper: rate("999999999"), MarginalRate: rate("0.12"), AccumulatedBase: rate("615")},
	}
}

func testParameters(t *testing.T) *engine.Parameters {
	t.Helper()
	p, err := engine.NewParameters(engine.Parameters{
		EffectiveYear:               2024,
		MinimumWage:                 engine.MustMoney("460.00"),
		WorkerSocialInsuranceRate:   rate("0.0945"),
		EmployerSocialInsuranceRate: rate("0.1115"),
		ReserveFundRate:             rate("0.0833"),
		SeveranceNoticeRate:         rate("0.25"),
		Overtime: engine.OvertimeMultipliers{
			Pct25: rate("1.25"), Pct50: rate("1.50"), Pct100: rate("2.00"),
		},
		WeeklyHours:         40,
		VacationDaysPerYear: 15,
		MaxIndemnityYears:   25,
		Brackets:            testBrackets(),
	})
	require.NoError(t, err)
	return p
}

func TestNewParameters_Valid(t *testing.T) {
	p := testParameters(t)
	assert.Equal(t, 2024, p.EffectiveYear)
	assert.NotNil(t, p.Catalog, "default catalog attaches when none given")
}

func TestNewParameters_Rejections(t *testing.T) {
	base := func() engine.Parameters {
		return engine.Parameters{
			EffectiveYear:               2024,
			MinimumWage:                 engine.MustMoney("460.00"),
			WorkerSocialInsuranceRate:   rate("0.0945"),
			EmployerSocialInsuranceRate: rate("0.1115"),
			ReserveFundRate:             rate("0.0833"),
			SeveranceNoticeRate:         rate("0.25"),
			Overtime: engine.OvertimeMultipliers{
				Pct25: rate("1.25"), Pct50: rate("1.50"), Pct100: rate("2.00"),
			},
			WeeklyHours:         40,
			VacationDaysPerYear: 15,
			MaxIndemnityYears:   25,
			Brackets:            testBrackets(),
		}
	}

	cases := []struct {
		name   string
		mutate func(*engine.Parameters)
	}{
		{"missing effective year", func(p *engine.Parameters) { p.EffectiveYear = 0 }},
		{"non-positive minimum wage", func(p *engine.Parameters) { p.MinimumWage = engine.ZeroMoney() }},
		{"rate above one", func(p *engine.Parameters) { p.WorkerSocialInsuranceRate = rate("1.2") }},
		{"negative rate", func(p *engine.Parameters) { p.ReserveFundRate = rate("-0.01") }},
		{"multiplier below one", func(p *engine.Parameters) { p.Overtime.Pct25 = rate("0.9") }},
		{"empty brackets", func(p *engine.Parameters) { p.Brackets = nil }},
		{"non-contiguous brackets", func(p *engine.Parameters) {
			p.Brackets[2].Lower = rate("15200")
		}},
		{"first bracket not at zero", func(p *engine.Parameters) {
			p.Brackets[0].Lower = rate("1")
		}},
		{"descending marginal rate", func(p *engine.Parameters) {
			p.Brackets[3].MarginalRate = rate("0.01")
		}},
		{"inverted bracket bounds", func(p *engine.Parameters) {
			p.Brackets[1].Upper = rate("11000")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base()
			tc.mutate(&p)
			_, err := engine.NewParameters(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, engine.ErrConfiguration), "must be a configuration error")
		})
	}
}

func TestBracketFor_ExactlyOneMatch(t *testing.T) {
	p := testParameters(t)

	cases := []struct {
		basis    string
		wantRate string
	}{
		{"0", "0"},
		{"6000", "0"},
		{"11901.99", "0"},
		{"11902", "0.05"}, // boundary belongs to the bracket it opens
		{"15159", "0.1"},
		{"19682", "0.12"},
		{"5000000000", "0.12"}, // beyond the table falls in the last row
	}
	for _, tc := range cases {
		b := p.BracketFor(rate(tc.basis))
		assert.Equal(t, tc.wantRate, b.MarginalRate.String(), "basis %s", tc.basis)
	}
}

func TestAnnualTax(t *testing.T) {
	p := testParameters(t)

	// Below the first bracket top: zero tax.
	assert.Equal(t, "0.00", p.AnnualTax(rate("6000")).String())

	// Inside the 5% bracket: (13000-11902)*0.05 = 54.90.
	assert.Equal(t, "54.90", p.AnnualTax(rate("13000")).String())

	// Inside the 10% bracket: 163 + (16000-15159)*0.10 = 247.10.
	assert.Equal(t, "247.10", p.AnnualTax(rate("16000")).String())

	// Negative basis taxes to zero.
	assert.Equal(t, "0.00", p.AnnualTax(rate("-500")).String())
}

func TestDerivedSnapshots_DoNotMutateOriginal(t *testing.T) {
	p := testParameters(t)

	higher, err := p.WithMinimumWage(engine.MustMoney("470.00"))
	require.NoError(t, err)
	assert.Equal(t, "470.00", higher.MinimumWage.String())
	assert.Equal(t, "460.00", p.MinimumWage.String(), "original snapshot unchanged")

	_, err = p.WithEmployerRate(rate("0.1215"))
	require.NoError(t, err)
	assert.Equal(t, "0.1115", p.EmployerSocialInsuranceRate.String())

	_, err = p.WithMinimumWage(engine.MustMoney("-1"))
	assert.Error(t, err, "derived snapshots revalidate")
}
