/*
Package factory provides JSON to Go parameter-snapshot conversion.

PURPOSE:
  Converts JSON statutory-parameter definitions into engine.Parameters
  snapshots. This enables per-year configuration without code changes -
  an administrator can load a new year's rates and bracket table as JSON,
  and the factory builds a validated snapshot.

WHY JSON?
  - New statutory years arrive as data, not deployments
  - Database storage of historical parameter sets
  - Deterministic recomputation of old periods against old snapshots

JSON SCHEMA:
  {
    "effective_year": 2024,
    "minimum_wage": "460.00",
    "worker_social_insurance_rate": "0.0945",
    "employer_social_insurance_rate": "0.1115",
    "reserve_fund_rate": "0.0833",
    "severance_notice_rate": "0.25",
    "overtime_multipliers": {"pct25": "1.25", "pct50": "1.50", "pct100": "2.00"},
    "weekly_hours": 40,
    "vacation_days_per_year": 15,
    "max_indemnity_years": 25,
    "income_tax_brackets": [
      {"lower": "0", "upper": "11902", "rate": "0", "base": "0"},
      ...
    ]
  }

  Rates and amounts are strings so the decimal values survive JSON intact.

PRESETS:
  Ecuador2024() and Ecuador2025() return ready snapshots with the
  published minimum wage and bracket tables for those years. The employer
  social-insurance rate circulates as both 0.1115 and 0.1215; presets use
  0.1115 and expose the alternative for callers who follow the other
  reading (see EmployerRateAlternate).

SEE ALSO:
  - engine/params.go: Snapshot type and validation rules
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ParametersJSON is the JSON representation of a statutory snapshot.
type ParametersJSON struct {
	EffectiveYear               int                 `json:"effective_year"`
	MinimumWage                 string              `json:"minimum_wage"`
	WorkerSocialInsuranceRate   string              `json:"worker_social_insurance_rate"`
	EmployerSocialInsuranceRate string              `json:"employer_social_insurance_rate"`
	ReserveFundRate             string              `json:"reserve_fund_rate"`
	SeveranceNoticeRate         string              `json:"severance_notice_rate"`
	OvertimeMultipliers         *MultipliersJSON    `json:"overtime_multipliers,omitempty"`
	WeeklyHours                 int                 `json:"weekly_hours,omitempty"`
	VacationDaysPerYear         int                 `json:"vacation_days_per_year,omitempty"`
	MaxIndemnityYears           int                 `json:"max_indemnity_years,omitempty"`
	IncomeTaxBrackets           []BracketJSON       `json:"income_tax_brackets"`
}

// MultipliersJSON represents the overtime surcharge factors.
type MultipliersJSON struct {
	Pct25  string `json:"pct25"`
	Pct50  string `json:"pct50"`
	Pct100 string `json:"pct100"`
}

// BracketJSON is one income-tax table row.
type BracketJSON struct {
	Lower string `json:"lower"`
	Upper string `json:"upper"`
	Rate  string `json:"rate"`
	Base  string `json:"base"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseParameters converts a JSON definition into a validated snapshot.
func ParseParameters(jsonStr string) (*engine.Parameters, error) {
	var pj ParametersJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}
	return FromJSON(pj)
}

// FromJSON converts a decoded definition into a validated snapshot,
// applying defaults for the fields the statute fixes (40-hour week, 15
// vacation days, 25-year indemnity cap, standard overtime multipliers).
func FromJSON(pj ParametersJSON) (*engine.Parameters, error) {
	wage, err := engine.NewMoney(pj.MinimumWage)
	if err != nil {
		return nil, &engine.ConfigurationError{Field: "minimum_wage", Reason: err.Error()}
	}

	params := engine.Parameters{
		EffectiveYear:       pj.EffectiveYear,
		MinimumWage:         wage,
		WeeklyHours:         pj.WeeklyHours,
		VacationDaysPerYear: pj.VacationDaysPerYear,
		MaxIndemnityYears:   pj.MaxIndemnityYears,
	}
	if params.WeeklyHours == 0 {
		params.WeeklyHours = 40
	}
	if params.VacationDaysPerYear == 0 {
		params.VacationDaysPerYear = 15
	}
	if params.MaxIndemnityYears == 0 {
		params.MaxIndemnityYears = 25
	}

	for _, f := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"worker_social_insurance_rate", pj.WorkerSocialInsuranceRate, &params.WorkerSocialInsuranceRate},
		{"employer_social_insurance_rate", pj.EmployerSocialInsuranceRate, &params.EmployerSocialInsuranceRate},
		{"reserve_fund_rate", pj.ReserveFundRate, &params.ReserveFundRate},
		{"severance_notice_rate", pj.SeveranceNoticeRate, &params.SeveranceNoticeRate},
	} {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return nil, &engine.ConfigurationError{Field: f.name, Reason: "not a decimal: " + f.value}
		}
		*f.dst = d
	}

	if pj.OvertimeMultipliers == nil {
		params.Overtime = engine.OvertimeMultipliers{
			Pct25:  engine.MustRate("1.25"),
			Pct50:  engine.MustRate("1.50"),
			Pct100: engine.MustRate("2.00"),
		}
	} else {
		for _, f := range []struct {
			name  string
			value string
			dst   *decimal.Decimal
		}{
			{"overtime_multipliers.pct25", pj.OvertimeMultipliers.Pct25, &params.Overtime.Pct25},
			{"overtime_multipliers.pct50", pj.OvertimeMultipliers.Pct50, &params.Overtime.Pct50},
			{"overtime_multipliers.pct100", pj.OvertimeMultipliers.Pct100, &params.Overtime.Pct100},
		} {
			d, err := decimal.NewFromString(f.value)
			if err != nil {
				return nil, &engine.ConfigurationError{Field: f.name, Reason: "not a decimal: " + f.value}
			}
			*f.dst = d
		}
	}

	for i, bj := range pj.IncomeTaxBrackets {
		b := engine.TaxBracket{}
		for _, f := range []struct {
			value string
			dst   *decimal.Decimal
		}{
			{bj.Lower, &b.Lower}, {bj.Upper, &b.Upper}, {bj.Rate, &b.MarginalRate}, {bj.Base, &b.AccumulatedBase},
		} {
			d, err := decimal.NewFromString(f.value)
			if err != nil {
				return nil, &engine.ConfigurationError{
					Field:  fmt.Sprintf("income_tax_brackets[%d]", i),
					Reason: "not a decimal: " + f.value,
				}
			}
			*f.dst = d
		}
		params.Brackets = append(params.Brackets, b)
	}

	return engine.NewParameters(params)
}

// ToJSON renders a snapshot back to its JSON definition, for host storage.
func ToJSON(p *engine.Parameters) ParametersJSON {
	pj := ParametersJSON{
		EffectiveYear:               p.EffectiveYear,
		MinimumWage:                 p.MinimumWage.String(),
		WorkerSocialInsuranceRate:   p.WorkerSocialInsuranceRate.String(),
		EmployerSocialInsuranceRate: p.EmployerSocialInsuranceRate.String(),
		ReserveFundRate:             p.ReserveFundRate.String(),
		SeveranceNoticeRate:         p.SeveranceNoticeRate.String(),
		OvertimeMultipliers: &MultipliersJSON{
			Pct25:  p.Overtime.Pct25.String(),
			Pct50:  p.Overtime.Pct50.String(),
			Pct100: p.Overtime.Pct100.String(),
		},
		WeeklyHours:         p.WeeklyHours,
		VacationDaysPerYear: p.VacationDaysPerYear,
		MaxIndemnityYears:   p.MaxIndemnityYears,
	}
	for _, b := range p.Brackets {
		pj.IncomeTaxBrackets = append(pj.IncomeTaxBrackets, BracketJSON{
			Lower: b.Lower.String(),
			Upper: b.Upper.String(),
			Rate:  b.MarginalRate.String(),
			Base:  b.AccumulatedBase.String(),
		})
	}
	return pj
}

// =============================================================================
// YEARLY PRESETS
// =============================================================================

// EmployerRateAlternate is the other circulating reading of the employer
// social-insurance rate. Presets use 0.1115; derive a snapshot with
// WithEmployerRate(EmployerRateAlternate()) to follow this one instead.
func EmployerRateAlternate() decimal.Decimal { return engine.MustRate("0.1215") }

// Ecuador2024 returns the 2024 statutory snapshot: minimum wage 460.00 and
// the 2024 bracket table.
func Ecuador2024() (*engine.Parameters, error) {
	return engine.NewParameters(engine.Parameters{
		EffectiveYear:               2024,
		MinimumWage:                 engine.MustMoney("460.00"),
		WorkerSocialInsuranceRate:   engine.MustRate("0.0945"),
		EmployerSocialInsuranceRate: engine.MustRate("0.1115"),
		ReserveFundRate:             engine.MustRate("0.0833"),
		SeveranceNoticeRate:         engine.MustRate("0.25"),
		Overtime: engine.OvertimeMultipliers{
			Pct25:  engine.MustRate("1.25"),
			Pct50:  engine.MustRate("1.50"),
			Pct100: engine.MustRate("2.00"),
		},
		WeeklyHours:         40,
		VacationDaysPerYear: 15,
		MaxIndemnityYears:   25,
		Brackets:            brackets2024(),
	})
}

// Ecuador2025 returns the 2025 statutory snapshot: minimum wage 470.00 and
// the 2025 bracket table.
func Ecuador2025() (*engine.Parameters, error) {
	return engine.NewParameters(engine.Parameters{
		EffectiveYear:               2025,
		MinimumWage:                 engine.MustMoney("470.00"),
		WorkerSocialInsuranceRate:   engine.MustRate("0.0945"),
		EmployerSocialInsuranceRate: engine.MustRate("0.1115"),
		ReserveFundRate:             engine.MustRate("0.0833"),
		SeveranceNoticeRate:         engine.MustRate("0.25"),
		Overtime: engine.OvertimeMultipliers{
			Pct25:  engine.MustRate("1.25"),
			Pct50:  engine.MustRate("1.50"),
			Pct100: engine.MustRate("2.00"),
		},
		WeeklyHours:         40,
		VacationDaysPerYear: 15,
		MaxIndemnityYears:   25,
		Brackets:            brackets2025(),
	})
}

func brackets2024() []engine.TaxBracket {
	return bracketTable([][4]string{
		{"0", "11902", "0", "0"},
		{"11902", "15159", "0.05", "0"},
		{"15159", "19682", "0.10", "163"},
		{"19682", "26031", "0.12", "615"},
		{"26031", "34255", "0.15", "1377"},
		{"34255", "45407", "0.20", "2611"},
		{"45407", "60450", "0.25", "4841"},
		{"60450", "80605", "0.30", "8602"},
		{"80605", "107199", "0.35", "14648"},
		{"107199", "999999999", "0.37", "23956"},
	})
}

func brackets2025() []engine.TaxBracket {
	return bracketTable([][4]string{
		{"0", "12081", "0", "0"},
		{"12081", "15387", "0.05", "0"},
		{"15387", "19978", "0.10", "165"},
		{"19978", "26422", "0.12", "624"},
		{"26422", "34770", "0.15", "1398"},
		{"34770", "46089", "0.20", "2650"},
		{"46089", "61359", "0.25", "4914"},
		{"61359", "81817", "0.30", "8732"},
		{"81817", "108809", "0.35", "14869"},
		{"108809", "999999999", "0.37", "24316"},
	})
}

func bracketTable(rows [][4]string) []engine.TaxBracket {
	brackets := make([]engine.TaxBracket, 0, len(rows))
	for _, row := range rows {
		brackets = append(brackets, engine.TaxBracket{
			Lower:           engine.MustRate(row[0]),
			Upper:           engine.MustRate(row[1]),
			MarginalRate:    engine.MustRate(row[2]),
			AccumulatedBase: engine.MustRate(row[3]),
		})
	}
	return brackets
}
