/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Monetary amounts cross the wire as fixed-point strings ("460.00") so
  decimal values survive JSON intact. Dates are "YYYY-MM-DD" strings.

VALIDATION:
  Validation is done in handlers and the calculation packages, not in
  DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/params.go: ParametersJSON type
*/
package api

import (
	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/liquidation"
	"github.com/andino/payroll-engine/payroll"
	"github.com/andino/payroll-engine/vacation"
)

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	NationalID      string `json:"national_id,omitempty"`
	HireDate        string `json:"hire_date"`
	TerminationDate string `json:"termination_date,omitempty"`
	BaseSalary      string `json:"base_salary"`
	Class           string `json:"class"`
	Frequency       string `json:"frequency"`
	Status          string `json:"status"`
	Dependents      int    `json:"dependents"`
}

// CreateWorkerRequest is the request to register a worker.
type CreateWorkerRequest struct {
	ID         string `json:"id,omitempty"`
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id,omitempty"`
	HireDate   string `json:"hire_date"`
	BaseSalary string `json:"base_salary"`
	Class      string `json:"class,omitempty"`
	Frequency  string `json:"frequency,omitempty"`
	Dependents int    `json:"dependents,omitempty"`
}

func toWorkerDTO(w engine.Worker) WorkerDTO {
	dto := WorkerDTO{
		ID:         w.ID,
		FullName:   w.FullName,
		NationalID: w.NationalID,
		HireDate:   w.HireDate.String(),
		BaseSalary: w.BaseSalary.String(),
		Class:      string(w.Class),
		Frequency:  string(w.Frequency),
		Status:     string(w.Status),
		Dependents: w.Dependents,
	}
	if w.TerminationDate != nil {
		dto.TerminationDate = w.TerminationDate.String()
	}
	return dto
}

// =============================================================================
// PAYROLL
// =============================================================================

// OvertimeRequest carries overtime hours per surcharge bucket as decimal
// strings; empty means zero.
type OvertimeRequest struct {
	Pct25  string `json:"pct25,omitempty"`
	Pct50  string `json:"pct50,omitempty"`
	Pct100 string `json:"pct100,omitempty"`
}

// ConceptLineRequest is one additional concept line for a payroll run.
type ConceptLineRequest struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`

	AppliesToSocialInsurance *bool `json:"applies_to_social_insurance,omitempty"`
	AppliesToIncomeTax       *bool `json:"applies_to_income_tax,omitempty"`
}

// RunPayrollRequest is the request to compute one worker's period.
type RunPayrollRequest struct {
	Period     string               `json:"period"`
	End        string               `json:"end,omitempty"`
	DaysWorked int                  `json:"days_worked"`
	Overtime   *OvertimeRequest     `json:"overtime,omitempty"`
	Concepts   []ConceptLineRequest `json:"concepts,omitempty"`
	Loans      string               `json:"loans,omitempty"`
	Advances   string               `json:"advances,omitempty"`
}

// EvaluatedConceptDTO is one resolved concept line in a payroll response.
type EvaluatedConceptDTO struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Insurable bool   `json:"insurable"`
	Taxable   bool   `json:"taxable"`
}

// EmployerAccrualsDTO carries the informational employer-side amounts.
type EmployerAccrualsDTO struct {
	SocialInsurance string `json:"social_insurance"`
	ReserveFund     string `json:"reserve_fund"`
	Thirteenth      string `json:"thirteenth"`
	Fourteenth      string `json:"fourteenth"`
	Vacation        string `json:"vacation"`
}

// PayrollLineDTO is the computed payroll line for one worker and period.
type PayrollLineDTO struct {
	WorkerID   string `json:"worker_id"`
	Period     string `json:"period"`
	DaysWorked int    `json:"days_worked"`

	BasePay     string                `json:"base_pay"`
	Overtime25  string                `json:"overtime_25"`
	Overtime50  string                `json:"overtime_50"`
	Overtime100 string                `json:"overtime_100"`
	Extras      []EvaluatedConceptDTO `json:"extras,omitempty"`

	GrossEarnings  string `json:"gross_earnings"`
	InsurableBasis string `json:"insurable_basis"`
	TaxableBasis   string `json:"taxable_basis"`

	SocialInsuranceWorker string `json:"social_insurance_worker"`
	IncomeTax             string `json:"income_tax"`
	OtherDeductions       string `json:"other_deductions"`
	Loans                 string `json:"loans,omitempty"`
	Advances              string `json:"advances,omitempty"`

	NetPay string `json:"net_pay"`

	Employer EmployerAccrualsDTO `json:"employer"`

	Warnings []string `json:"warnings,omitempty"`
}

func toPayrollLineDTO(line *payroll.Line) PayrollLineDTO {
	dto := PayrollLineDTO{
		WorkerID:              line.WorkerID,
		Period:                line.Period,
		DaysWorked:            line.DaysWorked,
		BasePay:               line.BasePay.String(),
		Overtime25:            line.Overtime25.String(),
		Overtime50:            line.Overtime50.String(),
		Overtime100:           line.Overtime100.String(),
		GrossEarnings:         line.GrossEarnings.String(),
		InsurableBasis:        line.InsurableBasis.String(),
		TaxableBasis:          line.TaxableBasis.String(),
		SocialInsuranceWorker: line.SocialInsuranceWorker.String(),
		IncomeTax:             line.IncomeTax.String(),
		OtherDeductions:       line.OtherDeductions.String(),
		Loans:                 line.Loans.String(),
		Advances:              line.Advances.String(),
		NetPay:                line.NetPay.String(),
		Employer: EmployerAccrualsDTO{
			SocialInsurance: line.Employer.SocialInsurance.String(),
			ReserveFund:     line.Employer.ReserveFund.String(),
			Thirteenth:      line.Employer.Thirteenth.String(),
			Fourteenth:      line.Employer.Fourteenth.String(),
			Vacation:        line.Employer.Vacation.String(),
		},
		Warnings: line.Warnings,
	}
	for _, e := range line.Extras {
		dto.Extras = append(dto.Extras, EvaluatedConceptDTO{
			Code:      e.Code,
			Name:      e.Name,
			Kind:      string(e.Kind),
			Amount:    e.Amount.String(),
			Insurable: e.Insurable,
			Taxable:   e.Taxable,
		})
	}
	return dto
}

// BulkRunRequest asks for a full-attendance payroll run over all active workers.
type BulkRunRequest struct {
	Period string `json:"period"`
}

// BulkRunResultDTO summarizes a bulk payroll run.
type BulkRunResultDTO struct {
	Period    string   `json:"period"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// =============================================================================
// VACATION
// =============================================================================

// VacationEntryDTO is one ledger entry in API responses.
type VacationEntryDTO struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// VacationBalanceDTO is the vacation position at a date.
type VacationBalanceDTO struct {
	Accrued   int    `json:"accrued"`
	Taken     int    `json:"taken"`
	Paid      int    `json:"paid"`
	Balance   int    `json:"balance"`
	Overdrawn bool   `json:"overdrawn"`
	AsOf      string `json:"as_of"`
}

// VacationStatementDTO bundles a worker's ledger and current balance.
type VacationStatementDTO struct {
	WorkerID string             `json:"worker_id"`
	Balance  VacationBalanceDTO `json:"balance"`
	History  []VacationEntryDTO `json:"history"`
}

// VacationRequestBody is the request to take or cash out vacation days.
type VacationRequestBody struct {
	Kind  string `json:"kind,omitempty"` // taken (default) or paid
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// VacationRejectionDTO reports why a vacation request was not approved.
type VacationRejectionDTO struct {
	Result string `json:"result"`
}

func toVacationEntryDTO(e vacation.Entry) VacationEntryDTO {
	return VacationEntryDTO{
		ID:    e.ID,
		Kind:  string(e.Kind),
		Start: e.Start.String(),
		End:   e.End.String(),
		Days:  e.Days,
	}
}

func toVacationBalanceDTO(b vacation.Balance, asOf engine.Date) VacationBalanceDTO {
	return VacationBalanceDTO{
		Accrued:   b.Accrued,
		Taken:     b.Taken,
		Paid:      b.Paid,
		Balance:   b.Balance,
		Overdrawn: b.Overdrawn,
		AsOf:      asOf.String(),
	}
}

// =============================================================================
// BENEFITS
// =============================================================================

// BonusDTO is a thirteenth or fourteenth remuneration projection.
type BonusDTO struct {
	WorkerID    string `json:"worker_id"`
	Year        int    `json:"year"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Amount      string `json:"amount"`
}

// ReserveDTO is the accumulated reserve fund for a calendar year.
type ReserveDTO struct {
	WorkerID string `json:"worker_id"`
	Year     int    `json:"year"`
	Amount   string `json:"amount"`
}

// =============================================================================
// LIQUIDATION
// =============================================================================

// LiquidationRequest is the request to settle a terminated worker.
type LiquidationRequest struct {
	TerminationDate  string `json:"termination_date"`
	Cause            string `json:"cause"`
	OutstandingDebts string `json:"outstanding_debts,omitempty"`
}

// SettlementDTO is the full liquidation breakdown for a worker.
type SettlementDTO struct {
	WorkerID        string `json:"worker_id"`
	TerminationDate string `json:"termination_date"`
	Cause           string `json:"cause"`
	YearsWorked     string `json:"years_worked"`

	FinalSalary         string `json:"final_salary"`
	VacationDays        int    `json:"vacation_days"`
	VacationPayout      string `json:"vacation_payout"`
	Thirteenth          string `json:"thirteenth"`
	Fourteenth          string `json:"fourteenth"`
	ReserveFund         string `json:"reserve_fund"`
	Indemnity           string `json:"indemnity"`
	NoticeInLieu        string `json:"notice_in_lieu"`
	EmployerNoticeBonus string `json:"employer_notice_bonus"`

	Deductions    string `json:"deductions"`
	NetSettlement string `json:"net_settlement"`
}

func toSettlementDTO(r *liquidation.Result) SettlementDTO {
	return SettlementDTO{
		WorkerID:            r.WorkerID,
		TerminationDate:     r.TerminationDate.String(),
		Cause:               string(r.Cause),
		YearsWorked:         r.YearsWorked.String(),
		FinalSalary:         r.FinalSalary.String(),
		VacationDays:        r.VacationDays,
		VacationPayout:      r.VacationPayout.String(),
		Thirteenth:          r.Thirteenth.String(),
		Fourteenth:          r.Fourteenth.String(),
		ReserveFund:         r.ReserveFund.String(),
		Indemnity:           r.Indemnity.String(),
		NoticeInLieu:        r.NoticeInLieu.String(),
		EmployerNoticeBonus: r.EmployerNoticeBonus.String(),
		Deductions:          r.Deductions.String(),
		NetSettlement:       r.NetSettlement.String(),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
