/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll calculators via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the pure
  calculation packages.

ENDPOINTS:
  Workers:
    GET    /api/workers                      List all workers
    POST   /api/workers                      Register worker
    GET    /api/workers/{id}                 Get worker details

  Payroll:
    POST   /api/workers/{id}/payroll         Run one period
    GET    /api/workers/{id}/payroll         Stored lines for worker
    GET    /api/workers/{id}/payroll/{period} One stored line
    POST   /api/payroll/run                  Bulk run all active workers

  Vacation:
    GET    /api/workers/{id}/vacations       Ledger and balance
    POST   /api/workers/{id}/vacations       Request days (taken or paid)

  Benefits:
    GET    /api/workers/{id}/thirteenth?year= Thirteenth remuneration
    GET    /api/workers/{id}/fourteenth?year= Fourteenth remuneration
    GET    /api/workers/{id}/reserve?year=    Reserve fund for the year

  Liquidation:
    POST   /api/workers/{id}/liquidation     Settle a terminated worker
    GET    /api/workers/{id}/liquidation     Stored settlement

  Parameters:
    GET    /api/parameters                   Stored snapshot years
    GET    /api/parameters/{year}            One snapshot
    PUT    /api/parameters/{year}            Store/replace a snapshot

REQUEST FLOW:
  1. Parse HTTP request
  2. Load worker/history/parameters from the store
  3. Call the pure calculators
  4. Persist computed documents where the operation stores results
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (already settled, overlapping vacation)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - runner.go: Scheduled and bulk payroll runs
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andino/payroll-engine/benefits"
	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/factory"
	"github.com/andino/payroll-engine/liquidation"
	"github.com/andino/payroll-engine/payroll"
	"github.com/andino/payroll-engine/store/sqlite"
	"github.com/andino/payroll-engine/vacation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Today supplies "now" for balance queries; overridable in tests.
	Today func() engine.Date
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Today: engine.Today,
	}
}

// paramsFor resolves the statutory snapshot for a year: stored sets win,
// the built-in presets cover 2024 and 2025 when nothing is stored.
func (h *Handler) paramsFor(ctx context.Context, year int) (*engine.Parameters, error) {
	rec, err := h.Store.GetParameters(ctx, year)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return factory.ParseParameters(rec.ParamsJSON)
	}

	switch year {
	case 2024:
		return factory.Ecuador2024()
	case 2025:
		return factory.Ecuador2025()
	}
	return nil, &engine.ConfigurationError{
		Field:  "year",
		Reason: fmt.Sprintf("no parameter set for %d", year),
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = toWorkerDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(*wk))
}

// CreateWorker registers a new worker.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hireDate, err := engine.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	salary, err := engine.NewMoney(req.BaseSalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base_salary", err)
		return
	}

	wk := engine.Worker{
		ID:         req.ID,
		FullName:   req.FullName,
		NationalID: req.NationalID,
		HireDate:   hireDate,
		BaseSalary: salary,
		Class:      engine.WorkerClass(req.Class),
		Frequency:  engine.PayFrequency(req.Frequency),
		Status:     engine.StatusActive,
		Dependents: req.Dependents,
	}
	if wk.ID == "" {
		wk.ID = uuid.NewString()
	}
	if wk.Class == "" {
		wk.Class = engine.ClassOperational
	}
	if wk.Frequency == "" {
		wk.Frequency = engine.FrequencyMonthly
	}

	if err := wk.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid worker", err)
		return
	}
	if err := h.Store.SaveWorker(r.Context(), wk); err != nil {
		writeDomainError(w, "Failed to create worker", err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkerDTO(wk))
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// RunPayroll computes and stores one worker's period line.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	var req RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input, err := toPeriodInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payroll input", err)
		return
	}

	params, err := h.paramsForPeriod(r.Context(), input)
	if err != nil {
		writeDomainError(w, "Failed to resolve parameters", err)
		return
	}

	line, err := payroll.Calculate(*wk, input, params)
	if err != nil {
		writeDomainError(w, "Payroll calculation failed", err)
		return
	}

	dto := toPayrollLineDTO(line)
	doc, err := json.Marshal(dto)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode line", err)
		return
	}
	if err := h.Store.SavePayrollLine(r.Context(), sqlite.PayrollRecord{
		WorkerID: wk.ID,
		Period:   input.Label,
		LineJSON: string(doc),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store line", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// ListPayroll returns a worker's stored lines, newest period first.
func (h *Handler) ListPayroll(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	records, err := h.Store.ListPayrollLines(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payroll", err)
		return
	}

	lines := make([]json.RawMessage, len(records))
	for i, rec := range records {
		lines[i] = json.RawMessage(rec.LineJSON)
	}
	writeJSON(w, http.StatusOK, lines)
}

// GetPayrollPeriod returns one stored line.
func (h *Handler) GetPayrollPeriod(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}
	period := chi.URLParam(r, "period")

	rec, err := h.Store.GetPayrollLine(r.Context(), wk.ID, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get line", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No payroll line for period "+period, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rec.LineJSON))
}

// RunBulkPayroll computes a full-attendance period for every active worker.
func (h *Handler) RunBulkPayroll(w http.ResponseWriter, r *http.Request) {
	var req BulkRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Period == "" {
		writeError(w, http.StatusBadRequest, "period is required", nil)
		return
	}

	result, err := h.runPeriodForAll(r.Context(), req.Period, false)
	if err != nil {
		writeDomainError(w, "Bulk run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// GetVacations returns a worker's ledger and balance. The balance date
// defaults to today and can be overridden with ?as_of=YYYY-MM-DD.
func (h *Handler) GetVacations(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	asOf := h.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		parsed, err := engine.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
		asOf = parsed
	}

	history, err := h.Store.LoadVacationHistory(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load vacation history", err)
		return
	}
	params, err := h.paramsFor(r.Context(), asOf.Year())
	if err != nil {
		writeDomainError(w, "Failed to resolve parameters", err)
		return
	}

	balance := vacation.BalanceAt(*wk, history, asOf, params)

	stmt := VacationStatementDTO{
		WorkerID: wk.ID,
		Balance:  toVacationBalanceDTO(balance, asOf),
		History:  make([]VacationEntryDTO, len(history)),
	}
	for i, e := range history {
		stmt.History[i] = toVacationEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, stmt)
}

// RequestVacation validates and records a taken or paid vacation range.
func (h *Handler) RequestVacation(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	var req VacationRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := vacation.EntryTaken
	switch req.Kind {
	case "", string(vacation.EntryTaken):
	case string(vacation.EntryPaid):
		kind = vacation.EntryPaid
	default:
		writeError(w, http.StatusBadRequest, "kind must be taken or paid", nil)
		return
	}

	start, err := engine.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}
	end, err := engine.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}

	days := req.Days
	if days == 0 && !end.Before(start) {
		days = engine.DaysBetween(start, end)
	}

	history, err := h.Store.LoadVacationHistory(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load vacation history", err)
		return
	}
	params, err := h.paramsFor(r.Context(), start.Year())
	if err != nil {
		writeDomainError(w, "Failed to resolve parameters", err)
		return
	}

	result := vacation.ValidateRequest(*wk, history, vacation.Request{Start: start, End: end, Days: days}, params)
	if result != vacation.ResultOK {
		status := http.StatusConflict
		if result == vacation.ResultNegativeRange || result == vacation.ResultBeforeHireDate {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, VacationRejectionDTO{Result: string(result)})
		return
	}

	entry, err := h.Store.AppendVacationEntry(r.Context(), wk.ID, vacation.Entry{
		Kind:  kind,
		Start: start,
		End:   end,
		Days:  days,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record vacation", err)
		return
	}

	writeJSON(w, http.StatusCreated, toVacationEntryDTO(entry))
}

// =============================================================================
// BENEFIT HANDLERS
// =============================================================================

// GetThirteenth projects the thirteenth remuneration for a bonus year.
func (h *Handler) GetThirteenth(w http.ResponseWriter, r *http.Request) {
	h.bonusProjection(w, r, engine.ThirteenthWindow,
		func(wk engine.Worker, earnings []benefits.MonthlyEarning, window engine.Interval, cutoff engine.Date, params *engine.Parameters) engine.Money {
			return benefits.ThirteenthProportional(wk, earnings, window, cutoff)
		})
}

// GetFourteenth projects the fourteenth remuneration for a bonus year.
func (h *Handler) GetFourteenth(w http.ResponseWriter, r *http.Request) {
	h.bonusProjection(w, r, engine.FourteenthWindow,
		func(wk engine.Worker, _ []benefits.MonthlyEarning, window engine.Interval, cutoff engine.Date, params *engine.Parameters) engine.Money {
			return benefits.FourteenthProportional(wk, window, cutoff, params)
		})
}

func (h *Handler) bonusProjection(
	w http.ResponseWriter,
	r *http.Request,
	windowFor func(year int) engine.Interval,
	compute func(engine.Worker, []benefits.MonthlyEarning, engine.Interval, engine.Date, *engine.Parameters) engine.Money,
) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	params, err := h.paramsFor(r.Context(), year)
	if err != nil {
		writeDomainError(w, "Failed to resolve parameters", err)
		return
	}
	earnings, err := h.monthlyEarnings(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load earnings", err)
		return
	}

	window := windowFor(year)
	cutoff := window.End
	if wk.TerminationDate != nil && wk.TerminationDate.Before(cutoff) {
		cutoff = *wk.TerminationDate
	}

	amount := compute(*wk, earnings, window, cutoff, params)
	writeJSON(w, http.StatusOK, BonusDTO{
		WorkerID:    wk.ID,
		Year:        year,
		WindowStart: window.Start.String(),
		WindowEnd:   window.End.String(),
		Amount:      amount.String(),
	})
}

// GetReserve returns the reserve fund accumulated over a calendar year.
func (h *Handler) GetReserve(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	params, err := h.paramsFor(r.Context(), year)
	if err != nil {
		writeDomainError(w, "Failed to resolve parameters", err)
		return
	}
	earnings, err := h.monthlyEarnings(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load earnings", err)
		return
	}

	var inYear []benefits.MonthlyEarning
	for _, e := range earnings {
		if e.Month.Year() == year {
			inYear = append(inYear, e)
		}
	}

	amount := benefits.ReserveBalance(*wk, inYear, params)
	writeJSON(w, http.StatusOK, ReserveDTO{
		WorkerID: wk.ID,
		Year:     year,
		Amount:   amount.String(),
	})
}

// =============================================================================
// LIQUIDATION HANDLERS
// =============================================================================

// Liquidate settles a terminated worker and stores the result. A worker is
// settled at most once.
func (h *Handler) Liquidate(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	existing, err := h.Store.GetSettlement(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check settlement", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Worker already settled", nil)
		return
	}

	var req LiquidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	termination, err := engine.ParseDate(req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid termination_date format (use YYYY-MM-DD)", err)
		return
	}
	debts := engine.ZeroMoney()
	if req.OutstandingDebts != "" {
		if debts, err = engine.NewMoney(req.OutstandingDebts); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid outstanding_debts", err)
			return
		}
	}

	history, err := h.Store.LoadVacationHistory(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load vacation history", err)
		return
	}
	earnings, err := h.monthlyEarnings(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load earnings", err)
		return
	}
	params, err := h.paramsFor(r.Context(), termination.Year())
	if err != nil {
		writeDomainError(w, "Failed to resolve parameters", err)
		return
	}

	result, err := liquidation.Calculate(*wk, liquidation.Input{
		TerminationDate:  termination,
		Cause:            liquidation.Cause(req.Cause),
		OutstandingDebts: debts,
		VacationHistory:  history,
		Earnings:         earnings,
	}, params)
	if err != nil {
		writeDomainError(w, "Liquidation failed", err)
		return
	}

	dto := toSettlementDTO(result)
	doc, err := json.Marshal(dto)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode settlement", err)
		return
	}
	if err := h.Store.SaveSettlement(r.Context(), sqlite.SettlementRecord{
		WorkerID:   wk.ID,
		ResultJSON: string(doc),
	}); err != nil {
		writeDomainError(w, "Failed to store settlement", err)
		return
	}

	wk.TerminationDate = &termination
	wk.Status = result.NewStatus
	if err := h.Store.SaveWorker(r.Context(), *wk); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update worker", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// GetSettlement returns a worker's stored settlement.
func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.loadWorker(w, r)
	if !ok {
		return
	}

	rec, err := h.Store.GetSettlement(r.Context(), wk.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get settlement", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Worker is not settled", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rec.ResultJSON))
}

// =============================================================================
// PARAMETER HANDLERS
// =============================================================================

// ListParameterYears returns the years with a stored snapshot.
func (h *Handler) ListParameterYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.Store.ListParameterYears(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list parameter sets", err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

// GetParameters returns the snapshot for a year (stored or built-in preset).
func (h *Handler) GetParameters(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	params, err := h.paramsFor(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusNotFound, "No parameter set for year", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(params))
}

// PutParameters stores or replaces the snapshot for a year. The body is
// validated as a full snapshot before anything is written.
func (h *Handler) PutParameters(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	var pj factory.ParametersJSON
	if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if pj.EffectiveYear == 0 {
		pj.EffectiveYear = year
	}
	if pj.EffectiveYear != year {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("effective_year %d does not match path year %d", pj.EffectiveYear, year), nil)
		return
	}

	params, err := factory.FromJSON(pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid parameter set", err)
		return
	}

	doc, err := json.Marshal(factory.ToJSON(params))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode parameter set", err)
		return
	}
	if err := h.Store.SaveParameters(r.Context(), sqlite.ParameterRecord{
		Year:       year,
		ParamsJSON: string(doc),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store parameter set", err)
		return
	}

	writeJSON(w, http.StatusOK, factory.ToJSON(params))
}

// ResetDatabase clears all data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

// loadWorker resolves the {id} path parameter, writing 404/500 on failure.
func (h *Handler) loadWorker(w http.ResponseWriter, r *http.Request) (*engine.Worker, bool) {
	id := chi.URLParam(r, "id")
	wk, err := h.Store.GetWorker(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get worker", err)
		return nil, false
	}
	if wk == nil {
		writeError(w, http.StatusNotFound, "Worker not found", nil)
		return nil, false
	}
	return wk, true
}

func (h *Handler) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return h.Today().Year(), true
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, false
	}
	return year, true
}

// paramsForPeriod picks the snapshot year from the period's end date.
func (h *Handler) paramsForPeriod(ctx context.Context, input payroll.PeriodInput) (*engine.Parameters, error) {
	year := h.Today().Year()
	if !input.End.IsZero() {
		year = input.End.Year()
	} else if end, err := engine.ParseDate(input.Label + "-01"); err == nil {
		year = end.Year()
	}
	return h.paramsFor(ctx, year)
}

// monthlyEarnings rebuilds the bonus earnings series from the insurable
// basis of stored payroll lines, so non-insurable payout lines (statutory
// bonuses, reserve disbursements) never inflate the thirteenth or the
// reserve fund. Only monthly "YYYY-MM" periods contribute; weekly labels
// are the host's to aggregate before querying bonuses.
func (h *Handler) monthlyEarnings(ctx context.Context, workerID string) ([]benefits.MonthlyEarning, error) {
	records, err := h.Store.ListPayrollLines(ctx, workerID)
	if err != nil {
		return nil, err
	}

	var earnings []benefits.MonthlyEarning
	for _, rec := range records {
		month, err := engine.ParseDate(rec.Period + "-01")
		if err != nil {
			continue
		}
		var dto PayrollLineDTO
		if err := json.Unmarshal([]byte(rec.LineJSON), &dto); err != nil {
			return nil, fmt.Errorf("corrupt payroll line %s/%s: %w", workerID, rec.Period, err)
		}
		amount, err := engine.NewMoney(dto.InsurableBasis)
		if err != nil {
			return nil, fmt.Errorf("corrupt insurable basis %s/%s: %w", workerID, rec.Period, err)
		}
		earnings = append(earnings, benefits.MonthlyEarning{Month: month, Amount: amount})
	}
	return earnings, nil
}

func toPeriodInput(req RunPayrollRequest) (payroll.PeriodInput, error) {
	input := payroll.PeriodInput{
		Label:      req.Period,
		DaysWorked: req.DaysWorked,
	}

	if req.End != "" {
		end, err := engine.ParseDate(req.End)
		if err != nil {
			return input, fmt.Errorf("invalid end date: %w", err)
		}
		input.End = end
	}

	var err error
	if input.Loans, err = optionalMoney(req.Loans); err != nil {
		return input, fmt.Errorf("invalid loans: %w", err)
	}
	if input.Advances, err = optionalMoney(req.Advances); err != nil {
		return input, fmt.Errorf("invalid advances: %w", err)
	}

	if req.Overtime != nil {
		if input.Overtime.Pct25, err = optionalDecimal(req.Overtime.Pct25); err != nil {
			return input, fmt.Errorf("invalid overtime pct25: %w", err)
		}
		if input.Overtime.Pct50, err = optionalDecimal(req.Overtime.Pct50); err != nil {
			return input, fmt.Errorf("invalid overtime pct50: %w", err)
		}
		if input.Overtime.Pct100, err = optionalDecimal(req.Overtime.Pct100); err != nil {
			return input, fmt.Errorf("invalid overtime pct100: %w", err)
		}
	}

	for _, c := range req.Concepts {
		amount, err := engine.NewMoney(c.Amount)
		if err != nil {
			return input, fmt.Errorf("invalid amount for concept %s: %w", c.Code, err)
		}
		input.Concepts = append(input.Concepts, payroll.ConceptLine{
			Code:                     c.Code,
			Amount:                   amount,
			AppliesToSocialInsurance: c.AppliesToSocialInsurance,
			AppliesToIncomeTax:       c.AppliesToIncomeTax,
		})
	}

	return input, nil
}

func optionalMoney(s string) (engine.Money, error) {
	if s == "" {
		return engine.ZeroMoney(), nil
	}
	return engine.NewMoney(s)
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses: client errors
// (bad input, bad period, bad termination, inconsistent concept) are 400,
// configuration problems 422, the rest 500.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case isConfigurationError(err):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func isConfigurationError(err error) bool {
	return errors.Is(err, engine.ErrConfiguration)
}
