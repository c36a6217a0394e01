package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andino/payroll-engine/api"
	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/factory"
	"github.com/andino/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store)
	// Fixed clock so year resolution and balances are deterministic.
	h.Today = func() engine.Date { return engine.NewDate(2024, time.December, 15) }
	return api.NewRouter(h)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createWorker(t *testing.T, router http.Handler, id, hireDate, salary string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/workers", api.CreateWorkerRequest{
		ID:         id,
		FullName:   "Test Worker " + id,
		HireDate:   hireDate,
		BaseSalary: salary,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
}

// =============================================================================
// WORKERS
// =============================================================================

func TestCreateAndGetWorker(t *testing.T) {
	router := newTestAPI(t)

	rec := do(t, router, http.MethodPost, "/api/workers", api.CreateWorkerRequest{
		FullName:   "Ana Castillo",
		HireDate:   "2020-01-01",
		BaseSalary: "460.00",
		Dependents: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decode[api.WorkerDTO](t, rec)
	assert.NotEmpty(t, created.ID, "an ID is generated when none is given")
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, "monthly", created.Frequency, "monthly is the default frequency")

	rec = do(t, router, http.MethodGet, "/api/workers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[api.WorkerDTO](t, rec)
	assert.Equal(t, "Ana Castillo", got.FullName)
	assert.Equal(t, "460.00", got.BaseSalary)

	rec = do(t, router, http.MethodGet, "/api/workers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.WorkerDTO](t, rec), 1)
}

func TestCreateWorkerValidation(t *testing.T) {
	router := newTestAPI(t)

	cases := []struct {
		name string
		req  api.CreateWorkerRequest
	}{
		{"bad hire date", api.CreateWorkerRequest{FullName: "X", HireDate: "01/01/2020", BaseSalary: "460.00"}},
		{"bad salary", api.CreateWorkerRequest{FullName: "X", HireDate: "2020-01-01", BaseSalary: "lots"}},
		{"non-positive salary", api.CreateWorkerRequest{FullName: "X", HireDate: "2020-01-01", BaseSalary: "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/workers", tc.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetWorkerNotFound(t *testing.T) {
	router := newTestAPI(t)
	rec := do(t, router, http.MethodGet, "/api/workers/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestRunPayrollFullMonth(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "460.00")

	rec := do(t, router, http.MethodPost, "/api/workers/w-1/payroll", api.RunPayrollRequest{
		Period:     "2024-06",
		DaysWorked: 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	line := decode[api.PayrollLineDTO](t, rec)
	assert.Equal(t, "460.00", line.GrossEarnings)
	assert.Equal(t, "43.47", line.SocialInsuranceWorker)
	assert.Equal(t, "0.00", line.IncomeTax)
	assert.Equal(t, "416.53", line.NetPay)

	// The line is stored and retrievable.
	rec = do(t, router, http.MethodGet, "/api/workers/w-1/payroll/2024-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[api.PayrollLineDTO](t, rec)
	assert.Equal(t, line.NetPay, stored.NetPay)

	rec = do(t, router, http.MethodGet, "/api/workers/w-1/payroll", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.PayrollLineDTO](t, rec), 1)
}

func TestRunPayrollRejectsBadInput(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "460.00")

	rec := do(t, router, http.MethodPost, "/api/workers/w-1/payroll", api.RunPayrollRequest{
		Period:     "2024-06",
		DaysWorked: 31,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/workers/w-1/payroll", api.RunPayrollRequest{
		Period:     "2024-06",
		DaysWorked: 8,
		Overtime:   &api.OvertimeRequest{Pct50: "eight"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPayrollPeriodNotFound(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "460.00")
	rec := do(t, router, http.MethodGet, "/api/workers/w-1/payroll/2024-01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkRun(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "460.00")
	createWorker(t, router, "w-2", "2021-05-10", "900.00")

	rec := do(t, router, http.MethodPost, "/api/payroll/run", api.BulkRunRequest{Period: "2024-06"})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	result := decode[api.BulkRunResultDTO](t, rec)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)

	rec = do(t, router, http.MethodGet, "/api/workers/w-2/payroll/2024-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	line := decode[api.PayrollLineDTO](t, rec)
	assert.Equal(t, "900.00", line.GrossEarnings)
}

func TestBulkRunRequiresPeriod(t *testing.T) {
	router := newTestAPI(t)
	rec := do(t, router, http.MethodPost, "/api/payroll/run", api.BulkRunRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// VACATION
// =============================================================================

func TestVacationRequestAndBalance(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "460.00")

	rec := do(t, router, http.MethodPost, "/api/workers/w-1/vacations", api.VacationRequestBody{
		Start: "2024-03-04",
		End:   "2024-03-08",
		Days:  5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	entry := decode[api.VacationEntryDTO](t, rec)
	assert.Equal(t, "taken", entry.Kind)
	assert.NotEmpty(t, entry.ID)

	rec = do(t, router, http.MethodGet, "/api/workers/w-1/vacations?as_of=2024-06-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stmt := decode[api.VacationStatementDTO](t, rec)
	assert.Equal(t, 67, stmt.Balance.Accrued, "floor(4.4983 years * 15)")
	assert.Equal(t, 5, stmt.Balance.Taken)
	assert.Equal(t, 62, stmt.Balance.Balance)
	assert.Len(t, stmt.History, 1)
}

func TestVacationRequestRejections(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "460.00")

	rec := do(t, router, http.MethodPost, "/api/workers/w-1/vacations", api.VacationRequestBody{
		Start: "2024-03-04", End: "2024-03-08", Days: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("overlap", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/workers/w-1/vacations", api.VacationRequestBody{
			Start: "2024-03-06", End: "2024-03-10", Days: 5,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "overlaps_existing_request", decode[api.VacationRejectionDTO](t, rec).Result)
	})

	t.Run("before hire", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/workers/w-1/vacations", api.VacationRequestBody{
			Start: "2019-06-01", End: "2019-06-05", Days: 5,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/workers/w-1/vacations", api.VacationRequestBody{
			Start: "2024-07-01", End: "2024-12-01", Days: 150,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "insufficient_balance", decode[api.VacationRejectionDTO](t, rec).Result)
	})
}

// =============================================================================
// BENEFITS
// =============================================================================

func TestBenefitProjectionsFromStoredPayroll(t *testing.T) {
	router := newTestAPI(t)

	rec := do(t, router, http.MethodPost, "/api/demo/seed", nil)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	// demo-maria: 460.00/month, hired 2019, twelve 2024 lines stored.
	t.Run("thirteenth", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/workers/demo-maria/thirteenth?year=2024", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		bonus := decode[api.BonusDTO](t, rec)
		assert.Equal(t, "2023-12-01", bonus.WindowStart)
		assert.Equal(t, "2024-11-30", bonus.WindowEnd)
		// Jan-Nov insurable earnings 5060 / 12; full-window service pays
		// the full bonus, leap-year window notwithstanding.
		assert.Equal(t, "421.67", bonus.Amount)
	})

	t.Run("fourteenth", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/workers/demo-maria/fourteenth?year=2024", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		bonus := decode[api.BonusDTO](t, rec)
		// Exactly one minimum wage for full-window service.
		assert.Equal(t, "460.00", bonus.Amount)
	})

	t.Run("reserve", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/workers/demo-maria/reserve?year=2024", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		reserve := decode[api.ReserveDTO](t, rec)
		// Twelve months of 460.00 * 0.0833, rounded per month.
		assert.Equal(t, "459.84", reserve.Amount)
	})
}

func TestThirteenthBasisExcludesNonInsurableLines(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "600.00")

	// A fourteenth payout rides along on the June line. It raises gross
	// pay but not the insurable basis.
	rec := do(t, router, http.MethodPost, "/api/workers/w-1/payroll", api.RunPayrollRequest{
		Period:     "2024-06",
		DaysWorked: 30,
		Concepts:   []api.ConceptLineRequest{{Code: "FOURTEENTH", Amount: "460.00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	line := decode[api.PayrollLineDTO](t, rec)
	assert.Equal(t, "1060.00", line.GrossEarnings)
	assert.Equal(t, "600.00", line.InsurableBasis)

	// Only the insurable 600.00 feeds the thirteenth: 600/12 = 50.00 over
	// full-window service.
	rec = do(t, router, http.MethodGet, "/api/workers/w-1/thirteenth?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "50.00", decode[api.BonusDTO](t, rec).Amount)
}

// =============================================================================
// LIQUIDATION
// =============================================================================

func TestLiquidationFlow(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "1000.00")

	rec := do(t, router, http.MethodPost, "/api/workers/w-1/liquidation", api.LiquidationRequest{
		TerminationDate: "2024-06-30",
		Cause:           "dismissal_without_cause",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	settlement := decode[api.SettlementDTO](t, rec)
	assert.Equal(t, "4.4983", settlement.YearsWorked)
	assert.Equal(t, "4498.30", settlement.Indemnity)
	assert.Equal(t, "1124.58", settlement.NoticeInLieu)
	assert.Equal(t, 67, settlement.VacationDays)
	assert.Equal(t, "2233.33", settlement.VacationPayout)
	// No payroll lines are stored, so the earnings-driven components are zero.
	assert.Equal(t, "0.00", settlement.Thirteenth)
	assert.Equal(t, "0.00", settlement.ReserveFund)
	// The fourteenth accrues against the minimum wage regardless of earnings.
	assert.Equal(t, "428.06", settlement.Fourteenth)
	assert.Equal(t, "10408.85", settlement.NetSettlement)

	// The worker record now carries the termination.
	rec = do(t, router, http.MethodGet, "/api/workers/w-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	wk := decode[api.WorkerDTO](t, rec)
	assert.Equal(t, "retired", wk.Status)
	assert.Equal(t, "2024-06-30", wk.TerminationDate)

	// The settlement is stored and retrievable.
	rec = do(t, router, http.MethodGet, "/api/workers/w-1/liquidation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[api.SettlementDTO](t, rec)
	assert.Equal(t, settlement.NetSettlement, stored.NetSettlement)

	// Settling twice conflicts.
	rec = do(t, router, http.MethodPost, "/api/workers/w-1/liquidation", api.LiquidationRequest{
		TerminationDate: "2024-06-30",
		Cause:           "resignation",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLiquidationRejectsBadRequests(t *testing.T) {
	router := newTestAPI(t)
	createWorker(t, router, "w-1", "2020-01-01", "1000.00")

	t.Run("termination before hire", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/workers/w-1/liquidation", api.LiquidationRequest{
			TerminationDate: "2019-06-30",
			Cause:           "resignation",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown cause", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/workers/w-1/liquidation", api.LiquidationRequest{
			TerminationDate: "2024-06-30",
			Cause:           "abandonment",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsettled worker has no settlement", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/workers/w-1/liquidation", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// =============================================================================
// PARAMETERS
// =============================================================================

func TestParameterSnapshots(t *testing.T) {
	router := newTestAPI(t)

	// Nothing stored yet; presets still answer for their years.
	rec := do(t, router, http.MethodGet, "/api/parameters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]int](t, rec))

	rec = do(t, router, http.MethodGet, "/api/parameters/2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	preset := decode[factory.ParametersJSON](t, rec)
	assert.Equal(t, "460.00", preset.MinimumWage)
	assert.Len(t, preset.IncomeTaxBrackets, 10)

	rec = do(t, router, http.MethodGet, "/api/parameters/1999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Store a 2026 snapshot derived from the 2024 preset.
	next := preset
	next.EffectiveYear = 2026
	next.MinimumWage = "480.00"
	rec = do(t, router, http.MethodPut, "/api/parameters/2026", next)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/parameters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2026}, decode[[]int](t, rec))

	rec = do(t, router, http.MethodGet, "/api/parameters/2026", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "480.00", decode[factory.ParametersJSON](t, rec).MinimumWage)
}

func TestPutParametersValidates(t *testing.T) {
	router := newTestAPI(t)

	t.Run("year mismatch", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/parameters/2026", factory.ParametersJSON{
			EffectiveYear: 2027,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/parameters/2026", factory.ParametersJSON{
			EffectiveYear: 2026,
			MinimumWage:   "minimum",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
