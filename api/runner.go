/*
runner.go - Scheduled and bulk payroll runs

PURPOSE:
  Computes a full-attendance payroll period for every active worker, either
  on demand (POST /api/payroll/run) or from a background scheduler that
  closes the previous month automatically.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Detects workers missing a line for the last closed month
  - Skips workers that already have a stored line for the period
  - Mid-month hires get the pro-rated days-worked convention

SCOPE:
  Bulk runs cover monthly "YYYY-MM" periods only. Weekly and biweekly
  periods need explicit end dates and go through the per-worker endpoint.

USAGE:
  runner := NewPayrollRunner(store, handler)
  runner.Start()
  // ... later
  runner.Stop()

SEE ALSO:
  - handlers.go: RunBulkPayroll endpoint (manual runs)
  - payroll/calculator.go: The per-worker calculation
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/payroll"
	"github.com/andino/payroll-engine/store/sqlite"
)

// PayrollRunner closes payroll periods for all active workers.
type PayrollRunner struct {
	Store         *sqlite.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPayrollRunner creates a new runner.
func NewPayrollRunner(store *sqlite.Store, handler *Handler) *PayrollRunner {
	return &PayrollRunner{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the runner.
func (pr *PayrollRunner) Start() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if !pr.Enabled {
		log.Println("[Runner] Disabled, not starting")
		return
	}

	pr.ticker = time.NewTicker(pr.CheckInterval)
	pr.wg.Add(1)

	go pr.run()

	log.Printf("[Runner] Started with check interval: %v", pr.CheckInterval)
}

// Stop stops the runner.
func (pr *PayrollRunner) Stop() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.ticker != nil {
		pr.ticker.Stop()
		close(pr.stop)
		pr.wg.Wait()
		log.Println("[Runner] Stopped")
	}
}

func (pr *PayrollRunner) run() {
	defer pr.wg.Done()

	// Run immediately on start
	pr.checkAndProcess()

	for {
		select {
		case <-pr.ticker.C:
			pr.checkAndProcess()
		case <-pr.stop:
			return
		}
	}
}

// checkAndProcess closes the most recent fully elapsed month for workers
// that are missing a line for it.
func (pr *PayrollRunner) checkAndProcess() {
	ctx := context.Background()
	today := pr.Handler.Today()

	prev := engine.StartOfMonth(today.Year(), today.Month()).AddDays(-1)
	period := fmt.Sprintf("%04d-%02d", prev.Year(), prev.Month())

	result, err := pr.Handler.runPeriodForAll(ctx, period, true)
	if err != nil {
		log.Printf("[Runner] Error closing period %s: %v", period, err)
		return
	}

	if result.Processed > 0 || result.Failed > 0 {
		log.Printf("[Runner] Period %s: %d processed, %d skipped, %d failed",
			period, result.Processed, result.Skipped, result.Failed)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (pr *PayrollRunner) RunNow() {
	pr.checkAndProcess()
}

// runPeriodForAll computes a full-attendance line for every active monthly
// worker. With skipExisting, workers already holding a stored line for the
// period keep it; manual runs recompute.
func (h *Handler) runPeriodForAll(ctx context.Context, period string, skipExisting bool) (*BulkRunResultDTO, error) {
	periodEnd, err := engine.ParseDate(period + "-01")
	if err != nil {
		return nil, &engine.PeriodError{Period: period, Reason: "bulk runs take monthly YYYY-MM periods"}
	}
	periodEnd = periodEnd.EndOfMonth()

	params, err := h.paramsFor(ctx, periodEnd.Year())
	if err != nil {
		return nil, err
	}

	workers, err := h.Store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	result := &BulkRunResultDTO{Period: period}
	for _, wk := range workers {
		if wk.Status == engine.StatusRetired || wk.Status == engine.StatusSuspended {
			result.Skipped++
			continue
		}
		if wk.Frequency != engine.FrequencyMonthly {
			result.Skipped++
			continue
		}
		if wk.HireDate.After(periodEnd) {
			result.Skipped++
			continue
		}

		if skipExisting {
			existing, err := h.Store.GetPayrollLine(ctx, wk.ID, period)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				result.Skipped++
				continue
			}
		}

		days := engine.CommercialMonthDays
		if wk.HireDate.Year() == periodEnd.Year() && wk.HireDate.Month() == periodEnd.Month() {
			days = payroll.DaysForMidPeriodHire(wk.HireDate)
		}

		line, err := payroll.Calculate(wk, payroll.PeriodInput{
			Label:      period,
			DaysWorked: days,
		}, params)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", wk.ID, err))
			continue
		}

		doc, err := json.Marshal(toPayrollLineDTO(line))
		if err != nil {
			return nil, err
		}
		if err := h.Store.SavePayrollLine(ctx, sqlite.PayrollRecord{
			WorkerID: wk.ID,
			Period:   period,
			LineJSON: string(doc),
		}); err != nil {
			return nil, err
		}
		result.Processed++
	}

	return result, nil
}
