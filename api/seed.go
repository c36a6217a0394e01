/*
seed.go - Demo seed data

PURPOSE:
  Loads a small demo company so the API is explorable without manual
  setup: a handful of workers across pay classes, stored parameter
  snapshots, a year of monthly payroll lines, and some vacation history.

USAGE:
  POST /api/demo/seed

  The seed resets the database first. Dev/demo use only.

SEE ALSO:
  - handlers.go: The endpoints this data feeds
  - factory/params.go: The preset snapshots stored here
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/factory"
	"github.com/andino/payroll-engine/store/sqlite"
	"github.com/andino/payroll-engine/vacation"
)

// SeedDemo resets the database and loads the demo company.
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.seedDemo(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed demo data", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

func (h *Handler) seedDemo(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}

	for _, year := range []int{2024, 2025} {
		params, err := h.paramsFor(ctx, year)
		if err != nil {
			return err
		}
		doc, err := json.Marshal(factory.ToJSON(params))
		if err != nil {
			return err
		}
		if err := h.Store.SaveParameters(ctx, sqlite.ParameterRecord{
			Year:       year,
			ParamsJSON: string(doc),
		}); err != nil {
			return err
		}
	}

	workers := []engine.Worker{
		{
			ID: "demo-maria", FullName: "Maria Sanchez", NationalID: "1710034065",
			HireDate:   engine.NewDate(2019, time.March, 1),
			BaseSalary: engine.MustMoney("460.00"),
			Class:      engine.ClassOperational,
			Frequency:  engine.FrequencyMonthly,
			Status:     engine.StatusActive,
			Dependents: 1,
		},
		{
			ID: "demo-carlos", FullName: "Carlos Paredes", NationalID: "0912768034",
			HireDate:   engine.NewDate(2021, time.August, 16),
			BaseSalary: engine.MustMoney("850.00"),
			Class:      engine.ClassAdministrative,
			Frequency:  engine.FrequencyMonthly,
			Status:     engine.StatusActive,
			Dependents: 2,
		},
		{
			ID: "demo-veronica", FullName: "Veronica Almeida", NationalID: "1102348810",
			HireDate:   engine.NewDate(2015, time.January, 5),
			BaseSalary: engine.MustMoney("2400.00"),
			Class:      engine.ClassExecutive,
			Frequency:  engine.FrequencyMonthly,
			Status:     engine.StatusActive,
		},
	}
	for _, wk := range workers {
		if err := h.Store.SaveWorker(ctx, wk); err != nil {
			return err
		}
	}

	// A full year of closed months for everyone.
	for month := 1; month <= 12; month++ {
		period := fmt.Sprintf("2024-%02d", month)
		if _, err := h.runPeriodForAll(ctx, period, false); err != nil {
			return err
		}
	}

	// Some vacation history for the senior worker.
	entries := []vacation.Entry{
		{
			Kind:  vacation.EntryTaken,
			Start: engine.NewDate(2024, time.February, 12),
			End:   engine.NewDate(2024, time.February, 23),
			Days:  12,
		},
		{
			Kind:  vacation.EntryPaid,
			Start: engine.NewDate(2024, time.August, 1),
			End:   engine.NewDate(2024, time.August, 5),
			Days:  5,
		},
	}
	for _, e := range entries {
		if _, err := h.Store.AppendVacationEntry(ctx, "demo-veronica", e); err != nil {
			return err
		}
	}

	return nil
}
