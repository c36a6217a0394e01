/*
Package sqlite provides the SQLite-backed persistence for the payroll host.

PURPOSE:
  The calculation packages (payroll, benefits, vacation, liquidation) are
  pure: they take values in and return values. This store is where the host
  keeps those values between requests. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  workers:          Worker master records
  vacation_entries: Append-only vacation ledger (taken/paid/adjustment)
  payroll_lines:    Computed period results, one per worker+period
  parameter_sets:   Versioned legal parameter snapshots, keyed by year
  settlements:      Final liquidation results, one per worker

APPEND-ONLY ENFORCEMENT:
  vacation_entries is a ledger: no UPDATE, no DELETE. A mistaken entry is
  corrected with a compensating adjustment entry, never by editing history.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - api/handlers.go: The HTTP layer driving this store
  - vacation/vacation.go: The ledger semantics the entries feed
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/andino/payroll-engine/engine"
	"github.com/andino/payroll-engine/vacation"
)

// Store implements persistence for workers, ledgers, and computed results.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Workers (master records)
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		national_id TEXT,
		hire_date TEXT NOT NULL,
		termination_date TEXT,
		base_salary TEXT NOT NULL,
		class TEXT NOT NULL,
		frequency TEXT NOT NULL,
		status TEXT NOT NULL,
		dependents INTEGER DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workers_status ON workers(status);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_workers_national_id
		ON workers(national_id) WHERE national_id IS NOT NULL AND national_id != '';

	-- Vacation entries (append-only ledger)
	CREATE TABLE IF NOT EXISTS vacation_entries (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (worker_id) REFERENCES workers(id)
	);

	CREATE INDEX IF NOT EXISTS idx_vacation_entries_worker
		ON vacation_entries(worker_id, start_date);

	-- Payroll lines (computed period results, stored as documents)
	CREATE TABLE IF NOT EXISTS payroll_lines (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		period TEXT NOT NULL,
		line_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(worker_id, period),
		FOREIGN KEY (worker_id) REFERENCES workers(id)
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_lines_worker
		ON payroll_lines(worker_id, period DESC);

	-- Parameter sets (one legal snapshot per effective year)
	CREATE TABLE IF NOT EXISTS parameter_sets (
		year INTEGER PRIMARY KEY,
		params_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Settlements (final liquidation, at most one per worker)
	CREATE TABLE IF NOT EXISTS settlements (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL UNIQUE,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (worker_id) REFERENCES workers(id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKER STORE
// =============================================================================

// SaveWorker inserts or updates a worker record.
func (s *Store) SaveWorker(ctx context.Context, w engine.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var termination *string
	if w.TerminationDate != nil {
		t := w.TerminationDate.String()
		termination = &t
	}

	query := `
		INSERT INTO workers
		(id, full_name, national_id, hire_date, termination_date, base_salary,
		 class, frequency, status, dependents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			national_id = excluded.national_id,
			hire_date = excluded.hire_date,
			termination_date = excluded.termination_date,
			base_salary = excluded.base_salary,
			class = excluded.class,
			frequency = excluded.frequency,
			status = excluded.status,
			dependents = excluded.dependents,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		w.ID, w.FullName, w.NationalID,
		w.HireDate.String(), termination,
		w.BaseSalary.Value.String(),
		string(w.Class), string(w.Frequency), string(w.Status),
		w.Dependents, now, now,
	)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("worker with national id %q already exists: %w", w.NationalID, engine.ErrInvalidInput)
	}
	return err
}

// GetWorker retrieves a worker by ID. Returns nil when not found.
func (s *Store) GetWorker(ctx context.Context, id string) (*engine.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, national_id, hire_date, termination_date, base_salary,
		       class, frequency, status, dependents
		FROM workers WHERE id = ?`, id)

	w, err := scanWorker(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]engine.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, national_id, hire_date, termination_date, base_salary,
		       class, frequency, status, dependents
		FROM workers ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []engine.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (*engine.Worker, error) {
	var (
		w           engine.Worker
		hireDate    string
		termination sql.NullString
		baseSalary  string
		class       string
		frequency   string
		status      string
	)

	if err := row.Scan(&w.ID, &w.FullName, &w.NationalID, &hireDate, &termination,
		&baseSalary, &class, &frequency, &status, &w.Dependents); err != nil {
		return nil, err
	}

	var err error
	if w.HireDate, err = engine.ParseDate(hireDate); err != nil {
		return nil, fmt.Errorf("corrupt hire_date %q: %w", hireDate, err)
	}
	if termination.Valid && termination.String != "" {
		t, err := engine.ParseDate(termination.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt termination_date %q: %w", termination.String, err)
		}
		w.TerminationDate = &t
	}
	if w.BaseSalary, err = engine.NewMoney(baseSalary); err != nil {
		return nil, fmt.Errorf("corrupt base_salary %q: %w", baseSalary, err)
	}
	w.Class = engine.WorkerClass(class)
	w.Frequency = engine.PayFrequency(frequency)
	w.Status = engine.WorkerStatus(status)
	return &w, nil
}

// =============================================================================
// VACATION LEDGER (append-only)
// =============================================================================

// AppendVacationEntry adds an entry to a worker's vacation ledger.
// Entries are never updated or deleted; corrections are new adjustment
// entries. Generates an ID when the entry carries none.
func (s *Store) AppendVacationEntry(ctx context.Context, workerID string, e vacation.Entry) (vacation.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vacation_entries (id, worker_id, kind, start_date, end_date, days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, workerID, string(e.Kind),
		e.Start.String(), e.End.String(), e.Days,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return vacation.Entry{}, fmt.Errorf("failed to append vacation entry: %w", err)
	}
	return e, nil
}

// LoadVacationHistory returns a worker's full vacation ledger in start-date order.
func (s *Store) LoadVacationHistory(ctx context.Context, workerID string) (vacation.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, start_date, end_date, days
		FROM vacation_entries
		WHERE worker_id = ?
		ORDER BY start_date ASC, created_at ASC`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history vacation.History
	for rows.Next() {
		var (
			e          vacation.Entry
			kind       string
			start, end string
		)
		if err := rows.Scan(&e.ID, &kind, &start, &end, &e.Days); err != nil {
			return nil, err
		}
		e.Kind = vacation.EntryKind(kind)
		if e.Start, err = engine.ParseDate(start); err != nil {
			return nil, fmt.Errorf("corrupt start_date %q: %w", start, err)
		}
		if e.End, err = engine.ParseDate(end); err != nil {
			return nil, fmt.Errorf("corrupt end_date %q: %w", end, err)
		}
		history = append(history, e)
	}
	return history, rows.Err()
}

// =============================================================================
// PAYROLL LINES
// =============================================================================

// PayrollRecord is a stored period result with its JSON document.
type PayrollRecord struct {
	ID        string
	WorkerID  string
	Period    string
	LineJSON  string
	CreatedAt time.Time
}

// SavePayrollLine stores the computed line for a worker+period, replacing
// any previous run of the same period.
func (s *Store) SavePayrollLine(ctx context.Context, rec PayrollRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payroll_lines (id, worker_id, period, line_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, period) DO UPDATE SET
			line_json = excluded.line_json,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.WorkerID, rec.Period, rec.LineJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetPayrollLine retrieves the stored line for a worker+period. Nil when absent.
func (s *Store) GetPayrollLine(ctx context.Context, workerID, period string) (*PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec PayrollRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, worker_id, period, line_json, created_at
		FROM payroll_lines WHERE worker_id = ? AND period = ?`,
		workerID, period,
	).Scan(&rec.ID, &rec.WorkerID, &rec.Period, &rec.LineJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// ListPayrollLines returns all stored lines for a worker, newest period first.
func (s *Store) ListPayrollLines(ctx context.Context, workerID string) ([]PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, worker_id, period, line_json, created_at
		FROM payroll_lines WHERE worker_id = ?
		ORDER BY period DESC`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PayrollRecord
	for rows.Next() {
		var rec PayrollRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.WorkerID, &rec.Period, &rec.LineJSON, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// PARAMETER SETS
// =============================================================================

// ParameterRecord is a stored legal parameter snapshot.
type ParameterRecord struct {
	Year       int
	ParamsJSON string
	UpdatedAt  time.Time
}

// SaveParameters stores the parameter snapshot for its effective year.
func (s *Store) SaveParameters(ctx context.Context, rec ParameterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO parameter_sets (year, params_json, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			params_json = excluded.params_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query, rec.Year, rec.ParamsJSON, now, now)
	return err
}

// GetParameters retrieves the snapshot for a year. Nil when absent.
func (s *Store) GetParameters(ctx context.Context, year int) (*ParameterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec ParameterRecord
	var updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT year, params_json, updated_at FROM parameter_sets WHERE year = ?",
		year,
	).Scan(&rec.Year, &rec.ParamsJSON, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// ListParameterYears returns the years with a stored snapshot, ascending.
func (s *Store) ListParameterYears(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT year FROM parameter_sets ORDER BY year ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// =============================================================================
// SETTLEMENTS
// =============================================================================

// SettlementRecord is a stored liquidation result.
type SettlementRecord struct {
	ID         string
	WorkerID   string
	ResultJSON string
	CreatedAt  time.Time
}

// SaveSettlement stores the final settlement for a worker. A worker can be
// settled once; a second attempt fails.
func (s *Store) SaveSettlement(ctx context.Context, rec SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements (id, worker_id, result_json, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.WorkerID, rec.ResultJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("worker %s already settled: %w", rec.WorkerID, engine.ErrInvalidTermination)
	}
	return err
}

// GetSettlement retrieves a worker's settlement. Nil when absent.
func (s *Store) GetSettlement(ctx context.Context, workerID string) (*SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec SettlementRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, worker_id, result_json, created_at FROM settlements WHERE worker_id = ?",
		workerID,
	).Scan(&rec.ID, &rec.WorkerID, &rec.ResultJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"settlements", "payroll_lines", "vacation_entries", "parameter_sets", "workers"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
