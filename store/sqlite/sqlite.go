/*
Package sqlite provides the SQLite-backed implementation of the engine's
storage interfaces.

PURPOSE:
  Persists shifts, guard segments, absences and contracts, and serves the
  read side the validation flow needs (sibling shifts in a window,
  absences, contracts). The engine stays pure; this package is the only
  place shift data touches disk.

KEY TABLES:
  contracts:  employee/employer binding with weekly ceiling and rate
  shifts:     one row per shift; guard segments as a JSON column,
              derived pay/classification as JSON for audit display
  absences:   day-granularity ranges with request status

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/careshift.db")   // or ":memory:"
  defer store.Close()

SEE ALSO:
  - engine/store.go: interface definitions
  - engine/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
)

// Store implements engine.AdminStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.AdminStore = (*Store)(nil)

// New creates a SQLite store at the given path (":memory:" for in-memory)
// and migrates the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contracts (
		id           TEXT PRIMARY KEY,
		employee_id  TEXT NOT NULL,
		weekly_hours TEXT NOT NULL,
		hourly_rate  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id                    TEXT PRIMARY KEY,
		contract_id           TEXT NOT NULL REFERENCES contracts(id),
		employee_id           TEXT NOT NULL,
		date                  TEXT NOT NULL,
		start_time            TEXT NOT NULL,
		end_time              TEXT NOT NULL,
		break_minutes         INTEGER NOT NULL DEFAULT 0,
		shift_type            TEXT NOT NULL,
		has_night_action      INTEGER NOT NULL DEFAULT 0,
		night_interventions   INTEGER NOT NULL DEFAULT 0,
		segments_json         TEXT,
		status                TEXT NOT NULL DEFAULT 'planned',
		validated_by_employer INTEGER NOT NULL DEFAULT 0,
		validated_by_employee INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_shifts_employee_date ON shifts(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_shifts_contract ON shifts(contract_id);

	CREATE TABLE IF NOT EXISTS absences (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		kind        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending'
	);
	CREATE INDEX IF NOT EXISTS idx_absences_employee ON absences(employee_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type segmentJSON struct {
	Start        string `json:"start"`
	Type         string `json:"type"`
	BreakMinutes int    `json:"break_minutes,omitempty"`
}

func encodeSegments(segs []engine.GuardSegment) (string, error) {
	if len(segs) == 0 {
		return "", nil
	}
	out := make([]segmentJSON, len(segs))
	for i, seg := range segs {
		out[i] = segmentJSON{Start: seg.Start.String(), Type: seg.Type.String(), BreakMinutes: seg.BreakMinutes}
	}
	b, err := json.Marshal(out)
	return string(b), err
}

func decodeSegments(raw sql.NullString) ([]engine.GuardSegment, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var rows []segmentJSON
	if err := json.Unmarshal([]byte(raw.String), &rows); err != nil {
		return nil, err
	}
	segs := make([]engine.GuardSegment, len(rows))
	for i, r := range rows {
		start, err := engine.ParseClock(r.Start)
		if err != nil {
			return nil, err
		}
		t, err := engine.ParseShiftType(r.Type)
		if err != nil {
			return nil, err
		}
		segs[i] = engine.GuardSegment{Start: start, Type: t, BreakMinutes: r.BreakMinutes}
	}
	return segs, nil
}

func scanShift(scan func(dest ...any) error) (engine.Shift, error) {
	var (
		s                          engine.Shift
		date, start, end, shiftTyp string
		segments                   sql.NullString
		status                     string
	)
	err := scan(&s.ID, &s.ContractID, &s.EmployeeID, &date, &start, &end,
		&s.BreakMinutes, &shiftTyp, &s.HasNightAction, &s.NightInterventions,
		&segments, &status, &s.ValidatedByEmployer, &s.ValidatedByEmployee)
	if err != nil {
		return s, err
	}
	if s.Date, err = engine.ParseDate(date); err != nil {
		return s, err
	}
	if s.Start, err = engine.ParseClock(start); err != nil {
		return s, err
	}
	if s.End, err = engine.ParseClock(end); err != nil {
		return s, err
	}
	if s.Type, err = engine.ParseShiftType(shiftTyp); err != nil {
		return s, err
	}
	if s.Segments, err = decodeSegments(segments); err != nil {
		return s, err
	}
	s.Status = engine.ShiftStatus(status)
	return s, nil
}

const shiftColumns = `id, contract_id, employee_id, date, start_time, end_time,
	break_minutes, shift_type, has_night_action, night_interventions,
	segments_json, status, validated_by_employer, validated_by_employee`

// =============================================================================
// ENGINE.STORE - Read side
// =============================================================================

func (s *Store) ShiftsInRange(ctx context.Context, employeeID string, from, to engine.Date) ([]engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date, start_time`,
		employeeID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Shift
	for rows.Next() {
		shift, err := scanShift(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, shift)
	}
	return out, rows.Err()
}

func (s *Store) Absences(ctx context.Context, employeeID string) ([]engine.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, kind, start_date, end_date, status
		FROM absences WHERE employee_id = ? ORDER BY start_date`,
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Absence
	for rows.Next() {
		var (
			a          engine.Absence
			start, end string
			status     string
		)
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Kind, &start, &end, &status); err != nil {
			return nil, err
		}
		if a.Start, err = engine.ParseDate(start); err != nil {
			return nil, err
		}
		if a.End, err = engine.ParseDate(end); err != nil {
			return nil, err
		}
		a.Status = engine.AbsenceStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Contract(ctx context.Context, contractID string) (engine.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanContract(s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, weekly_hours, hourly_rate
		FROM contracts WHERE id = ?`, contractID))
}

func (s *Store) scanContract(row *sql.Row) (engine.Contract, error) {
	var (
		c                  engine.Contract
		weekly, hourlyRate string
	)
	err := row.Scan(&c.ID, &c.EmployeeID, &weekly, &hourlyRate)
	if err == sql.ErrNoRows {
		return c, engine.ErrContractNotFound
	}
	if err != nil {
		return c, err
	}
	if c.WeeklyHours, err = decimal.NewFromString(weekly); err != nil {
		return c, err
	}
	if c.HourlyRate, err = decimal.NewFromString(hourlyRate); err != nil {
		return c, err
	}
	return c, nil
}

// =============================================================================
// ENGINE.ADMINSTORE - Write side
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, shift engine.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	segments, err := encodeSegments(shift.Segments)
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shifts (`+shiftColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contract_id = excluded.contract_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			break_minutes = excluded.break_minutes,
			shift_type = excluded.shift_type,
			has_night_action = excluded.has_night_action,
			night_interventions = excluded.night_interventions,
			segments_json = excluded.segments_json,
			status = excluded.status,
			validated_by_employer = excluded.validated_by_employer,
			validated_by_employee = excluded.validated_by_employee`,
		shift.ID, shift.ContractID, shift.EmployeeID, shift.Date.String(),
		shift.Start.String(), shift.End.String(), shift.BreakMinutes,
		shift.Type.String(), shift.HasNightAction, shift.NightInterventions,
		segments, string(shift.Status), shift.ValidatedByEmployer, shift.ValidatedByEmployee)
	return err
}

func (s *Store) Shift(ctx context.Context, id string) (engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id)
	shift, err := scanShift(row.Scan)
	if err == sql.ErrNoRows {
		return shift, engine.ErrShiftNotFound
	}
	return shift, err
}

func (s *Store) SaveAbsence(ctx context.Context, a engine.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences (id, employee_id, kind, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status`,
		a.ID, a.EmployeeID, a.Kind, a.Start.String(), a.End.String(), string(a.Status))
	return err
}

func (s *Store) SaveContract(ctx context.Context, c engine.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, employee_id, weekly_hours, hourly_rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weekly_hours = excluded.weekly_hours,
			hourly_rate = excluded.hourly_rate`,
		c.ID, c.EmployeeID, c.WeeklyHours.String(), c.HourlyRate.String())
	return err
}

func (s *Store) ListContracts(ctx context.Context) ([]engine.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, weekly_hours, hourly_rate FROM contracts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Contract
	for rows.Next() {
		var (
			c                  engine.Contract
			weekly, hourlyRate string
		)
		if err := rows.Scan(&c.ID, &c.EmployeeID, &weekly, &hourlyRate); err != nil {
			return nil, err
		}
		if c.WeeklyHours, err = decimal.NewFromString(weekly); err != nil {
			return nil, err
		}
		if c.HourlyRate, err = decimal.NewFromString(hourlyRate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
