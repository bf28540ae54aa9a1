/*
store.go - Persistence interface between the engine's callers and storage

PURPOSE:
  The engine itself performs no I/O. The calling layer fetches the
  worker's sibling shifts, approved absences and contract through these
  interfaces, hands immutable snapshots to the engine, and persists the
  accepted result. Implementations: store/sqlite (production) and
  engine/store (in-memory, for tests and dev).
*/
package engine

import "context"

// Store is the read side the validation flow needs: everything required
// to assemble the context for one candidate shift.
type Store interface {
	// ShiftsInRange returns the employee's non-deleted shifts with dates
	// in [from, to], ordered by date then start time.
	ShiftsInRange(ctx context.Context, employeeID string, from, to Date) ([]Shift, error)

	// Absences returns all of the employee's absences, any status.
	// Compliance filters to approved ones itself.
	Absences(ctx context.Context, employeeID string) ([]Absence, error)

	// Contract returns the contract or ErrContractNotFound.
	Contract(ctx context.Context, contractID string) (Contract, error)
}

// AdminStore extends Store with the write operations the HTTP shell uses
// once a shift has passed validation (no violations, warnings
// acknowledged).
type AdminStore interface {
	Store

	SaveShift(ctx context.Context, s Shift) error
	Shift(ctx context.Context, id string) (Shift, error)
	SaveAbsence(ctx context.Context, a Absence) error
	SaveContract(ctx context.Context, c Contract) error
	ListContracts(ctx context.Context) ([]Contract, error)
}
