// Package store provides an in-memory engine.AdminStore for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/careshift-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	shifts    map[string]engine.Shift
	absences  map[string]engine.Absence
	contracts map[string]engine.Contract
}

func NewMemory() *Memory {
	return &Memory{
		shifts:    make(map[string]engine.Shift),
		absences:  make(map[string]engine.Absence),
		contracts: make(map[string]engine.Contract),
	}
}

var _ engine.AdminStore = (*Memory)(nil)

func (m *Memory) ShiftsInRange(_ context.Context, employeeID string, from, to engine.Date) ([]engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.Shift
	for _, s := range m.shifts {
		if s.EmployeeID != employeeID {
			continue
		}
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (m *Memory) Absences(_ context.Context, employeeID string) ([]engine.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.Absence
	for _, a := range m.absences {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *Memory) Contract(_ context.Context, contractID string) (engine.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contracts[contractID]
	if !ok {
		return engine.Contract{}, engine.ErrContractNotFound
	}
	return c, nil
}

func (m *Memory) SaveShift(_ context.Context, s engine.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[s.ID] = s
	return nil
}

func (m *Memory) Shift(_ context.Context, id string) (engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shifts[id]
	if !ok {
		return engine.Shift{}, engine.ErrShiftNotFound
	}
	return s, nil
}

func (m *Memory) SaveAbsence(_ context.Context, a engine.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[a.ID] = a
	return nil
}

func (m *Memory) SaveContract(_ context.Context, c engine.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[c.ID] = c
	return nil
}

func (m *Memory) ListContracts(_ context.Context) ([]engine.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
