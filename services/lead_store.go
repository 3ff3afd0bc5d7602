package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tiendc/go-deepcopy"
)

// ErrLeadNotFound is returned when no lead has the requested id.
var ErrLeadNotFound = errors.New("lead not found")

// LeadStore holds the lead collection. Writers replace the whole collection
// through a functional update.
type LeadStore interface {
	Leads() ([]Lead, error)
	SetLeads(update func(prev []Lead) []Lead) error
	PermanentlyDelete(id string) error
}

// MemoryStore is an in-process LeadStore. Readers and updaters receive deep
// copies, so callers never share slices with the store.
type MemoryStore struct {
	mu    sync.Mutex
	leads []Lead
}

// NewMemoryStore returns a store seeded with leads.
func NewMemoryStore(leads ...Lead) *MemoryStore {
	s := &MemoryStore{}
	if len(leads) > 0 {
		s.leads = cloneLeads(leads)
	}
	return s
}

// Leads returns a snapshot of the collection.
func (s *MemoryStore) Leads() ([]Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLeads(s.leads), nil
}

// SetLeads replaces the collection with update(snapshot).
func (s *MemoryStore) SetLeads(update func(prev []Lead) []Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = cloneLeads(update(cloneLeads(s.leads)))
	return nil
}

// PermanentlyDelete removes the lead with id.
func (s *MemoryStore) PermanentlyDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.leads {
		if l.ID == id {
			s.leads = append(s.leads[:i], s.leads[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLeadNotFound, id)
}

func cloneLeads(src []Lead) []Lead {
	if src == nil {
		return nil
	}
	var dst []Lead
	if err := deepcopy.Copy(&dst, &src); err != nil {
		dst = make([]Lead, len(src))
		copy(dst, src)
	}
	return dst
}

// findLead returns the index of id in leads, or -1.
func findLead(leads []Lead, id string) int {
	for i := range leads {
		if leads[i].ID == id {
			return i
		}
	}
	return -1
}
