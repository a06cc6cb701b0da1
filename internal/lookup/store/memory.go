// Package store provides the lookup record stores: in-memory for tests and
// single-node runs, Postgres for durable deployments, Redis for shared
// low-latency deployments.
package store

import (
	"context"
	"fmt"
	"sync"

	"motoreg/internal/lookup/models"
	"motoreg/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map implementation of the lookup store.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]models.LookupRecord
	byPlate map[string]string
}

// NewInMemory creates an empty in-memory lookup store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[string]models.LookupRecord),
		byPlate: make(map[string]string),
	}
}

// FindByPlate returns the record covering the given plate number.
func (s *InMemory) FindByPlate(_ context.Context, plateNumber string) (models.LookupRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPlate[plateNumber]
	if !ok {
		return models.LookupRecord{}, fmt.Errorf("lookup record for plate %s: %w", plateNumber, sentinel.ErrNotFound)
	}
	return s.records[id], nil
}

// Save inserts or overwrites the record keyed by its id. A plate number
// already indexed to a different id is a conflict.
func (s *InMemory) Save(_ context.Context, record models.LookupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byPlate[record.PlateNumber]; ok && owner != record.ID {
		return fmt.Errorf("plate %s already covered by record %s: %w", record.PlateNumber, owner, sentinel.ErrConflict)
	}
	if existing, ok := s.records[record.ID]; ok && existing.PlateNumber != record.PlateNumber {
		delete(s.byPlate, existing.PlateNumber)
	}
	s.records[record.ID] = record
	s.byPlate[record.PlateNumber] = record.ID
	return nil
}
