// Package store provides the persistence implementations behind the
// registration service: an in-memory store for tests and development, and a
// PostgreSQL store for production.
//
// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested entity does not exist
// - Return sentinel.ErrConflict (wrapped) when a uniqueness constraint is hit
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"fmt"
	"sync"

	"motoreg/internal/registration/models"
	id "motoreg/pkg/domain"
	"motoreg/pkg/platform/sentinel"
)

// InMemory stores person graphs in memory. Individual operations are atomic
// under the mutex; whole read-modify-write sequences are serialized by the
// service's StoreTx (service.NewMemoryTx).
type InMemory struct {
	mu sync.RWMutex

	persons      map[id.PersonID]*models.Person
	byNationalID map[string]id.PersonID
	byRegCode    map[string]id.PersonID
	vehicleOwner map[id.VehicleID]id.PersonID
}

// NewInMemory constructs an empty in-memory registration store.
func NewInMemory() *InMemory {
	return &InMemory{
		persons:      make(map[id.PersonID]*models.Person),
		byNationalID: make(map[string]id.PersonID),
		byRegCode:    make(map[string]id.PersonID),
		vehicleOwner: make(map[id.VehicleID]id.PersonID),
	}
}

func (s *InMemory) FindByNationalID(_ context.Context, nationalID string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.byNationalID[nationalID]
	if !ok {
		return nil, fmt.Errorf("person with national id %s: %w", nationalID, sentinel.ErrNotFound)
	}
	return s.persons[pid].Clone(), nil
}

func (s *InMemory) FindByRegCode(_ context.Context, regCode string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.byRegCode[regCode]
	if !ok {
		return nil, fmt.Errorf("person with reg code %s: %w", regCode, sentinel.ErrNotFound)
	}
	return s.persons[pid].Clone(), nil
}

// SavePerson upserts the whole graph reachable from person. New entities get
// identities assigned; vehicles missing from the submitted set are removed
// together with their registrations (orphan removal).
func (s *InMemory) SavePerson(_ context.Context, person *models.Person) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if person == nil {
		return nil, fmt.Errorf("person is required")
	}

	if existing, ok := s.byNationalID[person.NationalID]; ok && existing != person.ID {
		return nil, fmt.Errorf("national id %s already registered: %w", person.NationalID, sentinel.ErrConflict)
	}
	if person.RegCode != "" {
		if holder, ok := s.byRegCode[person.RegCode]; ok && holder != person.ID {
			return nil, fmt.Errorf("reg code already assigned: %w", sentinel.ErrConflict)
		}
	}

	saved := person.Clone()
	assignIdentities(saved)

	if prev, ok := s.persons[saved.ID]; ok {
		delete(s.byRegCode, prev.RegCode)
		for _, v := range prev.Vehicles {
			delete(s.vehicleOwner, v.ID)
		}
	}

	s.persons[saved.ID] = saved
	s.byNationalID[saved.NationalID] = saved.ID
	if saved.RegCode != "" {
		s.byRegCode[saved.RegCode] = saved.ID
	}
	for _, v := range saved.Vehicles {
		s.vehicleOwner[v.ID] = saved.ID
	}

	return saved.Clone(), nil
}

func (s *InMemory) VehicleExists(_ context.Context, vehicleID id.VehicleID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vehicleOwner[vehicleID]
	return ok, nil
}

// DeleteVehicle removes a vehicle by id and detaches it from its owner's set.
// The registration goes with it.
func (s *InMemory) DeleteVehicle(_ context.Context, vehicleID id.VehicleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ownerID, ok := s.vehicleOwner[vehicleID]
	if !ok {
		return fmt.Errorf("vehicle %s: %w", vehicleID, sentinel.ErrNotFound)
	}
	owner := s.persons[ownerID]
	owner.RemoveVehicle(vehicleID)
	delete(s.vehicleOwner, vehicleID)
	return nil
}

// assignIdentities gives fresh ids to unsaved entities and repairs all
// back-references so the stored graph stays internally consistent.
func assignIdentities(p *models.Person) {
	if p.ID.IsNil() {
		p.ID = id.NewPersonID()
	}
	if p.License != nil {
		if p.License.ID.IsNil() {
			p.License.ID = id.NewLicenseID()
		}
		p.License.PersonID = p.ID
	}
	for _, v := range p.Vehicles {
		if v.ID.IsNil() {
			v.ID = id.NewVehicleID()
		}
		v.OwnerID = p.ID
		if v.Registration != nil {
			if v.Registration.ID.IsNil() {
				v.Registration.ID = id.NewRegistrationID()
			}
			v.Registration.VehicleID = v.ID
		}
	}
}
