// Package domain defines typed identifiers shared across modules.
//
// Each entity gets its own UUID-backed type so identifiers cannot be mixed
// up at compile time. Business keys (national id, plate number, vin) stay
// plain strings; these types cover only system-assigned identity.
package domain

import (
	"github.com/google/uuid"

	dErrors "motoreg/pkg/domain-errors"
)

type (
	// PersonID identifies a registered person.
	PersonID uuid.UUID
	// VehicleID identifies a vehicle.
	VehicleID uuid.UUID
	// LicenseID identifies a driver's license.
	LicenseID uuid.UUID
	// RegistrationID identifies a vehicle registration document.
	RegistrationID uuid.UUID
)

func (id PersonID) String() string       { return uuid.UUID(id).String() }
func (id VehicleID) String() string      { return uuid.UUID(id).String() }
func (id LicenseID) String() string      { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }

func (id PersonID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id VehicleID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id LicenseID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewPersonID returns a fresh random person identifier.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewVehicleID returns a fresh random vehicle identifier.
func NewVehicleID() VehicleID { return VehicleID(uuid.New()) }

// NewLicenseID returns a fresh random license identifier.
func NewLicenseID() LicenseID { return LicenseID(uuid.New()) }

// NewRegistrationID returns a fresh random registration identifier.
func NewRegistrationID() RegistrationID { return RegistrationID(uuid.New()) }

// ParsePersonID validates and parses a person identifier string.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person id")
	return PersonID(u), err
}

// ParseVehicleID validates and parses a vehicle identifier string.
func ParseVehicleID(s string) (VehicleID, error) {
	u, err := parseUUID(s, "vehicle id")
	return VehicleID(u), err
}

// parseUUID enforces the shared invariant: ids must be valid, non-empty,
// non-nil UUIDs.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s is required", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s must not be the nil UUID", label)
	}
	return u, nil
}
