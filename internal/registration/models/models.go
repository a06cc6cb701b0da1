// Package models defines the persisted entity graph for the registry:
// a Person owning at most one DriversLicense and any number of Vehicles,
// each Vehicle carrying exactly one VehicleRegistration.
package models

import (
	id "motoreg/pkg/domain"
)

// Person is the aggregate root of the registration graph.
//
// Invariants:
//   - NationalID is the unique business key and is immutable once set
//   - RegCode is unique and reassigned on every successful create/update
//   - At most one License, any number of Vehicles
//   - Plate numbers are unique within the vehicle set (application-enforced)
//   - License and Vehicle back-references always point at this person
type Person struct {
	ID          id.PersonID     `json:"id"`
	NationalID  string          `json:"national_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	DateOfBirth Date            `json:"date_of_birth"`
	RegCode     string          `json:"reg_code"`
	License     *DriversLicense `json:"drivers_license,omitempty"`
	Vehicles    []*Vehicle      `json:"vehicles"`
}

// DriversLicense is the 1:1 license record owned by a Person.
type DriversLicense struct {
	ID            id.LicenseID `json:"id"`
	PersonID      id.PersonID  `json:"person_id"`
	LicenseNumber string       `json:"license_number"`
	IssueDate     Date         `json:"issue_date"`
	ExpiryDate    Date         `json:"expiry_date"`
	Categories    []string     `json:"categories"`
}

// Vehicle belongs to exactly one Person and carries one registration document.
// VehicleType is the classification string ("Personal" or "Commercial");
// Company is populated for commercial vehicles only.
type Vehicle struct {
	ID           id.VehicleID         `json:"id"`
	OwnerID      id.PersonID          `json:"owner_id"`
	VIN          string               `json:"vin"`
	PlateNumber  string               `json:"plate_number"`
	Make         string               `json:"make"`
	Model        string               `json:"model"`
	Year         int                  `json:"year"`
	Color        string               `json:"color"`
	EngineNumber string               `json:"engine_number"`
	FuelType     string               `json:"fuel_type"`
	VehicleType  string               `json:"vehicle_type,omitempty"`
	Company      string               `json:"company,omitempty"`
	Registration *VehicleRegistration `json:"registration"`
}

// VehicleRegistration is the 1:1 registration document of a Vehicle.
type VehicleRegistration struct {
	ID                 id.RegistrationID `json:"id"`
	VehicleID          id.VehicleID      `json:"vehicle_id"`
	RegistrationNumber string            `json:"registration_number"`
	IssueDate          Date              `json:"issue_date"`
	ExpiryDate         Date              `json:"expiry_date"`
}

// IsNew reports whether the person has been persisted yet.
func (p *Person) IsNew() bool {
	return p.ID.IsNil()
}

// VehicleByPlate returns the vehicle with the given plate number, or nil.
func (p *Person) VehicleByPlate(plate string) *Vehicle {
	for _, v := range p.Vehicles {
		if v.PlateNumber == plate {
			return v
		}
	}
	return nil
}

// AddVehicle appends a vehicle to the set and fixes its back-reference.
func (p *Person) AddVehicle(v *Vehicle) {
	v.OwnerID = p.ID
	p.Vehicles = append(p.Vehicles, v)
}

// RemoveVehicle drops the vehicle with the given id from the set.
// Returns true when a vehicle was removed.
func (p *Person) RemoveVehicle(vehicleID id.VehicleID) bool {
	for i, v := range p.Vehicles {
		if v.ID == vehicleID {
			p.Vehicles = append(p.Vehicles[:i], p.Vehicles[i+1:]...)
			return true
		}
	}
	return false
}

// Clone deep-copies the person graph. Stores hand out clones so callers can
// mutate freely without racing the store's own copy.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	out := *p
	if p.License != nil {
		lic := *p.License
		lic.Categories = append([]string(nil), p.License.Categories...)
		out.License = &lic
	}
	out.Vehicles = make([]*Vehicle, 0, len(p.Vehicles))
	for _, v := range p.Vehicles {
		out.Vehicles = append(out.Vehicles, v.Clone())
	}
	return &out
}

// Clone deep-copies the vehicle and its registration.
func (v *Vehicle) Clone() *Vehicle {
	if v == nil {
		return nil
	}
	out := *v
	if v.Registration != nil {
		reg := *v.Registration
		out.Registration = &reg
	}
	return &out
}
