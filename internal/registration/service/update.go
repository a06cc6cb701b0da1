package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"motoreg/internal/registration/models"
	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/sentinel"
)

// Update replaces the person/license/vehicle/registration quadruple located
// by registration code. Each precondition failure is a distinct coded
// rejection so callers can tell them apart:
//
//   - blank reg code          -> validation
//   - wrong admin password    -> unauthorized
//   - unknown reg code        -> not_found
//   - plate not on file       -> not_found (distinct message)
//
// Update always targets an existing vehicle by plate match within the
// person's set; it never adds a vehicle and never changes the national id.
func (s *Service) Update(ctx context.Context, doc *models.RegistrationDocument) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Update")
	defer span.End()

	if doc == nil || doc.RegCode == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "registration code is required")
	}
	if !s.adminAuthorized(doc.AdminPassword) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid admin password, update not permitted")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	holder := doc.Holder()
	vehicleDoc := doc.Vehicle()

	var person *models.Person
	err := s.tx.RunInTx(ctx, func(store Store) error {
		found, err := store.FindByRegCode(ctx, doc.RegCode)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "person not found with the provided registration code")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
		}

		vehicle := found.VehicleByPlate(vehicleDoc.PlateNumber)
		if vehicle == nil {
			return dErrors.Newf(dErrors.CodeNotFound,
				"no vehicle with plate number %s found for this person", vehicleDoc.PlateNumber)
		}
		if found.License == nil {
			return dErrors.New(dErrors.CodeNotFound, "person has no driver's license on file")
		}

		// National id is the core identifier and is never touched here.
		found.FirstName = holder.FirstName
		found.LastName = holder.LastName
		found.DateOfBirth = holder.DateOfBirth

		found.License.LicenseNumber = doc.DriversLicense.LicenseNumber
		found.License.IssueDate = doc.DriversLicense.IssueDate
		found.License.ExpiryDate = doc.DriversLicense.ExpiryDate
		found.License.Categories = append([]string(nil), doc.DriversLicense.Categories...)

		vehicle.VIN = vehicleDoc.VIN
		vehicle.PlateNumber = vehicleDoc.PlateNumber
		vehicle.Make = vehicleDoc.Make
		vehicle.Model = vehicleDoc.Model
		vehicle.Year = vehicleDoc.Year
		vehicle.Color = vehicleDoc.Color
		vehicle.EngineNumber = vehicleDoc.EngineNumber
		vehicle.FuelType = vehicleDoc.FuelType
		vehicle.VehicleType = vehicleDoc.VehicleType
		vehicle.Company = vehicleDoc.Company

		if vehicle.Registration == nil {
			return dErrors.New(dErrors.CodeNotFound, "vehicle has no registration document on file")
		}
		vehicle.Registration.RegistrationNumber = doc.VehicleRegistration.RegistrationNumber
		vehicle.Registration.IssueDate = doc.VehicleRegistration.IssueDate
		vehicle.Registration.ExpiryDate = doc.VehicleRegistration.ExpiryDate

		// A fresh reg code marks the update for traceability.
		found.RegCode = uuid.NewString()

		saved, err := store.SavePerson(ctx, found)
		if err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "update conflicts with an existing record")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
		}
		person = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RegistrationsUpdated.Inc()
	}
	s.logAudit(ctx, "registration.updated",
		"person_id", person.ID,
		"plate_number", vehicleDoc.PlateNumber)
	return person, nil
}
