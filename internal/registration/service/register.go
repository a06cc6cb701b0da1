package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"motoreg/internal/registration/models"
	id "motoreg/pkg/domain"
	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/sentinel"
)

// Register processes a registration document with find-or-create semantics
// keyed by national id.
//
// If the person (found or new) already owns a vehicle with the submitted
// plate number the call is a retry: the person is returned unchanged, with
// no new vehicle, registration, license, or reg code.
func (s *Service) Register(ctx context.Context, doc *models.RegistrationDocument) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register")
	defer span.End()
	start := time.Now()

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	holder := doc.Holder()
	vehicleDoc := doc.Vehicle()

	var (
		person    *models.Person
		duplicate bool
	)
	err := s.tx.RunInTx(ctx, func(store Store) error {
		existing, err := store.FindByNationalID(ctx, holder.NationalID)
		switch {
		case err == nil:
			person = existing
		case errors.Is(err, sentinel.ErrNotFound):
			person = &models.Person{
				NationalID:  holder.NationalID,
				FirstName:   holder.FirstName,
				LastName:    holder.LastName,
				DateOfBirth: holder.DateOfBirth,
			}
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
		}

		// Idempotency: a plate already on file for this person means the
		// document was submitted before. Nothing is written.
		if person.VehicleByPlate(vehicleDoc.PlateNumber) != nil {
			duplicate = true
			return nil
		}

		vehicle := newVehicle(vehicleDoc)
		vehicle.Registration = &models.VehicleRegistration{
			ID:                 id.NewRegistrationID(),
			VehicleID:          vehicle.ID,
			RegistrationNumber: doc.VehicleRegistration.RegistrationNumber,
			IssueDate:          doc.VehicleRegistration.IssueDate,
			ExpiryDate:         doc.VehicleRegistration.ExpiryDate,
		}

		isNew := person.IsNew()
		person.AddVehicle(vehicle)

		// A license is created with the person only; existing persons keep
		// theirs untouched on subsequent registrations.
		if isNew {
			person.License = &models.DriversLicense{
				ID:            id.NewLicenseID(),
				LicenseNumber: doc.DriversLicense.LicenseNumber,
				IssueDate:     doc.DriversLicense.IssueDate,
				ExpiryDate:    doc.DriversLicense.ExpiryDate,
				Categories:    append([]string(nil), doc.DriversLicense.Categories...),
			}
		}

		person.RegCode = uuid.NewString()

		saved, err := store.SavePerson(ctx, person)
		if err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "registration conflicts with an existing record")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
		}
		person = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if duplicate {
		s.incrementDuplicate()
		s.logAudit(ctx, "registration.duplicate",
			"national_id", person.NationalID,
			"plate_number", vehicleDoc.PlateNumber)
		return person, nil
	}

	s.incrementCreated(start)
	s.logAudit(ctx, "registration.created",
		"person_id", person.ID,
		"national_id", person.NationalID,
		"plate_number", vehicleDoc.PlateNumber)
	return person, nil
}

func newVehicle(doc *models.VehicleDoc) *models.Vehicle {
	return &models.Vehicle{
		ID:           id.NewVehicleID(),
		VIN:          doc.VIN,
		PlateNumber:  doc.PlateNumber,
		Make:         doc.Make,
		Model:        doc.Model,
		Year:         doc.Year,
		Color:        doc.Color,
		EngineNumber: doc.EngineNumber,
		FuelType:     doc.FuelType,
		VehicleType:  doc.VehicleType,
		Company:      doc.Company,
	}
}

func (s *Service) incrementCreated(start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RegistrationsCreated.Inc()
	s.metrics.ObserveRegister(start)
}

func (s *Service) incrementDuplicate() {
	if s.metrics != nil {
		s.metrics.RegistrationsDuplicate.Inc()
	}
}
