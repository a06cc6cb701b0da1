package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"motoreg/internal/registration/models"
	id "motoreg/pkg/domain"
	"motoreg/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists person graphs in PostgreSQL. SavePerson performs the
// cascading upsert and orphan removal explicitly rather than relying on any
// database-side cascade beyond foreign keys.
type Postgres struct {
	q querier
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{q: db}
}

// NewPostgresTx binds a store to an open transaction. Used by the service's
// StoreTx so a whole register/update sequence shares one transaction.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{q: tx}
}

func (s *Postgres) FindByNationalID(ctx context.Context, nationalID string) (*models.Person, error) {
	person, err := s.scanPerson(s.q.QueryRowContext(ctx, `
		SELECT id, national_id, first_name, last_name, date_of_birth, reg_code
		FROM persons WHERE national_id = $1`, nationalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person with national id %s: %w", nationalID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find person by national id: %w", err)
	}
	if err := s.loadGraph(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *Postgres) FindByRegCode(ctx context.Context, regCode string) (*models.Person, error) {
	person, err := s.scanPerson(s.q.QueryRowContext(ctx, `
		SELECT id, national_id, first_name, last_name, date_of_birth, reg_code
		FROM persons WHERE reg_code = $1`, regCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person with reg code %s: %w", regCode, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find person by reg code: %w", err)
	}
	if err := s.loadGraph(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// SavePerson upserts the person row, its license, and every vehicle with its
// registration, then deletes vehicles that are no longer part of the set.
// Call inside a transaction (NewPostgresTx) so the cascade is atomic.
func (s *Postgres) SavePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	if person == nil {
		return nil, fmt.Errorf("person is required")
	}

	saved := person.Clone()
	assignIdentities(saved)

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO persons (id, national_id, first_name, last_name, date_of_birth, reg_code)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = EXCLUDED.date_of_birth,
			reg_code = EXCLUDED.reg_code`,
		uuid.UUID(saved.ID), saved.NationalID, saved.FirstName, saved.LastName,
		saved.DateOfBirth, saved.RegCode)
	if err != nil {
		return nil, translatePQ(err, "save person")
	}

	if saved.License != nil {
		_, err = s.q.ExecContext(ctx, `
			INSERT INTO drivers_licenses (id, person_id, license_number, issue_date, expiry_date, categories)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				license_number = EXCLUDED.license_number,
				issue_date = EXCLUDED.issue_date,
				expiry_date = EXCLUDED.expiry_date,
				categories = EXCLUDED.categories`,
			uuid.UUID(saved.License.ID), uuid.UUID(saved.ID), saved.License.LicenseNumber,
			saved.License.IssueDate, saved.License.ExpiryDate, pq.Array(saved.License.Categories))
		if err != nil {
			return nil, translatePQ(err, "save license")
		}
	}

	kept := make([]uuid.UUID, 0, len(saved.Vehicles))
	for _, v := range saved.Vehicles {
		kept = append(kept, uuid.UUID(v.ID))
		_, err = s.q.ExecContext(ctx, `
			INSERT INTO vehicles (id, person_id, vin, plate_number, make, model, year, color, engine_number, fuel_type, vehicle_type, company)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				vin = EXCLUDED.vin,
				plate_number = EXCLUDED.plate_number,
				make = EXCLUDED.make,
				model = EXCLUDED.model,
				year = EXCLUDED.year,
				color = EXCLUDED.color,
				engine_number = EXCLUDED.engine_number,
				fuel_type = EXCLUDED.fuel_type,
				vehicle_type = EXCLUDED.vehicle_type,
				company = EXCLUDED.company`,
			uuid.UUID(v.ID), uuid.UUID(saved.ID), v.VIN, v.PlateNumber, v.Make, v.Model,
			v.Year, v.Color, v.EngineNumber, v.FuelType, v.VehicleType, v.Company)
		if err != nil {
			return nil, translatePQ(err, "save vehicle")
		}

		if v.Registration != nil {
			_, err = s.q.ExecContext(ctx, `
				INSERT INTO vehicle_registrations (id, vehicle_id, registration_number, issue_date, expiry_date)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					registration_number = EXCLUDED.registration_number,
					issue_date = EXCLUDED.issue_date,
					expiry_date = EXCLUDED.expiry_date`,
				uuid.UUID(v.Registration.ID), uuid.UUID(v.ID), v.Registration.RegistrationNumber,
				v.Registration.IssueDate, v.Registration.ExpiryDate)
			if err != nil {
				return nil, translatePQ(err, "save vehicle registration")
			}
		}
	}

	// Orphan removal: vehicles dropped from the submitted set are deleted;
	// their registrations go with them via ON DELETE CASCADE.
	_, err = s.q.ExecContext(ctx, `
		DELETE FROM vehicles WHERE person_id = $1 AND id <> ALL($2)`,
		uuid.UUID(saved.ID), pq.Array(kept))
	if err != nil {
		return nil, translatePQ(err, "remove orphaned vehicles")
	}

	return saved, nil
}

func (s *Postgres) VehicleExists(ctx context.Context, vehicleID id.VehicleID) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`, uuid.UUID(vehicleID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("vehicle exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) DeleteVehicle(ctx context.Context, vehicleID id.VehicleID) error {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM vehicles WHERE id = $1`, uuid.UUID(vehicleID))
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vehicle %s: %w", vehicleID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) scanPerson(row *sql.Row) (*models.Person, error) {
	var (
		person  models.Person
		pid     uuid.UUID
		regCode sql.NullString
	)
	err := row.Scan(&pid, &person.NationalID, &person.FirstName, &person.LastName,
		&person.DateOfBirth, &regCode)
	if err != nil {
		return nil, err
	}
	person.ID = id.PersonID(pid)
	person.RegCode = regCode.String
	return &person, nil
}

// loadGraph attaches the license, vehicles, and registrations to a person row.
func (s *Postgres) loadGraph(ctx context.Context, person *models.Person) error {
	var (
		license    models.DriversLicense
		lid        uuid.UUID
		categories pq.StringArray
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT id, license_number, issue_date, expiry_date, categories
		FROM drivers_licenses WHERE person_id = $1`, uuid.UUID(person.ID)).
		Scan(&lid, &license.LicenseNumber, &license.IssueDate, &license.ExpiryDate, &categories)
	switch {
	case err == nil:
		license.ID = id.LicenseID(lid)
		license.PersonID = person.ID
		license.Categories = []string(categories)
		person.License = &license
	case errors.Is(err, sql.ErrNoRows):
		// a person registered before licensing data existed has none
	default:
		return fmt.Errorf("load license: %w", err)
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT v.id, v.vin, v.plate_number, v.make, v.model, v.year, v.color,
		       v.engine_number, v.fuel_type, COALESCE(v.vehicle_type, ''), COALESCE(v.company, ''),
		       r.id, r.registration_number, r.issue_date, r.expiry_date
		FROM vehicles v
		LEFT JOIN vehicle_registrations r ON r.vehicle_id = v.id
		WHERE v.person_id = $1
		ORDER BY v.plate_number`, uuid.UUID(person.ID))
	if err != nil {
		return fmt.Errorf("load vehicles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			vehicle models.Vehicle
			vid     uuid.UUID
			rid     uuid.NullUUID
			regNum  sql.NullString
			reg     models.VehicleRegistration
		)
		err := rows.Scan(&vid, &vehicle.VIN, &vehicle.PlateNumber, &vehicle.Make,
			&vehicle.Model, &vehicle.Year, &vehicle.Color, &vehicle.EngineNumber,
			&vehicle.FuelType, &vehicle.VehicleType, &vehicle.Company,
			&rid, &regNum, &reg.IssueDate, &reg.ExpiryDate)
		if err != nil {
			return fmt.Errorf("scan vehicle: %w", err)
		}
		vehicle.ID = id.VehicleID(vid)
		vehicle.OwnerID = person.ID
		if rid.Valid {
			reg.ID = id.RegistrationID(rid.UUID)
			reg.VehicleID = vehicle.ID
			reg.RegistrationNumber = regNum.String
			vehicle.Registration = &reg
		}
		person.Vehicles = append(person.Vehicles, &vehicle)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load vehicles: %w", err)
	}
	return nil
}

// translatePQ maps unique violations onto the conflict sentinel so services
// can distinguish key collisions from infrastructure failures.
func translatePQ(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
