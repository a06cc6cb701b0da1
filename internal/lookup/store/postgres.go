package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"motoreg/internal/lookup/models"
	"motoreg/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists lookup records in the userinfo table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed lookup store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByPlate(ctx context.Context, plateNumber string) (models.LookupRecord, error) {
	var record models.LookupRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, plate_number, serial_num, is_verified
		FROM userinfo WHERE plate_number = $1`, plateNumber).
		Scan(&record.ID, &record.PlateNumber, &record.SerialNumber, &record.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LookupRecord{}, fmt.Errorf("lookup record for plate %s: %w", plateNumber, sentinel.ErrNotFound)
		}
		return models.LookupRecord{}, fmt.Errorf("find lookup record by plate: %w", err)
	}
	return record, nil
}

func (s *Postgres) Save(ctx context.Context, record models.LookupRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO userinfo (id, plate_number, serial_num, is_verified)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			plate_number = EXCLUDED.plate_number,
			serial_num = EXCLUDED.serial_num,
			is_verified = EXCLUDED.is_verified`,
		record.ID, record.PlateNumber, record.SerialNumber, record.Verified)
	if err != nil {
		return translatePQ(fmt.Errorf("save lookup record: %w", err))
	}
	return nil
}

// translatePQ maps driver unique violations to the conflict sentinel.
func translatePQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%v: %w", err, sentinel.ErrConflict)
	}
	return err
}
