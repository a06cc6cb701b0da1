package service

import (
	"context"
	"errors"

	id "motoreg/pkg/domain"
	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/sentinel"
)

// DeleteVehicle removes a single vehicle by its system identifier. The store
// detaches it from its owner's vehicle set and removes its registration.
//
// Rejections: nil id -> validation; admin password mismatch -> unauthorized;
// unknown id -> not_found with no write performed.
func (s *Service) DeleteVehicle(ctx context.Context, vehicleID id.VehicleID, adminPassword string) error {
	ctx, span := s.tracer.Start(ctx, "registration.DeleteVehicle")
	defer span.End()

	if vehicleID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "a vehicle id is required to identify which vehicle to delete")
	}
	if !s.adminAuthorized(adminPassword) {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid admin password, deletion not permitted")
	}

	exists, err := s.store.VehicleExists(ctx, vehicleID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vehicle")
	}
	if !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "no vehicle found with the provided id: %s", vehicleID)
	}

	if err := s.store.DeleteVehicle(ctx, vehicleID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "no vehicle found with the provided id: %s", vehicleID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete vehicle")
	}

	if s.metrics != nil {
		s.metrics.VehiclesDeleted.Inc()
	}
	s.logAudit(ctx, "vehicle.deleted", "vehicle_id", vehicleID)
	return nil
}
