package handler

import (
	id "motoreg/pkg/domain"
)

// DeleteVehicleRequest identifies a vehicle to delete by system id.
// Field names are part of the wire contract.
type DeleteVehicleRequest struct {
	VehicleID     string `json:"vehicleId"`
	AdminPassword string `json:"adminPassword"`
}

// ParseVehicleID validates and parses the submitted identifier.
func (r *DeleteVehicleRequest) ParseVehicleID() (id.VehicleID, error) {
	return id.ParseVehicleID(r.VehicleID)
}
