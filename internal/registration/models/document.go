package models

import (
	dErrors "motoreg/pkg/domain-errors"
)

// RegistrationDocument is the composite submission accepted by the register,
// update, and verify operations. Field names are part of the wire contract.
type RegistrationDocument struct {
	VehicleRegistration *VehicleRegistrationDoc `json:"vehicleRegistration"`
	DriversLicense      *DriversLicenseDoc      `json:"driversLicense"`
	RegCode             string                  `json:"regCode,omitempty"`
	AdminPassword       string                  `json:"adminPassword,omitempty"`
}

// VehicleRegistrationDoc is the registration sub-document.
type VehicleRegistrationDoc struct {
	RegistrationNumber string      `json:"registrationNumber"`
	IssueDate          Date        `json:"issueDate"`
	ExpiryDate         Date        `json:"expiryDate"`
	Owner              *OwnerDoc   `json:"owner,omitempty"`
	Vehicle            *VehicleDoc `json:"vehicle"`
}

// DriversLicenseDoc is the license sub-document.
type DriversLicenseDoc struct {
	LicenseNumber string     `json:"licenseNumber"`
	IssueDate     Date       `json:"issueDate"`
	ExpiryDate    Date       `json:"expiryDate"`
	Categories    []string   `json:"categories"`
	Holder        *HolderDoc `json:"holder"`
}

// OwnerDoc carries the owner reference on the registration sub-document.
type OwnerDoc struct {
	NationalID string `json:"nationalId"`
}

// HolderDoc identifies the license holder.
type HolderDoc struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth Date   `json:"dateOfBirth"`
	NationalID  string `json:"nationalId"`
}

// VehicleDoc is the vehicle sub-document.
type VehicleDoc struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color"`
	VIN          string `json:"vin"`
	EngineNumber string `json:"engineNumber"`
	PlateNumber  string `json:"plateNumber"`
	FuelType     string `json:"fuelType"`
	VehicleType  string `json:"vehicleType,omitempty"`
	Company      string `json:"company,omitempty"`
}

// Validate enforces the minimum document shape shared by register and verify:
// both sub-documents present, a holder with a national id, and a vehicle with
// a plate number. Each violation names the missing field.
func (d *RegistrationDocument) Validate() error {
	if d == nil || d.DriversLicense == nil || d.VehicleRegistration == nil {
		return dErrors.New(dErrors.CodeValidation, "the registration document is incomplete")
	}
	holder := d.DriversLicense.Holder
	if holder == nil || holder.NationalID == "" {
		return dErrors.New(dErrors.CodeValidation, "driver's license holder information with national id is required")
	}
	vehicle := d.VehicleRegistration.Vehicle
	if vehicle == nil || vehicle.PlateNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "vehicle information with a plate number is required")
	}
	return nil
}

// Holder returns the holder sub-document; call Validate first.
func (d *RegistrationDocument) Holder() *HolderDoc {
	return d.DriversLicense.Holder
}

// Vehicle returns the vehicle sub-document; call Validate first.
func (d *RegistrationDocument) Vehicle() *VehicleDoc {
	return d.VehicleRegistration.Vehicle
}
