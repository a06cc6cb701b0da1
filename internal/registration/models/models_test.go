package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "motoreg/pkg/domain"
	dErrors "motoreg/pkg/domain-errors"
)

func TestDateEquality(t *testing.T) {
	t.Run("same calendar day compares equal", func(t *testing.T) {
		a := NewDate(1990, time.March, 14)
		b := NewDate(1990, time.March, 14)
		assert.True(t, a.Equal(b))
	})

	t.Run("different days differ", func(t *testing.T) {
		a := NewDate(1990, time.March, 14)
		b := NewDate(1990, time.March, 15)
		assert.False(t, a.Equal(b))
	})

	t.Run("zero dates compare equal only to each other", func(t *testing.T) {
		var zero Date
		assert.True(t, zero.Equal(Date{}))
		assert.False(t, zero.Equal(NewDate(2020, time.January, 1)))
	})
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		D Date `json:"d"`
	}

	t.Run("round trips YYYY-MM-DD", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-06-30"}`), &p))
		assert.Equal(t, "2024-06-30", p.D.String())

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"d":"2024-06-30"}`, string(out))
	})

	t.Run("null decodes to zero date", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &p))
		assert.True(t, p.D.IsZero())
	})

	t.Run("rejects non-date strings", func(t *testing.T) {
		var p payload
		require.Error(t, json.Unmarshal([]byte(`{"d":"30/06/2024"}`), &p))
	})
}

func TestPersonVehicleSet(t *testing.T) {
	person := &Person{ID: id.NewPersonID(), NationalID: "19900314-1234"}
	vehicle := &Vehicle{ID: id.NewVehicleID(), PlateNumber: "ABC-123"}
	person.AddVehicle(vehicle)

	t.Run("AddVehicle fixes back-reference", func(t *testing.T) {
		assert.Equal(t, person.ID, vehicle.OwnerID)
	})

	t.Run("VehicleByPlate finds the vehicle", func(t *testing.T) {
		assert.Same(t, vehicle, person.VehicleByPlate("ABC-123"))
		assert.Nil(t, person.VehicleByPlate("XYZ-999"))
	})

	t.Run("RemoveVehicle detaches by id", func(t *testing.T) {
		other := &Vehicle{ID: id.NewVehicleID(), PlateNumber: "DEF-456"}
		person.AddVehicle(other)

		assert.True(t, person.RemoveVehicle(vehicle.ID))
		assert.Len(t, person.Vehicles, 1)
		assert.False(t, person.RemoveVehicle(vehicle.ID))
	})
}

func TestPersonClone(t *testing.T) {
	person := &Person{
		ID:         id.NewPersonID(),
		NationalID: "19900314-1234",
		License: &DriversLicense{
			ID:         id.NewLicenseID(),
			Categories: []string{"A", "B"},
		},
	}
	person.AddVehicle(&Vehicle{
		ID:          id.NewVehicleID(),
		PlateNumber: "ABC-123",
		Registration: &VehicleRegistration{
			ID:                 id.NewRegistrationID(),
			RegistrationNumber: "REG-1",
		},
	})

	clone := person.Clone()
	clone.License.Categories[0] = "C"
	clone.Vehicles[0].Registration.RegistrationNumber = "REG-2"
	clone.Vehicles[0].Color = "red"

	assert.Equal(t, "A", person.License.Categories[0])
	assert.Equal(t, "REG-1", person.Vehicles[0].Registration.RegistrationNumber)
	assert.Empty(t, person.Vehicles[0].Color)
}

func TestDocumentValidate(t *testing.T) {
	valid := func() *RegistrationDocument {
		return &RegistrationDocument{
			VehicleRegistration: &VehicleRegistrationDoc{
				RegistrationNumber: "REG-1",
				Vehicle:            &VehicleDoc{PlateNumber: "ABC-123"},
			},
			DriversLicense: &DriversLicenseDoc{
				LicenseNumber: "DL-1",
				Holder:        &HolderDoc{NationalID: "19900314-1234"},
			},
		}
	}

	t.Run("valid document passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing license sub-document", func(t *testing.T) {
		doc := valid()
		doc.DriversLicense = nil
		err := doc.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("missing registration sub-document", func(t *testing.T) {
		doc := valid()
		doc.VehicleRegistration = nil
		require.Error(t, doc.Validate())
	})

	t.Run("missing national id", func(t *testing.T) {
		doc := valid()
		doc.DriversLicense.Holder.NationalID = ""
		err := doc.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "national id")
	})

	t.Run("missing plate number", func(t *testing.T) {
		doc := valid()
		doc.VehicleRegistration.Vehicle.PlateNumber = ""
		err := doc.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plate number")
	})
}
