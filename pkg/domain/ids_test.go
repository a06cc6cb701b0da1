package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "motoreg/pkg/domain-errors"
)

// TestParseVehicleID_Invariants validates the parsing invariant:
// ids must be valid, non-empty, non-nil UUIDs.
func TestParseVehicleID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseVehicleID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseVehicleID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseVehicleID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseVehicleID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, VehicleID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between
// entity identifiers. If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	personID := NewPersonID()
	vehicleID := NewVehicleID()

	// These would fail to compile if the types were interchangeable:
	// var _ PersonID = vehicleID  // compile error
	// var _ VehicleID = personID  // compile error

	assert.NotEqual(t, uuid.UUID(personID), uuid.UUID(vehicleID))
}

func TestIsNil(t *testing.T) {
	var zero PersonID
	assert.True(t, zero.IsNil())
	assert.False(t, NewPersonID().IsNil())
}
