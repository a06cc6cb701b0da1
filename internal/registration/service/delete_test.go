package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"motoreg/internal/registration/store"
	id "motoreg/pkg/domain"
	dErrors "motoreg/pkg/domain-errors"
)

type DeleteSuite struct {
	suite.Suite
	store   *store.InMemory
	service *Service
	ctx     context.Context
}

func TestDeleteSuite(t *testing.T) {
	suite.Run(t, new(DeleteSuite))
}

func (s *DeleteSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.service = New(s.store, testAdminPassword)
	s.ctx = context.Background()
}

func (s *DeleteSuite) TestRejections() {
	s.Run("nil vehicle id", func() {
		err := s.service.DeleteVehicle(s.ctx, id.VehicleID{}, testAdminPassword)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("wrong admin password", func() {
		err := s.service.DeleteVehicle(s.ctx, id.NewVehicleID(), "wrong")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing admin password", func() {
		err := s.service.DeleteVehicle(s.ctx, id.NewVehicleID(), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown vehicle id", func() {
		err := s.service.DeleteVehicle(s.ctx, id.NewVehicleID(), testAdminPassword)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// TestSuccessfulDelete verifies the vehicle disappears from its owner's set
// on the next read.
func (s *DeleteSuite) TestSuccessfulDelete() {
	person, err := s.service.Register(s.ctx, testDocument("NID-1", "ABC-123"))
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, testDocument("NID-1", "DEF-456"))
	s.Require().NoError(err)

	vehicleID := person.Vehicles[0].ID
	s.Require().NoError(s.service.DeleteVehicle(s.ctx, vehicleID, testAdminPassword))

	stored, err := s.store.FindByNationalID(s.ctx, "NID-1")
	s.Require().NoError(err)
	s.Len(stored.Vehicles, 1)
	s.Nil(stored.VehicleByPlate("ABC-123"))
	s.NotNil(stored.VehicleByPlate("DEF-456"))

	s.Run("second delete is a not-found rejection", func() {
		err := s.service.DeleteVehicle(s.ctx, vehicleID, testAdminPassword)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
