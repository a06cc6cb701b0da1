package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"motoreg/internal/lookup/models"
	"motoreg/pkg/platform/sentinel"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	record := models.LookupRecord{ID: "DOC-1", PlateNumber: "ABC-123", SerialNumber: "SER-1"}
	require.NoError(t, s.Save(ctx, record))

	got, err := s.FindByPlate(ctx, "ABC-123")
	require.NoError(t, err)
	require.Equal(t, record, got)

	_, err = s.FindByPlate(ctx, "ZZZ-999")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryPlateConflict(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.Save(ctx, models.LookupRecord{ID: "DOC-1", PlateNumber: "ABC-123"}))

	err := s.Save(ctx, models.LookupRecord{ID: "DOC-2", PlateNumber: "ABC-123"})
	require.True(t, errors.Is(err, sentinel.ErrConflict))
}

func TestInMemoryReplateRetiresOldKey(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	require.NoError(t, s.Save(ctx, models.LookupRecord{ID: "DOC-1", PlateNumber: "ABC-123"}))
	require.NoError(t, s.Save(ctx, models.LookupRecord{ID: "DOC-1", PlateNumber: "DEF-456"}))

	_, err := s.FindByPlate(ctx, "ABC-123")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	got, err := s.FindByPlate(ctx, "DEF-456")
	require.NoError(t, err)
	require.Equal(t, "DOC-1", got.ID)
}
