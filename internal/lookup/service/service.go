// Package service implements the secondary lookup verifier: a flat
// plate-keyed check against externally issued document records, independent
// of the full registration graph.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	lookupmetrics "motoreg/internal/lookup/metrics"
	"motoreg/internal/lookup/models"
	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/sentinel"
	"motoreg/pkg/requestcontext"
)

// Store is the persistence contract for lookup records.
type Store interface {
	FindByPlate(ctx context.Context, plateNumber string) (models.LookupRecord, error)
	Save(ctx context.Context, record models.LookupRecord) error
}

// Service verifies submitted lookup records against stored ones.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *lookupmetrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional service dependencies.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *lookupmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("motoreg/internal/lookup/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyLookup resolves the stored record by plate number and compares the
// identifying fields. An unknown plate yields false and writes nothing.
// For a known plate the outcome is persisted into the record's verified flag
// whether it matched or not, and returned.
func (s *Service) VerifyLookup(ctx context.Context, submitted models.LookupRecord) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "lookup.VerifyLookup")
	defer span.End()

	if submitted.PlateNumber == "" {
		return false, dErrors.New(dErrors.CodeValidation, "plate number is required")
	}

	stored, err := s.store.FindByPlate(ctx, submitted.PlateNumber)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordOutcome(ctx, submitted.PlateNumber, "unknown")
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lookup record")
	}

	verified := stored.Matches(submitted)
	stored.Verified = verified
	if err := s.store.Save(ctx, stored); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist verification outcome")
	}

	if verified {
		s.recordOutcome(ctx, submitted.PlateNumber, "verified")
	} else {
		s.recordOutcome(ctx, submitted.PlateNumber, "rejected")
	}
	return verified, nil
}

// SaveRecord seeds or replaces a lookup record. The verified flag always
// starts false; only VerifyLookup sets it.
func (s *Service) SaveRecord(ctx context.Context, record models.LookupRecord) error {
	ctx, span := s.tracer.Start(ctx, "lookup.SaveRecord")
	defer span.End()

	if record.ID == "" || record.PlateNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "lookup record id and plate number are required")
	}
	record.Verified = false
	if err := s.store.Save(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "lookup record conflicts with an existing one")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save lookup record")
	}
	return nil
}

func (s *Service) recordOutcome(ctx context.Context, plateNumber, outcome string) {
	if s.metrics != nil {
		switch outcome {
		case "verified":
			s.metrics.LookupsVerified.Inc()
		case "rejected":
			s.metrics.LookupsRejected.Inc()
		case "unknown":
			s.metrics.LookupsUnknown.Inc()
		}
	}
	if s.logger == nil {
		return
	}
	attributes := []any{"plate_number", plateNumber, "outcome", outcome}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	attributes = append(attributes, "event", "lookup.verified", "log_type", "audit")
	s.logger.InfoContext(ctx, "lookup.verified", attributes...)
}
