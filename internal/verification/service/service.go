// Package service implements the verification comparator: it resolves the
// stored person graph for a submitted registration document and compares
// every field in a fixed order, reporting either the first mismatch or the
// full mismatch list.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"motoreg/internal/registration/models"
	verifmetrics "motoreg/internal/verification/metrics"
	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/sentinel"
	"motoreg/pkg/requestcontext"
)

// Store is the read-only persistence contract the comparator needs.
type Store interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Person, error)
}

// Result is the outcome of a verification. A mismatch is a result value,
// not an error: callers receive Matched=false with the offending fields
// named, while missing records surface as coded not-found errors.
type Result struct {
	Matched    bool     `json:"matched"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// Service compares submitted registration documents against stored records.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *verifmetrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional service dependencies.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *verifmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("motoreg/internal/verification/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify resolves the stored graph and stops at the first mismatching field.
// On a full match the result carries Matched=true and no mismatches.
func (s *Service) Verify(ctx context.Context, doc *models.RegistrationDocument) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Verify")
	defer span.End()
	return s.verify(ctx, doc, true)
}

// VerifyAll resolves the stored graph and collects every mismatching field
// in comparison order.
func (s *Service) VerifyAll(ctx context.Context, doc *models.RegistrationDocument) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "verification.VerifyAll")
	defer span.End()
	return s.verify(ctx, doc, false)
}

func (s *Service) verify(ctx context.Context, doc *models.RegistrationDocument, stopAtFirst bool) (Result, error) {
	if err := doc.Validate(); err != nil {
		return Result{}, err
	}
	checks, err := s.resolve(ctx, doc)
	if err != nil {
		if s.metrics != nil && dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.VerificationsNotFound.Inc()
		}
		return Result{}, err
	}

	var mismatches []string
	for _, c := range checks {
		if c.equal() {
			continue
		}
		mismatches = append(mismatches, c.reason)
		if stopAtFirst {
			break
		}
	}

	result := Result{Matched: len(mismatches) == 0, Mismatches: mismatches}
	s.record(ctx, doc, result)
	return result, nil
}

// fieldCheck pairs a human-readable mismatch reason with its comparison.
// The slice order is the comparison order: person, license, vehicle,
// registration.
type fieldCheck struct {
	reason string
	equal  func() bool
}

// resolve loads the stored graph for the document and builds the ordered
// check table. Every missing link in the chain (person, license, vehicle by
// plate, registration) is a distinct not-found error.
func (s *Service) resolve(ctx context.Context, doc *models.RegistrationDocument) ([]fieldCheck, error) {
	holder := doc.Holder()
	vehicleDoc := doc.Vehicle()

	person, err := s.store.FindByNationalID(ctx, holder.NationalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound,
				"no person found with national id %s", holder.NationalID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}

	license := person.License
	if license == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound,
			"no drivers license on file for national id %s", holder.NationalID)
	}

	vehicle := person.VehicleByPlate(vehicleDoc.PlateNumber)
	if vehicle == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound,
			"no vehicle with plate number %s found for this person", vehicleDoc.PlateNumber)
	}

	registration := vehicle.Registration
	if registration == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound,
			"no registration on file for plate number %s", vehicleDoc.PlateNumber)
	}

	licenseDoc := doc.DriversLicense
	registrationDoc := doc.VehicleRegistration

	return []fieldCheck{
		{"First name mismatch", func() bool { return person.FirstName == holder.FirstName }},
		{"Last name mismatch", func() bool { return person.LastName == holder.LastName }},
		{"Date of birth mismatch", func() bool { return person.DateOfBirth.Equal(holder.DateOfBirth) }},

		{"License number mismatch", func() bool { return license.LicenseNumber == licenseDoc.LicenseNumber }},
		{"License issue date mismatch", func() bool { return license.IssueDate.Equal(licenseDoc.IssueDate) }},
		{"License expiry date mismatch", func() bool { return license.ExpiryDate.Equal(licenseDoc.ExpiryDate) }},
		{"License categories mismatch", func() bool { return sameCategorySet(license.Categories, licenseDoc.Categories) }},

		{"Vehicle make mismatch", func() bool { return vehicle.Make == vehicleDoc.Make }},
		{"Vehicle model mismatch", func() bool { return vehicle.Model == vehicleDoc.Model }},
		{"Vehicle year mismatch", func() bool { return vehicle.Year == vehicleDoc.Year }},
		{"Vehicle color mismatch", func() bool { return vehicle.Color == vehicleDoc.Color }},
		{"Vehicle VIN mismatch", func() bool { return vehicle.VIN == vehicleDoc.VIN }},
		{"Vehicle engine number mismatch", func() bool { return vehicle.EngineNumber == vehicleDoc.EngineNumber }},
		{"Vehicle fuel type mismatch", func() bool { return vehicle.FuelType == vehicleDoc.FuelType }},
		{"Vehicle type mismatch", func() bool { return vehicle.VehicleType == vehicleDoc.VehicleType }},
		{"Company name mismatch", func() bool { return vehicle.Company == vehicleDoc.Company }},

		{"Vehicle registration number mismatch", func() bool {
			return registration.RegistrationNumber == registrationDoc.RegistrationNumber
		}},
		{"Vehicle registration issue date mismatch", func() bool {
			return registration.IssueDate.Equal(registrationDoc.IssueDate)
		}},
		{"Vehicle registration expiry date mismatch", func() bool {
			return registration.ExpiryDate.Equal(registrationDoc.ExpiryDate)
		}},
	}, nil
}

// sameCategorySet compares license categories as unordered sets, so a
// reordered or duplicated submission still matches.
func sameCategorySet(stored, submitted []string) bool {
	a := make(map[string]struct{}, len(stored))
	for _, c := range stored {
		a[c] = struct{}{}
	}
	b := make(map[string]struct{}, len(submitted))
	for _, c := range submitted {
		b[c] = struct{}{}
	}
	if len(a) != len(b) {
		return false
	}
	for c := range b {
		if _, ok := a[c]; !ok {
			return false
		}
	}
	return true
}

func (s *Service) record(ctx context.Context, doc *models.RegistrationDocument, result Result) {
	if s.metrics != nil {
		if result.Matched {
			s.metrics.VerificationsMatched.Inc()
		} else {
			s.metrics.VerificationsMismatched.Inc()
		}
	}
	if s.logger == nil {
		return
	}
	attributes := []any{
		"national_id", doc.Holder().NationalID,
		"plate_number", doc.Vehicle().PlateNumber,
		"matched", result.Matched,
	}
	if len(result.Mismatches) > 0 {
		attributes = append(attributes, "first_mismatch", result.Mismatches[0])
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	attributes = append(attributes, "event", "verification.completed", "log_type", "audit")
	s.logger.InfoContext(ctx, "verification.completed", attributes...)
}
