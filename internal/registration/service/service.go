// Package service implements the registration reconciliation engine: the
// find-or-create rules for persons, the plate idempotency check, admin
// authorized updates, and vehicle deletion.
package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	regmetrics "motoreg/internal/registration/metrics"
	"motoreg/internal/registration/models"
	id "motoreg/pkg/domain"
	"motoreg/pkg/requestcontext"
)

// Store is the persistence contract the reconcilers need. Implementations
// return sentinel errors (pkg/platform/sentinel) for not-found and conflict
// facts.
type Store interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Person, error)
	FindByRegCode(ctx context.Context, regCode string) (*models.Person, error)
	// SavePerson cascades insert/update of the License/Vehicle/Registration
	// graph reachable from the person; vehicles removed from the set are
	// deleted together with their registrations.
	SavePerson(ctx context.Context, person *models.Person) (*models.Person, error)
	VehicleExists(ctx context.Context, vehicleID id.VehicleID) (bool, error)
	DeleteVehicle(ctx context.Context, vehicleID id.VehicleID) error
}

// StoreTx runs a read-modify-write sequence atomically per key. The postgres
// implementation opens a serializable transaction and hands the callback a
// transaction-bound store; the in-memory implementation serializes callbacks
// on a mutex. Without this boundary two concurrent registrations for a brand
// new national id could create duplicate persons.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// Service orchestrates registration, update, and deletion.
type Service struct {
	store         Store
	tx            StoreTx
	adminPassword string
	logger        *slog.Logger
	metrics       *regmetrics.Metrics
	tracer        trace.Tracer
}

// Option configures optional service dependencies.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs a Service. adminPassword is the configured shared secret;
// update and delete reject when the submitted secret differs from it.
func New(store Store, adminPassword string, opts ...Option) *Service {
	s := &Service{
		store:         store,
		adminPassword: adminPassword,
		tracer:        otel.Tracer("motoreg/internal/registration/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewMemoryTx(store)
	}
	return s
}

// NewMemoryTx wraps a store in a mutex-serialized StoreTx. Suitable for the
// in-memory store; the postgres deployment wires a real transaction runner.
func NewMemoryTx(store Store) StoreTx {
	return &memoryTx{store: store}
}

type memoryTx struct {
	mu    sync.Mutex
	store Store
}

func (t *memoryTx) RunInTx(_ context.Context, fn func(store Store) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.store)
}

// adminAuthorized compares the submitted secret against the configured one
// in constant time.
func (s *Service) adminAuthorized(submitted string) bool {
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(s.adminPassword)) == 1
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
