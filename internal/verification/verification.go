package verification

import (
	"log/slog"

	"motoreg/internal/verification/handler"
	"motoreg/internal/verification/service"
)

// Service exposes the registration data comparator.
type Service = service.Service

// Handler wires HTTP endpoints to the verification and lookup services.
type Handler = handler.Handler

// NewService constructs the verification service over the registration store.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs an HTTP handler for verification routes.
func NewHandler(s *Service, lookup handler.LookupService, logger *slog.Logger) *Handler {
	return handler.New(s, lookup, logger)
}
