package registration

import (
	"log/slog"

	"motoreg/internal/registration/handler"
	"motoreg/internal/registration/service"
)

// Service orchestrates registration, update, and vehicle deletion.
type Service = service.Service

// Handler wires HTTP endpoints to the registration service.
type Handler = handler.Handler

// NewService constructs the registration service with required dependencies.
func NewService(store service.Store, adminPassword string, opts ...service.Option) *Service {
	return service.New(store, adminPassword, opts...)
}

// NewHandler constructs an HTTP handler for registration routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
