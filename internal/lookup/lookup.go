package lookup

import (
	"motoreg/internal/lookup/service"
)

// Service exposes the secondary lookup verifier.
type Service = service.Service

// NewService constructs the lookup service over the given record store.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}
