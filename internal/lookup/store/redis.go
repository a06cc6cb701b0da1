package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"motoreg/internal/lookup/models"
	"motoreg/pkg/platform/sentinel"
)

// Redis key prefixes for lookup records
const (
	plateKeyPrefix = "lookup:plate:"
	idKeyPrefix    = "lookup:id:"
)

// Redis stores lookup records as JSON values keyed by plate number, with a
// secondary key by record id so overwrites can retire a stale plate key.
type Redis struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed lookup store. The client lifecycle is
// managed externally.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (s *Redis) FindByPlate(ctx context.Context, plateNumber string) (models.LookupRecord, error) {
	payload, err := s.client.Get(ctx, plateKeyPrefix+plateNumber).Result()
	if errors.Is(err, redis.Nil) {
		return models.LookupRecord{}, fmt.Errorf("lookup record for plate %s: %w", plateNumber, sentinel.ErrNotFound)
	}
	if err != nil {
		return models.LookupRecord{}, fmt.Errorf("find lookup record by plate: %w", err)
	}
	var record models.LookupRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return models.LookupRecord{}, fmt.Errorf("decode lookup record: %w", err)
	}
	return record, nil
}

func (s *Redis) Save(ctx context.Context, record models.LookupRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode lookup record: %w", err)
	}

	// If the record previously covered a different plate, drop the old
	// plate key so it stops resolving.
	if oldPlate, err := s.client.Get(ctx, idKeyPrefix+record.ID).Result(); err == nil && oldPlate != record.PlateNumber {
		if err := s.client.Del(ctx, plateKeyPrefix+oldPlate).Err(); err != nil {
			return fmt.Errorf("retire stale plate key: %w", err)
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("load prior plate for record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, plateKeyPrefix+record.PlateNumber, payload, 0)
	pipe.Set(ctx, idKeyPrefix+record.ID, record.PlateNumber, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save lookup record: %w", err)
	}
	return nil
}
