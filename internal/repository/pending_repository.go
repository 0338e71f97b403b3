package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lguportal/portal/internal/models"
)

var ErrPendingNotFound = errors.New("pending registration not found")

const pendingKeyPrefix = "registration:pending:"

// PendingRepository keeps step-one registrations in Redis until step two
// completes or the TTL runs out.
type PendingRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPendingRepository(client *redis.Client, ttl time.Duration) *PendingRepository {
	return &PendingRepository{client: client, ttl: ttl}
}

func (r *PendingRepository) Save(ctx context.Context, pending models.PendingRegistration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending registration: %w", err)
	}
	return r.client.Set(ctx, pendingKeyPrefix+pending.ID, payload, r.ttl).Err()
}

func (r *PendingRepository) Get(ctx context.Context, id string) (models.PendingRegistration, error) {
	payload, err := r.client.Get(ctx, pendingKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.PendingRegistration{}, ErrPendingNotFound
		}
		return models.PendingRegistration{}, err
	}

	var pending models.PendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return models.PendingRegistration{}, fmt.Errorf("decode pending registration: %w", err)
	}
	return pending, nil
}

func (r *PendingRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, pendingKeyPrefix+id).Err()
}
