// Package cached puts a read-through, write-through cache in front of a registry.
// Cache failures are logged and never fail the underlying operation.
//
// Writes overwrite the cached entry. Read-through fills only create a missing
// entry, so a read that raced with a write never replaces the newer record.
package cached

import (
	"context"
	"errors"
	"time"

	"teammatch/internal/models"
	"teammatch/internal/storage"
	"teammatch/internal/storage/redis"

	"go.uber.org/zap"
)

// Cache is the subset of redis.Cache the registry needs
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

var _ Cache = (*redis.Cache)(nil)

type Registry struct {
	next   storage.Registry
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

var _ storage.Registry = (*Registry)(nil)

func New(next storage.Registry, cache Cache, ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *Registry) Close() error {
	return r.next.Close()
}

func (r *Registry) PutProfile(ctx context.Context, profile *models.Profile) error {
	if err := r.next.PutProfile(ctx, profile); err != nil {
		return err
	}

	r.store(ctx, redis.ProfileKey(profile.ID), profile)
	return nil
}

func (r *Registry) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	key := redis.ProfileKey(id)

	var cached models.Profile
	if r.load(ctx, key, &cached) {
		return &cached, nil
	}

	profile, err := r.next.GetProfile(ctx, id)
	if err != nil || profile == nil {
		return profile, err
	}

	r.fill(ctx, key, profile)
	return profile, nil
}

func (r *Registry) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return r.next.ListProfiles(ctx)
}

func (r *Registry) PutMatch(ctx context.Context, match *models.Match) error {
	if err := r.next.PutMatch(ctx, match); err != nil {
		return err
	}

	r.store(ctx, redis.MatchKey(match.ID), match)
	return nil
}

func (r *Registry) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	key := redis.MatchKey(id)

	var cached models.Match
	if r.load(ctx, key, &cached) {
		return &cached, nil
	}

	match, err := r.next.GetMatch(ctx, id)
	if err != nil || match == nil {
		return match, err
	}

	r.fill(ctx, key, match)
	return match, nil
}

func (r *Registry) ListMatches(ctx context.Context) ([]models.Match, error) {
	return r.next.ListMatches(ctx)
}

func (r *Registry) load(ctx context.Context, key string, dest interface{}) bool {
	err := r.cache.Get(ctx, key, dest)
	if err == nil {
		r.logger.Debug("cache hit", zap.String("key", key))
		return true
	}

	if !errors.Is(err, redis.ErrCacheMiss) {
		r.logger.Warn("cache read failed, falling back to store",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return false
}

// store writes through; a stale entry is dropped if the write fails
func (r *Registry) store(ctx context.Context, key string, value interface{}) {
	err := r.cache.Set(ctx, key, value, r.ttl)
	if err == nil {
		return
	}

	r.logger.Warn("cache write failed",
		zap.String("key", key),
		zap.Error(err),
	)

	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("cache invalidation failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// fill caches a value read from the store unless a write got there first
func (r *Registry) fill(ctx context.Context, key string, value interface{}) {
	written, err := r.cache.SetNX(ctx, key, value, r.ttl)
	if err != nil {
		r.logger.Warn("cache fill failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	if !written {
		r.logger.Debug("cache fill skipped, entry already present", zap.String("key", key))
	}
}
