package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKey = "stockmaster:dashboard:stats"
	cacheTTL = 5 * time.Minute
)

// SettingsProvider supplies the low-stock threshold.
type SettingsProvider interface {
	LowStockThreshold(ctx context.Context) (int, error)
}

// Service serves dashboard aggregates from a short-lived redis cache.
// Concurrent rebuilds of a cold cache are collapsed through singleflight.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	settings SettingsProvider
	cache    *redis.Client
	group    singleflight.Group
}

func NewService(logger *slog.Logger, repo Repository, settings SettingsProvider, cache *redis.Client) *Service {
	return &Service{logger: logger, repo: repo, settings: settings, cache: cache}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", slog.Any("error", err))
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		stats, err := s.build(ctx)
		if err != nil {
			return Stats{}, err
		}
		if s.cache != nil {
			if raw, err := json.Marshal(stats); err == nil {
				if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
					s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
				}
			}
		}
		return stats, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return result.(Stats), nil
}

// Invalidate drops the cached snapshot, called after bulk mutations.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("dashboard cache invalidation failed", slog.Any("error", err))
	}
}

func (s *Service) build(ctx context.Context) (Stats, error) {
	threshold, err := s.settings.LowStockThreshold(ctx)
	if err != nil {
		return Stats{}, err
	}
	active, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return Stats{}, err
	}
	low, err := s.repo.CountLowStockQuants(ctx, threshold)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.repo.CountPendingPickingsByCode(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{ActiveProducts: active, LowStockQuants: low, PendingPickings: pending}, nil
}
