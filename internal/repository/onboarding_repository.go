package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// OnboardingRepository tracks per-operator guide progress in Redis.
type OnboardingRepository interface {
	Get(ctx context.Context, userID string) (*domain.OnboardingProgress, error)
	MarkDone(ctx context.Context, userID string, step domain.OnboardingStep, at time.Time) error
	Reset(ctx context.Context, userID string) error
}

type onboardingRepository struct {
	client *redis.Client
}

// NewOnboardingRepository returns a Redis-backed implementation.
func NewOnboardingRepository(client *redis.Client) OnboardingRepository {
	return &onboardingRepository{client: client}
}

func onboardingKey(userID string) string {
	return "onboarding:" + userID
}

func (r *onboardingRepository) Get(ctx context.Context, userID string) (*domain.OnboardingProgress, error) {
	raw, err := r.client.HGetAll(ctx, onboardingKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	progress := &domain.OnboardingProgress{
		UserID:      userID,
		CompletedAt: make(map[domain.OnboardingStep]time.Time, len(raw)),
	}
	for step, stamp := range raw {
		at, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			// skip entries written by older formats
			continue
		}
		progress.CompletedAt[domain.OnboardingStep(step)] = at
	}
	return progress, nil
}

func (r *onboardingRepository) MarkDone(ctx context.Context, userID string, step domain.OnboardingStep, at time.Time) error {
	return r.client.HSet(ctx, onboardingKey(userID), string(step), at.UTC().Format(time.RFC3339)).Err()
}

func (r *onboardingRepository) Reset(ctx context.Context, userID string) error {
	return r.client.Del(ctx, onboardingKey(userID)).Err()
}
