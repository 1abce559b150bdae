package service

import (
	"context"
	"time"

	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/repository"
	apperrors "github.com/spec-kit/finops-admin/pkg/util"
)

// OnboardingService tracks which guide steps an operator has finished.
type OnboardingService struct {
	progress repository.OnboardingRepository
}

// NewOnboardingService constructs the service.
func NewOnboardingService(progress repository.OnboardingRepository) *OnboardingService {
	return &OnboardingService{progress: progress}
}

// Progress returns the operator's guide progress.
func (s *OnboardingService) Progress(ctx context.Context, userID string) (*domain.OnboardingProgress, error) {
	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return p, nil
}

// CompleteStep marks a known guide step as done. Completing a step twice is
// a no-op that keeps the original timestamp.
func (s *OnboardingService) CompleteStep(ctx context.Context, userID string, step domain.OnboardingStep) (*domain.OnboardingProgress, error) {
	if !knownStep(step) {
		return nil, apperrors.NewValidationError("unknown onboarding step", map[string]any{"step": string(step)})
	}
	current, err := s.progress.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !current.Done(step) {
		if err := s.progress.MarkDone(ctx, userID, step, time.Now()); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return p, nil
}

// Reset clears the operator's progress so guides replay from the start.
func (s *OnboardingService) Reset(ctx context.Context, userID string) error {
	if err := s.progress.Reset(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func knownStep(step domain.OnboardingStep) bool {
	for _, s := range domain.OnboardingSteps {
		if s == step {
			return true
		}
	}
	return false
}
