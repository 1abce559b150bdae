package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/finops-admin/internal/domain"
)

type fakeOnboardingRepo struct {
	completed map[string]map[domain.OnboardingStep]time.Time
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{completed: map[string]map[domain.OnboardingStep]time.Time{}}
}

func (r *fakeOnboardingRepo) Get(_ context.Context, userID string) (*domain.OnboardingProgress, error) {
	progress := &domain.OnboardingProgress{
		UserID:      userID,
		CompletedAt: map[domain.OnboardingStep]time.Time{},
	}
	for step, at := range r.completed[userID] {
		progress.CompletedAt[step] = at
	}
	return progress, nil
}

func (r *fakeOnboardingRepo) MarkDone(_ context.Context, userID string, step domain.OnboardingStep, at time.Time) error {
	if r.completed[userID] == nil {
		r.completed[userID] = map[domain.OnboardingStep]time.Time{}
	}
	r.completed[userID][step] = at
	return nil
}

func (r *fakeOnboardingRepo) Reset(_ context.Context, userID string) error {
	delete(r.completed, userID)
	return nil
}

func TestCompleteStepRejectsUnknownStep(t *testing.T) {
	svc := NewOnboardingService(newFakeOnboardingRepo())
	_, err := svc.CompleteStep(context.Background(), "u1", "moonwalk")
	if got := codeOf(t, err); got != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", got)
	}
}

func TestCompleteStepIsIdempotent(t *testing.T) {
	repo := newFakeOnboardingRepo()
	svc := NewOnboardingService(repo)
	ctx := context.Background()

	first, err := svc.CompleteStep(ctx, "u1", domain.StepWelcomeTour)
	if err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	if !first.Done(domain.StepWelcomeTour) {
		t.Fatalf("step should be recorded")
	}
	stamp := first.CompletedAt[domain.StepWelcomeTour]

	again, err := svc.CompleteStep(ctx, "u1", domain.StepWelcomeTour)
	if err != nil {
		t.Fatalf("repeat CompleteStep: %v", err)
	}
	if got := again.CompletedAt[domain.StepWelcomeTour]; !got.Equal(stamp) {
		t.Fatalf("repeat completion must keep the original timestamp, got %v want %v", got, stamp)
	}
}

func TestProgressPercent(t *testing.T) {
	repo := newFakeOnboardingRepo()
	svc := NewOnboardingService(repo)
	ctx := context.Background()

	progress, err := svc.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Percent() != 0 {
		t.Fatalf("fresh operator should be at 0%%, got %d", progress.Percent())
	}

	for _, step := range domain.OnboardingSteps {
		if _, err := svc.CompleteStep(ctx, "u1", step); err != nil {
			t.Fatalf("CompleteStep(%s): %v", step, err)
		}
	}
	progress, err = svc.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Percent() != 100 {
		t.Fatalf("all steps done should be 100%%, got %d", progress.Percent())
	}
}

func TestResetClearsProgress(t *testing.T) {
	repo := newFakeOnboardingRepo()
	svc := NewOnboardingService(repo)
	ctx := context.Background()

	if _, err := svc.CompleteStep(ctx, "u1", domain.StepAddBank); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	if err := svc.Reset(ctx, "u1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	progress, err := svc.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if len(progress.CompletedAt) != 0 {
		t.Fatalf("progress should be empty after reset, got %v", progress.CompletedAt)
	}
}
