package domain

import "time"

// OnboardingStep identifies a guide step in the admin UI walkthrough.
type OnboardingStep string

const (
	StepWelcomeTour     OnboardingStep = "welcome_tour"
	StepInviteTeam      OnboardingStep = "invite_team"
	StepAddPlatform     OnboardingStep = "add_platform"
	StepAddBank         OnboardingStep = "add_bank"
	StepFirstAdjustment OnboardingStep = "first_adjustment"
	StepBranding        OnboardingStep = "branding"
)

// OnboardingSteps lists every guide step in display order.
var OnboardingSteps = []OnboardingStep{
	StepWelcomeTour,
	StepInviteTeam,
	StepAddPlatform,
	StepAddBank,
	StepFirstAdjustment,
	StepBranding,
}

// OnboardingProgress tracks which guide steps an operator has completed.
type OnboardingProgress struct {
	UserID      string
	CompletedAt map[OnboardingStep]time.Time
}

// Done reports whether the step has been completed.
func (p *OnboardingProgress) Done(step OnboardingStep) bool {
	if p == nil || p.CompletedAt == nil {
		return false
	}
	_, ok := p.CompletedAt[step]
	return ok
}

// Percent returns completion as a 0-100 integer.
func (p *OnboardingProgress) Percent() int {
	if len(OnboardingSteps) == 0 {
		return 0
	}
	done := 0
	for _, step := range OnboardingSteps {
		if p.Done(step) {
			done++
		}
	}
	return done * 100 / len(OnboardingSteps)
}
