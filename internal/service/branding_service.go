package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/events"
	"github.com/spec-kit/finops-admin/internal/repository"
	apperrors "github.com/spec-kit/finops-admin/pkg/util"
)

// BrandingService manages the organization's white-label configuration.
type BrandingService struct {
	orgs       repository.OrganizationRepository
	dispatcher events.Dispatcher
}

// NewBrandingService constructs the service.
func NewBrandingService(orgs repository.OrganizationRepository, dispatcher events.Dispatcher) *BrandingService {
	return &BrandingService{orgs: orgs, dispatcher: dispatcher}
}

// BrandingInput is the patch applied to branding configuration.
type BrandingInput struct {
	DisplayName  string
	LogoURL      string
	PrimaryColor string
	AccentColor  string
	SupportEmail string
}

// Get returns the current branding record.
func (s *BrandingService) Get(ctx context.Context) (*domain.Organization, error) {
	org, err := s.orgs.Get(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return org, nil
}

// Update validates and persists the branding patch.
func (s *BrandingService) Update(ctx context.Context, actor *domain.AdminUser, input BrandingInput) (*domain.Organization, error) {
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, apperrors.NewValidationError("display name is required", nil)
	}
	for _, color := range []string{input.PrimaryColor, input.AccentColor} {
		if color != "" && !validHexColor(color) {
			return nil, apperrors.NewValidationError("colors must be hex values like #2563eb",
				map[string]any{"color": color})
		}
	}

	org, err := s.orgs.Get(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	org.DisplayName = strings.TrimSpace(input.DisplayName)
	org.LogoURL = strings.TrimSpace(input.LogoURL)
	if input.PrimaryColor != "" {
		org.PrimaryColor = input.PrimaryColor
	}
	if input.AccentColor != "" {
		org.AccentColor = input.AccentColor
	}
	org.SupportEmail = strings.TrimSpace(input.SupportEmail)

	if err := s.orgs.UpdateBranding(ctx, org); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventBrandingUpdated,
			Actor:     events.Actor{UserID: actor.ID, Name: actor.Name, Role: actor.RoleKey},
			Timestamp: time.Now(),
			Payload:   events.NameChangedPayload{Name: org.DisplayName},
		})
	}
	return org, nil
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
