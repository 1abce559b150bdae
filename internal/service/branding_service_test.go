package service

import (
	"context"
	"testing"

	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/events"
)

type fakeOrgRepo struct {
	org domain.Organization
}

func (r *fakeOrgRepo) Get(_ context.Context) (*domain.Organization, error) {
	clone := r.org
	return &clone, nil
}

func (r *fakeOrgRepo) UpdateBranding(_ context.Context, org *domain.Organization) error {
	r.org = *org
	return nil
}

func TestBrandingUpdateRequiresDisplayName(t *testing.T) {
	svc := NewBrandingService(&fakeOrgRepo{}, nil)
	_, err := svc.Update(context.Background(), superAdmin(), BrandingInput{DisplayName: "  "})
	if got := codeOf(t, err); got != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", got)
	}
}

func TestBrandingUpdateRejectsBadColors(t *testing.T) {
	svc := NewBrandingService(&fakeOrgRepo{}, nil)
	for _, color := range []string{"2563eb", "#25e", "#25g3eb", "blue"} {
		_, err := svc.Update(context.Background(), superAdmin(), BrandingInput{
			DisplayName: "Acme Ops", PrimaryColor: color,
		})
		if got := codeOf(t, err); got != "VALIDATION_FAILED" {
			t.Fatalf("color %q: expected VALIDATION_FAILED, got %s", color, got)
		}
	}
}

func TestBrandingUpdatePersistsAndPublishes(t *testing.T) {
	repo := &fakeOrgRepo{org: domain.Organization{ID: "org", DisplayName: "Old"}}
	dispatcher := &fakeDispatcher{}
	svc := NewBrandingService(repo, dispatcher)

	org, err := svc.Update(context.Background(), superAdmin(), BrandingInput{
		DisplayName:  " Acme Ops ",
		PrimaryColor: "#2563eb",
		SupportEmail: "ops@acme.example",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if org.DisplayName != "Acme Ops" || org.PrimaryColor != "#2563eb" {
		t.Fatalf("patch not applied: %+v", org)
	}
	if repo.org.DisplayName != "Acme Ops" {
		t.Fatalf("patch not persisted: %+v", repo.org)
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventBrandingUpdated {
		t.Fatalf("expected a branding_updated event, got %+v", dispatcher.published)
	}
}
