package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

func newPostingFixture(approval models.TruckApproval) (*PostingEngine, *mockPostings) {
	truck := &models.Truck{CarrierOrgID: 20, Approval: approval}
	truck.ID = 7
	postings := newMockPostings()
	engine := NewPostingEngine(passTx{}, postings, newMockTrucks(truck))
	return engine, postings
}

func TestCreatePosting(t *testing.T) {
	engine, postings := newPostingFixture(models.TruckApprovalApproved)

	posting, err := engine.Create(context.Background(), reqCarrier, PostingParams{
		TruckID:    7,
		OriginCity: "Mombasa",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posting.Status != models.PostingActive {
		t.Errorf("status = %s, want ACTIVE", posting.Status)
	}
	if posting.ExpiresAt.IsZero() {
		t.Error("posting must get a default expiry")
	}
	if postings.created == nil {
		t.Error("posting must be persisted")
	}
}

func TestCreatePostingOneActivePerTruck(t *testing.T) {
	engine, postings := newPostingFixture(models.TruckApprovalApproved)
	postings.active = true

	_, err := engine.Create(context.Background(), reqCarrier, PostingParams{TruckID: 7, OriginCity: "Nakuru"})
	if apperrors.HTTPStatus(err) != 409 {
		t.Fatalf("second active posting should be 409, got %v", err)
	}
	if !strings.Contains(err.Error(), "active posting") {
		t.Errorf("message %q must contain %q", err.Error(), "active posting")
	}
}

func TestCreatePostingFlipsStaleExpiredActive(t *testing.T) {
	engine, postings := newPostingFixture(models.TruckApprovalApproved)
	// Stored ACTIVE but past expiry: the creation transaction rewrites
	// it to EXPIRED so the unique index no longer matches.
	postings.active = true
	postings.staleActive = true

	posting, err := engine.Create(context.Background(), reqCarrier, PostingParams{TruckID: 7, OriginCity: "Eldoret"})
	if err != nil {
		t.Fatalf("posting over an expired active posting should succeed, got %v", err)
	}
	if posting.Status != models.PostingActive {
		t.Errorf("status = %s, want ACTIVE", posting.Status)
	}
	if postings.expireCalls != 1 {
		t.Errorf("expireCalls = %d, want 1 before the uniqueness check", postings.expireCalls)
	}
}

func TestCreatePostingGuards(t *testing.T) {
	engine, _ := newPostingFixture(models.TruckApprovalPending)
	if _, err := engine.Create(context.Background(), reqCarrier, PostingParams{TruckID: 7, OriginCity: "Kisumu"}); apperrors.HTTPStatus(err) != 400 {
		t.Errorf("unapproved truck should be 400, got %v", err)
	}

	engine, _ = newPostingFixture(models.TruckApprovalApproved)
	foreign := access.Actor{Role: access.RoleCarrier, OrganizationID: 99}
	if _, err := engine.Create(context.Background(), foreign, PostingParams{TruckID: 7, OriginCity: "Kisumu"}); apperrors.HTTPStatus(err) != 403 {
		t.Errorf("foreign truck should be 403, got %v", err)
	}

	if _, err := engine.Create(context.Background(), reqShipper, PostingParams{TruckID: 7, OriginCity: "Kisumu"}); apperrors.HTTPStatus(err) != 403 {
		t.Errorf("shipper posting a truck should be 403, got %v", err)
	}
}

func TestUnpost(t *testing.T) {
	posting := &models.TruckPosting{
		TruckID: 7, CarrierOrgID: 20,
		Status:    models.PostingActive,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	posting.ID = 3
	engine := NewPostingEngine(passTx{}, newMockPostings(posting), newMockTrucks())

	got, err := engine.Unpost(context.Background(), reqCarrier, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.PostingUnposted {
		t.Errorf("status = %s, want UNPOSTED", got.Status)
	}

	// Already unposted: not active anymore.
	if _, err := engine.Unpost(context.Background(), reqCarrier, 3); apperrors.HTTPStatus(err) != 400 {
		t.Errorf("double unpost should be 400, got %v", err)
	}
}

func TestEffectivePostingStatus(t *testing.T) {
	now := time.Now().UTC()
	live := &models.TruckPosting{Status: models.PostingActive, ExpiresAt: now.Add(time.Hour)}
	stale := &models.TruckPosting{Status: models.PostingActive, ExpiresAt: now.Add(-time.Hour)}
	withdrawn := &models.TruckPosting{Status: models.PostingUnposted, ExpiresAt: now.Add(-time.Hour)}

	if got := EffectivePostingStatus(live, now); got != models.PostingActive {
		t.Errorf("live = %s", got)
	}
	if got := EffectivePostingStatus(stale, now); got != models.PostingExpired {
		t.Errorf("stale = %s, want EXPIRED", got)
	}
	if got := EffectivePostingStatus(withdrawn, now); got != models.PostingUnposted {
		t.Errorf("withdrawn = %s, want UNPOSTED", got)
	}
}
