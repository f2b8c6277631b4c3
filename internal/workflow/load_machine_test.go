package workflow

import (
	"strings"
	"testing"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

func TestLoadTransitionTable(t *testing.T) {
	tests := []struct {
		from models.LoadStatus
		to   models.LoadStatus
		ok   bool
	}{
		{models.LoadDraft, models.LoadPosted, true},
		{models.LoadDraft, models.LoadCancelled, true},
		{models.LoadDraft, models.LoadAssigned, false},
		{models.LoadPosted, models.LoadUnposted, true},
		{models.LoadPosted, models.LoadAssigned, true},
		{models.LoadPosted, models.LoadCancelled, true},
		{models.LoadPosted, models.LoadDelivered, false},
		{models.LoadUnposted, models.LoadPosted, true},
		{models.LoadUnposted, models.LoadAssigned, false},
		{models.LoadAssigned, models.LoadInTransit, true},
		{models.LoadAssigned, models.LoadPosted, false},
		{models.LoadInTransit, models.LoadDelivered, true},
		{models.LoadInTransit, models.LoadException, true},
		{models.LoadInTransit, models.LoadCancelled, false},
		{models.LoadDelivered, models.LoadCompleted, true},
		{models.LoadDelivered, models.LoadInTransit, false},
	}
	for _, tc := range tests {
		if got := CanTransitionLoad(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransitionLoad(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestLoadTerminalStatesAreMonotonic(t *testing.T) {
	terminals := []models.LoadStatus{models.LoadCompleted, models.LoadCancelled, models.LoadException}
	all := []models.LoadStatus{
		models.LoadDraft, models.LoadPosted, models.LoadUnposted, models.LoadAssigned,
		models.LoadInTransit, models.LoadDelivered, models.LoadCompleted,
		models.LoadCancelled, models.LoadException,
	}
	for _, from := range terminals {
		for _, to := range all {
			if CanTransitionLoad(from, to) {
				t.Errorf("terminal %s must have no outgoing edge, found %s", from, to)
			}
		}
	}
}

func TestRequestLoadTransitionOwnership(t *testing.T) {
	load := &models.Load{ShipperOrgID: 10, Status: models.LoadDraft}

	otherShipper := access.Actor{Role: access.RoleShipper, OrganizationID: 99}
	err := RequestLoadTransition(load, models.LoadPosted, otherShipper)
	if apperrors.HTTPStatus(err) != 403 {
		t.Fatalf("non-owning shipper should get 403, got %v", err)
	}

	carrier := access.Actor{Role: access.RoleCarrier, OrganizationID: 10}
	err = RequestLoadTransition(load, models.LoadPosted, carrier)
	if apperrors.HTTPStatus(err) != 403 {
		t.Fatalf("carrier should get 403 on load status calls, got %v", err)
	}

	// Admins act through their own override path, never the direct
	// shipper-driven one.
	admin := access.Actor{Role: access.RoleAdmin, OrganizationID: 10}
	err = RequestLoadTransition(load, models.LoadPosted, admin)
	if apperrors.HTTPStatus(err) != 403 {
		t.Fatalf("admin should get 403 on the direct path, got %v", err)
	}
}

func TestRequestLoadTransitionStampsPostedAt(t *testing.T) {
	load := &models.Load{ShipperOrgID: 10, Status: models.LoadDraft}
	owner := access.Actor{Role: access.RoleShipper, OrganizationID: 10}

	if err := RequestLoadTransition(load, models.LoadPosted, owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if load.Status != models.LoadPosted {
		t.Errorf("status = %s, want POSTED", load.Status)
	}
	if load.PostedAt == nil {
		t.Error("PostedAt must be stamped on POSTED")
	}
}

func TestRequestLoadTransitionRejectsInvalidEdge(t *testing.T) {
	load := &models.Load{ShipperOrgID: 10, Status: models.LoadDraft}
	owner := access.Actor{Role: access.RoleShipper, OrganizationID: 10}

	err := RequestLoadTransition(load, models.LoadDelivered, owner)
	if err == nil {
		t.Fatal("expected invalid transition error")
	}
	if !strings.Contains(err.Error(), "Invalid status transition from DRAFT to DELIVERED") {
		t.Errorf("message must name both endpoints, got %q", err.Error())
	}
}

func TestRequestLoadTransitionBlocksTripSyncEdges(t *testing.T) {
	// ASSIGNED -> IN_TRANSIT is a legal edge, but only trip sync may
	// drive it; a direct shipper call must be refused.
	load := &models.Load{ShipperOrgID: 10, Status: models.LoadAssigned}
	owner := access.Actor{Role: access.RoleShipper, OrganizationID: 10}

	err := RequestLoadTransition(load, models.LoadInTransit, owner)
	if apperrors.HTTPStatus(err) != 403 {
		t.Fatalf("trip-sync edge must be forbidden on the direct path, got %v", err)
	}
	if load.Status != models.LoadAssigned {
		t.Error("load must be untouched after a refused transition")
	}
}

func TestLoadEditable(t *testing.T) {
	editable := []models.LoadStatus{models.LoadDraft, models.LoadPosted, models.LoadUnposted}
	frozen := []models.LoadStatus{
		models.LoadAssigned, models.LoadInTransit, models.LoadDelivered,
		models.LoadCompleted, models.LoadCancelled, models.LoadException,
	}
	for _, s := range editable {
		if !LoadEditable(s) {
			t.Errorf("%s should be editable", s)
		}
	}
	for _, s := range frozen {
		if LoadEditable(s) {
			t.Errorf("%s must not be editable", s)
		}
	}
}
