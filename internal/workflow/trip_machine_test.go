package workflow

import (
	"context"
	"strings"
	"testing"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

var (
	tripCarrier = access.Actor{UserID: 1, Role: access.RoleCarrier, OrganizationID: 20}
	tripShipper = access.Actor{UserID: 2, Role: access.RoleShipper, OrganizationID: 10}
)

func newTripFixture(tripStatus models.TripStatus, loadStatus models.LoadStatus) (*TripMachine, *mockTrips, *mockLoads, *mockSettler) {
	trip := &models.Trip{LoadID: 5, TruckID: 7, CarrierOrgID: 20, ShipperOrgID: 10, Status: tripStatus}
	trip.ID = 1
	load := &models.Load{ShipperOrgID: 10, Status: loadStatus}
	load.ID = 5

	trips := newMockTrips(trip)
	loads := newMockLoads(load)
	settler := &mockSettler{}
	m := NewTripMachine(passTx{}, trips, loads, settler, &mockNotifier{})
	return m, trips, loads, settler
}

func TestAdvanceTripRejectsNonCarrier(t *testing.T) {
	m, _, _, _ := newTripFixture(models.TripAssigned, models.LoadAssigned)

	_, err := m.Advance(context.Background(), 1, models.TripPickupPending, tripShipper, DeliveryPayload{})
	if apperrors.HTTPStatus(err) != 403 {
		t.Fatalf("shipper advancing a trip should get 403, got %v", err)
	}
	if !strings.Contains(err.Error(), "only the carrier can update trip status") {
		t.Errorf("unexpected message %q", err.Error())
	}
	e, _ := apperrors.As(err)
	if e.Rule != apperrors.RuleCarrierFinalAuthority {
		t.Errorf("rule = %q, want %q", e.Rule, apperrors.RuleCarrierFinalAuthority)
	}
}

func TestAdvanceTripSyncsLoad(t *testing.T) {
	tests := []struct {
		tripFrom models.TripStatus
		loadFrom models.LoadStatus
		target   models.TripStatus
		wantLoad models.LoadStatus
	}{
		{models.TripAssigned, models.LoadAssigned, models.TripPickupPending, models.LoadAssigned},
		{models.TripPickupPending, models.LoadAssigned, models.TripInTransit, models.LoadInTransit},
		{models.TripInTransit, models.LoadInTransit, models.TripDelivered, models.LoadDelivered},
		{models.TripInTransit, models.LoadInTransit, models.TripException, models.LoadException},
	}
	for _, tc := range tests {
		m, trips, loads, _ := newTripFixture(tc.tripFrom, tc.loadFrom)
		result, err := m.Advance(context.Background(), 1, tc.target, tripCarrier, DeliveryPayload{})
		if err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tc.tripFrom, tc.target, err)
		}
		if !result.LoadSynced {
			t.Errorf("%s -> %s: LoadSynced must be true", tc.tripFrom, tc.target)
		}
		if result.Load.Status != tc.wantLoad {
			t.Errorf("%s -> %s: load status = %s, want %s", tc.tripFrom, tc.target, result.Load.Status, tc.wantLoad)
		}
		if len(trips.saved) != 1 || len(loads.saved) != 1 {
			t.Errorf("%s -> %s: trip and load must both be persisted", tc.tripFrom, tc.target)
		}
	}
}

func TestAdvanceTripTerminalEdgeMessage(t *testing.T) {
	m, _, _, _ := newTripFixture(models.TripCompleted, models.LoadCompleted)

	_, err := m.Advance(context.Background(), 1, models.TripAssigned, tripCarrier, DeliveryPayload{})
	if err == nil {
		t.Fatal("expected invalid transition")
	}
	if err.Error() != "Invalid status transition from COMPLETED to ASSIGNED" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAdvanceTripInTransitCannotCancel(t *testing.T) {
	m, _, _, _ := newTripFixture(models.TripInTransit, models.LoadInTransit)

	_, err := m.Advance(context.Background(), 1, models.TripCancelled, tripCarrier, DeliveryPayload{})
	if err == nil || !strings.Contains(err.Error(), "Invalid status transition from IN_TRANSIT to CANCELLED") {
		t.Fatalf("moving cargo must not be cancellable, got %v", err)
	}
}

func TestAdvanceTripCancellationByEitherParty(t *testing.T) {
	for _, actor := range []access.Actor{tripCarrier, tripShipper} {
		m, _, _, _ := newTripFixture(models.TripAssigned, models.LoadAssigned)
		result, err := m.Advance(context.Background(), 1, models.TripCancelled, actor, DeliveryPayload{})
		if err != nil {
			t.Fatalf("%s should be able to cancel: %v", actor.Role, err)
		}
		if result.Load.Status != models.LoadCancelled {
			t.Errorf("load status = %s, want CANCELLED", result.Load.Status)
		}
	}

	m, _, _, _ := newTripFixture(models.TripAssigned, models.LoadAssigned)
	outsider := access.Actor{Role: access.RoleShipper, OrganizationID: 99}
	if _, err := m.Advance(context.Background(), 1, models.TripCancelled, outsider, DeliveryPayload{}); apperrors.HTTPStatus(err) != 403 {
		t.Errorf("outsider cancel should be 403, got %v", err)
	}
}

func TestPodGateOrdering(t *testing.T) {
	// Neither flag set: the submission message must win, even though
	// verification is also missing.
	m, _, loads, _ := newTripFixture(models.TripDelivered, models.LoadDelivered)

	_, err := m.Advance(context.Background(), 1, models.TripCompleted, tripCarrier, DeliveryPayload{})
	if err == nil || !strings.Contains(err.Error(), "POD must be uploaded before completing the trip") {
		t.Fatalf("want upload-gate message, got %v", err)
	}

	loads.loads[5].PodSubmitted = true
	_, err = m.Advance(context.Background(), 1, models.TripCompleted, tripCarrier, DeliveryPayload{})
	if err == nil || !strings.Contains(err.Error(), "POD must be verified by shipper before completing the trip") {
		t.Fatalf("want verify-gate message, got %v", err)
	}
}

func TestAdvanceTripCompletionSettles(t *testing.T) {
	m, trips, loads, settler := newTripFixture(models.TripDelivered, models.LoadDelivered)
	loads.loads[5].PodSubmitted = true
	loads.loads[5].PodVerified = true

	result, err := m.Advance(context.Background(), 1, models.TripCompleted, tripCarrier, DeliveryPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settler.calls != 1 {
		t.Errorf("settler calls = %d, want 1", settler.calls)
	}
	if result.Settlement == nil {
		t.Error("completion must report the settlement")
	}
	if result.Trip.CompletedAt == nil {
		t.Error("CompletedAt must be stamped")
	}
	if result.Load.Status != models.LoadCompleted {
		t.Errorf("load status = %s, want COMPLETED", result.Load.Status)
	}
	if len(trips.saved) != 1 {
		t.Error("trip must be persisted")
	}
}

func TestAdvanceTripSettlementFailureBlocksCompletion(t *testing.T) {
	m, trips, loads, settler := newTripFixture(models.TripDelivered, models.LoadDelivered)
	loads.loads[5].PodSubmitted = true
	loads.loads[5].PodVerified = true
	settler.err = apperrors.SettlementFailed("Insufficient balance to settle trip service fees")

	_, err := m.Advance(context.Background(), 1, models.TripCompleted, tripCarrier, DeliveryPayload{})
	if err == nil || !strings.Contains(err.Error(), "Insufficient balance") {
		t.Fatalf("settlement failure must surface, got %v", err)
	}
	// Settlement runs before persistence: nothing may have been saved.
	if len(trips.saved) != 0 || len(loads.saved) != 0 {
		t.Error("no write may land when settlement fails")
	}
}

func TestAdvanceTripRecordsReceiverAudit(t *testing.T) {
	m, _, _, _ := newTripFixture(models.TripInTransit, models.LoadInTransit)

	result, err := m.Advance(context.Background(), 1, models.TripDelivered, tripCarrier, DeliveryPayload{
		ReceiverName:  "J. Mwangi",
		ReceiverPhone: "+254700000000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Trip.ReceiverName != "J. Mwangi" || result.Trip.ReceiverPhone != "+254700000000" {
		t.Error("receiver audit fields must be recorded on DELIVERED")
	}
}

func TestAdvanceTripNotFound(t *testing.T) {
	m, _, _, _ := newTripFixture(models.TripAssigned, models.LoadAssigned)
	if _, err := m.Advance(context.Background(), 42, models.TripPickupPending, tripCarrier, DeliveryPayload{}); apperrors.HTTPStatus(err) != 404 {
		t.Errorf("missing trip should be 404, got %v", err)
	}
}
