package workflow

import (
	"context"
	"time"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

// tripTransitions is the edge table for the trip lifecycle. A trip
// already IN_TRANSIT cannot be cancelled outright; moving cargo must
// resolve through DELIVERED or EXCEPTION.
var tripTransitions = map[models.TripStatus][]models.TripStatus{
	models.TripAssigned:      {models.TripPickupPending, models.TripCancelled},
	models.TripPickupPending: {models.TripInTransit, models.TripCancelled},
	models.TripInTransit:     {models.TripDelivered, models.TripException},
	models.TripDelivered:     {models.TripCompleted},
	models.TripCompleted:     {},
	models.TripCancelled:     {},
	models.TripException:     {},
}

// loadStatusFor maps each trip status to the load status it drags the
// load to. The load lifecycle has no pickup state, so PICKUP_PENDING
// keeps the load ASSIGNED.
var loadStatusFor = map[models.TripStatus]models.LoadStatus{
	models.TripAssigned:      models.LoadAssigned,
	models.TripPickupPending: models.LoadAssigned,
	models.TripInTransit:     models.LoadInTransit,
	models.TripDelivered:     models.LoadDelivered,
	models.TripCompleted:     models.LoadCompleted,
	models.TripCancelled:     models.LoadCancelled,
	models.TripException:     models.LoadException,
}

// CanTransitionTrip reports whether the edge from→to exists.
func CanTransitionTrip(from, to models.TripStatus) bool {
	for _, t := range tripTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// DeliveryPayload carries the optional audit fields accepted on the
// DELIVERED transition. They never affect transition validity.
type DeliveryPayload struct {
	ReceiverName  string
	ReceiverPhone string
}

// TripResult is returned to the caller after a successful transition.
type TripResult struct {
	Trip       *models.Trip
	Load       *models.Load
	LoadSynced bool
	Settlement *models.TripSettlement
}

// TripMachine validates and applies trip transitions, keeps the
// owning load in sync within the same transaction and fires
// settlement when a trip first completes.
type TripMachine struct {
	tx       TxManager
	trips    TripStore
	loads    LoadStore
	settler  Settler
	notifier Notifier
}

func NewTripMachine(tx TxManager, trips TripStore, loads LoadStore, settler Settler, notifier Notifier) *TripMachine {
	return &TripMachine{tx: tx, trips: trips, loads: loads, settler: settler, notifier: notifier}
}

// Advance moves trip tripID to target on behalf of actor. The trip
// update, the load sync and (for completion) the fee deduction commit
// or roll back as one unit.
func (m *TripMachine) Advance(ctx context.Context, tripID uint, target models.TripStatus, actor access.Actor, payload DeliveryPayload) (*TripResult, error) {
	var result *TripResult
	err := m.tx.RunInTx(ctx, func(ctx context.Context) error {
		trip, err := m.trips.GetForUpdate(ctx, tripID)
		if err != nil {
			return apperrors.NotFound("Trip not found")
		}

		if err := m.authorize(trip, target, actor); err != nil {
			return err
		}
		if !CanTransitionTrip(trip.Status, target) {
			return apperrors.InvalidTransition(string(trip.Status), string(target))
		}

		load, err := m.loads.GetForUpdate(ctx, trip.LoadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}

		if target == models.TripCompleted {
			if err := checkPodGate(load); err != nil {
				return err
			}
		}

		trip.Status = target
		switch target {
		case models.TripDelivered:
			trip.ReceiverName = payload.ReceiverName
			trip.ReceiverPhone = payload.ReceiverPhone
		case models.TripCompleted:
			now := time.Now().UTC()
			trip.CompletedAt = &now
		}

		if err := syncLoad(load, target); err != nil {
			return err
		}

		var settlement *models.TripSettlement
		if target == models.TripCompleted {
			settlement, err = m.settler.SettleTrip(ctx, trip)
			if err != nil {
				return err
			}
		}

		if err := m.trips.Save(ctx, trip); err != nil {
			return err
		}
		if err := m.loads.Save(ctx, load); err != nil {
			return err
		}

		result = &TripResult{Trip: trip, Load: load, LoadSynced: true, Settlement: settlement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.notifier.Notify("trip.status_changed", map[string]any{
		"trip_id":     result.Trip.ID,
		"reference":   result.Trip.Reference,
		"status":      result.Trip.Status,
		"shipper_org": result.Trip.ShipperOrgID,
		"carrier_org": result.Trip.CarrierOrgID,
	})
	return result, nil
}

// authorize enforces carrier authority over trip progress. Only
// cancellation is open to both owning parties.
func (m *TripMachine) authorize(trip *models.Trip, target models.TripStatus, actor access.Actor) error {
	v := access.Resolve(actor, access.ResourceOwners{
		ShipperOrgID: trip.ShipperOrgID,
		CarrierOrgID: trip.CarrierOrgID,
	})
	if target == models.TripCancelled {
		if v.IsCarrier || v.IsShipper {
			return nil
		}
		return apperrors.Forbidden("Only a party to this trip can cancel it")
	}
	if !v.IsCarrier {
		return apperrors.ForbiddenRule(apperrors.RuleCarrierFinalAuthority,
			"Forbidden: only the carrier can update trip status")
	}
	return nil
}

// checkPodGate enforces the ordered completion preconditions:
// submission is always reported before verification.
func checkPodGate(load *models.Load) error {
	if !load.PodSubmitted {
		return apperrors.PreconditionFailed("POD must be uploaded before completing the trip")
	}
	if !load.PodVerified {
		return apperrors.PreconditionFailed("POD must be verified by shipper before completing the trip")
	}
	return nil
}

// syncLoad drags the load to the status mapped for the new trip
// status. Trip cancellation is the one machine-driven edge the plain
// load table does not carry (ASSIGNED loads are otherwise immutable).
func syncLoad(load *models.Load, tripStatus models.TripStatus) error {
	target := loadStatusFor[tripStatus]
	if tripStatus == models.TripCancelled && load.Status == models.LoadAssigned {
		load.Status = models.LoadCancelled
		return nil
	}
	return transitionLoadForSync(load, target)
}
