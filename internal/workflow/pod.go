package workflow

import (
	"context"
	"time"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

// PodWorkflow handles proof-of-delivery submission (carrier side) and
// verification (shipper side). The flags it sets gate trip completion
// in the trip machine.
type PodWorkflow struct {
	tx       TxManager
	loads    LoadStore
	trips    TripStore
	notifier Notifier
}

func NewPodWorkflow(tx TxManager, loads LoadStore, trips TripStore, notifier Notifier) *PodWorkflow {
	return &PodWorkflow{tx: tx, loads: loads, trips: trips, notifier: notifier}
}

// SubmitPod records the carrier's proof of delivery for a load. The
// image itself lives in external storage; only its URL is kept.
func (w *PodWorkflow) SubmitPod(ctx context.Context, loadID uint, imageURL string, actor access.Actor) (*models.Load, error) {
	if err := access.RequirePermission(actor, access.PermPodSubmit); err != nil {
		return nil, err
	}

	var load *models.Load
	err := w.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		load, err = w.loads.GetForUpdate(ctx, loadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}
		trip, err := w.trips.GetActiveByLoad(ctx, loadID)
		if err != nil {
			return apperrors.NotFound("No active trip for this load")
		}
		if trip.CarrierOrgID != actor.OrganizationID {
			return apperrors.Forbidden("Only the carrier on this trip can submit a POD")
		}
		if trip.Status != models.TripInTransit && trip.Status != models.TripDelivered {
			return apperrors.PreconditionFailed("POD can only be submitted while the trip is in transit or delivered")
		}
		if load.PodSubmitted {
			return apperrors.ValidationFailed("POD has already been submitted for this load")
		}

		now := time.Now().UTC()
		load.PodSubmitted = true
		load.PodSubmittedAt = &now
		load.PodImageURL = imageURL
		return w.loads.Save(ctx, load)
	})
	if err != nil {
		return nil, err
	}

	w.notifier.Notify("pod.submitted", map[string]any{
		"load_id":   load.ID,
		"recipient": load.ShipperOrgID,
	})
	return load, nil
}

// VerifyPod records the shipper's sign-off on a submitted POD,
// unlocking trip completion.
func (w *PodWorkflow) VerifyPod(ctx context.Context, loadID uint, actor access.Actor) (*models.Load, error) {
	if err := access.RequirePermission(actor, access.PermPodVerify); err != nil {
		return nil, err
	}

	var load *models.Load
	err := w.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		load, err = w.loads.GetForUpdate(ctx, loadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}
		v := access.Resolve(actor, access.ResourceOwners{ShipperOrgID: load.ShipperOrgID})
		if !v.IsShipper {
			return apperrors.Forbidden("Only the shipper who owns this load can verify its POD")
		}
		if !load.PodSubmitted {
			return apperrors.PreconditionFailed("No POD has been submitted for this load")
		}
		if load.PodVerified {
			return apperrors.ValidationFailed("POD has already been verified")
		}

		now := time.Now().UTC()
		load.PodVerified = true
		load.PodVerifiedAt = &now
		return w.loads.Save(ctx, load)
	})
	if err != nil {
		return nil, err
	}

	w.notifier.Notify("pod.verified", map[string]any{
		"load_id":   load.ID,
		"recipient": loadCarrierRecipient(ctx, w.trips, load.ID),
	})
	return load, nil
}

func loadCarrierRecipient(ctx context.Context, trips TripStore, loadID uint) uint {
	trip, err := trips.GetActiveByLoad(ctx, loadID)
	if err != nil {
		return 0
	}
	return trip.CarrierOrgID
}
