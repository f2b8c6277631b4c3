package workflow

import (
	"context"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

// LoadWorkflow applies direct (shipper driven) load status changes
// under a transaction with the row locked.
type LoadWorkflow struct {
	tx    TxManager
	loads LoadStore
}

func NewLoadWorkflow(tx TxManager, loads LoadStore) *LoadWorkflow {
	return &LoadWorkflow{tx: tx, loads: loads}
}

// LoadEdit carries the editable shipment fields. Nil means leave the
// field unchanged.
type LoadEdit struct {
	PickupCity       *string
	DropoffCity      *string
	CargoDescription *string
	WeightKg         *float64
}

// Edit applies shipment-detail changes with the row locked. The
// editability check runs after the lock is held, so an approval
// committing the load to ASSIGNED in between cannot be overwritten by
// a stale edit.
func (w *LoadWorkflow) Edit(ctx context.Context, loadID uint, edit LoadEdit, actor access.Actor) (*models.Load, error) {
	var load *models.Load
	err := w.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		load, err = w.loads.GetForUpdate(ctx, loadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}
		v := access.Resolve(actor, access.ResourceOwners{ShipperOrgID: load.ShipperOrgID})
		if !v.IsShipper {
			return apperrors.Forbidden("Only the shipper who owns this load can edit it")
		}
		if !LoadEditable(load.Status) {
			return apperrors.ValidationFailed("Load can no longer be edited in status " + string(load.Status))
		}

		if edit.PickupCity != nil {
			load.PickupCity = *edit.PickupCity
		}
		if edit.DropoffCity != nil {
			load.DropoffCity = *edit.DropoffCity
		}
		if edit.CargoDescription != nil {
			load.CargoDescription = *edit.CargoDescription
		}
		if edit.WeightKg != nil {
			load.WeightKg = *edit.WeightKg
		}
		return w.loads.Save(ctx, load)
	})
	if err != nil {
		return nil, err
	}
	return load, nil
}

// Delete removes a load, subject to the same lock-then-check
// discipline as Edit.
func (w *LoadWorkflow) Delete(ctx context.Context, loadID uint, actor access.Actor) error {
	return w.tx.RunInTx(ctx, func(ctx context.Context) error {
		load, err := w.loads.GetForUpdate(ctx, loadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}
		v := access.Resolve(actor, access.ResourceOwners{ShipperOrgID: load.ShipperOrgID})
		if !v.IsShipper {
			return apperrors.Forbidden("Only the shipper who owns this load can delete it")
		}
		if !LoadEditable(load.Status) {
			return apperrors.ValidationFailed("Load can no longer be deleted in status " + string(load.Status))
		}
		return w.loads.Delete(ctx, load)
	})
}

func (w *LoadWorkflow) UpdateStatus(ctx context.Context, loadID uint, target models.LoadStatus, actor access.Actor) (*models.Load, error) {
	var load *models.Load
	err := w.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		load, err = w.loads.GetForUpdate(ctx, loadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}
		if err := RequestLoadTransition(load, target, actor); err != nil {
			return err
		}
		return w.loads.Save(ctx, load)
	})
	if err != nil {
		return nil, err
	}
	return load, nil
}
