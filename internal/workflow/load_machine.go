package workflow

import (
	"time"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

// loadTransitions is the full edge table for the load lifecycle.
// COMPLETED, CANCELLED and EXCEPTION are terminal.
var loadTransitions = map[models.LoadStatus][]models.LoadStatus{
	models.LoadDraft:     {models.LoadPosted, models.LoadCancelled},
	models.LoadPosted:    {models.LoadUnposted, models.LoadAssigned, models.LoadCancelled},
	models.LoadUnposted:  {models.LoadPosted, models.LoadCancelled},
	models.LoadAssigned:  {models.LoadInTransit},
	models.LoadInTransit: {models.LoadDelivered, models.LoadException},
	models.LoadDelivered: {models.LoadCompleted},
	models.LoadCompleted: {},
	models.LoadCancelled: {},
	models.LoadException: {},
}

// shipperDrivenTargets are the only statuses a shipper may set by
// direct call. ASSIGNED is reached only through request approval;
// everything from IN_TRANSIT onward only through trip sync.
var shipperDrivenTargets = map[models.LoadStatus]bool{
	models.LoadPosted:    true,
	models.LoadUnposted:  true,
	models.LoadCancelled: true,
}

// CanTransitionLoad reports whether the edge from→to exists.
func CanTransitionLoad(from, to models.LoadStatus) bool {
	for _, t := range loadTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// LoadEditable reports whether a load may still be edited or deleted
// directly. From ASSIGNED on, the state machine is the only writer.
func LoadEditable(status models.LoadStatus) bool {
	return status == models.LoadDraft || status == models.LoadPosted || status == models.LoadUnposted
}

// RequestLoadTransition validates and applies a direct (shipper
// originated) status change on load. The caller persists the mutated
// load inside its own transaction.
func RequestLoadTransition(load *models.Load, target models.LoadStatus, actor access.Actor) error {
	v := access.Resolve(actor, access.ResourceOwners{ShipperOrgID: load.ShipperOrgID})
	if !v.IsShipper {
		return apperrors.Forbidden("Only the shipper who owns this load can change its status")
	}
	if !CanTransitionLoad(load.Status, target) {
		return apperrors.InvalidTransition(string(load.Status), string(target))
	}
	if !shipperDrivenTargets[target] {
		return apperrors.Forbidden("This status is driven by trip progress and cannot be set directly")
	}
	applyLoadTransition(load, target)
	return nil
}

// applyLoadTransition mutates load without authorization checks. Used
// by the direct path after gating and by trip sync / approval, which
// carry their own authorization.
func applyLoadTransition(load *models.Load, target models.LoadStatus) {
	load.Status = target
	if target == models.LoadPosted {
		now := time.Now().UTC()
		load.PostedAt = &now
	}
}

// transitionLoadForSync applies a machine-driven edge (approval or
// trip sync), validating only the transition table.
func transitionLoadForSync(load *models.Load, target models.LoadStatus) error {
	if load.Status == target {
		return nil
	}
	if !CanTransitionLoad(load.Status, target) {
		return apperrors.InvalidTransition(string(load.Status), string(target))
	}
	applyLoadTransition(load, target)
	return nil
}
