package workflow

import (
	"context"
	"fmt"
	"time"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

const (
	DefaultRequestTTL = 24 * time.Hour
	MaxRequestTTL     = 168 * time.Hour
)

// RespondAction is the responder's decision on a pending request.
type RespondAction string

const (
	ActionApprove RespondAction = "APPROVE"
	ActionReject  RespondAction = "REJECT"
)

// CreateParams carries the caller-supplied fields of a new request.
// ExpiresIn of zero means the default TTL.
type CreateParams struct {
	LoadID    uint
	TruckID   uint
	Notes     string
	ExpiresIn time.Duration
}

// RespondResult is what a successful response returns: the mutated
// request, plus the trip and load that approval provisioned.
type RespondResult struct {
	RequestID uint
	Kind      models.RequestKind
	Request   *models.RequestCore
	Trip      *models.Trip
	Load      *models.Load
}

// RequestEngine implements the PENDING→APPROVED/REJECTED/EXPIRED
// protocol for both request directions. Approval atomically creates
// the trip and reassigns the load.
type RequestEngine struct {
	tx       TxManager
	requests RequestStore
	loads    LoadStore
	trucks   TruckStore
	trips    TripStore
	notifier Notifier
	now      func() time.Time
}

func NewRequestEngine(tx TxManager, requests RequestStore, loads LoadStore, trucks TruckStore, trips TripStore, notifier Notifier) *RequestEngine {
	return &RequestEngine{
		tx:       tx,
		requests: requests,
		loads:    loads,
		trucks:   trucks,
		trips:    trips,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateLoadRequest is the carrier-initiated direction: a carrier
// proposes one of its own approved trucks for a posted load.
func (e *RequestEngine) CreateLoadRequest(ctx context.Context, actor access.Actor, p CreateParams) (*models.LoadRequest, error) {
	if err := access.RequirePermission(actor, access.PermRequestLoad); err != nil {
		return nil, err
	}

	load, truck, err := e.lookupPair(ctx, p.LoadID, p.TruckID)
	if err != nil {
		return nil, err
	}
	if truck.CarrierOrgID != actor.OrganizationID {
		return nil, apperrors.Forbidden("You can only request loads for your own trucks")
	}
	if load.Status != models.LoadPosted {
		return nil, apperrors.ValidationFailed(fmt.Sprintf("Cannot request a load with status %s", load.Status))
	}
	if truck.Approval != models.TruckApprovalApproved {
		return nil, apperrors.ValidationFailed("Truck must be approved before requesting loads")
	}

	ttl, err := normalizeTTL(p.ExpiresIn)
	if err != nil {
		return nil, err
	}

	req := &models.LoadRequest{RequestCore: models.RequestCore{
		LoadID:        load.ID,
		TruckID:       truck.ID,
		CarrierOrgID:  truck.CarrierOrgID,
		ShipperOrgID:  load.ShipperOrgID,
		RequestedByID: actor.UserID,
		Status:        models.RequestPending,
		Notes:         p.Notes,
		ExpiresAt:     e.now().Add(ttl),
	}}

	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.guardNoPending(ctx, load.ID, truck.ID); err != nil {
			return err
		}
		return e.requests.CreateLoadRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Notify("request.created", map[string]any{
		"kind":      models.RequestKindLoad,
		"load_id":   load.ID,
		"truck_id":  truck.ID,
		"recipient": load.ShipperOrgID,
	})
	return req, nil
}

// CreateTruckRequest is the shipper-initiated direction: a shipper
// proposes an approved truck for one of its own posted loads.
func (e *RequestEngine) CreateTruckRequest(ctx context.Context, actor access.Actor, p CreateParams) (*models.TruckRequest, error) {
	if err := access.RequirePermission(actor, access.PermRequestTruck); err != nil {
		return nil, err
	}

	load, truck, err := e.lookupPair(ctx, p.LoadID, p.TruckID)
	if err != nil {
		return nil, err
	}
	if !access.CanRequestTruck(actor, load.ShipperOrgID) {
		return nil, apperrors.Forbidden("You can only request trucks for your own loads")
	}
	if load.Status != models.LoadPosted {
		return nil, apperrors.ValidationFailed(fmt.Sprintf("Cannot request a truck for load with status %s", load.Status))
	}
	if truck.Approval != models.TruckApprovalApproved {
		return nil, apperrors.ValidationFailed("Truck must be approved before requesting loads")
	}

	ttl, err := normalizeTTL(p.ExpiresIn)
	if err != nil {
		return nil, err
	}

	req := &models.TruckRequest{RequestCore: models.RequestCore{
		LoadID:        load.ID,
		TruckID:       truck.ID,
		CarrierOrgID:  truck.CarrierOrgID,
		ShipperOrgID:  load.ShipperOrgID,
		RequestedByID: actor.UserID,
		Status:        models.RequestPending,
		Notes:         p.Notes,
		ExpiresAt:     e.now().Add(ttl),
	}}

	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.guardNoPending(ctx, load.ID, truck.ID); err != nil {
			return err
		}
		return e.requests.CreateTruckRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Notify("request.created", map[string]any{
		"kind":      models.RequestKindTruck,
		"load_id":   load.ID,
		"truck_id":  truck.ID,
		"recipient": truck.CarrierOrgID,
	})
	return req, nil
}

// Respond approves or rejects a pending request. Approval runs the
// side-effecting transaction: request→APPROVED, trip created at
// ASSIGNED, load reassigned to ASSIGNED. Rejection touches only the
// request.
func (e *RequestEngine) Respond(ctx context.Context, actor access.Actor, kind models.RequestKind, requestID uint, action RespondAction, notes string) (*RespondResult, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, apperrors.ValidationFailed("Invalid action: must be APPROVE or REJECT")
	}
	if err := access.RequirePermission(actor, access.PermRequestRespond); err != nil {
		return nil, err
	}

	result := &RespondResult{RequestID: requestID, Kind: kind}
	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		req, err := e.requests.GetForUpdate(ctx, kind, requestID)
		if err != nil {
			return apperrors.NotFound("Request not found")
		}

		// The responding side is the opposite of the initiator: the
		// shipper for a load request, the carrier for a truck request.
		responderOrg := req.ShipperOrgID
		if kind == models.RequestKindTruck {
			responderOrg = req.CarrierOrgID
		}
		if !access.CanApproveRequests(actor, responderOrg) {
			return apperrors.Forbidden("You are not authorized to respond to this request")
		}

		now := e.now()
		if req.Status != models.RequestPending {
			return apperrors.ValidationFailed(fmt.Sprintf("Request has already been %s", pastTense(req.Status)))
		}
		if now.After(req.ExpiresAt) {
			return apperrors.PreconditionFailed("Request has expired")
		}

		newStatus := models.RequestApproved
		if action == ActionReject {
			newStatus = models.RequestRejected
		}

		won, err := e.requests.MarkResponded(ctx, kind, requestID, newStatus, notes, now)
		if err != nil {
			return err
		}
		if !won {
			return apperrors.ValidationFailed("Request has already been responded to")
		}

		req.Status = newStatus
		req.ResponseNotes = notes
		req.RespondedAt = &now
		result.Request = req

		if action == ActionReject {
			return nil
		}

		load, err := e.loads.GetForUpdate(ctx, req.LoadID)
		if err != nil {
			return apperrors.NotFound("Load not found")
		}
		if err := transitionLoadForSync(load, models.LoadAssigned); err != nil {
			return err
		}

		trip := &models.Trip{
			Reference:    models.NewTripReference(),
			LoadID:       req.LoadID,
			TruckID:      req.TruckID,
			CarrierOrgID: req.CarrierOrgID,
			ShipperOrgID: req.ShipperOrgID,
			Status:       models.TripAssigned,
		}
		if err := e.trips.Create(ctx, trip); err != nil {
			return err
		}
		if err := e.loads.Save(ctx, load); err != nil {
			return err
		}

		result.Trip = trip
		result.Load = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := "request.rejected"
	if action == ActionApprove {
		event = "request.approved"
	}
	counterparty := result.Request.CarrierOrgID
	if kind == models.RequestKindTruck {
		counterparty = result.Request.ShipperOrgID
	}
	e.notifier.Notify(event, map[string]any{
		"kind":       kind,
		"request_id": requestID,
		"recipient":  counterparty,
	})
	return result, nil
}

// IsExpired reports whether a pending request has passed its expiry.
// Expiry is evaluated wherever a request is read; there is no sweeper.
func IsExpired(req *models.RequestCore, now time.Time) bool {
	return req.Status == models.RequestPending && now.After(req.ExpiresAt)
}

// EffectiveStatus is the status a reader should report, folding in
// read-time expiry.
func EffectiveStatus(req *models.RequestCore, now time.Time) string {
	if IsExpired(req, now) {
		return string(models.RequestExpired)
	}
	return string(req.Status)
}

func (e *RequestEngine) lookupPair(ctx context.Context, loadID, truckID uint) (*models.Load, *models.Truck, error) {
	load, err := e.loads.Get(ctx, loadID)
	if err != nil {
		return nil, nil, apperrors.NotFound("Load not found")
	}
	truck, err := e.trucks.Get(ctx, truckID)
	if err != nil {
		return nil, nil, apperrors.NotFound("Truck not found")
	}
	return load, truck, nil
}

// guardNoPending enforces the at-most-one-PENDING invariant across
// both request directions inside the creation transaction. The unique
// indexes in config.InitDB close the remaining race window.
func (e *RequestEngine) guardNoPending(ctx context.Context, loadID, truckID uint) error {
	now := e.now()
	if err := e.requests.ExpireStale(ctx, loadID, truckID, now); err != nil {
		return err
	}
	pending, err := e.requests.HasPending(ctx, loadID, truckID, now)
	if err != nil {
		return err
	}
	if pending {
		return apperrors.Conflict("A pending request already exists for this load-truck combination")
	}
	return nil
}

func normalizeTTL(d time.Duration) (time.Duration, error) {
	if d == 0 {
		return DefaultRequestTTL, nil
	}
	if d < time.Hour || d > MaxRequestTTL {
		return 0, apperrors.ValidationFailed("Request expiry must be between 1 and 168 hours")
	}
	return d, nil
}

func pastTense(s models.RequestStatus) string {
	switch s {
	case models.RequestApproved:
		return "approved"
	case models.RequestRejected:
		return "rejected"
	default:
		return "responded to"
	}
}
