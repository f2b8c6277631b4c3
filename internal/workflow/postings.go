package workflow

import (
	"context"
	"time"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/models"
)

// PostingEngine manages truck availability postings. The one-active-
// posting-per-truck invariant is enforced inside the creation
// transaction, backed by a partial unique index.
type PostingEngine struct {
	tx       TxManager
	postings PostingStore
	trucks   TruckStore
}

func NewPostingEngine(tx TxManager, postings PostingStore, trucks TruckStore) *PostingEngine {
	return &PostingEngine{tx: tx, postings: postings, trucks: trucks}
}

type PostingParams struct {
	TruckID         uint
	OriginCity      string
	DestinationCity string
	AvailableFrom   time.Time
	ExpiresAt       time.Time
}

func (e *PostingEngine) Create(ctx context.Context, actor access.Actor, p PostingParams) (*models.TruckPosting, error) {
	if err := access.RequirePermission(actor, access.PermPostingCreate); err != nil {
		return nil, err
	}

	truck, err := e.trucks.Get(ctx, p.TruckID)
	if err != nil {
		return nil, apperrors.NotFound("Truck not found")
	}
	if truck.CarrierOrgID != actor.OrganizationID {
		return nil, apperrors.Forbidden("You can only post your own trucks")
	}
	if truck.Approval != models.TruckApprovalApproved {
		return nil, apperrors.ValidationFailed("Truck must be approved before it can be posted")
	}
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = time.Now().UTC().Add(7 * 24 * time.Hour)
	}

	posting := &models.TruckPosting{
		TruckID:         truck.ID,
		CarrierOrgID:    truck.CarrierOrgID,
		Status:          models.PostingActive,
		OriginCity:      p.OriginCity,
		DestinationCity: p.DestinationCity,
		AvailableFrom:   p.AvailableFrom,
		ExpiresAt:       p.ExpiresAt,
	}

	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.postings.ExpireStale(ctx, truck.ID, time.Now().UTC()); err != nil {
			return err
		}
		active, err := e.postings.HasActive(ctx, truck.ID)
		if err != nil {
			return err
		}
		if active {
			return apperrors.Conflict("An active posting already exists for this truck")
		}
		return e.postings.Create(ctx, posting)
	})
	if err != nil {
		return nil, err
	}
	return posting, nil
}

// Unpost withdraws an active posting.
func (e *PostingEngine) Unpost(ctx context.Context, actor access.Actor, postingID uint) (*models.TruckPosting, error) {
	var posting *models.TruckPosting
	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		posting, err = e.postings.GetForUpdate(ctx, postingID)
		if err != nil {
			return apperrors.NotFound("Posting not found")
		}
		if posting.CarrierOrgID != actor.OrganizationID {
			return apperrors.Forbidden("You can only unpost your own trucks")
		}
		if EffectivePostingStatus(posting, time.Now().UTC()) != models.PostingActive {
			return apperrors.ValidationFailed("Only an active posting can be unposted")
		}
		posting.Status = models.PostingUnposted
		return e.postings.Save(ctx, posting)
	})
	if err != nil {
		return nil, err
	}
	return posting, nil
}

// EffectivePostingStatus folds read-time expiry into the stored
// status, mirroring request expiry: no sweeper, just the clock.
func EffectivePostingStatus(p *models.TruckPosting, now time.Time) models.PostingStatus {
	if p.Status == models.PostingActive && now.After(p.ExpiresAt) {
		return models.PostingExpired
	}
	return p.Status
}
