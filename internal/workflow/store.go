package workflow

import (
	"context"
	"time"

	"loadlink/internal/models"
)

// TxManager runs fn inside one storage transaction. Store calls made
// with the ctx it passes to fn join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// LoadStore is the persistence port for loads. GetForUpdate must hold
// a write lock on the row for the remainder of the transaction.
type LoadStore interface {
	Get(ctx context.Context, id uint) (*models.Load, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Load, error)
	Save(ctx context.Context, load *models.Load) error
	Delete(ctx context.Context, load *models.Load) error
}

type TripStore interface {
	Get(ctx context.Context, id uint) (*models.Trip, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Trip, error)
	GetActiveByLoad(ctx context.Context, loadID uint) (*models.Trip, error)
	Create(ctx context.Context, trip *models.Trip) error
	Save(ctx context.Context, trip *models.Trip) error
}

type TruckStore interface {
	Get(ctx context.Context, id uint) (*models.Truck, error)
}

// RequestStore persists both request directions. HasPending covers
// both tables so the duplicate-pending invariant holds regardless of
// which side proposed first.
type RequestStore interface {
	GetForUpdate(ctx context.Context, kind models.RequestKind, id uint) (*models.RequestCore, error)
	HasPending(ctx context.Context, loadID, truckID uint, now time.Time) (bool, error)

	// ExpireStale rewrites expired-but-stored-PENDING rows for the
	// pair to EXPIRED so the partial unique index stops matching
	// them. Runs inside the creation transaction, before the
	// pending check.
	ExpireStale(ctx context.Context, loadID, truckID uint, now time.Time) error
	CreateLoadRequest(ctx context.Context, req *models.LoadRequest) error
	CreateTruckRequest(ctx context.Context, req *models.TruckRequest) error

	// MarkResponded is the compare-and-set commit guard: it updates
	// the request only if its stored status is still PENDING and
	// reports whether a row was won.
	MarkResponded(ctx context.Context, kind models.RequestKind, id uint, status models.RequestStatus, notes string, at time.Time) (bool, error)
}

type PostingStore interface {
	Get(ctx context.Context, id uint) (*models.TruckPosting, error)
	GetForUpdate(ctx context.Context, id uint) (*models.TruckPosting, error)

	// HasActive must be evaluated under the creation transaction's
	// lock so two concurrent posters cannot both observe "none".
	HasActive(ctx context.Context, truckID uint) (bool, error)

	// ExpireStale flips stored-ACTIVE postings past their expiry to
	// EXPIRED before the uniqueness check.
	ExpireStale(ctx context.Context, truckID uint, now time.Time) error
	Create(ctx context.Context, posting *models.TruckPosting) error
	Save(ctx context.Context, posting *models.TruckPosting) error
}

// Settler deducts service fees for a completed trip. It must be
// idempotent per trip and is called inside the completion transaction.
type Settler interface {
	SettleTrip(ctx context.Context, trip *models.Trip) (*models.TripSettlement, error)
}

// Notifier delivers counter-party notifications. Calls happen after
// the core transaction commits and failures are logged, never
// propagated.
type Notifier interface {
	Notify(event string, payload map[string]any)
}
