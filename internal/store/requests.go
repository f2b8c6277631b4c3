package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"loadlink/internal/models"
)

type Requests struct {
	base *DB
}

func NewRequests(base *DB) *Requests {
	return &Requests{base: base}
}

func (s *Requests) GetForUpdate(ctx context.Context, kind models.RequestKind, id uint) (*models.RequestCore, error) {
	db := s.base.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if kind == models.RequestKindTruck {
		var req models.TruckRequest
		if err := db.First(&req, id).Error; err != nil {
			return nil, err
		}
		return &req.RequestCore, nil
	}
	var req models.LoadRequest
	if err := db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req.RequestCore, nil
}

// HasPending checks both request tables for a live PENDING request on
// the pair. Requests past their expiry no longer count; expiry is a
// read-time fact, not a stored transition.
func (s *Requests) HasPending(ctx context.Context, loadID, truckID uint, now time.Time) (bool, error) {
	db := s.base.conn(ctx)

	var count int64
	if err := db.Model(&models.LoadRequest{}).
		Where("load_id = ? AND truck_id = ? AND status = ? AND expires_at > ?",
			loadID, truckID, models.RequestPending, now).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&models.TruckRequest{}).
		Where("load_id = ? AND truck_id = ? AND status = ? AND expires_at > ?",
			loadID, truckID, models.RequestPending, now).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExpireStale rewrites expired-but-stored-PENDING rows for the pair to
// EXPIRED, in both directions. Without this a request that lapsed
// would keep satisfying the partial unique index forever and block
// every later request for the same pair.
func (s *Requests) ExpireStale(ctx context.Context, loadID, truckID uint, now time.Time) error {
	db := s.base.conn(ctx)

	if err := db.Model(&models.LoadRequest{}).
		Where("load_id = ? AND truck_id = ? AND status = ? AND expires_at <= ?",
			loadID, truckID, models.RequestPending, now).
		Update("status", models.RequestExpired).Error; err != nil {
		return err
	}
	return db.Model(&models.TruckRequest{}).
		Where("load_id = ? AND truck_id = ? AND status = ? AND expires_at <= ?",
			loadID, truckID, models.RequestPending, now).
		Update("status", models.RequestExpired).Error
}

func (s *Requests) CreateLoadRequest(ctx context.Context, req *models.LoadRequest) error {
	err := s.base.conn(ctx).Create(req).Error
	return mapUniqueViolation(err, "A pending request already exists for this load-truck combination")
}

func (s *Requests) CreateTruckRequest(ctx context.Context, req *models.TruckRequest) error {
	err := s.base.conn(ctx).Create(req).Error
	return mapUniqueViolation(err, "A pending request already exists for this load-truck combination")
}

// MarkResponded flips the request out of PENDING with a compare-and-
// set: the WHERE clause on status means exactly one of two racing
// responders wins the row.
func (s *Requests) MarkResponded(ctx context.Context, kind models.RequestKind, id uint, status models.RequestStatus, notes string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":         status,
		"response_notes": notes,
		"responded_at":   at,
	}
	db := s.base.conn(ctx)

	var res int64
	if kind == models.RequestKindTruck {
		tx := db.Model(&models.TruckRequest{}).
			Where("id = ? AND status = ?", id, models.RequestPending).
			Updates(updates)
		if tx.Error != nil {
			return false, tx.Error
		}
		res = tx.RowsAffected
	} else {
		tx := db.Model(&models.LoadRequest{}).
			Where("id = ? AND status = ?", id, models.RequestPending).
			Updates(updates)
		if tx.Error != nil {
			return false, tx.Error
		}
		res = tx.RowsAffected
	}
	return res > 0, nil
}

// ListForOrg returns both directions of requests visible to an
// organization, newest first.
func (s *Requests) ListForOrg(ctx context.Context, orgID uint) ([]models.LoadRequest, []models.TruckRequest, error) {
	db := s.base.conn(ctx)

	var loadReqs []models.LoadRequest
	if err := db.Preload("Load").Preload("Truck").
		Where("carrier_org_id = ? OR shipper_org_id = ?", orgID, orgID).
		Order("created_at DESC").
		Find(&loadReqs).Error; err != nil {
		return nil, nil, err
	}

	var truckReqs []models.TruckRequest
	if err := db.Preload("Load").Preload("Truck").
		Where("carrier_org_id = ? OR shipper_org_id = ?", orgID, orgID).
		Order("created_at DESC").
		Find(&truckReqs).Error; err != nil {
		return nil, nil, err
	}
	return loadReqs, truckReqs, nil
}
