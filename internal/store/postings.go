package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"loadlink/internal/models"
)

type Postings struct {
	base *DB
}

func NewPostings(base *DB) *Postings {
	return &Postings{base: base}
}

func (s *Postings) Get(ctx context.Context, id uint) (*models.TruckPosting, error) {
	var posting models.TruckPosting
	if err := s.base.conn(ctx).First(&posting, id).Error; err != nil {
		return nil, err
	}
	return &posting, nil
}

func (s *Postings) GetForUpdate(ctx context.Context, id uint) (*models.TruckPosting, error) {
	var posting models.TruckPosting
	if err := s.base.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&posting, id).Error; err != nil {
		return nil, err
	}
	return &posting, nil
}

// HasActive locks any live posting row for the truck so a concurrent
// creator serializes behind this transaction. The lookup must return
// rows rather than an aggregate: Postgres rejects FOR UPDATE on
// aggregate queries.
func (s *Postings) HasActive(ctx context.Context, truckID uint) (bool, error) {
	var rows []models.TruckPosting
	err := s.base.conn(ctx).Select("id").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("truck_id = ? AND status = ? AND expires_at > ?",
			truckID, models.PostingActive, time.Now().UTC()).
		Limit(1).
		Find(&rows).Error
	return len(rows) > 0, err
}

// ExpireStale flips postings that are still stored ACTIVE but past
// their expiry over to EXPIRED. Creation transactions run this before
// the uniqueness check so the partial unique index never trips on a
// posting that is only nominally active.
func (s *Postings) ExpireStale(ctx context.Context, truckID uint, now time.Time) error {
	return s.base.conn(ctx).Model(&models.TruckPosting{}).
		Where("truck_id = ? AND status = ? AND expires_at <= ?",
			truckID, models.PostingActive, now).
		Update("status", models.PostingExpired).Error
}

func (s *Postings) Create(ctx context.Context, posting *models.TruckPosting) error {
	err := s.base.conn(ctx).Create(posting).Error
	return mapUniqueViolation(err, "An active posting already exists for this truck")
}

func (s *Postings) Save(ctx context.Context, posting *models.TruckPosting) error {
	return s.base.conn(ctx).Save(posting).Error
}

// ListActive returns browseable postings, newest first.
func (s *Postings) ListActive(ctx context.Context) ([]models.TruckPosting, error) {
	var postings []models.TruckPosting
	err := s.base.conn(ctx).Preload("Truck").
		Where("status = ? AND expires_at > ?", models.PostingActive, time.Now().UTC()).
		Order("created_at DESC").
		Find(&postings).Error
	return postings, err
}
