package store

import (
	"context"

	"gorm.io/gorm/clause"

	"loadlink/internal/models"
)

type Loads struct {
	base *DB
}

func NewLoads(base *DB) *Loads {
	return &Loads{base: base}
}

func (s *Loads) Get(ctx context.Context, id uint) (*models.Load, error) {
	var load models.Load
	if err := s.base.conn(ctx).First(&load, id).Error; err != nil {
		return nil, err
	}
	return &load, nil
}

func (s *Loads) GetForUpdate(ctx context.Context, id uint) (*models.Load, error) {
	var load models.Load
	if err := s.base.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&load, id).Error; err != nil {
		return nil, err
	}
	return &load, nil
}

func (s *Loads) Save(ctx context.Context, load *models.Load) error {
	return s.base.conn(ctx).Save(load).Error
}

func (s *Loads) Delete(ctx context.Context, load *models.Load) error {
	return s.base.conn(ctx).Delete(load).Error
}

type Trips struct {
	base *DB
}

func NewTrips(base *DB) *Trips {
	return &Trips{base: base}
}

func (s *Trips) Get(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := s.base.conn(ctx).First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *Trips) GetForUpdate(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := s.base.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetActiveByLoad returns the non-terminal trip for a load, if any.
func (s *Trips) GetActiveByLoad(ctx context.Context, loadID uint) (*models.Trip, error) {
	var trip models.Trip
	if err := s.base.conn(ctx).
		Where("load_id = ?", loadID).
		Where("status NOT IN ?", []models.TripStatus{models.TripCompleted, models.TripCancelled}).
		First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *Trips) Create(ctx context.Context, trip *models.Trip) error {
	return s.base.conn(ctx).Create(trip).Error
}

func (s *Trips) Save(ctx context.Context, trip *models.Trip) error {
	return s.base.conn(ctx).Save(trip).Error
}

type Trucks struct {
	base *DB
}

func NewTrucks(base *DB) *Trucks {
	return &Trucks{base: base}
}

func (s *Trucks) Get(ctx context.Context, id uint) (*models.Truck, error) {
	var truck models.Truck
	if err := s.base.conn(ctx).First(&truck, id).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}
