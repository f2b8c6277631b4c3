package store

import (
	"context"

	"gorm.io/gorm/clause"

	"loadlink/internal/models"
)

type Wallets struct {
	base *DB
}

func NewWallets(base *DB) *Wallets {
	return &Wallets{base: base}
}

func (s *Wallets) GetForUpdate(ctx context.Context, orgID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.base.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ?", orgID).
		First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *Wallets) Save(ctx context.Context, wallet *models.Wallet) error {
	return s.base.conn(ctx).Save(wallet).Error
}

type Settlements struct {
	base *DB
}

func NewSettlements(base *DB) *Settlements {
	return &Settlements{base: base}
}

func (s *Settlements) GetByTrip(ctx context.Context, tripID uint) (*models.TripSettlement, error) {
	var settlement models.TripSettlement
	if err := s.base.conn(ctx).Where("trip_id = ?", tripID).First(&settlement).Error; err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (s *Settlements) Create(ctx context.Context, settlement *models.TripSettlement) error {
	err := s.base.conn(ctx).Create(settlement).Error
	return mapUniqueViolation(err, "A settlement already exists for this trip")
}
