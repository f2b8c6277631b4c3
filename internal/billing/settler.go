package billing

import (
	"context"

	"loadlink/internal/apperrors"
	"loadlink/internal/models"
	"loadlink/internal/workflow"
)

// WalletStore is the persistence port for organization balances.
// GetForUpdate must hold a row lock so concurrent deductions cannot
// both read the same balance.
type WalletStore interface {
	GetForUpdate(ctx context.Context, orgID uint) (*models.Wallet, error)
	Save(ctx context.Context, wallet *models.Wallet) error
}

type SettlementStore interface {
	GetByTrip(ctx context.Context, tripID uint) (*models.TripSettlement, error)
	Create(ctx context.Context, s *models.TripSettlement) error
}

// Service implements workflow.Settler. It runs inside the trip
// completion transaction: an insufficient balance fails the whole
// transition, never leaving a COMPLETED trip unsettled.
type Service struct {
	calc        *TariffCalculator
	wallets     WalletStore
	settlements SettlementStore
	loads       workflow.LoadStore
}

func NewService(calc *TariffCalculator, wallets WalletStore, settlements SettlementStore, loads workflow.LoadStore) *Service {
	return &Service{calc: calc, wallets: wallets, settlements: settlements, loads: loads}
}

// SettleTrip deducts both parties' service fees exactly once. A trip
// that already has a settlement row is returned as-is.
func (s *Service) SettleTrip(ctx context.Context, trip *models.Trip) (*models.TripSettlement, error) {
	if existing, err := s.settlements.GetByTrip(ctx, trip.ID); err == nil && existing != nil {
		return existing, nil
	}

	load, err := s.loads.Get(ctx, trip.LoadID)
	if err != nil {
		return nil, apperrors.NotFound("Load not found")
	}
	shipperFee, carrierFee := s.calc.ComputeFees(load.WeightKg)

	if err := s.deduct(ctx, trip.ShipperOrgID, shipperFee); err != nil {
		return nil, err
	}
	if err := s.deduct(ctx, trip.CarrierOrgID, carrierFee); err != nil {
		return nil, err
	}

	settlement := &models.TripSettlement{
		TripID:          trip.ID,
		ShipperFeeCents: shipperFee,
		CarrierFeeCents: carrierFee,
	}
	if err := s.settlements.Create(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *Service) deduct(ctx context.Context, orgID uint, amountCents int64) error {
	wallet, err := s.wallets.GetForUpdate(ctx, orgID)
	if err != nil {
		return apperrors.SettlementFailed("No wallet found for organization")
	}
	if wallet.BalanceCents < amountCents {
		return apperrors.SettlementFailed("Insufficient balance to settle trip service fees")
	}
	wallet.BalanceCents -= amountCents
	return s.wallets.Save(ctx, wallet)
}
