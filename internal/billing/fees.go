// Package billing implements the settlement collaborator: service fee
// computation and the idempotent wallet deduction fired when a trip
// completes. Double-entry ledger arithmetic beyond this lives outside
// the service.
package billing

import (
	"math"
	"os"
	"strconv"
)

// TariffCalculator computes flat per-kg service fees for both parties,
// with a floor so small loads still pay the platform minimum.
type TariffCalculator struct {
	ShipperRatePerKgCents float64
	CarrierRatePerKgCents float64
	MinFeeCents           int64
}

// NewTariffCalculatorFromEnv reads the tariff from env vars, falling
// back to the platform defaults.
func NewTariffCalculatorFromEnv() *TariffCalculator {
	return &TariffCalculator{
		ShipperRatePerKgCents: envFloat("FEE_SHIPPER_RATE_PER_KG_CENTS", 0.5),
		CarrierRatePerKgCents: envFloat("FEE_CARRIER_RATE_PER_KG_CENTS", 0.8),
		MinFeeCents:           int64(envFloat("FEE_MIN_CENTS", 500)),
	}
}

// ComputeFees returns the shipper and carrier service fees in cents
// for a load of the given weight.
func (c *TariffCalculator) ComputeFees(weightKg float64) (shipperCents, carrierCents int64) {
	shipperCents = int64(math.Round(weightKg * c.ShipperRatePerKgCents))
	carrierCents = int64(math.Round(weightKg * c.CarrierRatePerKgCents))
	if shipperCents < c.MinFeeCents {
		shipperCents = c.MinFeeCents
	}
	if carrierCents < c.MinFeeCents {
		carrierCents = c.MinFeeCents
	}
	return shipperCents, carrierCents
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
