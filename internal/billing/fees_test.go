package billing

import "testing"

func TestComputeFees(t *testing.T) {
	calc := &TariffCalculator{
		ShipperRatePerKgCents: 0.5,
		CarrierRatePerKgCents: 0.8,
		MinFeeCents:           500,
	}

	tests := []struct {
		name        string
		weightKg    float64
		wantShipper int64
		wantCarrier int64
	}{
		{"full truckload", 10000, 5000, 8000},
		{"rounding", 1001, 501, 801},
		{"small load hits the floor", 100, 500, 500},
		{"carrier above floor, shipper below", 700, 500, 560},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shipper, carrier := calc.ComputeFees(tc.weightKg)
			if shipper != tc.wantShipper {
				t.Errorf("shipper fee = %d, want %d", shipper, tc.wantShipper)
			}
			if carrier != tc.wantCarrier {
				t.Errorf("carrier fee = %d, want %d", carrier, tc.wantCarrier)
			}
		})
	}
}
