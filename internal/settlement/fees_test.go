package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
)

func standardSchedule() *models.FeeSchedule {
	return &models.FeeSchedule{
		BuyerFeePercentage:  decimal.NewFromInt(10),
		SellerFeePercentage: decimal.NewFromInt(5),
		MinFee:              decimal.NewFromFloat(1.00),
		MaxFee:              decimal.NewFromFloat(1000.00),
	}
}

func TestComputeFeesStandardRates(t *testing.T) {
	fees := ComputeFees(decimal.NewFromInt(2000), standardSchedule())

	if !fees.BuyerPremium.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected premium 200 got %s", fees.BuyerPremium)
	}
	if !fees.BuyerTotal.Equal(decimal.NewFromInt(2200)) {
		t.Fatalf("expected buyer total 2200 got %s", fees.BuyerTotal)
	}
	if !fees.SellerCommission.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected commission 100 got %s", fees.SellerCommission)
	}
	if !fees.SellerNet.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("expected seller net 1900 got %s", fees.SellerNet)
	}
}

func TestComputeFeesClampsPremiumToMinimum(t *testing.T) {
	// 10% of 5.00 is 0.50, below the 1.00 floor.
	fees := ComputeFees(decimal.NewFromInt(5), standardSchedule())

	if !fees.BuyerPremium.Equal(decimal.NewFromFloat(1.00)) {
		t.Fatalf("expected clamped premium 1.00 got %s", fees.BuyerPremium)
	}
	if !fees.BuyerTotal.Equal(decimal.NewFromFloat(6.00)) {
		t.Fatalf("expected buyer total 6.00 got %s", fees.BuyerTotal)
	}
}

func TestComputeFeesClampsPremiumToMaximum(t *testing.T) {
	// 10% of 50000 is 5000, above the 1000.00 cap. The seller commission is
	// not clamped.
	fees := ComputeFees(decimal.NewFromInt(50000), standardSchedule())

	if !fees.BuyerPremium.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected clamped premium 1000 got %s", fees.BuyerPremium)
	}
	if !fees.BuyerTotal.Equal(decimal.NewFromInt(51000)) {
		t.Fatalf("expected buyer total 51000 got %s", fees.BuyerTotal)
	}
	if !fees.SellerCommission.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected commission 2500 got %s", fees.SellerCommission)
	}
	if !fees.SellerNet.Equal(decimal.NewFromInt(47500)) {
		t.Fatalf("expected seller net 47500 got %s", fees.SellerNet)
	}
}

func TestComputeFeesRoundsHalfUp(t *testing.T) {
	// 10% of 1333.35 is 133.335, rounding to 133.34.
	fees := ComputeFees(decimal.NewFromFloat(1333.35), standardSchedule())

	if !fees.BuyerPremium.Equal(decimal.NewFromFloat(133.34)) {
		t.Fatalf("expected premium 133.34 got %s", fees.BuyerPremium)
	}
	// 5% of 1333.35 is 66.6675, rounding to 66.67.
	if !fees.SellerCommission.Equal(decimal.NewFromFloat(66.67)) {
		t.Fatalf("expected commission 66.67 got %s", fees.SellerCommission)
	}
}
