package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
)

var oneHundred = decimal.NewFromInt(100)

// Fees holds the computed charges for one sold lot. All values are rounded
// half-up to two decimals.
type Fees struct {
	WinningAmount    decimal.Decimal
	BuyerPremium     decimal.Decimal
	BuyerTotal       decimal.Decimal
	SellerCommission decimal.Decimal
	SellerNet        decimal.Decimal
}

// ComputeFees applies the fee schedule to a winning amount. The buyer premium
// is clamped to the schedule's [MinFee, MaxFee] band; the seller commission
// is not.
func ComputeFees(win decimal.Decimal, schedule *models.FeeSchedule) Fees {
	premium := win.Mul(schedule.BuyerFeePercentage).Div(oneHundred).Round(2)
	if premium.LessThan(schedule.MinFee) {
		premium = schedule.MinFee
	}
	if premium.GreaterThan(schedule.MaxFee) {
		premium = schedule.MaxFee
	}
	commission := win.Mul(schedule.SellerFeePercentage).Div(oneHundred).Round(2)

	return Fees{
		WinningAmount:    win,
		BuyerPremium:     premium,
		BuyerTotal:       win.Add(premium).Round(2),
		SellerCommission: commission,
		SellerNet:        win.Sub(commission).Round(2),
	}
}
