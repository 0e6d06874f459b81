package enums

// NotificationType categorizes user-facing notifications.
type NotificationType string

const (
	NotificationSellRequestUpdate NotificationType = "SELL_REQUEST_UPDATE"
	NotificationAuctionStarting   NotificationType = "AUCTION_STARTING"
	NotificationBidPlaced         NotificationType = "BID_PLACED"
	NotificationAuctionWon        NotificationType = "AUCTION_WON"
	NotificationPaymentRequired   NotificationType = "PAYMENT_REQUIRED"
	NotificationPaymentConfirmed  NotificationType = "PAYMENT_CONFIRMED"
	NotificationGeneral           NotificationType = "GENERAL"
)

func (t NotificationType) String() string {
	return string(t)
}
