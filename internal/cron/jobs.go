package cron

import (
	"context"

	"gorm.io/gorm"
)

// txRunner runs a closure inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
