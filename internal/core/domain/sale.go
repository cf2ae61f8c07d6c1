package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records one purchased unit of an item.
type Sale struct {
	ID        int64
	ItemID    int64
	CreatedAt time.Time
}

type Quote struct {
	Item   Item
	Demand int
	Price  decimal.Decimal
}
