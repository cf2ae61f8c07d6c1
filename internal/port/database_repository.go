package port

import (
	"context"
	"time"

	"github.com/rl1809/stock-service/internal/core/domain"
)

type DatabaseRepository interface {
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)

	ListItems(ctx context.Context) ([]domain.Item, error)

	// GetItem returns domain.ErrItemNotFound when no row matches
	GetItem(ctx context.Context, id int64) (domain.Item, error)

	// UpdateItem replaces name and quantity, returns domain.ErrItemNotFound when no row matches
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)

	// DeleteItem removes the item together with its sales
	DeleteItem(ctx context.Context, id int64) error

	// PurchaseItem decrements quantity by one and records a sale in a single transaction.
	// Returns domain.ErrInsufficientStock when quantity is already zero.
	PurchaseItem(ctx context.Context, id int64, at time.Time) (domain.Sale, error)

	CountSales(ctx context.Context, itemID int64) (int, error)

	Ping(ctx context.Context) error
}
