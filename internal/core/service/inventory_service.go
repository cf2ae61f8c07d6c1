package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/stock-service/internal/core/domain"
	"github.com/rl1809/stock-service/internal/port"
)

type InventoryService struct {
	db     port.DatabaseRepository
	cache  port.CacheRepository
	pricer domain.Pricer
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewInventoryService(db port.DatabaseRepository, cache port.CacheRepository, pricer domain.Pricer, log logrus.FieldLogger) *InventoryService {
	return &InventoryService{
		db:     db,
		cache:  cache,
		pricer: pricer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *InventoryService) CreateItem(ctx context.Context, name string, quantity int) (domain.Item, error) {
	name, err := domain.NormalizeItem(name, quantity)
	if err != nil {
		return domain.Item{}, err
	}

	now := s.now()
	item, err := s.db.CreateItem(ctx, domain.Item{
		Name:      name,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}

	s.log.WithFields(logrus.Fields{"item_id": item.ID, "quantity": item.Quantity}).Info("item created")
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.db.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	return s.db.GetItem(ctx, id)
}

func (s *InventoryService) UpdateItem(ctx context.Context, id int64, name string, quantity int) (domain.Item, error) {
	name, err := domain.NormalizeItem(name, quantity)
	if err != nil {
		return domain.Item{}, err
	}

	item, err := s.db.UpdateItem(ctx, domain.Item{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return domain.Item{}, err
	}

	s.log.WithFields(logrus.Fields{"item_id": id, "quantity": quantity}).Info("item updated")
	return item, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.db.DeleteItem(ctx, id); err != nil {
		return err
	}

	if err := s.cache.ForgetItem(ctx, id); err != nil {
		s.log.WithError(err).WithField("item_id", id).Warn("failed to evict cached demand")
	}

	s.log.WithField("item_id", id).Info("item deleted")
	return nil
}

// Purchase takes one unit of the item out of stock and records the sale.
// A non-empty requestID makes the call idempotent while the cache holds the key.
func (s *InventoryService) Purchase(ctx context.Context, id int64, requestID string) (domain.Sale, error) {
	var idempotencyKey string
	if requestID != "" {
		idempotencyKey = fmt.Sprintf("purchase:%d:%s", id, requestID)

		ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return domain.Sale{}, domain.ErrDuplicateRequest
		}
	}

	sale, err := s.db.PurchaseItem(ctx, id, s.now())
	if err != nil {
		if idempotencyKey != "" {
			if clearErr := s.cache.ClearIdempotency(ctx, idempotencyKey); clearErr != nil {
				s.log.WithError(clearErr).WithField("key", idempotencyKey).Warn("failed to release idempotency key")
			}
		}
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrInsufficientStock) {
			return domain.Sale{}, err
		}
		return domain.Sale{}, fmt.Errorf("purchase item: %w", err)
	}

	if err := s.cache.InvalidateDemand(ctx, id); err != nil {
		s.log.WithError(err).WithField("item_id", id).Warn("failed to invalidate cached demand")
	}

	s.log.WithFields(logrus.Fields{"item_id": id, "sale_id": sale.ID}).Info("item purchased")
	return sale, nil
}

// Quote prices an item from its recorded sales. Demand is read through the cache
// and falls back to counting sales in the database.
func (s *InventoryService) Quote(ctx context.Context, id int64) (domain.Quote, error) {
	item, err := s.db.GetItem(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}

	demand, err := s.demand(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}

	return domain.Quote{
		Item:   item,
		Demand: demand,
		Price:  s.pricer.Price(demand, item.Quantity),
	}, nil
}

func (s *InventoryService) Pricer() domain.Pricer {
	return s.pricer
}

// Ping checks the database, the cache is optional and only logged.
func (s *InventoryService) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := s.cache.Ping(ctx); err != nil {
		s.log.WithError(err).Warn("cache ping failed")
	}
	return nil
}

func (s *InventoryService) demand(ctx context.Context, id int64) (int, error) {
	count, ok, err := s.cache.Demand(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("item_id", id).Warn("demand cache lookup failed")
	}
	if err == nil && ok {
		return count, nil
	}

	// A purchase committed after the version read bumps it, so the count
	// below is never cached over a newer sale.
	version, versionErr := s.cache.DemandVersion(ctx, id)
	if versionErr != nil {
		s.log.WithError(versionErr).WithField("item_id", id).Warn("demand version lookup failed")
	}

	count, err = s.db.CountSales(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}

	if versionErr != nil {
		return count, nil
	}
	if err := s.cache.SetDemand(ctx, id, count, version); err != nil {
		s.log.WithError(err).WithField("item_id", id).Warn("failed to cache demand")
	}
	return count, nil
}
