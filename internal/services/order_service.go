package services

import (
	"context"
	"log/slog"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
)

// DeliveryConfirmation is what the dispatcher supplies when an order leaves.
// The delivery date and the items snapshot are taken by the service.
type DeliveryConfirmation struct {
	ProofURL string `json:"proofUrl"`
}

// OrderService owns the order lifecycle:
// Pending -> InProduction -> Delivered. Completed is never set here.
type OrderService interface {
	CreateOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error)
	RecordProduction(ctx context.Context, orderID string, items []models.ProductionItem) (models.Order, error)
	RecordQualityControl(ctx context.Context, orderID string, items []models.ProductionItem) (models.Order, error)
	ConfirmDelivery(ctx context.Context, orderID string, confirmation DeliveryConfirmation) (models.Order, error)
}

type orderService struct {
	store  repository.OrderStore
	lookup OrderLookup
	clock  Clock
	logger *slog.Logger
}

func NewOrderService(store repository.OrderStore, lookup OrderLookup, clock Clock, logger *slog.Logger) OrderService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{store: store, lookup: lookup, clock: clock, logger: logger}
}

func (s *orderService) CreateOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error) {
	if err := repository.InitError(s.store); err != nil {
		return models.Order{}, err
	}
	if err := ValidateDraft(draft); err != nil {
		return models.Order{}, err
	}

	now := s.clock.Now()
	order := NewOrder(draft, NewOrderID(now), now)
	if err := s.persist(ctx, "create", order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) RecordProduction(ctx context.Context, orderID string, items []models.ProductionItem) (models.Order, error) {
	current, err := s.resolve(orderID)
	if err != nil {
		return models.Order{}, err
	}

	order := ApplyProduction(current, items, s.clock.Now())
	if err := s.persist(ctx, "production", order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) RecordQualityControl(ctx context.Context, orderID string, items []models.ProductionItem) (models.Order, error) {
	current, err := s.resolve(orderID)
	if err != nil {
		return models.Order{}, err
	}

	order, err := ApplyQualityControl(current, items, s.clock.Now())
	if err != nil {
		return models.Order{}, err
	}
	if err := s.persist(ctx, "quality_control", order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) ConfirmDelivery(ctx context.Context, orderID string, confirmation DeliveryConfirmation) (models.Order, error) {
	current, err := s.resolve(orderID)
	if err != nil {
		return models.Order{}, err
	}

	order := ApplyDelivery(current, confirmation.ProofURL, s.clock.Now())
	if err := s.persist(ctx, "delivery", order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// resolve checks the backend first so a misconfigured store is reported
// even for ids the empty view cannot know.
func (s *orderService) resolve(orderID string) (models.Order, error) {
	if err := repository.InitError(s.store); err != nil {
		return models.Order{}, err
	}
	order, ok := s.lookup.Find(orderID)
	if !ok {
		return models.Order{}, notFound(orderID)
	}
	return order, nil
}

func (s *orderService) persist(ctx context.Context, action string, order models.Order) error {
	if err := s.store.Save(ctx, order); err != nil {
		s.logger.Error("failed to save order", "action", action, "order_id", order.ID, "error", err)
		return err
	}
	s.logger.Info("order saved", "action", action, "order_id", order.ID, "status", string(order.Status))
	return nil
}
