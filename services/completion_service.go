package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"
	"github.com/suportekambafy-lab/checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Confirmation statuses reported by the external payment collaborator.
const (
	ConfirmationSuccess = "success"
	ConfirmationFailure = "failure"
)

// Dispatcher is the delivery side of the pipeline, split out so completion
// tests can run without a network.
type Dispatcher interface {
	Deliver(ctx context.Context, event *models.WebhookEvent) error
}

// CompletionResult reports what a confirmation did to the order.
type CompletionResult struct {
	OrderID          uuid.UUID `json:"order_id"`
	OrderCode        string    `json:"order_code"`
	Status           string    `json:"status"`
	AlreadyProcessed bool      `json:"already_processed"`
}

// CompletionService owns the order lifecycle. It guarantees the financial
// side effects of a completion run at most once per order: the transition is
// an atomic conditional update, and only the caller whose update affected a
// row proceeds to the ledger, entitlement and webhook steps.
type CompletionService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	webhookRepo repository.WebhookRepository
	revenue     *RevenueService
	access      *AccessService
	composer    *EventComposer
	dispatcher  Dispatcher
	subscribers []Subscriber
	logger      *zap.Logger
}

func NewCompletionService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	webhookRepo repository.WebhookRepository,
	revenue *RevenueService,
	access *AccessService,
	composer *EventComposer,
	dispatcher Dispatcher,
	subscribers []Subscriber,
	logger *zap.Logger,
) *CompletionService {
	return &CompletionService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		webhookRepo: webhookRepo,
		revenue:     revenue,
		access:      access,
		composer:    composer,
		dispatcher:  dispatcher,
		subscribers: subscribers,
		logger:      logger,
	}
}

// CompleteOrder applies an external payment confirmation to an order.
//
// A duplicate confirmation for an already-completed order is a defined
// no-op, not an error. Ledger and entitlement failures propagate to the
// caller so operators can be alerted; webhook delivery and subscriber
// failures are recorded and logged but never fail the completion.
func (s *CompletionService) CompleteOrder(ctx context.Context, orderID uuid.UUID, confirmedStatus string) (*CompletionResult, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusCompleted {
		return &CompletionResult{
			OrderID:          order.ID,
			OrderCode:        order.OrderCode,
			Status:           order.Status,
			AlreadyProcessed: true,
		}, nil
	}

	switch confirmedStatus {
	case ConfirmationSuccess:
		return s.complete(ctx, order)
	case ConfirmationFailure:
		if _, err := s.orderRepo.TransitionStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusFailed); err != nil {
			return nil, fmt.Errorf("fail order %s: %w", order.OrderCode, err)
		}
		return &CompletionResult{
			OrderID:   order.ID,
			OrderCode: order.OrderCode,
			Status:    models.OrderStatusFailed,
		}, nil
	default:
		// Still pending on the provider side; nothing to do yet.
		return &CompletionResult{
			OrderID:   order.ID,
			OrderCode: order.OrderCode,
			Status:    order.Status,
		}, nil
	}
}

func (s *CompletionService) complete(ctx context.Context, order *models.Order) (*CompletionResult, error) {
	won, err := s.orderRepo.TransitionStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete order %s: %w", order.OrderCode, err)
	}
	if !won {
		// A concurrent duplicate confirmation got there first, or the order
		// is already terminal. Side effects must not run twice.
		s.logger.Info("Skipping duplicate completion",
			zap.String("order_code", order.OrderCode),
		)
		status := models.OrderStatusCompleted
		if current, ferr := s.orderRepo.FindByID(ctx, order.ID); ferr == nil {
			status = current.Status
		}
		return &CompletionResult{
			OrderID:          order.ID,
			OrderCode:        order.OrderCode,
			Status:           status,
			AlreadyProcessed: true,
		}, nil
	}

	order.Status = models.OrderStatusCompleted
	result := &CompletionResult{
		OrderID:   order.ID,
		OrderCode: order.OrderCode,
		Status:    models.OrderStatusCompleted,
	}

	if err := s.processCompletion(ctx, order); err != nil {
		// The order is completed but payout/entitlement did not land. Report
		// it so the caller can alert operators; never leave this silent.
		s.logger.Error("Order completed but post-processing failed",
			zap.String("order_code", order.OrderCode),
			zap.Error(err),
		)
		return result, fmt.Errorf("order %s completed but processing failed: %w", order.OrderCode, err)
	}

	return result, nil
}

// processCompletion runs the completion side effects in their required
// order: ledger, entitlement, event composition, delivery, fan-out. The
// first two are fatal on error; everything after them is best effort.
func (s *CompletionService) processCompletion(ctx context.Context, order *models.Order) error {
	product, err := s.productRepo.FindByID(ctx, order.ProductID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", order.ProductID, err)
	}

	if err := s.revenue.SplitRevenue(ctx, order, product); err != nil {
		return err
	}

	mainPolicy := AccessPolicy{Type: product.AccessDurationType, Value: product.AccessDurationValue}
	if err := s.access.GrantAccess(ctx, order.CustomerName, order.CustomerEmail, product.ID, order.ID, mainPolicy); err != nil {
		return err
	}

	// The bundled item is granted through its own invocation with its own
	// policy; it may belong to a different owner than the main product.
	bump, err := ParseOrderBump(order.OrderBumpData)
	if err != nil {
		s.logger.Warn("Malformed order bump descriptor, skipping bump entitlement",
			zap.String("order_code", order.OrderCode),
			zap.Error(err),
		)
	} else if bump != nil {
		bumpPolicy := AccessPolicy{Type: bump.AccessDurationType, Value: bump.AccessDurationValue}
		if err := s.access.GrantAccess(ctx, order.CustomerName, order.CustomerEmail, bump.ProductID, order.ID, bumpPolicy); err != nil {
			return err
		}
	}

	s.dispatchWebhooks(ctx, order, product)
	s.notifySubscribers(ctx, order)
	return nil
}

func (s *CompletionService) dispatchWebhooks(ctx context.Context, order *models.Order, product *models.Product) {
	events := s.composer.Compose(order, product)
	for i := range events {
		event := &events[i]
		if err := s.webhookRepo.CreateEvent(ctx, event); err != nil {
			s.logger.Error("Failed to persist webhook event",
				zap.String("order_reference", event.OrderReference),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}
		if err := s.dispatcher.Deliver(ctx, event); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				s.logger.Info("No webhook endpoint configured",
					zap.String("order_reference", event.OrderReference),
					zap.String("event_type", event.EventType),
				)
				continue
			}
			// Recorded on the event row; an operator can resend from the
			// dashboard. Never rolls back ledger or entitlement.
			s.logger.Warn("Webhook delivery failed",
				zap.String("order_reference", event.OrderReference),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
		}
	}
}

func (s *CompletionService) notifySubscribers(ctx context.Context, order *models.Order) {
	if len(s.subscribers) == 0 {
		return
	}
	event := models.OrderCompletedEvent{
		OrderID:       order.ID.String(),
		OrderCode:     order.OrderCode,
		ProductID:     order.ProductID.String(),
		Amount:        order.Amount,
		Currency:      order.Currency,
		CustomerEmail: order.CustomerEmail,
		CompletedAt:   time.Now().UTC(),
	}
	for _, subscriber := range s.subscribers {
		if err := subscriber.Notify(ctx, event); err != nil {
			s.logger.Warn("Subscriber notification failed",
				zap.String("subscriber", subscriber.Name()),
				zap.String("order_code", order.OrderCode),
				zap.Error(err),
			)
		}
	}
}
