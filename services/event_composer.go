package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BumpSuffix is appended to the order id to key the synthetic sub-order of a
// bundled item.
const BumpSuffix = "-BUMP"

// EventComposer builds the webhook event drafts for a completed order.
type EventComposer struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewEventComposer(logger *zap.Logger) *EventComposer {
	return &EventComposer{
		logger: logger,
		now:    time.Now,
	}
}

// Compose returns a fresh set of drafts tied to the order's current state:
// a payment.success/product.purchased pair for the main order, plus a second
// pair keyed "<orderID>-BUMP" when the order carries a parseable bundled-item
// descriptor. A malformed descriptor is logged and skipped; it never stops
// the main pair from being emitted.
//
// Every draft resolves endpoints against the MAIN product: bundled items do
// not have endpoint registrations of their own, by design.
func (c *EventComposer) Compose(order *models.Order, product *models.Product) []models.WebhookEvent {
	timestamp := c.now().UTC().Format(time.RFC3339)

	mainData := models.WebhookPayloadData{
		OrderID:       order.ID.String(),
		Amount:        order.Amount,
		Currency:      order.Currency,
		CustomerEmail: order.CustomerEmail,
		CustomerName:  order.CustomerName,
		ProductID:     product.ID.String(),
		ProductName:   product.Name,
		PaymentMethod: order.PaymentMethod,
		Timestamp:     timestamp,
	}

	events := []models.WebhookEvent{
		c.draft(order, order.ID.String(), models.EventTypePaymentSuccess, mainData),
		c.draft(order, order.ID.String(), models.EventTypeProductPurchased, mainData),
	}

	bump, err := ParseOrderBump(order.OrderBumpData)
	if err != nil {
		c.logger.Warn("Malformed order bump descriptor, skipping bump events",
			zap.String("order_code", order.OrderCode),
			zap.Error(err),
		)
		return events
	}
	if bump == nil {
		return events
	}

	bumpData := models.WebhookPayloadData{
		OrderID:       order.ID.String() + BumpSuffix,
		Amount:        bump.EffectivePrice(),
		Currency:      order.Currency,
		CustomerEmail: order.CustomerEmail,
		CustomerName:  order.CustomerName,
		ProductID:     bump.ProductID.String(),
		ProductName:   bump.Name,
		PaymentMethod: order.PaymentMethod,
		IsOrderBump:   true,
		MainOrderID:   order.ID.String(),
		Timestamp:     timestamp,
	}

	events = append(events,
		c.draft(order, order.ID.String()+BumpSuffix, models.EventTypePaymentSuccess, bumpData),
		c.draft(order, order.ID.String()+BumpSuffix, models.EventTypeProductPurchased, bumpData),
	)
	return events
}

func (c *EventComposer) draft(order *models.Order, reference, eventType string, data models.WebhookPayloadData) models.WebhookEvent {
	payload, err := json.Marshal(models.WebhookPayload{Event: eventType, Data: data})
	if err != nil {
		// WebhookPayloadData has no unmarshalable fields; keep the draft
		// with an empty snapshot rather than dropping the event.
		c.logger.Error("Failed to marshal webhook payload",
			zap.String("order_code", order.OrderCode),
			zap.Error(err),
		)
		payload = []byte("{}")
	}
	return models.WebhookEvent{
		OrderReference: reference,
		EventType:      eventType,
		ProductID:      order.ProductID,
		Payload:        string(payload),
		Status:         order.Status,
	}
}

// ParseOrderBump decodes the serialized bundled-item descriptor attached to
// an order. It returns (nil, nil) when the order has no bump.
func ParseOrderBump(raw *string) (*models.OrderBump, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var bump models.OrderBump
	if err := json.Unmarshal([]byte(*raw), &bump); err != nil {
		return nil, fmt.Errorf("decode order bump: %w", err)
	}
	if bump.ProductID == uuid.Nil {
		return nil, fmt.Errorf("order bump missing product_id")
	}
	return &bump, nil
}
