package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"
	"github.com/suportekambafy-lab/checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured means no active endpoint is registered for the event's
// product. It is a configuration gap, not a delivery failure: no attempt is
// recorded for it.
var ErrNotConfigured = errors.New("no webhook endpoint configured")

// ResendResult is the operator-facing outcome of a manual resend.
type ResendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WebhookDispatcher delivers composed events to integrator endpoints and
// records every outcome on the event row. There is no automatic retry loop:
// failed deliveries stay visible on the dashboard until an operator resends
// them by hand.
type WebhookDispatcher struct {
	webhookRepo repository.WebhookRepository
	client      *http.Client
	logger      *zap.Logger
	now         func() time.Time
}

func NewWebhookDispatcher(webhookRepo repository.WebhookRepository, timeout time.Duration, logger *zap.Logger) *WebhookDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDispatcher{
		webhookRepo: webhookRepo,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
		now:         time.Now,
	}
}

// Deliver attempts delivery of one event to every active endpoint registered
// for its product. The attempt counter is bumped in the database before the
// first network call, so a crash mid-delivery still shows the attempt.
func (d *WebhookDispatcher) Deliver(ctx context.Context, event *models.WebhookEvent) error {
	endpoints, err := d.webhookRepo.FindActiveEndpoints(ctx, event.ProductID)
	if err != nil {
		return fmt.Errorf("resolve endpoints for event %s: %w", event.ID, err)
	}
	if len(endpoints) == 0 {
		return ErrNotConfigured
	}

	if err := d.webhookRepo.IncrementAttempts(ctx, event.ID); err != nil {
		return fmt.Errorf("record delivery attempt for event %s: %w", event.ID, err)
	}

	var lastErr error
	delivered := false
	for _, endpoint := range endpoints {
		if err := d.post(ctx, endpoint.URL, event.Payload); err != nil {
			lastErr = err
			d.logger.Warn("Webhook delivery failed",
				zap.String("event_id", event.ID.String()),
				zap.String("endpoint_url", endpoint.URL),
				zap.Error(err),
			)
			continue
		}
		delivered = true
	}

	if delivered {
		if err := d.webhookRepo.MarkSent(ctx, event.ID, d.now().UTC()); err != nil {
			return fmt.Errorf("mark event %s sent: %w", event.ID, err)
		}
		d.logger.Info("Webhook delivered",
			zap.String("event_id", event.ID.String()),
			zap.String("event_type", event.EventType),
			zap.String("order_reference", event.OrderReference),
		)
		return nil
	}

	if err := d.webhookRepo.MarkFailed(ctx, event.ID, lastErr.Error()); err != nil {
		return fmt.Errorf("mark event %s failed: %w", event.ID, err)
	}
	return lastErr
}

// Resend re-attempts a previously recorded event. It reuses the same attempt
// and status recording path as the original delivery, so the history stays
// consistent; an already-sent event is re-attempted, never silently skipped.
func (d *WebhookDispatcher) Resend(ctx context.Context, eventID uuid.UUID) ResendResult {
	event, err := d.webhookRepo.FindEventByID(ctx, eventID)
	if err != nil {
		return ResendResult{Success: false, Error: err.Error()}
	}

	if err := d.Deliver(ctx, event); err != nil {
		return ResendResult{Success: false, Error: err.Error()}
	}
	return ResendResult{Success: true}
}

func (d *WebhookDispatcher) post(ctx context.Context, url, payload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint responded %s", resp.Status)
	}
	return nil
}
