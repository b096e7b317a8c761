package repository

import (
	"context"
	"errors"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrWebhookEventNotFound = errors.New("webhook event not found")

// WebhookStats are the dashboard counters for one integrator.
type WebhookStats struct {
	Total        int64   `json:"total"`
	Delivered    int64   `json:"delivered"`
	Failed       int64   `json:"failed"`
	Pending      int64   `json:"pending"`
	DeliveryRate float64 `json:"delivery_rate"`
}

// WebhookRepository owns all writes to webhook_events. The dashboard reads
// the same rows; there is no separate write path.
type WebhookRepository interface {
	CreateEvent(ctx context.Context, event *models.WebhookEvent) error
	FindEventByID(ctx context.Context, id uuid.UUID) (*models.WebhookEvent, error)
	FindActiveEndpoints(ctx context.Context, productID uuid.UUID) ([]models.WebhookEndpoint, error)
	// IncrementAttempts bumps the attempt counter in the database before the
	// network call is made, so a crash mid-delivery still shows the attempt.
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
	ListRecentByIntegrator(ctx context.Context, userID uuid.UUID, limit int) ([]models.WebhookEvent, error)
	StatsByIntegrator(ctx context.Context, userID uuid.UUID) (*WebhookStats, error)
}

type GormWebhookRepository struct {
	db *gorm.DB
}

func NewGormWebhookRepository(db *gorm.DB) WebhookRepository {
	return &GormWebhookRepository{db: db}
}

func (r *GormWebhookRepository) CreateEvent(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormWebhookRepository) FindEventByID(ctx context.Context, id uuid.UUID) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWebhookEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *GormWebhookRepository) FindActiveEndpoints(ctx context.Context, productID uuid.UUID) ([]models.WebhookEndpoint, error) {
	var endpoints []models.WebhookEndpoint
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Find(&endpoints).Error; err != nil {
		return nil, err
	}
	return endpoints, nil
}

func (r *GormWebhookRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Update("webhook_attempts", gorm.Expr("webhook_attempts + 1")).Error
}

func (r *GormWebhookRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"webhook_sent":       true,
			"webhook_sent_at":    sentAt,
			"webhook_last_error": nil,
		}).Error
}

func (r *GormWebhookRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Update("webhook_last_error", cause).Error
}

func (r *GormWebhookRepository) ListRecentByIntegrator(ctx context.Context, userID uuid.UUID, limit int) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	if err := r.db.WithContext(ctx).
		Where("product_id IN (?)", r.integratorProducts(userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormWebhookRepository) StatsByIntegrator(ctx context.Context, userID uuid.UUID) (*WebhookStats, error) {
	stats := &WebhookStats{}
	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.WebhookEvent{}).
			Where("product_id IN (?)", r.integratorProducts(userID))
	}

	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("webhook_sent = ?", true).Count(&stats.Delivered).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("webhook_sent = ? AND webhook_attempts > 0", false).Count(&stats.Failed).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", models.OrderStatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}

	var completed int64
	if err := scoped().Where("status = ?", models.OrderStatusCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}
	// Zero completed orders means a rate of 0, never NaN.
	if completed > 0 {
		stats.DeliveryRate = float64(stats.Delivered) / float64(completed)
	}

	return stats, nil
}

func (r *GormWebhookRepository) integratorProducts(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.WebhookEndpoint{}).
		Select("product_id").
		Where("user_id = ?", userID)
}
