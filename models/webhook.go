package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypePaymentSuccess   = "payment.success"
	EventTypeProductPurchased = "product.purchased"
)

// WebhookEndpoint is an integrator-registered delivery target for one product.
type WebhookEndpoint struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `json:"name"`
	URL       string    `gorm:"not null" json:"url"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WebhookEvent is one composed event plus its delivery bookkeeping.
// OrderReference is the real order id, or "<order_id>-BUMP" for the bundled
// item of that order. ProductID is the endpoint-resolution target and is
// always the MAIN product, also for bump events: bundled items do not carry
// endpoint registrations of their own.
type WebhookEvent struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderReference   string     `gorm:"not null;index" json:"order_reference"`
	EventType        string     `gorm:"type:varchar(40);not null" json:"event_type"`
	ProductID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Payload          string     `gorm:"type:jsonb;not null" json:"payload"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	WebhookSent      bool       `gorm:"default:false" json:"webhook_sent"`
	WebhookSentAt    *time.Time `json:"webhook_sent_at,omitempty"`
	WebhookAttempts  int        `gorm:"default:0" json:"webhook_attempts"`
	WebhookLastError *string    `json:"webhook_last_error,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// WebhookPayload is the JSON body POSTed to integrator endpoints.
type WebhookPayload struct {
	Event string             `json:"event"`
	Data  WebhookPayloadData `json:"data"`
}

type WebhookPayloadData struct {
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	PaymentMethod string          `json:"payment_method"`
	IsOrderBump   bool            `json:"is_order_bump,omitempty"`
	MainOrderID   string          `json:"main_order_id,omitempty"`
	Timestamp     string          `json:"timestamp"`
}

// OrderBump is the parsed bundled-item descriptor stored on an order.
// It is parsed at the boundary (parse-or-skip); a descriptor that fails to
// parse is logged and dropped, never threaded through as a raw map.
type OrderBump struct {
	ProductID           uuid.UUID       `json:"product_id"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	DiscountedPrice     decimal.Decimal `json:"discounted_price"`
	AccessDurationType  string          `json:"access_duration_type"`
	AccessDurationValue int             `json:"access_duration_value"`
}

// EffectivePrice is the amount a bump event carries: the discount-adjusted
// price wins over the list price whenever it is set.
func (b OrderBump) EffectivePrice() decimal.Decimal {
	if b.DiscountedPrice.IsPositive() {
		return b.DiscountedPrice
	}
	return b.Price
}

// OrderCompletedEvent is the internal fan-out message handed to downstream
// subscribers (Kafka, SNS) after an order completes.
type OrderCompletedEvent struct {
	OrderID       string          `json:"order_id"`
	OrderCode     string          `json:"order_code"`
	ProductID     string          `json:"product_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customer_email"`
	CompletedAt   time.Time       `json:"completed_at"`
}
