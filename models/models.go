package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

const (
	SplitTypeSaleRevenue         = "sale_revenue"
	SplitTypeAffiliateCommission = "affiliate_commission"
)

// Access duration policies. Value is ignored for lifetime.
const (
	AccessDurationLifetime = "lifetime"
	AccessDurationDays     = "days"
	AccessDurationMonths   = "months"
	AccessDurationYears    = "years"
)

type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode     string          `gorm:"uniqueIndex;not null" json:"order_code"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(10);not null" json:"currency"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(40)" json:"payment_method"`
	CustomerName  string          `gorm:"not null" json:"customer_name"`
	CustomerEmail string          `gorm:"not null;index" json:"customer_email"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	AffiliateCode *string         `gorm:"type:varchar(64)" json:"affiliate_code,omitempty"`
	OrderBumpData *string         `gorm:"type:jsonb" json:"order_bump_data,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type Product struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string          `gorm:"not null" json:"name"`
	Price               decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	AccessDurationType  string          `gorm:"type:varchar(20);default:'lifetime'" json:"access_duration_type"`
	AccessDurationValue int             `gorm:"default:0" json:"access_duration_value"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type Affiliate struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Code           string    `gorm:"uniqueIndex;not null" json:"code"`
	CommissionRate string    `gorm:"type:varchar(10);not null" json:"commission_rate"` // percentage string, e.g. "20%"
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RevenueSplit is an append-only ledger entry. Rows are written exactly once
// per order, on the winning pending->completed transition, and never updated.
type RevenueSplit struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string          `gorm:"type:varchar(30);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(10);not null" json:"currency"`
	Description string          `json:"description"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// CustomerAccess grants one customer access to one product. ExpiresAt is
// computed once at grant time; nil means lifetime access. Repurchases create
// additional rows rather than extending an existing one.
type CustomerAccess struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerEmail string     `gorm:"not null;index" json:"customer_email"`
	CustomerName  string     `gorm:"not null" json:"customer_name"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	GrantedAt     time.Time  `gorm:"not null" json:"granted_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
