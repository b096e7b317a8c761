package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"
	"github.com/suportekambafy-lab/checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessPolicy is a product's access-duration policy. Bundled items carry
// their own policy, so grants take the policy explicitly instead of reading
// it off a Product row.
type AccessPolicy struct {
	Type  string
	Value int
}

// AccessService grants customer access records for purchased products.
type AccessService struct {
	accessRepo repository.AccessRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewAccessService(accessRepo repository.AccessRepository, logger *zap.Logger) *AccessService {
	return &AccessService{
		accessRepo: accessRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// GrantAccess inserts one CustomerAccess row. The expiration is computed from
// the policy at grant time and never recomputed afterwards.
func (s *AccessService) GrantAccess(ctx context.Context, customerName, customerEmail string, productID, orderID uuid.UUID, policy AccessPolicy) error {
	grantedAt := s.now().UTC()
	access := &models.CustomerAccess{
		CustomerEmail: strings.ToLower(strings.TrimSpace(customerEmail)),
		CustomerName:  customerName,
		ProductID:     productID,
		OrderID:       orderID,
		GrantedAt:     grantedAt,
		ExpiresAt:     ExpiryFromPolicy(grantedAt, policy),
		IsActive:      true,
	}

	if err := s.accessRepo.Create(ctx, access); err != nil {
		return fmt.Errorf("grant access to product %s for order %s: %w", productID, orderID, err)
	}

	s.logger.Info("Customer access granted",
		zap.String("customer_email", access.CustomerEmail),
		zap.String("product_id", productID.String()),
		zap.String("order_id", orderID.String()),
	)
	return nil
}

// ExpiryFromPolicy evaluates an access-duration policy at time t. A nil
// result means lifetime access.
func ExpiryFromPolicy(t time.Time, policy AccessPolicy) *time.Time {
	if policy.Value <= 0 {
		return nil
	}
	var expires time.Time
	switch policy.Type {
	case models.AccessDurationDays:
		expires = t.AddDate(0, 0, policy.Value)
	case models.AccessDurationMonths:
		expires = addMonthsClamped(t, policy.Value)
	case models.AccessDurationYears:
		expires = addMonthsClamped(t, 12*policy.Value)
	default:
		// lifetime, or an unknown type treated as lifetime
		return nil
	}
	return &expires
}

// addMonthsClamped advances t by the given number of calendar months,
// clamping to the last valid day of the target month. Jan 31 + 1 month is
// Feb 28 (or 29), never Mar 3 as time.AddDate would normalize it to.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := lastDayOfMonth(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
