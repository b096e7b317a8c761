package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suportekambafy-lab/checkout-service/models"
	"github.com/suportekambafy-lab/checkout-service/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

// RevenueService writes the revenue-split ledger rows for a completed order.
type RevenueService struct {
	ledgerRepo    repository.LedgerRepository
	affiliateRepo repository.AffiliateRepository
	logger        *zap.Logger
}

func NewRevenueService(ledgerRepo repository.LedgerRepository, affiliateRepo repository.AffiliateRepository, logger *zap.Logger) *RevenueService {
	return &RevenueService{
		ledgerRepo:    ledgerRepo,
		affiliateRepo: affiliateRepo,
		logger:        logger,
	}
}

// SplitRevenue divides order.Amount between the seller and, when the order
// carries a resolvable affiliate code, the affiliate. The commission is
// rounded to 2 decimals and the seller receives the remainder, so the two
// rows always sum exactly to the order amount.
//
// An unknown or inactive affiliate code falls back to a full seller payout;
// it never fails the order.
func (s *RevenueService) SplitRevenue(ctx context.Context, order *models.Order, product *models.Product) error {
	splits := s.buildSplits(ctx, order, product)
	if err := s.ledgerRepo.CreateSplits(ctx, splits); err != nil {
		return fmt.Errorf("write revenue splits for order %s: %w", order.OrderCode, err)
	}
	return nil
}

func (s *RevenueService) buildSplits(ctx context.Context, order *models.Order, product *models.Product) []models.RevenueSplit {
	sellerSplit := models.RevenueSplit{
		UserID:      product.UserID,
		Type:        models.SplitTypeSaleRevenue,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Description: fmt.Sprintf("Sale of %s (order %s)", product.Name, order.OrderCode),
		OrderID:     order.ID,
	}

	if order.AffiliateCode == nil || *order.AffiliateCode == "" {
		return []models.RevenueSplit{sellerSplit}
	}

	affiliate, err := s.affiliateRepo.FindActiveByCode(ctx, *order.AffiliateCode)
	if err != nil {
		if errors.Is(err, repository.ErrAffiliateNotFound) {
			s.logger.Warn("Affiliate code did not resolve, full amount to seller",
				zap.String("order_code", order.OrderCode),
				zap.String("affiliate_code", *order.AffiliateCode),
			)
		} else {
			s.logger.Error("Affiliate lookup failed, full amount to seller",
				zap.String("order_code", order.OrderCode),
				zap.Error(err),
			)
		}
		return []models.RevenueSplit{sellerSplit}
	}

	rate, err := ParseCommissionRate(affiliate.CommissionRate)
	if err != nil {
		s.logger.Error("Invalid commission rate, full amount to seller",
			zap.String("affiliate_code", affiliate.Code),
			zap.String("commission_rate", affiliate.CommissionRate),
			zap.Error(err),
		)
		return []models.RevenueSplit{sellerSplit}
	}

	commission := order.Amount.Mul(rate).Round(2)
	// Seller takes the remainder of the single rounding, never a second
	// rounded multiplication: the two rows must sum exactly to the amount.
	sellerSplit.Amount = order.Amount.Sub(commission)

	affiliateSplit := models.RevenueSplit{
		UserID:      affiliate.UserID,
		Type:        models.SplitTypeAffiliateCommission,
		Amount:      commission,
		Currency:    order.Currency,
		Description: fmt.Sprintf("Commission for %s (order %s)", product.Name, order.OrderCode),
		OrderID:     order.ID,
	}

	return []models.RevenueSplit{sellerSplit, affiliateSplit}
}

// ParseCommissionRate turns a percentage string such as "20%", "12.5 %" or
// "20" into a fraction between 0 and 1.
func ParseCommissionRate(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty commission rate %q", raw)
	}
	pct, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse commission rate %q: %w", raw, err)
	}
	if pct.IsNegative() || pct.GreaterThan(oneHundred) {
		return decimal.Zero, fmt.Errorf("commission rate %q out of range", raw)
	}
	return pct.Div(oneHundred), nil
}
