package services

import (
	"context"
	"fmt"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"
	"github.com/suportekambafy-lab/checkout-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateOrderRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerEmail string          `json:"customer_email" binding:"required,email"`
	AffiliateCode *string         `json:"affiliate_code,omitempty"`
	OrderBumpData *string         `json:"order_bump_data,omitempty"`
}

// OrderService creates pending orders and serves reads. Completion is owned
// by CompletionService; an order is only ever mutated through it.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	accessRepo  repository.AccessRepository
	logger      *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, accessRepo repository.AccessRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		accessRepo:  accessRepo,
		logger:      logger,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("order amount must be positive")
	}

	order := &models.Order{
		OrderCode:     generateOrderCode(),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ProductID:     req.ProductID,
		AffiliateCode: req.AffiliateCode,
		OrderBumpData: req.OrderBumpData,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("Order created",
		zap.String("order_code", order.OrderCode),
		zap.String("product_id", order.ProductID.String()),
	)
	return order, nil
}

func (s *OrderService) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	return s.orderRepo.FindByCode(ctx, code)
}

func (s *OrderService) ListCustomerAccess(ctx context.Context, email string) ([]models.CustomerAccess, error) {
	return s.accessRepo.FindByEmail(ctx, email)
}

func generateOrderCode() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}
