package repository

import (
	"context"
	"errors"

	"github.com/suportekambafy-lab/checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAffiliateNotFound = errors.New("affiliate not found")

// LedgerRepository appends revenue-split rows. The ledger is append-only;
// there is deliberately no update or delete.
type LedgerRepository interface {
	CreateSplits(ctx context.Context, splits []models.RevenueSplit) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RevenueSplit, error)
}

type AffiliateRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Affiliate, error)
}

type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) LedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) CreateSplits(ctx context.Context, splits []models.RevenueSplit) error {
	return r.db.WithContext(ctx).Create(&splits).Error
}

func (r *GormLedgerRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RevenueSplit, error) {
	var splits []models.RevenueSplit
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&splits).Error; err != nil {
		return nil, err
	}
	return splits, nil
}

type GormAffiliateRepository struct {
	db *gorm.DB
}

func NewGormAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

func (r *GormAffiliateRepository) FindActiveByCode(ctx context.Context, code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	if err := r.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}
	return &affiliate, nil
}
