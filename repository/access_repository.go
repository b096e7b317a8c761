package repository

import (
	"context"

	"github.com/suportekambafy-lab/checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessRepository interface {
	Create(ctx context.Context, access *models.CustomerAccess) error
	FindByEmail(ctx context.Context, email string) ([]models.CustomerAccess, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type GormAccessRepository struct {
	db *gorm.DB
}

func NewGormAccessRepository(db *gorm.DB) AccessRepository {
	return &GormAccessRepository{db: db}
}

func (r *GormAccessRepository) Create(ctx context.Context, access *models.CustomerAccess) error {
	return r.db.WithContext(ctx).Create(access).Error
}

func (r *GormAccessRepository) FindByEmail(ctx context.Context, email string) ([]models.CustomerAccess, error) {
	var accesses []models.CustomerAccess
	if err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&accesses).Error; err != nil {
		return nil, err
	}
	return accesses, nil
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
