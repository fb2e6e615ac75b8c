package repository

import (
	"context"

	"github.com/georgmattin/kristlinilehekulg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilters narrows a catalog listing.
type ProductFilters struct {
	Category string
	Featured *bool
	Sort     string // price_asc, price_desc, rating, newest
}

type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ProductFilters) ([]*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
}

type gormProductRepo struct {
	db *gorm.DB
}

func NewGormProductRepo(db *gorm.DB) ProductRepository {
	return &gormProductRepo{db: db}
}

func (r *gormProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &product, nil
}

func (r *gormProductRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.ProductStatusActive).
		First(&product).Error
	if err != nil {
		return nil, classify(err)
	}
	return &product, nil
}

func (r *gormProductRepo) List(ctx context.Context, filters ProductFilters) ([]*models.Product, error) {
	query := r.db.WithContext(ctx).Where("status = ?", models.ProductStatusActive)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Featured != nil {
		query = query.Where("featured = ?", *filters.Featured)
	}

	switch filters.Sort {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "rating":
		query = query.Order("rating DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var products []*models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, classify(err)
	}
	return products, nil
}

func (r *gormProductRepo) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (r *gormProductRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *gormProductRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// IncrementDownloads bumps the sale counter by one as a single UPDATE so
// concurrent fulfillments never lose increments.
func (r *gormProductRepo) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
	if err != nil {
		return classify(err)
	}
	return nil
}
