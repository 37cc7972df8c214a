package catalog

import (
	"context"

	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together product and pricing-record persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithPricing loads the product with its pricing record joined.
func (r *Repository) FindByIDWithPricing(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Pricing").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveProduct replaces an existing product row in full.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// LinkPricing writes the pricing reference onto an already-created product.
func (r *Repository) LinkPricing(ctx context.Context, productID, pricingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("pricing_id", pricingID).
		Error
}

// UnlinkPricing clears a product's pricing reference.
func (r *Repository) UnlinkPricing(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("pricing_id", nil).
		Error
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ListProducts returns every product with pricing joined, newest first.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Pricing").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// CreatePricing inserts a new pricing record.
func (r *Repository) CreatePricing(ctx context.Context, record *models.PricingRecord) (*models.PricingRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpdatePricing replaces the mutable fields of an existing pricing record.
func (r *Repository) UpdatePricing(ctx context.Context, id uuid.UUID, plan *PricingPlan, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&models.PricingRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"base_price": plan.BasePrice,
			"variants":   plan.Variants,
			"updated_by": updatedBy,
		}).
		Error
}

// FindPricingByID loads one pricing record.
func (r *Repository) FindPricingByID(ctx context.Context, id uuid.UUID) (*models.PricingRecord, error) {
	var record models.PricingRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeletePricing removes a pricing record by ID.
func (r *Repository) DeletePricing(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PricingRecord{}).Error
}

// ListPricingRecords returns every pricing record.
func (r *Repository) ListPricingRecords(ctx context.Context) ([]models.PricingRecord, error) {
	var rows []models.PricingRecord
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}
