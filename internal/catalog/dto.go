package catalog

import (
	"time"

	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices serialize as JSON numbers, matching what the admin UI submits.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductDTO is the catalog product payload returned to clients and written
// to the snapshot export, with the pricing record embedded when linked.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	SubCategory   string            `json:"subCategory,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	Discount      int               `json:"discount"`
	Bestseller    bool              `json:"bestseller"`
	Images        []string          `json:"images"`
	Sizes         []string          `json:"sizes"`
	SizeStock     map[string]int    `json:"sizeStock,omitempty"`
	StockQuantity *int              `json:"stockQuantity,omitempty"`
	InStock       *bool             `json:"inStock,omitempty"`
	Brand         *string           `json:"brand,omitempty"`
	Model         *string           `json:"model,omitempty"`
	Warranty      *string           `json:"warranty,omitempty"`
	SKU           *string           `json:"sku,omitempty"`
	Weight        *string           `json:"weight,omitempty"`
	Dimensions    *DimensionsDTO    `json:"dimensions,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Specs         map[string]string `json:"specs,omitempty"`
	PricingID     *uuid.UUID        `json:"pricingId,omitempty"`
	Pricing       *PricingDTO       `json:"pricing,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// DimensionsDTO groups the physical dimension fields.
type DimensionsDTO struct {
	Width  *string `json:"width,omitempty"`
	Height *string `json:"height,omitempty"`
	Depth  *string `json:"depth,omitempty"`
}

// PricingDTO exposes the per-variant pricing record.
type PricingDTO struct {
	ID        uuid.UUID         `json:"id"`
	ProductID uuid.UUID         `json:"productId"`
	BasePrice decimal.Decimal   `json:"basePrice"`
	Sizes     []VariantPriceDTO `json:"sizes"`
	UpdatedBy string            `json:"updatedBy"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// VariantPriceDTO pairs a size label with its price.
type VariantPriceDTO struct {
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Category:      product.Category,
		SubCategory:   product.SubCategory,
		Price:         product.Price,
		Discount:      product.Discount,
		Bestseller:    product.Bestseller,
		Images:        append([]string{}, product.Images...),
		Sizes:         append([]string{}, product.Sizes...),
		StockQuantity: product.StockQuantity,
		InStock:       product.InStock,
		Brand:         product.Brand,
		Model:         product.Model,
		Warranty:      product.Warranty,
		SKU:           product.SKU,
		Weight:        product.Weight,
		PricingID:     product.PricingID,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}

	if len(product.SizeStock) > 0 {
		dto.SizeStock = make(map[string]int, len(product.SizeStock))
		for label, qty := range product.SizeStock {
			dto.SizeStock[label] = qty
		}
	}
	if len(product.Tags) > 0 {
		dto.Tags = append([]string{}, product.Tags...)
	}
	if len(product.Specs) > 0 {
		dto.Specs = make(map[string]string, len(product.Specs))
		for key, value := range product.Specs {
			dto.Specs[key] = value
		}
	}
	if product.Width != nil || product.Height != nil || product.Depth != nil {
		dto.Dimensions = &DimensionsDTO{
			Width:  product.Width,
			Height: product.Height,
			Depth:  product.Depth,
		}
	}
	if product.Pricing != nil {
		dto.Pricing = NewPricingDTO(product.Pricing)
	}

	return dto
}

// NewPricingDTO builds a DTO from the persisted pricing record.
func NewPricingDTO(record *models.PricingRecord) *PricingDTO {
	sizes := make([]VariantPriceDTO, len(record.Variants))
	for i, variant := range record.Variants {
		sizes[i] = VariantPriceDTO{Size: variant.Size, Price: variant.Price}
	}
	return &PricingDTO{
		ID:        record.ID,
		ProductID: record.ProductID,
		BasePrice: record.BasePrice,
		Sizes:     sizes,
		UpdatedBy: record.UpdatedBy,
		UpdatedAt: record.UpdatedAt,
	}
}
