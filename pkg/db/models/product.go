package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/angelmondragon/catalog-backend/pkg/db/types"
)

// Product is the primary catalog document. The pricing reference is a weak
// pointer: the product does not own the pricing record's lifecycle beyond it.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description;not null"`
	Category      string              `gorm:"column:category;not null"`
	SubCategory   string              `gorm:"column:sub_category"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Discount      int                 `gorm:"column:discount;not null;default:0"`
	Bestseller    bool                `gorm:"column:bestseller;not null;default:false"`
	Images        dbtypes.StringArray `gorm:"column:images;type:text"`
	Sizes         dbtypes.StringArray `gorm:"column:sizes;type:text"`
	SizeStock     dbtypes.IntMap      `gorm:"column:size_stock;type:text"`
	StockQuantity *int                `gorm:"column:stock_quantity"`
	InStock       *bool               `gorm:"column:in_stock"`
	Brand         *string             `gorm:"column:brand"`
	Model         *string             `gorm:"column:model"`
	Warranty      *string             `gorm:"column:warranty"`
	SKU           *string             `gorm:"column:sku"`
	Weight        *string             `gorm:"column:weight"`
	Width         *string             `gorm:"column:width"`
	Height        *string             `gorm:"column:height"`
	Depth         *string             `gorm:"column:depth"`
	Tags          dbtypes.StringArray `gorm:"column:tags;type:text"`
	Specs         dbtypes.StringMap   `gorm:"column:specs;type:text"`
	PricingID     *uuid.UUID          `gorm:"column:pricing_id;type:uuid"`
	Pricing       *PricingRecord      `gorm:"foreignKey:PricingID;references:ID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns the identifier so the model behaves the same under
// Postgres and the sqlite dev driver.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
