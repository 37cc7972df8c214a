package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VariantPrice pairs a variant label with its price.
type VariantPrice struct {
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

// VariantPriceList is the ordered per-variant price list, stored as JSON.
type VariantPriceList []VariantPrice

func (l *VariantPriceList) Scan(src any) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("VariantPriceList: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, l); err != nil {
		return fmt.Errorf("VariantPriceList: decode: %w", err)
	}
	return nil
}

func (l VariantPriceList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// PricingRecord is the secondary per-variant pricing document for one
// product. Base price always equals the minimum over Variants.
type PricingRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	BasePrice decimal.Decimal  `gorm:"column:base_price;type:numeric(12,2);not null"`
	Variants  VariantPriceList `gorm:"column:variants;type:text;not null"`
	UpdatedBy string           `gorm:"column:updated_by;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (PricingRecord) TableName() string { return "pricing_records" }

func (r *PricingRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
