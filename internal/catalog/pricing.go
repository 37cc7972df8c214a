package catalog

import (
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// PricingPlan is the computed shape of a product's companion pricing record.
type PricingPlan struct {
	Variants  models.VariantPriceList
	BasePrice decimal.Decimal
}

// PlanPricing decides whether a product needs a pricing record and computes
// its contents. With an explicit price map each size takes its mapped price,
// falling back to the product base price, and the record base price is the
// minimum over the list. Without explicit pricing a product with more than
// one size gets a uniform list at the product base price. A nil plan means
// no pricing record is needed.
func PlanPricing(sizes []string, explicit map[string]decimal.Decimal, basePrice decimal.Decimal) (*PricingPlan, error) {
	if len(explicit) > 0 {
		if len(sizes) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size pricing supplied without any sizes")
		}
		variants := make(models.VariantPriceList, 0, len(sizes))
		min := basePrice
		for i, size := range sizes {
			price := basePrice
			if explicitPrice, ok := explicit[size]; ok {
				price = explicitPrice
			}
			variants = append(variants, models.VariantPrice{Size: size, Price: price})
			if i == 0 || price.LessThan(min) {
				min = price
			}
		}
		return &PricingPlan{Variants: variants, BasePrice: min}, nil
	}

	if len(sizes) > 1 {
		variants := make(models.VariantPriceList, 0, len(sizes))
		for _, size := range sizes {
			variants = append(variants, models.VariantPrice{Size: size, Price: basePrice})
		}
		return &PricingPlan{Variants: variants, BasePrice: basePrice}, nil
	}

	return nil, nil
}
