package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/catalog-backend/internal/catalog"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PricingReconcileJobParams configures the scheduled pricing repair work.
type PricingReconcileJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Repo   *catalog.Repository
}

// NewPricingReconcileJob constructs the pricing reconciliation cron job. It
// is the compensating path for the best-effort pricing writes: requests
// never roll back the product when a pricing step fails, so this job walks
// the catalog and repairs what the write path left behind.
func NewPricingReconcileJob(params PricingReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &pricingReconcileJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repo,
	}, nil
}

type pricingReconcileJob struct {
	logg *logger.Logger
	db   txRunner
	repo *catalog.Repository
}

func (j *pricingReconcileJob) Name() string { return "pricing-reconcile" }

func (j *pricingReconcileJob) Run(ctx context.Context) error {
	products, err := j.repo.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	var errs []error
	repaired := 0
	for i := range products {
		product := &products[i]
		productCtx := j.logg.WithProductID(ctx, product.ID.String())
		changed, err := j.reconcileProduct(productCtx, product)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", product.ID, err))
			continue
		}
		if changed {
			repaired++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"scanned": len(products), "repaired": repaired})
	j.logg.Info(logCtx, "pricing reconcile loop complete")
	return multierr.Combine(errs...)
}

func (j *pricingReconcileJob) reconcileProduct(ctx context.Context, product *models.Product) (bool, error) {
	changed := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repo.WithTx(tx)

		if j.repairStock(ctx, product) {
			if _, err := repo.SaveProduct(ctx, product); err != nil {
				return fmt.Errorf("save stock repair: %w", err)
			}
			changed = true
		}

		if product.PricingID == nil {
			created, err := j.createMissingPricing(ctx, repo, product)
			if err != nil {
				return err
			}
			changed = changed || created
			return nil
		}

		repairedRecord, err := j.repairLinkedPricing(ctx, repo, product)
		if err != nil {
			return err
		}
		changed = changed || repairedRecord
		return nil
	})
	return changed, err
}

// repairStock restores the aggregate-equals-sum invariant for products that
// track per-variant stock.
func (j *pricingReconcileJob) repairStock(ctx context.Context, product *models.Product) bool {
	if product.SizeStock == nil {
		return false
	}
	sum := product.SizeStock.Sum()
	if product.StockQuantity != nil && *product.StockQuantity == sum {
		return false
	}
	product.StockQuantity, product.InStock = catalog.ResolveStock(nil, product.SizeStock)
	j.logg.Warn(ctx, "stock.aggregate_mismatch repaired from size stock")
	return true
}

// createMissingPricing backfills the uniform record a multi-size product
// should have received when its create-time pricing step was swallowed.
func (j *pricingReconcileJob) createMissingPricing(ctx context.Context, repo *catalog.Repository, product *models.Product) (bool, error) {
	plan, err := catalog.PlanPricing(product.Sizes, nil, product.Price)
	if err != nil || plan == nil {
		return false, err
	}

	record := &models.PricingRecord{
		ProductID: product.ID,
		BasePrice: plan.BasePrice,
		Variants:  plan.Variants,
		UpdatedBy: catalog.SystemActor,
	}
	if _, err := repo.CreatePricing(ctx, record); err != nil {
		return false, fmt.Errorf("create missing pricing: %w", err)
	}
	if err := repo.LinkPricing(ctx, product.ID, record.ID); err != nil {
		return false, fmt.Errorf("link repaired pricing: %w", err)
	}
	product.PricingID = &record.ID
	j.logg.Warn(ctx, "pricing.missing_record repaired")
	return true, nil
}

func (j *pricingReconcileJob) repairLinkedPricing(ctx context.Context, repo *catalog.Repository, product *models.Product) (bool, error) {
	record, err := repo.FindPricingByID(ctx, *product.PricingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := repo.UnlinkPricing(ctx, product.ID); err != nil {
				return false, fmt.Errorf("unlink dangling pricing: %w", err)
			}
			product.PricingID = nil
			j.logg.Warn(ctx, "pricing.dangling_reference unlinked")
			return true, nil
		}
		return false, fmt.Errorf("load pricing record: %w", err)
	}

	offered := make(map[string]struct{}, len(product.Sizes))
	for _, size := range product.Sizes {
		offered[size] = struct{}{}
	}
	kept := make(models.VariantPriceList, 0, len(record.Variants))
	for _, variant := range record.Variants {
		if _, ok := offered[variant.Size]; ok {
			kept = append(kept, variant)
		}
	}

	if len(kept) == 0 && len(record.Variants) > 0 {
		// the product dropped every priced variant; the record stays
		// referenced but ignored
		j.logg.Warn(ctx, "pricing.stale_reference left in place")
		return false, nil
	}

	base := minVariantPrice(kept)
	if len(kept) == len(record.Variants) && record.BasePrice.Equal(base) {
		return false, nil
	}

	plan := &catalog.PricingPlan{Variants: kept, BasePrice: base}
	if err := repo.UpdatePricing(ctx, record.ID, plan, catalog.SystemActor); err != nil {
		return false, fmt.Errorf("update drifted pricing: %w", err)
	}
	j.logg.Warn(ctx, "pricing.record_drift repaired")
	return true, nil
}

func minVariantPrice(variants models.VariantPriceList) decimal.Decimal {
	var min decimal.Decimal
	for i, variant := range variants {
		if i == 0 || variant.Price.LessThan(min) {
			min = variant.Price
		}
	}
	return min
}
