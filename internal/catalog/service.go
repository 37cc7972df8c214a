package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SystemActor attributes pricing writes when no admin actor is identified.
const SystemActor = "system"

// Service exposes catalog product management operations.
type Service interface {
	Create(ctx context.Context, actor string, input CreateInput) (*MutationResult, error)
	Update(ctx context.Context, actor string, productID uuid.UUID, input UpdateInput) (*MutationResult, error)
	Delete(ctx context.Context, productID uuid.UUID) (*MutationResult, error)
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context) ([]ProductDTO, error)
}

// CreateInput holds the submitted payload to create a product. The size,
// pricing, stock, spec, and tag fields arrive serialized exactly as the
// admin form sends them and are parsed leniently.
type CreateInput struct {
	Name          string
	Description   string
	Category      string
	SubCategory   string
	Price         decimal.Decimal
	Bestseller    bool
	Discount      string
	Sizes         string
	SizePricing   string
	SizeStock     string
	Specs         string
	Tags          string
	Brand         *string
	Model         *string
	Warranty      *string
	SKU           *string
	Weight        *string
	Width         *string
	Height        *string
	Depth         *string
	StockQuantity *string
	Images        map[int]string
}

// UpdateInput holds the optional mutation values for a product. Fields left
// nil retain their stored values; Images merges by slot.
type UpdateInput struct {
	Name          *string
	Description   *string
	Category      *string
	SubCategory   *string
	Price         *decimal.Decimal
	Bestseller    *bool
	Discount      *string
	Sizes         *string
	SizePricing   *string
	SizeStock     *string
	Specs         *string
	Tags          *string
	Brand         *string
	Model         *string
	Warranty      *string
	SKU           *string
	Weight        *string
	Width         *string
	Height        *string
	Depth         *string
	StockQuantity *string
	Images        map[int]string
}

// MutationResult reports a completed mutation back to the transport layer.
type MutationResult struct {
	ProductID uuid.UUID
	Message   string
	Product   *ProductDTO
}

// SnapshotSyncer regenerates the denormalized export after a mutation.
// Implementations swallow their own failures; a broken export never fails
// the product operation that triggered it.
type SnapshotSyncer interface {
	Sync(ctx context.Context)
}

type service struct {
	repo    *Repository
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
	syncer  SnapshotSyncer
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, logg *logger.Logger, catalogMetrics *metrics.CatalogMetrics, syncer SnapshotSyncer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if syncer == nil {
		return nil, fmt.Errorf("snapshot syncer required")
	}
	return &service{
		repo:    repo,
		logg:    logg,
		metrics: catalogMetrics,
		syncer:  syncer,
	}, nil
}

// Create persists the product first and then attempts the pricing record as
// a best-effort second step. A pricing failure is logged and swallowed so
// the product write always survives.
func (s *service) Create(ctx context.Context, actor string, input CreateInput) (*MutationResult, error) {
	actor = normalizeActor(actor)
	ctx = s.logg.WithActor(ctx, actor)

	if err := validateCreate(input); err != nil {
		return nil, err
	}

	sizes, err := ParseSizeList(input.Sizes)
	if err != nil {
		s.logg.Warn(ctx, "sizes parse failed, defaulting to empty list")
		sizes = nil
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		SubCategory: strings.TrimSpace(input.SubCategory),
		Price:       input.Price,
		Discount:    ParseDiscount(input.Discount),
		Bestseller:  input.Bestseller,
		Sizes:       sizes,
		Images:      CollectImageSlots(input.Images),
		Brand:       input.Brand,
		Model:       input.Model,
		Warranty:    input.Warranty,
		SKU:         input.SKU,
		Weight:      input.Weight,
		Width:       input.Width,
		Height:      input.Height,
		Depth:       input.Depth,
	}

	if specs, err := ParseSpecs(input.Specs); err != nil {
		s.logg.Warn(ctx, "specs parse failed, storing product without specs")
	} else if len(specs) > 0 {
		product.Specs = specs
	}

	if tags := ParseTags(input.Tags); len(tags) > 0 {
		product.Tags = tags
	}

	var explicitQty *int
	if input.StockQuantity != nil {
		qty := ParseQuantity(*input.StockQuantity)
		explicitQty = &qty
	}
	if input.SizeStock != "" {
		if stock, err := ParseSizeStock(input.SizeStock); err != nil {
			s.logg.Warn(ctx, "size stock parse failed, storing product without size stock")
		} else {
			product.SizeStock = stock
		}
	}
	product.StockQuantity, product.InStock = ResolveStock(explicitQty, product.SizeStock)

	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	ctx = s.logg.WithProductID(ctx, product.ID.String())

	s.applyPricingOnCreate(ctx, actor, product, input.SizePricing)

	s.metrics.IncMutation("create")
	s.syncer.Sync(ctx)

	return &MutationResult{
		ProductID: product.ID,
		Message:   createMessage(len(product.Images)),
	}, nil
}

// Update merges the submitted fields onto the stored product, re-runs the
// pricing step, and persists the result as a single row replace.
func (s *service) Update(ctx context.Context, actor string, productID uuid.UUID, input UpdateInput) (*MutationResult, error) {
	actor = normalizeActor(actor)
	ctx = s.logg.WithActor(ctx, actor)
	ctx = s.logg.WithProductID(ctx, productID.String())

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	s.applyUpdate(ctx, product, input)
	s.applyPricingOnUpdate(ctx, actor, product, input.SizePricing)
	product.Images = MergeImageSlots(product.Images, input.Images)

	if _, err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
	}

	s.metrics.IncMutation("update")
	s.syncer.Sync(ctx)

	return &MutationResult{
		ProductID: product.ID,
		Message:   fmt.Sprintf("Product Updated with %d image(s)", len(product.Images)),
		Product:   NewProductDTO(product),
	}, nil
}

// Delete removes the product together with its linked pricing record and
// regenerates the snapshot so the removed entry disappears from the export.
func (s *service) Delete(ctx context.Context, productID uuid.UUID) (*MutationResult, error) {
	ctx = s.logg.WithProductID(ctx, productID.String())

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if product.PricingID != nil {
		if err := s.repo.DeletePricing(ctx, *product.PricingID); err != nil {
			s.logg.Error(ctx, "pricing record delete failed, removing product anyway", err)
		}
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}

	s.metrics.IncMutation("delete")
	s.syncer.Sync(ctx)

	return &MutationResult{ProductID: productID, Message: "Product removed"}, nil
}

// Get returns one product with its pricing record joined.
func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByIDWithPricing(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

// List returns every product with pricing joined.
func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	dtos := make([]ProductDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewProductDTO(&rows[i])
	}
	return dtos, nil
}

func (s *service) applyUpdate(ctx context.Context, product *models.Product, input UpdateInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.SubCategory != nil {
		product.SubCategory = strings.TrimSpace(*input.SubCategory)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Bestseller != nil {
		product.Bestseller = *input.Bestseller
	}
	if input.Discount != nil {
		product.Discount = ParseDiscount(*input.Discount)
	}
	if input.Sizes != nil {
		if sizes, err := ParseSizeList(*input.Sizes); err != nil {
			s.logg.Warn(ctx, "sizes parse failed, keeping stored sizes")
		} else {
			product.Sizes = sizes
		}
	}
	if input.Specs != nil {
		// a parse failure or empty result never clobbers the stored specs
		if specs, err := ParseSpecs(*input.Specs); err != nil {
			s.logg.Warn(ctx, "specs parse failed, keeping stored specs")
		} else if len(specs) > 0 {
			product.Specs = specs
		}
	}
	if input.Tags != nil {
		product.Tags = ParseTags(*input.Tags)
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.Model != nil {
		product.Model = input.Model
	}
	if input.Warranty != nil {
		product.Warranty = input.Warranty
	}
	if input.SKU != nil {
		product.SKU = input.SKU
	}
	if input.Weight != nil {
		product.Weight = input.Weight
	}
	if input.Width != nil {
		product.Width = input.Width
	}
	if input.Height != nil {
		product.Height = input.Height
	}
	if input.Depth != nil {
		product.Depth = input.Depth
	}

	var explicitQty *int
	if input.StockQuantity != nil {
		qty := ParseQuantity(*input.StockQuantity)
		explicitQty = &qty
	}
	stockTouched := explicitQty != nil
	if input.SizeStock != nil {
		if stock, err := ParseSizeStock(*input.SizeStock); err != nil {
			s.logg.Warn(ctx, "size stock parse failed, keeping stored size stock")
		} else {
			product.SizeStock = stock
			stockTouched = true
		}
	}
	if stockTouched {
		product.StockQuantity, product.InStock = ResolveStock(explicitQty, product.SizeStock)
	}
}

func (s *service) applyPricingOnCreate(ctx context.Context, actor string, product *models.Product, rawPricing string) {
	plan, ok := s.planPricing(ctx, product, rawPricing)
	if !ok || plan == nil {
		return
	}

	record := &models.PricingRecord{
		ProductID: product.ID,
		BasePrice: plan.BasePrice,
		Variants:  plan.Variants,
		UpdatedBy: actor,
	}
	if _, err := s.repo.CreatePricing(ctx, record); err != nil {
		s.logg.Error(ctx, "pricing record create failed, product kept without pricing link", err)
		s.metrics.IncPricingFailure()
		return
	}
	if err := s.repo.LinkPricing(ctx, product.ID, record.ID); err != nil {
		s.logg.Error(ctx, "pricing link write failed, product kept without pricing link", err)
		s.metrics.IncPricingFailure()
		return
	}
	product.PricingID = &record.ID
}

func (s *service) applyPricingOnUpdate(ctx context.Context, actor string, product *models.Product, rawPricing *string) {
	raw := ""
	if rawPricing != nil {
		raw = *rawPricing
	}
	plan, ok := s.planPricing(ctx, product, raw)
	if !ok || plan == nil {
		return
	}

	// Re-check the row before mutating the secondary record so a concurrent
	// edit or delete cannot leave the pricing write pointing at the void.
	current, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		s.logg.Warn(ctx, "product disappeared before pricing write, skipping pricing update")
		s.metrics.IncPricingFailure()
		return
	}
	if !uuidPtrEqual(current.PricingID, product.PricingID) {
		s.logg.Warn(ctx, "pricing reference changed by a concurrent edit, skipping pricing update")
		s.metrics.IncPricingFailure()
		return
	}

	if product.PricingID != nil {
		if err := s.repo.UpdatePricing(ctx, *product.PricingID, plan, actor); err != nil {
			s.logg.Error(ctx, "pricing record update failed, product kept with prior pricing", err)
			s.metrics.IncPricingFailure()
		}
		return
	}

	record := &models.PricingRecord{
		ProductID: product.ID,
		BasePrice: plan.BasePrice,
		Variants:  plan.Variants,
		UpdatedBy: actor,
	}
	if _, err := s.repo.CreatePricing(ctx, record); err != nil {
		s.logg.Error(ctx, "pricing record create failed, product kept without pricing link", err)
		s.metrics.IncPricingFailure()
		return
	}
	product.PricingID = &record.ID
}

func (s *service) planPricing(ctx context.Context, product *models.Product, rawPricing string) (*PricingPlan, bool) {
	explicit, err := ParseSizePricing(rawPricing)
	if err != nil {
		s.logg.Warn(ctx, "size pricing parse failed, falling back to uniform pricing")
		explicit = nil
	}

	plan, err := PlanPricing(product.Sizes, explicit, product.Price)
	if err != nil {
		s.logg.Error(ctx, "pricing computation failed, product kept without pricing update", err)
		s.metrics.IncPricingFailure()
		return nil, false
	}
	return plan, true
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}

func normalizeActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return SystemActor
	}
	return actor
}

func createMessage(imageCount int) string {
	if imageCount > 0 {
		return fmt.Sprintf("Product Added with %d image(s)", imageCount)
	}
	return "Product Added (no images yet - you can add later)"
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
