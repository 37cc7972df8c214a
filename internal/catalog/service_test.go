package catalog

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeSyncer struct {
	calls atomic.Int64
}

func (f *fakeSyncer) Sync(context.Context) {
	f.calls.Add(1)
}

func newTestService(t *testing.T) (Service, *Repository, *fakeSyncer) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(&models.Product{}, &models.PricingRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := NewRepository(conn)
	logg := logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
	syncer := &fakeSyncer{}

	svc, err := NewService(repo, logg, nil, syncer)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc, repo, syncer
}

func strPtr(v string) *string { return &v }

func baseCreateInput() CreateInput {
	return CreateInput{
		Name:        "Trail Jacket",
		Description: "Lightweight shell",
		Category:    "Apparel",
		SubCategory: "Jackets",
		Price:       decimal.RequireFromString("8"),
		Discount:    "10",
		Sizes:       `["S","M"]`,
	}
}

func TestCreateWithExplicitSizePricing(t *testing.T) {
	svc, repo, syncer := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizePricing = `{"S":10,"M":8}`

	result, err := svc.Create(ctx, "admin@shop", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Message != "Product Added (no images yet - you can add later)" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	product, err := repo.FindByIDWithPricing(ctx, result.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.PricingID == nil || product.Pricing == nil {
		t.Fatal("expected a linked pricing record")
	}
	if !product.Pricing.BasePrice.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("expected base price 8, got %s", product.Pricing.BasePrice)
	}
	variants := product.Pricing.Variants
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	if variants[0].Size != "S" || !variants[0].Price.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("unexpected S variant: %+v", variants[0])
	}
	if variants[1].Size != "M" || !variants[1].Price.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("unexpected M variant: %+v", variants[1])
	}
	if product.Pricing.UpdatedBy != "admin@shop" {
		t.Fatalf("expected attribution, got %q", product.Pricing.UpdatedBy)
	}
	if syncer.calls.Load() != 1 {
		t.Fatalf("expected 1 snapshot sync, got %d", syncer.calls.Load())
	}
}

func TestCreateSingleSizeWithoutPricingSkipsRecord(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.Sizes = `["One Size"]`

	result, err := svc.Create(ctx, "", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	product, err := repo.FindByID(ctx, result.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.PricingID != nil {
		t.Fatalf("expected no pricing link, got %v", product.PricingID)
	}
	records, err := repo.ListPricingRecords(ctx)
	if err != nil {
		t.Fatalf("list pricing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no pricing records, got %d", len(records))
	}
}

func TestCreateMultiSizeAutoPricing(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.Sizes = `["S","M","L"]`
	input.Price = decimal.RequireFromString("20")

	result, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	product, err := repo.FindByIDWithPricing(ctx, result.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Pricing == nil {
		t.Fatal("expected auto-created pricing record")
	}
	if len(product.Pricing.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(product.Pricing.Variants))
	}
	for _, variant := range product.Pricing.Variants {
		if !variant.Price.Equal(decimal.RequireFromString("20")) {
			t.Fatalf("expected uniform price 20, got %+v", variant)
		}
	}
	if !product.Pricing.BasePrice.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("expected base price 20, got %s", product.Pricing.BasePrice)
	}
}

func TestCreateDerivesStockFromSizeStock(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizeStock = `{"S":5,"M":3}`

	result, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	product, err := repo.FindByID(ctx, result.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.StockQuantity == nil || *product.StockQuantity != 8 {
		t.Fatalf("expected derived quantity 8, got %v", product.StockQuantity)
	}
	if product.InStock == nil || !*product.InStock {
		t.Fatal("expected in stock")
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, _, syncer := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.Name = "  "

	_, err := svc.Create(ctx, "system", input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if syncer.calls.Load() != 0 {
		t.Fatal("snapshot must not sync on rejected input")
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "system", uuid.New(), UpdateInput{})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestUpdateSizeStockRecomputesAggregate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizeStock = `{"S":5,"M":3}`
	created, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(ctx, "system", created.ProductID, UpdateInput{
		SizeStock: strPtr(`{"S":0,"M":3}`),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	product, err := repo.FindByID(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.StockQuantity == nil || *product.StockQuantity != 3 {
		t.Fatalf("expected aggregate 3, got %v", product.StockQuantity)
	}
	if product.InStock == nil || !*product.InStock {
		t.Fatal("expected in stock with one size remaining")
	}
}

func TestUpdateUnparseableSpecsKeepsStoredSpecs(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.Specs = `{"Material":"Cotton"}`
	created, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.Update(ctx, "system", created.ProductID, UpdateInput{
		Specs: strPtr(`{"broken json`),
	})
	if err != nil {
		t.Fatalf("expected no failure for garbage specs, got %v", err)
	}
	if result.Product == nil {
		t.Fatal("expected updated product in result")
	}

	product, err := repo.FindByID(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Specs["Material"] != "Cotton" {
		t.Fatalf("expected stored specs retained, got %v", product.Specs)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizePricing = `{"S":10,"M":8}`
	created, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := UpdateInput{
		Name:        strPtr("Trail Jacket"),
		Description: strPtr("Lightweight shell"),
		Sizes:       strPtr(`["S","M"]`),
		SizePricing: strPtr(`{"S":10,"M":8}`),
	}

	if _, err := svc.Update(ctx, "system", created.ProductID, update); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	first, err := repo.FindByIDWithPricing(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}

	if _, err := svc.Update(ctx, "system", created.ProductID, update); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	second, err := repo.FindByIDWithPricing(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}

	if first.PricingID == nil || second.PricingID == nil || *first.PricingID != *second.PricingID {
		t.Fatalf("pricing record must be updated in place, got %v then %v", first.PricingID, second.PricingID)
	}
	if first.Name != second.Name || first.Description != second.Description {
		t.Fatal("expected identical stored fields after repeated update")
	}
	if len(first.Sizes) != len(second.Sizes) {
		t.Fatal("expected identical sizes after repeated update")
	}
	if !first.Pricing.BasePrice.Equal(second.Pricing.BasePrice) {
		t.Fatal("expected identical base price after repeated update")
	}
	if len(first.Pricing.Variants) != len(second.Pricing.Variants) {
		t.Fatal("expected identical variants after repeated update")
	}

	records, err := repo.ListPricingRecords(ctx)
	if err != nil {
		t.Fatalf("list pricing: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one pricing record, got %d", len(records))
	}
}

func TestUpdateMergesImagesBySlot(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.Images = map[int]string{0: "img-1", 1: "img-2", 2: "img-3", 3: "img-4"}
	created, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.Update(ctx, "system", created.ProductID, UpdateInput{
		Images: map[int]string{1: "img-2-new"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if result.Message != "Product Updated with 4 image(s)" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	product, err := repo.FindByID(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	want := []string{"img-1", "img-2-new", "img-3", "img-4"}
	if len(product.Images) != 4 {
		t.Fatalf("expected 4 images, got %d", len(product.Images))
	}
	for i, image := range product.Images {
		if image != want[i] {
			t.Fatalf("slot %d: expected %q, got %q", i, want[i], image)
		}
	}
}

func TestUpdateGrowingSizesUpdatesPricingInPlace(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizePricing = `{"S":10,"M":8}`
	created, err := svc.Create(ctx, "first@shop", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(ctx, "second@shop", created.ProductID, UpdateInput{
		Sizes:       strPtr(`["S","M","L"]`),
		SizePricing: strPtr(`{"S":10,"M":8,"L":12}`),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	product, err := repo.FindByIDWithPricing(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if len(product.Pricing.Variants) != 3 {
		t.Fatalf("expected 3 variants after growth, got %d", len(product.Pricing.Variants))
	}
	if product.Pricing.UpdatedBy != "second@shop" {
		t.Fatalf("expected refreshed attribution, got %q", product.Pricing.UpdatedBy)
	}
	if !product.Pricing.BasePrice.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("expected base price 8, got %s", product.Pricing.BasePrice)
	}
}

func TestDeleteRemovesProductAndPricing(t *testing.T) {
	svc, repo, syncer := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizePricing = `{"S":10,"M":8}`
	created, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.Delete(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.Message != "Product removed" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	if _, err := repo.FindByID(ctx, created.ProductID); err == nil {
		t.Fatal("expected product to be gone")
	}
	records, err := repo.ListPricingRecords(ctx)
	if err != nil {
		t.Fatalf("list pricing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected pricing record removed, got %d", len(records))
	}
	if syncer.calls.Load() != 2 {
		t.Fatalf("expected sync after create and delete, got %d", syncer.calls.Load())
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Delete(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestGetAndList(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := baseCreateInput()
	input.SizePricing = `{"S":10,"M":8}`
	created, err := svc.Create(ctx, "system", input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dto, err := svc.Get(ctx, created.ProductID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if dto.Pricing == nil {
		t.Fatal("expected pricing embedded in single read")
	}
	if dto.Pricing.ProductID != created.ProductID {
		t.Fatalf("expected pricing back-reference, got %v", dto.Pricing.ProductID)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 product, got %d", len(all))
	}
	if all[0].Pricing == nil {
		t.Fatal("expected pricing joined in list")
	}
}
