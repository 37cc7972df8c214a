package catalog

import (
	"testing"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func decimalFromString(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", raw, err)
	}
	return value
}

func TestPlanPricingExplicit(t *testing.T) {
	base := decimalFromString(t, "8")
	explicit := map[string]decimal.Decimal{
		"S": decimalFromString(t, "10"),
		"M": decimalFromString(t, "8"),
	}

	plan, err := PlanPricing([]string{"S", "M"}, explicit, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatal("expected a plan")
	}
	if len(plan.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(plan.Variants))
	}
	if plan.Variants[0].Size != "S" || !plan.Variants[0].Price.Equal(decimalFromString(t, "10")) {
		t.Fatalf("unexpected first variant: %+v", plan.Variants[0])
	}
	if !plan.BasePrice.Equal(decimalFromString(t, "8")) {
		t.Fatalf("expected base price 8, got %s", plan.BasePrice)
	}
}

func TestPlanPricingExplicitFallsBackToBase(t *testing.T) {
	base := decimalFromString(t, "12")
	explicit := map[string]decimal.Decimal{
		"L": decimalFromString(t, "15"),
	}

	plan, err := PlanPricing([]string{"S", "L"}, explicit, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// S is missing from the map and resolves to the product base price
	if !plan.Variants[0].Price.Equal(base) {
		t.Fatalf("expected base fallback for S, got %s", plan.Variants[0].Price)
	}
	if !plan.BasePrice.Equal(base) {
		t.Fatalf("expected min base price 12, got %s", plan.BasePrice)
	}
}

func TestPlanPricingUniformForMultipleSizes(t *testing.T) {
	base := decimalFromString(t, "20")

	plan, err := PlanPricing([]string{"S", "M", "L"}, nil, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatal("expected a plan for multiple sizes")
	}
	for _, variant := range plan.Variants {
		if !variant.Price.Equal(base) {
			t.Fatalf("expected uniform base price, got %+v", variant)
		}
	}
	if !plan.BasePrice.Equal(base) {
		t.Fatalf("expected base price %s, got %s", base, plan.BasePrice)
	}
}

func TestPlanPricingSingleSizeNeedsNoRecord(t *testing.T) {
	plan, err := PlanPricing([]string{"One Size"}, nil, decimalFromString(t, "5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != nil {
		t.Fatalf("expected no plan, got %+v", plan)
	}
}

func TestPlanPricingExplicitWithoutSizesFails(t *testing.T) {
	explicit := map[string]decimal.Decimal{"S": decimalFromString(t, "10")}
	_, err := PlanPricing(nil, explicit, decimalFromString(t, "8"))
	if err == nil {
		t.Fatal("expected error for explicit pricing without sizes")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlanPricingExplicitSingleSizeStillPlans(t *testing.T) {
	explicit := map[string]decimal.Decimal{"One Size": decimalFromString(t, "9")}
	plan, err := PlanPricing([]string{"One Size"}, explicit, decimalFromString(t, "11"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil || len(plan.Variants) != 1 {
		t.Fatalf("expected single-variant plan, got %+v", plan)
	}
	if !plan.BasePrice.Equal(decimalFromString(t, "9")) {
		t.Fatalf("expected base price 9, got %s", plan.BasePrice)
	}
}
