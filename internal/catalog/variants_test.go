package catalog

import (
	"testing"

	dbtypes "github.com/angelmondragon/catalog-backend/pkg/db/types"
)

func TestResolveStock(t *testing.T) {
	t.Run("explicitWins", func(t *testing.T) {
		explicit := 10
		qty, inStock := ResolveStock(&explicit, dbtypes.IntMap{"S": 1})
		if qty == nil || *qty != 10 {
			t.Fatalf("expected explicit quantity 10, got %v", qty)
		}
		if inStock == nil || !*inStock {
			t.Fatal("expected in stock")
		}
	})

	t.Run("negativeExplicitClamps", func(t *testing.T) {
		explicit := -4
		qty, inStock := ResolveStock(&explicit, nil)
		if qty == nil || *qty != 0 {
			t.Fatalf("expected clamped quantity 0, got %v", qty)
		}
		if inStock == nil || *inStock {
			t.Fatal("expected out of stock")
		}
	})

	t.Run("sumsSizeStock", func(t *testing.T) {
		qty, inStock := ResolveStock(nil, dbtypes.IntMap{"S": 0, "M": 3})
		if qty == nil || *qty != 3 {
			t.Fatalf("expected aggregate 3, got %v", qty)
		}
		if inStock == nil || !*inStock {
			t.Fatal("expected in stock")
		}
	})

	t.Run("neitherInputLeavesUnset", func(t *testing.T) {
		qty, inStock := ResolveStock(nil, nil)
		if qty != nil || inStock != nil {
			t.Fatalf("expected unset stock fields, got %v / %v", qty, inStock)
		}
	})
}
