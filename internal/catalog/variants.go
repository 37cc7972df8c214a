package catalog

import (
	dbtypes "github.com/angelmondragon/catalog-backend/pkg/db/types"
)

// ResolveStock derives the aggregate quantity and in-stock flag. An explicit
// quantity wins; otherwise the sum of the per-variant stock map is used. With
// neither input both fields stay unset.
func ResolveStock(explicit *int, sizeStock dbtypes.IntMap) (*int, *bool) {
	var quantity int
	switch {
	case explicit != nil:
		quantity = *explicit
		if quantity < 0 {
			quantity = 0
		}
	case sizeStock != nil:
		quantity = sizeStock.Sum()
	default:
		return nil, nil
	}
	inStock := quantity > 0
	return &quantity, &inStock
}
