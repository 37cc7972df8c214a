package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/catalog-backend/internal/catalog"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/metrics"
)

// Service regenerates the denormalized product export. The export is a
// rebuildable cache: every rebuild re-reads the whole catalog with pricing
// joined and replaces the prior payload wholesale.
type Service struct {
	repo    *catalog.Repository
	store   Store
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

// NewService constructs a snapshot service instance.
func NewService(repo *catalog.Repository, store Store, logg *logger.Logger, catalogMetrics *metrics.CatalogMetrics) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:    repo,
		store:   store,
		logg:    logg,
		metrics: catalogMetrics,
	}, nil
}

// Rebuild regenerates the export and reports any failure to the caller.
func (s *Service) Rebuild(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("reading products for snapshot: %w", err)
	}

	export := make([]catalog.ProductDTO, len(products))
	for i := range products {
		export[i] = *catalog.NewProductDTO(&products[i])
	}

	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.store.Write(ctx, payload); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Sync rebuilds the export after a mutation. Failures are logged and
// swallowed; the export is best-effort and never fails the caller.
func (s *Service) Sync(ctx context.Context) {
	if err := s.Rebuild(ctx); err != nil {
		s.logg.Error(ctx, "snapshot sync failed", err)
		s.metrics.IncSnapshotSync("failure")
		return
	}
	s.metrics.IncSnapshotSync("success")
}
