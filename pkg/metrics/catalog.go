package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics counts product mutations, swallowed pricing-step failures,
// and snapshot export outcomes.
type CatalogMetrics struct {
	mutations       *prometheus.CounterVec
	pricingFailures prometheus.Counter
	snapshotSyncs   *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_product_mutations_total",
		Help: "Product create/update/delete operations.",
	}, []string{"operation"})
	pricingFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_pricing_link_failures_total",
		Help: "Pricing record writes that failed while the product write succeeded.",
	})
	snapshotSyncs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_snapshot_syncs_total",
		Help: "Snapshot export attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, pricingFailures, snapshotSyncs)
	return &CatalogMetrics{
		mutations:       mutations,
		pricingFailures: pricingFailures,
		snapshotSyncs:   snapshotSyncs,
	}
}

// IncMutation counts one mutation for the named operation.
func (c *CatalogMetrics) IncMutation(operation string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(operation).Inc()
}

// IncPricingFailure counts a swallowed pricing-step failure.
func (c *CatalogMetrics) IncPricingFailure() {
	if c == nil || c.pricingFailures == nil {
		return
	}
	c.pricingFailures.Inc()
}

// IncSnapshotSync counts a snapshot export attempt.
func (c *CatalogMetrics) IncSnapshotSync(outcome string) {
	if c == nil || c.snapshotSyncs == nil {
		return
	}
	c.snapshotSyncs.WithLabelValues(outcome).Inc()
}
