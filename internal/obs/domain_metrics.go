package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// LineItemsAdded counts line items added to quotation carts by category.
	LineItemsAdded *prometheus.CounterVec
	// RateLookupMisses counts rate-table lookups that found no entry.
	RateLookupMisses prometheus.Counter
	// ConfirmationsRendered counts generated confirmation documents.
	ConfirmationsRendered prometheus.Counter
	// ConfirmationsRejected counts renders refused because the cart was empty.
	ConfirmationsRejected prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		LineItemsAdded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_items_added_total",
			Help:      "Count of line items added to quotation carts.",
		}, []string{"category"})
		RateLookupMisses = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_lookup_misses_total",
			Help:      "Count of rate-table lookups with no matching entry.",
		})
		ConfirmationsRendered = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_rendered_total",
			Help:      "Count of rendered confirmation documents.",
		})
		ConfirmationsRejected = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_rejected_total",
			Help:      "Count of confirmation renders refused for empty carts.",
		})

		mustRegisterCollector(reg, LineItemsAdded, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				LineItemsAdded = v
			}
		})
		mustRegisterCollector(reg, RateLookupMisses, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				RateLookupMisses = v
			}
		})
		mustRegisterCollector(reg, ConfirmationsRendered, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ConfirmationsRendered = v
			}
		})
		mustRegisterCollector(reg, ConfirmationsRejected, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ConfirmationsRejected = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, c prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
}
