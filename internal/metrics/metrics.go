package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeUpdated       = "updated"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeNotFound      = "not_found"
	OutcomeDataIntegrity = "data_integrity"
	OutcomeConflict      = "conflict"
	OutcomeError         = "error"
)

// QuantityUpdates is served from the default registry by echoprometheus.
var QuantityUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "product_quantity_updates_total",
	Help: "Product quantity update requests by outcome.",
}, []string{"outcome"})

// StoreUp is 1 when the last scheduled store ping succeeded.
var StoreUp = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "product_store_up",
	Help: "Whether the last product store ping succeeded.",
})
