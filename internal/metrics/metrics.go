package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registry. A nil *Metrics is
// valid and records nothing, so tests can run without touching the default
// registerer.
type Metrics struct {
	// Engine operations by name and outcome
	Operations *prometheus.CounterVec

	// Stamps allocated (passports and committed claims)
	ItemsIssued prometheus.Counter

	// Commitments redeemed into minted stamps
	ClaimsRedeemed prometheus.Counter

	// Webhook delivery outcomes by final status
	WebhookDeliveries *prometheus.CounterVec
}

// New creates and registers all registry metrics
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sbr_registry_operations_total",
			Help: "Total registry operations by name and outcome",
		}, []string{"operation", "outcome"}),

		ItemsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sbr_items_issued_total",
			Help: "Total stamps allocated (passports and committed claims)",
		}),

		ClaimsRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sbr_claims_redeemed_total",
			Help: "Total commitments redeemed into minted stamps",
		}),

		WebhookDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sbr_webhook_deliveries_total",
			Help: "Total webhook deliveries by final status",
		}, []string{"status"}),
	}
}

// ObserveOperation records one engine operation outcome
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// AddItemsIssued records newly allocated stamps
func (m *Metrics) AddItemsIssued(n int) {
	if m != nil {
		m.ItemsIssued.Add(float64(n))
	}
}

// IncrementClaimsRedeemed records a successful redemption
func (m *Metrics) IncrementClaimsRedeemed() {
	if m != nil {
		m.ClaimsRedeemed.Inc()
	}
}

// IncrementWebhookDelivery records a webhook delivery outcome
func (m *Metrics) IncrementWebhookDelivery(status string) {
	if m != nil {
		m.WebhookDeliveries.WithLabelValues(status).Inc()
	}
}
