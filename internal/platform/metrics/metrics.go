package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the admission server.
type Metrics struct {
	LicencesCreated    prometheus.Counter
	LicencesValidated  prometheus.Counter
	LicencesRejected   prometheus.Counter
	ClubsAffiliated    prometheus.Counter
	QuotaFallbacks     prometheus.Counter
	BulkItemsProcessed *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LicencesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "affilia_licences_created_total",
			Help: "Total number of licences created through the admission service",
		}),
		LicencesValidated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "affilia_licences_validated_total",
			Help: "Total number of licences transitioned to validated",
		}),
		LicencesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "affilia_licences_rejected_total",
			Help: "Total number of licences transitioned to rejected",
		}),
		ClubsAffiliated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "affilia_clubs_affiliated_total",
			Help: "Total number of clubs transitioned to active",
		}),
		QuotaFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "affilia_licence_quota_fallback_total",
			Help: "Licence creations that requested quota inclusion after the club quota was exhausted",
		}),
		BulkItemsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "affilia_bulk_validation_items_total",
			Help: "Bulk validation items by outcome",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementLicencesCreated() {
	if m != nil && m.LicencesCreated != nil {
		m.LicencesCreated.Inc()
	}
}

func (m *Metrics) IncrementLicencesValidated() {
	if m != nil && m.LicencesValidated != nil {
		m.LicencesValidated.Inc()
	}
}

func (m *Metrics) IncrementLicencesRejected() {
	if m != nil && m.LicencesRejected != nil {
		m.LicencesRejected.Inc()
	}
}

func (m *Metrics) IncrementClubsAffiliated() {
	if m != nil && m.ClubsAffiliated != nil {
		m.ClubsAffiliated.Inc()
	}
}

func (m *Metrics) IncrementQuotaFallbacks() {
	if m != nil && m.QuotaFallbacks != nil {
		m.QuotaFallbacks.Inc()
	}
}

// ObserveBulkItem records one bulk validation item outcome ("validated" or
// "error").
func (m *Metrics) ObserveBulkItem(result string) {
	if m != nil && m.BulkItemsProcessed != nil {
		m.BulkItemsProcessed.WithLabelValues(result).Inc()
	}
}
