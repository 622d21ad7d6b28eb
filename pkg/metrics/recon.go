package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReconMetrics tracks the outcome of reconciliation runs.
type ReconMetrics struct {
	matched          prometheus.Counter
	unmatched        prometheus.Gauge
	deliveryFailures prometheus.Counter
	feedTransactions prometheus.Gauge
}

// NewReconMetrics registers reconciliation metrics on the provided registerer.
func NewReconMetrics(reg prometheus.Registerer) *ReconMetrics {
	if reg == nil {
		return &ReconMetrics{}
	}
	matched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recon_purchases_matched_total",
		Help: "Purchases matched to a bank transaction.",
	})
	unmatched := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "recon_unmatched_transactions",
		Help: "Bank transactions currently held in the unmatched buffer.",
	})
	deliveryFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recon_delivery_failures_total",
		Help: "Ticket deliveries that failed after a successful match.",
	})
	feedTransactions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "recon_feed_transactions",
		Help: "Transactions seen in the most recent bank feed fetch.",
	})
	reg.MustRegister(matched, unmatched, deliveryFailures, feedTransactions)
	return &ReconMetrics{
		matched:          matched,
		unmatched:        unmatched,
		deliveryFailures: deliveryFailures,
		feedTransactions: feedTransactions,
	}
}

func (r *ReconMetrics) AddMatched(n int) {
	if r == nil || r.matched == nil {
		return
	}
	r.matched.Add(float64(n))
}

func (r *ReconMetrics) SetUnmatched(n int) {
	if r == nil || r.unmatched == nil {
		return
	}
	r.unmatched.Set(float64(n))
}

func (r *ReconMetrics) AddDeliveryFailures(n int) {
	if r == nil || r.deliveryFailures == nil {
		return
	}
	r.deliveryFailures.Add(float64(n))
}

func (r *ReconMetrics) SetFeedSize(n int) {
	if r == nil || r.feedTransactions == nil {
		return
	}
	r.feedTransactions.Set(float64(n))
}
