package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"impact-lending/internal/events"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	LoansIssued        prometheus.Counter
	FeesCollected      prometheus.Counter
	Repayments         prometheus.Counter
	RepaidVolume       prometheus.Counter
	LoansClosed        prometheus.Counter
	LoansUpdated       prometheus.Counter
	Distributions      prometheus.Counter
	ReturnsDistributed prometheus.Counter
	TokensBurned       prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoansIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_loans_issued_total",
			Help: "Total number of loans issued",
		}),
		FeesCollected: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_creation_fees_collected_total",
			Help: "Sum of creation fees transferred to the authority",
		}),
		Repayments: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_repayments_total",
			Help: "Total number of accepted repayments",
		}),
		RepaidVolume: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_repaid_amount_total",
			Help: "Sum of accepted repayment amounts",
		}),
		LoansClosed: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_loans_closed_total",
			Help: "Loans closed by a covering repayment",
		}),
		LoansUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_loan_updates_total",
			Help: "Total number of loan amendments",
		}),
		Distributions: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_distributions_total",
			Help: "Total number of return distributions",
		}),
		ReturnsDistributed: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_returns_total",
			Help: "Sum of computed total returns",
		}),
		TokensBurned: f.NewCounter(prometheus.CounterOpts{
			Name: "impact_lending_tokens_burned_total",
			Help: "Sum of claim tokens burned by distributions",
		}),
	}
}

// Subscribe keeps the counters in step with committed engine events.
func (m *Metrics) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeLoanIssued, m.Observe)
	bus.Subscribe(events.EventTypeLoanRepaid, m.Observe)
	bus.Subscribe(events.EventTypeLoanUpdated, m.Observe)
	bus.Subscribe(events.EventTypeReturnsDistributed, m.Observe)
}

// Observe has the events.Handler signature.
func (m *Metrics) Observe(_ context.Context, event events.Event) {
	switch e := event.(type) {
	case events.LoanIssuedEvent:
		m.LoansIssued.Inc()
		m.FeesCollected.Add(float64(e.Fee))
	case events.LoanRepaidEvent:
		m.Repayments.Inc()
		m.RepaidVolume.Add(float64(e.Amount))
		if e.Closed {
			m.LoansClosed.Inc()
		}
	case events.LoanUpdatedEvent:
		m.LoansUpdated.Inc()
	case events.ReturnsDistributedEvent:
		m.Distributions.Inc()
		m.ReturnsDistributed.Add(float64(e.TotalReturn))
		m.TokensBurned.Add(float64(e.Burned))
	}
}
