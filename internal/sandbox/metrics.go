package sandbox

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are registered per server so that several sandboxes can run in one
// process.
type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	PasteCreated   prometheus.Counter
	PasteRetrieved prometheus.Counter
	PasteDeleted   prometheus.Counter
	Logins         prometheus.Counter
	PastesStored   prometheus.GaugeFunc
}

// NewMetrics registers the sandbox collectors. stored reports the current
// number of pastes.
func NewMetrics(stored func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gopastebin_sandbox_requests_total",
				Help: "no. of API requests by option and outcome",
			},
			[]string{"option", "outcome"},
		),
		PasteCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gopastebin_sandbox_paste_created_total",
			Help: "no. of pastes created",
		}),
		PasteRetrieved: factory.NewCounter(prometheus.CounterOpts{
			Name: "gopastebin_sandbox_paste_retrieved_total",
			Help: "no. of raw pastes served",
		}),
		PasteDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gopastebin_sandbox_paste_deleted_total",
			Help: "no. of pastes deleted",
		}),
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "gopastebin_sandbox_logins_total",
			Help: "no. of user keys issued",
		}),
		PastesStored: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gopastebin_sandbox_pastes_stored",
			Help: "no. of pastes currently held",
		}, stored),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
