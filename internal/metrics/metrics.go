package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the collectors exported by the data layer.
type Metrics struct {
	Pulls             *prometheus.CounterVec
	Suppressed        *prometheus.CounterVec
	Pushes            *prometheus.CounterVec
	PushQueueDepth    prometheus.Gauge
	BookingRejections *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitmarket",
			Subsystem: "sync",
			Name:      "pulls_total",
			Help:      "Remote pulls by result.",
		}, []string{"result"}),
		Suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitmarket",
			Subsystem: "sync",
			Name:      "collections_suppressed_total",
			Help:      "Collections skipped during a pull because of a recent local write.",
		}, []string{"collection"}),
		Pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitmarket",
			Subsystem: "sync",
			Name:      "pushes_total",
			Help:      "Remote pushes by collection and result.",
		}, []string{"collection", "result"}),
		PushQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fitmarket",
			Subsystem: "sync",
			Name:      "push_queue_depth",
			Help:      "Pushes waiting for the remote backend.",
		}),
		BookingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitmarket",
			Subsystem: "booking",
			Name:      "rejections_total",
			Help:      "Booking attempts rejected at insertion time, by reason.",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(m.Pulls, m.Suppressed, m.Pushes, m.PushQueueDepth, m.BookingRejections)
	}
	return m
}
