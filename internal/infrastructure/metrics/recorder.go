package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	service "mystic_market/internal/domain/service/appraisal"
)

const namespace = "mystic_market"

// Recorder turns appraisal events and notification results into Prometheus
// series.
type Recorder struct {
	rolls         *prometheus.CounterVec
	rejections    prometheus.Counter
	finalizations *prometheus.CounterVec
	notifications *prometheus.CounterVec
	basePrices    *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	return &Recorder{
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_total",
			Help:      "Base price rolls by rarity.",
		}, []string{"rarity"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roll_rejections_total",
			Help:      "Roll attempts refused by the name gate.",
		}),
		finalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finalizations_total",
			Help:      "Finalized transactions by rarity.",
		}, []string{"rarity"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification results.",
		}, []string{"success"}),
		basePrices: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "base_price_gold",
			Help:      "Rolled base prices in gold pieces.",
			Buckets:   prometheus.ExponentialBuckets(10, 2.5, 10), //nolint:mnd
		}, []string{"rarity"}),
	}
}

func (r *Recorder) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(r.rolls, r.rejections, r.finalizations, r.notifications, r.basePrices)
}

// Subscribe attaches the recorder to the event bus.
func (r *Recorder) Subscribe(bus *service.Bus) {
	bus.Subscribe(r.observe,
		service.EventRolled,
		service.EventRollRejected,
		service.EventFinalized,
	)
}

func (r *Recorder) observe(_ context.Context, event service.Event) {
	rarity := event.Valuation.Rarity.String()

	switch event.Kind {
	case service.EventRolled:
		r.rolls.WithLabelValues(rarity).Inc()
		r.basePrices.WithLabelValues(rarity).Observe(float64(event.Valuation.BasePrice))
	case service.EventRollRejected:
		r.rejections.Inc()
	case service.EventFinalized:
		r.finalizations.WithLabelValues(rarity).Inc()
	default:
	}
}

func (r *Recorder) NotificationResult(ok bool) {
	r.notifications.WithLabelValues(strconv.FormatBool(ok)).Inc()
}
