// Package metricsprom provides a Prometheus-backed implementation of the
// root package's Observer interface, adapted from the teacher pack's
// Prometheus metrics adapters (each a small struct of vectors with
// nil-safe record methods registered via promauto).
package metricsprom

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ramulator "github.com/arkhadem/ramulator2"
)

// Observer is a Prometheus-backed implementation of the root package's
// Observer interface. A nil *Observer is valid and every method on it is a
// no-op, so callers can construct one conditionally on a config flag and
// pass it through unconditionally.
type Observer struct {
	sends      *prometheus.CounterVec
	ticks      prometheus.Counter
	rejects    *prometheus.CounterVec
	opcodes    *prometheus.CounterVec
	waitStalls prometheus.Counter
}

// New registers the simulator's metrics against reg and returns an
// Observer backed by them. Pass prometheus.DefaultRegisterer to expose
// them on the default /metrics handler.
func New(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		sends: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aimsim_host_requests_total",
			Help: "Total host requests offered to the memory system, by acceptance outcome.",
		}, []string{"accepted"}),
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "aimsim_cycles_total",
			Help: "Total memory-system clock cycles elapsed.",
		}),
		rejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aimsim_controller_rejects_total",
			Help: "Total per-channel command rejections routed to overflow, by channel.",
		}, []string{"channel"}),
		opcodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aimsim_requests_by_opcode_total",
			Help: "Total accepted host requests, by opcode or type/region label.",
		}, []string{"opcode"}),
		waitStalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "aimsim_wait_read_stalls_total",
			Help: "Total MEM read requests that stalled the host queue awaiting completion.",
		}),
	}
}

// ObserveSend implements ramulator.Observer.
func (o *Observer) ObserveSend(accepted bool) {
	if o == nil {
		return
	}
	if accepted {
		o.sends.WithLabelValues("true").Inc()
	} else {
		o.sends.WithLabelValues("false").Inc()
	}
}

// ObserveTick implements ramulator.Observer.
func (o *Observer) ObserveTick() {
	if o == nil {
		return
	}
	o.ticks.Inc()
}

// ObserveReject implements ramulator.Observer.
func (o *Observer) ObserveReject(channel int) {
	if o == nil {
		return
	}
	o.rejects.WithLabelValues(strconv.Itoa(channel)).Inc()
}

// ObserveOpcode implements ramulator.Observer.
func (o *Observer) ObserveOpcode(opcode string) {
	if o == nil {
		return
	}
	o.opcodes.WithLabelValues(opcode).Inc()
}

// ObserveTypeRegion implements ramulator.Observer.
func (o *Observer) ObserveTypeRegion(t, region string) {
	if o == nil {
		return
	}
	o.opcodes.WithLabelValues(t + "_" + region).Inc()
}

var _ ramulator.Observer = (*Observer)(nil)

// ObserveWaitStall implements ramulator.Observer.
func (o *Observer) ObserveWaitStall() {
	if o == nil {
		return
	}
	o.waitStalls.Inc()
}
