package hybridshare

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts share activity. A nil *Metrics records nothing.
type Metrics struct {
	operations   *prometheus.CounterVec
	syncs        *prometheus.CounterVec
	driverErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridshare_operations_total",
				Help: "Total number of container mutations by operation",
			},
			[]string{"op"},
		),
		syncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridshare_syncs_total",
				Help: "Total number of sync attempts by result",
			},
			[]string{"result"},
		),
		driverErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridshare_driver_errors_total",
				Help: "Total number of failed driver calls",
			},
			[]string{"driver", "op"},
		),
	}

	for _, c := range []prometheus.Collector{m.operations, m.syncs, m.driverErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) operation(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *Metrics) sync(result string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(result).Inc()
}

func (m *Metrics) driverError(kind DriverKind, op string) {
	if m == nil {
		return
	}
	m.driverErrors.WithLabelValues(string(kind), op).Inc()
}
