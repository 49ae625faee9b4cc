package devtools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vmkit-dev/vmkit/pkg/viewmodel"
)

// Metrics exports view-model lifecycle metrics to Prometheus. It
// implements viewmodel.Observer; attach it (usually combined with a Hub
// via viewmodel.Observers) to the root view model.
type Metrics struct {
	activeViewModels    prometheus.Gauge
	viewModelsTotal     prometheus.Counter
	resourcesRegistered *prometheus.CounterVec
	disposalsTotal      prometheus.Counter
	disposeErrorsTotal  prometheus.Counter
}

// NewMetrics registers the collectors with reg and returns the observer.
// Pass prometheus.DefaultRegisterer unless the caller owns a registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		activeViewModels: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vmkit",
			Name:      "viewmodels_active",
			Help:      "Number of live view models",
		}),
		viewModelsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vmkit",
			Name:      "viewmodels_created_total",
			Help:      "Total number of view models created",
		}),
		resourcesRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vmkit",
			Name:      "resources_registered_total",
			Help:      "Total number of resources registered, by kind",
		}, []string{"kind"}),
		disposalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vmkit",
			Name:      "disposals_total",
			Help:      "Total number of view model disposal cascades",
		}),
		disposeErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vmkit",
			Name:      "dispose_errors_total",
			Help:      "Total number of disposal cascades that reported errors",
		}),
	}
}

// ViewModelCreated implements viewmodel.Observer.
func (m *Metrics) ViewModelCreated(vm *viewmodel.ViewModel, parent *viewmodel.ViewModel) {
	m.activeViewModels.Inc()
	m.viewModelsTotal.Inc()
}

// ResourceRegistered implements viewmodel.Observer.
func (m *Metrics) ResourceRegistered(vm *viewmodel.ViewModel, kind viewmodel.ResourceKind) {
	m.resourcesRegistered.WithLabelValues(kind.String()).Inc()
}

// ViewModelDisposed implements viewmodel.Observer.
func (m *Metrics) ViewModelDisposed(vm *viewmodel.ViewModel, err error) {
	m.activeViewModels.Dec()
	m.disposalsTotal.Inc()
	if err != nil {
		m.disposeErrorsTotal.Inc()
	}
}

var _ viewmodel.Observer = (*Metrics)(nil)
