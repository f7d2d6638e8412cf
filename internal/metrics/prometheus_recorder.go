package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	evaluations   *prom.CounterVec
	sinkCalls     *prom.CounterVec
	overrides     prom.Counter
	shouldBeLight prom.Gauge
}

// NewPrometheusRecorder constructs and registers the scheduler metrics on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		evaluations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "darkmode_scheduler",
			Name:      "evaluations_total",
			Help:      "Schedule evaluations by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		sinkCalls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "darkmode_scheduler",
			Name:      "theme_applications_total",
			Help:      "Theme sink calls by requested theme and result",
		}, []string{"theme", "result"}),
		overrides: prom.NewCounter(prom.CounterOpts{
			Namespace: "darkmode_scheduler",
			Name:      "manual_overrides_total",
			Help:      "Manual theme changes reported to the scheduler",
		}),
		shouldBeLight: prom.NewGauge(prom.GaugeOpts{
			Namespace: "darkmode_scheduler",
			Name:      "should_be_light",
			Help:      "1 when the last evaluation targeted the light theme",
		}),
	}
	reg.MustRegister(pr.evaluations, pr.sinkCalls, pr.overrides, pr.shouldBeLight)
	return pr
}

func (p *PrometheusRecorder) ObserveEvaluation(trigger, outcome string) {
	p.evaluations.WithLabelValues(trigger, outcome).Inc()
}

func (p *PrometheusRecorder) ObserveSinkCall(isLight bool, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.sinkCalls.WithLabelValues(themeLabel(isLight), result).Inc()
}

func (p *PrometheusRecorder) ObserveOverride() {
	p.overrides.Inc()
}

func (p *PrometheusRecorder) SetShouldBeLight(isLight bool) {
	if isLight {
		p.shouldBeLight.Set(1)
		return
	}
	p.shouldBeLight.Set(0)
}
