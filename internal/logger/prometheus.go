package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	// counter is a singleton for the counter vec.
	counter *prometheus.CounterVec //nolint:gochecknoglobals

	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "logging_settings_reloads_total",
		Help: "Number of runtime logging configuration reloads, by result.",
	}, []string{"result"})

	sinkRecyclesTotal = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "logging_sink_recycles_total",
		Help: "Number of times the local category log file was closed for recycling.",
	})

	deletedFilesTotal = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "logging_deleted_files_total",
		Help: "Number of category log files deleted from the settings page.",
	})

	observabilityDropped = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "logging_observability_dropped_total",
		Help: "Number of log lines dropped because the observability queue was full.",
	})

	observabilitySubmitFailures = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "logging_observability_submit_failures_total",
		Help: "Number of failed log batch submissions to the observability backend.",
	})
)

// PrometheusHook calls Prometheus statistics at log write.
type PrometheusHook struct{}

// Run implements zerolog.Hook run method.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel {
		counter.WithLabelValues(level.String()).Inc()
	}
}

// NewPrometheusHook returns a prometheus hook counting how often a specific log level was used.
func NewPrometheusHook(service string) PrometheusHook {
	if counter == nil {
		counter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	}

	return PrometheusHook{}
}
