package app

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

const metricPrefix = "kubeconform_pr."

type serviceMetrics struct {
	filesChecked     metric.Int64Counter
	filesFailed      metric.Int64Counter
	commentsPosted   metric.Int64Counter
	validateDuration metric.Float64Histogram
}

// newServiceMetrics registers the service instruments. An instrument that
// cannot be created is replaced by a noop so metrics never break a run.
func newServiceMetrics(meter metric.Meter, logger *slog.Logger) serviceMetrics {
	var m serviceMetrics
	var err error

	m.filesChecked, err = meter.Int64Counter(metricPrefix+"files_checked",
		metric.WithDescription("Number of files passed to the validator"))
	if err != nil {
		logger.Warn("creating metric", "name", "files_checked", "error", err)
		m.filesChecked = noopmetric.Int64Counter{}
	}

	m.filesFailed, err = meter.Int64Counter(metricPrefix+"files_failed",
		metric.WithDescription("Number of files that failed validation"))
	if err != nil {
		logger.Warn("creating metric", "name", "files_failed", "error", err)
		m.filesFailed = noopmetric.Int64Counter{}
	}

	m.commentsPosted, err = meter.Int64Counter(metricPrefix+"comments_posted",
		metric.WithDescription("Number of verdict comments posted"))
	if err != nil {
		logger.Warn("creating metric", "name", "comments_posted", "error", err)
		m.commentsPosted = noopmetric.Int64Counter{}
	}

	m.validateDuration, err = meter.Float64Histogram(metricPrefix+"validate_duration",
		metric.WithDescription("Time spent validating a single file"),
		metric.WithUnit("s"))
	if err != nil {
		logger.Warn("creating metric", "name", "validate_duration", "error", err)
		m.validateDuration = noopmetric.Float64Histogram{}
	}

	return m
}
