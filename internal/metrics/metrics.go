// Package metrics exposes Prometheus collectors for the bias-channel operator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ForwardTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bias_channel_forward_total",
		Help: "Total number of forward passes",
	}, []string{"kernel", "label_type"})

	BackwardTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bias_channel_backward_total",
		Help: "Total number of backward passes that propagated a gradient",
	}, []string{"kernel"})

	KernelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bias_channel_kernel_duration_seconds",
		Help:    "Histogram of forward kernel execution times",
		Buckets: prometheus.DefBuckets,
	}, []string{"kernel"})

	BiasedLabels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bias_channel_biased_labels_total",
		Help: "Number of label entries that added a bias (image slots or pixels)",
	}, []string{"label_type"})

	IgnoredLabels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bias_channel_ignored_labels_total",
		Help: "Number of label entries skipped through the ignore set",
	}, []string{"label_type"})

	ValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bias_channel_validation_errors_total",
		Help: "Total number of rejected configurations, shapes, labels and gradient requests",
	}, []string{"operation", "error_type"})

	ElementsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bias_channel_elements_total",
		Help: "Total number of activation elements written by forward passes",
	})
)

// RecordForward records one forward pass on the named kernel.
func RecordForward(kernel, labelType string, elements int, duration time.Duration) {
	ForwardTotal.WithLabelValues(kernel, labelType).Inc()
	KernelDuration.WithLabelValues(kernel).Observe(duration.Seconds())
	ElementsProcessed.Add(float64(elements))
}

// RecordBackward records one gradient propagation.
func RecordBackward(kernel string) {
	BackwardTotal.WithLabelValues(kernel).Inc()
}

// RecordLabelStats records how many label entries biased or were ignored.
func RecordLabelStats(labelType string, biased, ignored int) {
	if biased > 0 {
		BiasedLabels.WithLabelValues(labelType).Add(float64(biased))
	}
	if ignored > 0 {
		IgnoredLabels.WithLabelValues(labelType).Add(float64(ignored))
	}
}

// RecordValidationError records a rejected invariant.
func RecordValidationError(operation, errorType string) {
	ValidationErrors.WithLabelValues(operation, errorType).Inc()
}
