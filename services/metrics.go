package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_submissions_total",
		Help: "Feedback submissions by outcome.",
	}, []string{"outcome"})

	photoUploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedback_photo_upload_failures_total",
		Help: "Individual attachment uploads that failed and were skipped.",
	})

	iconActivationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icon_activations_total",
		Help: "Successful active-icon switches.",
	})
)
