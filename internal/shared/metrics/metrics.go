// Package metrics defines the Prometheus collectors for the resume tailoring
// flow and exposes them for scraping.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_tailor"

// IntakeTotal counts intake submissions.
// Label:
//   - outcome: "accepted" or the error kind that rejected it
var IntakeTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_total",
		Help:      "Total resume submissions, by outcome.",
	},
	[]string{"outcome"},
)

// GenerationTotal counts generation requests.
// Label:
//   - outcome: "success" or the error kind that ended the request
var GenerationTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_total",
		Help:      "Total generation requests, by outcome.",
	},
	[]string{"outcome"},
)

// CreditsConsumedTotal counts credits spent across all payments.
var CreditsConsumedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credits_consumed_total",
		Help:      "Total credits consumed.",
	},
)

// CheckoutSessionsTotal counts checkout session creation attempts.
// Label:
//   - outcome: "created" or "failed"
var CheckoutSessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_total",
		Help:      "Total checkout session creation attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RewriteDuration measures rewriter latency.
// Label:
//   - provider: "openai", "gemini", ...
var RewriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rewrite_duration_seconds",
		Help:      "Duration of a single rewriter call.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	},
	[]string{"provider"},
)

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
