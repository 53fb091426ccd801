package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"counselhub/internal/db"
)

var (
	sessionTotalDesc = prometheus.NewDesc(
		"counselhub_sessions_total",
		"Total non-deleted counseling sessions",
		nil,
		nil,
	)
	sessionActiveDesc = prometheus.NewDesc(
		"counselhub_sessions_active",
		"Sessions started in the last 30 minutes that have not ended",
		nil,
		nil,
	)
	crisisTotalDesc = prometheus.NewDesc(
		"counselhub_crisis_sessions_total",
		"Sessions flagged for crisis language, all time",
		nil,
		nil,
	)

	crisisScans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counselhub_crisis_scans_total",
			Help: "Transcript crisis scans by outcome",
		},
		[]string{"outcome"},
	)
)

// SessionCollector is a custom Prometheus collector that reads session counts
// from the database on each scrape.
type SessionCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- sessionTotalDesc
	ch <- sessionActiveDesc
	ch <- crisisTotalDesc
}

// Collect queries the database for session counts and emits them as gauges.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	total, err := c.db.GetTotalSessionCount(ctx)
	if err != nil {
		slog.Error("failed to collect session metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(sessionTotalDesc, prometheus.GaugeValue, float64(total))

	active, err := c.db.GetActiveSessionCount(ctx, 30*time.Minute)
	if err != nil {
		slog.Error("failed to collect active session metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(sessionActiveDesc, prometheus.GaugeValue, float64(active))

	crisis, err := c.db.GetCrisisSessionCount(ctx, time.Time{}, time.Now())
	if err != nil {
		slog.Error("failed to collect crisis session metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(crisisTotalDesc, prometheus.GaugeValue, float64(crisis))
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&SessionCollector{db: database})
		prometheus.MustRegister(crisisScans)
	})
}

// RecordCrisisScan counts one transcript scan by outcome.
func RecordCrisisScan(detected bool) {
	outcome := "clear"
	if detected {
		outcome = "detected"
	}
	crisisScans.WithLabelValues(outcome).Inc()
}
