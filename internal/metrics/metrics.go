package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedback"

const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"

	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
)

// Recorder is what services report to. Nop is used when metrics are disabled.
type Recorder interface {
	SubmissionStored(category string)
	SubmissionRejected(reason string)
	Notification(outcome string)
	LoginAttempt(outcome string)
}

type Nop struct{}

func (Nop) SubmissionStored(string)   {}
func (Nop) SubmissionRejected(string) {}
func (Nop) Notification(string)       {}
func (Nop) LoginAttempt(string)       {}

// Collector exports counters to Prometheus.
type Collector struct {
	submissions   *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Stored feedback submissions by category.",
		}, []string{"category"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Submissions rejected before storage.",
		}, []string{"reason"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Department notifications by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Dashboard login attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.submissions, c.rejected, c.notifications, c.logins)
	return c
}

func (c *Collector) SubmissionStored(category string) {
	c.submissions.WithLabelValues(category).Inc()
}

func (c *Collector) SubmissionRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

func (c *Collector) Notification(outcome string) {
	c.notifications.WithLabelValues(outcome).Inc()
}

func (c *Collector) LoginAttempt(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
