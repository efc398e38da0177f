// Package metrics exposes prometheus instruments for background jobs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SchedulerMetrics captures invoice-status job health signals.
type SchedulerMetrics struct {
	jobRuns        *prometheus.CounterVec
	jobErrors      *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	overdueMarked  prometheus.Counter
	remindersSent  prometheus.Counter
	reminderErrors prometheus.Counter
}

var (
	schedulerOnce sync.Once
	schedulerInst *SchedulerMetrics
)

// Scheduler returns the process-wide scheduler metrics, registering them on
// first use.
func Scheduler() *SchedulerMetrics {
	schedulerOnce.Do(func() {
		schedulerInst = &SchedulerMetrics{
			jobRuns: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "facturo_scheduler_job_runs_total",
				Help: "Number of scheduler job executions.",
			}, []string{"job"}),
			jobErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "facturo_scheduler_job_errors_total",
				Help: "Number of scheduler job executions that returned an error.",
			}, []string{"job"}),
			jobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "facturo_scheduler_job_duration_seconds",
				Help:    "Scheduler job execution duration.",
				Buckets: prometheus.DefBuckets,
			}, []string{"job"}),
			overdueMarked: promauto.NewCounter(prometheus.CounterOpts{
				Name: "facturo_invoices_marked_overdue_total",
				Help: "Invoices flipped from SENT to OVERDUE by the status job.",
			}),
			remindersSent: promauto.NewCounter(prometheus.CounterOpts{
				Name: "facturo_payment_reminders_sent_total",
				Help: "Payment reminder emails sent.",
			}),
			reminderErrors: promauto.NewCounter(prometheus.CounterOpts{
				Name: "facturo_payment_reminder_errors_total",
				Help: "Payment reminder emails that failed to send.",
			}),
		}
	})
	return schedulerInst
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) IncJobError(job string) {
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *SchedulerMetrics) IncOverdueMarked() { m.overdueMarked.Inc() }
func (m *SchedulerMetrics) IncReminderSent()  { m.remindersSent.Inc() }
func (m *SchedulerMetrics) IncReminderError() { m.reminderErrors.Inc() }
