package scheduler

import (
	"sync"
	"time"
)

// Stats is a snapshot of job execution counters.
type Stats struct {
	LastRun           *time.Time `json:"last_run,omitempty"`
	TotalRuns         int64      `json:"total_runs"`
	InvoicesProcessed int64      `json:"invoices_processed"`
	OverdueMarked     int64      `json:"overdue_marked"`
	RemindersSent     int64      `json:"reminders_sent"`
	Errors            int64      `json:"errors"`
}

// runStats owns the counters behind a mutex; it is injected into the
// Scheduler rather than living at package scope, so its lifecycle is tied
// to the scheduler instance.
type runStats struct {
	mu    sync.Mutex
	stats Stats
}

func (r *runStats) recordRun(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := at
	r.stats.LastRun = &t
	r.stats.TotalRuns++
}

func (r *runStats) addProcessed(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.InvoicesProcessed += n
}

func (r *runStats) addOverdue(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.OverdueMarked += n
}

func (r *runStats) addReminders(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.RemindersSent += n
}

func (r *runStats) addError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Errors++
}

func (r *runStats) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
