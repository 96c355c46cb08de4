package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/techagentng/oceanwatch/metrics"
	"github.com/techagentng/oceanwatch/models"
)

// SummarySink receives every refreshed Summary, e.g. for archiving.
type SummarySink interface {
	Store(ctx context.Context, summary models.Summary) error
}

// Refresher recomputes analytics on a fixed interval and publishes the result
// with a single atomic swap, so readers always see one complete Summary.
type Refresher struct {
	service  *HazardReportService
	interval time.Duration
	sinks    []SummarySink

	latest atomic.Pointer[models.Summary]

	mu          sync.Mutex
	subscribers map[chan models.Summary]struct{}
}

func NewRefresher(service *HazardReportService, interval time.Duration, sinks ...SummarySink) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{
		service:     service,
		interval:    interval,
		sinks:       sinks,
		subscribers: map[chan models.Summary]struct{}{},
	}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh takes a fresh snapshot, recomputes and publishes the Summary.
func (r *Refresher) Refresh(ctx context.Context) (*models.Summary, error) {
	reports, err := r.service.Snapshot()
	metrics.AnalyticsRefreshes.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Printf("analytics refresh failed: %v", err)
		return nil, err
	}
	summary := r.service.Summarize(reports)
	metrics.ReportsStored.Set(float64(len(reports)))
	r.latest.Store(&summary)

	r.broadcast(summary)
	for _, sink := range r.sinks {
		err := sink.Store(ctx, summary)
		metrics.ArchiveWrites.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			log.Printf("analytics sink failed: %v", err)
		}
	}
	return &summary, nil
}

// Latest returns the last published Summary, or nil before the first refresh.
func (r *Refresher) Latest() *models.Summary {
	return r.latest.Load()
}

// Subscribe returns a channel of future Summaries and a func to unsubscribe.
// Slow subscribers miss updates rather than block the refresh loop.
func (r *Refresher) Subscribe() (<-chan models.Summary, func()) {
	ch := make(chan models.Summary, 1)
	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, ch)
			r.mu.Unlock()
			close(ch)
		})
	}
}

func (r *Refresher) broadcast(summary models.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subscribers {
		select {
		case ch <- summary:
		default:
		}
	}
}
