package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/events"
	"github.com/RealZimboGuy/newsflow/internal/models"
)

const (
	watchBatchSize       = 500
	defaultWatchInterval = 3 * time.Second
)

// ChangeWatcher turns approval rows written by anyone (this service or the workflow engine writing
// straight to the database) into change events. The store has no push channel, so it polls on
// updated_at and remembers the rows sitting at the newest timestamp it has seen.
type ChangeWatcher struct {
	Approvals ApprovalRepo
	Broker    *events.Broker

	mu       sync.Mutex
	lastSeen time.Time
	known    map[string]time.Time
	primed   bool
	wakeup   chan struct{}
}

func NewChangeWatcher(approvals ApprovalRepo, broker *events.Broker) *ChangeWatcher {
	return &ChangeWatcher{
		Approvals: approvals,
		Broker:    broker,
		known:     make(map[string]time.Time),
		wakeup:    make(chan struct{}, 1),
	}
}

// Start polls at the given interval until ctx is cancelled. A non-positive interval uses the default.
func (w *ChangeWatcher) Start(ctx context.Context, pollInterval time.Duration) {
	if pollInterval <= 0 {
		slog.Warn("Invalid approval watch interval, using default", "poll_interval", pollInterval.String(), "default", defaultWatchInterval.String())
		pollInterval = defaultWatchInterval
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	w.Poll(ctx)
	slog.Info("Approval change watcher started", "poll_interval", pollInterval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Approval change watcher stopping due to context cancel")
			return
		case <-ticker.C:
			w.Poll(ctx)
		case <-w.wakeup:
			w.Poll(ctx)
		}
	}
}

// Wakeup asks for an immediate poll, used after this service writes an approval.
func (w *ChangeWatcher) Wakeup() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

// Poll publishes an event for every row that is new or changed since the previous poll and returns
// how many were published. The first poll only records what already exists.
func (w *ChangeWatcher) Poll(ctx context.Context) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	published := 0
	for {
		rows, err := w.Approvals.FindUpdatedSince(ctx, w.lastSeen, watchBatchSize)
		if err != nil {
			slog.ErrorContext(ctx, "Error polling approval changes", "error", err)
			return published
		}
		before := w.lastSeen
		for _, row := range rows {
			prev, seen := w.known[row.ID]
			if seen && !row.UpdatedAt.After(prev) {
				continue
			}
			w.known[row.ID] = row.UpdatedAt
			if row.UpdatedAt.After(w.lastSeen) {
				w.lastSeen = row.UpdatedAt
			}
			if !w.primed {
				continue
			}
			changeType := events.ChangeUpdate
			if !seen {
				changeType = events.ChangeInsert
			}
			w.Broker.Publish(approvalEvent(changeType, row))
			published++
		}
		// a full batch may have more behind it, unless every row shares one timestamp
		if len(rows) < watchBatchSize || !w.lastSeen.After(before) {
			break
		}
	}
	// only rows at lastSeen can come back unchanged; anything older returns with a newer stamp
	for id, ts := range w.known {
		if ts.Before(w.lastSeen) {
			delete(w.known, id)
		}
	}
	w.primed = true
	return published
}

func approvalEvent(changeType events.ChangeType, a domain.Approval) events.ChangeEvent {
	return events.ChangeEvent{
		Type:   changeType,
		Table:  events.TableApprovals,
		ID:     a.ID,
		Record: models.ToApprovalApi(a),
	}
}
