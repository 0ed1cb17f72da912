package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/service/slack"
	"github.com/mopc-lab/expropia/pkg/utils/logging"
)

// OverdueTaskWorker periodically scans open tasks and raises notifications
// for tasks that passed their due date.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Notified task IDs are tracked in-process; a restart may renotify
type OverdueTaskWorker struct {
	repo     interfaces.Repository
	slackSvc slack.Service
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu       sync.Mutex
	notified map[int64]struct{}
}

// WorkerOption is a functional option for OverdueTaskWorker
type WorkerOption func(*OverdueTaskWorker)

// WithSlack enables Slack announcements for overdue tasks
func WithSlack(svc slack.Service) WorkerOption {
	return func(w *OverdueTaskWorker) {
		w.slackSvc = svc
	}
}

// WithClock overrides the time source, used in tests
func WithClock(now func() time.Time) WorkerOption {
	return func(w *OverdueTaskWorker) {
		w.now = now
	}
}

// NewOverdueTaskWorker creates a worker scanning at the given interval.
func NewOverdueTaskWorker(repo interfaces.Repository, interval time.Duration, opts ...WorkerOption) *OverdueTaskWorker {
	w := &OverdueTaskWorker{
		repo:     repo,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		notified: make(map[int64]struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start begins the background scan loop. It does not block server startup.
func (w *OverdueTaskWorker) Start(ctx context.Context) error {
	logging.Default().Info("Overdue task worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *OverdueTaskWorker) Stop() {
	logging.Default().Info("Overdue task worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Overdue task worker stopped")
}

func (w *OverdueTaskWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.Scan(ctx); err != nil {
		logging.Default().Error("Initial overdue scan failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Scan(ctx); err != nil {
				logging.Default().Error("Overdue scan failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Overdue task worker context cancelled")
			return
		}
	}
}

// Scan performs a single scan cycle over all open tasks.
func (w *OverdueTaskWorker) Scan(ctx context.Context) error {
	now := w.now()

	tasks, err := w.repo.Task().ListOpen(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list open tasks")
	}

	var raised int
	for _, task := range tasks {
		if !task.IsOverdue(now) {
			continue
		}
		if w.alreadyNotified(task.ID) {
			continue
		}

		if err := w.notify(ctx, task); err != nil {
			logging.Default().Error("failed to notify overdue task",
				"task_id", task.ID, "error", err.Error())
			continue
		}

		w.markNotified(task.ID)
		raised++
	}

	if raised > 0 {
		logging.Default().Info("Overdue scan completed",
			"open_tasks", len(tasks), "raised", raised)
	}

	return nil
}

func (w *OverdueTaskWorker) notify(ctx context.Context, task *model.Task) error {
	if task.AssigneeID != "" {
		_, err := w.repo.Notification().Create(ctx, &model.Notification{
			RecipientID: task.AssigneeID,
			Type:        types.NotificationTypeTaskOverdue,
			Title:       "Task overdue",
			Body:        fmt.Sprintf("%q passed its due date", task.Title),
			CaseID:      task.CaseID,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create overdue notification")
		}
	}

	if w.slackSvc != nil {
		cs, err := w.repo.Case().Get(ctx, task.CaseID)
		if err != nil {
			return goerr.Wrap(err, "failed to get case for overdue task")
		}
		if err := w.slackSvc.NotifyTaskOverdue(ctx, cs, task); err != nil {
			return goerr.Wrap(err, "failed to post overdue task to slack")
		}
	}

	return nil
}

func (w *OverdueTaskWorker) alreadyNotified(taskID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.notified[taskID]
	return ok
}

func (w *OverdueTaskWorker) markNotified(taskID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notified[taskID] = struct{}{}
}
