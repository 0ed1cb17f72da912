package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/repository/memory"
	"github.com/mopc-lab/expropia/pkg/service/worker"
)

func TestOverdueTaskWorkerScan(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memory.Memory, int64) {
		t.Helper()
		repo := memory.New()

		cs, err := repo.Case().Create(ctx, &model.Case{
			OwnerName:       "Juan Morales",
			OwnerNationalID: "MORJ800101",
			Address:         "Av. Hidalgo 123",
			Municipality:    "Guadalajara",
			Province:        "Jalisco",
		})
		gt.NoError(t, err).Required()
		return repo, cs.ID
	}

	t.Run("raises notification for overdue assigned task", func(t *testing.T) {
		repo, caseID := setup(t)
		now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		due := now.Add(-48 * time.Hour)

		_, err := repo.Task().Create(ctx, &model.Task{
			CaseID:     caseID,
			Title:      "Issue occupancy notice",
			Type:       types.TaskTypeNotification,
			AssigneeID: "U100",
			DueAt:      &due,
		})
		gt.NoError(t, err).Required()

		w := worker.NewOverdueTaskWorker(repo, time.Minute, worker.WithClock(func() time.Time { return now }))
		gt.NoError(t, w.Scan(ctx)).Required()

		notifications, err := repo.Notification().ListByRecipient(ctx, "U100", true)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(1)
		gt.Value(t, notifications[0].Type).Equal(types.NotificationTypeTaskOverdue)
		gt.Value(t, notifications[0].CaseID).Equal(caseID)
	})

	t.Run("does not renotify the same task", func(t *testing.T) {
		repo, caseID := setup(t)
		now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		due := now.Add(-time.Hour)

		_, err := repo.Task().Create(ctx, &model.Task{
			CaseID:     caseID,
			Title:      "Collect appraisal report",
			Type:       types.TaskTypeDocumentation,
			AssigneeID: "U100",
			DueAt:      &due,
		})
		gt.NoError(t, err).Required()

		w := worker.NewOverdueTaskWorker(repo, time.Minute, worker.WithClock(func() time.Time { return now }))
		gt.NoError(t, w.Scan(ctx)).Required()
		gt.NoError(t, w.Scan(ctx)).Required()

		notifications, err := repo.Notification().ListByRecipient(ctx, "U100", false)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(1)
	})

	t.Run("ignores tasks that are not overdue", func(t *testing.T) {
		repo, caseID := setup(t)
		now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		future := now.Add(24 * time.Hour)

		_, err := repo.Task().Create(ctx, &model.Task{
			CaseID:     caseID,
			Title:      "Future task",
			Type:       types.TaskTypeReview,
			AssigneeID: "U200",
			DueAt:      &future,
		})
		gt.NoError(t, err).Required()

		_, err = repo.Task().Create(ctx, &model.Task{
			CaseID:     caseID,
			Title:      "No due date",
			Type:       types.TaskTypeReview,
			AssigneeID: "U200",
		})
		gt.NoError(t, err).Required()

		w := worker.NewOverdueTaskWorker(repo, time.Minute, worker.WithClock(func() time.Time { return now }))
		gt.NoError(t, w.Scan(ctx)).Required()

		notifications, err := repo.Notification().ListByRecipient(ctx, "U200", false)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(0)
	})

	t.Run("ignores completed tasks even past due date", func(t *testing.T) {
		repo, caseID := setup(t)
		now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		due := now.Add(-time.Hour)

		task, err := repo.Task().Create(ctx, &model.Task{
			CaseID:     caseID,
			Title:      "Done already",
			Type:       types.TaskTypeReview,
			AssigneeID: "U300",
			DueAt:      &due,
		})
		gt.NoError(t, err).Required()

		task.Status = types.TaskStatusCompleted
		_, err = repo.Task().Update(ctx, task)
		gt.NoError(t, err).Required()

		w := worker.NewOverdueTaskWorker(repo, time.Minute, worker.WithClock(func() time.Time { return now }))
		gt.NoError(t, w.Scan(ctx)).Required()

		notifications, err := repo.Notification().ListByRecipient(ctx, "U300", false)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(0)
	})
}
